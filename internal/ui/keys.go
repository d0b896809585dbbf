package ui

import "github.com/cockroachdb/errors"

// Keymap holds the single-key commands. Navigation keys (arrows,
// j/k, enter, page keys) are fixed; everything here can be rebound
// from the config bindings section.
type Keymap struct {
	Quit        string
	FocusToggle string
	Search      string
	TogglePause string
	Next        string
	Prev        string
	Up          string
	Append      string
	PlayNow     string
	Remove      string
	MoveUp      string
	MoveDown    string
	Clear       string
}

// DefaultKeymap returns the built-in bindings.
func DefaultKeymap() Keymap {
	return Keymap{
		Quit:        "q",
		FocusToggle: "tab",
		Search:      "/",
		TogglePause: " ",
		Next:        "n",
		Prev:        "p",
		Up:          "h",
		Append:      "a",
		PlayNow:     "s",
		Remove:      "d",
		MoveUp:      "K",
		MoveDown:    "J",
		Clear:       "c",
	}
}

// Apply rebinding overrides by action name.
func (k *Keymap) Apply(overrides map[string]string) error {
	for action, key := range overrides {
		switch action {
		case "quit":
			k.Quit = key
		case "focus_toggle":
			k.FocusToggle = key
		case "search":
			k.Search = key
		case "toggle_pause":
			k.TogglePause = key
		case "next":
			k.Next = key
		case "prev":
			k.Prev = key
		case "up":
			k.Up = key
		case "append":
			k.Append = key
		case "play_now":
			k.PlayNow = key
		case "remove":
			k.Remove = key
		case "move_up":
			k.MoveUp = key
		case "move_down":
			k.MoveDown = key
		case "clear":
			k.Clear = key
		default:
			return errors.Newf("unknown binding action %q", action)
		}
	}
	return nil
}
