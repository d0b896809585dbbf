// Package playback provides the playback state machine driving the
// audio engine and advancing the queue on track completion.
package playback

// State represents the playback state.
type State int

const (
	StateStopped State = iota // No track loaded (queue empty or stopped)
	StatePlaying              // Track is playing
	StatePaused               // Track is paused
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateStopped:
		return "stopped"
	case StatePlaying:
		return "playing"
	case StatePaused:
		return "paused"
	default:
		return "unknown"
	}
}
