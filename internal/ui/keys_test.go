package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeymap_Apply(t *testing.T) {
	k := DefaultKeymap()
	err := k.Apply(map[string]string{
		"quit":      "Q",
		"next":      ">",
		"move_up":   "u",
		"move_down": "m",
	})
	require.NoError(t, err)

	assert.Equal(t, "Q", k.Quit)
	assert.Equal(t, ">", k.Next)
	assert.Equal(t, "u", k.MoveUp)
	assert.Equal(t, "m", k.MoveDown)
	// Untouched bindings keep their defaults.
	assert.Equal(t, "tab", k.FocusToggle)
}

func TestKeymap_ApplyUnknownAction(t *testing.T) {
	k := DefaultKeymap()
	err := k.Apply(map[string]string{"warp": "w"})
	assert.Error(t, err)
}
