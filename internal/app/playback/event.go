package playback

import "github.com/andrewgepearce/pymus/internal/domain/track"

// EventType represents a playback event type.
type EventType int

const (
	EventTrackStarted   EventType = iota // Track started playing
	EventTrackEnded                      // Track finished playing
	EventTrackSkipped                    // Track failed to load and was skipped
	EventStateChanged                    // Playback state changed (pause/resume/stop)
	EventQueueExhausted                  // Queue ran out of tracks
)

// String returns the string representation of the event type.
func (e EventType) String() string {
	switch e {
	case EventTrackStarted:
		return "track_started"
	case EventTrackEnded:
		return "track_ended"
	case EventTrackSkipped:
		return "track_skipped"
	case EventStateChanged:
		return "state_changed"
	case EventQueueExhausted:
		return "queue_exhausted"
	default:
		return "unknown"
	}
}

// Event represents a playback event.
type Event struct {
	Type  EventType
	Track *track.Track // Affected track (nil for some events)
	State State        // Playback state after the event
}
