package playback

import (
	"time"

	zlog "github.com/rs/zerolog/log"

	"github.com/andrewgepearce/pymus/internal/domain/queue"
)

// Engine is the audio output capability the controller drives. The
// implementation may block or run asynchronously internally, but the
// controller only ever has one outstanding command at a time.
type Engine interface {
	Load(path string) error
	Play()
	Pause()
	Resume()
	Stop()
	// Position reports elapsed and total time of the loaded track, and
	// whether it has reached its natural end. The ended flag must stay
	// latched until the next Load so a delayed poll cannot observe the
	// end twice.
	Position() (elapsed, total time.Duration, ended bool)
	Close() error
}

// Status is a snapshot of the playback state for rendering.
type Status struct {
	State    State
	Position time.Duration
	Length   time.Duration
}

// Controller coordinates the engine with the queue. It is confined to
// the UI event loop: all methods must be called from a single
// goroutine.
type Controller struct {
	engine Engine
	queue  *queue.Queue
	state  State
	events []Event
}

// NewController creates a controller in the Stopped state.
func NewController(engine Engine, q *queue.Queue) *Controller {
	return &Controller{
		engine: engine,
		queue:  q,
		state:  StateStopped,
	}
}

// State returns the current playback state.
func (c *Controller) State() State {
	return c.state
}

// TakeEvents returns the events accumulated since the last call and
// clears them.
func (c *Controller) TakeEvents() []Event {
	evs := c.events
	c.events = nil
	return evs
}

// PlayCurrent loads and plays the queue's current track. A track that
// fails to load is skipped like a naturally ended one, so a single bad
// file never halts playback; an exhausted queue stops it.
func (c *Controller) PlayCurrent() {
	for {
		t, ok := c.queue.CurrentTrack()
		if !ok {
			c.stopExhausted()
			return
		}

		if err := c.engine.Load(t.Path); err != nil {
			zlog.Warn().Err(err).Str("track", t.Path).Msg("playback: load failed, skipping track")
			c.emit(Event{Type: EventTrackSkipped, Track: &t, State: c.state})
			if _, ok := c.queue.Advance(); !ok {
				c.stopExhausted()
				return
			}
			continue
		}

		c.engine.Play()
		c.state = StatePlaying
		zlog.Debug().Str("track", t.Path).Msg("playback: track started")
		c.emit(Event{Type: EventTrackStarted, Track: &t, State: c.state})
		return
	}
}

// Toggle pauses when playing, resumes when paused, and starts the
// current queue track when stopped.
func (c *Controller) Toggle() {
	switch c.state {
	case StatePlaying:
		c.engine.Pause()
		c.state = StatePaused
		c.emit(Event{Type: EventStateChanged, State: c.state})
	case StatePaused:
		c.engine.Resume()
		c.state = StatePlaying
		c.emit(Event{Type: EventStateChanged, State: c.state})
	case StateStopped:
		if _, ok := c.queue.CurrentTrack(); ok {
			c.PlayCurrent()
		}
	}
}

// Next stops the current track and plays the following queue entry, or
// stops when the queue is exhausted.
func (c *Controller) Next() {
	c.engine.Stop()
	if _, ok := c.queue.Advance(); !ok {
		c.stopExhausted()
		return
	}
	c.PlayCurrent()
}

// Prev stops the current track and plays the preceding queue entry. At
// the head of the queue the first track restarts.
func (c *Controller) Prev() {
	c.engine.Stop()
	if _, ok := c.queue.Previous(); !ok {
		c.setStopped()
		return
	}
	c.PlayCurrent()
}

// Stop halts playback from any state (queue cleared or current track
// removed).
func (c *Controller) Stop() {
	c.engine.Stop()
	c.setStopped()
}

// Tick polls the engine and returns a status snapshot. A natural track
// end observed in the Playing state behaves like an internally
// triggered Next; Paused and Stopped ignore the ended flag.
func (c *Controller) Tick() Status {
	if c.state == StateStopped {
		return Status{State: c.state}
	}

	elapsed, total, ended := c.engine.Position()
	if ended && c.state == StatePlaying {
		if t, ok := c.queue.CurrentTrack(); ok {
			zlog.Debug().Str("track", t.Path).Msg("playback: track ended")
			c.emit(Event{Type: EventTrackEnded, Track: &t, State: c.state})
		}
		if _, ok := c.queue.Advance(); !ok {
			c.stopExhausted()
			return Status{State: c.state}
		}
		c.PlayCurrent()
		elapsed, total, _ = c.engine.Position()
	}

	return Status{State: c.state, Position: elapsed, Length: total}
}

func (c *Controller) setStopped() {
	if c.state != StateStopped {
		c.state = StateStopped
		c.emit(Event{Type: EventStateChanged, State: c.state})
	}
}

func (c *Controller) stopExhausted() {
	c.engine.Stop()
	c.state = StateStopped
	zlog.Debug().Msg("playback: queue exhausted")
	c.emit(Event{Type: EventQueueExhausted, State: c.state})
}

func (c *Controller) emit(e Event) {
	c.events = append(c.events, e)
}
