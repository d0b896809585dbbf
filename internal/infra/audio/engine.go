// Package audio implements the playback engine on top of beep.
package audio

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/flac"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/gopxl/beep/v2/vorbis"
	"github.com/gopxl/beep/v2/wav"
)

// ErrUnsupported is returned for files no decoder handles.
var ErrUnsupported = errors.New("unsupported audio format")

// Engine decodes audio files and drives the speaker. The speaker runs
// its own goroutine and fires the end-of-stream callback from it, so
// internal state is mutex-guarded even though commands arrive from a
// single caller.
type Engine struct {
	mu sync.Mutex

	sampleRate beep.SampleRate

	file      *os.File
	streamer  beep.StreamSeekCloser
	format    beep.Format
	resampled beep.Streamer
	ctrl      *beep.Ctrl

	// Latched by the speaker callback when the stream drains; reset on
	// the next Load. A delayed poll therefore observes a given track
	// end at most once. The callback fires on the speaker goroutine
	// with the speaker mutex held, so the latch must stay lock-free:
	// taking mu there inverts against Position and stopLocked, which
	// hold mu while entering the speaker lock.
	ended atomic.Bool
}

// NewEngine creates an engine at the standard output sample rate.
func NewEngine() *Engine {
	return &Engine{sampleRate: beep.SampleRate(44100)}
}

// Init opens the audio output device. Failure here is fatal to the
// application: there is no playback without a speaker.
func (e *Engine) Init(buffer time.Duration) error {
	if err := speaker.Init(e.sampleRate, e.sampleRate.N(buffer)); err != nil {
		return errors.Wrap(err, "failed to initialize audio output")
	}
	return nil
}

// Load decodes the file at path and prepares it for playback,
// replacing any previously loaded track.
func (e *Engine) Load(path string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.stopLocked()

	f, err := os.Open(path)
	if err != nil {
		return errors.Wrapf(err, "failed to open %s", path)
	}

	streamer, format, err := decode(f, path)
	if err != nil {
		f.Close()
		return err
	}

	e.file = f
	e.streamer = streamer
	e.format = format
	e.resampled = beep.Resample(4, format.SampleRate, e.sampleRate, streamer)
	e.ctrl = &beep.Ctrl{Streamer: e.resampled}
	e.ended.Store(false)
	return nil
}

func decode(f *os.File, path string) (beep.StreamSeekCloser, beep.Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp3":
		return mp3.Decode(f)
	case ".wav":
		return wav.Decode(f)
	case ".flac":
		return flac.Decode(f)
	case ".ogg", ".oga":
		return vorbis.Decode(f)
	default:
		return nil, beep.Format{}, errors.Wrapf(ErrUnsupported, "%s", filepath.Ext(path))
	}
}

// Play submits the loaded track to the speaker.
func (e *Engine) Play() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.ctrl == nil {
		return
	}
	speaker.Play(beep.Seq(e.ctrl, beep.Callback(e.markEnded)))
}

// markEnded is the end-of-stream callback. It runs under the speaker
// mutex and must not take e.mu.
func (e *Engine) markEnded() {
	e.ended.Store(true)
}

// Pause suspends playback.
func (e *Engine) Pause() {
	e.setPaused(true)
}

// Resume continues paused playback.
func (e *Engine) Resume() {
	e.setPaused(false)
}

func (e *Engine) setPaused(paused bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.ctrl == nil {
		return
	}
	speaker.Lock()
	e.ctrl.Paused = paused
	speaker.Unlock()
}

// Stop halts playback and releases the loaded track.
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.stopLocked()
}

func (e *Engine) stopLocked() {
	if e.ctrl != nil {
		speaker.Clear()
	}
	if e.streamer != nil {
		e.streamer.Close()
		e.streamer = nil
	}
	if e.file != nil {
		e.file.Close()
		e.file = nil
	}
	e.ctrl = nil
	e.resampled = nil
	e.ended.Store(false)
}

// Position reports elapsed and total time of the loaded track and
// whether it has reached its natural end.
func (e *Engine) Position() (elapsed, total time.Duration, ended bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.streamer == nil {
		return 0, 0, e.ended.Load()
	}

	speaker.Lock()
	pos := e.streamer.Position()
	length := e.streamer.Len()
	speaker.Unlock()

	return e.format.SampleRate.D(pos), e.format.SampleRate.D(length), e.ended.Load()
}

// Close shuts down the audio output.
func (e *Engine) Close() error {
	e.Stop()
	speaker.Close()
	return nil
}
