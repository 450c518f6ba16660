// Package playertest provides an in-memory player.Player for tests.
package playertest

import (
	"errors"
	"fmt"
	"sync"

	"github.com/vplay-cli/vplay/player"
)

// Fake is a scripted player.Player. Position only changes through SetPosition or Seek,
// and readiness only fires through Ready, so tests drive time explicitly.
type Fake struct {
	mu sync.Mutex

	Target   string
	Loaded   bool
	Playing  bool
	Position float64
	Length   float64
	Volume   float64
	Speed    float64

	// Calls records every method invocation in order, e.g. "load /a.mp4", "unload", "seek 12.0".
	Calls []string

	// FullscreenErr is returned by Fullscreen when set.
	FullscreenErr error
	// PositionErr is returned by TimePos when set.
	PositionErr error
	// PlayErr is returned by Play when set.
	PlayErr error

	onReady player.ReadyFunc
	closed  bool
	exited  chan struct{}
}

// New returns an idle Fake.
func New() *Fake {
	return &Fake{exited: make(chan struct{})}
}

var _ player.Player = (*Fake)(nil)

func (f *Fake) record(format string, args ...interface{}) {
	f.Calls = append(f.Calls, fmt.Sprintf(format, args...))
}

func (f *Fake) Load(target string, onReady player.ReadyFunc) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if target == "" {
		return errors.New("empty target")
	}
	if f.Loaded {
		return errors.New("load while another resource is bound")
	}

	f.record("load %s", target)
	f.Target = target
	f.Loaded = true
	f.Playing = false
	f.Position = 0
	f.Length = 0
	f.onReady = onReady
	return nil
}

func (f *Fake) Unload() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.record("unload")
	f.Target = ""
	f.Loaded = false
	f.Playing = false
	f.Position = 0
	f.Length = 0
	f.onReady = nil
	return nil
}

func (f *Fake) Play() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.Loaded {
		return player.ErrNotLoaded
	}
	if f.PlayErr != nil {
		return f.PlayErr
	}
	f.record("play")
	f.Playing = true
	return nil
}

func (f *Fake) Pause() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.Loaded {
		return player.ErrNotLoaded
	}
	f.record("pause")
	f.Playing = false
	return nil
}

func (f *Fake) TimePos() (float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.PositionErr != nil {
		return 0, f.PositionErr
	}
	if !f.Loaded {
		return 0, player.ErrNotLoaded
	}
	return f.Position, nil
}

func (f *Fake) Duration() (float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.Loaded || f.Length == 0 {
		return 0, player.ErrNotLoaded
	}
	return f.Length, nil
}

func (f *Fake) SetVolume(volume float64) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.record("volume %.1f", volume)
	f.Volume = volume
	return nil
}

func (f *Fake) SetSpeed(rate float64) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.record("speed %.1f", rate)
	f.Speed = rate
	return nil
}

// Seek behaves like an HTML media element: the position is clamped to [0, Length].
func (f *Fake) Seek(seconds float64) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.Loaded {
		return player.ErrNotLoaded
	}
	f.record("seek %.1f", seconds)

	switch {
	case seconds < 0:
		f.Position = 0
	case f.Length > 0 && seconds > f.Length:
		f.Position = f.Length
	default:
		f.Position = seconds
	}
	return nil
}

func (f *Fake) Fullscreen() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.record("fullscreen")
	return f.FullscreenErr
}

func (f *Fake) IsRunning() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return !f.closed
}

func (f *Fake) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.closed {
		f.closed = true
		close(f.exited)
	}
	return nil
}

func (f *Fake) Wait() <-chan struct{} {
	return f.exited
}

func (f *Fake) Socket() string {
	return "fake"
}

// Ready reports the duration of the current media, firing the pending readiness callback once.
func (f *Fake) Ready(duration float64) {
	f.mu.Lock()
	f.Length = duration
	onReady := f.onReady
	f.onReady = nil
	f.mu.Unlock()

	if onReady != nil {
		onReady(duration)
	}
}

// SetPosition moves the playback head as if time had passed.
func (f *Fake) SetPosition(seconds float64) {
	f.mu.Lock()
	f.Position = seconds
	f.mu.Unlock()
}

// Snapshot returns a copy of the recorded calls.
func (f *Fake) Snapshot() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.Calls...)
}
