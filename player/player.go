// Package player defines the playback backend abstraction driven by the session controller.
// The primary implementation targets mpv via its JSON-IPC interface.
package player

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"
	"github.com/vplay-cli/vplay/key"
)

var (
	// ErrNotLoaded is returned by queries issued while no media is bound.
	ErrNotLoaded = errors.New("no media loaded")

	// ErrFullscreenUnavailable is returned when no fullscreen strategy succeeded.
	ErrFullscreenUnavailable = errors.New("fullscreen unavailable")
)

// ReadyFunc receives the media duration in seconds once the backend knows it.
type ReadyFunc func(duration float64)

// Player encapsulates the capabilities the session controller needs from a playback backend.
// Implementations need not be safe for concurrent use except for the ReadyFunc,
// which may be invoked from a backend goroutine.
type Player interface {
	// Load binds target as the current media resource, replacing any previous one.
	// Playback stays paused until Play is called. onReady fires at most once,
	// when the duration of target becomes known.
	Load(target string, onReady ReadyFunc) error

	// Unload releases the current media resource. It is a no-op when nothing is loaded.
	Unload() error

	// Play starts or resumes playback.
	Play() error

	// Pause halts playback.
	Pause() error

	// TimePos retrieves the current playback position in seconds.
	TimePos() (float64, error)

	// Duration retrieves the total length of the current media in seconds.
	Duration() (float64, error)

	// SetVolume applies a volume in [0, 1].
	SetVolume(volume float64) error

	// SetSpeed applies a playback rate multiplier.
	SetSpeed(rate float64) error

	// Seek moves playback to an absolute position in seconds. Range handling is left to the backend.
	Seek(seconds float64) error

	// Fullscreen requests fullscreen presentation, trying each available strategy in order.
	Fullscreen() error

	// IsRunning validates the liveness of the underlying playback process.
	IsRunning() bool

	// Close terminates the backend and releases all associated system resources.
	Close() error

	// Wait returns a channel that is closed when the backend terminates.
	Wait() <-chan struct{}

	// Socket retrieves the identifier of the IPC channel.
	Socket() string
}

// New builds the backend named by the player.default configuration key.
func New() (Player, error) {
	switch name := viper.GetString(key.Player); name {
	case "mpv", "":
		return NewMPV(viper.GetString(key.PlayerBinary)), nil
	default:
		return nil, fmt.Errorf("unknown player backend %q", name)
	}
}
