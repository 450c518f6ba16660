package player

import (
	"crypto/rand"
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/vplay-cli/vplay/log"
)

const (
	socketWaitRetries = 10
	socketWaitDelay   = 300 * time.Millisecond
	quitTimeout       = 3 * time.Second
)

// fullscreenStrategies are tried in order until one is accepted by mpv.
var fullscreenStrategies = [][]interface{}{
	{"set_property", "fullscreen", true},
	{"cycle", "fullscreen"},
	{"keypress", "f"},
}

// MPV implements the Player interface using mpv's JSON-IPC protocol.
// A single idle mpv process is kept alive; media is bound and released with loadfile/stop.
type MPV struct {
	binary     string
	socketPath string
	cmd        *exec.Cmd
	exited     chan struct{} // closed when mpv process exits
	events     *EventListener
	mu         sync.Mutex // serializes socket round trips

	readyMu sync.Mutex
	onReady ReadyFunc // pending readiness callback for the current load
}

// NewMPV creates a new MPV player instance. The process starts on the first Load.
func NewMPV(binary string) *MPV {
	if binary == "" {
		binary = "mpv"
	}

	exited := make(chan struct{})
	close(exited)

	return &MPV{
		binary: binary,
		exited: exited,
	}
}

// Load binds target, paused, and arms onReady for the next known duration.
func (m *MPV) Load(target string, onReady ReadyFunc) error {
	safeTarget, err := sanitizeMediaTarget(target)
	if err != nil {
		return fmt.Errorf("invalid media target: %w", err)
	}

	if !m.alive() {
		if err := m.start(); err != nil {
			return err
		}
	}

	m.setReady(onReady)

	if _, err := m.sendCommand("set_property", "pause", true); err != nil {
		m.setReady(nil)
		return fmt.Errorf("pause before load: %w", err)
	}

	if _, err := m.sendCommand("loadfile", safeTarget, "replace"); err != nil {
		m.setReady(nil)
		return fmt.Errorf("loadfile: %w", err)
	}

	log.Infof("mpv loading %s", safeTarget)
	return nil
}

// Unload stops playback and clears mpv's playlist, leaving the process idle.
func (m *MPV) Unload() error {
	m.setReady(nil)

	if !m.alive() {
		return nil
	}

	_, err := m.sendCommand("stop")
	return err
}

// Play clears the pause flag.
func (m *MPV) Play() error {
	return m.set("pause", false)
}

// Pause sets the pause flag.
func (m *MPV) Pause() error {
	return m.set("pause", true)
}

// TimePos returns the current playback position in seconds.
func (m *MPV) TimePos() (float64, error) {
	return m.getFloatProperty("time-pos")
}

// Duration returns the total duration of the current media in seconds.
func (m *MPV) Duration() (float64, error) {
	return m.getFloatProperty("duration")
}

// SetVolume maps [0, 1] onto mpv's 0-100 volume scale.
func (m *MPV) SetVolume(volume float64) error {
	return m.set("volume", volume*100)
}

// SetSpeed sets the playback speed multiplier.
func (m *MPV) SetSpeed(rate float64) error {
	return m.set("speed", rate)
}

// Seek moves playback to the given absolute position in seconds.
func (m *MPV) Seek(seconds float64) error {
	_, err := m.sendCommand("seek", seconds, "absolute")
	return err
}

// Fullscreen tries each fullscreen strategy in order and stops at the first one mpv accepts.
func (m *MPV) Fullscreen() error {
	var errs []error
	for _, strategy := range fullscreenStrategies {
		if _, err := m.sendCommand(strategy...); err != nil {
			errs = append(errs, err)
			continue
		}
		return nil
	}
	return fmt.Errorf("%w: %w", ErrFullscreenUnavailable, errors.Join(errs...))
}

// IsRunning reports whether mpv is responding to IPC commands.
func (m *MPV) IsRunning() bool {
	if !m.alive() {
		return false
	}

	_, err := m.sendCommand("get_property", "pid")
	return err == nil
}

// Close shuts down the mpv process and cleans up resources.
func (m *MPV) Close() error {
	m.setReady(nil)

	if m.events != nil {
		m.events.Stop()
		m.events = nil
	}

	if m.socketPath == "" || m.cmd == nil {
		return nil
	}

	// Try graceful quit via IPC
	_, _ = m.sendCommand("quit")

	select {
	case <-m.exited:
	case <-time.After(quitTimeout):
		_ = killProcess(m.cmd)
	}

	_ = os.Remove(m.socketPath)
	return nil
}

// Wait returns a channel that is closed when the mpv process exits.
func (m *MPV) Wait() <-chan struct{} {
	return m.exited
}

// Socket returns the IPC socket path.
func (m *MPV) Socket() string {
	return m.socketPath
}

// start launches an idle mpv and subscribes to duration changes.
func (m *MPV) start() error {
	if m.socketPath == "" {
		randomBytes := make([]byte, 4)
		if _, err := rand.Read(randomBytes); err != nil {
			return fmt.Errorf("generate socket name: %w", err)
		}
		// os.TempDir keeps the path short enough for sun_path on every platform.
		m.socketPath = filepath.Join(os.TempDir(), fmt.Sprintf("vplay-%x.sock", randomBytes))
	}

	// Respect the user's mpv.conf: only pass what the controller depends on.
	args := []string{
		"--no-terminal",
		"--really-quiet",
		fmt.Sprintf("--input-ipc-server=%s", m.socketPath),
		"--force-window=yes",
		"--idle=yes",
		"--keep-open=yes",
	}

	m.cmd = exec.Command(m.binary, args...)
	m.cmd.SysProcAttr = sysProcAttr()
	m.cmd.Stdout = nil
	m.cmd.Stderr = nil
	m.cmd.Stdin = nil

	if err := m.cmd.Start(); err != nil {
		return fmt.Errorf("start mpv: %w", err)
	}

	// Reap the process in the background to prevent zombies.
	exited := make(chan struct{})
	m.exited = exited
	cmd := m.cmd
	go func() {
		_ = cmd.Wait()
		close(exited)
	}()

	if err := m.waitForSocket(); err != nil {
		select {
		case <-m.exited:
		default:
			log.Warnf("killing mpv: socket never became ready")
			_ = killProcess(m.cmd)
		}
		return fmt.Errorf("mpv socket not ready: %w", err)
	}

	m.events = NewEventListener(m.socketPath, m.handleEvent, "duration")
	if err := m.events.Start(); err != nil {
		return err
	}

	log.Infof("mpv started on socket %s", m.socketPath)
	return nil
}

// waitForSocket polls until the mpv IPC socket is accepting connections.
func (m *MPV) waitForSocket() error {
	for i := 0; i < socketWaitRetries; i++ {
		time.Sleep(socketWaitDelay)

		select {
		case <-m.exited:
			return fmt.Errorf("mpv exited before socket was ready")
		default:
		}

		conn, err := net.Dial("unix", m.socketPath)
		if err == nil {
			conn.Close()
			return nil
		}
	}
	return fmt.Errorf("socket %s not ready after %d attempts", m.socketPath, socketWaitRetries)
}

// handleEvent fires the pending readiness callback the first time a positive duration is observed.
func (m *MPV) handleEvent(name string, data interface{}) {
	if name != "duration" {
		return
	}

	duration, ok := data.(float64)
	if !ok || duration <= 0 {
		return
	}

	m.readyMu.Lock()
	onReady := m.onReady
	m.onReady = nil
	m.readyMu.Unlock()

	if onReady != nil {
		onReady(duration)
	}
}

func (m *MPV) setReady(onReady ReadyFunc) {
	m.readyMu.Lock()
	m.onReady = onReady
	m.readyMu.Unlock()
}

// alive reports whether the mpv process is still running.
func (m *MPV) alive() bool {
	if m.socketPath == "" {
		return false
	}

	select {
	case <-m.exited:
		return false
	default:
		return true
	}
}

func (m *MPV) set(property string, value interface{}) error {
	if !m.alive() {
		return ErrNotLoaded
	}

	_, err := m.sendCommand("set_property", property, value)
	return err
}

// getFloatProperty is a helper to retrieve a float64 mpv property via IPC.
func (m *MPV) getFloatProperty(name string) (float64, error) {
	if !m.alive() {
		return 0, ErrNotLoaded
	}

	data, err := m.sendCommand("get_property", name)
	if err != nil {
		if strings.Contains(err.Error(), "property unavailable") {
			return 0, ErrNotLoaded
		}
		return 0, err
	}

	val, ok := data.(float64)
	if !ok {
		return 0, fmt.Errorf("property %s: expected float64, got %T", name, data)
	}

	return val, nil
}

// sanitizeMediaTarget validates that a target is safe to pass to mpv.
func sanitizeMediaTarget(target string) (string, error) {
	t := strings.TrimSpace(target)
	if t == "" {
		return "", fmt.Errorf("empty target")
	}

	if strings.ContainsAny(t, "\x00\n\r") {
		return "", fmt.Errorf("invalid control characters in target")
	}

	// Prevent flag injection
	if strings.HasPrefix(t, "-") {
		return "", fmt.Errorf("target must not start with '-' (looks like a flag)")
	}

	if strings.Contains(t, "://") {
		u, err := url.Parse(t)
		if err != nil {
			return "", fmt.Errorf("invalid URL: %w", err)
		}
		switch strings.ToLower(u.Scheme) {
		case "http", "https", "file":
			return t, nil
		default:
			return "", fmt.Errorf("unsupported URL scheme: %s", u.Scheme)
		}
	}

	return filepath.Clean(t), nil
}
