// Package session owns the state of the currently loaded media and the position sync loop.
// A Controller is not safe for concurrent use: every method must run on the goroutine
// behind its Scheduler, which in production is a Loop.
package session

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/samber/mo"
	"github.com/spf13/viper"
	"github.com/vplay-cli/vplay/constant"
	"github.com/vplay-cli/vplay/key"
	"github.com/vplay-cli/vplay/log"
	"github.com/vplay-cli/vplay/media"
	"github.com/vplay-cli/vplay/player"
	"github.com/vplay-cli/vplay/util"
)

// Direction is the sign of a stepped adjustment.
type Direction int

const (
	Down Direction = -1
	Up   Direction = 1
)

// Volume is kept in tenths and rate in halves so repeated steps never drift.
const (
	volumeMin     = 0
	volumeMax     = 10
	volumeDefault = 5

	rateMin     = 1
	rateMax     = 6
	rateDefault = 2
)

// Options tune a Controller.
type Options struct {
	PollInterval     time.Duration
	SeekStep         int
	BlockingAlert    bool
	FullscreenOnLoad bool
}

// DefaultOptions mirrors the configuration defaults.
func DefaultOptions() Options {
	return Options{
		PollInterval:  time.Second,
		SeekStep:      5,
		BlockingAlert: true,
	}
}

// OptionsFromConfig reads Options from viper, falling back to defaults for unusable values.
func OptionsFromConfig() Options {
	opts := DefaultOptions()

	if d := viper.GetDuration(key.PlayerPollInterval); d > 0 {
		opts.PollInterval = d
	}
	if step := viper.GetInt(key.PlayerSeekStep); step > 0 {
		opts.SeekStep = step
	}
	opts.BlockingAlert = viper.GetBool(key.KeysBlocking)
	opts.FullscreenOnLoad = viper.GetBool(key.PlayerFullscreenOnLoad)
	return opts
}

// Session is the state of one loaded media resource.
type Session struct {
	File     media.File
	Duration float64
	Position float64
	Playing  bool
	Ready    bool

	volume int
	rate   int
}

// Volume returns the current volume in [0, 1].
func (s *Session) Volume() float64 {
	return float64(s.volume) / 10
}

// Rate returns the current playback rate in [0.5, 3].
func (s *Session) Rate() float64 {
	return float64(s.rate) / 2
}

// Controller wires user commands to a playback backend and keeps a Surface in sync.
type Controller struct {
	backend   player.Player
	surface   Surface
	scheduler Scheduler
	opts      Options
	keymap    Keymap
	actions   map[Action]func() error

	session mo.Option[*Session]

	// loadGen identifies the most recent Load so a late readiness report for a replaced file is dropped.
	loadGen uint64
	// timerGen identifies the live poll timer; ticks carrying any other value are stale.
	timerGen  uint64
	stopTimer func()
}

// New returns an idle Controller. The surface starts out showing the unset sentinels.
func New(backend player.Player, surface Surface, scheduler Scheduler, opts Options) *Controller {
	c := &Controller{
		backend:   backend,
		surface:   surface,
		scheduler: scheduler,
		opts:      opts,
		keymap:    DefaultKeymap(),
		session:   mo.None[*Session](),
	}

	c.actions = map[Action]func() error{
		ActionPlay:       c.Play,
		ActionPause:      c.Pause,
		ActionToggle:     c.Toggle,
		ActionVolumeUp:   func() error { return c.AdjustVolume(Up) },
		ActionVolumeDown: func() error { return c.AdjustVolume(Down) },
		ActionSpeedUp:    func() error { return c.AdjustRate(Up) },
		ActionSpeedDown:  func() error { return c.AdjustRate(Down) },
		ActionForward:    func() error { return c.SeekRelative(c.opts.SeekStep) },
		ActionBackward:   func() error { return c.SeekRelative(-c.opts.SeekStep) },
		ActionFullscreen: c.Fullscreen,
		ActionStop:       c.Unload,
	}

	c.resetDisplay()
	return c
}

// Session returns the active session, if any.
func (c *Controller) Session() mo.Option[*Session] {
	return c.session
}

// Keymap returns the active key bindings.
func (c *Controller) Keymap() Keymap {
	return c.keymap
}

func (c *Controller) active() (*Session, error) {
	s, ok := c.session.Get()
	if !ok {
		return nil, ErrNoActiveSession
	}
	return s, nil
}

// Load replaces the current media with file. Files that do not declare a video
// content type are rejected with a notice and leave the current session as it was.
func (c *Controller) Load(file media.File) error {
	return c.load(file, constant.NoticeSelectVideo)
}

// LoadDropped is Load for files handed over by drag-and-drop or the drop folder.
func (c *Controller) LoadDropped(file media.File) error {
	return c.load(file, constant.NoticeDropVideo)
}

func (c *Controller) load(file media.File, rejection string) error {
	if !file.IsVideo() {
		c.surface.Notify(rejection)
		return fmt.Errorf("%w: %s (%s)", ErrInvalidFileType, file.Name, file.Type)
	}

	c.release()

	c.loadGen++
	gen := c.loadGen
	onReady := func(duration float64) {
		c.scheduler.Post(func() { c.ready(gen, duration) })
	}

	if err := c.backend.Load(file.Path, onReady); err != nil {
		c.resetDisplay()
		return fmt.Errorf("load %s: %w", file.Name, err)
	}

	s := &Session{
		File:   file,
		volume: volumeDefault,
		rate:   rateDefault,
	}
	c.session = mo.Some(s)

	logger := log.WithFields(log.Fields{"file": file.Name})
	if err := c.backend.SetVolume(s.Volume()); err != nil {
		logger.Warnf("apply volume: %s", err)
	}
	if err := c.backend.SetSpeed(s.Rate()); err != nil {
		logger.Warnf("apply rate: %s", err)
	}

	logger.Infof("loaded %s", file.Path)
	return nil
}

func (c *Controller) ready(gen uint64, duration float64) {
	s, ok := c.session.Get()
	if !ok || gen != c.loadGen {
		log.Debugf("dropping readiness report for load #%d", gen)
		return
	}
	if s.Ready {
		return
	}

	s.Duration = duration
	s.Ready = true
	c.surface.SetRange(duration)
	c.surface.SetTotal(media.FormatClock(duration))

	if err := c.backend.Play(); err != nil {
		log.Warnf("autoplay: %s", err)
	} else {
		s.Playing = true
		c.startTimer()
		c.surface.SetPlaying(true)
	}

	if c.opts.FullscreenOnLoad {
		if err := c.Fullscreen(); err != nil {
			log.Warnf("fullscreen on load: %s", err)
		}
	}
}

// Unload stops playback and releases the current media, resetting the display.
func (c *Controller) Unload() error {
	if _, err := c.active(); err != nil {
		return err
	}

	c.release()
	c.resetDisplay()
	return nil
}

// release tears down the current session without touching the display.
func (c *Controller) release() {
	s, ok := c.session.Get()
	if !ok {
		return
	}

	c.cancelTimer()
	if s.Playing {
		if err := c.backend.Pause(); err != nil {
			log.Debugf("pause before release: %s", err)
		}
		s.Playing = false
		c.surface.SetPlaying(false)
	}
	if err := c.backend.Unload(); err != nil {
		log.Warnf("unload %s: %s", s.File.Name, err)
	}

	c.session = mo.None[*Session]()
}

func (c *Controller) resetDisplay() {
	c.surface.SetPosition(0)
	c.surface.SetElapsed(constant.ElapsedUnset)
	c.surface.SetTotal(constant.TotalUnset)
}

// Play resumes playback and restarts the poll timer.
func (c *Controller) Play() error {
	s, err := c.active()
	if err != nil {
		return err
	}

	if err := c.backend.Play(); err != nil {
		return fmt.Errorf("play: %w", err)
	}

	s.Playing = true
	c.startTimer()
	c.surface.SetPlaying(true)
	return nil
}

// Pause halts playback and stops the poll timer.
func (c *Controller) Pause() error {
	s, err := c.active()
	if err != nil {
		return err
	}

	if err := c.backend.Pause(); err != nil {
		return fmt.Errorf("pause: %w", err)
	}

	s.Playing = false
	c.cancelTimer()
	c.surface.SetPlaying(false)
	return nil
}

// Toggle flips between Play and Pause.
func (c *Controller) Toggle() error {
	s, err := c.active()
	if err != nil {
		return err
	}

	if s.Playing {
		return c.Pause()
	}
	return c.Play()
}

// AdjustRate steps the playback rate by 0.5 within [0.5, 3.0].
// The notification is shown even when the rate is already at a bound.
func (c *Controller) AdjustRate(dir Direction) error {
	s, err := c.active()
	if err != nil {
		return err
	}

	next := util.Clamp(s.rate+int(dir), rateMin, rateMax)
	if next != s.rate {
		s.rate = next
		if err := c.backend.SetSpeed(s.Rate()); err != nil {
			return fmt.Errorf("set speed: %w", err)
		}
	}

	c.surface.Notify(media.FormatRate(s.Rate()))
	return nil
}

// AdjustVolume steps the volume by 0.1 within [0.0, 1.0].
// The notification is shown even when the volume is already at a bound.
func (c *Controller) AdjustVolume(dir Direction) error {
	s, err := c.active()
	if err != nil {
		return err
	}

	next := util.Clamp(s.volume+int(dir), volumeMin, volumeMax)
	if next != s.volume {
		s.volume = next
		if err := c.backend.SetVolume(s.Volume()); err != nil {
			return fmt.Errorf("set volume: %w", err)
		}
	}

	c.surface.Notify(media.FormatVolume(s.Volume()))
	return nil
}

// Seek moves playback to an absolute position. The target is handed to the backend
// as is; the next poll tick reflects wherever the backend actually landed.
func (c *Controller) Seek(target float64) error {
	if _, err := c.active(); err != nil {
		return err
	}

	if err := c.backend.Seek(target); err != nil {
		return fmt.Errorf("seek: %w", err)
	}
	return nil
}

// SeekRelative moves playback by delta seconds, clamped to [0, duration],
// and updates the display immediately.
func (c *Controller) SeekRelative(delta int) error {
	s, err := c.active()
	if err != nil {
		return err
	}

	current, err := c.backend.TimePos()
	if err != nil {
		current = s.Position
	}

	target := math.Max(current+float64(delta), 0)
	if s.Ready {
		target = util.Clamp(target, 0, s.Duration)
	}

	if err := c.backend.Seek(target); err != nil {
		return fmt.Errorf("seek: %w", err)
	}

	s.Position = target
	c.surface.SetPosition(target)
	c.surface.SetElapsed(media.FormatClock(target))
	c.surface.Notify(media.FormatSeek(delta))
	return nil
}

// Fullscreen asks the backend for fullscreen presentation. Running out of
// strategies is not an error.
func (c *Controller) Fullscreen() error {
	if _, err := c.active(); err != nil {
		return err
	}

	err := c.backend.Fullscreen()
	if errors.Is(err, player.ErrFullscreenUnavailable) {
		log.Debugf("fullscreen: %s", err)
		return nil
	}
	return err
}

// HandleKey resolves a key name through the keymap and dispatches the bound action.
// Keys only do something while a session exists. Unmapped keys raise an alert.
func (c *Controller) HandleKey(name string) error {
	if _, err := c.active(); err != nil {
		return err
	}

	action, ok := c.keymap[NormalizeKey(name)]
	if !ok {
		if c.opts.BlockingAlert {
			c.surface.Alert(constant.AlertInvalidKey)
		} else {
			c.surface.Notify(constant.AlertInvalidKey)
		}
		return fmt.Errorf("%w: %q", ErrUnrecognizedKey, name)
	}

	return c.Dispatch(action)
}

// Dispatch runs the handler bound to action.
func (c *Controller) Dispatch(action Action) error {
	handler, ok := c.actions[action]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownAction, action)
	}
	return handler()
}

// startTimer cancels any live poll timer before starting a new one.
func (c *Controller) startTimer() {
	c.cancelTimer()

	gen := c.timerGen
	c.stopTimer = c.scheduler.Every(c.opts.PollInterval, func() { c.tick(gen) })
}

func (c *Controller) cancelTimer() {
	if c.stopTimer != nil {
		c.stopTimer()
		c.stopTimer = nil
	}
	c.timerGen++
}

func (c *Controller) tick(gen uint64) {
	if gen != c.timerGen || c.stopTimer == nil {
		return
	}

	s, ok := c.session.Get()
	if !ok {
		c.cancelTimer()
		return
	}

	pos, err := c.backend.TimePos()
	if err != nil {
		log.Debugf("poll position: %s", err)
		return
	}

	rounded := math.Max(math.Round(pos), 0)
	s.Position = rounded
	if s.Ready {
		s.Position = math.Min(rounded, s.Duration)
	}

	c.surface.SetPosition(rounded)
	c.surface.SetElapsed(media.FormatClock(rounded))

	if s.Ready && rounded >= math.Round(s.Duration) {
		log.WithFields(log.Fields{"file": s.File.Name}).Infof("reached end at %s", media.FormatClock(rounded))
		c.release()
		c.resetDisplay()
	}
}

// Status is a point-in-time snapshot of the controller.
type Status struct {
	Loaded   bool    `json:"loaded" jsonschema:"description=Whether a media file is bound"`
	Ready    bool    `json:"ready" jsonschema:"description=Whether the duration is known"`
	File     string  `json:"file,omitempty" jsonschema:"description=Name of the loaded file"`
	Path     string  `json:"path,omitempty" jsonschema:"description=Absolute path of the loaded file"`
	Playing  bool    `json:"playing"`
	Position float64 `json:"position" jsonschema:"minimum=0,description=Last polled position in whole seconds"`
	Duration float64 `json:"duration" jsonschema:"minimum=0"`
	Elapsed  string  `json:"elapsed" jsonschema:"example=00:01:05"`
	Total    string  `json:"total" jsonschema:"example=00:02:05"`
	Rate     float64 `json:"rate" jsonschema:"minimum=0.5,maximum=3"`
	Volume   float64 `json:"volume" jsonschema:"minimum=0,maximum=1"`
}

// Status returns a snapshot of the current state.
func (c *Controller) Status() Status {
	s, ok := c.session.Get()
	if !ok {
		return Status{
			Elapsed: constant.ElapsedUnset,
			Total:   constant.TotalUnset,
			Rate:    float64(rateDefault) / 2,
			Volume:  float64(volumeDefault) / 10,
		}
	}

	total := constant.TotalUnset
	if s.Ready {
		total = media.FormatClock(s.Duration)
	}

	return Status{
		Loaded:   true,
		Ready:    s.Ready,
		File:     s.File.Name,
		Path:     s.File.Path,
		Playing:  s.Playing,
		Position: s.Position,
		Duration: s.Duration,
		Elapsed:  media.FormatClock(s.Position),
		Total:    total,
		Rate:     s.Rate(),
		Volume:   s.Volume(),
	}
}
