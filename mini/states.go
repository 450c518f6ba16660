package mini

import (
	"context"
	"errors"
	"fmt"

	"github.com/AlecAivazis/survey/v2"
	"github.com/samber/lo"
	"github.com/vplay-cli/vplay/history"
	"github.com/vplay-cli/vplay/icon"
	"github.com/vplay-cli/vplay/log"
	"github.com/vplay-cli/vplay/media"
	"github.com/vplay-cli/vplay/session"
	"github.com/vplay-cli/vplay/style"
)

type state int

const (
	menuState state = iota + 1
	openState
	seekState
	keyState
	quitState
)

type menuItem struct {
	label  string
	action session.Action
	next   state
}

var menuItems = []menuItem{
	{label: "Play / Pause", action: session.ActionToggle},
	{label: "Forward", action: session.ActionForward},
	{label: "Backward", action: session.ActionBackward},
	{label: "Volume Up", action: session.ActionVolumeUp},
	{label: "Volume Down", action: session.ActionVolumeDown},
	{label: "Speed Up", action: session.ActionSpeedUp},
	{label: "Speed Down", action: session.ActionSpeedDown},
	{label: "Seek To...", next: seekState},
	{label: "Press Key...", next: keyState},
	{label: "Fullscreen", action: session.ActionFullscreen},
	{label: "Stop", action: session.ActionStop},
	{label: "Open...", next: openState},
	{label: "Quit", next: quitState},
}

const (
	enterPath = "Enter path..."
	back      = "Back"
)

func (m *mini) handleMenuState(ctx context.Context) error {
	if err := m.printStatus(ctx); err != nil {
		return err
	}

	var choice string
	prompt := &survey.Select{
		Message:  "Action",
		Options:  lo.Map(menuItems, func(item menuItem, _ int) string { return item.label }),
		PageSize: len(menuItems),
	}
	if err := m.ask(prompt, &choice); err != nil {
		return err
	}

	item, ok := lo.Find(menuItems, func(item menuItem) bool { return item.label == choice })
	if !ok {
		return fmt.Errorf("unknown action %q", choice)
	}

	if item.next != 0 {
		m.newState(item.next)
		return nil
	}

	return m.do(ctx, func(c *session.Controller) error {
		return c.Dispatch(item.action)
	})
}

func (m *mini) handleOpenState(ctx context.Context) error {
	defer m.previousState()

	files, err := m.library.Files()
	if err != nil {
		m.printer.fail(err)
	}
	files = history.WithRecent(files)

	options := lo.Map(files, func(f media.File, _ int) string { return f.Name })
	options = append(options, enterPath, back)

	var choice string
	if err := m.ask(&survey.Select{Message: "Open", Options: options}, &choice); err != nil {
		return err
	}

	switch choice {
	case back:
		return nil
	case enterPath:
		var path string
		if err := m.ask(&survey.Input{Message: "Path"}, &path, survey.WithValidator(survey.Required)); err != nil {
			return err
		}
		return m.load(ctx, path)
	default:
		file, _ := lo.Find(files, func(f media.File) bool { return f.Name == choice })
		return m.load(ctx, file.Path)
	}
}

func (m *mini) handleSeekState(ctx context.Context) error {
	defer m.previousState()

	var input string
	prompt := &survey.Input{
		Message: "Position",
		Help:    "seconds or a clock like 1:05 or 00:01:05",
	}
	validate := func(ans interface{}) error {
		_, err := media.ParseClock(fmt.Sprint(ans))
		return err
	}
	if err := m.ask(prompt, &input, survey.WithValidator(validate)); err != nil {
		return err
	}

	target, err := media.ParseClock(input)
	if err != nil {
		m.printer.fail(err)
		return nil
	}

	return m.do(ctx, func(c *session.Controller) error {
		return c.Seek(target)
	})
}

func (m *mini) handleKeyState(ctx context.Context) error {
	defer m.previousState()

	var name string
	prompt := &survey.Input{
		Message: "Key",
		Help:    "space, up, down, left, right, + or -",
	}
	if err := m.ask(prompt, &name); err != nil {
		return err
	}
	if name == "" {
		name = " "
	}

	return m.do(ctx, func(c *session.Controller) error {
		return c.HandleKey(name)
	})
}

func (m *mini) load(ctx context.Context, path string) error {
	file, err := media.Open(path)
	if err != nil {
		m.printer.fail(err)
		return nil
	}

	return m.do(ctx, func(c *session.Controller) error {
		if err := c.Load(file); err != nil {
			return err
		}
		go remember(file)
		return nil
	})
}

func remember(file media.File) {
	if err := history.Remember(file); err != nil {
		log.Warnf("remember %s: %s", file.Path, err)
	}
}

// do runs fn on the controller loop, prints unexpected errors and makes the
// user acknowledge every alert it raised.
func (m *mini) do(ctx context.Context, fn func(c *session.Controller) error) error {
	err := m.host.Do(ctx, fn)
	switch {
	case err == nil:
	case errors.Is(err, session.ErrLoopStopped), errors.Is(err, context.Canceled):
		return err
	case errors.Is(err, session.ErrNoActiveSession),
		errors.Is(err, session.ErrInvalidFileType),
		errors.Is(err, session.ErrUnrecognizedKey):
	default:
		m.printer.fail(err)
	}

	for _, alert := range m.printer.takeAlerts() {
		fmt.Fprintln(m.out, style.Box(style.ErrorColor).Render(icon.Get(icon.Alert)+" "+alert))

		var ack string
		if err := m.ask(&survey.Input{Message: "Press enter to dismiss"}, &ack); err != nil {
			return err
		}
	}

	return nil
}

func (m *mini) printStatus(ctx context.Context) error {
	status, err := m.host.Status(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintln(m.out, style.Truncate(truncateAt)(statusLine(status)))
	return nil
}

func statusLine(status session.Status) string {
	if !status.Loaded {
		return fmt.Sprintf("%s %s / %s  %s", icon.Get(icon.Stop), status.Elapsed, status.Total, style.Faint("no video"))
	}

	indicator := lo.Ternary(status.Playing, icon.Get(icon.Play), icon.Get(icon.Pause))
	return fmt.Sprintf(
		"%s %s  %s / %s  %s  %s",
		indicator,
		style.Bold(status.File),
		status.Elapsed,
		status.Total,
		style.Faint(media.FormatRate(status.Rate)),
		style.Faint(media.FormatVolume(status.Volume)),
	)
}
