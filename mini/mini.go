// Package mini implements a prompt-driven player for terminals without alt-screen support.
package mini

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
	"github.com/spf13/viper"
	"github.com/vplay-cli/vplay/key"
	"github.com/vplay-cli/vplay/log"
	"github.com/vplay-cli/vplay/media"
	"github.com/vplay-cli/vplay/notify"
	"github.com/vplay-cli/vplay/player"
	"github.com/vplay-cli/vplay/session"
	"github.com/vplay-cli/vplay/util"
)

var truncateAt = 100

type Options struct {
	// File is loaded before the first prompt when set.
	File string
}

// asker matches survey.AskOne.
type asker func(p survey.Prompt, response interface{}, opts ...survey.AskOpt) error

type mini struct {
	state         state
	statesHistory util.Stack[state]

	host    *session.Host
	printer *printer
	library *media.Library

	out io.Writer
	ask asker
}

func newMini(host *session.Host, printer *printer, library *media.Library, out io.Writer) *mini {
	return &mini{
		state:   menuState,
		host:    host,
		printer: printer,
		library: library,
		out:     out,
		ask:     survey.AskOne,
	}
}

func (m *mini) previousState() {
	if m.statesHistory.Len() > 0 {
		m.setState(m.statesHistory.Pop())
	}
}

func (m *mini) setState(s state) {
	m.state = s
}

func (m *mini) newState(s state) {
	if m.state == s {
		return
	}

	m.statesHistory.Push(m.state)
	m.setState(s)
}

// Run starts the backend and the controller loop, then prompts until the user quits.
func Run(ctx context.Context, options *Options) error {
	backend, err := player.New()
	if err != nil {
		return err
	}
	defer func() {
		if err := backend.Close(); err != nil {
			log.Warnf("close player: %s", err)
		}
	}()

	if w, _, err := util.TerminalSize(); err == nil {
		truncateAt = w
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	printer := newPrinter(os.Stdout)
	host := session.NewHost(backend, notify.Wrap(printer), session.OptionsFromConfig())
	go func() { _ = host.Run(ctx) }()

	m := newMini(host, printer, media.NewLibrary(viper.GetString(key.LibraryDir)), os.Stdout)
	if options != nil && options.File != "" {
		if err := m.load(ctx, options.File); err != nil {
			return err
		}
	}

	return m.run(ctx)
}

func (m *mini) run(ctx context.Context) error {
	for m.state != quitState {
		if err := m.handleState(ctx); err != nil {
			if errors.Is(err, terminal.InterruptErr) {
				return nil
			}
			return err
		}
	}

	return nil
}

func (m *mini) handleState(ctx context.Context) error {
	switch m.state {
	case menuState:
		return m.handleMenuState(ctx)
	case openState:
		return m.handleOpenState(ctx)
	case seekState:
		return m.handleSeekState(ctx)
	case keyState:
		return m.handleKeyState(ctx)
	}

	return fmt.Errorf("unknown state %d", m.state)
}
