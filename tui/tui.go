// Package tui provides the primary terminal user interface implementation.
package tui

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/viper"
	"github.com/vplay-cli/vplay/dropzone"
	"github.com/vplay-cli/vplay/key"
	"github.com/vplay-cli/vplay/log"
	"github.com/vplay-cli/vplay/media"
	"github.com/vplay-cli/vplay/notify"
	"github.com/vplay-cli/vplay/player"
	"github.com/vplay-cli/vplay/session"
	"golang.org/x/sync/errgroup"
)

// Options encapsulates the runtime configuration for the terminal user interface.
type Options struct {
	// File is loaded right after startup when set.
	File string
	// DropDir enables a drop folder when set.
	DropDir string
}

// Run starts the player backend and the controller loop, then blocks in the
// Bubble Tea program until the user quits.
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

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	surface := newSurface()
	host := session.NewHost(backend, notify.Wrap(surface), session.OptionsFromConfig())
	bubble := newBubble(host, surface, media.NewLibrary(viper.GetString(key.LibraryDir)), options)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return host.Run(gctx) })

	if options != nil && options.DropDir != "" {
		watcher := dropzone.New(options.DropDir, bubble.loadDropped)
		g.Go(func() error { return watcher.Run(gctx) })
	}

	program := tea.NewProgram(bubble, tea.WithAltScreen(), tea.WithContext(ctx))
	go surface.pump(ctx, program.Send)

	_, err = program.Run()
	cancel()

	if werr := g.Wait(); werr != nil && !errors.Is(werr, context.Canceled) {
		log.Errorf("tui: %s", werr)
		if err == nil {
			err = werr
		}
	}

	if errors.Is(err, tea.ErrProgramKilled) {
		return nil
	}
	return err
}
