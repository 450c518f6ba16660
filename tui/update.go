package tui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/samber/lo"
	"github.com/vplay-cli/vplay/icon"
	"github.com/vplay-cli/vplay/internal/ui"
	"github.com/vplay-cli/vplay/log"
	"github.com/vplay-cli/vplay/session"
)

func (b *statefulBubble) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	// notifications and alerts
	if uiCmd := b.notifier.Update(msg); uiCmd != nil {
		cmd = uiCmd
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		b.resize(msg.Width, msg.Height)
		return b, cmd
	case rangeMsg:
		b.max = float64(msg)
		return b, cmd
	case positionMsg:
		b.position = float64(msg)
		return b, cmd
	case elapsedMsg:
		b.elapsed = string(msg)
		return b, cmd
	case totalMsg:
		b.total = string(msg)
		return b, cmd
	case playingMsg:
		b.playing = bool(msg)
		return b, cmd
	case statusMsg:
		b.status = session.Status(msg)
		return b, cmd
	case errMsg:
		if quiet(msg.err) {
			return b, cmd
		}
		log.Warnf("tui: %s", msg.err)
		return b, tea.Batch(cmd, b.notifier.Update(ui.NotifyMsg(icon.Get(icon.Fail)+" "+msg.err.Error())))
	case suggestionsMsg:
		// results for an outdated query
		if msg.query != b.inputC.Value() {
			return b, cmd
		}
		b.suggestions = lo.Slice(msg.files, 0, maxSuggestions)
		b.cursor = lo.Ternary(len(b.suggestions) > 0, 0, -1)
		return b, cmd
	case tea.KeyMsg:
		if key.Matches(msg, b.keymap.forceQuit) {
			return b, tea.Quit
		}

		// alerts swallow every other key until dismissed
		if b.notifier.Alerting() {
			if key.Matches(msg, b.keymap.dismiss) {
				b.notifier.Dismiss()
			}
			return b, cmd
		}

		switch b.state {
		case playerState:
			return b.updatePlayer(msg, cmd)
		case openState:
			return b.updateOpen(msg, cmd)
		}
	}

	if b.state == openState {
		var inputCmd tea.Cmd
		b.inputC, inputCmd = b.inputC.Update(msg)
		cmd = tea.Batch(cmd, inputCmd)
	}

	return b, cmd
}

func (b *statefulBubble) updatePlayer(msg tea.KeyMsg, cmd tea.Cmd) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, b.keymap.open):
		b.newState(openState)
		b.inputC.SetValue("")
		b.suggestions = nil
		b.cursor = -1
		return b, tea.Batch(cmd, b.inputC.Focus(), textinput.Blink, b.searchLibrary(""))
	case key.Matches(msg, b.keymap.fullscreen):
		b.dispatch(session.ActionFullscreen)
	case key.Matches(msg, b.keymap.seekStart):
		b.seek(0)
	case key.Matches(msg, b.keymap.seekEnd):
		b.seek(b.max)
	case key.Matches(msg, b.keymap.showHelp):
		b.helpC.ShowAll = !b.helpC.ShowAll
	default:
		b.handleKey(msg.String())
	}

	return b, cmd
}

func (b *statefulBubble) updateOpen(msg tea.KeyMsg, cmd tea.Cmd) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, b.keymap.back):
		b.inputC.Blur()
		b.previousState()
		return b, cmd
	case key.Matches(msg, b.keymap.confirm):
		path := b.selectedPath()
		if path == "" {
			return b, cmd
		}

		b.inputC.Blur()
		b.previousState()
		return b, tea.Batch(cmd, b.loadPath(path))
	case key.Matches(msg, b.keymap.next):
		if len(b.suggestions) > 0 {
			b.cursor = (b.cursor + 1) % len(b.suggestions)
		}
		return b, cmd
	case key.Matches(msg, b.keymap.prev):
		if len(b.suggestions) > 0 {
			b.cursor = (b.cursor - 1 + len(b.suggestions)) % len(b.suggestions)
		}
		return b, cmd
	}

	var inputCmd tea.Cmd
	b.inputC, inputCmd = b.inputC.Update(msg)
	b.cursor = -1
	return b, tea.Batch(cmd, inputCmd, b.searchLibrary(b.inputC.Value()))
}
