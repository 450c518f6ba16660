package tui

import (
	"github.com/charmbracelet/bubbles/key"
)

// statefulKeymap defines the keyboard interactions available within each state.
// Playback keys are only listed here for help; the controller resolves them.
type statefulKeymap struct {
	state state

	forceQuit, open, fullscreen,
	seekStart, seekEnd,
	toggle, volumeUp, volumeDown, speedUp, speedDown, forward, backward,
	confirm, back, next, prev, dismiss,
	showHelp key.Binding
}

func (k *statefulKeymap) setState(newState state) {
	k.state = newState
}

func newStatefulKeymap() *statefulKeymap {
	return &statefulKeymap{
		forceQuit: key.NewBinding(
			key.WithKeys("ctrl+c", "ctrl+d"),
			key.WithHelp("ctrl+c", "quit"),
		),
		open: key.NewBinding(
			key.WithKeys("ctrl+o"),
			key.WithHelp("ctrl+o", "open"),
		),
		fullscreen: key.NewBinding(
			key.WithKeys("ctrl+f"),
			key.WithHelp("ctrl+f", "fullscreen"),
		),
		seekStart: key.NewBinding(
			key.WithKeys("["),
			key.WithHelp("[", "start"),
		),
		seekEnd: key.NewBinding(
			key.WithKeys("]"),
			key.WithHelp("]", "end"),
		),
		toggle: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "play/pause"),
		),
		volumeUp: key.NewBinding(
			key.WithKeys("up"),
			key.WithHelp("↑", "volume up"),
		),
		volumeDown: key.NewBinding(
			key.WithKeys("down"),
			key.WithHelp("↓", "volume down"),
		),
		speedUp: key.NewBinding(
			key.WithKeys("+"),
			key.WithHelp("+", "faster"),
		),
		speedDown: key.NewBinding(
			key.WithKeys("-"),
			key.WithHelp("-", "slower"),
		),
		forward: key.NewBinding(
			key.WithKeys("right"),
			key.WithHelp("→", "forward"),
		),
		backward: key.NewBinding(
			key.WithKeys("left"),
			key.WithHelp("←", "backward"),
		),
		confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "load"),
		),
		back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		next: key.NewBinding(
			key.WithKeys("down", "tab"),
			key.WithHelp("↓", "next"),
		),
		prev: key.NewBinding(
			key.WithKeys("up", "shift+tab"),
			key.WithHelp("↑", "previous"),
		),
		dismiss: key.NewBinding(
			key.WithKeys("enter", "esc"),
			key.WithHelp("enter", "dismiss"),
		),
		showHelp: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k *statefulKeymap) ShortHelp() []key.Binding {
	switch k.state {
	case openState:
		return []key.Binding{k.confirm, k.next, k.back}
	default:
		return []key.Binding{k.toggle, k.backward, k.forward, k.open, k.showHelp, k.forceQuit}
	}
}

// FullHelp implements help.KeyMap.
func (k *statefulKeymap) FullHelp() [][]key.Binding {
	switch k.state {
	case openState:
		return [][]key.Binding{{k.confirm, k.next, k.prev, k.back, k.forceQuit}}
	default:
		return [][]key.Binding{
			{k.toggle, k.backward, k.forward},
			{k.volumeUp, k.volumeDown, k.speedUp, k.speedDown},
			{k.seekStart, k.seekEnd, k.fullscreen},
			{k.open, k.showHelp, k.forceQuit},
		}
	}
}
