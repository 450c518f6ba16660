package tui

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

func (b *statefulBubble) Init() tea.Cmd {
	if b.options.File != "" {
		return b.loadPath(b.options.File)
	}

	return textinput.Blink
}
