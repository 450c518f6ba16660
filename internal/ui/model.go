// Package ui renders the transient notification and the blocking alert on top of a terminal view.
package ui

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
	"github.com/vplay-cli/vplay/icon"
	"github.com/vplay-cli/vplay/style"
)

const alertWidth = 40

// NotifyMsg shows a transient notification.
type NotifyMsg string

// AlertMsg shows a blocking alert.
type AlertMsg string

// ClearNotificationMsg hides the notification it was scheduled for.
type ClearNotificationMsg struct {
	seq int
}

// Model holds the transient notification and the blocking alert.
type Model struct {
	duration time.Duration

	notification string
	seq          int

	alert string
}

// New returns a Model whose notifications stay visible for duration.
func New(duration time.Duration) *Model {
	if duration <= 0 {
		duration = 3 * time.Second
	}
	return &Model{duration: duration}
}

// clearNotification returns a delayed tea.Cmd that clears notification seq.
func (m *Model) clearNotification(seq int) tea.Cmd {
	return tea.Tick(m.duration, func(time.Time) tea.Msg {
		return ClearNotificationMsg{seq: seq}
	})
}

// Update processes incoming messages to modify the notification state.
func (m *Model) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case NotifyMsg:
		m.seq++
		m.notification = string(msg)
		return m.clearNotification(m.seq)
	case ClearNotificationMsg:
		// a newer notification restarted the countdown
		if msg.seq == m.seq {
			m.notification = ""
		}
	case AlertMsg:
		m.alert = string(msg)
	}
	return nil
}

// Notification returns the visible notification, if any.
func (m *Model) Notification() string {
	return m.notification
}

// Alerting reports whether an alert is waiting to be dismissed.
func (m *Model) Alerting() bool {
	return m.alert != ""
}

// Alert returns the pending alert text.
func (m *Model) Alert() string {
	return m.alert
}

// Dismiss hides the alert.
func (m *Model) Dismiss() {
	m.alert = ""
}

// View decorates mainContent with the notification, or replaces it with the alert
// dialog centered in a width by height area.
func (m *Model) View(mainContent string, width, height int) string {
	if m.alert != "" {
		dialog := style.Box(style.ErrorColor).Render(
			style.ErrorTitle(icon.Get(icon.Alert)+" Alert") + "\n\n" +
				wordwrap.String(m.alert, alertWidth) + "\n\n" +
				style.Faint("enter to dismiss"),
		)
		if width <= 0 || height <= 0 {
			return dialog
		}
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, dialog)
	}

	if m.notification == "" {
		return mainContent
	}

	lines := strings.Split(mainContent, "\n")
	lines[len(lines)-1] += "  " + style.Fg(style.FaintColor)(m.notification)
	return strings.Join(lines, "\n")
}
