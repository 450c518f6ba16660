package tui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/viper"
	"github.com/vplay-cli/vplay/constant"
	"github.com/vplay-cli/vplay/icon"
	"github.com/vplay-cli/vplay/key"
	"github.com/vplay-cli/vplay/media"
	"github.com/vplay-cli/vplay/style"
	"github.com/vplay-cli/vplay/util"
)

const paddingX = 2

var paddingStyle = lipgloss.NewStyle().Padding(1, paddingX)

func (b *statefulBubble) View() string {
	var output string

	switch b.state {
	case playerState:
		output = b.viewPlayer()
	case openState:
		output = b.viewOpen()
	default:
		output = "Unknown state"
	}

	return b.notifier.View(output, b.width, b.height)
}

func (b *statefulBubble) viewPlayer() string {
	name := style.Faint("ctrl+o to open a video")
	if b.status.File != "" {
		name = style.Bold(util.FileStem(b.status.File))
	}

	var percent float64
	if b.max > 0 {
		percent = util.Clamp(b.position/b.max, 0, 1)
	}

	indicator := icon.Get(icon.Stop)
	if b.status.Loaded {
		indicator = icon.Get(icon.Pause)
		if b.playing {
			indicator = icon.Get(icon.Play)
		}
	}

	clock := fmt.Sprintf("%s %s / %s", icon.Get(icon.Seek), b.elapsed, b.total)
	meta := style.Faint(fmt.Sprintf(
		"%s %s  %s %s",
		icon.Get(icon.Speed), media.FormatRate(b.status.Rate),
		icon.Get(icon.Volume), media.FormatVolume(b.status.Volume),
	))

	lines := []string{
		style.Title(constant.App) + " " + name,
		"",
		b.progressC.ViewAs(percent),
		indicator + " " + clock + "  " + meta,
	}

	if viper.GetBool(key.TUIShowHelp) {
		lines = append(lines, "", b.helpC.View(b.keymap))
	}

	return paddingStyle.Render(strings.Join(lines, "\n"))
}

func (b *statefulBubble) viewOpen() string {
	lines := []string{
		style.Title("Open Video"),
		"",
		b.inputC.View(),
		"",
	}

	if len(b.suggestions) == 0 {
		lines = append(lines, style.Faint("no videos in "+b.library.Dir))
	} else {
		lines = append(lines, style.Faint(util.Quantify(len(b.suggestions), "match", "matches")))
	}

	for i, file := range b.suggestions {
		entry := file.Name + " " + style.Faint(filepath.Dir(file.Path))
		if i == b.cursor {
			lines = append(lines, style.Fg(style.AccentColor)("▸ ")+entry)
		} else {
			lines = append(lines, "  "+entry)
		}
	}

	if viper.GetBool(key.TUIShowHelp) {
		lines = append(lines, "", b.helpC.View(b.keymap))
	}

	return paddingStyle.Render(strings.Join(lines, "\n"))
}
