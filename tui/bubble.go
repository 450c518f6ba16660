package tui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/spf13/viper"
	"github.com/vplay-cli/vplay/constant"
	"github.com/vplay-cli/vplay/internal/ui"
	"github.com/vplay-cli/vplay/key"
	"github.com/vplay-cli/vplay/media"
	"github.com/vplay-cli/vplay/session"
	"github.com/vplay-cli/vplay/style"
	"github.com/vplay-cli/vplay/util"
)

const maxSuggestions = 8

// statefulBubble is the player screen plus the open prompt. It only mirrors
// controller state; every change goes through the session host.
type statefulBubble struct {
	state         state
	statesHistory util.Stack[state]

	keymap *statefulKeymap

	// components
	progressC progress.Model
	inputC    textinput.Model
	helpC     help.Model

	host     *session.Host
	surface  *surface
	library  *media.Library
	notifier *ui.Model

	// mirrored surface state
	max      float64
	position float64
	elapsed  string
	total    string
	playing  bool
	status   session.Status

	suggestions []media.File
	cursor      int

	width, height int

	options *Options
}

func newBubble(host *session.Host, surface *surface, library *media.Library, options *Options) *statefulBubble {
	if options == nil {
		options = &Options{}
	}

	input := textinput.New()
	input.Placeholder = "path to a video file..."
	input.CharLimit = 4096
	input.Prompt = "> "
	input.PromptStyle = style.New().Foreground(style.AccentColor)

	bar := progress.New(
		progress.WithGradient(style.SeekFrom, style.SeekTo),
		progress.WithoutPercentage(),
	)

	return &statefulBubble{
		state:     playerState,
		keymap:    newStatefulKeymap(),
		progressC: bar,
		inputC:    input,
		helpC:     help.New(),
		host:      host,
		surface:   surface,
		library:   library,
		notifier:  ui.New(viper.GetDuration(key.NotifyDuration)),
		elapsed:   constant.ElapsedUnset,
		total:     constant.TotalUnset,
		cursor:    -1,
		options:   options,
	}
}

func (b *statefulBubble) setState(s state) {
	b.state = s
	b.keymap.setState(s)
}

// newState switches to s, remembering where to go back to.
func (b *statefulBubble) newState(s state) {
	if b.state == s {
		return
	}

	b.statesHistory.Push(b.state)
	b.setState(s)
}

func (b *statefulBubble) previousState() {
	if b.statesHistory.Len() > 0 {
		b.setState(b.statesHistory.Pop())
	}
}

func (b *statefulBubble) resize(width, height int) {
	b.width = width
	b.height = height

	b.progressC.Width = util.Clamp(width-paddingX*2, 10, 120)
	b.inputC.Width = util.Clamp(width-paddingX*2-len(b.inputC.Prompt), 10, 120)
	b.helpC.Width = width
}

// selectedPath returns the highlighted suggestion, or whatever was typed.
func (b *statefulBubble) selectedPath() string {
	if b.cursor >= 0 && b.cursor < len(b.suggestions) {
		return b.suggestions[b.cursor].Path
	}
	return b.inputC.Value()
}
