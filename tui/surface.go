package tui

import (
	"context"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/vplay-cli/vplay/internal/ui"
	"github.com/vplay-cli/vplay/session"
)

type (
	rangeMsg    float64
	positionMsg float64
	elapsedMsg  string
	totalMsg    string
	playingMsg  bool
	statusMsg   session.Status
	errMsg      struct{ err error }
)

// surface queues controller output for the bubbletea program. The loop never
// waits on the program, so Update may safely post work to the loop.
type surface struct {
	mu      sync.Mutex
	pending []tea.Msg
	wake    chan struct{}
}

var _ session.Surface = (*surface)(nil)

func newSurface() *surface {
	return &surface{wake: make(chan struct{}, 1)}
}

func (s *surface) push(msg tea.Msg) {
	s.mu.Lock()
	s.pending = append(s.pending, msg)
	s.mu.Unlock()

	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// drain returns and forgets everything queued so far.
func (s *surface) drain() []tea.Msg {
	s.mu.Lock()
	defer s.mu.Unlock()

	batch := s.pending
	s.pending = nil
	return batch
}

// pump delivers queued messages through send until ctx is cancelled.
func (s *surface) pump(ctx context.Context, send func(tea.Msg)) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-s.wake:
		}

		for _, msg := range s.drain() {
			send(msg)
		}
	}
}

func (s *surface) SetRange(max float64)        { s.push(rangeMsg(max)) }
func (s *surface) SetPosition(seconds float64) { s.push(positionMsg(seconds)) }
func (s *surface) SetElapsed(label string)     { s.push(elapsedMsg(label)) }
func (s *surface) SetTotal(label string)       { s.push(totalMsg(label)) }
func (s *surface) SetPlaying(playing bool)     { s.push(playingMsg(playing)) }
func (s *surface) Notify(message string)       { s.push(ui.NotifyMsg(message)) }
func (s *surface) Alert(message string)        { s.push(ui.AlertMsg(message)) }

func (s *surface) status(status session.Status) { s.push(statusMsg(status)) }
func (s *surface) fail(err error)               { s.push(errMsg{err: err}) }
