package tui

import (
	"errors"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/vplay-cli/vplay/history"
	"github.com/vplay-cli/vplay/log"
	"github.com/vplay-cli/vplay/media"
	"github.com/vplay-cli/vplay/session"
)

type suggestionsMsg struct {
	query string
	files []media.File
}

// post queues fn on the controller loop. Its error and the resulting status
// come back to the program through the surface.
func (b *statefulBubble) post(fn func(c *session.Controller) error) {
	b.host.Post(func(c *session.Controller) {
		if err := fn(c); err != nil {
			b.surface.fail(err)
		}
		b.surface.status(c.Status())
	})
}

func (b *statefulBubble) handleKey(name string) {
	b.post(func(c *session.Controller) error {
		return c.HandleKey(name)
	})
}

func (b *statefulBubble) dispatch(action session.Action) {
	b.post(func(c *session.Controller) error {
		return c.Dispatch(action)
	})
}

func (b *statefulBubble) seek(target float64) {
	b.post(func(c *session.Controller) error {
		return c.Seek(target)
	})
}

func (b *statefulBubble) loadPath(path string) tea.Cmd {
	return func() tea.Msg {
		file, err := media.Open(path)
		if err != nil {
			return errMsg{err: err}
		}

		b.post(func(c *session.Controller) error {
			if err := c.Load(file); err != nil {
				return err
			}
			go remember(file)
			return nil
		})
		return nil
	}
}

func remember(file media.File) {
	if err := history.Remember(file); err != nil {
		log.Warnf("remember %s: %s", file.Path, err)
	}
}

func (b *statefulBubble) loadDropped(file media.File) {
	b.post(func(c *session.Controller) error {
		return c.LoadDropped(file)
	})
}

func (b *statefulBubble) searchLibrary(query string) tea.Cmd {
	return func() tea.Msg {
		files, err := b.library.Search(query)
		if err != nil {
			log.Warnf("search library: %s", err)
		}

		if strings.TrimSpace(query) == "" {
			files = history.WithRecent(files)
		}
		return suggestionsMsg{query: query, files: files}
	}
}

// quiet reports errors the user has already been shown or that mean "nothing to do".
func quiet(err error) bool {
	return errors.Is(err, session.ErrNoActiveSession) ||
		errors.Is(err, session.ErrInvalidFileType) ||
		errors.Is(err, session.ErrUnrecognizedKey)
}
