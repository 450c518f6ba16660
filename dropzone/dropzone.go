// Package dropzone turns files placed in a watched directory into drop intake.
package dropzone

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/vplay-cli/vplay/filesystem"
	"github.com/vplay-cli/vplay/log"
	"github.com/vplay-cli/vplay/media"
)

// DefaultSettle is how long a file must stay unmodified before it is handed over.
const DefaultSettle = 500 * time.Millisecond

// Watcher reports files created in a directory once they stop growing.
type Watcher struct {
	dir    string
	handle func(media.File)

	// Settle is the quiet period required after the last write.
	Settle time.Duration
}

// New returns a Watcher for dir. handle runs on the watcher goroutine.
func New(dir string, handle func(media.File)) *Watcher {
	return &Watcher{
		dir:    dir,
		handle: handle,
		Settle: DefaultSettle,
	}
}

// Dir returns the watched directory.
func (w *Watcher) Dir() string {
	return w.dir
}

// Run watches the directory until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	if err := filesystem.API().MkdirAll(w.dir, os.ModePerm); err != nil {
		return fmt.Errorf("create drop folder: %w", err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	defer fsw.Close()

	if err := fsw.Add(w.dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", w.dir, err)
	}

	log.Infof("watching %s for dropped files", w.dir)

	ticker := time.NewTicker(w.Settle / 2)
	defer ticker.Stop()

	// path -> time of the last create or write
	pending := make(map[string]time.Time)

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if hidden(event.Name) {
				continue
			}
			switch {
			case event.Op&fsnotify.Create == fsnotify.Create:
				pending[event.Name] = time.Now()
			case event.Op&fsnotify.Write == fsnotify.Write:
				if _, ok := pending[event.Name]; ok {
					pending[event.Name] = time.Now()
				}
			case event.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
				delete(pending, event.Name)
			}
		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			log.Warnf("drop folder: %s", err)
		case now := <-ticker.C:
			for path, touched := range pending {
				if now.Sub(touched) < w.Settle {
					continue
				}
				delete(pending, path)
				w.deliver(path)
			}
		}
	}
}

func (w *Watcher) deliver(path string) {
	file, err := media.Open(path)
	if err != nil {
		// directories and files removed before settling
		log.Debugf("drop folder: skip %s: %s", path, err)
		return
	}

	log.Infof("drop folder: %s (%s)", file.Name, file.Type)
	w.handle(file)
}

func hidden(path string) bool {
	name := filepath.Base(path)
	return strings.HasPrefix(name, ".") || strings.HasSuffix(name, ".part") || strings.HasSuffix(name, ".crdownload")
}
