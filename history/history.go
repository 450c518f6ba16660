// Package history remembers recently opened media files.
package history

import (
	"sort"
	"sync"
	"time"

	"github.com/metafates/gache"
	"github.com/samber/lo"
	"github.com/spf13/viper"
	"github.com/vplay-cli/vplay/filesystem"
	"github.com/vplay-cli/vplay/key"
	"github.com/vplay-cli/vplay/log"
	"github.com/vplay-cli/vplay/media"
	"github.com/vplay-cli/vplay/where"
)

// Entry is one remembered file.
type Entry struct {
	Path   string    `json:"path"`
	Name   string    `json:"name"`
	Opened time.Time `json:"opened"`
	Count  int       `json:"count"`
}

// File returns the entry as a media.File without touching the disk.
func (e Entry) File() media.File {
	return media.File{Path: e.Path, Name: e.Name, Type: media.TypeOf(e.Path)}
}

var (
	mu     sync.Mutex
	cacher = sync.OnceValue(func() *gache.Cache[map[string]*Entry] {
		return gache.New[map[string]*Entry](&gache.Options{
			Path:       where.History(),
			FileSystem: &filesystem.GacheFs{},
		})
	})
)

func load() (map[string]*Entry, error) {
	cached, expired, err := cacher().Get()
	if err != nil {
		return nil, err
	}
	if expired || cached == nil {
		return make(map[string]*Entry), nil
	}
	return cached, nil
}

// Get returns the remembered files, most recent first.
func Get() ([]Entry, error) {
	mu.Lock()
	defer mu.Unlock()

	saved, err := load()
	if err != nil {
		return nil, err
	}

	entries := lo.Map(lo.Values(saved), func(e *Entry, _ int) Entry { return *e })
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Opened.After(entries[j].Opened)
	})
	return entries, nil
}

// Remember records that file was opened. It is a no-op when history.save is off
// or the file has no path, as with dropped files that were never stored.
func Remember(file media.File) error {
	if !viper.GetBool(key.HistorySave) || file.Path == "" {
		return nil
	}

	mu.Lock()
	defer mu.Unlock()

	saved, err := load()
	if err != nil {
		return err
	}

	entry, ok := saved[file.Path]
	if !ok {
		entry = &Entry{Path: file.Path, Name: file.Name}
		saved[file.Path] = entry
	}
	entry.Opened = time.Now()
	entry.Count++

	trim(saved, viper.GetInt(key.HistoryEntries))
	return cacher().Set(saved)
}

// trim drops the oldest entries beyond limit.
func trim(saved map[string]*Entry, limit int) {
	if limit <= 0 || len(saved) <= limit {
		return
	}

	entries := lo.Values(saved)
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Opened.After(entries[j].Opened)
	})
	for _, e := range entries[limit:] {
		delete(saved, e.Path)
	}
}

// WithRecent puts the remembered files ahead of files, dropping duplicates by path.
func WithRecent(files []media.File) []media.File {
	entries, err := Get()
	if err != nil {
		log.Warnf("read history: %s", err)
		return files
	}

	recent := lo.Map(entries, func(e Entry, _ int) media.File { return e.File() })
	return lo.UniqBy(append(recent, files...), func(f media.File) string { return f.Path })
}

// Clear forgets every entry.
func Clear() error {
	mu.Lock()
	defer mu.Unlock()

	return cacher().Set(make(map[string]*Entry))
}
