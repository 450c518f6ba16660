package media

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/samber/lo"
	"github.com/vplay-cli/vplay/filesystem"
)

// Library lists the video files of a single directory for the pickers.
type Library struct {
	Dir string
}

// NewLibrary returns a library rooted at dir.
func NewLibrary(dir string) *Library {
	return &Library{Dir: dir}
}

// Files returns every video file directly inside the library directory, sorted by name.
func (l *Library) Files() ([]File, error) {
	entries, err := filesystem.API().ReadDir(l.Dir)
	if err != nil {
		return nil, fmt.Errorf("read library %s: %w", l.Dir, err)
	}

	var files []File
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}

		path := filepath.Join(l.Dir, entry.Name())
		f := File{
			Path: path,
			Name: entry.Name(),
			Type: TypeOf(path),
			Size: entry.Size(),
		}
		if f.IsVideo() {
			files = append(files, f)
		}
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].Name < files[j].Name
	})

	return files, nil
}

// Search returns the video files whose name fuzzily matches query, best matches first.
// An empty query returns every file.
func (l *Library) Search(query string) ([]File, error) {
	files, err := l.Files()
	if err != nil {
		return nil, err
	}

	query = strings.TrimSpace(query)
	if query == "" {
		return files, nil
	}

	names := lo.Map(files, func(f File, _ int) string { return f.Name })
	ranks := fuzzy.RankFindNormalizedFold(query, names)
	sort.Sort(ranks)

	return lo.Map(ranks, func(r fuzzy.Rank, _ int) File {
		return files[r.OriginalIndex]
	}), nil
}
