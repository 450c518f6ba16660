// Package media describes files offered to the player and formats playback values for display.
package media

import (
	"errors"
	"fmt"
	"mime"
	"path/filepath"
	"strings"

	"github.com/vplay-cli/vplay/filesystem"
)

// ErrNotVideo is returned when a file does not declare a video content type.
var ErrNotVideo = errors.New("not a video file")

// File is a single file handed to the player by a picker, a drop or an upload.
// Type is the declared content type; the content itself is never sniffed.
type File struct {
	Path string
	Name string
	Type string
	Size int64
}

// IsVideo reports whether the declared content type is a video stream.
func (f File) IsVideo() bool {
	return IsVideo(f.Type)
}

// IsVideo reports whether contentType names a video stream.
func IsVideo(contentType string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(contentType)), "video/")
}

// extraTypes covers containers that the system mime tables frequently miss.
var extraTypes = map[string]string{
	".mkv":  "video/x-matroska",
	".webm": "video/webm",
	".mp4":  "video/mp4",
	".m4v":  "video/x-m4v",
	".mov":  "video/quicktime",
	".avi":  "video/x-msvideo",
	".wmv":  "video/x-ms-wmv",
	".flv":  "video/x-flv",
	".ogv":  "video/ogg",
	".ts":   "video/mp2t",
	".3gp":  "video/3gpp",
}

// TypeOf declares a content type for path from its extension.
func TypeOf(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	if t, ok := extraTypes[ext]; ok {
		return t
	}
	if t := mime.TypeByExtension(ext); t != "" {
		return t
	}
	return "application/octet-stream"
}

// Open describes the file at path. It fails if the path does not exist or is a directory.
func Open(path string) (File, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return File{}, fmt.Errorf("resolve %s: %w", path, err)
	}

	info, err := filesystem.API().Stat(abs)
	if err != nil {
		return File{}, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return File{}, fmt.Errorf("%s is a directory", path)
	}

	return File{
		Path: abs,
		Name: info.Name(),
		Type: TypeOf(abs),
		Size: info.Size(),
	}, nil
}
