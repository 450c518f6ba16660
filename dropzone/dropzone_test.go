package dropzone

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/vplay-cli/vplay/filesystem"
	"github.com/vplay-cli/vplay/media"
)

func TestWatcher(t *testing.T) {
	filesystem.SetOsFs()

	Convey("Given a watched drop folder", t, func() {
		dir := filepath.Join(t.TempDir(), "drop")
		files := make(chan media.File, 4)

		w := New(dir, func(f media.File) { files <- f })
		w.Settle = 40 * time.Millisecond

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func() { done <- w.Run(ctx) }()
		defer func() {
			cancel()
			<-done
		}()

		// wait for the folder to exist and the watch to be registered
		So(waitFor(func() bool {
			_, err := os.Stat(dir)
			return err == nil
		}), ShouldBeTrue)
		time.Sleep(50 * time.Millisecond)

		Convey("A new file is handed over once it settles", func() {
			So(os.WriteFile(filepath.Join(dir, "clip.mp4"), []byte("data"), 0o644), ShouldBeNil)

			select {
			case f := <-files:
				So(f.Name, ShouldEqual, "clip.mp4")
				So(f.Type, ShouldEqual, "video/mp4")
				So(f.Size, ShouldEqual, 4)
			case <-time.After(3 * time.Second):
				So("timeout", ShouldBeEmpty)
			}
		})

		Convey("Non-video files are handed over too", func() {
			So(os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644), ShouldBeNil)

			select {
			case f := <-files:
				So(f.IsVideo(), ShouldBeFalse)
			case <-time.After(3 * time.Second):
				So("timeout", ShouldBeEmpty)
			}
		})

		Convey("Hidden and partial files are ignored", func() {
			So(os.WriteFile(filepath.Join(dir, ".hidden.mp4"), []byte("x"), 0o644), ShouldBeNil)
			So(os.WriteFile(filepath.Join(dir, "movie.mp4.part"), []byte("x"), 0o644), ShouldBeNil)

			select {
			case f := <-files:
				So(f.Name, ShouldBeEmpty)
			case <-time.After(300 * time.Millisecond):
			}
		})
	})
}

func waitFor(cond func() bool) bool {
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return false
}
