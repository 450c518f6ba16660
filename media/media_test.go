package media

import (
	"testing"

	"github.com/samber/lo"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/vplay-cli/vplay/filesystem"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestIsVideo(t *testing.T) {
	Convey("IsVideo", t, func() {
		So(IsVideo("video/mp4"), ShouldBeTrue)
		So(IsVideo("Video/WebM"), ShouldBeTrue)
		So(IsVideo("audio/mpeg"), ShouldBeFalse)
		So(IsVideo(""), ShouldBeFalse)
		So(File{Type: "image/png"}.IsVideo(), ShouldBeFalse)
	})
}

func TestTypeOf(t *testing.T) {
	Convey("TypeOf declares types from the extension", t, func() {
		So(TypeOf("/movies/a.MKV"), ShouldEqual, "video/x-matroska")
		So(TypeOf("/movies/a.mp4"), ShouldEqual, "video/mp4")
		So(TypeOf("/movies/notes"), ShouldEqual, "application/octet-stream")
	})
}

func TestOpen(t *testing.T) {
	Convey("Given files on the filesystem", t, func() {
		lo.Must0(filesystem.API().MkdirAll("/movies/dir.mp4", 0o755))
		lo.Must0(filesystem.API().WriteFile("/movies/clip.webm", []byte("data"), 0o644))

		Convey("Open describes a regular file", func() {
			f, err := Open("/movies/clip.webm")
			So(err, ShouldBeNil)
			So(f.Name, ShouldEqual, "clip.webm")
			So(f.Type, ShouldEqual, "video/webm")
			So(f.Size, ShouldEqual, 4)
			So(f.IsVideo(), ShouldBeTrue)
		})

		Convey("Open rejects directories", func() {
			_, err := Open("/movies/dir.mp4")
			So(err, ShouldNotBeNil)
		})

		Convey("Open rejects missing files", func() {
			_, err := Open("/movies/missing.mp4")
			So(err, ShouldNotBeNil)
		})
	})
}

func TestFormat(t *testing.T) {
	Convey("FormatClock", t, func() {
		So(FormatClock(0), ShouldEqual, "00:00:00")
		So(FormatClock(125), ShouldEqual, "00:02:05")
		So(FormatClock(125.9), ShouldEqual, "00:02:05")
		So(FormatClock(3600*12+61), ShouldEqual, "12:01:01")
		So(FormatClock(-4), ShouldEqual, "00:00:00")
	})

	Convey("Notification formats", t, func() {
		So(FormatRate(1.5), ShouldEqual, "Speed: 1.5x")
		So(FormatRate(3), ShouldEqual, "Speed: 3.0x")
		So(FormatVolume(0.6), ShouldEqual, "Volume: 60%")
		So(FormatVolume(1), ShouldEqual, "Volume: 100%")
		So(FormatSeek(-5), ShouldEqual, "Backward By 5 Sec")
		So(FormatSeek(5), ShouldEqual, "Forward By 5 Sec")
	})

	Convey("ParseClock", t, func() {
		for input, want := range map[string]float64{
			"65":       65,
			"12.5":     12.5,
			"1:05":     65,
			"00:02:05": 125,
			" 1:00:00": 3600,
		} {
			got, err := ParseClock(input)
			So(err, ShouldBeNil)
			So(got, ShouldEqual, want)
		}

		for _, input := range []string{"", "abc", "-3", "1:75", "1:2:3:4", "NaN"} {
			_, err := ParseClock(input)
			So(err, ShouldNotBeNil)
		}
	})
}

func TestLibrary(t *testing.T) {
	Convey("Given a library directory", t, func() {
		for _, name := range []string{"big_buck_bunny.mp4", "sintel.mkv", "notes.txt", ".hidden.mp4", "tears_of_steel.webm"} {
			lo.Must0(filesystem.API().WriteFile("/library/"+name, []byte("x"), 0o644))
		}
		lib := NewLibrary("/library")

		Convey("Files lists only visible videos sorted by name", func() {
			files, err := lib.Files()
			So(err, ShouldBeNil)
			So(lo.Map(files, func(f File, _ int) string { return f.Name }), ShouldResemble,
				[]string{"big_buck_bunny.mp4", "sintel.mkv", "tears_of_steel.webm"})
		})

		Convey("Search fuzzily filters by name", func() {
			files, err := lib.Search("bunny")
			So(err, ShouldBeNil)
			So(len(files), ShouldEqual, 1)
			So(files[0].Name, ShouldEqual, "big_buck_bunny.mp4")
		})

		Convey("Search with an empty query returns everything", func() {
			files, err := lib.Search("  ")
			So(err, ShouldBeNil)
			So(len(files), ShouldEqual, 3)
		})

		Convey("A missing directory is an error", func() {
			_, err := NewLibrary("/nowhere").Files()
			So(err, ShouldNotBeNil)
		})
	})
}
