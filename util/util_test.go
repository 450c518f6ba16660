package util

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestQuantify(t *testing.T) {
	Convey("Quantify", t, func() {
		So(Quantify(1, "file", "files"), ShouldEqual, "1 file")
		So(Quantify(2, "file", "files"), ShouldEqual, "2 files")
	})
}

func TestFileStem(t *testing.T) {
	Convey("FileStem", t, func() {
		So(FileStem("path/to/clip.mp4"), ShouldEqual, "clip")
		So(FileStem("clip"), ShouldEqual, "clip")
	})
}

func TestClamp(t *testing.T) {
	Convey("Clamp", t, func() {
		So(Clamp(-3.0, 0, 20), ShouldEqual, 0)
		So(Clamp(25.0, 0, 20), ShouldEqual, 20)
		So(Clamp(7, 0, 10), ShouldEqual, 7)
	})
}

func TestStack(t *testing.T) {
	Convey("Given an empty stack", t, func() {
		s := Stack[int]{}

		Convey("Pop and Peek return zero values", func() {
			So(s.Pop(), ShouldEqual, 0)
			So(s.Peek(), ShouldEqual, 0)
		})

		Convey("Push then Pop is LIFO", func() {
			s.Push(1)
			s.Push(2)
			So(s.Len(), ShouldEqual, 2)
			So(s.Peek(), ShouldEqual, 2)
			So(s.Pop(), ShouldEqual, 2)
			So(s.Pop(), ShouldEqual, 1)
			So(s.Len(), ShouldEqual, 0)
		})
	})
}
