package version

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestCompare(t *testing.T) {
	Convey("Compare", t, func() {
		cases := []struct {
			a, b string
			want int
		}{
			{"0.33.0", "0.33.0", 0},
			{"v0.34.1", "0.33.0", 1},
			{"0.32.9", "0.33.0", -1},
			{"1.0.0", "0.99.99", 1},
			{"0.37.0-dev", "0.37.0", 0},
		}

		for _, c := range cases {
			got, err := Compare(c.a, c.b)
			So(err, ShouldBeNil)
			So(got, ShouldEqual, c.want)
		}

		_, err := Compare("latest", "0.33.0")
		So(err, ShouldNotBeNil)
	})
}

func TestParsePlayer(t *testing.T) {
	Convey("ParsePlayer", t, func() {
		Convey("reads release builds", func() {
			got, err := ParsePlayer("mpv 0.37.0 Copyright © 2000-2023 mpv/MPlayer/mplayer2 projects\n built on ...")
			So(err, ShouldBeNil)
			So(got, ShouldEqual, "0.37.0")
		})

		Convey("reads v-prefixed builds", func() {
			got, err := ParsePlayer("mpv v0.38.0-dirty Copyright")
			So(err, ShouldBeNil)
			So(got, ShouldEqual, "0.38.0")
		})

		Convey("rejects other output", func() {
			_, err := ParsePlayer("mplayer 1.5")
			So(err, ShouldEqual, ErrVersionUnknown)
		})
	})

	Convey("Supported", t, func() {
		So(must(Supported("0.33.0")), ShouldBeTrue)
		So(must(Supported("0.32.0")), ShouldBeFalse)
	})
}

func must(ok bool, err error) bool {
	So(err, ShouldBeNil)
	return ok
}
