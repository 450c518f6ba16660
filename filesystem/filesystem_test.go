package filesystem

import (
	"errors"
	"strings"
	"testing"

	"github.com/samber/lo"
	. "github.com/smartystreets/goconvey/convey"
)

func TestApi(t *testing.T) {
	Convey("Filesystem API", t, func() {
		Convey("Should default to OsFs", func() {
			SetOsFs()
			fs := API()
			So(fs, ShouldNotBeNil)
			So(fs.Name(), ShouldEqual, "OsFs")
		})

		Convey("Should switch to MemMapFs", func() {
			SetMemMapFs()
			fs := API()
			So(fs, ShouldNotBeNil)
			So(fs.Name(), ShouldEqual, "MemMapFS")
		})
	})
}

func TestSave(t *testing.T) {
	Convey("Given an in-memory filesystem", t, func() {
		SetMemMapFs()

		Convey("Save writes the stream and creates parents", func() {
			n, err := Save("/uploads/a/clip.mp4", strings.NewReader("0123456789"), 64)
			So(err, ShouldBeNil)
			So(n, ShouldEqual, 10)
			So(string(lo.Must(API().ReadFile("/uploads/a/clip.mp4"))), ShouldEqual, "0123456789")
		})

		Convey("Save rejects oversized streams and removes the partial file", func() {
			_, err := Save("/uploads/big.mp4", strings.NewReader("0123456789"), 4)
			So(errors.Is(err, ErrTooLarge), ShouldBeTrue)
			So(lo.Must(API().Exists("/uploads/big.mp4")), ShouldBeFalse)
		})
	})
}
