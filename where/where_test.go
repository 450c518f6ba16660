package where

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/samber/lo"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/vplay-cli/vplay/filesystem"
)

func init() {
	// Use in-memory filesystem for tests to avoid creating real directories
	filesystem.SetMemMapFs()
}

func TestPaths(t *testing.T) {
	Convey("Path functions", t, func() {
		custom := filepath.Join(os.TempDir(), "vplay-where-test")
		t.Setenv(EnvConfigPath, custom)

		Convey("Config() honors the override", func() {
			path := Config()
			So(path, ShouldEqual, custom)
			So(lo.Must(filesystem.API().IsDir(path)), ShouldBeTrue)
		})

		Convey("Logs() lives under config", func() {
			path := Logs()
			So(path, ShouldEqual, filepath.Join(custom, "logs"))
			So(lo.Must(filesystem.API().IsDir(path)), ShouldBeTrue)
		})

		Convey("Drop() lives under config", func() {
			path := Drop()
			So(path, ShouldEqual, filepath.Join(custom, "drop"))
			So(lo.Must(filesystem.API().IsDir(path)), ShouldBeTrue)
		})

		Convey("Temp()", func() {
			path := Temp()
			So(path, ShouldNotBeEmpty)
			So(lo.Must(filesystem.API().IsDir(path)), ShouldBeTrue)
		})
	})
}
