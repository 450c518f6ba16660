package log

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/samber/lo"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
	"github.com/vplay-cli/vplay/filesystem"
	"github.com/vplay-cli/vplay/key"
	"github.com/vplay-cli/vplay/where"
)

func TestSetup(t *testing.T) {
	Convey("Given an in-memory filesystem", t, func() {
		filesystem.SetMemMapFs()
		t.Setenv(where.EnvConfigPath, "/vplay-log-test")

		Convey("When logging is disabled", func() {
			viper.Set(key.LogsWrite, false)

			Convey("Setup should not create a log file", func() {
				So(Setup(), ShouldBeNil)
				So(enabled, ShouldBeFalse)
				So(lo.Must(filesystem.API().Exists("/vplay-log-test/logs")), ShouldBeFalse)
			})
		})

		Convey("When logging is enabled", func() {
			viper.Set(key.LogsWrite, true)
			viper.Set(key.LogsLevel, "debug")
			defer viper.Set(key.LogsWrite, false)

			Convey("Setup should create today's file and accept emissions", func() {
				So(Setup(), ShouldBeNil)
				So(enabled, ShouldBeTrue)

				Infof("hello %s", "world")
				WithFields(Fields{"file": "clip.mp4"}).Debugf("loaded")

				name := fmt.Sprintf("%s.log", time.Now().Format("2006-01-02"))
				path := filepath.Join("/vplay-log-test", "logs", name)
				So(lo.Must(filesystem.API().Exists(path)), ShouldBeTrue)

				contents := string(lo.Must(filesystem.API().ReadFile(path)))
				So(contents, ShouldContainSubstring, "hello world")
				So(contents, ShouldContainSubstring, "clip.mp4")
			})
		})
	})
}
