package notify

import (
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
	"github.com/vplay-cli/vplay/key"
)

type sent struct {
	title, message string
}

func capture() (Sender, <-chan sent) {
	ch := make(chan sent, 4)
	return func(title, message string, _ any) error {
		ch <- sent{title: title, message: message}
		return nil
	}, ch
}

func TestDesktop(t *testing.T) {
	Convey("Given a desktop surface", t, func() {
		notify, notified := capture()
		alert, alerted := capture()
		d := &Desktop{notify: notify, alert: alert}

		Convey("Notifications are forwarded with the app title", func() {
			d.Notify("Volume: 60%")

			select {
			case got := <-notified:
				So(got, ShouldResemble, sent{title: "vplay", message: "Volume: 60%"})
			case <-time.After(time.Second):
				So("timeout", ShouldBeEmpty)
			}
		})

		Convey("Alerts use the alert sender", func() {
			d.Alert("Invalid Key Pressed")

			select {
			case got := <-alerted:
				So(got.message, ShouldEqual, "Invalid Key Pressed")
			case <-time.After(time.Second):
				So("timeout", ShouldBeEmpty)
			}
		})
	})

	Convey("Wrap only adds the desktop when enabled", t, func() {
		base := &Desktop{}

		viper.Set(key.NotifyDesktop, false)
		So(Wrap(base), ShouldEqual, base)

		viper.Set(key.NotifyDesktop, true)
		defer viper.Set(key.NotifyDesktop, false)
		So(Wrap(base), ShouldNotEqual, base)
	})
}
