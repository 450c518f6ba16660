package player

import (
	"errors"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestMPVCommands(t *testing.T) {
	Convey("Given an mpv client attached to a fake IPC server", t, func() {
		fake := newFakeMPV(t)
		m := fake.attach()

		Convey("TimePos reads a float property past unrelated events", func() {
			fake.setHandler(func(cmd []interface{}) (interface{}, string) {
				if cmd[0] == "get_property" && cmd[1] == "time-pos" {
					return 42.5, "success"
				}
				return nil, "success"
			})

			pos, err := m.TimePos()
			So(err, ShouldBeNil)
			So(pos, ShouldEqual, 42.5)
		})

		Convey("An unavailable property maps to ErrNotLoaded without retries", func() {
			fake.setHandler(func([]interface{}) (interface{}, string) {
				return nil, "property unavailable"
			})

			_, err := m.Duration()
			So(errors.Is(err, ErrNotLoaded), ShouldBeTrue)
			So(len(fake.sent()), ShouldEqual, 1)
		})

		Convey("SetVolume scales to mpv's percentage", func() {
			So(m.SetVolume(0.5), ShouldBeNil)
			So(fake.sent()[0], ShouldResemble, []interface{}{"set_property", "volume", 50.0})
		})

		Convey("Play and Pause toggle the pause property", func() {
			So(m.Play(), ShouldBeNil)
			So(m.Pause(), ShouldBeNil)
			sent := fake.sent()
			So(sent[0], ShouldResemble, []interface{}{"set_property", "pause", false})
			So(sent[1], ShouldResemble, []interface{}{"set_property", "pause", true})
		})

		Convey("Load pauses before loading the file", func() {
			So(m.Load("/movies/clip.mp4", func(float64) {}), ShouldBeNil)
			sent := fake.sent()
			So(sent[0], ShouldResemble, []interface{}{"set_property", "pause", true})
			So(sent[1], ShouldResemble, []interface{}{"loadfile", "/movies/clip.mp4", "replace"})
		})

		Convey("Load rejects flag-like targets before touching the socket", func() {
			So(m.Load("--script=evil.lua", nil), ShouldNotBeNil)
			So(len(fake.sent()), ShouldEqual, 0)
		})

		Convey("Unload stops playback", func() {
			So(m.Unload(), ShouldBeNil)
			So(fake.sent()[0], ShouldResemble, []interface{}{"stop"})
		})

		Convey("Fullscreen falls back through the strategies in order", func() {
			fake.setHandler(func(cmd []interface{}) (interface{}, string) {
				if cmd[0] == "keypress" {
					return nil, "success"
				}
				return nil, "error running command"
			})

			So(m.Fullscreen(), ShouldBeNil)
			sent := fake.sent()
			So(len(sent), ShouldEqual, 3)
			So(sent[0][0], ShouldEqual, "set_property")
			So(sent[1][0], ShouldEqual, "cycle")
			So(sent[2][0], ShouldEqual, "keypress")
		})

		Convey("Fullscreen reports unavailability when every strategy fails", func() {
			fake.setHandler(func([]interface{}) (interface{}, string) {
				return nil, "error running command"
			})

			err := m.Fullscreen()
			So(errors.Is(err, ErrFullscreenUnavailable), ShouldBeTrue)
		})

		Convey("Fullscreen stops at the first accepted strategy", func() {
			So(m.Fullscreen(), ShouldBeNil)
			So(len(fake.sent()), ShouldEqual, 1)
		})
	})
}

func TestMPVReadiness(t *testing.T) {
	Convey("Given an mpv client with a pending load", t, func() {
		m := NewMPV("")
		var got []float64
		m.setReady(func(d float64) { got = append(got, d) })

		Convey("Unknown durations are ignored", func() {
			m.handleEvent("duration", nil)
			m.handleEvent("duration", 0.0)
			So(got, ShouldBeEmpty)
		})

		Convey("The first known duration fires the callback exactly once", func() {
			m.handleEvent("duration", 125.0)
			m.handleEvent("duration", 125.0)
			So(got, ShouldResemble, []float64{125})
		})

		Convey("Unload disarms the callback", func() {
			So(m.Unload(), ShouldBeNil)
			m.handleEvent("duration", 125.0)
			So(got, ShouldBeEmpty)
		})
	})

	Convey("A fresh client is not running", t, func() {
		m := NewMPV("")
		So(m.IsRunning(), ShouldBeFalse)
		_, err := m.TimePos()
		So(errors.Is(err, ErrNotLoaded), ShouldBeTrue)
		So(m.Close(), ShouldBeNil)

		select {
		case <-m.Wait():
		case <-time.After(time.Second):
			So("wait channel should be closed", ShouldBeEmpty)
		}
	})
}

func TestEventListener(t *testing.T) {
	Convey("Given an event listener on a fake IPC server", t, func() {
		fake := newFakeMPV(t)
		received := make(chan float64, 1)

		el := NewEventListener(fake.path, func(name string, data interface{}) {
			if name == "duration" {
				if d, ok := data.(float64); ok {
					received <- d
				}
			}
		}, "duration")

		So(el.Start(), ShouldBeNil)
		defer el.Stop()

		select {
		case prop := <-fake.observed:
			So(prop, ShouldEqual, "duration")
		case <-time.After(2 * time.Second):
			So("observe_property never arrived", ShouldBeEmpty)
		}

		Convey("Property changes on the subscribed connection are forwarded", func() {
			fake.emit(map[string]interface{}{"event": "property-change", "id": 1, "name": "duration", "data": 125.0})

			select {
			case d := <-received:
				So(d, ShouldEqual, 125.0)
			case <-time.After(2 * time.Second):
				So("event never arrived", ShouldBeEmpty)
			}
		})
	})
}

func TestSanitizeMediaTarget(t *testing.T) {
	Convey("sanitizeMediaTarget", t, func() {
		cases := map[string]bool{
			"/movies/clip.mp4":          true,
			"https://example.com/a.mp4": true,
			"file:///movies/a.mp4":      true,
			"":                          false,
			"-flag":                     false,
			"ftp://example.com/a.mp4":   false,
			"/movies/a\nb.mp4":          false,
		}
		for target, ok := range cases {
			_, err := sanitizeMediaTarget(target)
			So(err == nil, ShouldEqual, ok)
		}
	})
}
