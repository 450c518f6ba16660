package session

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/vplay-cli/vplay/player/playertest"
)

func startLoop() (*Loop, context.CancelFunc) {
	loop := NewLoop()
	ctx, cancel := context.WithCancel(context.Background())
	go func() { _ = loop.Run(ctx) }()
	return loop, cancel
}

func eventually(cond func() bool) bool {
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return false
}

func TestLoop(t *testing.T) {
	Convey("Given a running loop", t, func() {
		loop, cancel := startLoop()
		defer cancel()
		ctx := context.Background()

		Convey("Do waits for the work to finish", func() {
			ran := false
			So(loop.Do(ctx, func() { ran = true }), ShouldBeNil)
			So(ran, ShouldBeTrue)
		})

		Convey("Posted work runs in order", func() {
			var order []int
			for i := 0; i < 5; i++ {
				i := i
				loop.Post(func() { order = append(order, i) })
			}
			So(loop.Do(ctx, func() {}), ShouldBeNil)
			So(order, ShouldResemble, []int{0, 1, 2, 3, 4})
		})

		Convey("Every posts until stopped", func() {
			var ticks atomic.Int32
			stop := loop.Every(5*time.Millisecond, func() { ticks.Add(1) })

			So(eventually(func() bool { return ticks.Load() >= 3 }), ShouldBeTrue)

			stop()
			stop()
			So(loop.Do(ctx, func() {}), ShouldBeNil)
			settled := ticks.Load()
			time.Sleep(30 * time.Millisecond)
			So(ticks.Load(), ShouldBeLessThanOrEqualTo, settled+1)
		})

		Convey("Do fails once the loop has stopped", func() {
			cancel()
			<-loop.Done()

			So(loop.Do(ctx, func() {}), ShouldEqual, ErrLoopStopped)
			loop.Post(func() {})
		})

		Convey("Do honours its context", func() {
			short, done := context.WithCancel(ctx)
			done()

			blocked := make(chan struct{})
			loop.Post(func() { <-blocked })
			err := loop.Do(short, func() {})
			close(blocked)

			So(err, ShouldEqual, context.Canceled)
		})
	})
}

func TestHost(t *testing.T) {
	Convey("Given a host driving a fake backend", t, func() {
		backend := playertest.New()
		surface := &recorder{}
		opts := DefaultOptions()
		opts.PollInterval = 5 * time.Millisecond

		host := NewHost(backend, surface, opts)
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go func() { _ = host.Run(ctx) }()

		So(host.Do(ctx, func(c *Controller) error { return c.Load(video("a.mp4")) }), ShouldBeNil)

		Convey("Readiness reported from another goroutine reaches the controller", func() {
			go backend.Ready(3)

			So(eventually(func() bool {
				status, err := host.Status(ctx)
				return err == nil && status.Ready && status.Playing
			}), ShouldBeTrue)

			Convey("and the poll loop detects the end of the media", func() {
				backend.SetPosition(3)

				So(eventually(func() bool {
					status, err := host.Status(ctx)
					return err == nil && !status.Loaded
				}), ShouldBeTrue)

				status, err := host.Status(ctx)
				So(err, ShouldBeNil)
				So(status.Elapsed, ShouldEqual, "00:00:00")
				So(status.Total, ShouldEqual, "--/--/--")
			})
		})

		Convey("Controller errors are returned to the caller", func() {
			err := host.Do(ctx, func(c *Controller) error { return c.HandleKey("q") })
			So(errors.Is(err, ErrUnrecognizedKey), ShouldBeTrue)
		})
	})
}
