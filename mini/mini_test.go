package mini

import (
	"bytes"
	"context"
	"testing"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
	"github.com/samber/lo"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/vplay-cli/vplay/filesystem"
	"github.com/vplay-cli/vplay/media"
	"github.com/vplay-cli/vplay/player/playertest"
	"github.com/vplay-cli/vplay/session"
)

func init() {
	filesystem.SetMemMapFs()
}

// script answers prompts in order and interrupts once it runs out.
type script struct {
	answers  []string
	messages []string
}

func (s *script) ask(p survey.Prompt, response interface{}, _ ...survey.AskOpt) error {
	switch p := p.(type) {
	case *survey.Select:
		s.messages = append(s.messages, p.Message)
	case *survey.Input:
		s.messages = append(s.messages, p.Message)
	}

	if len(s.answers) == 0 {
		return terminal.InterruptErr
	}

	*(response.(*string)) = s.answers[0]
	s.answers = s.answers[1:]
	return nil
}

func TestMini(t *testing.T) {
	Convey("Given mini mode over a fake backend", t, func() {
		lo.Must0(filesystem.API().MkdirAll("/videos", 0o755))
		lo.Must0(filesystem.API().WriteFile("/videos/clip.mp4", []byte("data"), 0o644))

		backend := playertest.New()
		out := &bytes.Buffer{}
		printer := newPrinter(out)
		host := session.NewHost(backend, printer, session.DefaultOptions())

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go func() { _ = host.Run(ctx) }()

		m := newMini(host, printer, media.NewLibrary("/videos"), out)

		Convey("A full round of actions ends with quit", func() {
			s := &script{answers: []string{
				"Open...", "clip.mp4",
				"Volume Up",
				"Press Key...", "q", "",
				"Seek To...", "1:05",
				"Quit",
			}}
			m.ask = s.ask

			So(m.run(ctx), ShouldBeNil)
			So(s.answers, ShouldBeEmpty)

			So(backend.Snapshot(), ShouldContain, "load /videos/clip.mp4")
			So(backend.Snapshot(), ShouldContain, "volume 0.6")
			So(backend.Snapshot(), ShouldContain, "seek 65.0")
			So(out.String(), ShouldContainSubstring, "Volume: 60%")
			So(out.String(), ShouldContainSubstring, "Invalid Key Pressed")
			So(out.String(), ShouldContainSubstring, "clip.mp4")
			So(s.messages, ShouldContain, "Press enter to dismiss")
		})

		Convey("Actions without a video are silent no-ops", func() {
			s := &script{answers: []string{"Forward", "Quit"}}
			m.ask = s.ask

			So(m.run(ctx), ShouldBeNil)
			So(out.String(), ShouldNotContainSubstring, "»")
			So(s.messages, ShouldResemble, []string{"Action", "Action"})
			So(backend.Snapshot(), ShouldBeEmpty)
		})

		Convey("Back returns to the menu without loading", func() {
			s := &script{answers: []string{"Open...", "Back", "Quit"}}
			m.ask = s.ask

			So(m.run(ctx), ShouldBeNil)
			So(backend.Snapshot(), ShouldBeEmpty)
			So(s.messages, ShouldResemble, []string{"Action", "Open", "Action"})
		})

		Convey("An interrupt ends the loop quietly", func() {
			m.ask = (&script{}).ask
			So(m.run(ctx), ShouldBeNil)
		})
	})

	Convey("The idle status line shows the sentinels", t, func() {
		line := statusLine(session.Status{Elapsed: "00:00:00", Total: "--/--/--"})
		So(line, ShouldContainSubstring, "00:00:00 / --/--/--")
	})
}
