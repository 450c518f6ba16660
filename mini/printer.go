package mini

import (
	"fmt"
	"io"
	"sync"

	"github.com/vplay-cli/vplay/icon"
	"github.com/vplay-cli/vplay/session"
	"github.com/vplay-cli/vplay/style"
)

// printer is the session.Surface of mini mode. Display updates are read back
// through Status after each prompt, so only messages are written out.
type printer struct {
	mu     sync.Mutex
	out    io.Writer
	alerts []string
}

var _ session.Surface = (*printer)(nil)

func newPrinter(out io.Writer) *printer {
	return &printer{out: out}
}

func (p *printer) SetRange(float64)    {}
func (p *printer) SetPosition(float64) {}
func (p *printer) SetElapsed(string)   {}
func (p *printer) SetTotal(string)     {}
func (p *printer) SetPlaying(bool)     {}

func (p *printer) Notify(message string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	fmt.Fprintln(p.out, style.Fg(style.SecondaryColor)("» ")+message)
}

func (p *printer) Alert(message string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.alerts = append(p.alerts, message)
}

// takeAlerts returns and forgets pending alerts.
func (p *printer) takeAlerts() []string {
	p.mu.Lock()
	defer p.mu.Unlock()

	alerts := p.alerts
	p.alerts = nil
	return alerts
}

func (p *printer) fail(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	fmt.Fprintln(p.out, style.Fg(style.ErrorColor)(icon.Get(icon.Fail)+" "+err.Error()))
}
