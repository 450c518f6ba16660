// Package notify mirrors controller notifications to the desktop.
package notify

import (
	"github.com/gen2brain/beeep"
	"github.com/spf13/viper"
	"github.com/vplay-cli/vplay/constant"
	"github.com/vplay-cli/vplay/key"
	"github.com/vplay-cli/vplay/log"
	"github.com/vplay-cli/vplay/session"
)

// Sender delivers a desktop message. beeep.Notify and beeep.Alert satisfy it.
type Sender func(title, message string, icon any) error

// Desktop is a session.Surface that only cares about notifications and alerts.
type Desktop struct {
	notify Sender
	alert  Sender
}

var _ session.Surface = (*Desktop)(nil)

// New returns a Desktop backed by beeep.
func New() *Desktop {
	beeep.AppName = constant.App
	return &Desktop{notify: beeep.Notify, alert: beeep.Alert}
}

// Wrap adds desktop mirroring to surface when notify.desktop is enabled.
func Wrap(surface session.Surface) session.Surface {
	if !viper.GetBool(key.NotifyDesktop) {
		return surface
	}
	return session.Fanout(surface, New())
}

func (d *Desktop) SetRange(float64)    {}
func (d *Desktop) SetPosition(float64) {}
func (d *Desktop) SetElapsed(string)   {}
func (d *Desktop) SetTotal(string)     {}
func (d *Desktop) SetPlaying(bool)     {}

// Notify is fire and forget; a missing notification daemon only gets logged.
func (d *Desktop) Notify(message string) {
	go func() {
		if err := d.notify(constant.App, message, ""); err != nil {
			log.Debugf("desktop notify: %s", err)
		}
	}()
}

func (d *Desktop) Alert(message string) {
	go func() {
		if err := d.alert(constant.App, message, ""); err != nil {
			log.Debugf("desktop alert: %s", err)
		}
	}()
}
