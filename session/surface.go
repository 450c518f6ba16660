package session

// Surface receives everything the controller wants the user to see.
// All methods are invoked on the loop goroutine.
type Surface interface {
	// SetRange sets the seek control's range to [0, max].
	SetRange(max float64)
	// SetPosition moves the seek control.
	SetPosition(seconds float64)
	// SetElapsed updates the elapsed time label.
	SetElapsed(label string)
	// SetTotal updates the total time label.
	SetTotal(label string)
	// SetPlaying reflects the play/pause state.
	SetPlaying(playing bool)
	// Notify shows a transient notification.
	Notify(message string)
	// Alert shows a message the user must dismiss.
	Alert(message string)
}

// Fanout returns a Surface that forwards every call to each of surfaces in order.
func Fanout(surfaces ...Surface) Surface {
	return fanout(surfaces)
}

type fanout []Surface

func (f fanout) SetRange(max float64) {
	for _, s := range f {
		s.SetRange(max)
	}
}

func (f fanout) SetPosition(seconds float64) {
	for _, s := range f {
		s.SetPosition(seconds)
	}
}

func (f fanout) SetElapsed(label string) {
	for _, s := range f {
		s.SetElapsed(label)
	}
}

func (f fanout) SetTotal(label string) {
	for _, s := range f {
		s.SetTotal(label)
	}
}

func (f fanout) SetPlaying(playing bool) {
	for _, s := range f {
		s.SetPlaying(playing)
	}
}

func (f fanout) Notify(message string) {
	for _, s := range f {
		s.Notify(message)
	}
}

func (f fanout) Alert(message string) {
	for _, s := range f {
		s.Alert(message)
	}
}
