package session

import (
	"context"

	"github.com/vplay-cli/vplay/player"
)

// Host pairs a Loop with the Controller it drives. Its methods are safe for
// concurrent use by any number of input sources.
type Host struct {
	loop       *Loop
	controller *Controller
}

// NewHost builds a Controller scheduled on a fresh Loop. Nothing runs until Run.
func NewHost(backend player.Player, surface Surface, opts Options) *Host {
	loop := NewLoop()
	return &Host{
		loop:       loop,
		controller: New(backend, surface, loop, opts),
	}
}

// Run drives the loop until ctx is cancelled.
func (h *Host) Run(ctx context.Context) error {
	return h.loop.Run(ctx)
}

// Done is closed once Run has returned.
func (h *Host) Done() <-chan struct{} {
	return h.loop.Done()
}

// Do runs fn against the controller on the loop and returns its error.
func (h *Host) Do(ctx context.Context, fn func(c *Controller) error) error {
	var result error
	if err := h.loop.Do(ctx, func() { result = fn(h.controller) }); err != nil {
		return err
	}
	return result
}

// Post queues fn against the controller without waiting for it.
func (h *Host) Post(fn func(c *Controller)) {
	h.loop.Post(func() { fn(h.controller) })
}

// Status returns a snapshot taken on the loop.
func (h *Host) Status(ctx context.Context) (Status, error) {
	var status Status
	err := h.Do(ctx, func(c *Controller) error {
		status = c.Status()
		return nil
	})
	return status, err
}
