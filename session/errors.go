package session

import "errors"

var (
	// ErrInvalidFileType is returned when a file does not declare a video content type.
	// The user has already been notified; the current session is untouched.
	ErrInvalidFileType = errors.New("invalid file type")

	// ErrNoActiveSession is returned by controls invoked while no media is loaded.
	// Hosts treat it as a silent no-op.
	ErrNoActiveSession = errors.New("no active session")

	// ErrUnrecognizedKey is returned after an unmapped key raised an alert.
	ErrUnrecognizedKey = errors.New("unrecognized key")

	// ErrUnknownAction is returned when Dispatch receives an action with no handler.
	ErrUnknownAction = errors.New("unknown action")

	// ErrLoopStopped is returned by Loop.Do once the loop has exited.
	ErrLoopStopped = errors.New("event loop stopped")
)
