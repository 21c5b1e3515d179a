package session

import (
	"github.com/pkg/errors"
)

var (
	ErrAlreadyRun      = errors.New("session has already run")
	ErrTimeout         = errors.New("session timed out")
	ErrUnknownEvent    = errors.New("unknown event")
	ErrHandlerMismatch = errors.New("handler does not match event")
)

// LaunchError means the child never started; no events fired and no handles remain open.
type LaunchError struct {
	Command string
	Err     error
}

func (e *LaunchError) Error() string {
	return "unable to launch " + e.Command + ": " + e.Err.Error()
}

func (e *LaunchError) Unwrap() error {
	return e.Err
}

// HandlerError is an error returned by an event handler, tagged with its event.
type HandlerError struct {
	Event Event
	Err   error
}

func (e *HandlerError) Error() string {
	return string(e.Event) + " handler: " + e.Err.Error()
}

func (e *HandlerError) Unwrap() error {
	return e.Err
}
