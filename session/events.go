package session

import (
	"github.com/pkg/errors"
)

type Event string

const (
	EventStart  Event = "start"
	EventTick   Event = "tick"
	EventOutput Event = "output"
	EventError  Event = "error"
	EventInput  Event = "input"
	EventStop   Event = "stop"
	EventAbort  Event = "abort"
)

var events = []Event{EventStart, EventTick, EventOutput, EventError, EventInput, EventStop, EventAbort}

func (e Event) valid() bool {
	for _, known := range events {
		if e == known {
			return true
		}
	}

	return false
}

// Handler is one of SessionFunc, ChunkFunc, InputFunc, StopFunc or AbortFunc.
type Handler interface {
	handles(e Event) bool
}

// SessionFunc handles start and tick.
type SessionFunc func(s *Session) error

// ChunkFunc handles output (stdout) and error (stderr) chunks.
type ChunkFunc func(s *Session, chunk []byte) error

// InputFunc is offered the most recent stdout chunk whenever stdin is writable
// and returns the bytes to send. Returning nothing sends a line terminator when
// AutoNewline is set, so the handler should only return data it has not sent yet.
type InputFunc func(s *Session, lastOutput []byte) ([]byte, error)

// StopFunc receives the exit code of a run that ended with the child exiting.
type StopFunc func(s *Session, exitCode int) error

// AbortFunc receives the reason a run was cut short.
type AbortFunc func(s *Session, reason error) error

func (SessionFunc) handles(e Event) bool { return e == EventStart || e == EventTick }
func (ChunkFunc) handles(e Event) bool { return e == EventOutput || e == EventError }
func (InputFunc) handles(e Event) bool { return e == EventInput }
func (StopFunc) handles(e Event) bool { return e == EventStop }
func (AbortFunc) handles(e Event) bool { return e == EventAbort }

// On registers h for the event, replacing any earlier handler. A nil handler
// clears the slot.
func (s *Session) On(e Event, h Handler) error {
	if !e.valid() {
		return errors.Wrapf(ErrUnknownEvent, "%q", e)
	}

	if h == nil || isNilFunc(h) {
		delete(s.handlers, e)
		return nil
	}

	if !h.handles(e) {
		return errors.Wrapf(ErrHandlerMismatch, "%T cannot handle %q", h, e)
	}

	if s.handlers == nil {
		s.handlers = map[Event]Handler{}
	}

	s.handlers[e] = h

	return nil
}

func isNilFunc(h Handler) bool {
	switch f := h.(type) {
	case SessionFunc:
		return f == nil
	case ChunkFunc:
		return f == nil
	case InputFunc:
		return f == nil
	case StopFunc:
		return f == nil
	case AbortFunc:
		return f == nil
	}

	return false
}

func (s *Session) OnStart(f SessionFunc) *Session {
	s.On(EventStart, f)
	return s
}

func (s *Session) OnTick(f SessionFunc) *Session {
	s.On(EventTick, f)
	return s
}

func (s *Session) OnOutput(f ChunkFunc) *Session {
	s.On(EventOutput, f)
	return s
}

func (s *Session) OnError(f ChunkFunc) *Session {
	s.On(EventError, f)
	return s
}

func (s *Session) OnInput(f InputFunc) *Session {
	s.On(EventInput, f)
	return s
}

func (s *Session) OnStop(f StopFunc) *Session {
	s.On(EventStop, f)
	return s
}

func (s *Session) OnAbort(f AbortFunc) *Session {
	s.On(EventAbort, f)
	return s
}

func (s *Session) fire(e Event) error {
	h, ok := s.handlers[e].(SessionFunc)

	if !ok {
		return nil
	}

	return wrapHandler(e, h(s))
}

func (s *Session) fireChunk(e Event, chunk []byte) error {
	h, ok := s.handlers[e].(ChunkFunc)

	if !ok {
		return nil
	}

	return wrapHandler(e, h(s, chunk))
}

func (s *Session) fireInput(lastOutput []byte) ([]byte, error) {
	h, ok := s.handlers[EventInput].(InputFunc)

	if !ok {
		return nil, nil
	}

	data, err := h(s, lastOutput)

	return data, wrapHandler(EventInput, err)
}

func (s *Session) fireStop(exitCode int) error {
	h, ok := s.handlers[EventStop].(StopFunc)

	if !ok {
		return nil
	}

	return wrapHandler(EventStop, h(s, exitCode))
}

func (s *Session) fireAbort(reason error) error {
	h, ok := s.handlers[EventAbort].(AbortFunc)

	if !ok {
		return nil
	}

	return wrapHandler(EventAbort, h(s, reason))
}

func wrapHandler(e Event, err error) error {
	if err == nil {
		return nil
	}

	return &HandlerError{Event: e, Err: err}
}
