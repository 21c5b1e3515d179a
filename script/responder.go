package script

import (
	"bytes"
	"github.com/kinematic-ci/interexec/session"
)

// Responder answers prompts in order. Each step waits until its Expect text shows
// up in stdout written after the previous match, then sends its line once.
type Responder struct {
	steps      []Step
	next       int
	seen       int
	Terminator string
}

func NewResponder(steps *Steps) *Responder {
	return &Responder{
		steps:      steps.Values(),
		Terminator: session.LineTerminator(),
	}
}

// Input has the shape of session.InputFunc.
func (r *Responder) Input(s *session.Session, _ []byte) ([]byte, error) {
	return r.respond(s.Stdout()), nil
}

func (r *Responder) respond(stdout []byte) []byte {
	if r.Done() {
		return nil
	}

	step := r.steps[r.next]

	if step.Expect != "" {
		i := bytes.Index(stdout[r.seen:], []byte(step.Expect))

		if i < 0 {
			return nil
		}

		r.seen += i + len(step.Expect)
	}

	r.next++

	return []byte(step.Send + r.Terminator)
}

func (r *Responder) Done() bool {
	return r.next >= len(r.steps)
}

// Pending is the number of steps not answered yet.
func (r *Responder) Pending() int {
	return len(r.steps) - r.next
}
