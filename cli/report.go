package cli

import (
	"fmt"
	"github.com/kinematic-ci/interexec/session"
	"io"
	"strings"
)

// reporter prints the event log of one session.
type reporter struct {
	out   io.Writer
	ticks bool
	quiet bool

	// raw output goes here when quiet
	stdout io.Writer
	stderr io.Writer
}

func (r *reporter) attach(s *session.Session, input session.InputFunc) {
	s.OnStart(func(_ *session.Session) error {
		r.event("Started")
		return nil
	})

	if r.ticks && !r.quiet {
		s.OnTick(func(_ *session.Session) error {
			r.event("Tick")
			return nil
		})
	}

	s.OnOutput(func(_ *session.Session, chunk []byte) error {
		if r.quiet {
			_, err := r.stdout.Write(chunk)
			return err
		}

		r.event("Output: " + string(chunk))
		return nil
	})

	s.OnError(func(_ *session.Session, chunk []byte) error {
		if r.quiet {
			_, err := r.stderr.Write(chunk)
			return err
		}

		r.event("Error: " + string(chunk))
		return nil
	})

	s.OnInput(func(s *session.Session, lastOutput []byte) ([]byte, error) {
		if input == nil {
			return nil, nil
		}

		data, err := input(s, lastOutput)

		if len(data) > 0 {
			r.event(fmt.Sprintf("Input: %q", data))
		}

		return data, err
	})

	s.OnStop(func(_ *session.Session, exitCode int) error {
		r.event(fmt.Sprintf("Stopped (exit code %d)", exitCode))
		return nil
	})

	s.OnAbort(func(_ *session.Session, reason error) error {
		r.event("Aborted: " + reason.Error())
		return nil
	})
}

func (r *reporter) header() {
	if r.quiet {
		return
	}

	fmt.Fprintln(r.out, "EXECUTION EVENT LOG")
}

func (r *reporter) event(line string) {
	if r.quiet {
		return
	}

	fmt.Fprintln(r.out, line)
}

func (r *reporter) context(s *session.Session) {
	if r.quiet {
		return
	}

	fmt.Fprintln(r.out, strings.Repeat("-", 80))
	fmt.Fprintln(r.out, "EXECUTION CONTEXT")

	printTwoCols(r.out, "command", s.Command)
	printTwoCols(r.out, "transport", s.Transport.String())
	printTwoCols(r.out, "state", s.State().String())
	printTwoCols(r.out, "pid", fmt.Sprint(s.Pid()))
	printTwoCols(r.out, "exit code", fmt.Sprint(s.ExitCode()))
	printTwoCols(r.out, "elapsed", s.Elapsed().String())
	printTwoCols(r.out, "stdout", fmt.Sprintf("%d bytes", len(s.Stdout())))
	printTwoCols(r.out, "stderr", fmt.Sprintf("%d bytes", len(s.Stderr())))

	if s.Reason() != nil {
		printTwoCols(r.out, "reason", s.Reason().Error())
	}
}

// status is what the command line tool exits with after s has run.
func status(s *session.Session) int {
	if s.State() == session.Stopped && s.ExitCode() >= 0 {
		return s.ExitCode()
	}

	return 1
}
