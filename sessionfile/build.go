package sessionfile

import (
	"github.com/kinematic-ci/interexec/executor"
	"github.com/kinematic-ci/interexec/script"
	"github.com/kinematic-ci/interexec/session"
	"os"
	"strings"
)

// Build turns a file entry into a session ready to run. Env entries are added
// on top of the caller's environment. Responses are answered by the returned
// responder, which is already registered as the input handler.
func (s Session) Build() (*session.Session, *script.Responder, error) {
	transport, err := executor.ParseTransport(s.Transport)

	if err != nil {
		return nil, nil, err
	}

	run := session.New(s.Command, s.environ())
	run.Dir = s.Dir
	run.Shell = s.Shell
	run.ShellArgs = s.ShellArgs
	run.Timeout = s.Timeout.Duration()
	run.Interval = s.Interval.Duration()
	run.Transport = transport

	if s.ChunkSize > 0 {
		run.ChunkSize = s.ChunkSize
	}

	// scripted sessions only send what they are told unless asked otherwise
	run.AutoNewline = len(s.Responses) == 0

	if s.AutoNewline != nil {
		run.AutoNewline = *s.AutoNewline
	}

	steps := script.NewSteps()

	for _, response := range s.Responses {
		steps.Add(script.Step{Expect: response.Expect, Send: response.Send})
	}

	responder := script.NewResponder(steps)
	run.OnInput(responder.Input)

	return run, responder, nil
}

func (s Session) environ() map[string]string {
	if len(s.Env) == 0 {
		return nil
	}

	env := map[string]string{}

	for _, pair := range os.Environ() {
		key, value, found := strings.Cut(pair, "=")

		if found {
			env[key] = value
		}
	}

	for key, value := range s.Env {
		env[key] = value
	}

	return env
}
