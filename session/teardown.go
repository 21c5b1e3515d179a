package session

import (
	"time"
)

// teardown kills the child unless it already exited, reaps it, collects what is
// left in its pipes and closes them. It runs once per Run.
func (s *Session) teardown() error {
	process := s.process
	log := s.logger()

	process.Running()

	if !process.Exited() {
		err := process.Kill()

		if err != nil {
			log.Debug("kill failed", "pid", s.pid, "error", err)
		}
	}

	status, err := process.Wait()

	if err != nil {
		log.Debug("wait failed", "pid", s.pid, "error", err)
	}

	drained := s.pump.drain()

	err = process.Close()

	if err != nil {
		log.Debug("close failed", "pid", s.pid, "error", err)
	}

	s.exitCode = status.Code
	s.reaped = true
	s.elapsed = time.Since(s.started)
	s.process = nil

	return drained
}

// release is the fallback when teardown never ran because a handler panicked.
func (s *Session) release() {
	if s.process == nil {
		return
	}

	s.process.Kill()
	s.process.Wait()
	s.process.Close()
	s.process = nil
}
