package session

import (
	"github.com/kinematic-ci/interexec/executor"
	"github.com/kinematic-ci/interexec/utils"
	"github.com/pkg/errors"
	"io"
	"log/slog"
	"runtime"
	"time"
)

const DefaultChunkSize = 4096

var lineTerminator = "\n"

func init() {
	if runtime.GOOS == "windows" {
		lineTerminator = "\r\n"
	}
}

type State int

const (
	NotStarted State = iota
	Running
	Stopped
	Aborted
	// Failed means the child could not be launched.
	Failed
)

// LineTerminator is what AutoNewline sends on this platform.
func LineTerminator() string {
	return lineTerminator
}

func (s State) String() string {
	switch s {
	case NotStarted:
		return "not started"
	case Running:
		return "running"
	case Stopped:
		return "stopped"
	case Aborted:
		return "aborted"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Session drives one child process. Configure the exported fields and register
// handlers before calling Run; a Session runs once and is not safe for concurrent use.
// Handlers run on the goroutine that called Run.
type Session struct {
	// Command is the command line, passed to the platform shell.
	Command string

	// Env replaces the child's environment; nil inherits the caller's.
	Env map[string]string
	Dir string

	// Timeout is the wall-clock budget from launch and Interval the sleep between
	// loop iterations. Zero disables either.
	Timeout  time.Duration
	Interval time.Duration

	// ChunkSize is the most bytes read from one stream per readiness notification.
	ChunkSize int
	Transport executor.Transport

	// AutoNewline sends a line terminator whenever stdin is writable and the
	// input handler has nothing to send.
	AutoNewline bool
	WinPathFix  bool
	Shell       string
	ShellArgs   []string
	Window      executor.WindowSize

	// Executor overrides the shell launcher built from the fields above.
	Executor executor.Executor
	Logger   *slog.Logger

	handlers   map[Event]Handler
	state      State
	process    executor.Process
	pump       *pump
	pid        int
	stdout     []byte
	stderr     []byte
	lastOutput []byte
	exitCode   int
	reaped     bool
	elapsed    time.Duration
	started    time.Time
	reason     error
}

func New(command string, env map[string]string) *Session {
	return &Session{
		Command:     command,
		Env:         env,
		ChunkSize:   DefaultChunkSize,
		Transport:   executor.Pipe,
		AutoNewline: true,
		WinPathFix:  true,
		handlers:    map[Event]Handler{},
	}
}

// Run launches the child and pumps its streams until it exits or the timeout
// passes. A timeout is not an error: State reports Aborted and Reason wraps
// ErrTimeout. Launch failures are returned as *LaunchError and handler errors
// as *HandlerError, after the child has been killed and reaped.
func (s *Session) Run() (*Session, error) {
	if s.state != NotStarted {
		return s, ErrAlreadyRun
	}

	err := s.validate()

	if err != nil {
		return s, err
	}

	log := s.logger()

	process, err := s.launcher().Start(executor.Command{Line: s.Command, Env: s.Env, Dir: s.Dir})

	if err != nil {
		s.state = Failed
		s.reason = &LaunchError{Command: s.Command, Err: err}
		log.Debug("launch failed", "command", s.Command, "error", err)
		return s, s.reason
	}

	s.process = process
	s.pid = process.Pid()
	s.started = time.Now()
	s.state = Running
	s.pump = newPump(s, process)

	defer s.release()

	log.Debug("session started", "command", s.Command, "pid", s.pid, "transport", s.Transport.String())

	reason, failure := s.loop()

	err = s.teardown()

	if err != nil && failure == nil {
		failure = err
		reason = err
	}

	if reason == nil {
		s.state = Stopped
		log.Debug("session stopped", "pid", s.pid, "exit_code", s.ExitCode(), "elapsed", s.elapsed)
		return s, s.fireStop(s.ExitCode())
	}

	s.state = Aborted
	s.reason = reason
	log.Debug("session aborted", "pid", s.pid, "reason", reason, "elapsed", s.elapsed)

	err = s.fireAbort(reason)

	if failure != nil {
		if err != nil {
			log.Warn("abort handler failed", "pid", s.pid, "error", err)
		}

		return s, failure
	}

	return s, err
}

// loop returns a nil reason when the child exited, otherwise why the run was cut
// short. failure is set when a handler returned an error.
func (s *Session) loop() (reason error, failure error) {
	err := s.fire(EventStart)

	if err != nil {
		return err, err
	}

	deadline := s.deadline()

	for {
		err = s.fire(EventTick)

		if err != nil {
			return err, err
		}

		if !s.alive() {
			return nil, nil
		}

		err = s.pump.service(deadline)

		if err != nil {
			return err, err
		}

		if !s.alive() {
			return nil, nil
		}

		s.elapsed = time.Since(s.started)

		if s.Timeout > 0 && s.elapsed > s.Timeout {
			return errors.Wrapf(ErrTimeout, "no exit after %s", s.Timeout), nil
		}

		if s.Interval > 0 {
			time.Sleep(capped(s.Interval, deadline))
		}
	}
}

func (s *Session) alive() bool {
	if s.pump.broken != nil {
		s.logger().Debug("pipes unusable", "pid", s.pid, "error", s.pump.broken)
		return false
	}

	return s.process.Running()
}

func (s *Session) deadline() time.Time {
	if s.Timeout <= 0 {
		return time.Time{}
	}

	return s.started.Add(s.Timeout)
}

func (s *Session) validate() error {
	if s.Timeout < 0 {
		return errors.Errorf("timeout must not be negative: %s", s.Timeout)
	}

	if s.Interval < 0 {
		return errors.Errorf("interval must not be negative: %s", s.Interval)
	}

	if s.ChunkSize < 0 {
		return errors.Errorf("chunk size must not be negative: %d", s.ChunkSize)
	}

	s.ChunkSize = utils.IntOrDefault(s.ChunkSize, DefaultChunkSize)

	if s.handlers == nil {
		s.handlers = map[Event]Handler{}
	}

	return nil
}

func (s *Session) launcher() executor.Executor {
	if s.Executor != nil {
		return s.Executor
	}

	return &executor.ShellExecutor{
		Shell:          s.Shell,
		ShellArguments: s.ShellArgs,
		Transport:      s.Transport,
		WinPathFix:     s.WinPathFix,
		Window:         s.Window,
	}
}

func (s *Session) logger() *slog.Logger {
	if s.Logger == nil {
		s.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return s.Logger
}

// Stdout is everything read from the child's stdout so far. Do not modify it.
func (s *Session) Stdout() []byte {
	return s.stdout
}

// Stderr is everything read from the child's stderr so far. Do not modify it.
func (s *Session) Stderr() []byte {
	return s.stderr
}

// ExitCode is -1 until the child has been reaped, and when it died from a signal.
func (s *Session) ExitCode() int {
	if !s.reaped {
		return -1
	}

	return s.exitCode
}

func (s *Session) Elapsed() time.Duration {
	return s.elapsed
}

func (s *Session) State() State {
	return s.state
}

// Reason is why an aborted or failed run ended.
func (s *Session) Reason() error {
	return s.reason
}

func (s *Session) Pid() int {
	return s.pid
}

func (s *Session) Running() bool {
	return s.process != nil && s.process.Running()
}

// capped returns d, shortened so that it does not run past deadline.
func capped(d time.Duration, deadline time.Time) time.Duration {
	if deadline.IsZero() {
		return d
	}

	if left := remaining(deadline); left < d {
		return left
	}

	return d
}

func remaining(deadline time.Time) time.Duration {
	left := time.Until(deadline)

	if left < 0 {
		return 0
	}

	return left
}
