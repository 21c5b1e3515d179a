package executor

import (
	"github.com/pkg/errors"
	"strings"
	"syscall"
)

type Transport int

const (
	Pipe Transport = iota
	Pty
)

var (
	ErrUnsupportedPlatform = errors.New("interactive sessions are not supported on this platform")
	ErrUnknownTransport    = errors.New("unknown transport")
)

func (t Transport) String() string {
	switch t {
	case Pipe:
		return "pipe"
	case Pty:
		return "pty"
	default:
		return "unknown"
	}
}

func ParseTransport(name string) (Transport, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "pipe":
		return Pipe, nil
	case "pty":
		return Pty, nil
	default:
		return Pipe, errors.Wrapf(ErrUnknownTransport, "%q", name)
	}
}

// Command is what a caller wants launched. Env nil inherits the parent environment.
type Command struct {
	Line string
	Env  map[string]string
	Dir  string
}

// Status is the reaped state of a child.
type Status struct {
	Exited   bool
	Code     int
	Signaled bool
	Signal   syscall.Signal
}

// Process is a started child and the parent's ends of its standard streams.
// Stdin, Stdout and Stderr are non-blocking descriptors owned by the process
// until Close; Stderr is -1 when the transport merges it into Stdout.
type Process interface {
	Pid() int
	Stdin() int
	Stdout() int
	Stderr() int
	// Running reports whether the child is still alive without blocking.
	// Exited, signaled and stopped children are all reported as not running.
	Running() bool
	// Exited reports whether the child has been reaped.
	Exited() bool
	Kill() error
	// Wait reaps the child once; later calls return the same status.
	Wait() (Status, error)
	// Close releases the parent's stream handles. Safe to call more than once.
	Close() error
}

type Executor interface {
	Name() string
	Start(cmd Command) (Process, error)
}
