package cli

import (
	"github.com/kinematic-ci/interexec/script"
	"github.com/kinematic-ci/interexec/session"
	"log"
	"os"
	"strings"
	"time"
)

type ExecArgs struct {
	Timeout   time.Duration `arg:"-t,--timeout" help:"Abort when the command has not exited after this long"`
	Interval  time.Duration `arg:"-i,--interval" help:"Pause between loop iterations"`
	ChunkSize int           `arg:"--chunk-size" help:"Most bytes read from a stream at once" default:"4096"`
	Transport string        `arg:"--transport" help:"pipe, pty or auto" default:"auto"`
	NoNewline bool          `arg:"--no-newline" help:"Do not send a newline when there is nothing else to send"`
	Send      []string      `arg:"-s,--send,separate" help:"Line to send, in order, one per input offer"`
	Dir       string        `arg:"-C,--dir" help:"Working directory"`
	Verbose   bool          `arg:"-v,--verbose" help:"Log session internals to stderr"`
	Quiet     bool          `arg:"-q,--quiet" help:"Pass the child's output through instead of printing the event log"`
	Command   []string      `arg:"positional,required" help:"Command line to run"`
}

func Exec(args *ExecArgs) int {
	s, input, err := args.session()

	if err != nil {
		log.Fatalln("Error preparing session:", err)
	}

	s.Logger = newLogger(args.Verbose, os.Stderr)

	return execute(s, input, args.Quiet)
}

func (args *ExecArgs) session() (*session.Session, session.InputFunc, error) {
	transport, err := resolveTransport(args.Transport, os.Stdin)

	if err != nil {
		return nil, nil, err
	}

	s := session.New(strings.Join(args.Command, " "), nil)
	s.Timeout = args.Timeout
	s.Interval = args.Interval
	s.ChunkSize = args.ChunkSize
	s.Transport = transport
	s.AutoNewline = !args.NoNewline
	s.Dir = args.Dir
	s.Window = windowSize(os.Stdout)

	steps := script.NewSteps()

	for _, line := range args.Send {
		steps.Add(script.Step{Send: line})
	}

	return s, script.NewResponder(steps).Input, nil
}
