package cli

import (
	"github.com/kinematic-ci/interexec/session"
	"log"
	"os"
)

type RunArgs struct {
	File    string `arg:"-f,--file" help:"Sessionfile for session definitions" default:"sessions.yaml"`
	Verbose bool   `arg:"-v,--verbose" help:"Log session internals to stderr"`
	Quiet   bool   `arg:"-q,--quiet" help:"Pass the child's output through instead of printing the event log"`
	Name    string `arg:"positional,required" help:"Session to run"`
}

func Run(args *RunArgs) int {
	file := loadSessionfile(args.File)

	entry, found := file.Find(args.Name)

	if !found {
		log.Fatalf("Session '%s' not found in %s\n", args.Name, args.File)
	}

	s, responder, err := entry.Build()

	if err != nil {
		log.Fatalln("Error preparing session:", err)
	}

	s.Window = windowSize(os.Stdout)
	s.Logger = newLogger(args.Verbose, os.Stderr)

	return execute(s, responder.Input, args.Quiet)
}

func execute(s *session.Session, input session.InputFunc, quiet bool) int {
	r := &reporter{
		out:    os.Stdout,
		ticks:  isTerminal(os.Stdout),
		quiet:  quiet,
		stdout: os.Stdout,
		stderr: os.Stderr,
	}

	r.attach(s, input)
	r.header()

	_, err := s.Run()

	if err != nil && s.State() == session.Failed {
		log.Fatalln("Error starting session:", err)
	}

	if err != nil {
		log.Println("Session failed:", err)
	}

	r.context(s)

	return status(s)
}
