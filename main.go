package main

import (
	"github.com/alexflint/go-arg"
	"github.com/kinematic-ci/interexec/cli"
	"log"
	"os"
)

func main() {
	type arguments struct {
		Run      *cli.RunArgs      `arg:"subcommand:run" help:"Run a session from a sessionfile"`
		Exec     *cli.ExecArgs     `arg:"subcommand:exec" help:"Run a command interactively"`
		Sessions *cli.SessionsArgs `arg:"subcommand:sessions" help:"List the sessions in a sessionfile"`
	}

	log.SetPrefix("[interexec] ")

	args := arguments{}

	p := arg.MustParse(&args)

	switch {
	case args.Run != nil:
		os.Exit(cli.Run(args.Run))
	case args.Exec != nil:
		os.Exit(cli.Exec(args.Exec))
	case args.Sessions != nil:
		cli.Sessions(args.Sessions)
	default:
		p.Fail("missing subcommand")
	}
}
