package cli

import (
	"fmt"
	"github.com/kinematic-ci/interexec/sessionfile"
	"io"
	"log"
	"os"
	"strings"
)

const colWidth = 25

type SessionsArgs struct {
	File string `arg:"-f,--file" help:"Sessionfile for session definitions" default:"sessions.yaml"`
}

func Sessions(args *SessionsArgs) {
	file := loadSessionfile(args.File)

	fmt.Println("Available sessions:")
	for _, s := range file.Sessions {
		printTwoCols(os.Stdout, s.Name, s.Description)
	}
}

func loadSessionfile(path string) *sessionfile.Sessionfile {
	bytes, err := os.ReadFile(path)

	if err != nil {
		log.Fatalln("Error opening sessionfile:", err)
	}

	file, err := sessionfile.Load(bytes)

	if err != nil {
		log.Fatalln("Error parsing sessionfile:", err)
	}

	return file
}

func printTwoCols(w io.Writer, left, right string) {
	lhs := "  " + left
	fmt.Fprint(w, lhs)
	if right != "" {
		if len(lhs)+2 < colWidth {
			fmt.Fprint(w, strings.Repeat(" ", colWidth-len(lhs)))
		} else {
			fmt.Fprint(w, "\n"+strings.Repeat(" ", colWidth))
		}
		fmt.Fprint(w, right)
	}
	fmt.Fprint(w, "\n")
}
