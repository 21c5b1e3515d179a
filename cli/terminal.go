package cli

import (
	"github.com/kinematic-ci/interexec/executor"
	"github.com/mattn/go-isatty"
	"golang.org/x/term"
	"io"
	"log/slog"
	"os"
)

const autoTransport = "auto"

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// resolveTransport maps "auto" to a pty when stdin is a terminal.
func resolveTransport(name string, stdin *os.File) (executor.Transport, error) {
	if name == autoTransport {
		if isTerminal(stdin) {
			return executor.Pty, nil
		}

		return executor.Pipe, nil
	}

	return executor.ParseTransport(name)
}

func windowSize(f *os.File) executor.WindowSize {
	cols, rows, err := term.GetSize(int(f.Fd()))

	if err != nil || cols <= 0 || rows <= 0 {
		return executor.WindowSize{}
	}

	return executor.WindowSize{Cols: uint16(cols), Rows: uint16(rows)}
}

func newLogger(verbose bool, w io.Writer) *slog.Logger {
	if !verbose {
		return nil
	}

	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
}
