package executor

import (
	"github.com/kinematic-ci/interexec/utils"
	"github.com/pkg/errors"
	"os"
	"os/exec"
	"runtime"
	"sort"
)

const (
	posixShell   = "/bin/sh"
	windowsShell = "cmd.exe"
)

// WindowSize is the initial pty size. A zero value leaves the kernel default.
type WindowSize struct {
	Cols uint16
	Rows uint16
}

type ShellExecutor struct {
	Shell            string
	ShellArguments   []string
	WorkingDirectory string
	Transport        Transport
	WinPathFix       bool
	Window           WindowSize
}

func NewShellExecutor(workingDirectory, shell string, shellArguments []string) *ShellExecutor {
	return &ShellExecutor{
		WorkingDirectory: workingDirectory,
		Shell:            shell,
		ShellArguments:   shellArguments,
		Transport:        Pipe,
		WinPathFix:       true,
	}
}

func (s *ShellExecutor) Name() string {
	return "shell"
}

func (s *ShellExecutor) Start(cmd Command) (Process, error) {
	argv := s.argv(cmd.Line, runtime.GOOS)

	path, err := exec.LookPath(argv[0])

	if err != nil {
		return nil, errors.Wrapf(err, "unable to find shell %s", argv[0])
	}

	launch := launchSpec{
		path:      path,
		argv:      argv,
		env:       environ(cmd.Env),
		dir:       utils.StringOrDefault(cmd.Dir, s.WorkingDirectory),
		transport: s.Transport,
		window:    s.Window,
	}

	process, err := startProcess(launch)

	if err != nil {
		return nil, errors.Wrapf(err, "unable to start %s session", s.Transport)
	}

	return process, nil
}

func (s *ShellExecutor) argv(line, goos string) []string {
	shell, args := s.Shell, s.ShellArguments

	if shell == "" {
		shell, args = defaultShell(goos)
	}

	if s.WinPathFix && goos == "windows" {
		line, _ = FixWindowsPath(line)
	}

	argv := []string{shell}
	argv = append(argv, args...)

	return append(argv, line)
}

func defaultShell(goos string) (string, []string) {
	if goos == "windows" {
		return windowsShell, []string{"/C"}
	}

	return posixShell, []string{"-c"}
}

// environ flattens env into KEY=VALUE pairs sorted by key, or inherits the
// parent environment when env is nil.
func environ(env map[string]string) []string {
	if env == nil {
		return os.Environ()
	}

	keys := make([]string, 0, len(env))

	for key := range env {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	vars := make([]string, 0, len(keys))

	for _, key := range keys {
		vars = append(vars, key+"="+env[key])
	}

	return vars
}

type launchSpec struct {
	path      string
	argv      []string
	env       []string
	dir       string
	transport Transport
	window    WindowSize
}
