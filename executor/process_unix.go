//go:build unix

package executor

import (
	"github.com/creack/pty"
	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
	"os"
	"syscall"
)

type unixProcess struct {
	pid     int
	stdin   *os.File
	stdout  *os.File
	stderr  *os.File
	fds     [3]int
	status  Status
	reaped  bool
	stopped bool
	closed  bool
}

func startProcess(spec launchSpec) (Process, error) {
	switch spec.transport {
	case Pipe:
		return startPiped(spec)
	case Pty:
		return startPty(spec)
	default:
		return nil, errors.Wrapf(ErrUnknownTransport, "%d", spec.transport)
	}
}

func startPiped(spec launchSpec) (Process, error) {
	var files []*os.File

	closeAll := func() {
		for _, f := range files {
			f.Close()
		}
	}

	pipes := make([][2]*os.File, 3)

	for i := range pipes {
		r, w, err := os.Pipe()

		if err != nil {
			closeAll()
			return nil, errors.Wrap(err, "unable to create pipe")
		}

		files = append(files, r, w)
		pipes[i] = [2]*os.File{r, w}
	}

	stdinR, stdinW := pipes[0][0], pipes[0][1]
	stdoutR, stdoutW := pipes[1][0], pipes[1][1]
	stderrR, stderrW := pipes[2][0], pipes[2][1]

	pid, err := syscall.ForkExec(spec.path, spec.argv, &syscall.ProcAttr{
		Dir:   spec.dir,
		Env:   spec.env,
		Files: []uintptr{stdinR.Fd(), stdoutW.Fd(), stderrW.Fd()},
		Sys:   &syscall.SysProcAttr{Setpgid: true},
	})

	if err != nil {
		closeAll()
		return nil, errors.Wrap(err, "unable to fork shell")
	}

	stdinR.Close()
	stdoutW.Close()
	stderrW.Close()

	p := &unixProcess{pid: pid, stdin: stdinW, stdout: stdoutR, stderr: stderrR, fds: [3]int{-1, -1, -1}}

	err = p.nonblocking()

	if err != nil {
		p.Kill()
		p.Close()
		p.Wait()
		return nil, err
	}

	return p, nil
}

func startPty(spec launchSpec) (Process, error) {
	master, tty, err := pty.Open()

	if err != nil {
		return nil, errors.Wrap(err, "unable to open pty")
	}

	if spec.window.Cols > 0 && spec.window.Rows > 0 {
		err = pty.Setsize(master, &pty.Winsize{Cols: spec.window.Cols, Rows: spec.window.Rows})

		if err != nil {
			master.Close()
			tty.Close()
			return nil, errors.Wrap(err, "unable to size pty")
		}
	}

	fd := tty.Fd()

	pid, err := syscall.ForkExec(spec.path, spec.argv, &syscall.ProcAttr{
		Dir:   spec.dir,
		Env:   spec.env,
		Files: []uintptr{fd, fd, fd},
		Sys:   &syscall.SysProcAttr{Setsid: true, Setctty: true, Ctty: 0},
	})

	tty.Close()

	if err != nil {
		master.Close()
		return nil, errors.Wrap(err, "unable to fork shell")
	}

	p := &unixProcess{pid: pid, stdin: master, stdout: master, fds: [3]int{-1, -1, -1}}

	err = p.nonblocking()

	if err != nil {
		p.Kill()
		p.Close()
		p.Wait()
		return nil, err
	}

	return p, nil
}

// nonblocking records the raw descriptor of each parent handle and switches it to
// non-blocking mode. File.Fd is avoided because it puts the descriptor back into
// blocking mode on every call.
func (p *unixProcess) nonblocking() error {
	for i, f := range []*os.File{p.stdin, p.stdout, p.stderr} {
		p.fds[i] = -1

		if f == nil {
			continue
		}

		fd, err := rawFd(f)

		if err != nil {
			return err
		}

		err = unix.SetNonblock(fd, true)

		if err != nil {
			return errors.Wrapf(err, "unable to make %s non-blocking", f.Name())
		}

		p.fds[i] = fd
	}

	return nil
}

func rawFd(f *os.File) (int, error) {
	conn, err := f.SyscallConn()

	if err != nil {
		return -1, errors.Wrapf(err, "unable to access %s", f.Name())
	}

	fd := -1

	err = conn.Control(func(sysfd uintptr) {
		fd = int(sysfd)
	})

	if err != nil {
		return -1, errors.Wrapf(err, "unable to access %s", f.Name())
	}

	return fd, nil
}

// files returns each distinct parent handle once; a pty master backs both stdin and stdout.
func (p *unixProcess) files() []*os.File {
	var files []*os.File

	for _, f := range []*os.File{p.stdin, p.stdout, p.stderr} {
		if f == nil {
			continue
		}

		seen := false

		for _, other := range files {
			if other == f {
				seen = true
			}
		}

		if !seen {
			files = append(files, f)
		}
	}

	return files
}

func (p *unixProcess) Pid() int {
	return p.pid
}

func (p *unixProcess) Stdin() int {
	return p.fds[0]
}

func (p *unixProcess) Stdout() int {
	return p.fds[1]
}

func (p *unixProcess) Stderr() int {
	return p.fds[2]
}

func (p *unixProcess) Running() bool {
	if p.reaped || p.stopped {
		return false
	}

	var ws unix.WaitStatus

	for {
		wpid, err := unix.Wait4(p.pid, &ws, unix.WNOHANG|unix.WUNTRACED, nil)

		if err == unix.EINTR {
			continue
		}

		if err != nil {
			// ECHILD: the child was reaped elsewhere and its status is gone.
			p.reaped = true
			p.status = Status{Code: -1}
			return false
		}

		if wpid == 0 {
			return true
		}

		if ws.Stopped() {
			p.stopped = true
		} else {
			p.record(ws)
		}

		return false
	}
}

func (p *unixProcess) Exited() bool {
	return p.reaped
}

func (p *unixProcess) Kill() error {
	if p.reaped {
		return nil
	}

	err := unix.Kill(-p.pid, unix.SIGKILL)

	if err == unix.ESRCH {
		err = unix.Kill(p.pid, unix.SIGKILL)
	}

	if err != nil && err != unix.ESRCH {
		return errors.Wrapf(err, "unable to kill process %d", p.pid)
	}

	return nil
}

func (p *unixProcess) Wait() (Status, error) {
	if p.reaped {
		return p.status, nil
	}

	var ws unix.WaitStatus

	for {
		wpid, err := unix.Wait4(p.pid, &ws, 0, nil)

		if err == unix.EINTR {
			continue
		}

		if err != nil {
			p.reaped = true
			p.status = Status{Code: -1}
			return p.status, errors.Wrap(err, "error while waiting for process to end")
		}

		if wpid == p.pid && (ws.Exited() || ws.Signaled()) {
			p.record(ws)
			return p.status, nil
		}
	}
}

func (p *unixProcess) record(ws unix.WaitStatus) {
	p.reaped = true

	switch {
	case ws.Exited():
		p.status = Status{Exited: true, Code: ws.ExitStatus()}
	case ws.Signaled():
		p.status = Status{Signaled: true, Signal: ws.Signal(), Code: -1}
	default:
		p.status = Status{Code: -1}
	}
}

func (p *unixProcess) Close() error {
	if p.closed {
		return nil
	}

	p.closed = true

	var first error

	for _, f := range p.files() {
		err := f.Close()

		if err != nil && first == nil && !errors.Is(err, os.ErrClosed) {
			first = errors.Wrap(err, "unable to close IO")
		}
	}

	return first
}
