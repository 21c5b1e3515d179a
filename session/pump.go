//go:build unix

package session

import (
	"github.com/kinematic-ci/interexec/executor"
	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
	"time"
)

const (
	// idleWait bounds the pause when every stream is closed but the child has not exited yet.
	idleWait = 10 * time.Millisecond

	drainLimit = 16 << 20
)

type stream struct {
	name string
	fd   int
	open bool
}

func newStream(name string, fd int) stream {
	return stream{name: name, fd: fd, open: fd >= 0}
}

// pump services whichever of stdout, stderr and stdin are ready, one batch per call.
type pump struct {
	session *Session
	stdin   stream
	stdout  stream
	stderr  stream
	pending []byte
	buf     []byte
	broken  error
}

func newPump(s *Session, process executor.Process) *pump {
	return &pump{
		session: s,
		stdin:   newStream("stdin", process.Stdin()),
		stdout:  newStream("stdout", process.Stdout()),
		stderr:  newStream("stderr", process.Stderr()),
		buf:     make([]byte, s.ChunkSize),
	}
}

func (p *pump) service(deadline time.Time) error {
	var fds []unix.PollFd
	var targets []*stream

	watch := func(st *stream, events int16) {
		if st.open {
			fds = append(fds, unix.PollFd{Fd: int32(st.fd), Events: events})
			targets = append(targets, st)
		}
	}

	watch(&p.stdout, unix.POLLIN)
	watch(&p.stderr, unix.POLLIN)
	watch(&p.stdin, unix.POLLOUT)

	if len(fds) == 0 {
		time.Sleep(capped(idleWait, deadline))
		return nil
	}

	n, err := poll(fds, deadline)

	if err != nil {
		p.fail(errors.Wrap(err, "unable to wait for pipes"))
		return nil
	}

	if n == 0 {
		return nil
	}

	for i, fd := range fds {
		if fd.Revents == 0 {
			continue
		}

		if targets[i] == &p.stdin {
			err = p.write(fd.Revents)
		} else {
			err = p.read(targets[i], fd.Revents)
		}

		if err != nil {
			return err
		}
	}

	return nil
}

func (p *pump) read(st *stream, revents int16) error {
	if revents&unix.POLLNVAL != 0 {
		st.open = false
		return nil
	}

	n, err := unix.Read(st.fd, p.buf)

	switch {
	case err == unix.EAGAIN || err == unix.EINTR:
		return nil
	case err == unix.EIO:
		// a pty master reports EIO once the child side has hung up
		st.open = false
		return nil
	case err != nil:
		st.open = false
		p.fail(errors.Wrapf(err, "unable to read %s", st.name))
		return nil
	case n == 0:
		st.open = false
		return nil
	}

	return p.deliver(st, p.buf[:n])
}

func (p *pump) deliver(st *stream, data []byte) error {
	s := p.session
	chunk := append([]byte(nil), data...)

	if st == &p.stderr {
		s.stderr = append(s.stderr, chunk...)
		return s.fireChunk(EventError, chunk)
	}

	s.stdout = append(s.stdout, chunk...)
	s.lastOutput = chunk

	return s.fireChunk(EventOutput, chunk)
}

func (p *pump) write(revents int16) error {
	if revents&unix.POLLOUT == 0 {
		// the child closed its end; keep reading until it exits
		p.stdin.open = false
		p.pending = nil
		return nil
	}

	s := p.session

	if len(p.pending) == 0 {
		data, err := s.fireInput(s.lastOutput)

		if err != nil {
			return err
		}

		if len(data) == 0 && s.AutoNewline {
			data = []byte(lineTerminator)
		}

		if len(data) == 0 {
			return nil
		}

		p.pending = append([]byte(nil), data...)
	}

	n, err := unix.Write(p.stdin.fd, p.pending)

	if n > 0 {
		p.pending = p.pending[n:]
	}

	switch {
	case err == nil || err == unix.EAGAIN || err == unix.EINTR:
	case err == unix.EPIPE:
		p.stdin.open = false
		p.pending = nil
	default:
		p.stdin.open = false
		p.fail(errors.Wrap(err, "unable to write stdin"))
	}

	return nil
}

// drain reads what the output streams still hold without waiting for more.
func (p *pump) drain() error {
	for _, st := range []*stream{&p.stdout, &p.stderr} {
		total := 0

		for st.open && total < drainLimit {
			n, err := unix.Read(st.fd, p.buf)

			if err == unix.EINTR {
				continue
			}

			if err != nil || n == 0 {
				break
			}

			total += n

			err = p.deliver(st, p.buf[:n])

			if err != nil {
				return err
			}
		}
	}

	return nil
}

func (p *pump) fail(err error) {
	if p.broken == nil {
		p.broken = err
	}
}

func poll(fds []unix.PollFd, deadline time.Time) (int, error) {
	timeout := -1

	if !deadline.IsZero() {
		timeout = int(remaining(deadline).Milliseconds()) + 1
	}

	n, err := unix.Poll(fds, timeout)

	if err == unix.EINTR {
		return 0, nil
	}

	return n, err
}
