//go:build unix

package executor

import (
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
	"testing"
	"time"
)

func waitExited(t *testing.T, p Process) {
	t.Helper()

	deadline := time.Now().Add(5 * time.Second)

	for p.Running() {
		if time.Now().After(deadline) {
			t.Fatal("process did not exit")
		}

		time.Sleep(5 * time.Millisecond)
	}
}

func TestShellExecutor_Start(t *testing.T) {
	t.Run("Should report the exit code", func(t *testing.T) {
		p, err := NewShellExecutor("", "", nil).Start(Command{Line: "exit 42"})

		require.Nil(t, err)

		waitExited(t, p)

		status, err := p.Wait()

		assert.Nil(t, err)
		assert.True(t, status.Exited)
		assert.Equal(t, 42, status.Code)
		assert.True(t, p.Exited())
		assert.Nil(t, p.Close())
	})

	t.Run("Should return an error for a missing shell", func(t *testing.T) {
		p, err := NewShellExecutor("", "/nonexistent/shell", []string{"-c"}).Start(Command{Line: "true"})

		assert.Nil(t, p)
		assert.NotNil(t, err)
	})

	t.Run("Should return an error for a missing working directory", func(t *testing.T) {
		p, err := NewShellExecutor("/nonexistent/dir", "", nil).Start(Command{Line: "true"})

		assert.Nil(t, p)
		assert.NotNil(t, err)
	})

	t.Run("Should connect three separate non-blocking pipes", func(t *testing.T) {
		p, err := NewShellExecutor("", "", nil).Start(Command{Line: "sleep 5"})

		require.Nil(t, err)

		defer func() {
			p.Kill()
			p.Close()
			p.Wait()
		}()

		assert.True(t, p.Stdin() >= 0)
		assert.True(t, p.Stdout() >= 0)
		assert.True(t, p.Stderr() >= 0)
		assert.NotEqual(t, p.Stdout(), p.Stderr())

		buf := make([]byte, 16)
		_, err = unix.Read(p.Stdout(), buf)

		assert.Equal(t, unix.EAGAIN, err)
		assert.True(t, p.Running())
	})

	t.Run("Should kill a running process", func(t *testing.T) {
		p, err := NewShellExecutor("", "", nil).Start(Command{Line: "sleep 30"})

		require.Nil(t, err)

		assert.True(t, p.Running())
		assert.Nil(t, p.Kill())

		status, err := p.Wait()

		assert.Nil(t, err)
		assert.True(t, status.Signaled)
		assert.Equal(t, unix.SIGKILL, status.Signal)
		assert.Equal(t, -1, status.Code)
		assert.Nil(t, p.Close())
	})

	t.Run("Should report a stopped process as not running", func(t *testing.T) {
		p, err := NewShellExecutor("", "", nil).Start(Command{Line: "sleep 30"})

		require.Nil(t, err)

		require.Nil(t, unix.Kill(p.Pid(), unix.SIGSTOP))

		waitExited(t, p)

		assert.False(t, p.Exited())
		assert.Nil(t, p.Kill())

		_, err = p.Wait()

		assert.Nil(t, err)
		assert.True(t, p.Exited())
		p.Close()
	})
}

func TestProcess_Teardown(t *testing.T) {
	t.Run("Should reap and close exactly once", func(t *testing.T) {
		p, err := NewShellExecutor("", "", nil).Start(Command{Line: "exit 3"})

		require.Nil(t, err)

		waitExited(t, p)

		first, err := p.Wait()
		assert.Nil(t, err)

		second, err := p.Wait()
		assert.Nil(t, err)

		assert.Equal(t, first, second)
		assert.Nil(t, p.Kill())
		assert.Nil(t, p.Close())
		assert.Nil(t, p.Close())
		assert.False(t, p.Running())
	})
}

func TestShellExecutor_StartPty(t *testing.T) {
	e := NewShellExecutor("", "", nil)
	e.Transport = Pty
	e.Window = WindowSize{Cols: 100, Rows: 30}

	p, err := e.Start(Command{Line: "exit 5"})

	if err != nil {
		t.Skipf("pty unavailable: %v", err)
	}

	t.Run("Should share one handle for stdin and stdout", func(t *testing.T) {
		assert.Equal(t, p.Stdin(), p.Stdout())
		assert.Equal(t, -1, p.Stderr())
	})

	t.Run("Should reap and close the master once", func(t *testing.T) {
		status, err := p.Wait()

		assert.Nil(t, err)
		assert.Equal(t, 5, status.Code)
		assert.Nil(t, p.Close())
		assert.Nil(t, p.Close())
	})
}
