package cli

import (
	"bytes"
	"github.com/kinematic-ci/interexec/executor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestPrintTwoCols(t *testing.T) {
	t.Run("Should pad short names", func(t *testing.T) {
		out := &bytes.Buffer{}

		printTwoCols(out, "greet", "Answers the name prompt")

		assert.Equal(t, "  greet                  Answers the name prompt\n", out.String())
	})

	t.Run("Should wrap long names", func(t *testing.T) {
		out := &bytes.Buffer{}

		printTwoCols(out, "a-very-long-session-name", "desc")

		assert.Equal(t, "  a-very-long-session-name\n"+"                         desc\n", out.String())
	})

	t.Run("Should print only the name without a description", func(t *testing.T) {
		out := &bytes.Buffer{}

		printTwoCols(out, "greet", "")

		assert.Equal(t, "  greet\n", out.String())
	})
}

func TestResolveTransport(t *testing.T) {
	f, err := os.Create(filepath.Join(t.TempDir(), "stdin"))

	require.Nil(t, err)

	defer f.Close()

	t.Run("Should fall back to pipes without a terminal", func(t *testing.T) {
		transport, err := resolveTransport("auto", f)

		assert.Nil(t, err)
		assert.Equal(t, executor.Pipe, transport)
	})

	t.Run("Should honour an explicit transport", func(t *testing.T) {
		transport, err := resolveTransport("pty", f)

		assert.Nil(t, err)
		assert.Equal(t, executor.Pty, transport)
	})

	t.Run("Should reject an unknown transport", func(t *testing.T) {
		_, err := resolveTransport("carrier-pigeon", f)

		assert.ErrorIs(t, err, executor.ErrUnknownTransport)
	})

	t.Run("Should not size a window for a plain file", func(t *testing.T) {
		assert.Equal(t, executor.WindowSize{}, windowSize(f))
	})
}

func TestExecArgs_Session(t *testing.T) {
	args := &ExecArgs{
		Timeout:   time.Second,
		Interval:  10 * time.Millisecond,
		ChunkSize: 16,
		Transport: "pipe",
		NoNewline: true,
		Dir:       "/tmp",
		Command:   []string{"echo", "hello"},
	}

	s, input, err := args.session()

	require.Nil(t, err)
	assert.NotNil(t, input)
	assert.Equal(t, "echo hello", s.Command)
	assert.Equal(t, time.Second, s.Timeout)
	assert.Equal(t, 10*time.Millisecond, s.Interval)
	assert.Equal(t, 16, s.ChunkSize)
	assert.Equal(t, executor.Pipe, s.Transport)
	assert.False(t, s.AutoNewline)
	assert.Equal(t, "/tmp", s.Dir)
}

func TestNewLogger(t *testing.T) {
	assert.Nil(t, newLogger(false, os.Stderr))

	out := &bytes.Buffer{}
	newLogger(true, out).Debug("session started", "pid", 42)

	assert.Contains(t, out.String(), "level=DEBUG")
	assert.Contains(t, out.String(), "pid=42")
}
