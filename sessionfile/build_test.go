package sessionfile

import (
	"github.com/kinematic-ci/interexec/executor"
	"github.com/kinematic-ci/interexec/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
	"time"
)

func TestSession_Build(t *testing.T) {
	t.Run("Should copy the settings onto the session", func(t *testing.T) {
		s, responder, err := Session{
			Name:      "greet",
			Command:   "echo hi",
			Dir:       "/tmp",
			Timeout:   Duration(time.Second),
			Interval:  Duration(time.Millisecond),
			ChunkSize: 8,
			Transport: "pty",
		}.Build()

		require.Nil(t, err)
		assert.Equal(t, "echo hi", s.Command)
		assert.Equal(t, "/tmp", s.Dir)
		assert.Equal(t, time.Second, s.Timeout)
		assert.Equal(t, time.Millisecond, s.Interval)
		assert.Equal(t, 8, s.ChunkSize)
		assert.Equal(t, executor.Pty, s.Transport)
		assert.True(t, s.AutoNewline)
		assert.Nil(t, s.Env)
		assert.True(t, responder.Done())
		assert.Equal(t, session.NotStarted, s.State())
	})

	t.Run("Should keep the default chunk size", func(t *testing.T) {
		s, _, err := Session{Name: "a", Command: "true"}.Build()

		require.Nil(t, err)
		assert.Equal(t, session.DefaultChunkSize, s.ChunkSize)
	})

	t.Run("Should turn off the keep-alive newline for scripted sessions", func(t *testing.T) {
		s, responder, err := Session{
			Name:      "greet",
			Command:   "read n",
			Responses: []Response{{Expect: "name?", Send: "Chris"}},
		}.Build()

		require.Nil(t, err)
		assert.False(t, s.AutoNewline)
		assert.Equal(t, 1, responder.Pending())

		on := true
		s, _, err = Session{
			Name:        "greet",
			Command:     "read n",
			AutoNewline: &on,
			Responses:   []Response{{Send: "Chris"}},
		}.Build()

		require.Nil(t, err)
		assert.True(t, s.AutoNewline)
	})

	t.Run("Should add env on top of the inherited environment", func(t *testing.T) {
		t.Setenv("INTEREXEC_INHERITED", "yes")

		s, _, err := Session{Name: "a", Command: "true", Env: map[string]string{"FOO": "BAR"}}.Build()

		require.Nil(t, err)
		assert.Equal(t, "BAR", s.Env["FOO"])
		assert.Equal(t, "yes", s.Env["INTEREXEC_INHERITED"])
	})

	t.Run("Should reject an unknown transport", func(t *testing.T) {
		s, _, err := Session{Name: "a", Command: "true", Transport: "tcp"}.Build()

		assert.Nil(t, s)
		assert.ErrorIs(t, err, executor.ErrUnknownTransport)
	})
}
