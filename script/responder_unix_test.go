//go:build unix

package script

import (
	"github.com/kinematic-ci/interexec/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
	"time"
)

func TestResponder_Input(t *testing.T) {
	t.Run("Should drive a session through its prompts", func(t *testing.T) {
		r := NewResponder(NewSteps(
			Step{Expect: "name?", Send: "Chris"},
			Step{Expect: "colour?", Send: "green"},
		))

		s := session.New(`printf 'name? '; read n; printf 'colour? '; read c; echo "$n likes $c"`, nil)
		s.AutoNewline = false
		s.Timeout = 5 * time.Second
		s.OnInput(r.Input)

		_, err := s.Run()

		require.Nil(t, err)
		assert.Equal(t, session.Stopped, s.State())
		assert.Equal(t, "name? colour? Chris likes green\n", string(s.Stdout()))
		assert.True(t, r.Done())
	})
}
