//go:build !unix

package session

import (
	"github.com/kinematic-ci/interexec/executor"
	"time"
)

type pump struct {
	broken error
}

func newPump(_ *Session, _ executor.Process) *pump {
	return &pump{broken: executor.ErrUnsupportedPlatform}
}

func (p *pump) service(_ time.Time) error {
	return nil
}

func (p *pump) drain() error {
	return nil
}
