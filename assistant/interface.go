package assistant

import (
	"context"
	"errors"
)

var ErrAlreadyStarted = errors.New("assistant: already started")

type Mode int32

const (
	// ModeStandby waits for the wake word.
	ModeStandby Mode = iota

	// ModeActive treats every transcript as a command.
	ModeActive
)

func (m Mode) String() string {
	switch m {
	case ModeStandby:
		return "standby"
	case ModeActive:
		return "active"
	default:
		return "unknown"
	}
}

type Interface interface {
	// Run blocks until the assistant is stopped by a command, by Stop or by
	// ctx. It can only be called once.
	Run(ctx context.Context) error

	// Stop asks the loop to exit before its next iteration. It does not wait
	// for an in-flight capture and is safe to call more than once.
	Stop()

	Mode() Mode
}
