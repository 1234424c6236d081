package emulator

import (
	"errors"

	"github.com/matzsoft/adventofcode-sub002/translate"
)

var f = translate.From

var (
	ErrDeadlock = errors.New(f("every machine is waiting for input"))
	ErrNoTape   = errors.New(f("no machine is attached to the tape"))
)

// ErrRuntime indicates the machine and location of a runtime error.
type ErrRuntime struct {
	Machine int
	Pc      int
	LineNo  int
	Err     error
}

func (err *ErrRuntime) Error() string {
	if err.LineNo != 0 {
		return f("machine %d pc %d line %d %v", err.Machine, err.Pc, err.LineNo, err.Err)
	}
	return f("machine %d pc %d %v", err.Machine, err.Pc, err.Err)
}

func (err *ErrRuntime) Unwrap() error {
	return err.Err
}
