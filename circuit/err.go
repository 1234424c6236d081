package circuit

import (
	"errors"

	"github.com/matzsoft/adventofcode-sub002/translate"
)

var f = translate.From

var (
	ErrCycle        = errors.New(f("wire loop"))
	ErrWireDriven   = errors.New(f("wire has more than one driver"))
	ErrGateSyntax   = errors.New(f("gate syntax"))
	ErrSignalFormat = errors.New(f("signal out of range"))
)

// ErrWireUnknown is raised for a wire with no driver.
type ErrWireUnknown string

func (err ErrWireUnknown) Error() string {
	return f("wire '%v' has no driver", string(err))
}
