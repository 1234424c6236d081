package debugger

import (
	"errors"

	"github.com/matzsoft/adventofcode-sub002/translate"
)

var f = translate.From

var (
	ErrBreakpointFormat = errors.New(f("breakpoint is not 'address' or 'address:expression'"))
	ErrTraceFormat      = errors.New(f("trace window is not 'cycle:start:stop' or 'address:start:stop'"))
	ErrRegisterFormat   = errors.New(f("register seed is not 'name=value'"))
)

// ErrParseExpression is raised for a guard expression that does not parse,
// or that does not evaluate to a value.
type ErrParseExpression string

func (err ErrParseExpression) Error() string {
	return f("expression '%v' invalid", string(err))
}
