package coprocessor

import (
	"errors"

	"github.com/matzsoft/adventofcode-sub002/translate"
)

var f = translate.From

var (
	ErrDivideByZero = errors.New(f("modulo by zero"))
)
