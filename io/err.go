package io

import (
	"errors"

	"github.com/matzsoft/adventofcode-sub002/translate"
)

var f = translate.From

var (
	// Channel errors
	ErrChannelFull = errors.New(f("channel full"))
)

// ErrParseValue is raised for a tape word that is not an integer.
type ErrParseValue string

func (err ErrParseValue) Error() string {
	return f("'%v' is not a number", string(err))
}
