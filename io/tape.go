package io

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Tape adapts a byte stream to a Channel.
//
// In ASCII mode every input byte is one value, and output values in the
// ASCII range are written as characters; larger values are written as
// decimal lines. Otherwise input is whitespace or comma separated decimal
// integers, and every output value is written as a decimal line.
type Tape struct {
	Input  io.Reader
	Output io.Writer
	ASCII  bool

	reader  *bufio.Reader
	scanner *bufio.Scanner
	pending []string
}

var _ Channel = (*Tape)(nil)

// Rewind discards any buffered input.
func (tc *Tape) Rewind() {
	tc.reader = nil
	tc.scanner = nil
	tc.pending = nil
}

// Receive reads the next value from the input.
func (tc *Tape) Receive() (value int, ok bool) {
	if tc.Input == nil {
		return
	}

	if tc.ASCII {
		if tc.reader == nil {
			tc.reader = bufio.NewReader(tc.Input)
		}
		one, err := tc.reader.ReadByte()
		if err != nil {
			return
		}
		return int(one), true
	}

	if tc.scanner == nil {
		tc.scanner = bufio.NewScanner(tc.Input)
		tc.scanner.Split(bufio.ScanWords)
	}

	for len(tc.pending) == 0 {
		if !tc.scanner.Scan() {
			return
		}
		tc.pending = strings.FieldsFunc(tc.scanner.Text(), func(r rune) bool { return r == ',' })
	}

	// A malformed word stays pending, and ends the tape.
	value, err := strconv.Atoi(tc.pending[0])
	if err != nil {
		return
	}
	tc.pending = tc.pending[1:]

	return value, true
}

// Load moves every input value into a channel.
func (tc *Tape) Load(ch Channel) (count int, err error) {
	for {
		value, ok := tc.Receive()
		if !ok {
			break
		}
		err = ch.Send(value)
		if err != nil {
			return
		}
		count++
	}

	if !tc.ASCII && len(tc.pending) != 0 {
		err = ErrParseValue(tc.pending[0])
	}

	return
}

// Send writes a value to the output.
func (tc *Tape) Send(value int) (err error) {
	if tc.Output == nil {
		return
	}

	if tc.ASCII && value >= 0 && value < 128 {
		_, err = tc.Output.Write([]byte{byte(value)})
		return
	}

	_, err = fmt.Fprintf(tc.Output, "%d\n", value)
	return
}
