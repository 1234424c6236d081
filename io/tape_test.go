package io

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTape_ReceiveNumbers(t *testing.T) {
	assert := assert.New(t)

	tape := &Tape{Input: strings.NewReader("1,2, 3\n-4\n\n+5")}

	var values []int
	for {
		value, ok := tape.Receive()
		if !ok {
			break
		}
		values = append(values, value)
	}

	assert.Equal([]int{1, 2, 3, -4, 5}, values)
}

func TestTape_ReceiveASCII(t *testing.T) {
	assert := assert.New(t)

	tape := &Tape{Input: strings.NewReader("ab\n"), ASCII: true}

	q := &Queue{}
	count, err := tape.Load(q)
	assert.NoError(err)
	assert.Equal(3, count)
	assert.Equal([]int{'a', 'b', '\n'}, q.Data)
}

func TestTape_LoadMalformed(t *testing.T) {
	assert := assert.New(t)

	tape := &Tape{Input: strings.NewReader("7 x 8")}

	q := &Queue{}
	count, err := tape.Load(q)
	assert.Equal(1, count)
	assert.Equal(ErrParseValue("x"), err)
	assert.Equal([]int{7}, q.Data)
}

func TestTape_LoadFull(t *testing.T) {
	assert := assert.New(t)

	tape := &Tape{Input: strings.NewReader("1 2 3")}

	q := &Queue{Capacity: 2}
	count, err := tape.Load(q)
	assert.Equal(2, count)
	assert.Equal(ErrChannelFull, err)
}

func TestTape_Send(t *testing.T) {
	assert := assert.New(t)

	out := &bytes.Buffer{}
	tape := &Tape{Output: out}
	assert.NoError(tape.Send(3500))
	assert.NoError(tape.Send(-1))
	assert.Equal("3500\n-1\n", out.String())

	out.Reset()
	tape = &Tape{Output: out, ASCII: true}
	assert.NoError(tape.Send('h'))
	assert.NoError(tape.Send('i'))
	assert.NoError(tape.Send(19357180))
	assert.Equal("hi19357180\n", out.String())
}

func TestTape_NoStreams(t *testing.T) {
	assert := assert.New(t)

	tape := &Tape{}
	_, ok := tape.Receive()
	assert.False(ok)
	assert.NoError(tape.Send(1))
}

func TestTape_Rewind(t *testing.T) {
	assert := assert.New(t)

	tape := &Tape{Input: strings.NewReader("1,2")}
	value, ok := tape.Receive()
	assert.True(ok)
	assert.Equal(1, value)

	tape.Rewind()
	tape.Input = strings.NewReader("9")
	value, ok = tape.Receive()
	assert.True(ok)
	assert.Equal(9, value)
}
