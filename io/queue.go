package io

import (
	"slices"
)

// Queue is a FIFO of values.
//
// A zero Capacity is unbounded; otherwise Send fails with ErrChannelFull
// once Capacity values are queued.
type Queue struct {
	Capacity int
	Data     []int
}

var _ Channel = (*Queue)(nil)

// Reset empties the queue.
func (q *Queue) Reset() {
	q.Data = nil
}

// Len returns the number of queued values.
func (q *Queue) Len() int {
	return len(q.Data)
}

// Empty returns true if no values are queued.
func (q *Queue) Empty() bool {
	return len(q.Data) == 0
}

// Full returns true if the queue is at capacity.
func (q *Queue) Full() bool {
	return q.Capacity > 0 && len(q.Data) >= q.Capacity
}

// Send appends a value.
func (q *Queue) Send(value int) (err error) {
	if q.Full() {
		err = ErrChannelFull
		return
	}

	q.Data = append(q.Data, value)
	return
}

// Receive removes the oldest value.
func (q *Queue) Receive() (value int, ok bool) {
	value, ok = q.Peek()
	if ok {
		q.Data = q.Data[1:]
	}
	return
}

// Peek returns the oldest value without removing it.
func (q *Queue) Peek() (value int, ok bool) {
	if q.Empty() {
		return
	}

	return q.Data[0], true
}

// Last returns the newest value without removing it.
func (q *Queue) Last() (value int, ok bool) {
	if q.Empty() {
		return
	}

	return q.Data[len(q.Data)-1], true
}

// Drain removes and returns all queued values.
func (q *Queue) Drain() (values []int) {
	values = q.Data
	q.Data = nil
	return
}

// Clone returns a deep copy of the queue.
func (q *Queue) Clone() *Queue {
	if q == nil {
		return &Queue{}
	}

	return &Queue{
		Capacity: q.Capacity,
		Data:     slices.Clone(q.Data),
	}
}
