// Package io provides the channels that carry values between machines.
// It includes a FIFO queue (Queue), a reader/writer adapter for streams
// of integers or ASCII text (Tape), and helpers for ASCII programs.
package io

// Channel defines the interface for all value channels.
// Channels are synchronous: a Receive on an empty channel returns at once.
type Channel interface {
	// Send queues a value.
	Send(value int) error
	// Receive takes the oldest queued value, if any.
	Receive() (value int, ok bool)
}
