package io

import (
	"strings"
)

// SendString sends each byte of a string to the channel.
func SendString(ch Channel, text string) (err error) {
	for n := range len(text) {
		err = ch.Send(int(text[n]))
		if err != nil {
			return
		}
	}
	return
}

// SendLines sends each line followed by a newline.
func SendLines(ch Channel, lines ...string) (err error) {
	for _, line := range lines {
		err = SendString(ch, line+"\n")
		if err != nil {
			return
		}
	}
	return
}

// ReceiveString receives every available value. Values in the ASCII
// range are collected as text; the first value outside it is returned
// separately with ok set, and ends the receive.
func ReceiveString(ch Channel) (text string, value int, ok bool) {
	var sb strings.Builder
	for {
		var in int
		in, ok = ch.Receive()
		if !ok {
			break
		}
		if in < 0 || in >= 128 {
			value = in
			break
		}
		sb.WriteByte(byte(in))
	}

	text = sb.String()
	return
}
