package seatalk

import (
	"fmt"
	"strings"
)

// maxLineLength bounds a SeaTalk datagram's length; the longest documented datagram is well
// under this, so it's mostly a guard against a garbled length nibble running the buffer away.
const maxLineLength = 20

// Line is a single SeaTalk datagram: a command byte, an attribute byte whose low nibble gives
// the count of bytes following it, and that many data bytes.
type Line struct {
	bytes   []uint8
	overrun bool
}

// Reset empties the line so it can be reused for the next datagram.
func (l *Line) Reset() {
	l.bytes = l.bytes[:0]
	l.overrun = false
}

// Append adds one byte to the line. A line that grows past maxLineLength sets its overrun flag
// and stops accepting further bytes.
func (l *Line) Append(b uint8) {
	if len(l.bytes) >= maxLineLength {
		l.overrun = true
		return
	}
	l.bytes = append(l.bytes, b)
}

// IsEmpty reports whether any bytes have been appended since the last Reset.
func (l *Line) IsEmpty() bool {
	return len(l.bytes) == 0
}

// IsComplete reports whether the line holds exactly as many bytes as its attribute byte's low
// nibble declares: 3 fixed bytes (command, attribute, first data byte) plus that nibble's count
// of additional data bytes.
func (l *Line) IsComplete() bool {
	if len(l.bytes) < 3 {
		return false
	}
	expectedLength := int(l.bytes[1]&0x0f) + 3
	return len(l.bytes) == expectedLength
}

// Overrun reports whether the line exceeded maxLineLength before completing.
func (l *Line) Overrun() bool {
	return l.overrun
}

// Len returns the number of bytes appended so far.
func (l *Line) Len() int {
	return len(l.bytes)
}

// Byte returns the byte at index, which must be less than Len().
func (l *Line) Byte(index int) uint8 {
	return l.bytes[index]
}

// Command returns the datagram's command byte.
func (l *Line) Command() Command {
	return Command(l.bytes[0])
}

// Attribute returns the datagram's second byte, whose low nibble is the remaining-length count
// and whose upper nibble is often itself a data field.
func (l *Line) Attribute() uint8 {
	return l.bytes[1]
}

// String renders the datagram as space-separated uppercase hex bytes, matching the original
// firmware's debug log format.
func (l *Line) String() string {
	var b strings.Builder
	for i, by := range l.bytes {
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%02X", by)
	}
	return b.String()
}
