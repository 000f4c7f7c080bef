// Package nmea0183 implements NMEA 0183 line framing, checksum validation, talker/sentence tag
// parsing and field extraction. SeaTalk-over-NMEA ($STALK) and AIS-armored payloads (VDM/VDO)
// are framed here the same as any other sentence; their own packages take over once the
// encapsulated payload is extracted.
package nmea0183

import (
	"errors"
	"fmt"
)

// MaxLineLength is the longest a single NMEA 0183 sentence, not including its terminating CR/LF,
// is allowed to be. A longer line is truncated rather than rejected outright, since a truncated
// line still fails its checksum and is discarded there.
const MaxLineLength = 82

// ErrEmptyLine is returned by SanityCheck for a line with no content.
var ErrEmptyLine = errors.New("empty NMEA line")

// ErrMissingLeadIn is returned by SanityCheck when a line doesn't begin with '$' or '!'.
var ErrMissingLeadIn = errors.New("NMEA line missing leading '$' or '!'")

// ErrBadChecksum is returned by SanityCheck when a line's trailing checksum doesn't match its
// contents, or is malformed.
var ErrBadChecksum = errors.New("NMEA line with bad checksum")

// Line accumulates the bytes of one NMEA 0183 sentence as they arrive and validates it once
// complete. A Line is reused across sentences via Reset to avoid reallocating on every line.
type Line struct {
	buf             []byte
	truncated       bool
	encapsulatedData bool
}

// Reset clears a Line for reuse.
func (l *Line) Reset() {
	l.buf = l.buf[:0]
	l.truncated = false
	l.encapsulatedData = false
}

// Append adds bytes to the line, truncating (but not erroring) once MaxLineLength is reached.
func (l *Line) Append(b []byte) {
	if l.truncated {
		return
	}
	room := MaxLineLength - len(l.buf)
	if room <= 0 {
		l.truncated = true
		return
	}
	if len(b) > room {
		b = b[:room]
		l.truncated = true
	}
	l.buf = append(l.buf, b...)
}

// AppendByte adds a single byte to the line.
func (l *Line) AppendByte(b byte) {
	l.Append([]byte{b})
}

// Truncated reports whether Append discarded trailing bytes to stay within MaxLineLength.
func (l *Line) Truncated() bool {
	return l.truncated
}

// IsEmpty reports whether the line has no content.
func (l *Line) IsEmpty() bool {
	return len(l.buf) == 0
}

// IsEncapsulatedData reports whether the line was framed with a leading '!', the convention used
// for encapsulated data sentences such as AIS VDM/VDO, as opposed to '$' for plain CSV sentences.
// Valid only after a successful SanityCheck.
func (l *Line) IsEncapsulatedData() bool {
	return l.encapsulatedData
}

// String returns the line's raw contents, for logging.
func (l *Line) String() string {
	return string(l.buf)
}

// SanityCheck validates the lead-in character and checksum and, on success, strips both so that
// Fields sees only the comma-separated body. It must be called exactly once per line before
// field extraction.
func (l *Line) SanityCheck() error {
	if l.IsEmpty() {
		return ErrEmptyLine
	}

	switch l.buf[0] {
	case '$':
		l.encapsulatedData = false
	case '!':
		l.encapsulatedData = true
	default:
		return ErrMissingLeadIn
	}

	if err := l.checkChecksum(); err != nil {
		return err
	}

	l.buf = l.buf[1 : len(l.buf)-3]
	return nil
}

func (l *Line) checkChecksum() error {
	if len(l.buf) < 4 {
		return fmt.Errorf("%w: too short to carry a checksum", ErrBadChecksum)
	}

	checksumPos := len(l.buf) - 3
	if l.buf[checksumPos] != '*' {
		return fmt.Errorf("%w: missing '*' delimiter", ErrBadChecksum)
	}

	computed := Checksum(l.buf[1:checksumPos])

	hi := hexDigit(l.buf[checksumPos+1])
	lo := hexDigit(l.buf[checksumPos+2])
	if hi < 0 || lo < 0 {
		return fmt.Errorf("%w: non-hexadecimal checksum digits", ErrBadChecksum)
	}

	if uint8(hi<<4|lo) != computed {
		return fmt.Errorf("%w: expected %02X, got %02X", ErrBadChecksum, computed, hi<<4|lo)
	}
	return nil
}

func hexDigit(c byte) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'A' && c <= 'F':
		return int(c-'A') + 10
	default:
		return -1
	}
}
