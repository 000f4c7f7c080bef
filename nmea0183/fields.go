package nmea0183

import (
	"bytes"
	"errors"
	"strconv"

	"github.com/LisaRowell/LunaMonESP/fixedpoint"
)

// ErrMissingField is returned when a sentence handler asks for a field beyond the end of the
// sentence.
var ErrMissingField = errors.New("missing NMEA field")

// Fields is a cursor over a sentence's comma-separated fields, consumed left to right by message
// handlers the way the original firmware's line walker does. Each field is handed out as a
// subslice of the underlying line buffer, not copied.
type Fields struct {
	remaining []byte
	atEnd     bool
}

// NewFields creates a Fields cursor over body, the sentence content following the tag's first
// comma.
func NewFields(body []byte) *Fields {
	return &Fields{remaining: body}
}

// Next returns the next comma-delimited field, or ErrMissingField once every field (including a
// final empty one) has been consumed.
func (f *Fields) Next() ([]byte, error) {
	if f.atEnd {
		return nil, ErrMissingField
	}

	commaPos := bytes.IndexByte(f.remaining, ',')
	if commaPos < 0 {
		field := f.remaining
		f.remaining = nil
		f.atEnd = true
		return field, nil
	}

	field := f.remaining[:commaPos]
	f.remaining = f.remaining[commaPos+1:]
	return field, nil
}

// NextString returns the next field as a string, or "" if it was empty.
func (f *Fields) NextString() (string, error) {
	field, err := f.Next()
	if err != nil {
		return "", err
	}
	return string(field), nil
}

// NextOptionalString is like NextString but never errors on a missing trailing field, returning
// "" instead; many NMEA sentences drop trailing optional fields entirely.
func (f *Fields) NextOptionalString() string {
	s, err := f.NextString()
	if err != nil {
		return ""
	}
	return s
}

// NextUint parses the next field as an unsigned decimal integer. An empty field yields 0, nil,
// matching how instruments often leave a field blank rather than omit it.
func (f *Fields) NextUint() (uint32, error) {
	field, err := f.Next()
	if err != nil {
		return 0, err
	}
	if len(field) == 0 {
		return 0, nil
	}
	v, err := strconv.ParseUint(string(field), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint32(v), nil
}

// NextTenths parses the next field as a decimal number carried at tenths precision. An empty
// field yields the zero value with ok=false so callers can distinguish "absent" from "0.0".
func (f *Fields) NextTenths() (value fixedpoint.Tenths, ok bool, err error) {
	field, err := f.Next()
	if err != nil {
		return fixedpoint.Tenths{}, false, err
	}
	if len(field) == 0 {
		return fixedpoint.Tenths{}, false, nil
	}
	v, err := fixedpoint.ParseTenths(string(field))
	if err != nil {
		return fixedpoint.Tenths{}, false, err
	}
	return v, true, nil
}

// NextHundredths parses the next field as a decimal number carried at hundredths precision.
func (f *Fields) NextHundredths() (value fixedpoint.Hundredths, ok bool, err error) {
	field, err := f.Next()
	if err != nil {
		return fixedpoint.Hundredths{}, false, err
	}
	if len(field) == 0 {
		return fixedpoint.Hundredths{}, false, nil
	}
	v, err := fixedpoint.ParseHundredths(string(field))
	if err != nil {
		return fixedpoint.Hundredths{}, false, err
	}
	return v, true, nil
}

// AtEnd reports whether every field has been consumed.
func (f *Fields) AtEnd() bool {
	return f.atEnd || len(f.remaining) == 0
}
