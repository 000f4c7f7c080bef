package seatalk

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/LisaRowell/LunaMonESP/nmea0183"
)

// stalkTalker/stalkType identify the "$STALK" sentence the same way any other NMEA talker+type
// tag is identified - ST is not a reserved proprietary prefix, so $STALK parses through the
// normal 5-character tag path rather than the 'P'-prefixed proprietary one.
var stalkTalker = nmea0183.Talker{'S', 'T'}

const stalkType = "ALK"

// pdgyMnemonic is the proprietary mnemonic Digital Yachts adapters use for their own
// configuration sentences.
const pdgyMnemonic = "DGY"

// ErrNotSTALK is returned by DecodeSTALK when given a sentence that isn't a $STALK datagram.
var ErrNotSTALK = errors.New("seatalk: not a $STALK sentence")

// IsSTALK reports whether s is a $STALK-encapsulated SeaTalk datagram.
func IsSTALK(s *nmea0183.Sentence) bool {
	return !s.Proprietary && s.Talker == stalkTalker && s.Type == stalkType
}

// IsPDGY reports whether s is a Digital Yachts $PDGY proprietary sentence.
func IsPDGY(s *nmea0183.Sentence) bool {
	return s.Proprietary && s.Mnemonic == pdgyMnemonic
}

// DecodeSTALK reconstructs a SeaTalk Line from a $STALK sentence's comma-separated two-digit hex
// byte fields.
func DecodeSTALK(s *nmea0183.Sentence) (*Line, error) {
	if !IsSTALK(s) {
		return nil, ErrNotSTALK
	}

	line := &Line{}
	for !s.Fields.AtEnd() {
		field, err := s.Fields.NextString()
		if err != nil {
			return nil, err
		}
		if field == "" {
			continue
		}
		v, err := strconv.ParseUint(field, 16, 8)
		if err != nil {
			return nil, fmt.Errorf("$STALK: bad hex byte %q: %w", field, err)
		}
		line.Append(uint8(v))
	}
	if line.IsEmpty() {
		return nil, fmt.Errorf("$STALK: empty datagram")
	}
	return line, nil
}

// EncodeSTALK renders line as a "$STALK,hh,hh,...*CS\r\n" sentence, ready to write to a
// NMEA-speaking link.
func EncodeSTALK(line *Line) []byte {
	var sb strings.Builder
	sb.WriteString("STALK")
	for i := 0; i < line.Len(); i++ {
		fmt.Fprintf(&sb, ",%02X", line.Byte(i))
	}

	withChecksum := nmea0183.AppendChecksum([]byte(sb.String()))
	out := make([]byte, 0, len(withChecksum)+3)
	out = append(out, '$')
	out = append(out, withChecksum...)
	out = append(out, '\r', '\n')
	return out
}

// Digital Yachts' ST-USB/ST-WiFi adapters need a passive nudge before they'll pass raw SeaTalk
// through as $STALK sentences: an initial delay, then a periodic resend, until the link starts
// producing well-formed $STALK sentences on its own.
const (
	digitalYachtsStartDelay  = 5 * time.Second
	digitalYachtsResendEvery = 30 * time.Second
)

// DigitalYachtsWorkaround drives the "$PDGY,STalk,On\r\n" resend sequence for one link.
type DigitalYachtsWorkaround struct {
	start            time.Time
	lastSent         time.Time
	firstSent        bool
	lastLineWasSTALK bool
}

// NewDigitalYachtsWorkaround creates a workaround timer whose initial delay starts counting
// from now.
func NewDigitalYachtsWorkaround(now time.Time) *DigitalYachtsWorkaround {
	return &DigitalYachtsWorkaround{start: now}
}

// NoteLineReceived records whether the most recently received line on the link was a
// well-formed $STALK sentence. The workaround goes quiet once this is true.
func (w *DigitalYachtsWorkaround) NoteLineReceived(wasSTALK bool) {
	w.lastLineWasSTALK = wasSTALK
}

// Poll returns the bytes to write to the link, if any are due at now. The very first send is
// preceded by a blank line to help the adapter's UART resynchronize.
func (w *DigitalYachtsWorkaround) Poll(now time.Time) []byte {
	if w.lastLineWasSTALK {
		return nil
	}

	if !w.firstSent {
		if now.Sub(w.start) < digitalYachtsStartDelay {
			return nil
		}
		w.firstSent = true
		w.lastSent = now
		return []byte("\r\n$PDGY,STalk,On\r\n")
	}

	if now.Sub(w.lastSent) < digitalYachtsResendEvery {
		return nil
	}
	w.lastSent = now
	return []byte("$PDGY,STalk,On\r\n")
}
