package nmea0183

import (
	"bytes"
	"errors"
)

// ErrBadTag is returned when a sentence's leading tag can't be parsed as either a standard
// talker+type tag or a proprietary 'P' tag.
var ErrBadTag = errors.New("bad NMEA sentence tag")

// Sentence is one parsed NMEA 0183 sentence: its tag, decoded into a Talker and Type (or, for a
// proprietary sentence, a manufacturer Mnemonic), plus a Fields cursor over the remaining
// comma-separated body.
type Sentence struct {
	Talker       Talker
	Type         string
	Proprietary  bool
	Mnemonic     string
	Encapsulated bool

	Fields *Fields
}

// ParseSentence parses a line's already-checksum-validated body (no lead-in character, no
// trailing "*HH") into a Sentence.
func ParseSentence(body []byte, encapsulated bool) (*Sentence, error) {
	commaPos := bytes.IndexByte(body, ',')
	var tag, rest []byte
	if commaPos < 0 {
		tag = body
	} else {
		tag = body[:commaPos]
		rest = body[commaPos+1:]
	}

	if len(tag) < 3 {
		return nil, ErrBadTag
	}

	s := &Sentence{Encapsulated: encapsulated, Fields: NewFields(rest)}

	if tag[0] == 'P' {
		s.Proprietary = true
		s.Mnemonic = string(tag[1:])
		return s, nil
	}

	if len(tag) != 5 {
		return nil, ErrBadTag
	}

	talker, err := ParseTalker(tag[0:2])
	if err != nil {
		return nil, err
	}
	s.Talker = talker
	s.Type = string(tag[2:5])
	return s, nil
}
