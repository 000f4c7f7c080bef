package ais

import (
	"fmt"
	"strconv"
)

// SentenceDecoder reassembles successive !--VDM/!--VDO sentences (as framed by the nmea0183
// package, which hands off anything it recognizes as encapsulated data) into complete AIS
// messages.
type SentenceDecoder struct {
	reassembler *FragmentAssembler
}

// NewSentenceDecoder creates a SentenceDecoder.
func NewSentenceDecoder() *SentenceDecoder {
	return &SentenceDecoder{reassembler: NewFragmentAssembler()}
}

// Feed parses one VDM/VDO sentence's fields (total fragment count, this fragment's number,
// sequential message ID, radio channel, 6-bit armored payload and fill-bit count) and, once all
// of a message's fragments have arrived, decodes and returns it.
func (d *SentenceDecoder) Feed(fieldCount, fieldNum, fieldSeqID, channel, payload,
	fillBitsField string) (interface{}, bool, error) {
	total, err := strconv.Atoi(fieldCount)
	if err != nil {
		return nil, false, fmt.Errorf("ais: invalid fragment count %q: %w", fieldCount, err)
	}
	num, err := strconv.Atoi(fieldNum)
	if err != nil {
		return nil, false, fmt.Errorf("ais: invalid fragment number %q: %w", fieldNum, err)
	}
	seqID := 0
	if fieldSeqID != "" {
		seqID, err = strconv.Atoi(fieldSeqID)
		if err != nil {
			return nil, false, fmt.Errorf("ais: invalid sequential message id %q: %w", fieldSeqID, err)
		}
	}
	fillBits, err := strconv.Atoi(fillBitsField)
	if err != nil {
		return nil, false, fmt.Errorf("ais: invalid fill bit count %q: %w", fillBitsField, err)
	}

	complete, completeFillBits, ok, err := d.reassembler.Add(channel, total, num, seqID,
		[]byte(payload), fillBits)
	if err != nil || !ok {
		return nil, false, err
	}

	msg, err := Decode(complete, completeFillBits)
	if err != nil {
		return nil, false, err
	}
	return msg, true, nil
}
