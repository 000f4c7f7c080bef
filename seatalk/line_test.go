package seatalk

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLineIsCompleteTracksDeclaredLength(t *testing.T) {
	var l Line
	l.Append(0x00)
	l.Append(0x02)
	assert.False(t, l.IsComplete())
	l.Append(0xaa)
	assert.False(t, l.IsComplete())
	l.Append(0xbb)
	assert.False(t, l.IsComplete())
	l.Append(0xcc)
	assert.True(t, l.IsComplete())
	assert.Equal(t, DepthBelowTransducer, l.Command())
	assert.Equal(t, uint8(0x02), l.Attribute())
}

func TestLineOverrun(t *testing.T) {
	var l Line
	for i := 0; i < maxLineLength; i++ {
		l.Append(0x00)
	}
	assert.False(t, l.Overrun())
	l.Append(0x00)
	assert.True(t, l.Overrun())
}

func TestLineResetClearsState(t *testing.T) {
	var l Line
	l.Append(0x30)
	l.Append(0x00)
	l.Append(0x04)
	assert.True(t, l.IsComplete())
	l.Reset()
	assert.True(t, l.IsEmpty())
	assert.False(t, l.IsComplete())
}

func TestLineString(t *testing.T) {
	var l Line
	l.Append(0x30)
	l.Append(0x00)
	l.Append(0x04)
	assert.Equal(t, "30 00 04", l.String())
}
