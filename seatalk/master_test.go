package seatalk

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMasterSetLampIntensity(t *testing.T) {
	m := NewMaster()
	line := m.SetLampIntensity(Lamp2)
	assert.Equal(t, SetLampIntensity, line.Command())
	assert.Equal(t, uint8(0x00), line.Attribute())
	assert.Equal(t, uint8(Lamp2), line.Byte(2))
}

func TestMasterEncodeTXMarksOnlyFirstByte(t *testing.T) {
	m := NewMaster()
	line := m.SetLampIntensity(Lamp1)
	buf := m.EncodeTX(line)

	assert.Len(t, buf, 6)
	assert.Equal(t, uint8(0x01), buf[1])
	assert.Equal(t, uint8(0x00), buf[3])
	assert.Equal(t, uint8(0x00), buf[5])
}
