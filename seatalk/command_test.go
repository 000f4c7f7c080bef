package seatalk

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCommandStringKnown(t *testing.T) {
	assert.Equal(t, "Depth Below Transducer", DepthBelowTransducer.String())
	assert.Equal(t, "Apparent Wind Angle", ApparentWindAngle.String())
	assert.Equal(t, "Set Lamp Intensity", SetLampIntensity.String())
}

func TestCommandStringUnknown(t *testing.T) {
	assert.Equal(t, "Unknown", Command(0xfe).String())
}
