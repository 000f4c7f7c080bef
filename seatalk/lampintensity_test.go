package seatalk

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLampIntensityValid(t *testing.T) {
	assert.True(t, Lamp0.Valid())
	assert.True(t, Lamp3.Valid())
	assert.False(t, LampIntensity(0x05).Valid())
}

func TestLampIntensityCycleWraps(t *testing.T) {
	assert.Equal(t, Lamp1, Lamp0.Cycle())
	assert.Equal(t, Lamp2, Lamp1.Cycle())
	assert.Equal(t, Lamp3, Lamp2.Cycle())
	assert.Equal(t, Lamp0, Lamp3.Cycle())
}

func TestLampIntensityString(t *testing.T) {
	assert.Equal(t, "L0", Lamp0.String())
	assert.Equal(t, "L2", Lamp2.String())
}
