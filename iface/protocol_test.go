package iface

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestModeCanReceiveCanSend(t *testing.T) {
	assert.True(t, ModeRX.CanReceive())
	assert.False(t, ModeRX.CanSend())

	assert.True(t, ModeTX.CanSend())
	assert.False(t, ModeTX.CanReceive())

	assert.True(t, ModeRXTX.CanReceive())
	assert.True(t, ModeRXTX.CanSend())
}

func TestProtocolString(t *testing.T) {
	assert.Equal(t, "NMEA", ProtocolNMEA.String())
	assert.Equal(t, "SeaTalk", ProtocolSeaTalk.String())
	assert.Equal(t, "STALK", ProtocolSTALK.String())
}
