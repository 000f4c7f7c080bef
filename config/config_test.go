package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDecodesValidConfig(t *testing.T) {
	system, err := Load("testdata/valid.yaml")
	require.NoError(t, err)

	assert.Equal(t, 100, system.AIS.MaxContacts)
	assert.Equal(t, 30*time.Second, system.AIS.DumpPeriod.Duration())
	assert.Equal(t, 100*time.Millisecond, system.AIS.ContactLockTimeout.Duration())

	assert.Equal(t, 5, system.NMEAServer.MaxClients)
	assert.Equal(t, 10110, system.NMEAServer.Port)

	assert.Equal(t, "II", system.SeaTalk.TalkerID)

	assert.True(t, system.DigitalYachtsWorkaround.Enabled)
	assert.Equal(t, 30*time.Second, system.DigitalYachtsWorkaround.ResendInterval.Duration())

	assert.Equal(t, 1883, system.MQTTBroker.Port)

	require.Len(t, system.Interfaces, 3)
	assert.Equal(t, "gps", system.Interfaces[0].Name)
	assert.Equal(t, "NMEA", system.Interfaces[0].Protocol)
	assert.Equal(t, []string{"GL"}, system.Interfaces[0].FilteredTalkers)

	require.Len(t, system.Interfaces[1].Bridges, 1)
	assert.Equal(t, "nmeaServer", system.Interfaces[1].Bridges[0].To)
	assert.Equal(t, []string{"DBT", "MWV"}, system.Interfaces[1].Bridges[0].Types)
}

func TestLoadRejectsUnrecognizedProtocol(t *testing.T) {
	_, err := Load("testdata/bad-protocol.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unrecognized protocol")
}

func TestLoadRejectsMissingFile(t *testing.T) {
	_, err := Load("testdata/does-not-exist.yaml")
	assert.Error(t, err)
}

func TestLoadRejectsDuplicateInterfaceName(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/dup.yaml"
	content := []byte("interfaces:\n" +
		"  - name: a\n    protocol: NMEA\n    role: RX\n    link: uart\n" +
		"  - name: a\n    protocol: NMEA\n    role: RX\n    link: uart\n")
	require.NoError(t, os.WriteFile(path, content, 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate interface name")
}
