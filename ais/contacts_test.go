package ais

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LisaRowell/LunaMonESP/internal/logging"
)

func TestFindOrCreateContactCreatesThenReuses(t *testing.T) {
	table := NewContactTable(logging.Discard)

	c1, err := table.FindOrCreateContact(MMSI(123456789))
	require.NoError(t, err)
	require.NotNil(t, c1)

	c2, err := table.FindOrCreateContact(MMSI(123456789))
	require.NoError(t, err)
	assert.Same(t, c1, c2)
	assert.Equal(t, 1, table.Len())
}

func TestContactTableRejectsOverCapacity(t *testing.T) {
	table := NewContactTable(logging.Discard)

	for i := 0; i < MaxContacts; i++ {
		_, err := table.FindOrCreateContact(MMSI(i + 1))
		require.NoError(t, err)
	}

	_, err := table.FindOrCreateContact(MMSI(999999999))
	assert.ErrorIs(t, err, ErrContactTableFull)
}

func TestContactSettersAndAuxiliaryCraftDetection(t *testing.T) {
	mmsi := MMSI(981234567)
	assert.True(t, mmsi.IsAuxiliaryCraft())

	c := NewContact(mmsi)
	c.SetName("TENDER")
	c.SetShipType(ShipType(37))
	assert.Equal(t, "TENDER", c.Name)
	assert.Equal(t, "Pleasure Craft", c.ShipType.String())
}
