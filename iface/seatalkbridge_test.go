package iface

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LisaRowell/LunaMonESP/datamodel"
	"github.com/LisaRowell/LunaMonESP/fixedpoint"
	"github.com/LisaRowell/LunaMonESP/internal/logging"
	"github.com/LisaRowell/LunaMonESP/seatalk"
)

func TestSeaTalkNMEABridgeSynthesizesDBTOnDepthUpdate(t *testing.T) {
	tree := datamodel.NewTree()
	data := seatalk.NewInstrumentData(tree, nil)
	dest := &fakeSender{accept: true}

	NewSeaTalkNMEABridge(logging.Discard, "seatalkBridge", "II", data, dest, tree, nil)

	data.Depth.Meters.SetTenths(mustTenths(t, "36.5"))

	require.Len(t, dest.sent, 1)
	assert.Contains(t, string(dest.sent[0]), "IIDBT,")
	assert.Contains(t, string(dest.sent[0]), "36.5,M")
}

func TestSeaTalkNMEABridgeWaitsForBothWindHalves(t *testing.T) {
	tree := datamodel.NewTree()
	data := seatalk.NewInstrumentData(tree, nil)
	dest := &fakeSender{accept: true}

	NewSeaTalkNMEABridge(logging.Discard, "seatalkBridge", "II", data, dest, tree, nil)

	data.Wind.ApparentAngle.SetTenths(mustTenths(t, "45.0"))
	assert.Empty(t, dest.sent, "MWV shouldn't be sent until both angle and speed are known")

	data.Wind.ApparentSpeedKnots.SetTenths(mustTenths(t, "12.3"))
	require.Len(t, dest.sent, 1)
	assert.Contains(t, string(dest.sent[0]), "IIMWV,45.0,R,12.3,N,A")
}

func mustTenths(t *testing.T, s string) fixedpoint.Tenths {
	t.Helper()
	v, err := fixedpoint.ParseTenths(s)
	require.NoError(t, err)
	return v
}
