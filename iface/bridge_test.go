package iface

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LisaRowell/LunaMonESP/datamodel"
	"github.com/LisaRowell/LunaMonESP/internal/logging"
)

type fakeSender struct {
	accept   bool
	sent     [][]byte
}

func (f *fakeSender) SendMessage(p []byte, blocking bool) bool {
	if !f.accept {
		return false
	}
	f.sent = append(f.sent, append([]byte(nil), p...))
	return true
}

func TestBridgeForwardsOnlyConfiguredTypes(t *testing.T) {
	source := bytes.NewBufferString(
		"$GPGLL,4916.45,N,12311.12,W,225444,A*31\r\n" +
			"$GPRMC,225444,A,4916.45,N,12311.12,W,000.5,054.7,191194,020.3,E*6A\r\n")
	tree := datamodel.NewTree()
	ls := NewLineSource(logging.Discard, source, nil, tree, nil)

	dest := &fakeSender{accept: true}
	bridge := NewBridge(logging.Discard, "testBridge", ls, dest, []string{"RMC"}, tree, nil)

	err := ls.Run(context.Background())
	require.ErrorIs(t, err, io.EOF)

	require.Len(t, dest.sent, 1)
	assert.Contains(t, string(dest.sent[0]), "RMC")

	bridge.ExportStats(0)
	assert.Equal(t, "1", bridge.bridgedLeaf.String())
}

func TestBridgeCountsDropsWhenDestinationRefuses(t *testing.T) {
	source := bytes.NewBufferString("$GPGLL,4916.45,N,12311.12,W,225444,A*31\r\n")
	tree := datamodel.NewTree()
	ls := NewLineSource(logging.Discard, source, nil, tree, nil)

	dest := &fakeSender{accept: false}
	bridge := NewBridge(logging.Discard, "testBridge", ls, dest, nil, tree, nil)

	err := ls.Run(context.Background())
	require.ErrorIs(t, err, io.EOF)

	bridge.ExportStats(0)
	assert.Equal(t, "0", bridge.bridgedLeaf.String())
	assert.Equal(t, "1", bridge.droppedLeaf.String())
}
