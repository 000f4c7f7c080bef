package iface

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LisaRowell/LunaMonESP/ais"
	"github.com/LisaRowell/LunaMonESP/datamodel"
	"github.com/LisaRowell/LunaMonESP/internal/logging"
	"github.com/LisaRowell/LunaMonESP/nmea0183"
)

func parseNMEASentence(t *testing.T, raw string) *nmea0183.Sentence {
	t.Helper()
	var l nmea0183.Line
	l.Append([]byte(raw))
	require.NoError(t, l.SanityCheck())
	s, err := nmea0183.ParseSentence([]byte(l.String()), l.IsEncapsulatedData())
	require.NoError(t, err)
	return s
}

func TestNMEAPublisherPublishesDBT(t *testing.T) {
	tree := datamodel.NewTree()
	data := nmea0183.NewInstrumentData(tree, nil)
	contacts := ais.NewContactTable(logging.Discard)

	p := NewNMEAPublisher(logging.Discard, data, contacts, tree, nil)
	p.HandleLine(parseNMEASentence(t, "$SDDBT,036.4,f,011.1,M,006.0,F*0D"), nil)

	assert.Equal(t, "11.1", data.Depth.Meters.String())
}

func TestNMEAPublisherPublishesRMC(t *testing.T) {
	tree := datamodel.NewTree()
	data := nmea0183.NewInstrumentData(tree, nil)
	contacts := ais.NewContactTable(logging.Discard)

	p := NewNMEAPublisher(logging.Discard, data, contacts, tree, nil)
	p.HandleLine(parseNMEASentence(t,
		"$GPRMC,225444,A,4916.45,N,12311.12,W,000.5,054.7,191194,020.3,E*6A"), nil)

	assert.True(t, data.GPS.Active.HasValue())
	assert.Equal(t, "true", data.GPS.Active.String())
	assert.Equal(t, "54.7", data.GPS.CourseOverGround.String())
}

func TestNMEAPublisherIgnoresProprietarySentences(t *testing.T) {
	tree := datamodel.NewTree()
	data := nmea0183.NewInstrumentData(tree, nil)
	contacts := ais.NewContactTable(logging.Discard)

	p := NewNMEAPublisher(logging.Discard, data, contacts, tree, nil)
	p.HandleLine(parseNMEASentence(t, "$PGRMZ,246,f,3*1B"), nil)

	assert.False(t, data.Depth.Meters.HasValue())
}

func TestNMEAPublisherCountsUnsupportedSentenceAsDecodeError(t *testing.T) {
	tree := datamodel.NewTree()
	data := nmea0183.NewInstrumentData(tree, nil)
	contacts := ais.NewContactTable(logging.Discard)
	statsNode := tree.NewNode("stats", nil)

	p := NewNMEAPublisher(logging.Discard, data, contacts, tree, statsNode)
	p.HandleLine(parseNMEASentence(t, "$GPGLL,4916.45,N,12311.12,W,225444,A*31"), nil)

	p.ExportStats(0)
	assert.Equal(t, "1", p.decodeErrorsLeaf.String())
}
