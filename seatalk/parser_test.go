package seatalk

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/LisaRowell/LunaMonESP/datamodel"
	"github.com/LisaRowell/LunaMonESP/internal/logging"
)

func newTestParser() (*Parser, *InstrumentData) {
	tree := datamodel.NewTree()
	data := NewInstrumentData(tree, nil)
	return NewParser(logging.Discard, data, nil), data
}

func newTestParserWithStats() (*Parser, *InstrumentData, *datamodel.Node) {
	tree := datamodel.NewTree()
	data := NewInstrumentData(tree, nil)
	statsNode := tree.NewNode("seatalkStats", nil)
	return NewParser(logging.Discard, data, statsNode), data, statsNode
}

func lineOf(bytes ...uint8) *Line {
	l := &Line{}
	for _, b := range bytes {
		l.Append(b)
	}
	return l
}

func TestParseDepth(t *testing.T) {
	p, data := newTestParser()
	p.ParseLine(lineOf(0x00, 0x02, 0x08, 0x64, 0x00))
	assert.Equal(t, "10.0", data.Depth.Meters.String())
	assert.True(t, data.Depth.AnchorAlarm.String() == "true")
}

func TestParseApparentWindAngle(t *testing.T) {
	p, data := newTestParser()
	// raw = 0x0012 = 18, angle = 18*5 = 90 tenths = 9.0 degrees
	p.ParseLine(lineOf(uint8(ApparentWindAngle), 0x01, 0x00, 0x12))
	assert.Equal(t, "9.0", data.Wind.ApparentAngle.String())
}

func TestParseApparentWindSpeedKnots(t *testing.T) {
	p, data := newTestParser()
	p.ParseLine(lineOf(uint8(ApparentWindSpeed), 0x01, 0x0c, 0x05))
	assert.Equal(t, "12.5", data.Wind.ApparentSpeedKnots.String())
}

func TestParseSetLampIntensityIsIgnored(t *testing.T) {
	p, _, _ := newTestParserWithStats()
	p.ParseLine(lineOf(uint8(SetLampIntensity), 0x00, 0x04))
	p.ExportStats(time.Second)
	assert.Equal(t, "1", p.ignoredCommandsLeaf.String())
}

func TestParseLatitude(t *testing.T) {
	p, data := newTestParser()
	// degrees=48, minutes hundredths = 0x0442 = 1090 -> 10.90 minutes, north (sign bit clear)
	p.ParseLine(lineOf(uint8(LatitudePosition), 0x02, 48, 0x42, 0x04))
	assert.Equal(t, "48 10.90 N", data.GPS.Latitude.String())
}

func TestParseLongitudeWesternSign(t *testing.T) {
	p, data := newTestParser()
	p.ParseLine(lineOf(uint8(LongitudePosition), 0x02, 11, 0x42, 0x84))
	assert.Equal(t, "11 10.90 W", data.GPS.Longitude.String())
}

func TestParseDate(t *testing.T) {
	p, data := newTestParser()
	p.ParseLine(lineOf(uint8(YearMonthDay), 0x30, 15, 24))
	assert.Equal(t, "2024-03-15", data.GPS.Date.String())
}

func TestParseDeviceIdentificationTracksCount(t *testing.T) {
	p, data := newTestParser()
	p.ParseLine(lineOf(uint8(DeviceIdentification), 0x00, 0x01))
	p.ParseLine(lineOf(uint8(DeviceIdentification), 0x00, 0x02))
	p.ParseLine(lineOf(uint8(DeviceIdentification), 0x00, 0x01))
	assert.Equal(t, "2", data.Devices.Count.String())
	assert.Equal(t, "1", data.Devices.LastSeenID.String())
}

func TestParseMagneticVariationNegative(t *testing.T) {
	p, data := newTestParser()
	p.ParseLine(lineOf(uint8(MagneticVariation), 0x00, 0xfc)) // -4
	assert.Equal(t, "-4.0", data.GPS.MagneticVariation.String())
}

func TestParseUnknownCommandCounted(t *testing.T) {
	p, _, _ := newTestParserWithStats()
	p.ParseLine(lineOf(0xfe, 0x00, 0x00))
	p.ExportStats(time.Second)
	assert.Equal(t, "1", p.unknownCommandsLeaf.String())
}

func TestParseWrongLengthCounted(t *testing.T) {
	p, _, _ := newTestParserWithStats()
	p.ParseLine(lineOf(uint8(SatelliteInfo), 0x20, 0x01, 0x02))
	p.ExportStats(time.Second)
	assert.Equal(t, "1", p.lengthErrorsLeaf.String())
}
