package ais

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// bitWriter is a test-only companion to BitReader: it builds up a raw bit stream field by field
// so tests can construct a known-good AIS payload instead of depending on a hand-transcribed
// real-world sentence.
type bitWriter struct {
	bits []byte
}

func (w *bitWriter) writeUint(value uint32, width int) {
	for i := width - 1; i >= 0; i-- {
		w.bits = append(w.bits, byte((value>>uint(i))&1))
	}
}

func (w *bitWriter) writeInt(value int32, width int) {
	w.writeUint(uint32(value)&((1<<uint(width))-1), width)
}

// armor packs the accumulated bits into 6-bit-per-character AIS payload armor, padding the final
// character with zero bits and reporting how many padding bits were added.
func (w *bitWriter) armor() (payload []byte, fillBits int) {
	bits := append([]byte(nil), w.bits...)
	fillBits = (6 - len(bits)%6) % 6
	for i := 0; i < fillBits; i++ {
		bits = append(bits, 0)
	}
	for i := 0; i < len(bits); i += 6 {
		var sextet byte
		for j := 0; j < 6; j++ {
			sextet = (sextet << 1) | bits[i+j]
		}
		payload = append(payload, armorEncode(sextet))
	}
	return payload, fillBits
}

func armorEncode(sextet byte) byte {
	if sextet < 40 {
		return sextet + '0'
	}
	return sextet - 40 + '`'
}

func TestDecodePositionReport(t *testing.T) {
	var w bitWriter
	w.writeUint(uint32(MsgTypePositionReportClassA), 6)
	w.writeUint(0, 2)                  // repeat indicator
	w.writeUint(366123456, 30)         // MMSI
	w.writeUint(uint32(NavStatusUnderWaySailing), 4)
	w.writeInt(0, 8)                   // rate of turn: not turning
	w.writeUint(125, 10)               // speed over ground, 12.5kn
	w.writeUint(1, 1)                  // position accuracy
	w.writeInt(-43858320, 28) // longitude, -73.0972deg
	w.writeInt(24071220, 27)  // latitude, 40.1187deg
	w.writeUint(1234, 12)               // course over ground, 123.4deg
	w.writeUint(90, 9)                  // true heading
	w.writeUint(30, 6)                  // UTC second
	w.writeUint(0, 2)                   // maneuver indicator
	w.writeUint(0, 3)                   // spare
	w.writeUint(0, 1)                   // RAIM flag
	w.writeUint(0, 19)                  // communication state

	payload, fillBits := w.armor()

	msg, err := Decode(payload, fillBits)
	require.NoError(t, err)

	report, ok := msg.(*PositionReport)
	require.True(t, ok)
	assert.Equal(t, MMSI(366123456), report.MMSI)
	assert.Equal(t, NavStatusUnderWaySailing, report.NavigationStatus)
	assert.True(t, report.SpeedOverGround.Valid())
	assert.InDelta(t, 12.5, report.SpeedOverGround.Knots(), 0.01)
	assert.True(t, report.Position.Valid())
	assert.InDelta(t, -73.0972, report.Position.Longitude(), 0.001)
	assert.InDelta(t, 40.1187, report.Position.Latitude(), 0.001)
	assert.InDelta(t, 123.4, report.CourseOverGround.Degrees(), 0.01)
	assert.Equal(t, uint16(90), report.TrueHeading)
}

func TestDecodeStaticAndVoyageData(t *testing.T) {
	var w bitWriter
	w.writeUint(uint32(MsgTypeStaticAndVoyageData), 6)
	w.writeUint(0, 2)           // repeat indicator
	w.writeUint(366123456, 30) // MMSI
	w.writeUint(0, 2)           // AIS version
	w.writeUint(0, 30)          // IMO number
	writeSixBitString(&w, "ABC123", 7)
	writeSixBitString(&w, "MY BOAT", 20)
	w.writeUint(37, 8) // ship type: pleasure craft
	w.writeUint(10, 9) // to bow
	w.writeUint(5, 9)  // to stern
	w.writeUint(3, 6)  // to port
	w.writeUint(2, 6)  // to starboard
	w.writeUint(uint32(EPFDGPS), 4)
	w.writeUint(6, 4)    // ETA month
	w.writeUint(15, 5)   // ETA day
	w.writeUint(12, 5)   // ETA hour
	w.writeUint(0, 6)    // ETA minute
	w.writeUint(15, 8)   // draught, 1.5m
	writeSixBitString(&w, "NEWPORT", 20)
	w.writeUint(0, 1) // DTE
	w.writeUint(0, 1) // spare

	payload, fillBits := w.armor()

	msg, err := Decode(payload, fillBits)
	require.NoError(t, err)

	data, ok := msg.(*StaticAndVoyageData)
	require.True(t, ok)
	assert.Equal(t, MMSI(366123456), data.MMSI)
	assert.Equal(t, "ABC123", data.CallSign)
	assert.Equal(t, "MY BOAT", data.VesselName)
	assert.Equal(t, "Pleasure Craft", data.ShipType.String())
	assert.Equal(t, uint16(15), data.Dimensions.LengthM())
	assert.Equal(t, uint8(5), data.Dimensions.WidthM())
	assert.Equal(t, "GPS", data.EPFDFixType.String())
	assert.Equal(t, "NEWPORT", data.Destination)
}

// writeSixBitString appends a fixed-width field of 6-bit AIS characters, padding short strings
// with '@' the way the wire format requires.
func writeSixBitString(w *bitWriter, s string, widthChars int) {
	for i := 0; i < widthChars; i++ {
		if i < len(s) {
			w.writeUint(uint32(asciiToSixBit(s[i])), 6)
		} else {
			w.writeUint(0, 6) // '@'
		}
	}
}

func asciiToSixBit(ch byte) byte {
	if ch >= '@' && ch < '`' {
		return ch - '@'
	}
	return ch - ' ' + 32
}

func TestDecodeUnsupportedMsgType(t *testing.T) {
	var w bitWriter
	w.writeUint(6, 6) // binary addressed message, not decoded
	w.writeUint(0, 2)
	w.writeUint(366123456, 30)
	payload, fillBits := w.armor()

	_, err := Decode(payload, fillBits)
	assert.ErrorIs(t, err, ErrUnsupportedMsgType)
}

func TestBitReaderSignExtension(t *testing.T) {
	var w bitWriter
	w.writeInt(-1, 8)
	payload, fillBits := w.armor()

	r, err := NewBitReader(payload, fillBits)
	require.NoError(t, err)
	v, err := r.Int(8)
	require.NoError(t, err)
	assert.Equal(t, int32(-1), v)
}

func TestPositionSentinelIsInvalid(t *testing.T) {
	var w bitWriter
	w.writeInt(longitudeUnknown, 28)
	w.writeInt(latitudeUnknown, 27)
	payload, fillBits := w.armor()

	r, err := NewBitReader(payload, fillBits)
	require.NoError(t, err)
	pos, err := ReadPosition(r)
	require.NoError(t, err)
	assert.False(t, pos.Valid())
}
