package seatalk

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LisaRowell/LunaMonESP/nmea0183"
)

func parseTestSentence(t *testing.T, raw string) *nmea0183.Sentence {
	t.Helper()
	var l nmea0183.Line
	l.Append([]byte(raw))
	require.NoError(t, l.SanityCheck())
	s, err := nmea0183.ParseSentence([]byte(l.String()), l.IsEncapsulatedData())
	require.NoError(t, err)
	return s
}

func TestDecodeSTALK(t *testing.T) {
	body := []byte("STALK,30,00,04")
	framed := append([]byte{'$'}, nmea0183.AppendChecksum(body)...)
	var l nmea0183.Line
	l.Append(framed)
	require.NoError(t, l.SanityCheck())
	s, err := nmea0183.ParseSentence([]byte(l.String()), false)
	require.NoError(t, err)

	require.True(t, IsSTALK(s))
	line, err := DecodeSTALK(s)
	require.NoError(t, err)
	assert.Equal(t, SetLampIntensity, line.Command())
	assert.Equal(t, 3, line.Len())
}

func TestDecodeSTALKRejectsOtherSentences(t *testing.T) {
	s := parseTestSentence(t, "$GPGGA,123519,4807.038,N,01131.000,E,1,08,0.9,545.4,M,46.9,M,,*47")
	assert.False(t, IsSTALK(s))
	_, err := DecodeSTALK(s)
	assert.ErrorIs(t, err, ErrNotSTALK)
}

func TestIsPDGY(t *testing.T) {
	body := []byte("PDGY,STalk,On")
	framed := append([]byte{'$'}, nmea0183.AppendChecksum(body)...)
	var l nmea0183.Line
	l.Append(framed)
	require.NoError(t, l.SanityCheck())
	s, err := nmea0183.ParseSentence([]byte(l.String()), false)
	require.NoError(t, err)
	assert.True(t, IsPDGY(s))
}

func TestEncodeSTALKRoundTrips(t *testing.T) {
	line := &Line{}
	line.Append(uint8(SetLampIntensity))
	line.Append(0x00)
	line.Append(uint8(Lamp2))

	encoded := EncodeSTALK(line)
	assert.Contains(t, string(encoded), "$STALK,30,00,08*")
	assert.Contains(t, string(encoded), "\r\n")
}

func TestDigitalYachtsWorkaroundSendsBlankLineFirst(t *testing.T) {
	start := time.Unix(1000, 0)
	w := NewDigitalYachtsWorkaround(start)

	assert.Nil(t, w.Poll(start))
	assert.Nil(t, w.Poll(start.Add(4*time.Second)))

	msg := w.Poll(start.Add(5 * time.Second))
	require.NotNil(t, msg)
	assert.Equal(t, "\r\n$PDGY,STalk,On\r\n", string(msg))

	assert.Nil(t, w.Poll(start.Add(10*time.Second)))

	resend := w.Poll(start.Add(35 * time.Second))
	require.NotNil(t, resend)
	assert.Equal(t, "$PDGY,STalk,On\r\n", string(resend))
}

func TestDigitalYachtsWorkaroundStopsOnceSTALKSeen(t *testing.T) {
	start := time.Unix(2000, 0)
	w := NewDigitalYachtsWorkaround(start)
	w.NoteLineReceived(true)

	assert.Nil(t, w.Poll(start.Add(time.Minute)))
}
