package nmea0183

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseTestSentence(t *testing.T, raw string) *Sentence {
	t.Helper()
	var l Line
	l.Append([]byte(raw))
	require.NoError(t, l.SanityCheck())
	s, err := ParseSentence([]byte(l.String()), l.IsEncapsulatedData())
	require.NoError(t, err)
	return s
}

func TestParseSentenceStandardTag(t *testing.T) {
	s := parseTestSentence(t, "$GPGGA,123519,4807.038,N,01131.000,E,1,08,0.9,545.4,M,46.9,M,,*47")
	assert.Equal(t, "GP", s.Talker.String())
	assert.Equal(t, "GGA", s.Type)
	assert.False(t, s.Proprietary)
}

func TestParseSentenceProprietaryTag(t *testing.T) {
	body := []byte("PGRMZ,246,f,3")
	framed := append([]byte{'$'}, AppendChecksum(body)...)
	var l Line
	l.Append(framed)
	require.NoError(t, l.SanityCheck())

	s, err := ParseSentence([]byte(l.String()), false)
	require.NoError(t, err)
	assert.True(t, s.Proprietary)
	assert.Equal(t, "GRMZ", s.Mnemonic)
}

func TestDecodeGGA(t *testing.T) {
	s := parseTestSentence(t, "$GPGGA,123519,4807.038,N,01131.000,E,1,08,0.9,545.4,M,46.9,M,,*47")
	msg, err := Decode(s)
	require.NoError(t, err)
	gga := msg.(*GGA)
	assert.InDelta(t, 48.1173, gga.Latitude.Degrees(), 0.001)
	assert.InDelta(t, 11.5167, gga.Longitude.Degrees(), 0.001)
	assert.Equal(t, uint32(1), gga.Quality)
	assert.Equal(t, uint32(8), gga.NumSatellites)
	assert.Equal(t, "545.4", gga.Altitude.String())
}

func TestDecodeRMCAppliesWestMagVarSign(t *testing.T) {
	body := []byte("GPRMC,123519,A,4807.038,N,01131.000,W,022.4,084.4,230394,003.1,W")
	framed := append([]byte{'$'}, AppendChecksum(body)...)
	var l Line
	l.Append(framed)
	require.NoError(t, l.SanityCheck())
	s, err := ParseSentence([]byte(l.String()), false)
	require.NoError(t, err)

	msg, err := Decode(s)
	require.NoError(t, err)
	rmc := msg.(*RMC)
	assert.True(t, rmc.Active)
	assert.Less(t, int32(rmc.Longitude), int32(0))
	assert.Equal(t, "-3.1", rmc.MagneticVar.String())
}

func TestDecodeDBT(t *testing.T) {
	body := []byte("SDDBT,013.0,f,004.0,M,002.2,F")
	framed := append([]byte{'$'}, AppendChecksum(body)...)
	var l Line
	l.Append(framed)
	require.NoError(t, l.SanityCheck())
	s, err := ParseSentence([]byte(l.String()), false)
	require.NoError(t, err)

	msg, err := Decode(s)
	require.NoError(t, err)
	dbt := msg.(*DBT)
	assert.Equal(t, "4.0", dbt.DepthMeters.String())
}

func TestDecodeMWVUnitConversion(t *testing.T) {
	body := []byte("IIMWV,045.0,R,10.0,N,A")
	framed := append([]byte{'$'}, AppendChecksum(body)...)
	var l Line
	l.Append(framed)
	require.NoError(t, l.SanityCheck())
	s, err := ParseSentence([]byte(l.String()), false)
	require.NoError(t, err)

	msg, err := Decode(s)
	require.NoError(t, err)
	mwv := msg.(*MWV)
	assert.True(t, mwv.Relative)
	assert.True(t, mwv.Valid)
	assert.Equal(t, "10.0", mwv.SpeedKnots.String())
}

func TestDecodeUnsupportedType(t *testing.T) {
	body := []byte("GPGSV,3,1,11,03,03,111,00,04,15,270,00,06,01,010,00,13,06,292,00")
	framed := append([]byte{'$'}, AppendChecksum(body)...)
	var l Line
	l.Append(framed)
	require.NoError(t, l.SanityCheck())
	s, err := ParseSentence([]byte(l.String()), false)
	require.NoError(t, err)

	_, err = Decode(s)
	assert.ErrorIs(t, err, ErrUnsupportedType)
}
