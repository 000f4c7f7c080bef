package nmea0183

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func lineFrom(t *testing.T, s string) *Line {
	t.Helper()
	var l Line
	l.Append([]byte(s))
	return &l
}

func TestChecksum(t *testing.T) {
	// $GPGGA sample sentence with a known-good checksum.
	body := "GPGGA,123519,4807.038,N,01131.000,E,1,08,0.9,545.4,M,46.9,M,,"
	assert.Equal(t, uint8(0x47), Checksum([]byte(body)))
}

func TestLineSanityCheckGoodSentence(t *testing.T) {
	l := lineFrom(t, "$GPGGA,123519,4807.038,N,01131.000,E,1,08,0.9,545.4,M,46.9,M,,*47")
	err := l.SanityCheck()
	assert.NoError(t, err)
	assert.False(t, l.IsEncapsulatedData())
	assert.Equal(t, "GPGGA,123519,4807.038,N,01131.000,E,1,08,0.9,545.4,M,46.9,M,,", l.String())
}

func TestLineSanityCheckEncapsulatedData(t *testing.T) {
	l := lineFrom(t, "!AIVDM,1,1,,A,15NG6V0P01G?hK@EI97a4?vN0000,0*41")
	err := l.SanityCheck()
	assert.NoError(t, err)
	assert.True(t, l.IsEncapsulatedData())
}

func TestLineSanityCheckBadChecksum(t *testing.T) {
	l := lineFrom(t, "$GPGGA,123519,4807.038,N,01131.000,E,1,08,0.9,545.4,M,46.9,M,,*00")
	err := l.SanityCheck()
	assert.ErrorIs(t, err, ErrBadChecksum)
}

func TestLineSanityCheckMissingLeadIn(t *testing.T) {
	l := lineFrom(t, "GPGGA,123519*47")
	err := l.SanityCheck()
	assert.ErrorIs(t, err, ErrMissingLeadIn)
}

func TestLineSanityCheckEmpty(t *testing.T) {
	var l Line
	err := l.SanityCheck()
	assert.ErrorIs(t, err, ErrEmptyLine)
}

func TestLineAppendTruncates(t *testing.T) {
	var l Line
	long := make([]byte, MaxLineLength+10)
	for i := range long {
		long[i] = 'A'
	}
	l.Append(long)
	assert.True(t, l.Truncated())
	assert.Len(t, l.String(), MaxLineLength)
}

func TestAppendChecksumRoundTrips(t *testing.T) {
	body := []byte("GPGGA,123519,4807.038,N,01131.000,E,1,08,0.9,545.4,M,46.9,M,,")
	framed := append([]byte{'$'}, AppendChecksum(body)...)

	var l Line
	l.Append(framed)
	assert.NoError(t, l.SanityCheck())
}
