package nmea0183

import (
	"bytes"
	"context"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LisaRowell/LunaMonESP/internal/logging"
)

func TestLineReaderReadsMultipleLines(t *testing.T) {
	src := bytes.NewBufferString(
		"$GPGGA,123519,4807.038,N,01131.000,E,1,08,0.9,545.4,M,46.9,M,,*47\r\n" +
			"$GPVTG,054.7,T,034.4,M,005.5,N,010.2,K*48\r\n")
	r := NewLineReader(logging.Discard, src)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	l1, err := r.ReadLine(ctx)
	require.NoError(t, err)
	assert.Contains(t, l1.String(), "GPGGA")

	l2, err := r.ReadLine(ctx)
	require.NoError(t, err)
	assert.Contains(t, l2.String(), "GPVTG")
}

func TestLineReaderSkipsBadChecksumLine(t *testing.T) {
	src := bytes.NewBufferString(
		"$GPGGA,123519,4807.038,N,01131.000,E,1,08,0.9,545.4,M,46.9,M,,*00\r\n" +
			"$GPGGA,123519,4807.038,N,01131.000,E,1,08,0.9,545.4,M,46.9,M,,*47\r\n")
	r := NewLineReader(logging.Discard, src)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	l, err := r.ReadLine(ctx)
	require.NoError(t, err)
	assert.Contains(t, l.String(), "GPGGA")
}

func TestLineReaderContextCancellation(t *testing.T) {
	src, _ := io.Pipe()
	r := NewLineReader(logging.Discard, src)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := r.ReadLine(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
