package nmea0183

import (
	"context"
	"io"

	"github.com/LisaRowell/LunaMonESP/internal/logging"
)

// LineReader assembles NMEA 0183 sentences from a byte stream, one byte at a time, the same way
// a UART ISR or soft-UART character builder hands bytes to the line layer above it.
type LineReader struct {
	log    logging.Logger
	source io.Reader

	line Line
	buf  [1]byte
}

// NewLineReader creates a LineReader reading from source.
func NewLineReader(log logging.Logger, source io.Reader) *LineReader {
	return &LineReader{log: log, source: source}
}

// ReadLine blocks until a complete, checksum-validated line has been read, ctx is cancelled, or
// the underlying source returns an error. Lines that fail SanityCheck are logged and skipped
// rather than returned as an error, since one bad line shouldn't end the read loop.
func (r *LineReader) ReadLine(ctx context.Context) (*Line, error) {
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		n, err := r.source.Read(r.buf[:])
		if err != nil {
			return nil, err
		}
		if n == 0 {
			continue
		}

		b := r.buf[0]
		switch b {
		case '\r':
			// Ignored; the line is terminated on '\n'.
		case '\n':
			if r.line.IsEmpty() {
				continue
			}
			if r.line.Truncated() {
				r.log.Warnf("NMEA line exceeded %d bytes, truncated", MaxLineLength)
			}
			if err := r.line.SanityCheck(); err != nil {
				r.log.Debugf("discarding NMEA line: %s", err)
				r.line.Reset()
				continue
			}
			line := r.line
			r.line.Reset()
			return &line, nil
		default:
			r.line.AppendByte(b)
		}
	}
}
