package iface

import (
	"context"
	"io"
	"time"

	"github.com/LisaRowell/LunaMonESP/datamodel"
	"github.com/LisaRowell/LunaMonESP/internal/logging"
	"github.com/LisaRowell/LunaMonESP/nmea0183"
	"github.com/LisaRowell/LunaMonESP/seatalk"
	"github.com/LisaRowell/LunaMonESP/stats"
)

// digitalYachtsPollInterval is how often STALKInterface checks whether the Digital Yachts
// nudge sequence has something due to send.
const digitalYachtsPollInterval = time.Second

// STALKInterface carries SeaTalk wrapped as NMEA-style "$STALK,hh,hh,...*CS" text, the format
// Digital Yachts' ST-USB/ST-WiFi adapters (and some other SeaTalk-to-serial bridges) speak
// instead of raw 9-bit framing. It composes a LineSource for the framing/checksum work with a
// seatalk.Parser for the datagram semantics, and drives the Digital Yachts adapter workaround
// when enabled.
type STALKInterface struct {
	*Base
	conn       io.Writer
	lineSource *LineSource
	parser     *seatalk.Parser
	workaround *seatalk.DigitalYachtsWorkaround

	illformed                        stats.Counter
	illformedLeaf, illformedRateLeaf *datamodel.Leaf
}

// NewSTALKInterface creates a STALKInterface named name, reading $STALK/$PDGY lines from source
// and writing the Digital Yachts nudge (if enabled) to conn. If digitalYachtsWorkaround is true,
// the workaround timer starts counting from now.
func NewSTALKInterface(log logging.Logger, name string, conn io.ReadWriter,
	digitalYachtsWorkaround bool, now time.Time, data *seatalk.InstrumentData,
	tree *datamodel.Tree, parent *datamodel.Node) *STALKInterface {
	base := NewBase(log, name, ProtocolSTALK, ModeRXTX, tree, parent)
	s := &STALKInterface{
		Base:   base,
		conn:   conn,
		parser: seatalk.NewParser(log, data, base.Node()),
	}
	if digitalYachtsWorkaround {
		s.workaround = seatalk.NewDigitalYachtsWorkaround(now)
	}
	s.lineSource = NewLineSource(log, base.countingReader(conn), nil, tree, base.Node())
	s.lineSource.AddHandler(s)
	s.illformedLeaf, s.illformedRateLeaf = countRateLeaves(tree, base.Node(), "illformedDatagrams")
	return s
}

// HandleLine implements LineHandler: it recognizes $STALK and $PDGY lines, decodes and parses
// $STALK datagrams, and feeds the Digital Yachts workaround whether or not the line was one of
// its own.
func (s *STALKInterface) HandleLine(sentence *nmea0183.Sentence, raw []byte) {
	wasSTALK := seatalk.IsSTALK(sentence)
	if s.workaround != nil {
		s.workaround.NoteLineReceived(wasSTALK)
	}

	if seatalk.IsPDGY(sentence) {
		return
	}
	if !wasSTALK {
		return
	}

	line, err := seatalk.DecodeSTALK(sentence)
	if err != nil {
		s.illformed.Increment()
		s.log.Warnf("%s: %s", s.Name(), err)
		return
	}
	s.parser.ParseLine(line)
}

// Run reads and parses lines until ctx is cancelled, polling the Digital Yachts workaround (if
// enabled) on digitalYachtsPollInterval.
func (s *STALKInterface) Run(ctx context.Context) error {
	if s.workaround == nil {
		return s.lineSource.Run(ctx)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- s.lineSource.Run(ctx) }()

	ticker := time.NewTicker(digitalYachtsPollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-done:
			return err
		case now := <-ticker.C:
			if nudge := s.workaround.Poll(now); nudge != nil {
				_, _ = s.Base.Send(s.conn, nudge)
			}
		}
	}
}

// SendDatagram encodes line as a $STALK sentence and writes it directly to the link.
func (s *STALKInterface) SendDatagram(line *seatalk.Line) error {
	_, err := s.Base.Send(s.conn, seatalk.EncodeSTALK(line))
	return err
}

// ExportStats implements stats.Holder.
func (s *STALKInterface) ExportStats(elapsed time.Duration) {
	s.Base.ExportStats(elapsed)
	s.lineSource.ExportStats(elapsed)
	s.parser.ExportStats(elapsed)
	s.illformed.Update(s.illformedLeaf, s.illformedRateLeaf, elapsed)
}
