package iface

import (
	"context"
	"sync"
	"time"

	"github.com/LisaRowell/LunaMonESP/datamodel"
	"github.com/LisaRowell/LunaMonESP/internal/logging"
	"github.com/LisaRowell/LunaMonESP/seatalk"
	"github.com/LisaRowell/LunaMonESP/softuart"
)

// seatalkParams is SeaTalk's fixed bus framing: 4800 baud, 9 data bits (the 9th carrying the
// command-mark bit), no parity, one stop bit. BitDuration is left at zero here since a real
// pulse-timer peripheral derives it from its own tick resolution; a caller driving actual
// hardware overrides it before use.
var seatalkParams = softuart.Params{
	DataWidth: softuart.DataWidth9,
	Parity:    softuart.ParityNone,
	StopBits:  softuart.StopBits1,
}

// PulseSource is a pulse-timer peripheral's receive side: one (level, duration) pulse per call,
// blocking until the next edge.
type PulseSource interface {
	NextPulse(ctx context.Context) (level, duration uint16, err error)
}

// PulseSink is a pulse-timer peripheral's transmit side: StreamPulse starts (or continues)
// streaming the (level, duration) pulses of an already-buffered frame.
type PulseSink interface {
	StreamPulse(level, duration uint16) error
}

// SoftUARTInterface carries SeaTalk over a pulse-timer-driven soft UART: softuart reconstructs
// byte framing from (level, duration) pulses (or, for TX, the reverse), and seatalk reassembles
// and parses the resulting 9-bit character stream into datagrams. This is the interface variant
// the original firmware uses when no hardware UART is wired to the SeaTalk bus.
type SoftUARTInterface struct {
	*Base
	source PulseSource
	sink   PulseSink

	params    softuart.Params
	chars     chan uint16
	builder   *softuart.CharBuilder
	assembler *seatalk.Assembler
	parser    *seatalk.Parser
	master    *seatalk.Master

	txMu sync.Mutex
}

// NewSoftUARTInterface creates a SoftUARTInterface named name. bitDuration must already reflect
// the pulse timer's tick resolution at 4800 baud; the rest of the soft-UART parameters are fixed
// to SeaTalk's framing.
func NewSoftUARTInterface(log logging.Logger, name string, source PulseSource, sink PulseSink,
	bitDuration uint16, data *seatalk.InstrumentData, tree *datamodel.Tree,
	parent *datamodel.Node) *SoftUARTInterface {
	base := NewBase(log, name, ProtocolSeaTalk, ModeRXTX, tree, parent)
	params := seatalkParams
	params.BitDuration = bitDuration

	chars := make(chan uint16, 8)
	s := &SoftUARTInterface{
		Base:      base,
		source:    source,
		sink:      sink,
		params:    params,
		chars:     chars,
		builder:   softuart.NewCharBuilder(log, params, chars, base.Node()),
		assembler: seatalk.NewAssembler(log, base.Node()),
		parser:    seatalk.NewParser(log, data, base.Node()),
		master:    seatalk.NewMaster(),
	}
	return s
}

// Run reads pulses from source, reconstructing and parsing SeaTalk datagrams, until ctx is
// cancelled or the source fails.
func (s *SoftUARTInterface) Run(ctx context.Context) error {
	go s.assemble(ctx)

	for {
		level, duration, err := s.source.NextPulse(ctx)
		if err != nil {
			return err
		}
		s.builder.AddBits(duration, level)
	}
}

func (s *SoftUARTInterface) assemble(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case ch := <-s.chars:
			if line, complete := s.assembler.Feed(ch); complete {
				s.parser.ParseLine(line)
			}
		}
	}
}

// Send streams line out over the pulse sink, serialized against any other transmit in progress.
// It's a best-effort, blocking call: SeaTalk has no notion of a non-blocking send, since the
// original bus is a single shared line with no per-destination queue to refuse into.
func (s *SoftUARTInterface) Send(line *seatalk.Line) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	streamer := softuart.NewBitStreamer(s.params)
	streamer.Start(s.master.EncodeTX(line))

	for {
		level, duration, more := streamer.NextBit()
		if err := s.sink.StreamPulse(level, duration); err != nil {
			return err
		}
		if !more {
			return nil
		}
	}
}

// ExportStats implements stats.Holder.
func (s *SoftUARTInterface) ExportStats(elapsed time.Duration) {
	s.Base.ExportStats(elapsed)
	s.builder.ExportStats(elapsed)
	s.assembler.ExportStats(elapsed)
	s.parser.ExportStats(elapsed)
}
