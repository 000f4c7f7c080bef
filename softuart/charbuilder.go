package softuart

import (
	"time"

	"github.com/LisaRowell/LunaMonESP/datamodel"
	"github.com/LisaRowell/LunaMonESP/internal/logging"
	"github.com/LisaRowell/LunaMonESP/stats"
)

type builderState uint8

const (
	waitingOutFirstBits builderState = iota
	synchronizing
	startOfFrame
	midFrameExpecting1
	midFrameExpecting0
	waitingForStopBits
	discardStream
)

// CharBuilder reconstructs UART characters from a stream of (level, duration) pulses, the form a
// pulse-timer peripheral delivers them in. It is not safe for concurrent use: pulses for one
// line must be fed to AddBits from a single goroutine.
type CharBuilder struct {
	log    logging.Logger
	params Params

	bitDurationSlop   uint16
	minStopBitDuration uint16

	state          builderState
	bitsAccumulated uint8
	dataBits        uint16

	out chan uint16

	frameErrors    stats.Counter
	glitchBits     stats.Counter
	shortStopBits  stats.Counter
	runOnFrames    stats.Counter
	wrongBitErrors stats.Counter
	parityErrors   stats.Counter
	overrunErrors  stats.Counter

	frameErrorsLeaf, frameErrorRateLeaf     *datamodel.Leaf
	glitchBitsLeaf, glitchBitRateLeaf       *datamodel.Leaf
	shortStopLeaf, shortStopRateLeaf        *datamodel.Leaf
	runOnLeaf, runOnRateLeaf                *datamodel.Leaf
	wrongBitLeaf, wrongBitRateLeaf          *datamodel.Leaf
	parityErrorLeaf, parityErrorRateLeaf    *datamodel.Leaf
	overrunLeaf, overrunRateLeaf            *datamodel.Leaf
}

// NewCharBuilder creates a CharBuilder for a line configured per params, delivering decoded
// characters to out. If statsNode is non-nil, per-category error counters are registered under
// it as count/rate leaf pairs, harvested via ExportStats.
func NewCharBuilder(log logging.Logger, params Params, out chan uint16, statsNode *datamodel.Node) *CharBuilder {
	if !params.DataWidth.valid() {
		log.Errorf("bad soft-UART data width (%d)", params.DataWidth)
	}
	if !params.StopBits.valid() {
		log.Errorf("bad soft-UART stop bit configuration (%d)", params.StopBits)
	}

	halfStopBits := uint16(params.StopBits)
	minStopBitDuration := (((uint32(params.BitDuration) * uint32(halfStopBits)) / 2) * 8) / 10

	b := &CharBuilder{
		log:                log,
		params:             params,
		bitDurationSlop:    params.BitDuration / 4,
		minStopBitDuration: uint16(minStopBitDuration),
		state:              synchronizing,
		out:                out,
	}

	if statsNode != nil {
		tree := statsNode.Tree()
		b.frameErrorsLeaf, b.frameErrorRateLeaf = countRateLeaves(tree, statsNode, "frameErrors")
		b.glitchBitsLeaf, b.glitchBitRateLeaf = countRateLeaves(tree, statsNode, "glitchBits")
		b.shortStopLeaf, b.shortStopRateLeaf = countRateLeaves(tree, statsNode, "shortStopBits")
		b.runOnLeaf, b.runOnRateLeaf = countRateLeaves(tree, statsNode, "runOnFrames")
		b.wrongBitLeaf, b.wrongBitRateLeaf = countRateLeaves(tree, statsNode, "wrongBitErrors")
		b.parityErrorLeaf, b.parityErrorRateLeaf = countRateLeaves(tree, statsNode, "parityErrors")
		b.overrunLeaf, b.overrunRateLeaf = countRateLeaves(tree, statsNode, "overrunErrors")
	}

	return b
}

func countRateLeaves(tree *datamodel.Tree, parent *datamodel.Node, name string) (*datamodel.Leaf, *datamodel.Leaf) {
	node := tree.NewNode(name, parent)
	count := tree.NewLeaf("count", node, datamodel.KindUint32)
	rate := tree.NewLeaf("rate", node, datamodel.KindUint32)
	return count, rate
}

// ExportStats implements stats.Holder, publishing every error counter's cumulative count and
// rate since the last harvest.
func (b *CharBuilder) ExportStats(elapsed time.Duration) {
	if b.frameErrorsLeaf == nil {
		return
	}
	b.frameErrors.Update(b.frameErrorsLeaf, b.frameErrorRateLeaf, elapsed)
	b.glitchBits.Update(b.glitchBitsLeaf, b.glitchBitRateLeaf, elapsed)
	b.shortStopBits.Update(b.shortStopLeaf, b.shortStopRateLeaf, elapsed)
	b.runOnFrames.Update(b.runOnLeaf, b.runOnRateLeaf, elapsed)
	b.wrongBitErrors.Update(b.wrongBitLeaf, b.wrongBitRateLeaf, elapsed)
	b.parityErrors.Update(b.parityErrorLeaf, b.parityErrorRateLeaf, elapsed)
	b.overrunErrors.Update(b.overrunLeaf, b.overrunRateLeaf, elapsed)
}

// AddBits feeds one (duration, level) pulse into the character builder.
func (b *CharBuilder) AddBits(duration, level uint16) {
	switch b.state {
	case waitingOutFirstBits:
	case synchronizing:
		b.bitsReceivedWhileSynchronizing(duration, level)
	case startOfFrame:
		b.addStartOfFrameBits(duration, level)
	case midFrameExpecting1:
		b.addMidFrameBitsExpecting1(duration, level)
	case midFrameExpecting0:
		b.addMidFrameBitsExpecting0(duration, level)
	case waitingForStopBits:
		b.stopBitsReceived(duration, level)
	case discardStream:
	}
}

// StreamComplete signals that the pulse-timer peripheral ended the current RMT-style item
// stream, either because the line went idle or because a receive buffer filled.
func (b *CharBuilder) StreamComplete() {
	switch b.state {
	case waitingOutFirstBits:
		b.state = synchronizing
	case synchronizing:
	case startOfFrame:
	case midFrameExpecting1:
		b.addOneBits(b.params.dataBitsPerFrame() - b.bitsAccumulated)
		b.state = startOfFrame
	case midFrameExpecting0:
		b.frameErrors.Increment()
		b.state = synchronizing
	case waitingForStopBits:
		b.state = startOfFrame
		b.dataBitsCompleted()
	case discardStream:
		b.state = startOfFrame
	}

	b.bitsAccumulated = 0
	b.dataBits = 0
}

func (b *CharBuilder) bitsReceivedWhileSynchronizing(duration, level uint16) {
	if level == 0 {
		b.state = startOfFrame
		b.addStartOfFrameBits(duration, level)
	} else {
		b.state = waitingOutFirstBits
	}
}

func (b *CharBuilder) addStartOfFrameBits(duration, level uint16) {
	if level != 0 {
		b.log.Debugf("one bits at start of frame, discarding stream")
		b.state = discardStream
		b.frameErrors.Increment()
		return
	}

	b.bitsAccumulated = 0
	b.dataBits = 0

	fullBits := b.durationToFullBits(duration)
	dataBitsPerFrame := b.params.dataBitsPerFrame()
	if fullBits == 0 {
		b.log.Debugf("glitch bit at start of frame")
		b.state = discardStream
		b.glitchBits.Increment()
		return
	}
	if fullBits > uint16(dataBitsPerFrame)+1 {
		b.log.Debugf("too long a duration at start of frame")
		b.state = discardStream
		b.frameErrors.Increment()
		return
	}
	b.addZeroBits(uint8(fullBits) - 1)
	b.state = midFrameExpecting1
}

func (b *CharBuilder) addMidFrameBitsExpecting1(duration, level uint16) {
	if level != 1 {
		b.state = discardStream
		b.wrongBitErrors.Increment()
		return
	}

	dataBitsPerFrame := b.params.dataBitsPerFrame()
	fullBits := b.durationToFullBits(duration)
	if fullBits+uint16(b.bitsAccumulated) > uint16(dataBitsPerFrame) {
		bitsNeeded := dataBitsPerFrame - b.bitsAccumulated
		dataBitDuration := b.params.BitDuration * uint16(bitsNeeded)
		stopBitDuration := duration - dataBitDuration
		if stopBitDuration < b.minStopBitDuration {
			b.state = discardStream
			b.shortStopBits.Increment()
		} else {
			b.addOneBits(bitsNeeded)
			b.dataBitsCompleted()
			b.state = startOfFrame
		}
	} else if fullBits+uint16(b.bitsAccumulated) == uint16(dataBitsPerFrame) {
		b.state = discardStream
		b.runOnFrames.Increment()
	} else {
		b.state = midFrameExpecting0
		b.addOneBits(uint8(fullBits))
	}
}

func (b *CharBuilder) addMidFrameBitsExpecting0(duration, level uint16) {
	if level != 0 {
		b.state = discardStream
		b.wrongBitErrors.Increment()
		return
	}

	dataBitsPerFrame := b.params.dataBitsPerFrame()
	fullBits := b.durationToFullBits(duration)
	if fullBits+uint16(b.bitsAccumulated) > uint16(dataBitsPerFrame) {
		b.state = discardStream
		b.runOnFrames.Increment()
	} else if fullBits+uint16(b.bitsAccumulated) == uint16(dataBitsPerFrame) {
		b.state = waitingForStopBits
		b.addZeroBits(uint8(fullBits))
	} else {
		b.state = midFrameExpecting1
		b.addZeroBits(uint8(fullBits))
	}
}

func (b *CharBuilder) stopBitsReceived(duration, level uint16) {
	if level != 1 {
		b.state = discardStream
		b.wrongBitErrors.Increment()
		return
	}

	if duration < b.minStopBitDuration {
		b.state = discardStream
		b.shortStopBits.Increment()
	} else {
		b.dataBitsCompleted()
		b.state = startOfFrame
	}
}

func (b *CharBuilder) addOneBits(count uint8) {
	if uint16(count)+uint16(b.bitsAccumulated) > uint16(b.params.dataBitsPerFrame()) {
		panic("tried to add too many 1 bits to a soft-UART frame")
	}

	b.dataBits = (0xffff << (16 - count)) | (b.dataBits >> count)
	b.bitsAccumulated += count
}

func (b *CharBuilder) addZeroBits(count uint8) {
	if uint16(count)+uint16(b.bitsAccumulated) > uint16(b.params.dataBitsPerFrame()) {
		panic("tried to add too many 0 bits to a soft-UART frame")
	}

	b.dataBits = b.dataBits >> count
	b.bitsAccumulated += count
}

func (b *CharBuilder) dataBitsCompleted() {
	if !b.inGoodParity() {
		b.state = discardStream
		b.parityErrors.Increment()
		return
	}

	dataBitsPerFrame := b.params.dataBitsPerFrame()
	if b.params.Parity != ParityNone {
		b.dataBits &= 0x7fff
	}
	b.dataBits = b.dataBits >> (16 - dataBitsPerFrame)

	select {
	case b.out <- b.dataBits:
	default:
		b.overrunErrors.Increment()
	}
}

func (b *CharBuilder) inGoodParity() bool {
	switch b.params.Parity {
	case ParityNone:
		return true
	case ParityEven:
		return b.evenNumberDataBits()
	case ParityOdd:
		return !b.evenNumberDataBits()
	case ParityMark:
		return b.dataBits&0x8000 == 0x8000
	case ParitySpace:
		return b.dataBits&0x8000 == 0x0000
	default:
		panic("bad soft-UART parity configuration")
	}
}

func (b *CharBuilder) evenNumberDataBits() bool {
	var parity uint16
	scratch := b.dataBits
	for remaining := b.params.dataBitsPerFrame(); remaining > 0; remaining-- {
		parity ^= scratch & 0x8000
		scratch <<= 1
	}
	return parity == 0x0000
}

func (b *CharBuilder) durationToFullBits(duration uint16) uint16 {
	return (duration + b.bitDurationSlop) / b.params.BitDuration
}
