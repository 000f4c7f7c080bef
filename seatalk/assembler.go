package seatalk

import (
	"time"

	"github.com/LisaRowell/LunaMonESP/datamodel"
	"github.com/LisaRowell/LunaMonESP/internal/logging"
	"github.com/LisaRowell/LunaMonESP/stats"
)

// commandMarkBit flags a 9-bit SeaTalk character as a command byte (start of a new datagram),
// the convention softuart's soft-UART character builder uses for the ninth data bit.
const commandMarkBit = 0x100

// Assembler recovers SeaTalk datagram boundaries from a stream of 9-bit characters. It is not
// safe for concurrent use: characters for one line must be fed to Feed from a single goroutine.
type Assembler struct {
	log  logging.Logger
	line Line

	mergedDatagrams stats.Counter
	overruns        stats.Counter

	mergedDatagramsLeaf, mergedDatagramRateLeaf *datamodel.Leaf
	overrunsLeaf, overrunRateLeaf               *datamodel.Leaf
}

// NewAssembler creates an Assembler. If statsNode is non-nil, its error counters are registered
// under it as count/rate leaf pairs, harvested via ExportStats.
func NewAssembler(log logging.Logger, statsNode *datamodel.Node) *Assembler {
	a := &Assembler{log: log}

	if statsNode != nil {
		tree := statsNode.Tree()
		a.mergedDatagramsLeaf, a.mergedDatagramRateLeaf = countRateLeaves(tree, statsNode, "mergedDatagrams")
		a.overrunsLeaf, a.overrunRateLeaf = countRateLeaves(tree, statsNode, "overruns")
	}

	return a
}

func countRateLeaves(tree *datamodel.Tree, parent *datamodel.Node, name string) (*datamodel.Leaf, *datamodel.Leaf) {
	node := tree.NewNode(name, parent)
	count := tree.NewLeaf("count", node, datamodel.KindUint32)
	rate := tree.NewLeaf("rate", node, datamodel.KindUint32)
	return count, rate
}

// ExportStats implements stats.Holder.
func (a *Assembler) ExportStats(elapsed time.Duration) {
	if a.mergedDatagramsLeaf == nil {
		return
	}
	a.mergedDatagrams.Update(a.mergedDatagramsLeaf, a.mergedDatagramRateLeaf, elapsed)
	a.overruns.Update(a.overrunsLeaf, a.overrunRateLeaf, elapsed)
}

// Feed consumes one 9-bit SeaTalk character. On any character with the command-mark bit set, a
// non-empty in-progress datagram is discarded (counted as a merged datagram) before the new
// datagram starts; a character with the bit clear is appended to whatever datagram is in
// progress, and is silently dropped if none is. Feed returns the completed Line once a datagram
// reaches its declared length.
func (a *Assembler) Feed(ch uint16) (*Line, bool) {
	isCommand := ch&commandMarkBit != 0
	b := uint8(ch)

	if isCommand {
		if !a.line.IsEmpty() {
			a.log.Debugf("new SeaTalk command byte with a datagram in progress, discarding: %s", &a.line)
			a.mergedDatagrams.Increment()
		}
		a.line.Reset()
		a.line.Append(b)
		return nil, false
	}

	if a.line.IsEmpty() {
		return nil, false
	}

	a.line.Append(b)
	if a.line.Overrun() {
		a.log.Warnf("SeaTalk datagram exceeded maximum length, discarding")
		a.overruns.Increment()
		a.line.Reset()
		return nil, false
	}

	if !a.line.IsComplete() {
		return nil, false
	}

	complete := a.line
	a.line.Reset()
	return &complete, true
}
