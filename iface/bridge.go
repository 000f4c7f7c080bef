package iface

import (
	"time"

	"github.com/LisaRowell/LunaMonESP/datamodel"
	"github.com/LisaRowell/LunaMonESP/internal/logging"
	"github.com/LisaRowell/LunaMonESP/nmea0183"
	"github.com/LisaRowell/LunaMonESP/stats"
)

// Bridge forwards lines of configured three-letter NMEA sentence types from one LineSource to a
// destination, without ever blocking the source's receive loop: it registers itself as a
// LineHandler and forwards with a non-blocking SendMessage, counting what it couldn't deliver
// rather than waiting for room.
type Bridge struct {
	log         logging.Logger
	name        string
	dest        MessageSender
	types       map[string]struct{}

	bridged, dropped, errors stats.Counter
	bridgedLeaf, bridgedRateLeaf *datamodel.Leaf
	droppedLeaf, droppedRateLeaf *datamodel.Leaf
}

// NewBridge creates a Bridge named name that forwards lines whose sentence Type is in types
// (nil or empty forwards every type) from source to dest.
func NewBridge(log logging.Logger, name string, source *LineSource, dest MessageSender,
	types []string, tree *datamodel.Tree, parent *datamodel.Node) *Bridge {
	typeSet := make(map[string]struct{}, len(types))
	for _, t := range types {
		typeSet[t] = struct{}{}
	}

	node := tree.NewNode(name, parent)
	b := &Bridge{log: log, name: name, dest: dest, types: typeSet}
	b.bridgedLeaf, b.bridgedRateLeaf = countRateLeaves(tree, node, "bridgedMessages")
	b.droppedLeaf, b.droppedRateLeaf = countRateLeaves(tree, node, "droppedMessages")

	source.AddHandler(b)
	return b
}

// HandleLine implements LineHandler.
func (b *Bridge) HandleLine(sentence *nmea0183.Sentence, raw []byte) {
	if len(b.types) > 0 {
		if _, ok := b.types[sentence.Type]; !ok {
			return
		}
	}

	if b.dest.SendMessage(raw, false) {
		b.bridged.Increment()
	} else {
		b.dropped.Increment()
	}
}

// ExportStats implements stats.Holder.
func (b *Bridge) ExportStats(elapsed time.Duration) {
	b.bridged.Update(b.bridgedLeaf, b.bridgedRateLeaf, elapsed)
	b.dropped.Update(b.droppedLeaf, b.droppedRateLeaf, elapsed)
}
