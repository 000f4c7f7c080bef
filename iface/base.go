package iface

import (
	"io"
	"sync"
	"time"

	"github.com/LisaRowell/LunaMonESP/datamodel"
	"github.com/LisaRowell/LunaMonESP/internal/logging"
	"github.com/LisaRowell/LunaMonESP/stats"
)

// Base holds the fields and behavior common to every concrete Interface: a stable name, a
// protocol tag, a received-bytes counter and the per-interface write lock that serializes Send.
// Concrete interfaces embed Base rather than reimplementing this bookkeeping, mirroring the
// original firmware's Interface base class.
type Base struct {
	log      logging.Logger
	name     string
	protocol Protocol
	mode     Mode

	node                                  *datamodel.Node
	receivedBytes                         stats.Counter
	receivedBytesLeaf, receivedByteRateLeaf *datamodel.Leaf

	sendMu sync.Mutex
}

// NewBase creates the common state for a named interface, wiring its node and received-bytes
// counter into tree under parent.
func NewBase(log logging.Logger, name string, protocol Protocol, mode Mode, tree *datamodel.Tree,
	parent *datamodel.Node) *Base {
	node := tree.NewNode(name, parent)
	receivedBytesLeaf, receivedByteRateLeaf := countRateLeaves(tree, node, "receivedBytes")
	return &Base{
		log:                      log,
		name:                     name,
		protocol:                 protocol,
		mode:                     mode,
		node:                     node,
		receivedBytesLeaf:        receivedBytesLeaf,
		receivedByteRateLeaf:     receivedByteRateLeaf,
	}
}

func countRateLeaves(tree *datamodel.Tree, parent *datamodel.Node, name string) (*datamodel.Leaf,
	*datamodel.Leaf) {
	count := tree.NewLeaf(name, parent, datamodel.KindUint32)
	rate := tree.NewLeaf(name+"Rate", parent, datamodel.KindUint32)
	return count, rate
}

// Name returns the interface's stable name.
func (b *Base) Name() string {
	return b.name
}

// Protocol returns the interface's protocol tag.
func (b *Base) Protocol() Protocol {
	return b.protocol
}

// Mode returns the interface's direction.
func (b *Base) Mode() Mode {
	return b.mode
}

// Node returns the data model node the interface publishes its stats under.
func (b *Base) Node() *datamodel.Node {
	return b.node
}

// ExportStats implements stats.Holder for the fields Base owns. Concrete interfaces that embed
// Base and have their own stats.Holder implementation call this from within it.
func (b *Base) ExportStats(elapsed time.Duration) {
	b.receivedBytes.Update(b.receivedBytesLeaf, b.receivedByteRateLeaf, elapsed)
}

// Send writes p to w, serialized by the interface's write lock, the Go analogue of the original
// firmware's per-interface write mutex guarding a blocking sendBytes call.
func (b *Base) Send(w io.Writer, p []byte) (int, error) {
	b.sendMu.Lock()
	defer b.sendMu.Unlock()
	return w.Write(p)
}

// countingReader wraps a source io.Reader, feeding every byte actually read into an interface's
// received-bytes counter without the reader above needing to know about stats at all.
type countingReader struct {
	io.Reader
	counter *stats.Counter
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.Reader.Read(p)
	if n > 0 {
		c.counter.IncrementBy(uint32(n))
	}
	return n, err
}

func (b *Base) countingReader(source io.Reader) io.Reader {
	return &countingReader{Reader: source, counter: &b.receivedBytes}
}
