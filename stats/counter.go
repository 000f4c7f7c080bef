package stats

import (
	"sync/atomic"
	"time"

	"github.com/LisaRowell/LunaMonESP/datamodel"
)

// Counter is a free-running event counter exposed through the data model as both a cumulative
// count and a per-second rate. Increment may be called concurrently from whatever goroutine
// observes the event; Update is called only from the stats Manager's harvest loop, so
// lastIntervalCount needs no synchronization of its own.
type Counter struct {
	count             atomic.Uint32
	lastIntervalCount uint32
}

// Increment adds one to the counter.
func (c *Counter) Increment() {
	c.count.Add(1)
}

// IncrementBy adds addition to the counter.
func (c *Counter) IncrementBy(addition uint32) {
	c.count.Add(addition)
}

// Update publishes the counter's current cumulative count to countLeaf and its rate over the
// just-elapsed interval to rateLeaf. The subtraction between this harvest's count and the last
// one is done in uint32 arithmetic so that a wraparound of the underlying counter still yields
// the correct delta.
func (c *Counter) Update(countLeaf, rateLeaf *datamodel.Leaf, elapsed time.Duration) {
	count := c.count.Load()
	delta := count - c.lastIntervalCount
	c.lastIntervalCount = count

	countLeaf.SetUint(count)

	var rate uint32
	if elapsed > 0 {
		rate = uint32(uint64(delta) * uint64(time.Second) / uint64(elapsed))
	}
	rateLeaf.SetUint(rate)
}
