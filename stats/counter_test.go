package stats

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/LisaRowell/LunaMonESP/datamodel"
)

func newTestLeaves() (*datamodel.Leaf, *datamodel.Leaf) {
	tree := datamodel.NewTree()
	node := tree.Root()
	return tree.NewLeaf("count", node, datamodel.KindUint32), tree.NewLeaf("rate", node, datamodel.KindUint32)
}

func TestCounterUpdateReportsCountAndRate(t *testing.T) {
	var c Counter
	countLeaf, rateLeaf := newTestLeaves()

	c.IncrementBy(20)
	c.Update(countLeaf, rateLeaf, 2*time.Second)

	assert.Equal(t, "20", countLeaf.String())
	assert.Equal(t, "10", rateLeaf.String())
}

func TestCounterUpdateRateBetweenIntervals(t *testing.T) {
	var c Counter
	countLeaf, rateLeaf := newTestLeaves()

	c.IncrementBy(5)
	c.Update(countLeaf, rateLeaf, time.Second)
	assert.Equal(t, "5", countLeaf.String())
	assert.Equal(t, "5", rateLeaf.String())

	c.IncrementBy(15)
	c.Update(countLeaf, rateLeaf, time.Second)
	assert.Equal(t, "20", countLeaf.String())
	assert.Equal(t, "15", rateLeaf.String())
}

func TestCounterUpdateZeroElapsedYieldsZeroRate(t *testing.T) {
	var c Counter
	countLeaf, rateLeaf := newTestLeaves()

	c.Increment()
	c.Update(countLeaf, rateLeaf, 0)

	assert.Equal(t, "1", countLeaf.String())
	assert.Equal(t, "0", rateLeaf.String())
}

func TestCounterUpdateHandlesWraparound(t *testing.T) {
	var c Counter
	countLeaf, rateLeaf := newTestLeaves()

	c.IncrementBy(math.MaxUint32 - 2)
	c.Update(countLeaf, rateLeaf, time.Second)
	assert.Equal(t, "4294967293", countLeaf.String())

	c.IncrementBy(5) // wraps past MaxUint32
	c.Update(countLeaf, rateLeaf, time.Second)

	assert.Equal(t, "2", countLeaf.String())
	assert.Equal(t, "5", rateLeaf.String())
}
