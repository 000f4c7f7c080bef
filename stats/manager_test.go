package stats

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/LisaRowell/LunaMonESP/internal/logging"
)

type countingHolder struct {
	harvests atomic.Int32
}

func (h *countingHolder) ExportStats(elapsed time.Duration) {
	h.harvests.Add(1)
}

func TestManagerHarvestsRegisteredHolders(t *testing.T) {
	m := NewManager(logging.Discard, 5*time.Millisecond)
	h := &countingHolder{}
	m.AddHolder(h)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	m.Run(ctx)

	assert.GreaterOrEqual(t, h.harvests.Load(), int32(2))
}

func TestManagerDefaultsInterval(t *testing.T) {
	m := NewManager(logging.Discard, 0)
	assert.Equal(t, DefaultInterval, m.interval)
}
