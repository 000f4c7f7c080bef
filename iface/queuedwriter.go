package iface

import (
	"context"
	"io"
	"time"

	"github.com/LisaRowell/LunaMonESP/datamodel"
	"github.com/LisaRowell/LunaMonESP/internal/logging"
	"github.com/LisaRowell/LunaMonESP/stats"
)

// defaultQueueDepth bounds a QueuedWriter's backlog. It's deliberately small: the point of the
// queue is to absorb a burst long enough that a non-blocking send doesn't have to block its
// caller, not to become an unbounded buffer hiding a destination that can't keep up.
const defaultQueueDepth = 16

// QueuedWriter decouples a caller from a destination writer that may block (a slow serial link,
// a stalled TCP peer) by draining a bounded queue on its own goroutine. It backs every concrete
// Interface's non-blocking SendMessage path and the NMEA server's per-client sends, the Go
// analogue of the original firmware's per-bridge FreeRTOS message buffer.
type QueuedWriter struct {
	log   logging.Logger
	w     io.Writer
	queue chan []byte

	dropped, errors               stats.Counter
	droppedLeaf, droppedRateLeaf   *datamodel.Leaf
	errorsLeaf, errorsRateLeaf     *datamodel.Leaf
}

// NewQueuedWriter creates a QueuedWriter over w with the given queue depth (defaultQueueDepth if
// non-positive), with its dropped/error counters wired under parent if tree is non-nil.
func NewQueuedWriter(log logging.Logger, w io.Writer, depth int, tree *datamodel.Tree,
	parent *datamodel.Node) *QueuedWriter {
	if depth <= 0 {
		depth = defaultQueueDepth
	}
	q := &QueuedWriter{log: log, w: w, queue: make(chan []byte, depth)}
	if tree != nil {
		q.droppedLeaf, q.droppedRateLeaf = countRateLeaves(tree, parent, "dropped")
		q.errorsLeaf, q.errorsRateLeaf = countRateLeaves(tree, parent, "sendErrors")
	}
	return q
}

// Run drains the queue, writing each message to the destination, until ctx is cancelled.
func (q *QueuedWriter) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case p := <-q.queue:
			if _, err := q.w.Write(p); err != nil {
				q.errors.Increment()
				q.log.Warnf("queued write failed: %s", err)
			}
		}
	}
}

// SendMessage queues p for the destination. If blocking is true it waits for room; otherwise it
// refuses immediately and counts a drop when the queue is full, matching the zero-timeout
// non-blocking send path of the concurrency model.
func (q *QueuedWriter) SendMessage(p []byte, blocking bool) bool {
	if blocking {
		q.queue <- p
		return true
	}

	select {
	case q.queue <- p:
		return true
	default:
		q.dropped.Increment()
		return false
	}
}

// ExportStats implements stats.Holder.
func (q *QueuedWriter) ExportStats(elapsed time.Duration) {
	if q.droppedLeaf == nil {
		return
	}
	q.dropped.Update(q.droppedLeaf, q.droppedRateLeaf, elapsed)
	q.errors.Update(q.errorsLeaf, q.errorsRateLeaf, elapsed)
}
