package iface

import (
	"context"
	"net"
	"sync"
	"time"

	"github.com/LisaRowell/LunaMonESP/datamodel"
	"github.com/LisaRowell/LunaMonESP/internal/logging"
	"github.com/LisaRowell/LunaMonESP/nmea0183"
	"github.com/LisaRowell/LunaMonESP/stats"
)

// wifiReconnectDelay is how long WiFiInterface waits after a failed or dropped connection before
// dialing again.
const wifiReconnectDelay = time.Second

// WiFiInterface carries NMEA 0183 over a TCP client connection to a fixed IPv4 address, the Go
// counterpart of the original firmware's WiFiInterface: on any read failure it drops the
// connection and reconnects after wifiReconnectDelay rather than treating the failure as fatal.
type WiFiInterface struct {
	*Base
	addr            string
	filteredTalkers []nmea0183.Talker
	dialer          net.Dialer
	tree            *datamodel.Tree
	pendingHandlers []LineHandler

	connMu sync.RWMutex
	conn   net.Conn

	connectedLeaf                       *datamodel.Leaf
	reconnects                          stats.Counter
	reconnectsLeaf, reconnectsRateLeaf *datamodel.Leaf

	lineSource *LineSource
	queued     *QueuedWriter
}

// NewWiFiInterface creates a WiFiInterface named name, dialing addr (host:port, IPv4 only).
func NewWiFiInterface(log logging.Logger, name string, addr string, filteredTalkers []nmea0183.Talker,
	tree *datamodel.Tree, parent *datamodel.Node) *WiFiInterface {
	base := NewBase(log, name, ProtocolNMEA, ModeRXTX, tree, parent)
	w := &WiFiInterface{
		Base:            base,
		addr:            addr,
		filteredTalkers: filteredTalkers,
		dialer:          net.Dialer{},
		tree:            tree,
	}
	w.connectedLeaf = tree.NewLeaf("connected", base.Node(), datamodel.KindBool)
	w.connectedLeaf.SetBool(false)
	w.reconnectsLeaf, w.reconnectsRateLeaf = countRateLeaves(tree, base.Node(), "reconnects")
	return w
}

// AddHandler registers h to be called for every line this interface decodes. It must be called
// before Run starts, since LineSource is (re)created on every successful connection.
func (w *WiFiInterface) AddHandler(h LineHandler) {
	w.pendingHandlers = append(w.pendingHandlers, h)
}

// Run dials addr and serves it until ctx is cancelled, reconnecting after wifiReconnectDelay on
// any failure.
func (w *WiFiInterface) Run(ctx context.Context) error {
	for {
		if err := w.runOnce(ctx); err != nil {
			w.log.Warnf("%s: connection lost: %s", w.Name(), err)
		}

		if ctx.Err() != nil {
			return ctx.Err()
		}

		w.connectedLeaf.SetBool(false)
		w.reconnects.Increment()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wifiReconnectDelay):
		}
	}
}

func (w *WiFiInterface) runOnce(ctx context.Context) error {
	conn, err := w.dialer.DialContext(ctx, "tcp4", w.addr)
	if err != nil {
		return err
	}
	defer conn.Close()

	w.connMu.Lock()
	w.conn = conn
	w.connMu.Unlock()
	w.connectedLeaf.SetBool(true)

	w.lineSource = NewLineSource(w.log, w.countingReader(conn), w.filteredTalkers, w.tree, w.Node())
	for _, h := range w.pendingHandlers {
		w.lineSource.AddHandler(h)
	}
	w.queued = NewQueuedWriter(w.log, conn, 0, w.tree, w.Node())

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	go w.queued.Run(runCtx)
	return w.lineSource.Run(runCtx)
}

// SendMessage queues p for transmission on the current connection, if any. It refuses
// immediately (returning false) when there's no active connection.
func (w *WiFiInterface) SendMessage(p []byte, blocking bool) bool {
	w.connMu.RLock()
	q := w.queued
	w.connMu.RUnlock()
	if q == nil {
		return false
	}
	return q.SendMessage(p, blocking)
}

// ExportStats implements stats.Holder.
func (w *WiFiInterface) ExportStats(elapsed time.Duration) {
	w.Base.ExportStats(elapsed)
	w.reconnects.Update(w.reconnectsLeaf, w.reconnectsRateLeaf, elapsed)
	if w.lineSource != nil {
		w.lineSource.ExportStats(elapsed)
	}
	if w.queued != nil {
		w.queued.ExportStats(elapsed)
	}
}
