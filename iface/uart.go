package iface

import (
	"context"
	"io"
	"time"

	"github.com/LisaRowell/LunaMonESP/datamodel"
	"github.com/LisaRowell/LunaMonESP/internal/logging"
	"github.com/LisaRowell/LunaMonESP/nmea0183"
)

// uartBufferAlignment is the hardware requirement that UART DMA buffer sizes be a multiple of
// four bytes.
const uartBufferAlignment = 4

// roundUpToUARTBuffer rounds n up to the next multiple of uartBufferAlignment.
func roundUpToUARTBuffer(n int) int {
	if rem := n % uartBufferAlignment; rem != 0 {
		n += uartBufferAlignment - rem
	}
	return n
}

// UARTInterface carries NMEA 0183 over a conventional 8-bit hardware UART: blocking writes,
// polled reads. It expects conn to already be open and configured (baud, parity, stop bits) by
// the caller — typically a *serial.Port from github.com/tarm/serial — so this type stays
// transport-agnostic and is just as usable against a file or a loopback pipe in tests.
type UARTInterface struct {
	*Base
	conn       io.ReadWriteCloser
	lineSource *LineSource
	queued     *QueuedWriter
}

// NewUARTInterface creates a UARTInterface named name, reading and writing through conn.
// sendQueueDepth is rounded up to uartBufferAlignment, matching the hardware's DMA buffer
// sizing requirement, before it's used to size the send queue.
func NewUARTInterface(log logging.Logger, name string, conn io.ReadWriteCloser, sendQueueDepth int,
	filteredTalkers []nmea0183.Talker, tree *datamodel.Tree, parent *datamodel.Node) *UARTInterface {
	base := NewBase(log, name, ProtocolNMEA, ModeRXTX, tree, parent)
	u := &UARTInterface{Base: base, conn: conn}
	u.lineSource = NewLineSource(log, base.countingReader(conn), filteredTalkers, tree, base.Node())
	u.queued = NewQueuedWriter(log, conn, roundUpToUARTBuffer(sendQueueDepth), tree, base.Node())
	return u
}

// AddHandler registers a LineHandler to receive every line this interface decodes.
func (u *UARTInterface) AddHandler(h LineHandler) {
	u.lineSource.AddHandler(h)
}

// LineSource returns the interface's underlying LineSource, so a Bridge can be built from it.
func (u *UARTInterface) LineSource() *LineSource {
	return u.lineSource
}

// Run reads lines until ctx is cancelled or the port fails, while concurrently draining queued
// non-blocking sends. It returns when either stops.
func (u *UARTInterface) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		u.queued.Run(ctx)
	}()
	go func() {
		done <- u.lineSource.Run(ctx)
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-done:
		return err
	}
}

// SendMessage queues p for transmission, refusing immediately when the queue is full and
// blocking is false.
func (u *UARTInterface) SendMessage(p []byte, blocking bool) bool {
	return u.queued.SendMessage(p, blocking)
}

// Send writes p directly, bypassing the queue, serialized by the interface's write lock.
func (u *UARTInterface) Send(p []byte) (int, error) {
	return u.Base.Send(u.conn, p)
}

// ExportStats implements stats.Holder.
func (u *UARTInterface) ExportStats(elapsed time.Duration) {
	u.Base.ExportStats(elapsed)
	u.lineSource.ExportStats(elapsed)
	u.queued.ExportStats(elapsed)
}
