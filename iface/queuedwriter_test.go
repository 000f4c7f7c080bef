package iface

import (
	"bytes"
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LisaRowell/LunaMonESP/datamodel"
	"github.com/LisaRowell/LunaMonESP/internal/logging"
)

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (s *syncBuffer) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.Write(p)
}

func (s *syncBuffer) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.String()
}

func TestQueuedWriterDeliversInOrder(t *testing.T) {
	dest := &syncBuffer{}
	tree := datamodel.NewTree()
	node := tree.NewNode("writer", nil)
	q := NewQueuedWriter(logging.Discard, dest, 4, tree, node)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go q.Run(ctx)

	require.True(t, q.SendMessage([]byte("one "), false))
	require.True(t, q.SendMessage([]byte("two "), false))

	require.Eventually(t, func() bool {
		return dest.String() == "one two "
	}, time.Second, time.Millisecond)
}

func TestQueuedWriterDropsWhenFullAndNonBlocking(t *testing.T) {
	blocked := make(chan struct{})
	dest := blockingWriter{release: blocked}
	q := NewQueuedWriter(logging.Discard, dest, 1, nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go q.Run(ctx)

	require.True(t, q.SendMessage([]byte("a"), false))
	// The first message is likely already picked up by Run; fill the queue until full.
	filled := false
	for i := 0; i < 100; i++ {
		if !q.SendMessage([]byte("b"), false) {
			filled = true
			break
		}
	}
	assert.True(t, filled, "expected SendMessage to eventually refuse once the queue is full")

	close(blocked)
}

type blockingWriter struct {
	release chan struct{}
}

func (b blockingWriter) Write(p []byte) (int, error) {
	<-b.release
	return len(p), nil
}
