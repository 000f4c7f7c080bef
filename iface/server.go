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
	"golang.org/x/sync/errgroup"
)

// defaultMaxClients is how many simultaneous NMEA server clients are served when no explicit
// limit is configured.
const defaultMaxClients = 5

// NMEAServer accepts TCP (IPv4 only) connections and broadcasts every line it's handed via
// HandleLine to each connected client over its own non-blocking send queue, so one slow client
// can never hold up another or the line source feeding the server.
type NMEAServer struct {
	*Base
	listener   net.Listener
	maxClients int
	tree       *datamodel.Tree

	mu      sync.Mutex
	clients map[*serverClient]struct{}

	connects, disconnects, connectFailures stats.Counter
	connectsLeaf, connectsRateLeaf         *datamodel.Leaf
	disconnectsLeaf, disconnectsRateLeaf   *datamodel.Leaf
	connectFailuresLeaf, connectFailuresRateLeaf *datamodel.Leaf
	activeClientsLeaf, maxClientsLeaf       *datamodel.Leaf
}

type serverClient struct {
	conn   net.Conn
	queued *QueuedWriter
}

// NewNMEAServer creates an NMEAServer named name, listening on addr (e.g. ":10110"). maxClients
// limits how many connections are served concurrently (defaultMaxClients if non-positive); any
// connection beyond that limit is accepted and immediately closed, counted as a connect failure.
func NewNMEAServer(log logging.Logger, name string, addr string, maxClients int,
	tree *datamodel.Tree, parent *datamodel.Node) (*NMEAServer, error) {
	if maxClients <= 0 {
		maxClients = defaultMaxClients
	}

	listener, err := net.Listen("tcp4", addr)
	if err != nil {
		return nil, err
	}

	base := NewBase(log, name, ProtocolNMEA, ModeTX, tree, parent)
	s := &NMEAServer{
		Base:       base,
		listener:   listener,
		maxClients: maxClients,
		tree:       tree,
		clients:    make(map[*serverClient]struct{}),
	}
	s.connectsLeaf, s.connectsRateLeaf = countRateLeaves(tree, base.Node(), "connects")
	s.disconnectsLeaf, s.disconnectsRateLeaf = countRateLeaves(tree, base.Node(), "disconnects")
	s.connectFailuresLeaf, s.connectFailuresRateLeaf = countRateLeaves(tree, base.Node(), "connectFailures")
	s.activeClientsLeaf = tree.NewLeaf("activeClients", base.Node(), datamodel.KindUint8)
	s.maxClientsLeaf = tree.NewLeaf("maxClients", base.Node(), datamodel.KindUint8)
	s.maxClientsLeaf.SetUint(uint32(maxClients))
	s.activeClientsLeaf.SetUint(0)
	return s, nil
}

// Run accepts connections until ctx is cancelled or the listener fails.
func (s *NMEAServer) Run(ctx context.Context) error {
	group, ctx := errgroup.WithContext(ctx)

	group.Go(func() error {
		<-ctx.Done()
		return s.listener.Close()
	})

	group.Go(func() error {
		for {
			conn, err := s.listener.Accept()
			if err != nil {
				if ctx.Err() != nil {
					return nil
				}
				return err
			}
			s.accept(ctx, conn)
		}
	})

	return group.Wait()
}

func (s *NMEAServer) accept(ctx context.Context, conn net.Conn) {
	s.mu.Lock()
	if len(s.clients) >= s.maxClients {
		s.mu.Unlock()
		s.connectFailures.Increment()
		conn.Close()
		return
	}

	client := &serverClient{
		conn:   conn,
		queued: NewQueuedWriter(s.log, conn, 0, s.tree, s.Node()),
	}
	s.clients[client] = struct{}{}
	s.connects.Increment()
	s.activeClientsLeaf.SetUint(uint32(len(s.clients)))
	s.mu.Unlock()

	go client.queued.Run(ctx)
	go s.drainUntilClosed(client)
}

// drainUntilClosed discards anything a client sends (the server is receive-only from the
// client's point of view) and removes the client once its connection fails.
func (s *NMEAServer) drainUntilClosed(client *serverClient) {
	buf := make([]byte, 256)
	for {
		if _, err := client.conn.Read(buf); err != nil {
			break
		}
	}
	s.removeClient(client)
}

func (s *NMEAServer) removeClient(client *serverClient) {
	s.mu.Lock()
	if _, ok := s.clients[client]; ok {
		delete(s.clients, client)
		s.disconnects.Increment()
		s.activeClientsLeaf.SetUint(uint32(len(s.clients)))
	}
	s.mu.Unlock()
	client.conn.Close()
}

// HandleLine implements LineHandler: raw is broadcast to every connected client's non-blocking
// send queue.
func (s *NMEAServer) HandleLine(_ *nmea0183.Sentence, raw []byte) {
	s.SendMessage(raw, false)
}

// SendMessage implements MessageSender, broadcasting p to every connected client's non-blocking
// send queue. This is what lets a Bridge target the server directly as a forwarding destination,
// alongside LineSource wiring it as a LineHandler for unfiltered broadcast.
func (s *NMEAServer) SendMessage(p []byte, _ bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for client := range s.clients {
		client.queued.SendMessage(p, false)
	}
	return true
}

// ExportStats implements stats.Holder.
func (s *NMEAServer) ExportStats(elapsed time.Duration) {
	s.Base.ExportStats(elapsed)
	s.connects.Update(s.connectsLeaf, s.connectsRateLeaf, elapsed)
	s.disconnects.Update(s.disconnectsLeaf, s.disconnectsRateLeaf, elapsed)
	s.connectFailures.Update(s.connectFailuresLeaf, s.connectFailuresRateLeaf, elapsed)

	s.mu.Lock()
	clients := make([]*serverClient, 0, len(s.clients))
	for c := range s.clients {
		clients = append(clients, c)
	}
	s.mu.Unlock()
	for _, c := range clients {
		c.queued.ExportStats(elapsed)
	}
}
