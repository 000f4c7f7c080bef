// Package mqttbroker implements the embedded MQTT broker that observes the data model tree and
// forwards leaf changes to subscribed remote clients. It speaks just enough of MQTT 3.1.1 to
// drive datamodel.Tree.Subscribe/Unsubscribe from a client's SUBSCRIBE/UNSUBSCRIBE packets and
// to deliver QoS 0 "at most once" PUBLISH packets back: the full wire codec (QoS 1/2, retained
// persistence across restarts, session resumption, will messages) is out of scope, since every
// retained value already lives in the tree itself and is redelivered on every (re)subscribe.
package mqttbroker

import (
	"context"
	"net"
	"sync"
	"time"

	"github.com/LisaRowell/LunaMonESP/datamodel"
	"github.com/LisaRowell/LunaMonESP/internal/logging"
	"github.com/LisaRowell/LunaMonESP/stats"
	"golang.org/x/sync/errgroup"
)

// defaultMaxClients bounds how many simultaneous MQTT clients the broker serves when no
// explicit limit is configured; iface.NMEAServer has its own, smaller default of 5.
const defaultMaxClients = 10

// Broker accepts TCP MQTT connections and drives each client's subscriptions directly off a
// datamodel.Tree, the Go analogue of the original firmware's embedded broker task.
type Broker struct {
	log        logging.Logger
	tree       *datamodel.Tree
	listener   net.Listener
	maxClients int
	node       *datamodel.Node

	mu      sync.Mutex
	clients map[*client]struct{}

	connects, disconnects, connectFailures, protocolErrors stats.Counter
	connectsLeaf, connectsRateLeaf                         *datamodel.Leaf
	disconnectsLeaf, disconnectsRateLeaf                   *datamodel.Leaf
	connectFailuresLeaf, connectFailuresRateLeaf           *datamodel.Leaf
	protocolErrorsLeaf, protocolErrorRateLeaf               *datamodel.Leaf
	activeClientsLeaf, maxClientsLeaf                       *datamodel.Leaf
}

// NewBroker creates a Broker named "mqtt" under parent, listening on addr (e.g. ":1883").
// maxClients limits how many connections are served concurrently (defaultMaxClients if
// non-positive); a connection beyond that limit is accepted and immediately closed.
func NewBroker(log logging.Logger, tree *datamodel.Tree, addr string, maxClients int,
	parent *datamodel.Node) (*Broker, error) {
	if maxClients <= 0 {
		maxClients = defaultMaxClients
	}

	listener, err := net.Listen("tcp4", addr)
	if err != nil {
		return nil, err
	}

	node := tree.NewNode("mqtt", parent)
	b := &Broker{
		log:        log,
		tree:       tree,
		listener:   listener,
		maxClients: maxClients,
		node:       node,
		clients:    make(map[*client]struct{}),
	}
	b.connectsLeaf, b.connectsRateLeaf = countRateLeaves(tree, node, "connects")
	b.disconnectsLeaf, b.disconnectsRateLeaf = countRateLeaves(tree, node, "disconnects")
	b.connectFailuresLeaf, b.connectFailuresRateLeaf = countRateLeaves(tree, node, "connectFailures")
	b.protocolErrorsLeaf, b.protocolErrorRateLeaf = countRateLeaves(tree, node, "protocolErrors")
	b.activeClientsLeaf = tree.NewLeaf("activeClients", node, datamodel.KindUint8)
	b.maxClientsLeaf = tree.NewLeaf("maxClients", node, datamodel.KindUint8)
	b.maxClientsLeaf.SetUint(uint32(maxClients))
	b.activeClientsLeaf.SetUint(0)
	return b, nil
}

func countRateLeaves(tree *datamodel.Tree, parent *datamodel.Node, name string) (*datamodel.Leaf,
	*datamodel.Leaf) {
	count := tree.NewLeaf(name, parent, datamodel.KindUint32)
	rate := tree.NewLeaf(name+"Rate", parent, datamodel.KindUint32)
	return count, rate
}

// Run accepts connections until ctx is cancelled or the listener fails, the same
// listener-close-on-cancel plus accept-loop pair as iface.NMEAServer.Run.
func (b *Broker) Run(ctx context.Context) error {
	group, ctx := errgroup.WithContext(ctx)

	group.Go(func() error {
		<-ctx.Done()
		return b.listener.Close()
	})

	group.Go(func() error {
		for {
			conn, err := b.listener.Accept()
			if err != nil {
				if ctx.Err() != nil {
					return nil
				}
				return err
			}
			b.accept(ctx, conn)
		}
	})

	return group.Wait()
}

func (b *Broker) accept(ctx context.Context, conn net.Conn) {
	b.mu.Lock()
	if len(b.clients) >= b.maxClients {
		b.mu.Unlock()
		b.connectFailures.Increment()
		conn.Close()
		return
	}
	c := newClient(b, conn)
	b.clients[c] = struct{}{}
	b.connects.Increment()
	b.activeClientsLeaf.SetUint(uint32(len(b.clients)))
	b.mu.Unlock()

	go c.run(ctx)
}

func (b *Broker) removeClient(c *client) {
	b.mu.Lock()
	if _, ok := b.clients[c]; ok {
		delete(b.clients, c)
		b.disconnects.Increment()
		b.activeClientsLeaf.SetUint(uint32(len(b.clients)))
	}
	b.mu.Unlock()
}

// ExportStats implements stats.Holder.
func (b *Broker) ExportStats(elapsed time.Duration) {
	b.connects.Update(b.connectsLeaf, b.connectsRateLeaf, elapsed)
	b.disconnects.Update(b.disconnectsLeaf, b.disconnectsRateLeaf, elapsed)
	b.connectFailures.Update(b.connectFailuresLeaf, b.connectFailuresRateLeaf, elapsed)
	b.protocolErrors.Update(b.protocolErrorsLeaf, b.protocolErrorRateLeaf, elapsed)

	b.mu.Lock()
	clients := make([]*client, 0, len(b.clients))
	for c := range b.clients {
		clients = append(clients, c)
	}
	b.mu.Unlock()
	for _, c := range clients {
		c.queued.ExportStats(elapsed)
	}
}
