package mqttbroker

import (
	"bytes"
	"context"
	"net"
	"time"

	"github.com/eclipse/paho.mqtt.golang/packets"

	"github.com/LisaRowell/LunaMonESP/iface"
)

// connectTimeout bounds how long a newly-accepted connection has to send its CONNECT packet
// before the broker gives up on it.
const connectTimeout = 5 * time.Second

// client handles one accepted MQTT connection: it speaks just enough CONNECT/SUBSCRIBE/
// UNSUBSCRIBE/PINGREQ/DISCONNECT to drive a clientSubscriber against the broker's tree, and
// serializes every reply and every tree-originated PUBLISH through a single QueuedWriter so
// control acks and asynchronous data never interleave on the wire.
type client struct {
	broker *Broker
	conn   net.Conn
	id     string
	queued *iface.QueuedWriter
	sub    *clientSubscriber
}

func newClient(b *Broker, conn net.Conn) *client {
	c := &client{
		broker: b,
		conn:   conn,
		id:     conn.RemoteAddr().String(),
	}
	c.sub = &clientSubscriber{c: c}
	c.queued = iface.NewQueuedWriter(b.log, conn, 0, b.tree, b.node)
	return c
}

// run reads packets from the connection until it fails, ctx is cancelled, or the client
// disconnects, then tears down its subscriptions.
func (c *client) run(ctx context.Context) {
	queuedCtx, cancelQueued := context.WithCancel(ctx)
	defer cancelQueued()
	go c.queued.Run(queuedCtx)

	defer func() {
		c.broker.tree.UnsubscribeAll(c.sub)
		c.broker.removeClient(c)
		c.conn.Close()
	}()

	if !c.handleConnect() {
		return
	}

	for {
		cp, err := packets.ReadPacket(c.conn)
		if err != nil {
			return
		}

		switch p := cp.(type) {
		case *packets.SubscribePacket:
			c.handleSubscribe(p)
		case *packets.UnsubscribePacket:
			c.handleUnsubscribe(p)
		case *packets.PingreqPacket:
			c.reply(packets.NewControlPacket(packets.Pingresp))
		case *packets.DisconnectPacket:
			return
		default:
			// PUBLISH and anything else a client might send is ignored: the data model is
			// the single source of truth and isn't written to from MQTT clients.
		}
	}
}

func (c *client) handleConnect() bool {
	c.conn.SetReadDeadline(time.Now().Add(connectTimeout))
	cp, err := packets.ReadPacket(c.conn)
	c.conn.SetReadDeadline(time.Time{})
	if err != nil {
		c.broker.connectFailures.Increment()
		return false
	}

	connect, ok := cp.(*packets.ConnectPacket)
	if !ok {
		c.broker.protocolErrors.Increment()
		c.broker.log.Warnf("%s: expected CONNECT, got %T", c.id, cp)
		return false
	}

	if connect.ClientIdentifier != "" {
		c.id = connect.ClientIdentifier
	}

	connack := packets.NewControlPacket(packets.Connack).(*packets.ConnackPacket)
	connack.ReturnCode = packets.Accepted
	c.reply(connack)
	return true
}

func (c *client) handleSubscribe(p *packets.SubscribePacket) {
	grantedQoss := make([]byte, len(p.Topics))
	for i := range p.Topics {
		grantedQoss[i] = 0 // always QoS 0, matching the "at most once" delivery this broker offers
	}

	suback := packets.NewControlPacket(packets.Suback).(*packets.SubackPacket)
	suback.MessageID = p.MessageID
	suback.ReturnCodes = grantedQoss
	c.reply(suback)

	// Subscribing only after the SUBACK is queued puts the retained values Tree.Subscribe
	// delivers behind it on the wire.
	for _, topic := range p.Topics {
		matched := c.broker.tree.Subscribe(topic, c.sub, uint32(p.MessageID))
		if matched == 0 {
			c.broker.log.Debugf("%s: subscribed %q (no current matches)", c.id, topic)
		}
	}
}

func (c *client) handleUnsubscribe(p *packets.UnsubscribePacket) {
	for _, topic := range p.Topics {
		c.broker.tree.Unsubscribe(topic, c.sub)
	}

	unsuback := packets.NewControlPacket(packets.Unsuback).(*packets.UnsubackPacket)
	unsuback.MessageID = p.MessageID
	c.reply(unsuback)
}

// reply encodes a control packet and queues it, blocking if necessary: losing a CONNACK/SUBACK/
// UNSUBACK/PINGRESP would desynchronize the client, unlike a dropped data PUBLISH.
func (c *client) reply(cp packets.ControlPacket) {
	var buf bytes.Buffer
	if err := cp.Write(&buf); err != nil {
		c.broker.log.Warnf("%s: failed to encode %T: %s", c.id, cp, err)
		return
	}
	c.queued.SendMessage(buf.Bytes(), true)
}
