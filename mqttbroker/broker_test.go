package mqttbroker

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/eclipse/paho.mqtt.golang/packets"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LisaRowell/LunaMonESP/datamodel"
	"github.com/LisaRowell/LunaMonESP/fixedpoint"
	"github.com/LisaRowell/LunaMonESP/internal/logging"
)

func startTestBroker(t *testing.T) (*Broker, *datamodel.Tree, func()) {
	t.Helper()
	tree := datamodel.NewTree()
	b, err := NewBroker(logging.Discard, tree, "127.0.0.1:0", 0, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		b.Run(ctx)
		close(done)
	}()

	cleanup := func() {
		cancel()
		<-done
	}
	return b, tree, cleanup
}

func connectClient(t *testing.T, addr, clientID string) net.Conn {
	t.Helper()
	conn, err := net.DialTimeout("tcp", addr, time.Second)
	require.NoError(t, err)

	connect := packets.NewControlPacket(packets.Connect).(*packets.ConnectPacket)
	connect.ProtocolName = "MQTT"
	connect.ProtocolVersion = 4
	connect.ClientIdentifier = clientID
	connect.CleanSession = true
	require.NoError(t, connect.Write(conn))

	ack, err := packets.ReadPacket(conn)
	require.NoError(t, err)
	connack, ok := ack.(*packets.ConnackPacket)
	require.True(t, ok)
	require.Equal(t, byte(packets.Accepted), connack.ReturnCode)
	return conn
}

func subscribe(t *testing.T, conn net.Conn, messageID uint16, topic string) *packets.SubackPacket {
	t.Helper()
	sub := packets.NewControlPacket(packets.Subscribe).(*packets.SubscribePacket)
	sub.MessageID = messageID
	sub.Topics = []string{topic}
	sub.Qoss = []byte{0}
	require.NoError(t, sub.Write(conn))

	ack, err := packets.ReadPacket(conn)
	require.NoError(t, err)
	suback, ok := ack.(*packets.SubackPacket)
	require.True(t, ok)
	return suback
}

func TestBrokerConnectGetsConnack(t *testing.T) {
	b, _, cleanup := startTestBroker(t)
	defer cleanup()
	connectClient(t, b.listener.Addr().String(), "connect-only").Close()
}

func TestBrokerSubscribeReceivesRetainedValue(t *testing.T) {
	b, tree, cleanup := startTestBroker(t)
	defer cleanup()

	leaf := tree.NewLeaf("depth", nil, datamodel.KindTenths16)
	tenths, err := fixedpoint.ParseTenths("12.3")
	require.NoError(t, err)
	leaf.SetTenths(tenths)

	conn := connectClient(t, b.listener.Addr().String(), "subscriber")
	defer conn.Close()

	suback := subscribe(t, conn, 1, "depth")
	assert.Equal(t, []byte{0}, suback.ReturnCodes)

	published, err := packets.ReadPacket(conn)
	require.NoError(t, err)
	pub, ok := published.(*packets.PublishPacket)
	require.True(t, ok)
	assert.Equal(t, "depth", pub.TopicName)
	assert.Equal(t, "12.3", string(pub.Payload))
	assert.True(t, pub.Retain)
}

func TestBrokerDeliversLiveUpdateAfterSubscribe(t *testing.T) {
	b, tree, cleanup := startTestBroker(t)
	defer cleanup()

	leaf := tree.NewLeaf("wind", nil, datamodel.KindTenths16)

	conn := connectClient(t, b.listener.Addr().String(), "subscriber")
	defer conn.Close()
	subscribe(t, conn, 1, "wind")

	tenths, err := fixedpoint.ParseTenths("4.5")
	require.NoError(t, err)
	leaf.SetTenths(tenths)

	published, err := packets.ReadPacket(conn)
	require.NoError(t, err)
	pub, ok := published.(*packets.PublishPacket)
	require.True(t, ok)
	assert.Equal(t, "wind", pub.TopicName)
	assert.Equal(t, "4.5", string(pub.Payload))
	assert.False(t, pub.Retain)
}

func TestBrokerUnsubscribeStopsDelivery(t *testing.T) {
	b, tree, cleanup := startTestBroker(t)
	defer cleanup()

	leaf := tree.NewLeaf("heading", nil, datamodel.KindTenths16)

	conn := connectClient(t, b.listener.Addr().String(), "subscriber")
	defer conn.Close()
	subscribe(t, conn, 1, "heading")

	unsub := packets.NewControlPacket(packets.Unsubscribe).(*packets.UnsubscribePacket)
	unsub.MessageID = 2
	unsub.Topics = []string{"heading"}
	require.NoError(t, unsub.Write(conn))

	ack, err := packets.ReadPacket(conn)
	require.NoError(t, err)
	_, ok := ack.(*packets.UnsubackPacket)
	require.True(t, ok)

	tenths, err := fixedpoint.ParseTenths("1.0")
	require.NoError(t, err)
	leaf.SetTenths(tenths)

	conn.SetReadDeadline(time.Now().Add(100 * time.Millisecond))
	_, err = packets.ReadPacket(conn)
	assert.Error(t, err, "expected no PUBLISH after unsubscribe")
}

func TestBrokerPingreqGetsPingresp(t *testing.T) {
	b, _, cleanup := startTestBroker(t)
	defer cleanup()

	conn := connectClient(t, b.listener.Addr().String(), "pinger")
	defer conn.Close()

	require.NoError(t, packets.NewControlPacket(packets.Pingreq).Write(conn))
	resp, err := packets.ReadPacket(conn)
	require.NoError(t, err)
	_, ok := resp.(*packets.PingrespPacket)
	assert.True(t, ok)
}

func TestBrokerEnforcesMaxClients(t *testing.T) {
	tree := datamodel.NewTree()
	b, err := NewBroker(logging.Discard, tree, "127.0.0.1:0", 1, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan struct{})
	go func() {
		b.Run(ctx)
		close(done)
	}()
	defer func() { cancel(); <-done }()

	first := connectClient(t, b.listener.Addr().String(), "first")
	defer first.Close()

	second, err := net.DialTimeout("tcp", b.listener.Addr().String(), time.Second)
	require.NoError(t, err)
	defer second.Close()

	second.SetReadDeadline(time.Now().Add(time.Second))
	buf := make([]byte, 1)
	_, err = second.Read(buf)
	assert.Error(t, err, "expected connection beyond maxClients to be closed")
}
