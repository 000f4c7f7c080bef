package mqttbroker

import (
	"bytes"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/eclipse/paho.mqtt.golang/packets"
)

// publishRecord is a datamodel leaf value on its way to an MQTT client, shaped as a
// mqtt.Message so the same record type that a remote client-side subscriber would receive
// describes what the broker is about to put on the wire. QoS is always 0 ("at most once") and
// MessageID is always 0 to match, since QoS 1/2 delivery tracking is out of scope.
type publishRecord struct {
	topic    string
	payload  []byte
	retained bool
}

var _ mqtt.Message = (*publishRecord)(nil)

func (r *publishRecord) Duplicate() bool    { return false }
func (r *publishRecord) Qos() byte          { return 0 }
func (r *publishRecord) Retained() bool     { return r.retained }
func (r *publishRecord) Topic() string      { return r.topic }
func (r *publishRecord) MessageID() uint16  { return 0 }
func (r *publishRecord) Payload() []byte    { return r.payload }
func (r *publishRecord) Ack()               {}

// clientSubscriber adapts a client connection to datamodel.Subscriber, so Tree.Subscribe can
// drive it directly. Publish is called with the tree's subscription lock held and must never
// block, which is exactly what client.queued.SendMessage(_, false) guarantees.
type clientSubscriber struct {
	c *client
}

// Name implements datamodel.Subscriber, identifying the subscriber in logs.
func (s *clientSubscriber) Name() string {
	return s.c.id
}

// Publish implements datamodel.Subscriber: it builds the record the leaf's change represents,
// encodes it as an MQTT PUBLISH packet, and queues it non-blockingly for the client connection.
func (s *clientSubscriber) Publish(topic string, payload string, retained bool) {
	record := &publishRecord{topic: topic, payload: []byte(payload), retained: retained}

	pkt := packets.NewControlPacket(packets.Publish).(*packets.PublishPacket)
	pkt.Qos = record.Qos()
	pkt.Retain = record.Retained()
	pkt.TopicName = record.Topic()
	pkt.Payload = record.Payload()

	var buf bytes.Buffer
	if err := pkt.Write(&buf); err != nil {
		s.c.broker.log.Warnf("%s: failed to encode PUBLISH for %s: %s", s.c.id, topic, err)
		return
	}
	s.c.queued.SendMessage(buf.Bytes(), false)
}
