package iface

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/LisaRowell/LunaMonESP/datamodel"
	"github.com/LisaRowell/LunaMonESP/fixedpoint"
	"github.com/LisaRowell/LunaMonESP/internal/logging"
	"github.com/LisaRowell/LunaMonESP/nmea0183"
	"github.com/LisaRowell/LunaMonESP/seatalk"
	"github.com/LisaRowell/LunaMonESP/stats"
)

// SeaTalkNMEABridge synthesizes NMEA 0183 sentences from SeaTalk-derived instrument readings and
// forwards them to an NMEA destination. Rather than hooking seatalk.Parser directly (as the
// original firmware's bridge does by calling straight into its own parser), it subscribes to the
// specific InstrumentData leaves it cares about the same way any other data model consumer
// would, and reconstructs the numeric value from each leaf's published string payload.
type SeaTalkNMEABridge struct {
	log        logging.Logger
	name       string
	talkerCode string
	dest       MessageSender

	pendingAngle, pendingSpeed *fixedpoint.Tenths

	bridged, parseErrors stats.Counter
	bridgedLeaf, bridgedRateLeaf         *datamodel.Leaf
	parseErrorsLeaf, parseErrorsRateLeaf *datamodel.Leaf
}

// NewSeaTalkNMEABridge creates a SeaTalkNMEABridge named name that synthesizes sentences tagged
// with talkerCode (e.g. "II" for "integrated instrumentation") and subscribes to data's leaves,
// forwarding synthesized sentences to dest.
func NewSeaTalkNMEABridge(log logging.Logger, name string, talkerCode string, data *seatalk.InstrumentData,
	dest MessageSender, tree *datamodel.Tree, parent *datamodel.Node) *SeaTalkNMEABridge {
	node := tree.NewNode(name, parent)
	b := &SeaTalkNMEABridge{log: log, name: name, talkerCode: talkerCode, dest: dest}
	b.bridgedLeaf, b.bridgedRateLeaf = countRateLeaves(tree, node, "bridgedMessages")
	b.parseErrorsLeaf, b.parseErrorsRateLeaf = countRateLeaves(tree, node, "parseErrors")

	tree.Subscribe(data.Depth.Meters.Topic(), b, 0)
	tree.Subscribe(data.Wind.ApparentAngle.Topic(), b, 0)
	tree.Subscribe(data.Wind.ApparentSpeedKnots.Topic(), b, 0)
	tree.Subscribe(data.AutoPilot.Heading.Topic(), b, 0)
	tree.Subscribe(data.AutoPilot.RudderPosition.Topic(), b, 0)

	return b
}

// Name implements datamodel.Subscriber.
func (b *SeaTalkNMEABridge) Name() string {
	return b.name
}

// Publish implements datamodel.Subscriber. It must not block: it's called with the tree's
// subscription lock held, so synthesizing and forwarding a sentence happens inline and any
// destination backpressure is absorbed by dest's own non-blocking SendMessage.
func (b *SeaTalkNMEABridge) Publish(topic string, payload string, _ bool) {
	topic = "/" + topic // so the suffixes below also match InstrumentData at the tree root
	switch {
	case strings.HasSuffix(topic, "/depth/meters"):
		b.bridgeDBT(payload)
	case strings.HasSuffix(topic, "/wind/apparentAngle"):
		b.bridgeMWV(payload, true)
	case strings.HasSuffix(topic, "/wind/apparentSpeedKnots"):
		b.bridgeMWV(payload, false)
	case strings.HasSuffix(topic, "/autoPilot/heading"):
		b.bridgeHDM(payload)
	case strings.HasSuffix(topic, "/autoPilot/rudderPosition"):
		b.bridgeRSA(payload)
	}
}

func (b *SeaTalkNMEABridge) bridgeDBT(payload string) {
	depthMeters, err := fixedpoint.ParseTenths(payload)
	if err != nil {
		b.noteParseError(payload, err)
		return
	}
	depthFeet := fixedpoint.MetersToFeet(depthMeters)
	b.send(fmt.Sprintf("%sDBT,%s,f,%s,M,,", b.talkerCode, depthFeet.String(), depthMeters.String()))
}

func (b *SeaTalkNMEABridge) bridgeHDM(payload string) {
	heading, err := fixedpoint.ParseTenths(payload)
	if err != nil {
		b.noteParseError(payload, err)
		return
	}
	b.send(fmt.Sprintf("%sHDM,%s,M", b.talkerCode, heading.String()))
}

// bridgeMWV holds the most recently bridged apparent angle/speed and only emits an MWV sentence
// once both halves of the pair have been seen, the same way the original firmware's bridge waits
// for a matching angle/speed pair before emitting a combined sentence.
func (b *SeaTalkNMEABridge) bridgeMWV(payload string, isAngle bool) {
	value, err := fixedpoint.ParseTenths(payload)
	if err != nil {
		b.noteParseError(payload, err)
		return
	}

	if isAngle {
		b.pendingAngle = &value
	} else {
		b.pendingSpeed = &value
	}
	if b.pendingAngle == nil || b.pendingSpeed == nil {
		return
	}

	b.send(fmt.Sprintf("%sMWV,%s,R,%s,N,A", b.talkerCode, b.pendingAngle.String(), b.pendingSpeed.String()))
	b.pendingAngle = nil
	b.pendingSpeed = nil
}

func (b *SeaTalkNMEABridge) bridgeRSA(payload string) {
	rudder, err := strconv.ParseInt(payload, 10, 16)
	if err != nil {
		b.noteParseError(payload, err)
		return
	}
	b.send(fmt.Sprintf("%sRSA,%d,A,,V", b.talkerCode, rudder))
}

func (b *SeaTalkNMEABridge) send(body string) {
	wire := nmea0183.AppendChecksum([]byte(body))
	out := make([]byte, 0, len(wire)+3)
	out = append(out, '$')
	out = append(out, wire...)
	out = append(out, '\r', '\n')

	if b.dest.SendMessage(out, false) {
		b.bridged.Increment()
	}
}

func (b *SeaTalkNMEABridge) noteParseError(payload string, err error) {
	b.parseErrors.Increment()
	b.log.Warnf("%s: could not parse leaf payload %q: %s", b.name, payload, err)
}

// ExportStats implements stats.Holder.
func (b *SeaTalkNMEABridge) ExportStats(elapsed time.Duration) {
	b.bridged.Update(b.bridgedLeaf, b.bridgedRateLeaf, elapsed)
	b.parseErrors.Update(b.parseErrorsLeaf, b.parseErrorsRateLeaf, elapsed)
}
