// Command lunamon is the LunaMon process: it loads a YAML configuration, builds a data model
// tree, constructs every configured interface, bridge, the embedded MQTT broker and the NMEA
// broadcast server, and runs them until terminated.
package main

import (
	"context"
	"flag"
	"fmt"
	"net"
	"os/signal"
	"syscall"
	"time"

	"github.com/tarm/serial"
	"golang.org/x/sync/errgroup"

	"github.com/LisaRowell/LunaMonESP/ais"
	"github.com/LisaRowell/LunaMonESP/config"
	"github.com/LisaRowell/LunaMonESP/datamodel"
	"github.com/LisaRowell/LunaMonESP/iface"
	"github.com/LisaRowell/LunaMonESP/internal/fatal"
	"github.com/LisaRowell/LunaMonESP/internal/logging"
	"github.com/LisaRowell/LunaMonESP/mqttbroker"
	"github.com/LisaRowell/LunaMonESP/nmea0183"
	"github.com/LisaRowell/LunaMonESP/seatalk"
	"github.com/LisaRowell/LunaMonESP/stats"
)

func main() {
	configPath := flag.String("config", "lunamon.yaml", "path to the YAML configuration file")
	statsInterval := flag.Duration("stats-interval", stats.DefaultInterval,
		"how often to harvest and publish stats counters")
	flag.Parse()

	log := logging.New("lunamon")

	system, err := config.Load(*configPath)
	if err != nil {
		fatal.Exitf(log, "loading configuration: %s", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, log, system, *statsInterval); err != nil {
		log.Errorf("exiting: %s", err)
	}
}

// run assembles every component described by system and runs them until ctx is cancelled or one
// of them fails.
func run(ctx context.Context, log logging.Logger, system *config.System, statsInterval time.Duration) error {
	tree := datamodel.NewTree()
	statsManager := stats.NewManager(logging.Tagged(log, "stats"), statsInterval)

	contacts := ais.NewContactTable(logging.Tagged(log, "ais"))
	nmeaData := nmea0183.NewInstrumentData(tree, tree.Root())
	seatalkData := seatalk.NewInstrumentData(tree, tree.Root())

	group, ctx := errgroup.WithContext(ctx)

	destinations := make(map[string]iface.MessageSender)
	runners := make(map[string]func(context.Context) error)

	if system.NMEAServer.Port != 0 {
		server, err := iface.NewNMEAServer(logging.Tagged(log, "nmeaServer"), "nmeaServer",
			fmt.Sprintf(":%d", system.NMEAServer.Port), system.NMEAServer.MaxClients, tree, tree.Root())
		if err != nil {
			return fmt.Errorf("starting NMEA server: %w", err)
		}
		statsManager.AddHolder(server)
		destinations["nmeaServer"] = server
		runners["nmeaServer"] = server.Run
	}

	if system.MQTTBroker.Port != 0 {
		broker, err := mqttbroker.NewBroker(logging.Tagged(log, "mqtt"), tree,
			fmt.Sprintf(":%d", system.MQTTBroker.Port), system.MQTTBroker.MaxClients, tree.Root())
		if err != nil {
			return fmt.Errorf("starting MQTT broker: %w", err)
		}
		statsManager.AddHolder(broker)
		runners["mqttBroker"] = broker.Run
	}

	lineSources := make(map[string]*iface.LineSource)
	for _, ic := range system.Interfaces {
		built, err := buildInterface(log, ic, system, tree, contacts, nmeaData, seatalkData)
		if err != nil {
			return fmt.Errorf("interface %q: %w", ic.Name, err)
		}
		statsManager.AddHolder(built.holder)
		runners[ic.Name] = built.run
		if built.dest != nil {
			destinations[ic.Name] = built.dest
		}
		if built.source != nil {
			lineSources[ic.Name] = built.source
		}
	}

	for _, ic := range system.Interfaces {
		for _, bc := range ic.Bridges {
			dest, ok := destinations[bc.To]
			if !ok {
				return fmt.Errorf("interface %q: bridge target %q not found", ic.Name, bc.To)
			}

			switch ic.Protocol {
			case "SeaTalk", "STALK":
				bridge := iface.NewSeaTalkNMEABridge(logging.Tagged(log, ic.Name+"Bridge"),
					ic.Name+"Bridge", system.SeaTalk.TalkerID, seatalkData, dest, tree, tree.Root())
				statsManager.AddHolder(bridge)
			default:
				source, ok := lineSources[ic.Name]
				if !ok {
					return fmt.Errorf("interface %q: no line source to bridge from", ic.Name)
				}
				bridge := iface.NewBridge(logging.Tagged(log, ic.Name+"Bridge"), ic.Name+"Bridge",
					source, dest, bc.Types, tree, tree.Root())
				statsManager.AddHolder(bridge)
			}
		}
	}

	if system.AIS.DumpPeriod.Duration() > 0 {
		runners["aisContactDump"] = func(ctx context.Context) error {
			return dumpContacts(ctx, logging.Tagged(log, "ais"), contacts, system.AIS.DumpPeriod.Duration())
		}
	}

	for name, fn := range runners {
		name, fn := name, fn
		group.Go(func() error {
			log.Debugf("starting %s", name)
			return fn(ctx)
		})
	}

	group.Go(func() error {
		statsManager.Run(ctx)
		return nil
	})

	log.Infof("running with %d interface(s)", len(system.Interfaces))
	return group.Wait()
}

// builtInterface is the uniform shape buildInterface returns for every link type: something to
// run, something to register for stats, and optionally a line source to bridge from and/or a
// destination other interfaces can bridge to.
type builtInterface struct {
	run    func(context.Context) error
	holder stats.Holder
	source *iface.LineSource
	dest   iface.MessageSender
}

func buildInterface(log logging.Logger, ic config.InterfaceConfig, system *config.System,
	tree *datamodel.Tree, contacts *ais.ContactTable, nmeaData *nmea0183.InstrumentData,
	seatalkData *seatalk.InstrumentData) (*builtInterface, error) {
	ilog := logging.Tagged(log, ic.Name)
	talkers, err := parseTalkers(ic.FilteredTalkers)
	if err != nil {
		return nil, err
	}

	switch {
	case ic.Protocol == "NMEA" && ic.Link == "uart":
		conn, err := openSerial(ic)
		if err != nil {
			return nil, err
		}
		u := iface.NewUARTInterface(ilog, ic.Name, conn, 0, talkers, tree, tree.Root())
		wireNMEAHandlers(ilog, ic, u, tree, contacts, nmeaData)
		return &builtInterface{run: u.Run, holder: u, source: u.LineSource(), dest: u}, nil

	case ic.Protocol == "NMEA" && ic.Link == "wifi":
		w := iface.NewWiFiInterface(ilog, ic.Name, ic.Address, talkers, tree, tree.Root())
		wireNMEAHandlers(ilog, ic, w, tree, contacts, nmeaData)
		return &builtInterface{run: w.Run, holder: w, dest: w}, nil

	case ic.Protocol == "SeaTalk" && ic.Link == "softUART":
		source, sink, err := newPulsePeripheral(ilog, ic.GPIOPin)
		if err != nil {
			return nil, fmt.Errorf("gpio pin %d: %w", ic.GPIOPin, err)
		}
		s := iface.NewSoftUARTInterface(ilog, ic.Name, source, sink, 0, seatalkData, tree, tree.Root())
		return &builtInterface{run: s.Run, holder: s}, nil

	case ic.Protocol == "STALK" && ic.Link == "uart":
		conn, err := openSerial(ic)
		if err != nil {
			return nil, err
		}
		s := iface.NewSTALKInterface(ilog, ic.Name, conn, system.DigitalYachtsWorkaround.Enabled,
			time.Now(), seatalkData, tree, tree.Root())
		return &builtInterface{run: s.Run, holder: s}, nil

	case ic.Protocol == "STALK" && ic.Link == "wifi":
		return &builtInterface{
			run: func(ctx context.Context) error {
				return runSTALKOverWiFi(ctx, ilog, ic, system, seatalkData, tree)
			},
			holder: noopHolder{},
		}, nil

	default:
		return nil, fmt.Errorf("unsupported protocol/link combination %q/%q", ic.Protocol, ic.Link)
	}
}

// openSerial opens the serial device ic.Device names at ic.Baud, configured the way every
// UART-backed interface expects its hardware link to behave.
func openSerial(ic config.InterfaceConfig) (*serial.Port, error) {
	conn, err := serial.OpenPort(&serial.Config{
		Name:        ic.Device,
		Baud:        ic.Baud,
		ReadTimeout: 100 * time.Millisecond,
	})
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", ic.Device, err)
	}
	return conn, nil
}

// stalkReconnectDelay is how long runSTALKOverWiFi waits after a dial or read failure before
// retrying, mirroring WiFiInterface's own reconnect delay.
const stalkReconnectDelay = time.Second

// runSTALKOverWiFi dials ic.Address and serves a STALKInterface over the connection until ctx is
// cancelled, redialing after stalkReconnectDelay on any failure the same way WiFiInterface does
// for plain NMEA traffic.
func runSTALKOverWiFi(ctx context.Context, log logging.Logger, ic config.InterfaceConfig,
	system *config.System, seatalkData *seatalk.InstrumentData, tree *datamodel.Tree) error {
	var dialer net.Dialer
	for {
		conn, err := dialer.DialContext(ctx, "tcp4", ic.Address)
		if err != nil {
			log.Warnf("%s: dial failed: %s", ic.Name, err)
		} else {
			s := iface.NewSTALKInterface(log, ic.Name, conn, system.DigitalYachtsWorkaround.Enabled,
				time.Now(), seatalkData, tree, tree.Root())
			err = s.Run(ctx)
			conn.Close()
			if ctx.Err() != nil {
				return ctx.Err()
			}
			log.Warnf("%s: connection lost: %s", ic.Name, err)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(stalkReconnectDelay):
		}
	}
}

// noopHolder satisfies stats.Holder for components whose stats are exported elsewhere (or not
// at all), so every entry in the stats manager's holder list can be treated uniformly.
type noopHolder struct{}

func (noopHolder) ExportStats(time.Duration) {}

// nmeaHandlerAdder is implemented by every NMEA-protocol interface that decodes lines and can be
// handed an additional LineHandler.
type nmeaHandlerAdder interface {
	AddHandler(h iface.LineHandler)
}

func wireNMEAHandlers(log logging.Logger, ic config.InterfaceConfig, i nmeaHandlerAdder, tree *datamodel.Tree,
	contacts *ais.ContactTable, nmeaData *nmea0183.InstrumentData) {
	if ic.Protocol != "NMEA" {
		return
	}
	publisher := iface.NewNMEAPublisher(logging.Tagged(log, "publisher"), nmeaData, contacts, tree, tree.Root())
	i.AddHandler(publisher)
}

// newPulsePeripheral binds a pulse-timer peripheral on the given GPIO pin. No platform binding
// is wired into this build, so any configured softUART interface fails fast at startup rather
// than silently running with no data.
func newPulsePeripheral(log logging.Logger, pin int) (iface.PulseSource, iface.PulseSink, error) {
	return nil, nil, fmt.Errorf("no pulse-timer peripheral binding available for gpio pin %d", pin)
}

func parseTalkers(codes []string) ([]nmea0183.Talker, error) {
	talkers := make([]nmea0183.Talker, 0, len(codes))
	for _, code := range codes {
		talker, err := nmea0183.ParseTalker([]byte(code))
		if err != nil {
			return nil, fmt.Errorf("filtered talker %q: %w", code, err)
		}
		talkers = append(talkers, talker)
	}
	return talkers, nil
}

// dumpContacts logs the current AIS contact table every period until ctx is cancelled.
func dumpContacts(ctx context.Context, log logging.Logger, contacts *ais.ContactTable, period time.Duration) error {
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			for _, contact := range contacts.Contacts() {
				log.Infof("%s", contact)
			}
		}
	}
}
