// Package config loads LunaMon's process configuration: a YAML file listing every physical and
// virtual interface plus the handful of tunables the original firmware fixed at compile time
// (contact table sizing, server client limits, the Digital Yachts adapter workaround). It's the
// Go analogue of the original's compile-time build options, expressed as a decoded struct rather
// than preprocessor defines so one binary can serve different boat configurations.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// System is the top-level decoded configuration for one LunaMon process.
type System struct {
	AIS                     AIS                     `yaml:"ais"`
	NMEAServer              NMEAServer              `yaml:"nmeaServer"`
	SeaTalk                 SeaTalk                 `yaml:"seatalk"`
	DigitalYachtsWorkaround DigitalYachtsWorkaround `yaml:"digitalYachtsWorkaround"`
	MQTTBroker              MQTTBroker              `yaml:"mqttBroker"`
	Interfaces              []InterfaceConfig       `yaml:"interfaces"`
}

// AIS tunes the bounds and timing of the AIS contact table and its periodic dumper.
type AIS struct {
	MaxContacts        int      `yaml:"maxContacts"`
	DumpPeriod         Duration `yaml:"dumpPeriod"`
	ContactLockTimeout Duration `yaml:"contactLockTimeout"`
}

// NMEAServer tunes the TCP NMEA 0183 broadcast server.
type NMEAServer struct {
	MaxClients int `yaml:"maxClients"`
	Port       int `yaml:"port"`
}

// SeaTalk carries only the fields that vary between installations; SeaTalk's 9-bit,
// 4800-baud framing is a property of the protocol, not something a config file can change.
type SeaTalk struct {
	TalkerID string `yaml:"talkerID"`
}

// DigitalYachtsWorkaround enables and tunes the keep-alive nudge some Digital Yachts ST-to-serial
// adapters require to keep forwarding SeaTalk traffic.
type DigitalYachtsWorkaround struct {
	Enabled        bool     `yaml:"enabled"`
	ResendInterval Duration `yaml:"resendInterval"`
}

// MQTTBroker tunes the embedded MQTT broker.
type MQTTBroker struct {
	Port       int `yaml:"port"`
	MaxClients int `yaml:"maxClients"`
}

// InterfaceConfig describes one physical or virtual interface LunaMon reads from (and, for
// RXTX/TX roles, writes to).
type InterfaceConfig struct {
	Name     string `yaml:"name"`
	Protocol string `yaml:"protocol"` // "NMEA", "SeaTalk" or "STALK"
	Role     string `yaml:"role"`     // "RX", "TX" or "RXTX"
	Link     string `yaml:"link"`     // "uart", "softUART" or "wifi"

	// Physical link parameters; which apply depends on Link.
	Device   string `yaml:"device,omitempty"`   // uart: the serial device path
	Baud     int    `yaml:"baud,omitempty"`      // uart: baud rate
	GPIOPin  int    `yaml:"gpioPin,omitempty"`   // softUART: the RMT-capable input pin
	Address  string `yaml:"address,omitempty"`   // wifi: host:port to dial

	FilteredTalkers []string `yaml:"filteredTalkers,omitempty"`

	Bridges []BridgeConfig `yaml:"bridges,omitempty"`
}

// BridgeConfig names a one-way forwarding path from this interface to another, optionally
// restricted to a set of sentence/message types.
type BridgeConfig struct {
	To    string   `yaml:"to"`
	Types []string `yaml:"types,omitempty"`
}

// Duration decodes a YAML scalar like "30s" or "100ms" via time.ParseDuration instead of
// requiring a raw nanosecond count, since yaml.v3 has no built-in notion of time.Duration.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// Duration returns d as a time.Duration.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// Load reads and decodes a System configuration from the YAML file at path.
func Load(path string) (*System, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}

	var system System
	if err := yaml.Unmarshal(data, &system); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}

	if err := system.validate(); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return &system, nil
}

// validate checks the handful of invariants a malformed YAML file could violate that would
// otherwise surface as a confusing panic deep in interface construction.
func (s *System) validate() error {
	seen := make(map[string]struct{}, len(s.Interfaces))
	for _, i := range s.Interfaces {
		if i.Name == "" {
			return fmt.Errorf("interface with empty name")
		}
		if _, dup := seen[i.Name]; dup {
			return fmt.Errorf("duplicate interface name %q", i.Name)
		}
		seen[i.Name] = struct{}{}

		switch i.Protocol {
		case "NMEA", "SeaTalk", "STALK":
		default:
			return fmt.Errorf("interface %q: unrecognized protocol %q", i.Name, i.Protocol)
		}

		switch i.Role {
		case "RX", "TX", "RXTX":
		default:
			return fmt.Errorf("interface %q: unrecognized role %q", i.Name, i.Role)
		}

		switch i.Link {
		case "uart", "softUART", "wifi":
		default:
			return fmt.Errorf("interface %q: unrecognized link %q", i.Name, i.Link)
		}
	}
	return nil
}
