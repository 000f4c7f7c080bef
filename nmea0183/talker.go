package nmea0183

import "fmt"

// Talker identifies the NMEA 0183 talker (the device or subsystem) that originated a sentence,
// the two characters immediately following the lead-in character.
type Talker [2]byte

// ErrBadTalker is returned when a sentence's talker code isn't exactly two characters.
var ErrBadTalker = fmt.Errorf("bad NMEA talker code")

// ParseTalker extracts a Talker from the first two characters of s.
func ParseTalker(s []byte) (Talker, error) {
	if len(s) != 2 {
		return Talker{}, ErrBadTalker
	}
	return Talker{s[0], s[1]}, nil
}

// String returns the two-character talker code.
func (t Talker) String() string {
	return string(t[:])
}

// Name returns a human-readable description of the talker for logging, falling back to
// "Proprietary" for the reserved 'P' prefix and "Unknown" for anything else not in the table.
func (t Talker) Name() string {
	if name, ok := talkerNames[t]; ok {
		return name
	}
	if t[0] == 'P' {
		return "Proprietary"
	}
	return "Unknown"
}

// talkerNames is not exhaustive; entries were picked for the talkers likely to actually show up
// on a recreational boat. It exists purely to make debug logging readable.
var talkerNames = map[Talker]string{
	{'G', 'P'}: "GPS",
	{'A', 'I'}: "AIS",
	{'A', 'G'}: "Autopilot - General",
	{'A', 'P'}: "Autopilot - Magnetic",
	{'B', 'D'}: "BeiDou",
	{'C', 'D'}: "DSC",
	{'E', 'C'}: "ECDIS",
	{'G', 'A'}: "Galileo Positioning System",
	{'G', 'L'}: "GLONASS",
	{'G', 'N'}: "Combination of multiple satellite systems",
	{'H', 'C'}: "Heading - Magnetic Compass",
	{'H', 'E'}: "Heading - North Seeking Gyro",
	{'I', 'I'}: "Integrated Instrumentation",
	{'I', 'N'}: "Integrated Navigation",
	{'R', 'A'}: "RADAR and/or ARPA",
	{'S', 'D'}: "Depth Sounder",
	{'S', 'T'}: "Skytraq debug output",
	{'T', 'I'}: "Turn Rate Indicator",
	{'V', 'D'}: "Velocity Sensor, Doppler, other/general",
	{'V', 'W'}: "Velocity Sensor, Speed Log, Water, Mechanical",
	{'W', 'I'}: "Weather Instruments",
	{'Y', 'C'}: "Transducer - Temperature",
	{'Y', 'X'}: "Transducer",
}
