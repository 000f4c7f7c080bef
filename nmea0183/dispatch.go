package nmea0183

import "fmt"

// Decode parses a Sentence's fields into its typed message, for the sentence types this package
// understands. The returned value's concrete type is one of GGA, RMC, VTG, DBT, MWV or HDG.
// VDM/VDO (AIS) and $STALK sentences are framed here but decoded by the ais and seatalk packages
// respectively; Decode returns ErrUnsupportedType for them, and for every proprietary ('P'-tagged)
// sentence, so a caller can hand the Sentence off to the right decoder.
func Decode(s *Sentence) (interface{}, error) {
	if s.Proprietary {
		return nil, fmt.Errorf("%w: proprietary sentence %q", ErrUnsupportedType, s.Mnemonic)
	}

	switch s.Type {
	case "GGA":
		return ParseGGA(s.Fields)
	case "RMC":
		return ParseRMC(s.Fields)
	case "VTG":
		return ParseVTG(s.Fields)
	case "DBT":
		return ParseDBT(s.Fields)
	case "MWV":
		return ParseMWV(s.Fields)
	case "HDG":
		return ParseHDG(s.Fields)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedType, s.Type)
	}
}

// ErrUnsupportedType is returned by Decode for a sentence type it has no handler for.
var ErrUnsupportedType = fmt.Errorf("unsupported NMEA sentence type")
