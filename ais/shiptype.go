package ais

// ShipType is the AIS "type of ship and cargo" enumeration (ITU-R M.1371 field). Only the bands a
// recreational/coastal receiver actually cares about are named individually; everything else
// collapses to its numeric band name, matching the reference firmware's approach of naming the
// ranges rather than all 100 individual codes.
type ShipType uint8

// ReadShipType reads the 8 bit ship type field.
func ReadShipType(r *BitReader) (ShipType, error) {
	v, err := r.Uint(8)
	if err != nil {
		return 0, err
	}
	return ShipType(v), nil
}

func (t ShipType) String() string {
	switch {
	case t == 0:
		return "Not available"
	case t >= 20 && t <= 29:
		return "Wing in Ground"
	case t == 30:
		return "Fishing"
	case t == 31 || t == 32:
		return "Towing"
	case t == 33:
		return "Dredging or Underwater Ops"
	case t == 34:
		return "Diving Ops"
	case t == 35:
		return "Military Ops"
	case t == 36:
		return "Sailing"
	case t == 37:
		return "Pleasure Craft"
	case t >= 40 && t <= 49:
		return "High Speed Craft"
	case t == 50:
		return "Pilot Vessel"
	case t == 51:
		return "Search and Rescue Vessel"
	case t == 52:
		return "Tug"
	case t == 53:
		return "Port Tender"
	case t == 54:
		return "Anti-Pollution Equipment"
	case t == 55:
		return "Law Enforcement"
	case t == 58:
		return "Medical Transport"
	case t >= 60 && t <= 69:
		return "Passenger"
	case t >= 70 && t <= 79:
		return "Cargo"
	case t >= 80 && t <= 89:
		return "Tanker"
	case t >= 90 && t <= 99:
		return "Other"
	default:
		return "Reserved"
	}
}
