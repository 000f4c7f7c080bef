package ais

import "fmt"

// Ship dimensions are reported as four distances from the GPS antenna (to bow, stern, port,
// starboard). A zero distance means the overall dimension wasn't reported; the large-vessel
// sentinel on either contributing distance means the vessel is at or beyond the reportable
// maximum.
const (
	largeVesselLength = 511
	largeVesselWidth  = 63
)

// Dimensions is a decoded vessel length and beam, in meters.
type Dimensions struct {
	lengthM uint16
	widthM  uint8
}

// ReadDimensions reads the 30 bit reference-position-and-dimensions field common to static and
// voyage data, static data reports and aid-to-navigation reports.
func ReadDimensions(r *BitReader) (Dimensions, error) {
	toBow, err := r.Uint(9)
	if err != nil {
		return Dimensions{}, err
	}
	toStern, err := r.Uint(9)
	if err != nil {
		return Dimensions{}, err
	}
	toPort, err := r.Uint(6)
	if err != nil {
		return Dimensions{}, err
	}
	toStarboard, err := r.Uint(6)
	if err != nil {
		return Dimensions{}, err
	}

	var d Dimensions
	switch {
	case toBow == 0 || toStern == 0:
		d.lengthM = 0
	case toBow == largeVesselLength || toStern == largeVesselLength:
		d.lengthM = largeVesselLength
	default:
		d.lengthM = uint16(toBow + toStern)
	}
	switch {
	case toPort == 0 || toStarboard == 0:
		d.widthM = 0
	case toPort == largeVesselWidth || toStarboard == largeVesselWidth:
		d.widthM = largeVesselWidth
	default:
		d.widthM = uint8(toPort + toStarboard)
	}
	return d, nil
}

// IsSet reports whether both a length and width were reported.
func (d Dimensions) IsSet() bool {
	return d.lengthM != 0 && d.widthM != 0
}

// LengthM returns the vessel's overall length in meters, 0 if not reported.
func (d Dimensions) LengthM() uint16 {
	return d.lengthM
}

// WidthM returns the vessel's overall beam in meters, 0 if not reported.
func (d Dimensions) WidthM() uint8 {
	return d.widthM
}

func (d Dimensions) String() string {
	length := "?"
	if d.lengthM == largeVesselLength {
		length = fmt.Sprintf(">=%dm", largeVesselLength)
	} else if d.lengthM != 0 {
		length = fmt.Sprintf("%dm", d.lengthM)
	}
	width := "?"
	if d.widthM == largeVesselWidth {
		width = fmt.Sprintf(">=%dm", largeVesselWidth)
	} else if d.widthM != 0 {
		width = fmt.Sprintf("%dm", d.widthM)
	}
	return length + " x " + width
}
