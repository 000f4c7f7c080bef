package nmea0183

import (
	"fmt"

	"github.com/LisaRowell/LunaMonESP/fixedpoint"
)

// GGA is a Global Positioning System Fix Data sentence.
type GGA struct {
	Latitude     LatLong
	Longitude    LatLong
	Quality      uint32
	NumSatellites uint32
	HDOP         fixedpoint.Tenths
	Altitude     fixedpoint.Tenths
}

// ParseGGA decodes a GGA sentence's fields.
func ParseGGA(f *Fields) (*GGA, error) {
	if _, err := f.NextString(); err != nil { // UTC time, not currently surfaced
		return nil, err
	}
	lat, err := f.NextString()
	if err != nil {
		return nil, err
	}
	ns, err := f.NextString()
	if err != nil {
		return nil, err
	}
	lon, err := f.NextString()
	if err != nil {
		return nil, err
	}
	ew, err := f.NextString()
	if err != nil {
		return nil, err
	}
	quality, err := f.NextUint()
	if err != nil {
		return nil, err
	}
	numSV, err := f.NextUint()
	if err != nil {
		return nil, err
	}
	hdop, _, err := f.NextTenths()
	if err != nil {
		return nil, err
	}
	altitude, _, err := f.NextTenths()
	if err != nil {
		return nil, err
	}

	latitude, err := ParseLatitude(lat, ns)
	if err != nil {
		return nil, err
	}
	longitude, err := ParseLongitude(lon, ew)
	if err != nil {
		return nil, err
	}

	return &GGA{
		Latitude:      latitude,
		Longitude:     longitude,
		Quality:       quality,
		NumSatellites: numSV,
		HDOP:          hdop,
		Altitude:      altitude,
	}, nil
}

// RMC is a Recommended Minimum Navigation Information sentence.
type RMC struct {
	Active       bool
	Latitude     LatLong
	Longitude    LatLong
	SpeedKnots   fixedpoint.Tenths
	CourseTrue   fixedpoint.Tenths
	MagneticVar  fixedpoint.Tenths
	HaveMagVar   bool
}

// ParseRMC decodes an RMC sentence's fields.
func ParseRMC(f *Fields) (*RMC, error) {
	if _, err := f.NextString(); err != nil { // UTC time
		return nil, err
	}
	status, err := f.NextString()
	if err != nil {
		return nil, err
	}
	lat, err := f.NextString()
	if err != nil {
		return nil, err
	}
	ns, err := f.NextString()
	if err != nil {
		return nil, err
	}
	lon, err := f.NextString()
	if err != nil {
		return nil, err
	}
	ew, err := f.NextString()
	if err != nil {
		return nil, err
	}
	speed, _, err := f.NextTenths()
	if err != nil {
		return nil, err
	}
	course, _, err := f.NextTenths()
	if err != nil {
		return nil, err
	}
	if _, err := f.NextString(); err != nil { // date
		return nil, err
	}
	magVar, haveMagVar, err := f.NextTenths()
	if err != nil {
		return nil, err
	}
	magVarEW := f.NextOptionalString()

	latitude, err := ParseLatitude(lat, ns)
	if err != nil {
		return nil, err
	}
	longitude, err := ParseLongitude(lon, ew)
	if err != nil {
		return nil, err
	}

	// By convention east is a positive magnetic variation and west negative.
	if haveMagVar && magVarEW == "W" {
		magVar = fixedpoint.TenthsFromRaw(-magVar.Raw())
	}

	return &RMC{
		Active:      status == "A",
		Latitude:    latitude,
		Longitude:   longitude,
		SpeedKnots:  speed,
		CourseTrue:  course,
		MagneticVar: magVar,
		HaveMagVar:  haveMagVar,
	}, nil
}

// VTG is a Track Made Good and Ground Speed sentence.
type VTG struct {
	CourseTrue     fixedpoint.Tenths
	CourseMagnetic fixedpoint.Tenths
	SpeedKnots     fixedpoint.Tenths
}

// ParseVTG decodes a VTG sentence's fields.
func ParseVTG(f *Fields) (*VTG, error) {
	courseTrue, _, err := f.NextTenths()
	if err != nil {
		return nil, err
	}
	if _, err := f.NextString(); err != nil { // "T"
		return nil, err
	}
	courseMag, _, err := f.NextTenths()
	if err != nil {
		return nil, err
	}
	if _, err := f.NextString(); err != nil { // "M"
		return nil, err
	}
	speedKnots, _, err := f.NextTenths()
	if err != nil {
		return nil, err
	}

	return &VTG{CourseTrue: courseTrue, CourseMagnetic: courseMag, SpeedKnots: speedKnots}, nil
}

// DBT is a Depth Below Transducer sentence.
type DBT struct {
	DepthMeters fixedpoint.Tenths
}

// ParseDBT decodes a DBT sentence's fields.
func ParseDBT(f *Fields) (*DBT, error) {
	if _, _, err := f.NextTenths(); err != nil { // depth, feet
		return nil, err
	}
	if _, err := f.NextString(); err != nil { // "f"
		return nil, err
	}
	depthMeters, _, err := f.NextTenths()
	if err != nil {
		return nil, err
	}
	return &DBT{DepthMeters: depthMeters}, nil
}

// MWV is a Wind Speed and Angle sentence.
type MWV struct {
	Angle      fixedpoint.Tenths
	Relative   bool
	SpeedKnots fixedpoint.Tenths
	Valid      bool
}

// ParseMWV decodes an MWV sentence's fields.
func ParseMWV(f *Fields) (*MWV, error) {
	angle, _, err := f.NextTenths()
	if err != nil {
		return nil, err
	}
	reference, err := f.NextString()
	if err != nil {
		return nil, err
	}
	speed, _, err := f.NextTenths()
	if err != nil {
		return nil, err
	}
	units, err := f.NextString()
	if err != nil {
		return nil, err
	}
	status := f.NextOptionalString()

	var speedKnots fixedpoint.Tenths
	switch units {
	case "N":
		speedKnots = speed
	case "M":
		speedKnots = fixedpoint.MSToKnots(speed)
	case "K":
		speedKnots = fixedpoint.KMHToKnots(speed)
	default:
		return nil, fmt.Errorf("unrecognized MWV speed units %q", units)
	}

	return &MWV{
		Angle:      angle,
		Relative:   reference == "R",
		SpeedKnots: speedKnots,
		Valid:      status != "V",
	}, nil
}

// HDG is a Heading, Deviation and Variation sentence.
type HDG struct {
	Heading    fixedpoint.Tenths
	Deviation  fixedpoint.Tenths
	Variation  fixedpoint.Tenths
}

// ParseHDG decodes an HDG sentence's fields.
func ParseHDG(f *Fields) (*HDG, error) {
	heading, _, err := f.NextTenths()
	if err != nil {
		return nil, err
	}
	deviation, deviationOK, err := f.NextTenths()
	if err != nil {
		return nil, err
	}
	deviationEW := f.NextOptionalString()
	variation, variationOK, err := f.NextTenths()
	if err != nil {
		return nil, err
	}
	variationEW := f.NextOptionalString()

	if deviationOK && deviationEW == "W" {
		deviation = fixedpoint.TenthsFromRaw(-deviation.Raw())
	}
	if variationOK && variationEW == "W" {
		variation = fixedpoint.TenthsFromRaw(-variation.Raw())
	}

	return &HDG{Heading: heading, Deviation: deviation, Variation: variation}, nil
}
