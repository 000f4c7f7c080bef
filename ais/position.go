package ais

import "math"

// longitudeUnknown and latitudeUnknown are the sentinel raw values ITU-R M.1371 reserves to mean
// "position not available", expressed in ten-thousandths of a minute (the field's native units).
const (
	longitudeUnknown = 181 * 600000
	latitudeUnknown  = 91 * 600000
)

// Position is a decoded latitude/longitude, carried internally in ten-thousandths of a minute to
// avoid floating point in the hot decode path; Longitude and Latitude convert to float degrees
// for display and distance calculations.
type Position struct {
	longitudeTenThousandthsMinute int32
	latitudeTenThousandthsMinute  int32
	valid                         bool
}

// ReadPosition reads the 28 bit longitude followed by 27 bit latitude fields that every Class A
// and Class B position report carries, at whatever bit offset the caller has already skipped to.
func ReadPosition(r *BitReader) (Position, error) {
	lon, err := r.Int(28)
	if err != nil {
		return Position{}, err
	}
	lat, err := r.Int(27)
	if err != nil {
		return Position{}, err
	}
	return Position{
		longitudeTenThousandthsMinute: lon,
		latitudeTenThousandthsMinute:  lat,
		valid:                         lon != longitudeUnknown && lat != latitudeUnknown,
	}, nil
}

// Valid reports whether the position was actually reported, as opposed to the field's
// not-available sentinel.
func (p Position) Valid() bool {
	return p.valid
}

// Longitude returns the decoded longitude in degrees.
func (p Position) Longitude() float64 {
	return float64(p.longitudeTenThousandthsMinute) / (60 * 10000)
}

// Latitude returns the decoded latitude in degrees.
func (p Position) Latitude() float64 {
	return float64(p.latitudeTenThousandthsMinute) / (60 * 10000)
}

// earthRadiusNM is the average radius of the Earth in nautical miles. Distance treats the Earth
// as a sphere rather than a spheroid, a reasonable approximation given the short ranges involved
// in tracking nearby AIS contacts.
const earthRadiusNM = 3440.0

// Distance computes the great-circle distance in nautical miles between two positions using the
// haversine formula.
func (p Position) Distance(other Position) float64 {
	lon1, lat1 := degreesToRadians(p.Longitude()), degreesToRadians(p.Latitude())
	lon2, lat2 := degreesToRadians(other.Longitude()), degreesToRadians(other.Latitude())

	dLat := lat2 - lat1
	dLon := lon2 - lon1

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Sin(dLon/2)*math.Sin(dLon/2)*math.Cos(lat1)*math.Cos(lat2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusNM * c
}

func degreesToRadians(degrees float64) float64 {
	return degrees * math.Pi / 180
}
