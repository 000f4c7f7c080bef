package nmea0183

import (
	"fmt"
	"strconv"
	"strings"
)

// LatLong is a latitude or longitude in hundred-thousandths of a degree, signed so that south
// and west are negative, matching the sign convention used throughout the data model.
type LatLong int32

// ParseLatitude parses an NMEA ddmm.mmmm latitude field together with its N/S hemisphere field.
func ParseLatitude(field, hemisphere string) (LatLong, error) {
	return parseLatLong(field, 2, hemisphere, "S")
}

// ParseLongitude parses an NMEA dddmm.mmmm longitude field together with its E/W hemisphere
// field.
func ParseLongitude(field, hemisphere string) (LatLong, error) {
	return parseLatLong(field, 3, hemisphere, "W")
}

func parseLatLong(field string, degreeDigits int, hemisphere, negativeHemisphere string) (LatLong, error) {
	dot := strings.IndexByte(field, '.')
	if dot < degreeDigits {
		return 0, fmt.Errorf("bad NMEA lat/long field %q", field)
	}

	degrees, err := strconv.Atoi(field[:degreeDigits])
	if err != nil {
		return 0, fmt.Errorf("bad NMEA lat/long degrees in %q: %w", field, err)
	}

	minutes, err := strconv.ParseFloat(field[degreeDigits:], 64)
	if err != nil {
		return 0, fmt.Errorf("bad NMEA lat/long minutes in %q: %w", field, err)
	}

	hundredThousandths := int32((float64(degrees) + minutes/60) * 100000)
	if hemisphere == negativeHemisphere {
		hundredThousandths = -hundredThousandths
	}
	return LatLong(hundredThousandths), nil
}

// Degrees returns the value as floating-point degrees, for logging.
func (l LatLong) Degrees() float64 {
	return float64(l) / 100000
}
