// Package fixedpoint implements exact decimal-fraction arithmetic for marine-instrument
// scales: values expressed as a whole part plus a fixed number of fractional digits (tenths
// or hundredths), stored as a single scaled integer so that arithmetic never accumulates
// binary floating-point rounding error.
//
// The original firmware had one hand-written C++ class per (fraction-width, storage-width)
// pair (HundredthsUInt8, HundredthsUInt32, TenthsInt16, ...). Those collapse here into exactly
// two generic fixed-point primitives, Tenths and Hundredths. Storage width (8/16/32 bit) is a
// concern of the datamodel leaf that holds the value, not of the arithmetic type itself.
package fixedpoint

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ErrInvalidFormat is returned when parsing ASCII input that doesn't match
// -?[0-9]+(\.[0-9]{0,4})?, the same shape for every target precision.
var ErrInvalidFormat = errors.New("fixedpoint: input is not a valid decimal")

// Tenths is a signed value with exactly one fractional decimal digit, stored as value*10.
type Tenths struct {
	raw int32
}

// Hundredths is a signed value with exactly two fractional decimal digits, stored as value*100.
type Hundredths struct {
	raw int32
}

// NewTenths constructs a Tenths from a whole part and a tenths digit (0-9). The sign of
// wholeNumber (or, if it is zero, the caller's intent) determines the sign of the result;
// tenths is always added as a magnitude.
func NewTenths(wholeNumber int32, tenths int32) Tenths {
	if wholeNumber < 0 {
		return Tenths{raw: wholeNumber*10 - tenths}
	}
	return Tenths{raw: wholeNumber*10 + tenths}
}

// NewHundredths constructs a Hundredths from a whole part and a hundredths digit (0-99).
func NewHundredths(wholeNumber int32, hundredths int32) Hundredths {
	if wholeNumber < 0 {
		return Hundredths{raw: wholeNumber*100 - hundredths}
	}
	return Hundredths{raw: wholeNumber*100 + hundredths}
}

// TenthsFromRaw constructs a Tenths directly from its raw sub-unit representation (value*10).
func TenthsFromRaw(raw int32) Tenths { return Tenths{raw: raw} }

// HundredthsFromRaw constructs a Hundredths directly from its raw sub-unit representation
// (value*100).
func HundredthsFromRaw(raw int32) Hundredths { return Hundredths{raw: raw} }

// TenthsFromQ constructs a Tenths from a Q-format fixed point integer (e.g. Q22.10, used by
// the BME280 compensation formulas), rounding to the nearest tenth.
func TenthsFromQ(q int32, fractionalBits uint) Tenths {
	whole, fracParts := splitQ(q, fractionalBits)
	tenths := roundDiv(fracParts*10, int64(1)<<fractionalBits)
	if q < 0 {
		return Tenths{raw: int32(whole)*10 - tenths}
	}
	return Tenths{raw: int32(whole)*10 + tenths}
}

// HundredthsFromQ constructs a Hundredths from a Q-format fixed point integer (Q22.10 or
// Q24.8), rounding to the nearest hundredth.
func HundredthsFromQ(q int32, fractionalBits uint) Hundredths {
	whole, fracParts := splitQ(q, fractionalBits)
	hundredths := roundDiv(fracParts*100, int64(1)<<fractionalBits)
	if q < 0 {
		return Hundredths{raw: int32(whole)*100 - hundredths}
	}
	return Hundredths{raw: int32(whole)*100 + hundredths}
}

func splitQ(q int32, fractionalBits uint) (whole int64, fracParts int64) {
	scale := int64(1) << fractionalBits
	v := int64(q)
	whole = v / scale
	frac := v % scale
	if frac < 0 {
		frac = -frac
	}
	return whole, frac
}

// roundDiv divides num by den, rounding to nearest (ties away from zero), matching the
// "round-to-nearest for sub-unit arithmetic that loses precision" rule.
func roundDiv(num, den int64) int32 {
	if den == 0 {
		return 0
	}
	neg := (num < 0) != (den < 0)
	if num < 0 {
		num = -num
	}
	if den < 0 {
		den = -den
	}
	result := (num + den/2) / den
	if neg {
		return -int32(result)
	}
	return int32(result)
}

// Raw returns the underlying value*10 representation.
func (t Tenths) Raw() int32 { return t.raw }

// Raw returns the underlying value*100 representation.
func (h Hundredths) Raw() int32 { return h.raw }

// WholeNumber returns the truncated-toward-zero integer part.
func (t Tenths) WholeNumber() int32 { return t.raw / 10 }

// WholeNumber returns the truncated-toward-zero integer part.
func (h Hundredths) WholeNumber() int32 { return h.raw / 100 }

// Fraction returns the fractional digit(s) as a non-negative magnitude (0-9).
func (t Tenths) Fraction() int32 { return abs32(t.raw % 10) }

// Fraction returns the fractional digits as a non-negative magnitude (0-99).
func (h Hundredths) Fraction() int32 { return abs32(h.raw % 100) }

func abs32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}

// Equal reports whether two values represent the same number.
func (t Tenths) Equal(o Tenths) bool { return t.raw == o.raw }

// Equal reports whether two values represent the same number.
func (h Hundredths) Equal(o Hundredths) bool { return h.raw == o.raw }

// Compare returns -1, 0 or 1 as t is less than, equal to, or greater than o.
func (t Tenths) Compare(o Tenths) int { return compareInt32(t.raw, o.raw) }

// Compare returns -1, 0 or 1 as h is less than, equal to, or greater than o.
func (h Hundredths) Compare(o Hundredths) int { return compareInt32(h.raw, o.raw) }

func compareInt32(a, b int32) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// Add returns the sum of t and o.
func (t Tenths) Add(o Tenths) Tenths { return Tenths{raw: t.raw + o.raw} }

// Sub returns t minus o.
func (t Tenths) Sub(o Tenths) Tenths { return Tenths{raw: t.raw - o.raw} }

// MulScalar returns t multiplied by the integer scalar n.
func (t Tenths) MulScalar(n int32) Tenths { return Tenths{raw: t.raw * n} }

// DivScalar returns t divided by the integer scalar n, rounded to the nearest tenth.
func (t Tenths) DivScalar(n int32) Tenths { return Tenths{raw: roundDiv(int64(t.raw), int64(n))} }

// Add returns the sum of h and o.
func (h Hundredths) Add(o Hundredths) Hundredths { return Hundredths{raw: h.raw + o.raw} }

// Sub returns h minus o.
func (h Hundredths) Sub(o Hundredths) Hundredths { return Hundredths{raw: h.raw - o.raw} }

// MulScalar returns h multiplied by the integer scalar n.
func (h Hundredths) MulScalar(n int32) Hundredths { return Hundredths{raw: h.raw * n} }

// DivScalar returns h divided by the integer scalar n, rounded to the nearest hundredth.
func (h Hundredths) DivScalar(n int32) Hundredths {
	return Hundredths{raw: roundDiv(int64(h.raw), int64(n))}
}

// String renders a fixed-precision decimal string with the fractional portion zero-padded to
// one digit, e.g. "-3.5", "0.0".
func (t Tenths) String() string {
	whole := t.raw / 10
	frac := abs32(t.raw % 10)
	if t.raw < 0 && whole == 0 {
		return fmt.Sprintf("-%d.%d", whole, frac)
	}
	return fmt.Sprintf("%d.%d", whole, frac)
}

// String renders a fixed-precision decimal string with the fractional portion zero-padded to
// two digits, e.g. "48.07", "0.00".
func (h Hundredths) String() string {
	whole := h.raw / 100
	frac := abs32(h.raw % 100)
	if h.raw < 0 && whole == 0 {
		return fmt.Sprintf("-%d.%02d", whole, frac)
	}
	return fmt.Sprintf("%d.%02d", whole, frac)
}

var decimalPattern = regexp.MustCompile(`^-?[0-9]+(\.[0-9]{0,4})?$`)

// ParseTenths parses ASCII input of the form -?[0-9]+(\.[0-9]{0,4})?, as NMEA 0183 sentences
// carry their decimal fields. Fractional digits beyond the first are accepted and the value is
// rounded to the nearest tenth in a single step rather than rejected; anything not matching
// the shape at all is ErrInvalidFormat.
func ParseTenths(s string) (Tenths, error) {
	h, err := parseDecimal(s, 4)
	if err != nil {
		return Tenths{}, err
	}
	// h is scaled by 10^4; round to tenths (10^1), i.e. divide by 1000.
	return Tenths{raw: roundDiv(h, 1000)}, nil
}

// ParseHundredths parses ASCII input the same way as ParseTenths but keeps two fractional
// digits of precision.
func ParseHundredths(s string) (Hundredths, error) {
	h, err := parseDecimal(s, 4)
	if err != nil {
		return Hundredths{}, err
	}
	// h is scaled by 10^4; round to hundredths (10^2), i.e. divide by 100.
	return Hundredths{raw: roundDiv(h, 100)}, nil
}

// parseDecimal validates s against [0-9]+(\.[0-9]{0,maxFracDigits})? (optionally signed) and
// returns the value scaled by 10^maxFracDigits, rounding any shorter fraction up to that
// width by right-padding with zeros (no rounding needed in that direction).
func parseDecimal(s string, maxFracDigits int) (int64, error) {
	if !decimalPattern.MatchString(s) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidFormat, s)
	}
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	parts := strings.SplitN(s, ".", 2)
	whole, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidFormat, s)
	}
	scale := int64(1)
	for i := 0; i < maxFracDigits; i++ {
		scale *= 10
	}
	result := whole * scale
	if len(parts) == 2 {
		frac := parts[1]
		for len(frac) < maxFracDigits {
			frac += "0"
		}
		fracVal, err := strconv.ParseInt(frac, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrInvalidFormat, s)
		}
		result += fracVal
	}
	if neg {
		result = -result
	}
	return result, nil
}
