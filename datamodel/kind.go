package datamodel

// Kind enumerates the value kinds a Leaf may hold. Per the design note preferring tagged
// unions over per-variant virtual dispatch, every Leaf uses the same struct regardless of
// Kind; Kind only selects which field of its value union is live and how it compares/formats.
type Kind uint8

const (
	// KindBool holds a boolean value.
	KindBool Kind = iota
	// KindUint8 holds an unsigned 8-bit integer.
	KindUint8
	// KindUint16 holds an unsigned 16-bit integer.
	KindUint16
	// KindUint32 holds an unsigned 32-bit integer.
	KindUint32
	// KindInt16 holds a signed 16-bit integer.
	KindInt16
	// KindTenths8 holds a tenths-precision decimal backed by an 8-bit magnitude.
	KindTenths8
	// KindTenths16 holds a tenths-precision decimal backed by a 16-bit magnitude.
	KindTenths16
	// KindTenths32 holds a tenths-precision decimal backed by a 32-bit magnitude.
	KindTenths32
	// KindHundredths8 holds a hundredths-precision decimal backed by an 8-bit magnitude.
	KindHundredths8
	// KindHundredths16 holds a hundredths-precision decimal backed by a 16-bit magnitude.
	KindHundredths16
	// KindHundredths32 holds a hundredths-precision decimal backed by a 32-bit magnitude.
	KindHundredths32
	// KindString holds a bounded-length string.
	KindString
)

// String names the kind for diagnostics.
func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindUint8:
		return "uint8"
	case KindUint16:
		return "uint16"
	case KindUint32:
		return "uint32"
	case KindInt16:
		return "int16"
	case KindTenths8:
		return "tenths8"
	case KindTenths16:
		return "tenths16"
	case KindTenths32:
		return "tenths32"
	case KindHundredths8:
		return "hundredths8"
	case KindHundredths16:
		return "hundredths16"
	case KindHundredths32:
		return "hundredths32"
	case KindString:
		return "string"
	default:
		return "unknown"
	}
}
