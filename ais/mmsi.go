package ais

import "strconv"

// MMSI is a vessel or station's Maritime Mobile Service Identity, a 9 digit number that AIS uses
// as its per-contact key.
type MMSI uint32

// ReadMMSI reads the 30 bit MMSI field present at a fixed offset in every AIS message type.
func ReadMMSI(r *BitReader) (MMSI, error) {
	v, err := r.Uint(30)
	if err != nil {
		return 0, err
	}
	return MMSI(v), nil
}

// IsAuxiliaryCraft reports whether the MMSI is in the 98MIDXXX range reserved for auxiliary craft
// associated with a parent vessel, per ITU-R M.1371.
func (m MMSI) IsAuxiliaryCraft() bool {
	return m >= 980000000 && m < 990000000
}

func (m MMSI) String() string {
	return strconv.FormatUint(uint64(m), 10)
}
