package ais

// EPFDFixType is the AIS "type of electronic position fixing device" field.
type EPFDFixType uint8

const (
	EPFDUndefined EPFDFixType = 0
	EPFDGPS       EPFDFixType = 1
	EPFDGLONASS   EPFDFixType = 2
	EPFDCombinedGPSGLONASS EPFDFixType = 3
	EPFDLoranC    EPFDFixType = 4
	EPFDChayka    EPFDFixType = 5
	EPFDIntegratedNavSystem EPFDFixType = 6
	EPFDSurveyed  EPFDFixType = 7
	EPFDGalileo   EPFDFixType = 8
	EPFDInternalGNSS EPFDFixType = 15
)

// ReadEPFDFixType reads the 4 bit EPFD fix type field.
func ReadEPFDFixType(r *BitReader) (EPFDFixType, error) {
	v, err := r.Uint(4)
	if err != nil {
		return EPFDUndefined, err
	}
	return EPFDFixType(v), nil
}

func (f EPFDFixType) String() string {
	switch f {
	case EPFDGPS:
		return "GPS"
	case EPFDGLONASS:
		return "GLONASS"
	case EPFDCombinedGPSGLONASS:
		return "Combined GPS/GLONASS"
	case EPFDLoranC:
		return "Loran-C"
	case EPFDChayka:
		return "Chayka"
	case EPFDIntegratedNavSystem:
		return "Integrated navigation system"
	case EPFDSurveyed:
		return "Surveyed"
	case EPFDGalileo:
		return "Galileo"
	case EPFDInternalGNSS:
		return "Internal GNSS"
	default:
		return "Undefined"
	}
}
