package ais

import "fmt"

// ErrUnsupportedMsgType is returned by Decode for a message type this package has no decoder for.
// The caller is expected to simply drop the message; AIS sources emit dozens of binary and
// safety-related message types no small-craft display needs to act on.
var ErrUnsupportedMsgType = fmt.Errorf("ais: unsupported message type")

// PositionReport is the decoded body of a Class A position report (message types 1, 2 and 3).
type PositionReport struct {
	MMSI             MMSI
	NavigationStatus NavigationStatus
	RateOfTurn       RateOfTurn
	SpeedOverGround  SpeedOverGround
	Position         Position
	CourseOverGround CourseOverGround
	TrueHeading      uint16 // 0-359, 511 means not available
}

func parsePositionReport(r *BitReader) (*PositionReport, error) {
	mmsi, err := ReadMMSI(r)
	if err != nil {
		return nil, err
	}
	navStatus, err := ReadNavigationStatus(r)
	if err != nil {
		return nil, err
	}
	rot, err := ReadRateOfTurn(r)
	if err != nil {
		return nil, err
	}
	sog, err := ReadSpeedOverGround(r)
	if err != nil {
		return nil, err
	}
	if err := r.Skip(1); err != nil { // position accuracy
		return nil, err
	}
	position, err := ReadPosition(r)
	if err != nil {
		return nil, err
	}
	cog, err := ReadCourseOverGround(r)
	if err != nil {
		return nil, err
	}
	heading, err := r.Uint(9)
	if err != nil {
		return nil, err
	}

	return &PositionReport{
		MMSI:             mmsi,
		NavigationStatus: navStatus,
		RateOfTurn:       rot,
		SpeedOverGround:  sog,
		Position:         position,
		CourseOverGround: cog,
		TrueHeading:      uint16(heading),
	}, nil
}

// ClassBPositionReport is the decoded body of a standard or extended Class B position report
// (message types 18 and 19). Only the fields common to both layouts are surfaced.
type ClassBPositionReport struct {
	MMSI             MMSI
	SpeedOverGround  SpeedOverGround
	Position         Position
	CourseOverGround CourseOverGround
	TrueHeading      uint16
}

func parseClassBPositionReport(r *BitReader) (*ClassBPositionReport, error) {
	mmsi, err := ReadMMSI(r)
	if err != nil {
		return nil, err
	}
	if err := r.Skip(8); err != nil { // regional reserved
		return nil, err
	}
	sog, err := ReadSpeedOverGround(r)
	if err != nil {
		return nil, err
	}
	if err := r.Skip(1); err != nil { // position accuracy
		return nil, err
	}
	position, err := ReadPosition(r)
	if err != nil {
		return nil, err
	}
	cog, err := ReadCourseOverGround(r)
	if err != nil {
		return nil, err
	}
	heading, err := r.Uint(9)
	if err != nil {
		return nil, err
	}

	return &ClassBPositionReport{
		MMSI:             mmsi,
		SpeedOverGround:  sog,
		Position:         position,
		CourseOverGround: cog,
		TrueHeading:      uint16(heading),
	}, nil
}

// StaticAndVoyageData is the decoded body of message type 5, sent periodically by Class A
// transceivers with the vessel's identity and voyage plan.
type StaticAndVoyageData struct {
	MMSI        MMSI
	CallSign    string
	VesselName  string
	ShipType    ShipType
	Dimensions  Dimensions
	EPFDFixType EPFDFixType
	Destination string
}

func parseStaticAndVoyageData(r *BitReader, bits int) (*StaticAndVoyageData, error) {
	// While the message should be 424 bits, it's not uncommon for it to arrive truncated to 422
	// or even 420 bits by sources that drop the trailing spare/DTE bits.
	if bits != 424 && bits != 422 && bits != 420 {
		return nil, fmt.Errorf("ais: static and voyage data with bad length (%d bits)", bits)
	}

	mmsi, err := ReadMMSI(r)
	if err != nil {
		return nil, err
	}
	if err := r.Skip(2); err != nil { // AIS version
		return nil, err
	}
	if err := r.Skip(30); err != nil { // IMO number
		return nil, err
	}
	callSign, err := r.String(7)
	if err != nil {
		return nil, err
	}
	vesselName, err := r.String(20)
	if err != nil {
		return nil, err
	}
	shipType, err := ReadShipType(r)
	if err != nil {
		return nil, err
	}
	dimensions, err := ReadDimensions(r)
	if err != nil {
		return nil, err
	}
	epfd, err := ReadEPFDFixType(r)
	if err != nil {
		return nil, err
	}
	if err := r.Skip(4 + 5 + 5 + 6); err != nil { // ETA month/day/hour/minute
		return nil, err
	}
	if err := r.Skip(8); err != nil { // draught
		return nil, err
	}
	destLen := 18
	if bits > 420 {
		destLen = 20
	}
	destination, err := r.String(destLen)
	if err != nil {
		return nil, err
	}

	return &StaticAndVoyageData{
		MMSI:        mmsi,
		CallSign:    callSign,
		VesselName:  vesselName,
		ShipType:    shipType,
		Dimensions:  dimensions,
		EPFDFixType: epfd,
		Destination: destination,
	}, nil
}

// StaticDataReportA is part A of message type 24, carrying just the vessel's name.
type StaticDataReportA struct {
	MMSI       MMSI
	VesselName string
}

// StaticDataReportB is part B of message type 24, carrying ship type, dimensions and, for an
// auxiliary craft's transponder, the MMSI of the mothership it's associated with instead of its
// own dimensions.
type StaticDataReportB struct {
	MMSI          MMSI
	ShipType      ShipType
	CallSign      string
	Dimensions    Dimensions
	MothershipMMSI MMSI
}

func parseStaticDataReport(r *BitReader, bits int) (interface{}, error) {
	if bits < 40 {
		return nil, fmt.Errorf("ais: static data report with bad length (%d bits)", bits)
	}
	mmsi, err := ReadMMSI(r)
	if err != nil {
		return nil, err
	}
	partNumber, err := r.Uint(2)
	if err != nil {
		return nil, err
	}

	switch partNumber {
	case 0:
		if bits != 160 && bits != 168 {
			return nil, fmt.Errorf("ais: static data report part A with bad length (%d bits)", bits)
		}
		name, err := r.String(20)
		if err != nil {
			return nil, err
		}
		return &StaticDataReportA{MMSI: mmsi, VesselName: name}, nil

	case 1:
		if bits != 168 {
			return nil, fmt.Errorf("ais: static data report part B with bad length (%d bits)", bits)
		}
		shipType, err := ReadShipType(r)
		if err != nil {
			return nil, err
		}
		if err := r.Skip(3 * 6); err != nil { // vendor ID
			return nil, err
		}
		if err := r.Skip(4); err != nil { // unit model code
			return nil, err
		}
		if err := r.Skip(20); err != nil { // serial number
			return nil, err
		}
		callSign, err := r.String(7)
		if err != nil {
			return nil, err
		}

		report := &StaticDataReportB{MMSI: mmsi, ShipType: shipType, CallSign: callSign}
		if mmsi.IsAuxiliaryCraft() {
			mothership, err := ReadMMSI(r)
			if err != nil {
				return nil, err
			}
			report.MothershipMMSI = mothership
		} else {
			dims, err := ReadDimensions(r)
			if err != nil {
				return nil, err
			}
			report.Dimensions = dims
		}
		return report, nil

	default:
		return nil, fmt.Errorf("ais: static data report with bad part number %d", partNumber)
	}
}

// AidToNavigationReport is the decoded body of message type 21, broadcast by AIS-equipped
// navigational aids (buoys, racons, lighthouses).
type AidToNavigationReport struct {
	MMSI       MMSI
	AidType    NavigationAidType
	Name       string
	Position   Position
	Dimensions Dimensions
	OffPosition bool
}

func parseAidToNavigationReport(r *BitReader) (*AidToNavigationReport, error) {
	mmsi, err := ReadMMSI(r)
	if err != nil {
		return nil, err
	}
	aidType, err := ReadNavigationAidType(r)
	if err != nil {
		return nil, err
	}
	name, err := r.String(20)
	if err != nil {
		return nil, err
	}
	if err := r.Skip(1); err != nil { // position accuracy
		return nil, err
	}
	position, err := ReadPosition(r)
	if err != nil {
		return nil, err
	}
	dimensions, err := ReadDimensions(r)
	if err != nil {
		return nil, err
	}
	if err := r.Skip(4 + 6); err != nil { // EPFD type, UTC second
		return nil, err
	}
	offPosition, err := r.Bool()
	if err != nil {
		return nil, err
	}

	return &AidToNavigationReport{
		MMSI:        mmsi,
		AidType:     aidType,
		Name:        name,
		Position:    position,
		Dimensions:  dimensions,
		OffPosition: offPosition,
	}, nil
}

// Decode reassembles and parses a complete AIS payload. The returned value's concrete type is one
// of PositionReport, ClassBPositionReport, StaticAndVoyageData, StaticDataReportA,
// StaticDataReportB or AidToNavigationReport, for the message types this package understands; any
// other message type yields ErrUnsupportedMsgType so the caller can drop it without treating it as
// a decode failure.
func Decode(payload []byte, fillBits int) (interface{}, error) {
	r, err := NewBitReader(payload, fillBits)
	if err != nil {
		return nil, err
	}
	bits := r.Len()

	msgType, err := ReadMsgType(r)
	if err != nil {
		return nil, err
	}
	if err := r.Skip(2); err != nil { // repeat indicator
		return nil, err
	}

	switch msgType {
	case MsgTypePositionReportClassA, MsgTypePositionReportClassAAssignedSched,
		MsgTypePositionReportClassAResponse:
		return parsePositionReport(r)
	case MsgTypeStandardClassBPosReport, MsgTypeExtendedClassBPosReport:
		return parseClassBPositionReport(r)
	case MsgTypeStaticAndVoyageData:
		return parseStaticAndVoyageData(r, bits)
	case MsgTypeStaticDataReport:
		return parseStaticDataReport(r, bits)
	case MsgTypeAidToNavigationReport:
		return parseAidToNavigationReport(r)
	default:
		return nil, fmt.Errorf("%w: %s (%d)", ErrUnsupportedMsgType, msgType, msgType)
	}
}
