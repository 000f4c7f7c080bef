package ais

// MsgType is an AIS message's type field (the first 6 bits of every message), identifying which
// of the ITU-R M.1371 message layouts the rest of the payload follows.
type MsgType uint8

const (
	MsgTypeUnknown                  MsgType = 0
	MsgTypePositionReportClassA     MsgType = 1
	MsgTypePositionReportClassAAssignedSched MsgType = 2
	MsgTypePositionReportClassAResponse      MsgType = 3
	MsgTypeBaseStationReport        MsgType = 4
	MsgTypeStaticAndVoyageData      MsgType = 5
	MsgTypeStandardClassBPosReport  MsgType = 18
	MsgTypeExtendedClassBPosReport  MsgType = 19
	MsgTypeAidToNavigationReport    MsgType = 21
	MsgTypeStaticDataReport         MsgType = 24
)

// ReadMsgType reads the 6 bit message type field that begins every AIS message.
func ReadMsgType(r *BitReader) (MsgType, error) {
	v, err := r.Uint(6)
	if err != nil {
		return MsgTypeUnknown, err
	}
	return MsgType(v), nil
}

func (t MsgType) String() string {
	switch t {
	case MsgTypePositionReportClassA:
		return "Position Report Class A"
	case MsgTypePositionReportClassAAssignedSched:
		return "Position Report Class A (Assigned Schedule)"
	case MsgTypePositionReportClassAResponse:
		return "Position Report Class A (Response to Interrogation)"
	case MsgTypeBaseStationReport:
		return "Base Station Report"
	case MsgTypeStaticAndVoyageData:
		return "Static and Voyage Related Data"
	case MsgTypeStandardClassBPosReport:
		return "Standard Class B CS Position Report"
	case MsgTypeExtendedClassBPosReport:
		return "Extended Class B Equipment Position Report"
	case MsgTypeAidToNavigationReport:
		return "Aid-to-Navigation Report"
	case MsgTypeStaticDataReport:
		return "Static Data Report"
	default:
		return "Unknown"
	}
}
