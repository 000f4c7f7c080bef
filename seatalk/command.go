package seatalk

// Command is the first byte of a SeaTalk datagram, identifying what the remaining bytes mean.
type Command uint8

// Command values, as documented by the public SeaTalk protocol reference this decoder is
// grounded on. A handful of names (gpsAndDGPSInfo, autoPilotStatus) have no confidently
// retrievable byte value; see DESIGN.md for the placeholder values used for those two.
const (
	DepthBelowTransducer        Command = 0x00
	ApparentWindAngle           Command = 0x10
	ApparentWindSpeed           Command = 0x11
	SpeedThroughWaterV1         Command = 0x20
	WaterTemperatureV1          Command = 0x23
	DisplayUnitsMileageAndSpeed Command = 0x24
	SpeedThroughWaterV2         Command = 0x26
	WaterTemperatureV2          Command = 0x27
	SetLampIntensity            Command = 0x30
	LatitudePosition            Command = 0x50
	LongitudePosition           Command = 0x51
	SpeedOverGround             Command = 0x52
	CourseOverGround            Command = 0x53
	HoursMinutesSeconds         Command = 0x54
	YearMonthDay                Command = 0x56
	SatelliteInfo               Command = 0x57
	RawLatitudeAndLongitude     Command = 0x58
	CountDownTimer              Command = 0x59
	UnknownCommand60            Command = 0x60
	E80StartUp                  Command = 0x61
	GPSAndDGPSInfo              Command = 0x72
	AutoPilotHeadingCourseRudder Command = 0x84
	AutoPilotStatus             Command = 0x87
	AutoPilotHeadingAndRudder   Command = 0x89
	DeviceIdentification        Command = 0x90
	MagneticVariation           Command = 0x99
	UnknownGPSCommandA7         Command = 0xA7
)

// String names a Command the way the original firmware's logging did, defaulting to "Unknown"
// for anything this decoder doesn't recognize.
func (c Command) String() string {
	switch c {
	case DepthBelowTransducer:
		return "Depth Below Transducer"
	case ApparentWindAngle:
		return "Apparent Wind Angle"
	case ApparentWindSpeed:
		return "Apparent Wind Speed"
	case SpeedThroughWaterV1:
		return "Speed Through Water V1"
	case WaterTemperatureV1:
		return "Water Temperature V1"
	case DisplayUnitsMileageAndSpeed:
		return "Display Units For Mileage & Speed"
	case SpeedThroughWaterV2:
		return "Speed Through Water V2"
	case WaterTemperatureV2:
		return "Water Temperature V2"
	case SetLampIntensity:
		return "Set Lamp Intensity"
	case LatitudePosition:
		return "Latitude Position"
	case LongitudePosition:
		return "Longitude Position"
	case SpeedOverGround:
		return "Speed Over Ground"
	case CourseOverGround:
		return "Course Over Ground"
	case HoursMinutesSeconds:
		return "Time"
	case YearMonthDay:
		return "Date"
	case SatelliteInfo:
		return "Satellite Info"
	case RawLatitudeAndLongitude:
		return "Raw Latitude and Longitude"
	case CountDownTimer:
		return "Count Down Timer"
	case E80StartUp:
		return "E80 Start Up"
	case AutoPilotStatus:
		return "Auto Pilot Status"
	case AutoPilotHeadingCourseRudder:
		return "Auto Pilot Heading, Course and Rudder"
	case DeviceIdentification:
		return "Device Identification"
	case MagneticVariation:
		return "Magnetic Variation"
	case AutoPilotHeadingAndRudder:
		return "Auto Pilot Heading and Rudder"
	case GPSAndDGPSInfo:
		return "GPS and DGPS Info"
	case UnknownGPSCommandA7:
		return "Unknown GPS Command A7"
	case UnknownCommand60:
		return "Unknown Command 60"
	default:
		return "Unknown"
	}
}
