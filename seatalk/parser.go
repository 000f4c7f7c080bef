package seatalk

import (
	"fmt"
	"time"

	"github.com/LisaRowell/LunaMonESP/datamodel"
	"github.com/LisaRowell/LunaMonESP/fixedpoint"
	"github.com/LisaRowell/LunaMonESP/internal/logging"
	"github.com/LisaRowell/LunaMonESP/stats"
)

// Parser decodes complete SeaTalk datagrams, publishing the values they carry into an
// InstrumentData tree.
type Parser struct {
	log  logging.Logger
	data *InstrumentData

	seenDevices map[uint8]struct{}

	unknownCommands, lengthErrors, attributeErrors, ignoredCommands stats.Counter

	unknownCommandsLeaf, unknownCommandRateLeaf *datamodel.Leaf
	lengthErrorsLeaf, lengthErrorRateLeaf       *datamodel.Leaf
	attributeErrorsLeaf, attributeErrorRateLeaf *datamodel.Leaf
	ignoredCommandsLeaf, ignoredCommandRateLeaf *datamodel.Leaf
}

// NewParser creates a Parser. data is the InstrumentData tree decoded values are published to.
// If statsNode is non-nil, the Parser's error counters are registered under it and harvested
// via ExportStats.
func NewParser(log logging.Logger, data *InstrumentData, statsNode *datamodel.Node) *Parser {
	p := &Parser{log: log, data: data}

	if statsNode != nil {
		tree := statsNode.Tree()
		p.unknownCommandsLeaf, p.unknownCommandRateLeaf = countRateLeaves(tree, statsNode, "unknownCommands")
		p.lengthErrorsLeaf, p.lengthErrorRateLeaf = countRateLeaves(tree, statsNode, "lengthErrors")
		p.attributeErrorsLeaf, p.attributeErrorRateLeaf = countRateLeaves(tree, statsNode, "attributeErrors")
		p.ignoredCommandsLeaf, p.ignoredCommandRateLeaf = countRateLeaves(tree, statsNode, "ignoredCommands")
	}

	return p
}

// ExportStats implements stats.Holder.
func (p *Parser) ExportStats(elapsed time.Duration) {
	if p.unknownCommandsLeaf == nil {
		return
	}
	p.unknownCommands.Update(p.unknownCommandsLeaf, p.unknownCommandRateLeaf, elapsed)
	p.lengthErrors.Update(p.lengthErrorsLeaf, p.lengthErrorRateLeaf, elapsed)
	p.attributeErrors.Update(p.attributeErrorsLeaf, p.attributeErrorRateLeaf, elapsed)
	p.ignoredCommands.Update(p.ignoredCommandsLeaf, p.ignoredCommandRateLeaf, elapsed)
}

// ParseLine dispatches a complete datagram to its command-specific decoder.
func (p *Parser) ParseLine(line *Line) {
	switch line.Command() {
	case DepthBelowTransducer:
		p.parseDepth(line)
	case ApparentWindAngle:
		p.parseApparentWindAngle(line)
	case ApparentWindSpeed:
		p.parseApparentWindSpeed(line)
	case SpeedThroughWaterV1:
		p.parseSpeedThroughWaterV1(line)
	case SpeedThroughWaterV2:
		p.parseSpeedThroughWaterV2(line)
	case WaterTemperatureV1:
		p.parseWaterTemperatureV1(line)
	case WaterTemperatureV2:
		p.parseWaterTemperatureV2(line)
	case LatitudePosition:
		p.parseLatitude(line)
	case LongitudePosition:
		p.parseLongitude(line)
	case SpeedOverGround:
		p.parseSpeedOverGround(line)
	case CourseOverGround:
		p.parseCourseOverGround(line)
	case HoursMinutesSeconds:
		p.parseTime(line)
	case YearMonthDay:
		p.parseDate(line)
	case SatelliteInfo:
		p.parseSatelliteInfo(line)
	case AutoPilotHeadingCourseRudder:
		p.parseAutoPilotHeadingCourseRudder(line)
	case AutoPilotHeadingAndRudder:
		p.parseAutoPilotHeadingAndRudder(line)
	case DeviceIdentification:
		p.parseDeviceIdentification(line)
	case MagneticVariation:
		p.parseMagneticVariation(line)
	case SetLampIntensity, DisplayUnitsMileageAndSpeed, RawLatitudeAndLongitude, CountDownTimer,
		UnknownCommand60, E80StartUp, GPSAndDGPSInfo, AutoPilotStatus, UnknownGPSCommandA7:
		p.ignoredCommand(line)
	default:
		p.unknownCommand(line)
	}
}

func (p *Parser) checkLength(line *Line, expected int) bool {
	if line.Len() != expected {
		p.log.Warnf("%s: unexpected length %d, expected %d", line.Command(), line.Len(), expected)
		p.lengthErrors.Increment()
		return false
	}
	return true
}

func (p *Parser) checkAttribute(line *Line, expected uint8) bool {
	if line.Attribute() != expected {
		p.log.Warnf("%s: unexpected attribute byte 0x%02x, expected 0x%02x", line.Command(), line.Attribute(), expected)
		p.attributeErrors.Increment()
		return false
	}
	return true
}

func (p *Parser) ignoredCommand(line *Line) {
	p.log.Debugf("ignoring SeaTalk command %s", line.Command())
	p.ignoredCommands.Increment()
}

func (p *Parser) unknownCommand(line *Line) {
	p.log.Warnf("unknown SeaTalk command: %s", line)
	p.unknownCommands.Increment()
}

func (p *Parser) parseDepth(line *Line) {
	if !p.checkLength(line, 5) || !p.checkAttribute(line, 0x02) {
		return
	}
	flags := line.Byte(2)
	raw := int32(line.Byte(3)) | int32(line.Byte(4))<<8
	depth := fixedpoint.TenthsFromRaw(raw)
	if flags&0x01 != 0 {
		depth = fixedpoint.FeetToMeters(depth)
	}
	p.data.Depth.Meters.SetTenths(depth)
	p.data.Depth.TransducerDefective.SetBool(flags&0x04 != 0)
	p.data.Depth.AnchorAlarm.SetBool(flags&0x08 != 0)
	p.data.Depth.ShallowAlarm.SetBool(flags&0x10 != 0)
	p.data.Depth.DeepAlarm.SetBool(flags&0x20 != 0)
}

// parseApparentWindAngle decodes the apparent wind angle datagram, whose two data bytes carry
// the raw angle high byte first - the reverse of the general SeaTalk little-endian convention.
func (p *Parser) parseApparentWindAngle(line *Line) {
	if !p.checkLength(line, 4) || !p.checkAttribute(line, 0x01) {
		return
	}
	raw := int32(line.Byte(2))<<8 | int32(line.Byte(3))
	p.data.Wind.ApparentAngle.SetTenths(fixedpoint.TenthsFromRaw(raw * 5))
}

func (p *Parser) parseApparentWindSpeed(line *Line) {
	if !p.checkLength(line, 4) || !p.checkAttribute(line, 0x01) {
		return
	}
	mps := line.Byte(2)&0x80 != 0
	whole := int32(line.Byte(2) & 0x7f)
	frac := int32(line.Byte(3))
	if frac > 9 {
		p.log.Warnf("apparent wind speed: invalid fractional digit %d", frac)
		p.attributeErrors.Increment()
		return
	}
	speed := fixedpoint.NewTenths(whole, frac)
	if mps {
		speed = fixedpoint.MSToKnots(speed)
	}
	p.data.Wind.ApparentSpeedKnots.SetTenths(speed)
}

func (p *Parser) parseSpeedThroughWaterV1(line *Line) {
	if !p.checkLength(line, 4) {
		return
	}
	raw := int32(line.Byte(2)) | int32(line.Byte(3))<<8
	p.data.Water.SpeedKnots.SetTenths(fixedpoint.TenthsFromRaw(raw))
}

func (p *Parser) parseSpeedThroughWaterV2(line *Line) {
	if !p.checkLength(line, 7) || !p.checkAttribute(line, 0x04) {
		return
	}
	raw := int32(line.Byte(2)) | int32(line.Byte(3))<<8
	speed := hundredthsToTenths(fixedpoint.HundredthsFromRaw(raw))
	flags := line.Byte(6)
	if flags&0x01 != 0 {
		speed = fixedpoint.MPHToKnots(speed)
	}
	p.data.Water.SpeedKnots.SetTenths(speed)
	p.data.Water.SpeedStopped.SetBool(flags&0x40 != 0)
}

func (p *Parser) parseWaterTemperatureV1(line *Line) {
	if !p.checkLength(line, 4) {
		return
	}
	celsius := line.Byte(2)
	p.data.Water.TemperatureCelsius.SetTenths(fixedpoint.NewTenths(int32(celsius), 0))
	p.data.Water.TemperatureSensorDefective.SetBool(line.Attribute()&0x40 != 0)
}

// parseWaterTemperatureV2 decodes the tenths-of-a-degree temperature datagram, whose wire value
// carries a +100 bias (celsius = wire - 100) to keep the field unsigned.
func (p *Parser) parseWaterTemperatureV2(line *Line) {
	if !p.checkLength(line, 4) {
		return
	}
	raw := int32(line.Byte(2)) | int32(line.Byte(3))<<8
	p.data.Water.TemperatureCelsius.SetTenths(fixedpoint.TenthsFromRaw(raw - 100))
}

func (p *Parser) parseLatitude(line *Line) {
	degrees, minutesHundredths, negative, ok := p.parseCoordinate(line)
	if !ok {
		return
	}
	p.data.GPS.Latitude.SetString(coordinateToString(degrees, minutesHundredths, negative, "N", "S"))
}

func (p *Parser) parseLongitude(line *Line) {
	degrees, minutesHundredths, negative, ok := p.parseCoordinate(line)
	if !ok {
		return
	}
	p.data.GPS.Longitude.SetString(coordinateToString(degrees, minutesHundredths, negative, "E", "W"))
}

// parseCoordinate decodes the shared latitude/longitude datagram shape: a whole-degrees byte
// followed by minutes*100 packed across two bytes, with the sign carried in the top bit of the
// last byte.
func (p *Parser) parseCoordinate(line *Line) (degrees uint8, minutesHundredths uint16, negative bool, ok bool) {
	if !p.checkLength(line, 5) || !p.checkAttribute(line, 0x02) {
		return 0, 0, false, false
	}
	degrees = line.Byte(2)
	minutesLow := line.Byte(3)
	minutesHighAndSign := line.Byte(4)
	negative = minutesHighAndSign&0x80 != 0
	minutesHundredths = uint16(minutesLow) | uint16(minutesHighAndSign&0x7f)<<8
	return degrees, minutesHundredths, negative, true
}

func coordinateToString(degrees uint8, minutesHundredths uint16, negative bool, posLetter, negLetter string) string {
	minutes := fixedpoint.HundredthsFromRaw(int32(minutesHundredths))
	letter := posLetter
	if negative {
		letter = negLetter
	}
	return fmt.Sprintf("%d %s %s", degrees, minutes.String(), letter)
}

func (p *Parser) parseSpeedOverGround(line *Line) {
	if !p.checkLength(line, 4) {
		return
	}
	raw := int32(line.Byte(2)) | int32(line.Byte(3))<<8
	p.data.GPS.SpeedOverGround.SetTenths(fixedpoint.TenthsFromRaw(raw))
}

func (p *Parser) parseCourseOverGround(line *Line) {
	if !p.checkLength(line, 3) {
		return
	}
	raw := int32(line.Byte(2)) | int32(line.Attribute()&0xf0)<<4
	p.data.GPS.CourseOverGround.SetTenths(fixedpoint.TenthsFromRaw(raw))
}

// parseTime decodes the bit-packed hours/minutes/seconds datagram: seconds are split across the
// attribute nibble and the top two bits of the first data byte, minutes fill the rest of that
// byte, and hours are the second data byte.
func (p *Parser) parseTime(line *Line) {
	if !p.checkLength(line, 4) {
		return
	}
	seconds := (line.Attribute()>>4)&0x0f | (line.Byte(2)&0xc0)>>2
	minutes := line.Byte(2) & 0x3f
	hours := line.Byte(3)
	p.data.GPS.Time.SetString(fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds))
}

func (p *Parser) parseDate(line *Line) {
	if !p.checkLength(line, 4) {
		return
	}
	month := line.Attribute() >> 4
	day := line.Byte(2)
	year := 2000 + int(line.Byte(3))
	p.data.GPS.Date.SetString(fmt.Sprintf("%04d-%02d-%02d", year, month, day))
}

func (p *Parser) parseSatelliteInfo(line *Line) {
	if !p.checkLength(line, 3) {
		return
	}
	count := line.Attribute() >> 4
	hdop := line.Byte(2)
	p.data.GPS.NumSatellites.SetUint(uint32(count))
	p.data.GPS.HDOP.SetTenths(fixedpoint.NewTenths(int32(hdop), 0))
}

// reconstructHeading rebuilds a 10-bit heading value from a single data byte plus the low two
// bits of the attribute's upper nibble, the packing every autopilot heading datagram shares.
func reconstructHeading(attribute, headingByte uint8) uint16 {
	return uint16(headingByte)<<2 | uint16((attribute>>4)&0x03)
}

func (p *Parser) parseAutoPilotHeadingCourseRudder(line *Line) {
	if !p.checkLength(line, 9) {
		return
	}
	heading := reconstructHeading(line.Attribute(), line.Byte(2))
	course := int32(line.Byte(3)) | int32(line.Byte(4)&0x3f)<<8
	rudder := int16(int8(line.Byte(5)))

	p.data.AutoPilot.Heading.SetTenths(fixedpoint.NewTenths(int32(heading), 0))
	p.data.AutoPilot.Course.SetTenths(fixedpoint.NewTenths(course, 0))
	p.data.AutoPilot.RudderPosition.SetInt16(rudder)
	p.data.AutoPilot.Mode.SetString(modeBitsToName(line.Byte(6)))
	p.data.AutoPilot.OffCourseAlarm.SetBool(line.Byte(7)&0x04 != 0)
	p.data.AutoPilot.WindShiftAlarm.SetBool(line.Byte(7)&0x08 != 0)
}

func (p *Parser) parseAutoPilotHeadingAndRudder(line *Line) {
	if !p.checkLength(line, 4) {
		return
	}
	heading := reconstructHeading(line.Attribute(), line.Byte(2))
	rudder := int16(int8(line.Byte(3)))

	p.data.AutoPilot.Heading.SetTenths(fixedpoint.NewTenths(int32(heading), 0))
	p.data.AutoPilot.RudderPosition.SetInt16(rudder)
}

// modeBitsToName names the autopilot's operating mode nibble.
func modeBitsToName(modeByte uint8) string {
	switch modeByte & 0x0f {
	case 0x00:
		return "Standby"
	case 0x01:
		return "Auto"
	case 0x02:
		return "Wind"
	case 0x03:
		return "Track"
	default:
		return "Unknown"
	}
}

// parseDeviceIdentification tracks the bounded set of SeaTalk device IDs seen on the bus; the
// data model only needs the running count and the most recent ID, not the full history.
func (p *Parser) parseDeviceIdentification(line *Line) {
	if !p.checkLength(line, 3) {
		return
	}
	deviceID := line.Byte(2)
	p.data.Devices.LastSeenID.SetUint(uint32(deviceID))

	if p.seenDevices == nil {
		p.seenDevices = make(map[uint8]struct{})
	}
	if _, seen := p.seenDevices[deviceID]; !seen {
		p.seenDevices[deviceID] = struct{}{}
		p.data.Devices.Count.SetUint(uint32(len(p.seenDevices)))
	}
}

// parseMagneticVariation decodes the signed-byte magnetic variation datagram. East is positive,
// matching the convention nmea0183's RMC/HDG decoders use.
func (p *Parser) parseMagneticVariation(line *Line) {
	if !p.checkLength(line, 3) {
		return
	}
	variation := int8(line.Byte(2))
	p.data.GPS.MagneticVariation.SetTenths(fixedpoint.NewTenths(int32(variation), 0))
}

// hundredthsToTenths rounds a Hundredths value to the nearest Tenths, ties away from zero.
func hundredthsToTenths(h fixedpoint.Hundredths) fixedpoint.Tenths {
	raw := h.Raw()
	neg := raw < 0
	if neg {
		raw = -raw
	}
	rounded := (raw + 5) / 10
	if neg {
		rounded = -rounded
	}
	return fixedpoint.TenthsFromRaw(rounded)
}
