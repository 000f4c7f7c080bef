package seatalk

import "github.com/LisaRowell/LunaMonESP/datamodel"

// InstrumentData is the set of data model leaves that a Parser publishes decoded SeaTalk
// readings to, grouped the way the original firmware groups its instrument state.
type InstrumentData struct {
	Depth     DepthData
	Wind      WindData
	Water     WaterData
	GPS       GPSData
	AutoPilot AutoPilotData
	Devices   DeviceData
}

// NewInstrumentData builds the leaf tree for every SeaTalk-sourced instrument reading under
// parent.
func NewInstrumentData(tree *datamodel.Tree, parent *datamodel.Node) *InstrumentData {
	return &InstrumentData{
		Depth:     newDepthData(tree, parent),
		Wind:      newWindData(tree, parent),
		Water:     newWaterData(tree, parent),
		GPS:       newGPSData(tree, parent),
		AutoPilot: newAutoPilotData(tree, parent),
		Devices:   newDeviceData(tree, parent),
	}
}

// DepthData holds the depth-below-transducer reading and its alarm/fault flags.
type DepthData struct {
	Meters              *datamodel.Leaf
	AnchorAlarm         *datamodel.Leaf
	ShallowAlarm        *datamodel.Leaf
	DeepAlarm           *datamodel.Leaf
	TransducerDefective *datamodel.Leaf
}

func newDepthData(tree *datamodel.Tree, parent *datamodel.Node) DepthData {
	node := tree.NewNode("depth", parent)
	return DepthData{
		Meters:              tree.NewLeaf("meters", node, datamodel.KindTenths16),
		AnchorAlarm:         tree.NewLeaf("anchorAlarm", node, datamodel.KindBool),
		ShallowAlarm:        tree.NewLeaf("shallowAlarm", node, datamodel.KindBool),
		DeepAlarm:           tree.NewLeaf("deepAlarm", node, datamodel.KindBool),
		TransducerDefective: tree.NewLeaf("transducerDefective", node, datamodel.KindBool),
	}
}

// WindData holds apparent wind angle and speed.
type WindData struct {
	ApparentAngle      *datamodel.Leaf
	ApparentSpeedKnots *datamodel.Leaf
}

func newWindData(tree *datamodel.Tree, parent *datamodel.Node) WindData {
	node := tree.NewNode("wind", parent)
	return WindData{
		ApparentAngle:      tree.NewLeaf("apparentAngle", node, datamodel.KindTenths16),
		ApparentSpeedKnots: tree.NewLeaf("apparentSpeedKnots", node, datamodel.KindTenths16),
	}
}

// WaterData holds speed-through-water and temperature readings.
type WaterData struct {
	SpeedKnots                 *datamodel.Leaf
	SpeedStopped               *datamodel.Leaf
	TemperatureCelsius         *datamodel.Leaf
	TemperatureSensorDefective *datamodel.Leaf
}

func newWaterData(tree *datamodel.Tree, parent *datamodel.Node) WaterData {
	node := tree.NewNode("water", parent)
	return WaterData{
		SpeedKnots:                 tree.NewLeaf("speedKnots", node, datamodel.KindTenths16),
		SpeedStopped:               tree.NewLeaf("speedStopped", node, datamodel.KindBool),
		TemperatureCelsius:         tree.NewLeaf("temperatureCelsius", node, datamodel.KindTenths16),
		TemperatureSensorDefective: tree.NewLeaf("temperatureSensorDefective", node, datamodel.KindBool),
	}
}

// GPSData holds the position and fix-quality fields SeaTalk's GPS-sourced commands carry.
type GPSData struct {
	Latitude          *datamodel.Leaf
	Longitude         *datamodel.Leaf
	SpeedOverGround   *datamodel.Leaf
	CourseOverGround  *datamodel.Leaf
	Time              *datamodel.Leaf
	Date              *datamodel.Leaf
	NumSatellites     *datamodel.Leaf
	HDOP              *datamodel.Leaf
	MagneticVariation *datamodel.Leaf
	FixQuality        *datamodel.Leaf
}

func newGPSData(tree *datamodel.Tree, parent *datamodel.Node) GPSData {
	node := tree.NewNode("gps", parent)
	return GPSData{
		Latitude:          tree.NewLeaf("latitude", node, datamodel.KindString),
		Longitude:         tree.NewLeaf("longitude", node, datamodel.KindString),
		SpeedOverGround:   tree.NewLeaf("speedOverGround", node, datamodel.KindTenths16),
		CourseOverGround:  tree.NewLeaf("courseOverGround", node, datamodel.KindTenths16),
		Time:              tree.NewLeaf("time", node, datamodel.KindString),
		Date:              tree.NewLeaf("date", node, datamodel.KindString),
		NumSatellites:     tree.NewLeaf("numSatellites", node, datamodel.KindUint8),
		HDOP:              tree.NewLeaf("hdop", node, datamodel.KindTenths16),
		MagneticVariation: tree.NewLeaf("magneticVariation", node, datamodel.KindTenths16),
		FixQuality:        tree.NewLeaf("fixQuality", node, datamodel.KindString),
	}
}

// AutoPilotData holds the autopilot's heading, course, mode and rudder state.
type AutoPilotData struct {
	Heading        *datamodel.Leaf
	Course         *datamodel.Leaf
	Mode           *datamodel.Leaf
	RudderPosition *datamodel.Leaf
	OffCourseAlarm *datamodel.Leaf
	WindShiftAlarm *datamodel.Leaf
}

func newAutoPilotData(tree *datamodel.Tree, parent *datamodel.Node) AutoPilotData {
	node := tree.NewNode("autoPilot", parent)
	return AutoPilotData{
		Heading:        tree.NewLeaf("heading", node, datamodel.KindTenths16),
		Course:         tree.NewLeaf("course", node, datamodel.KindTenths16),
		Mode:           tree.NewLeaf("mode", node, datamodel.KindString),
		RudderPosition: tree.NewLeaf("rudderPosition", node, datamodel.KindInt16),
		OffCourseAlarm: tree.NewLeaf("offCourseAlarm", node, datamodel.KindBool),
		WindShiftAlarm: tree.NewLeaf("windShiftAlarm", node, datamodel.KindBool),
	}
}

// DeviceData tracks the set of SeaTalk device IDs seen on the bus.
type DeviceData struct {
	LastSeenID *datamodel.Leaf
	Count      *datamodel.Leaf
}

func newDeviceData(tree *datamodel.Tree, parent *datamodel.Node) DeviceData {
	node := tree.NewNode("devices", parent)
	return DeviceData{
		LastSeenID: tree.NewLeaf("lastSeenID", node, datamodel.KindUint8),
		Count:      tree.NewLeaf("count", node, datamodel.KindUint8),
	}
}
