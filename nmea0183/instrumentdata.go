package nmea0183

import (
	"github.com/LisaRowell/LunaMonESP/datamodel"
)

// InstrumentData is the set of data model leaves that a Publisher writes decoded NMEA 0183
// readings to, grouped the same way seatalk.InstrumentData groups SeaTalk-sourced readings.
type InstrumentData struct {
	GPS   GPSData
	Depth DepthData
	Wind  WindData
	Heading HeadingData
}

// NewInstrumentData builds the leaf tree for every NMEA-sourced instrument reading under parent.
func NewInstrumentData(tree *datamodel.Tree, parent *datamodel.Node) *InstrumentData {
	return &InstrumentData{
		GPS:     newGPSData(tree, parent),
		Depth:   newDepthData(tree, parent),
		Wind:    newWindData(tree, parent),
		Heading: newHeadingData(tree, parent),
	}
}

// GPSData holds the position and speed/course-over-ground fields GGA, RMC and VTG carry.
type GPSData struct {
	Latitude         *datamodel.Leaf
	Longitude        *datamodel.Leaf
	FixQuality       *datamodel.Leaf
	NumSatellites    *datamodel.Leaf
	HDOP             *datamodel.Leaf
	Altitude         *datamodel.Leaf
	Active           *datamodel.Leaf
	SpeedOverGround  *datamodel.Leaf
	CourseOverGround *datamodel.Leaf
	CourseMagnetic   *datamodel.Leaf
	MagneticVariation *datamodel.Leaf
}

func newGPSData(tree *datamodel.Tree, parent *datamodel.Node) GPSData {
	node := tree.NewNode("gps", parent)
	return GPSData{
		Latitude:          tree.NewLeaf("latitude", node, datamodel.KindString),
		Longitude:         tree.NewLeaf("longitude", node, datamodel.KindString),
		FixQuality:        tree.NewLeaf("fixQuality", node, datamodel.KindUint32),
		NumSatellites:     tree.NewLeaf("numSatellites", node, datamodel.KindUint32),
		HDOP:              tree.NewLeaf("hdop", node, datamodel.KindTenths16),
		Altitude:          tree.NewLeaf("altitude", node, datamodel.KindTenths16),
		Active:            tree.NewLeaf("active", node, datamodel.KindBool),
		SpeedOverGround:   tree.NewLeaf("speedOverGround", node, datamodel.KindTenths16),
		CourseOverGround:  tree.NewLeaf("courseOverGround", node, datamodel.KindTenths16),
		CourseMagnetic:    tree.NewLeaf("courseMagnetic", node, datamodel.KindTenths16),
		MagneticVariation: tree.NewLeaf("magneticVariation", node, datamodel.KindTenths16),
	}
}

// DepthData holds the depth-below-transducer reading DBT carries.
type DepthData struct {
	Meters *datamodel.Leaf
}

func newDepthData(tree *datamodel.Tree, parent *datamodel.Node) DepthData {
	node := tree.NewNode("depth", parent)
	return DepthData{
		Meters: tree.NewLeaf("meters", node, datamodel.KindTenths16),
	}
}

// WindData holds apparent wind angle and speed as MWV reports them.
type WindData struct {
	Angle      *datamodel.Leaf
	Relative   *datamodel.Leaf
	SpeedKnots *datamodel.Leaf
	Valid      *datamodel.Leaf
}

func newWindData(tree *datamodel.Tree, parent *datamodel.Node) WindData {
	node := tree.NewNode("wind", parent)
	return WindData{
		Angle:      tree.NewLeaf("angle", node, datamodel.KindTenths16),
		Relative:   tree.NewLeaf("relative", node, datamodel.KindBool),
		SpeedKnots: tree.NewLeaf("speedKnots", node, datamodel.KindTenths16),
		Valid:      tree.NewLeaf("valid", node, datamodel.KindBool),
	}
}

// HeadingData holds the heading, deviation and variation HDG reports.
type HeadingData struct {
	Heading   *datamodel.Leaf
	Deviation *datamodel.Leaf
	Variation *datamodel.Leaf
}

func newHeadingData(tree *datamodel.Tree, parent *datamodel.Node) HeadingData {
	node := tree.NewNode("heading", parent)
	return HeadingData{
		Heading:   tree.NewLeaf("heading", node, datamodel.KindTenths16),
		Deviation: tree.NewLeaf("deviation", node, datamodel.KindTenths16),
		Variation: tree.NewLeaf("variation", node, datamodel.KindTenths16),
	}
}
