package ais

import "fmt"

// Contact is a tracked AIS target: a nearby vessel or navigation aid, built up incrementally as
// its various message types arrive (a position report fills in CourseVector, a static data
// message fills in Name/ShipType/Dimensions, and so on - no single message carries everything).
type Contact struct {
	MMSI              MMSI
	Name              string
	ShipType          ShipType
	NavigationAidType NavigationAidType
	IsNavigationAid   bool
	Dimensions        Dimensions
	NavigationStatus  NavigationStatus
	CourseVector      CourseVector
}

// NewContact creates a Contact for a newly seen MMSI.
func NewContact(mmsi MMSI) *Contact {
	return &Contact{MMSI: mmsi}
}

// SetName records a vessel's name, from static and voyage data or a static data report.
func (c *Contact) SetName(name string) {
	c.Name = name
}

// SetShipType records a vessel's ship type.
func (c *Contact) SetShipType(shipType ShipType) {
	c.ShipType = shipType
}

// SetNavigationAidType marks the contact as a navigation aid of the given type, from an
// aid-to-navigation report.
func (c *Contact) SetNavigationAidType(aidType NavigationAidType) {
	c.IsNavigationAid = true
	c.NavigationAidType = aidType
}

// SetDimensions records a vessel or aid's length and beam.
func (c *Contact) SetDimensions(dimensions Dimensions) {
	c.Dimensions = dimensions
}

// SetNavigationStatus records a vessel's navigational status, from a Class A position report.
func (c *Contact) SetNavigationStatus(status NavigationStatus) {
	c.NavigationStatus = status
}

// SetCourseVector records a contact's most recent position, course and speed.
func (c *Contact) SetCourseVector(position Position, cog CourseOverGround, sog SpeedOverGround) {
	c.CourseVector.Set(position, cog, sog)
}

func (c *Contact) String() string {
	kind := c.ShipType.String()
	if c.IsNavigationAid {
		kind = c.NavigationAidType.String()
	}
	return fmt.Sprintf("%s %q %s %s", c.MMSI, c.Name, kind, c.Dimensions)
}
