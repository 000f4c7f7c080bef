package ais

// CourseVector bundles a contact's most recently reported position, course and speed, the set of
// fields used together to dead-reckon or display a contact's track.
type CourseVector struct {
	Position         Position
	CourseOverGround  CourseOverGround
	SpeedOverGround   SpeedOverGround
}

// Set replaces the course vector's fields.
func (c *CourseVector) Set(position Position, cog CourseOverGround, sog SpeedOverGround) {
	c.Position = position
	c.CourseOverGround = cog
	c.SpeedOverGround = sog
}
