package ais

// UpdateContact applies a successfully decoded message to table, looking up or allocating the
// contact by the message's own MMSI. msg must be one of the concrete types Decode returns;
// anything else is a no-op. ErrContactTableFull is returned unchanged when the table has no room
// left for a previously-unseen MMSI: the caller counts and drops rather than treating it as
// fatal.
func UpdateContact(table *ContactTable, msg interface{}) (*Contact, error) {
	mmsi, ok := mmsiOf(msg)
	if !ok {
		return nil, nil
	}

	contact, err := table.FindOrCreateContact(mmsi)
	if err != nil {
		return nil, err
	}

	switch m := msg.(type) {
	case *PositionReport:
		contact.SetNavigationStatus(m.NavigationStatus)
		contact.SetCourseVector(m.Position, m.CourseOverGround, m.SpeedOverGround)
	case *ClassBPositionReport:
		contact.SetCourseVector(m.Position, m.CourseOverGround, m.SpeedOverGround)
	case *StaticAndVoyageData:
		contact.SetName(m.VesselName)
		contact.SetShipType(m.ShipType)
		contact.SetDimensions(m.Dimensions)
	case *StaticDataReportA:
		contact.SetName(m.VesselName)
	case *StaticDataReportB:
		contact.SetShipType(m.ShipType)
		if !m.MMSI.IsAuxiliaryCraft() {
			contact.SetDimensions(m.Dimensions)
		}
	case *AidToNavigationReport:
		contact.SetName(m.Name)
		contact.SetNavigationAidType(m.AidType)
		contact.SetDimensions(m.Dimensions)
	}

	return contact, nil
}

func mmsiOf(msg interface{}) (MMSI, bool) {
	switch m := msg.(type) {
	case *PositionReport:
		return m.MMSI, true
	case *ClassBPositionReport:
		return m.MMSI, true
	case *StaticAndVoyageData:
		return m.MMSI, true
	case *StaticDataReportA:
		return m.MMSI, true
	case *StaticDataReportB:
		return m.MMSI, true
	case *AidToNavigationReport:
		return m.MMSI, true
	default:
		return 0, false
	}
}
