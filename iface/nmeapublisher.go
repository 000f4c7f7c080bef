package iface

import (
	"fmt"
	"time"

	"github.com/LisaRowell/LunaMonESP/ais"
	"github.com/LisaRowell/LunaMonESP/datamodel"
	"github.com/LisaRowell/LunaMonESP/internal/logging"
	"github.com/LisaRowell/LunaMonESP/nmea0183"
	"github.com/LisaRowell/LunaMonESP/stats"
)

// NMEAPublisher is the LineHandler that gives plain NMEA 0183 and encapsulated AIS traffic
// somewhere to go once a LineSource has framed it: standard sentences are decoded and their
// values published into an nmea0183.InstrumentData tree, the same way seatalk.Parser publishes
// into a seatalk.InstrumentData tree, while VDM/VDO sentences are reassembled and decoded by an
// ais.SentenceDecoder and applied to a shared ais.ContactTable.
type NMEAPublisher struct {
	log     logging.Logger
	data    *nmea0183.InstrumentData
	contacts *ais.ContactTable
	aisDecoder *ais.SentenceDecoder

	decodeErrors, aisErrors, contactTableFull stats.Counter

	decodeErrorsLeaf, decodeErrorRateLeaf         *datamodel.Leaf
	aisErrorsLeaf, aisErrorRateLeaf               *datamodel.Leaf
	contactTableFullLeaf, contactTableFullRateLeaf *datamodel.Leaf
}

// NewNMEAPublisher creates an NMEAPublisher publishing standard sentences to data and AIS
// contacts to contacts, with its error counters registered under statsNode if non-nil.
func NewNMEAPublisher(log logging.Logger, data *nmea0183.InstrumentData, contacts *ais.ContactTable,
	tree *datamodel.Tree, statsNode *datamodel.Node) *NMEAPublisher {
	p := &NMEAPublisher{
		log:        log,
		data:       data,
		contacts:   contacts,
		aisDecoder: ais.NewSentenceDecoder(),
	}
	if statsNode != nil {
		p.decodeErrorsLeaf, p.decodeErrorRateLeaf = countRateLeaves(tree, statsNode, "decodeErrors")
		p.aisErrorsLeaf, p.aisErrorRateLeaf = countRateLeaves(tree, statsNode, "aisDecodeErrors")
		p.contactTableFullLeaf, p.contactTableFullRateLeaf = countRateLeaves(tree, statsNode, "aisContactTableFull")
	}
	return p
}

// HandleLine implements LineHandler. Proprietary ('P'-tagged) sentences are ignored; encapsulated sentences are treated as AIS VDM/VDO and everything else is decoded as a
// standard NMEA 0183 sentence.
func (p *NMEAPublisher) HandleLine(sentence *nmea0183.Sentence, raw []byte) {
	if sentence.Proprietary {
		return
	}
	if sentence.Encapsulated {
		p.handleAIS(sentence)
		return
	}

	msg, err := nmea0183.Decode(sentence)
	if err != nil {
		p.decodeErrors.Increment()
		p.log.Debugf("discarding unsupported NMEA sentence %q: %s", sentence.Type, err)
		return
	}

	switch m := msg.(type) {
	case *nmea0183.GGA:
		p.publishGGA(m)
	case *nmea0183.RMC:
		p.publishRMC(m)
	case *nmea0183.VTG:
		p.publishVTG(m)
	case *nmea0183.DBT:
		p.data.Depth.Meters.SetTenths(m.DepthMeters)
	case *nmea0183.MWV:
		p.publishMWV(m)
	case *nmea0183.HDG:
		p.publishHDG(m)
	}
}

func (p *NMEAPublisher) publishGGA(m *nmea0183.GGA) {
	p.data.GPS.Latitude.SetString(latLongString(m.Latitude))
	p.data.GPS.Longitude.SetString(latLongString(m.Longitude))
	p.data.GPS.FixQuality.SetUint(m.Quality)
	p.data.GPS.NumSatellites.SetUint(m.NumSatellites)
	p.data.GPS.HDOP.SetTenths(m.HDOP)
	p.data.GPS.Altitude.SetTenths(m.Altitude)
}

func (p *NMEAPublisher) publishRMC(m *nmea0183.RMC) {
	p.data.GPS.Active.SetBool(m.Active)
	p.data.GPS.Latitude.SetString(latLongString(m.Latitude))
	p.data.GPS.Longitude.SetString(latLongString(m.Longitude))
	p.data.GPS.SpeedOverGround.SetTenths(m.SpeedKnots)
	p.data.GPS.CourseOverGround.SetTenths(m.CourseTrue)
	if m.HaveMagVar {
		p.data.GPS.MagneticVariation.SetTenths(m.MagneticVar)
	}
}

func (p *NMEAPublisher) publishVTG(m *nmea0183.VTG) {
	p.data.GPS.CourseOverGround.SetTenths(m.CourseTrue)
	p.data.GPS.CourseMagnetic.SetTenths(m.CourseMagnetic)
	p.data.GPS.SpeedOverGround.SetTenths(m.SpeedKnots)
}

func (p *NMEAPublisher) publishMWV(m *nmea0183.MWV) {
	if !m.Valid {
		return
	}
	p.data.Wind.Angle.SetTenths(m.Angle)
	p.data.Wind.Relative.SetBool(m.Relative)
	p.data.Wind.SpeedKnots.SetTenths(m.SpeedKnots)
	p.data.Wind.Valid.SetBool(m.Valid)
}

func (p *NMEAPublisher) publishHDG(m *nmea0183.HDG) {
	p.data.Heading.Heading.SetTenths(m.Heading)
	p.data.Heading.Deviation.SetTenths(m.Deviation)
	p.data.Heading.Variation.SetTenths(m.Variation)
}

func latLongString(v nmea0183.LatLong) string {
	return fmt.Sprintf("%.5f", v.Degrees())
}

func (p *NMEAPublisher) handleAIS(sentence *nmea0183.Sentence) {
	fieldCount, err1 := sentence.Fields.NextString()
	fieldNum, err2 := sentence.Fields.NextString()
	seqID := sentence.Fields.NextOptionalString()
	channel, err3 := sentence.Fields.NextString()
	payload, err4 := sentence.Fields.NextString()
	fillBits, err5 := sentence.Fields.NextString()
	for _, err := range []error{err1, err2, err3, err4, err5} {
		if err != nil {
			p.aisErrors.Increment()
			p.log.Debugf("discarding malformed AIS sentence: %s", err)
			return
		}
	}

	msg, complete, err := p.aisDecoder.Feed(fieldCount, fieldNum, seqID, channel, payload, fillBits)
	if err != nil {
		p.aisErrors.Increment()
		p.log.Debugf("discarding AIS sentence: %s", err)
		return
	}
	if !complete {
		return
	}

	if _, err := ais.UpdateContact(p.contacts, msg); err != nil {
		p.contactTableFull.Increment()
		p.log.Debugf("AIS contact update: %s", err)
	}
}

// ExportStats implements stats.Holder.
func (p *NMEAPublisher) ExportStats(elapsed time.Duration) {
	if p.decodeErrorsLeaf == nil {
		return
	}
	p.decodeErrors.Update(p.decodeErrorsLeaf, p.decodeErrorRateLeaf, elapsed)
	p.aisErrors.Update(p.aisErrorsLeaf, p.aisErrorRateLeaf, elapsed)
	p.contactTableFull.Update(p.contactTableFullLeaf, p.contactTableFullRateLeaf, elapsed)
}
