package ais

import (
	"fmt"
	"sync"

	"github.com/LisaRowell/LunaMonESP/internal/logging"
)

// MaxContacts bounds the contact table the way the reference firmware's fixed etl::pool does, so
// a flood of spurious MMSIs can't grow the table without bound on a memory constrained device.
const MaxContacts = 100

// ErrContactTableFull is returned by FindOrCreateContact when the table is already at MaxContacts
// and the given MMSI is not already tracked.
var ErrContactTableFull = fmt.Errorf("ais: contact table full")

// ContactTable is a mutex-guarded, fixed-capacity table of tracked AIS contacts, keyed by MMSI.
type ContactTable struct {
	log logging.Logger

	mu              sync.Mutex
	contacts        map[MMSI]*Contact
	ownCourseVector CourseVector
}

// NewContactTable creates an empty ContactTable.
func NewContactTable(log logging.Logger) *ContactTable {
	return &ContactTable{
		log:      log,
		contacts: make(map[MMSI]*Contact, MaxContacts),
	}
}

// FindOrCreateContact returns the existing Contact for mmsi, or creates and tracks a new one if
// there's room left in the table.
func (t *ContactTable) FindOrCreateContact(mmsi MMSI) (*Contact, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if contact, found := t.contacts[mmsi]; found {
		return contact, nil
	}
	if len(t.contacts) >= MaxContacts {
		t.log.Warnf("failed to create AIS contact for mmsi %s, maximum contacts reached", mmsi)
		return nil, ErrContactTableFull
	}

	contact := NewContact(mmsi)
	t.contacts[mmsi] = contact
	t.log.Debugf("created new AIS contact for mmsi %s", mmsi)
	return contact, nil
}

// SetOwnCourseVector records the host vessel's own position, course and speed, as reported by its
// own Class A or Class B transponder, separately from the contact table proper.
func (t *ContactTable) SetOwnCourseVector(position Position, cog CourseOverGround,
	sog SpeedOverGround) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.ownCourseVector.Set(position, cog, sog)
}

// Contacts returns a snapshot slice of all currently tracked contacts.
func (t *ContactTable) Contacts() []*Contact {
	t.mu.Lock()
	defer t.mu.Unlock()

	contacts := make([]*Contact, 0, len(t.contacts))
	for _, contact := range t.contacts {
		contacts = append(contacts, contact)
	}
	return contacts
}

// Len returns the number of contacts currently tracked.
func (t *ContactTable) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.contacts)
}
