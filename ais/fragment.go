package ais

import (
	"fmt"
	"sync"
	"time"
)

// A multipart VDM/VDO message (AIS types 5, 21 and 24 routinely span 2-5 NMEA sentences) is
// reassembled by buffering fragments keyed by channel and sequential message ID until the final
// fragment arrives, the same keyed-buffer-until-last-frame shape used to reassemble multi-packet
// fast-packet PGNs elsewhere in this codebase. Stale partial reassemblies are dropped on a
// timeout so a lost final fragment doesn't leak memory forever.

const reassemblyTimeout = 5 * time.Second

type fragmentKey struct {
	channel   string
	messageID int
}

type fragmentGroup struct {
	total     int
	payload   [][]byte
	fillBits  int
	received  int
	startedAt time.Time
}

// FragmentAssembler accumulates VDM/VDO sentence fragments into complete payloads.
type FragmentAssembler struct {
	mu     sync.Mutex
	groups map[fragmentKey]*fragmentGroup
}

// NewFragmentAssembler creates an empty FragmentAssembler.
func NewFragmentAssembler() *FragmentAssembler {
	return &FragmentAssembler{groups: make(map[fragmentKey]*fragmentGroup)}
}

// Add feeds one sentence's fragment into the reassembler. total and fragNum are 1-based as found
// in the VDM sentence; messageID is the sentence's sequential message ID field (ignored, i.e.
// treated as 0, for single-channel sources that don't set one). Add returns the complete,
// concatenated payload and fill-bit count once the last fragment of a group arrives; otherwise it
// returns ok == false while more fragments are awaited.
func (a *FragmentAssembler) Add(channel string, total, fragNum, messageID int, payload []byte,
	fillBits int) (completePayload []byte, completeFillBits int, ok bool, err error) {
	if fragNum < 1 || fragNum > total {
		return nil, 0, false, fmt.Errorf("ais: fragment %d of %d out of range", fragNum, total)
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	a.expireStaleLocked()

	if total == 1 {
		return payload, fillBits, true, nil
	}

	key := fragmentKey{channel: channel, messageID: messageID}
	group, found := a.groups[key]
	if !found {
		group = &fragmentGroup{total: total, payload: make([][]byte, total), startedAt: time.Now()}
		a.groups[key] = group
	}
	if group.total != total {
		return nil, 0, false, fmt.Errorf("ais: fragment group %v changed total from %d to %d", key,
			group.total, total)
	}
	if group.payload[fragNum-1] == nil {
		group.received++
	}
	group.payload[fragNum-1] = payload
	if fragNum == total {
		group.fillBits = fillBits
	}

	if group.received < group.total {
		return nil, 0, false, nil
	}

	delete(a.groups, key)
	var joined []byte
	for _, part := range group.payload {
		joined = append(joined, part...)
	}
	return joined, group.fillBits, true, nil
}

// expireStaleLocked drops fragment groups that haven't completed within reassemblyTimeout. Must
// be called with mu held.
func (a *FragmentAssembler) expireStaleLocked() {
	now := time.Now()
	for key, group := range a.groups {
		if now.Sub(group.startedAt) > reassemblyTimeout {
			delete(a.groups, key)
		}
	}
}
