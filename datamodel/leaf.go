package datamodel

import (
	"fmt"
	"strconv"
	"sync/atomic"

	"github.com/LisaRowell/LunaMonESP/fixedpoint"
)

// Leaf is a value-bearing point in the tree. A single struct covers every Kind rather than a
// family of per-type leaf classes: Kind selects which field of value is live and how it's
// compared and formatted.
type Leaf struct {
	leafName string
	parent   *Node
	tree     *Tree
	kind     Kind

	hasValue bool
	value    leafValue

	subs     []subscription
	subCount atomic.Int32
}

type leafValue struct {
	b bool
	u uint32
	i int32
	t fixedpoint.Tenths
	h fixedpoint.Hundredths
	s string
}

// NewLeaf creates a child leaf of parent with no value set.
func (t *Tree) NewLeaf(name string, parent *Node, kind Kind) *Leaf {
	if parent == nil {
		parent = t.root
	}
	l := &Leaf{leafName: name, parent: parent, tree: t, kind: kind}
	parent.addChild(l)
	return l
}

func (l *Leaf) name() string {
	return l.leafName
}

// Topic returns the leaf's full, '/'-separated topic name.
func (l *Leaf) Topic() string {
	return joinTopic(l.parent.Topic(), l.leafName)
}

// Kind reports the leaf's value kind.
func (l *Leaf) Kind() Kind {
	return l.kind
}

func (l *Leaf) requireKind(k Kind) {
	if l.kind != k {
		panic(fmt.Sprintf("leaf %s: SetX for %s called on a %s leaf", l.leafName, k, l.kind))
	}
}

func (l *Leaf) subscribeIfMatching(levels []string, sub Subscriber, cookie uint32) int {
	level := levels[0]
	if level == string(multiLevelWild) && len(levels) == 1 {
		return l.subscribeAll(sub, cookie)
	}
	if !levelMatches(level, l.leafName) {
		return 0
	}
	if len(levels) != 1 {
		// A leaf has no children, so extra filter levels below it can never match.
		return 0
	}
	l.addSubscription(sub, cookie)
	return 1
}

func (l *Leaf) unsubscribeIfMatching(levels []string, sub Subscriber) int {
	level := levels[0]
	if level == string(multiLevelWild) && len(levels) == 1 {
		return l.unsubscribeAll(sub)
	}
	if !levelMatches(level, l.leafName) {
		return 0
	}
	if len(levels) != 1 {
		return 0
	}
	return l.removeSubscription(sub)
}

func (l *Leaf) subscribeAll(sub Subscriber, cookie uint32) int {
	l.addSubscription(sub, cookie)
	return 1
}

func (l *Leaf) unsubscribeAll(sub Subscriber) int {
	return l.removeSubscription(sub)
}

// addSubscription must be called with the tree's subscription lock held.
func (l *Leaf) addSubscription(sub Subscriber, cookie uint32) {
	for i := range l.subs {
		if l.subs[i].subscriber == sub {
			l.subs[i].cookie = cookie
			l.deliverRetained(sub)
			return
		}
	}
	l.subs = append(l.subs, subscription{subscriber: sub, cookie: cookie})
	l.subCount.Add(1)
	l.deliverRetained(sub)
}

// removeSubscription must be called with the tree's subscription lock held.
func (l *Leaf) removeSubscription(sub Subscriber) int {
	for i := range l.subs {
		if l.subs[i].subscriber == sub {
			l.subs = append(l.subs[:i], l.subs[i+1:]...)
			l.subCount.Add(-1)
			return 1
		}
	}
	return 0
}

// deliverRetained sends the leaf's current value, if any, to a single newly-subscribed
// subscriber. Called with the tree's subscription lock held: retained delivery at subscribe
// time is synchronous, not queued.
func (l *Leaf) deliverRetained(sub Subscriber) {
	if !l.hasValue {
		return
	}
	sub.Publish(l.Topic(), l.format(), true)
}

// commit records a value change: bumps the tree's update counter and, if anyone is subscribed,
// notifies them. Leaves with no subscribers skip the tree lock entirely via subCount.
func (l *Leaf) commit() {
	l.tree.updateCounter.Add(1)
	if l.subCount.Load() == 0 {
		return
	}

	l.tree.subMu.Lock()
	defer l.tree.subMu.Unlock()

	topic := l.Topic()
	payload := l.format()
	for _, s := range l.subs {
		s.subscriber.Publish(topic, payload, false)
	}
}

func (l *Leaf) format() string {
	switch l.kind {
	case KindBool:
		if l.value.b {
			return "true"
		}
		return "false"
	case KindUint8, KindUint16, KindUint32:
		return strconv.FormatUint(uint64(l.value.u), 10)
	case KindInt16:
		return strconv.FormatInt(int64(l.value.i), 10)
	case KindTenths8, KindTenths16, KindTenths32:
		return l.value.t.String()
	case KindHundredths8, KindHundredths16, KindHundredths32:
		return l.value.h.String()
	case KindString:
		return l.value.s
	default:
		return ""
	}
}

// SetBool sets a KindBool leaf's value, notifying subscribers only if it changed.
func (l *Leaf) SetBool(v bool) {
	l.requireKind(KindBool)
	changed := !l.hasValue || l.value.b != v
	l.value.b = v
	l.hasValue = true
	if changed {
		l.commit()
	}
}

// SetUint sets a KindUint8/16/32 leaf's value, notifying subscribers only if it changed.
func (l *Leaf) SetUint(v uint32) {
	switch l.kind {
	case KindUint8, KindUint16, KindUint32:
	default:
		panic(fmt.Sprintf("leaf %s: SetUint called on a %s leaf", l.leafName, l.kind))
	}
	changed := !l.hasValue || l.value.u != v
	l.value.u = v
	l.hasValue = true
	if changed {
		l.commit()
	}
}

// SetInt16 sets a KindInt16 leaf's value, notifying subscribers only if it changed.
func (l *Leaf) SetInt16(v int16) {
	l.requireKind(KindInt16)
	changed := !l.hasValue || l.value.i != int32(v)
	l.value.i = int32(v)
	l.hasValue = true
	if changed {
		l.commit()
	}
}

// SetTenths sets a KindTenths8/16/32 leaf's value, notifying subscribers only if it changed.
func (l *Leaf) SetTenths(v fixedpoint.Tenths) {
	switch l.kind {
	case KindTenths8, KindTenths16, KindTenths32:
	default:
		panic(fmt.Sprintf("leaf %s: SetTenths called on a %s leaf", l.leafName, l.kind))
	}
	changed := !l.hasValue || !l.value.t.Equal(v)
	l.value.t = v
	l.hasValue = true
	if changed {
		l.commit()
	}
}

// SetHundredths sets a KindHundredths8/16/32 leaf's value, notifying subscribers only if it
// changed.
func (l *Leaf) SetHundredths(v fixedpoint.Hundredths) {
	switch l.kind {
	case KindHundredths8, KindHundredths16, KindHundredths32:
	default:
		panic(fmt.Sprintf("leaf %s: SetHundredths called on a %s leaf", l.leafName, l.kind))
	}
	changed := !l.hasValue || !l.value.h.Equal(v)
	l.value.h = v
	l.hasValue = true
	if changed {
		l.commit()
	}
}

// SetString sets a KindString leaf's value, notifying subscribers only if it changed.
func (l *Leaf) SetString(v string) {
	l.requireKind(KindString)
	changed := !l.hasValue || l.value.s != v
	l.value.s = v
	l.hasValue = true
	if changed {
		l.commit()
	}
}

// Clear removes a leaf's value entirely, so it no longer appears in retained-value delivery to
// new subscribers. A leaf with no value clears to a no-op.
func (l *Leaf) Clear() {
	if !l.hasValue {
		return
	}
	l.hasValue = false
	l.commit()
}

// HasValue reports whether the leaf currently holds a value.
func (l *Leaf) HasValue() bool {
	return l.hasValue
}

// String returns the leaf's current formatted value, or "" if unset.
func (l *Leaf) String() string {
	if !l.hasValue {
		return ""
	}
	return l.format()
}
