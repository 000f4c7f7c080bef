package datamodel

import (
	"strings"
	"sync"
	"sync/atomic"
)

// Tree is the hierarchical, observable data model. One Tree backs one running instance; every
// Node and Leaf belongs to exactly one Tree, reached from its parent chain down to the root.
//
// Subscription-set mutation (Subscribe/Unsubscribe) and dispatch walk the tree under a single
// coarse lock, subMu. Leaf value writes are not serialized against that lock at all when the
// leaf has no subscribers (the common case for most of the tree at any given moment) — see
// Leaf.commit.
type Tree struct {
	root *Node

	subMu sync.Mutex

	// updateCounter counts every committed leaf value change (including clears) since startup,
	// used by the stats package to report data model throughput.
	updateCounter atomic.Uint64
}

// NewTree creates an empty tree with a nameless root node.
func NewTree() *Tree {
	t := &Tree{}
	t.root = &Node{nodeName: "", tree: t}
	return t
}

// Root returns the tree's root node, the parent of every top-level Node and Leaf.
func (t *Tree) Root() *Node {
	return t.root
}

// Updates returns the number of leaf value commits (sets and clears) observed since startup.
func (t *Tree) Updates() uint64 {
	return t.updateCounter.Load()
}

// Subscribe registers sub against every current leaf matching filter, an MQTT 3.1.1 topic
// filter, and immediately delivers each matched leaf's retained value synchronously. It returns
// the number of leaves matched. An invalid filter matches nothing.
//
// '+' and '#' at the root level never match a name beginning with '$', mirroring MQTT's
// reservation of the '$' namespace for broker-internal topics (e.g. "$SYS"); a filter that names
// a '$' level explicitly still matches it.
func (t *Tree) Subscribe(filter string, sub Subscriber, cookie uint32) int {
	if !checkTopicFilterValidity(filter) {
		return 0
	}

	t.subMu.Lock()
	defer t.subMu.Unlock()

	if isMultiLevelWildcard(filter) {
		return t.root.subscribeChildrenIfMatching([]string{"#"}, sub, cookie, true)
	}

	levels := splitLevels(filter)
	skipReserved := levels[0] == string(singleLevelWild)
	return t.root.subscribeChildrenIfMatching(levels, sub, cookie, skipReserved)
}

// Unsubscribe removes sub from every leaf matching filter. It returns the number of leaves
// affected.
func (t *Tree) Unsubscribe(filter string, sub Subscriber) int {
	if !checkTopicFilterValidity(filter) {
		return 0
	}

	t.subMu.Lock()
	defer t.subMu.Unlock()

	levels := splitLevels(filter)
	skipReserved := levels[0] == string(singleLevelWild) || levels[0] == string(multiLevelWild)
	matches := 0
	for _, child := range t.root.children {
		if skipReserved && strings.HasPrefix(child.name(), string(reservedLevelMark)) {
			continue
		}
		matches += child.unsubscribeIfMatching(levels, sub)
	}
	return matches
}

// UnsubscribeAll removes sub from every leaf in the tree it may be subscribed to.
func (t *Tree) UnsubscribeAll(sub Subscriber) int {
	t.subMu.Lock()
	defer t.subMu.Unlock()
	return t.root.unsubscribeAll(sub)
}
