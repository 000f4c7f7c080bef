package datamodel

import "strings"

const (
	levelSeparator     = '/'
	singleLevelWild    = '+'
	multiLevelWild     = '#'
	reservedLevelMark  = '$'
)

// isMultiLevelWildcard reports whether filter is exactly "#".
func isMultiLevelWildcard(filter string) bool {
	return filter == "#"
}

// splitLevels splits a topic or topic filter into its '/'-separated levels. An empty string
// yields an empty level (matching a root-less name), mirroring the original's treatment of
// the root node's name as the empty prefix that buildTopicName skips.
func splitLevels(filter string) []string {
	return strings.Split(filter, string(levelSeparator))
}

// checkTopicFilterValidity validates filter against the MQTT 3.1.1 wildcard placement rules:
// '#' may only appear alone as the final level, '+' must occupy a whole level, and no level
// separator may be doubled.
func checkTopicFilterValidity(filter string) bool {
	if filter == "" {
		return false
	}

	levels := splitLevels(filter)
	for i, level := range levels {
		switch {
		case level == "":
			// Doubled separator ("a//b") or a leading/trailing separator.
			return false
		case strings.Contains(level, string(multiLevelWild)):
			if level != string(multiLevelWild) || i != len(levels)-1 {
				return false
			}
		case strings.Contains(level, string(singleLevelWild)):
			if level != string(singleLevelWild) {
				return false
			}
		}
	}
	return true
}

// levelMatches reports whether a single filter level matches a concrete child name.
func levelMatches(filterLevel, name string) bool {
	return filterLevel == string(singleLevelWild) || filterLevel == name
}
