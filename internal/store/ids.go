package store

import (
	"strconv"
	"strings"
)

// Kind names a record collection for id generation.
type Kind string

const (
	KindUser      Kind = "user"
	KindMilestone Kind = "milestone"
	KindTest      Kind = "test"
	KindCareTip   Kind = "careTip"
	KindMessage   Kind = "message"
)

var kindPrefixes = map[Kind]string{
	KindMilestone: "m",
	KindTest:      "t",
	KindCareTip:   "ct",
	KindMessage:   "msg",
}

// IDGenerator hands out prefix+counter ids, one monotonic counter per kind.
// Users share a single counter and take their role initial as prefix, so
// d1, p2, p3 is followed by p4 regardless of role.
//
// Not safe for concurrent use; the store calls it with its lock held.
type IDGenerator struct {
	counters map[Kind]int
}

func newIDGenerator() *IDGenerator {
	return &IDGenerator{counters: make(map[Kind]int)}
}

// observe raises the counter for kind so that it is at least the collection
// size and at least the numeric suffix of id.
func (g *IDGenerator) observe(kind Kind, id string, size int) {
	if size > g.counters[kind] {
		g.counters[kind] = size
	}
	if n, ok := numericSuffix(id); ok && n > g.counters[kind] {
		g.counters[kind] = n
	}
}

// Next returns the next id for kind. prefix overrides the kind's own prefix
// and is how user ids get their role initial. taken reports ids already in
// use; those are skipped.
func (g *IDGenerator) Next(kind Kind, prefix string, taken func(string) bool) string {
	if prefix == "" {
		prefix = kindPrefixes[kind]
	}
	for {
		g.counters[kind]++
		id := prefix + strconv.Itoa(g.counters[kind])
		if taken == nil || !taken(id) {
			return id
		}
	}
}

func numericSuffix(id string) (int, bool) {
	digits := strings.TrimLeftFunc(id, func(r rune) bool { return r < '0' || r > '9' })
	if digits == "" {
		return 0, false
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0, false
	}
	return n, true
}
