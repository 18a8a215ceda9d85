package model

import (
	"fmt"
	"strings"
)

// QueueKey identifies one of the twelve rotation queues, e.g. "3.2".
type QueueKey string

// Queues lists every tracked queue in display order. The set is closed.
var Queues = []QueueKey{
	"1.1", "1.2",
	"2.1", "2.2",
	"3.1", "3.2",
	"4.1", "4.2",
	"5.1", "5.2",
	"6.1", "6.2",
}

const displayPrefix = "GPV"

// DisplayID returns the identifier used in documents, e.g. "GPV3.2".
func (q QueueKey) DisplayID() string { return displayPrefix + string(q) }

// Label is the human readable queue name shown to end users.
func (q QueueKey) Label() string { return "Черга " + string(q) }

// Group returns the pair number the queue belongs to.
func (q QueueKey) Group() string {
	g, _, _ := strings.Cut(string(q), ".")
	return g
}

// Known reports whether q belongs to the fixed queue set.
func (q QueueKey) Known() bool {
	for _, k := range Queues {
		if k == q {
			return true
		}
	}
	return false
}

// ParseQueue accepts either the bare key ("1.2") or the display id ("GPV1.2").
func ParseQueue(s string) (QueueKey, error) {
	q := QueueKey(strings.TrimPrefix(strings.TrimSpace(s), displayPrefix))
	if !q.Known() {
		return "", fmt.Errorf("unknown queue %q", s)
	}
	return q, nil
}
