package model

import (
	"fmt"
	"time"
)

// RawInterval is one reported outage for a queue. Start and End are wall-clock
// times already placed in the region's fixed zone. Start < End is expected
// but not guaranteed by upstream data.
type RawInterval struct {
	Queue QueueKey
	Start time.Time
	End   time.Time
}

func (iv RawInterval) String() string {
	return fmt.Sprintf("%s %s-%s", iv.Queue.DisplayID(),
		iv.Start.Format("2006-01-02 15:04"), iv.End.Format("2006-01-02 15:04"))
}

// timestampLayouts are the naive formats seen in upstream payloads.
var timestampLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
}

// ParseLocalTimestamp interprets a naive upstream timestamp as wall-clock time
// in loc. Fractional seconds are accepted after the seconds field.
func ParseLocalTimestamp(s string, loc *time.Location) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparsable timestamp %q", s)
}

// NewRawInterval parses both bounds of an upstream record.
func NewRawInterval(q QueueKey, start, end string, loc *time.Location) (RawInterval, error) {
	s, err := ParseLocalTimestamp(start, loc)
	if err != nil {
		return RawInterval{}, fmt.Errorf("start: %w", err)
	}
	e, err := ParseLocalTimestamp(end, loc)
	if err != nil {
		return RawInterval{}, fmt.Errorf("end: %w", err)
	}
	return RawInterval{Queue: q, Start: s, End: e}, nil
}
