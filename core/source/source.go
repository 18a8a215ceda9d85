package source

import (
	"context"
	"errors"
	"time"

	"github.com/kilianp07/svitlo/core/logger"
	"github.com/kilianp07/svitlo/core/model"
)

var (
	// ErrUnauthorized is returned when upstream rejects the credentials.
	ErrUnauthorized = errors.New("upstream rejected credentials")
	// ErrUnexpectedStatus wraps non-200 upstream answers.
	ErrUnexpectedStatus = errors.New("unexpected upstream status")
)

// Source fetches outage intervals for every queue it can reach.
type Source interface {
	Name() string
	// Fetch returns the intervals per queue. A queue that could not be fetched
	// is left out of the result. The error is reserved for failures that
	// prevent fetching anything at all.
	Fetch(ctx context.Context) (Results, error)
}

// Results maps a queue to its reported intervals. A missing key means the
// queue could not be fetched, a present key with no intervals means no outage.
type Results map[model.QueueKey][]model.RawInterval

// Set records the intervals of q, marking it as fetched even when empty.
func (r Results) Set(q model.QueueKey, intervals []model.RawInterval) {
	if intervals == nil {
		intervals = []model.RawInterval{}
	}
	r[q] = intervals
}

// Fetched lists the queues present in r in catalog order.
func (r Results) Fetched() []model.QueueKey {
	var out []model.QueueKey
	for _, q := range model.Queues {
		if _, ok := r[q]; ok {
			out = append(out, q)
		}
	}
	return out
}

// Failed lists the catalog queues missing from r.
func (r Results) Failed() []model.QueueKey {
	var out []model.QueueKey
	for _, q := range model.Queues {
		if _, ok := r[q]; !ok {
			out = append(out, q)
		}
	}
	return out
}

// Count returns the total number of intervals.
func (r Results) Count() int {
	n := 0
	for _, ivs := range r {
		n += len(ivs)
	}
	return n
}

// Record is one upstream outage with naive timestamps.
type Record struct {
	Start string `json:"start" yaml:"start"`
	End   string `json:"end" yaml:"end"`
}

// ParseRecords converts records into intervals of q in loc. Records with
// unparsable timestamps are logged and skipped.
func ParseRecords(q model.QueueKey, records []Record, loc *time.Location, log logger.Logger) (intervals []model.RawInterval, dropped int) {
	log = logger.OrNop(log)
	intervals = make([]model.RawInterval, 0, len(records))
	for _, rec := range records {
		iv, err := model.NewRawInterval(q, rec.Start, rec.End, loc)
		if err != nil {
			log.Warnf("%s: skipping malformed interval %q-%q: %v", q.DisplayID(), rec.Start, rec.End, err)
			dropped++
			continue
		}
		intervals = append(intervals, iv)
	}
	return intervals, dropped
}
