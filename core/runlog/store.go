package runlog

import (
	"context"
	"time"
)

// ArtifactResult is the gate outcome for one rendered artifact.
type ArtifactResult struct {
	Key      string `json:"key"`
	Format   string `json:"format"`
	Decision string `json:"decision"`
	Reason   string `json:"reason"`
	Path     string `json:"path,omitempty"`
	Error    string `json:"error,omitempty"`
}

// Record captures one pipeline run.
type Record struct {
	ID          string           `json:"id"`
	Timestamp   time.Time        `json:"timestamp"`
	Source      string           `json:"source"`
	Today       int64            `json:"today"`
	ContentHash string           `json:"content_hash"`
	Changed     bool             `json:"changed"`
	Fetched     []string         `json:"fetched"`
	Failed      []string         `json:"failed"`
	Kept        int              `json:"kept"`
	Dropped     int              `json:"dropped"`
	Checked     int              `json:"checked"`
	Skipped     int              `json:"skipped"`
	Generated   int              `json:"generated"`
	Artifacts   []ArtifactResult `json:"artifacts,omitempty"`
	DurationMS  int64            `json:"duration_ms"`
	Error       string           `json:"error,omitempty"`
}

// OK reports whether the run finished without a fatal error.
func (r Record) OK() bool { return r.Error == "" }

// Query filters stored records. Zero values disable a filter.
type Query struct {
	Start       time.Time
	End         time.Time
	ChangedOnly bool
	Limit       int
}

// Match reports whether rec passes the time and change filters.
func (q Query) Match(rec Record) bool {
	if !q.Start.IsZero() && rec.Timestamp.Before(q.Start) {
		return false
	}
	if !q.End.IsZero() && rec.Timestamp.After(q.End) {
		return false
	}
	if q.ChangedOnly && !rec.Changed {
		return false
	}
	return true
}

// Trim keeps the newest Limit records of an oldest-first slice.
func (q Query) Trim(recs []Record) []Record {
	if q.Limit > 0 && len(recs) > q.Limit {
		return recs[len(recs)-q.Limit:]
	}
	return recs
}

// Store persists run records and supports querying.
type Store interface {
	Append(ctx context.Context, rec Record) error
	Query(ctx context.Context, q Query) ([]Record, error)
	Close() error
}

// NopStore discards records.
type NopStore struct{}

func (NopStore) Append(context.Context, Record) error           { return nil }
func (NopStore) Query(context.Context, Query) ([]Record, error) { return nil, nil }
func (NopStore) Close() error                                   { return nil }
