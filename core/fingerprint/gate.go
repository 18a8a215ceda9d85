package fingerprint

import (
	"context"
	"errors"
	"os"

	"github.com/kilianp07/svitlo/core/logger"
)

// Decision is the outcome of a gate check.
type Decision int

const (
	Regenerate Decision = iota
	Skip
)

func (d Decision) String() string {
	if d == Skip {
		return "skip"
	}
	return "regenerate"
}

// Reasons attached to a Check.
const (
	ReasonUnchanged = "unchanged"
	ReasonNoPrior   = "no prior fingerprint"
	ReasonChanged   = "fingerprint changed"
	ReasonMissing   = "artifact missing"
	ReasonStoreErr  = "store error"
)

// Check is the gate's verdict for one artifact.
type Check struct {
	Artifact    Artifact
	Path        string
	Fingerprint Fingerprint
	Decision    Decision
	Reason      string
}

// Stats counts gate decisions over a run.
type Stats struct {
	Checked     int `json:"checked"`
	Skipped     int `json:"skipped"`
	Generated   int `json:"generated"`
	StoreErrors int `json:"store_errors"`
}

// Gate decides skip or regenerate for each artifact.
type Gate struct {
	store  Store
	exists func(path string) bool
	log    logger.Logger
	stats  Stats
}

// NewGate returns a Gate backed by store. A nil store makes every check a
// miss.
func NewGate(store Store, log logger.Logger) *Gate {
	return &Gate{store: store, exists: fileExists, log: logger.OrNop(log)}
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// Check compares fp with the persisted fingerprint of a. The artifact file at
// path must exist for the result to be Skip.
func (g *Gate) Check(ctx context.Context, a Artifact, path string, fp Fingerprint) Check {
	c := Check{Artifact: a, Path: path, Fingerprint: fp, Decision: Regenerate}
	g.stats.Checked++
	prev, err := g.load(ctx, a.Key)
	switch {
	case errors.Is(err, ErrNotFound):
		c.Reason = ReasonNoPrior
	case err != nil:
		g.stats.StoreErrors++
		g.log.Warnf("load fingerprint %s: %v", a.Key, err)
		c.Reason = ReasonStoreErr
	case prev != fp:
		c.Reason = ReasonChanged
	case !g.exists(path):
		c.Reason = ReasonMissing
	default:
		c.Decision = Skip
		c.Reason = ReasonUnchanged
	}
	if c.Decision == Skip {
		g.stats.Skipped++
	}
	g.log.Debugw("artifact check", map[string]any{
		"artifact": a.Key,
		"decision": c.Decision.String(),
		"reason":   c.Reason,
	})
	return c
}

// Commit persists the fingerprint of a regenerated artifact. Call it only
// after the artifact was written. Save failures are logged and counted.
func (g *Gate) Commit(ctx context.Context, c Check) {
	if c.Decision != Regenerate {
		return
	}
	g.stats.Generated++
	if g.store == nil {
		return
	}
	if err := g.store.Save(ctx, c.Artifact.Key, c.Fingerprint); err != nil {
		g.stats.StoreErrors++
		g.log.Warnf("save fingerprint %s: %v", c.Artifact.Key, err)
	}
}

// Stats returns the counters accumulated since the gate was built.
func (g *Gate) Stats() Stats { return g.stats }

func (g *Gate) load(ctx context.Context, key string) (Fingerprint, error) {
	if g.store == nil {
		return "", ErrNotFound
	}
	return g.store.Load(ctx, key)
}

// Changed compares fp with the persisted value under key and stores fp when it
// differs. Store errors count as a change.
func Changed(ctx context.Context, store Store, key string, fp Fingerprint) (bool, error) {
	if store == nil {
		return true, nil
	}
	prev, err := store.Load(ctx, key)
	if err == nil && prev == fp {
		return false, nil
	}
	if err != nil && !errors.Is(err, ErrNotFound) {
		return true, err
	}
	return true, store.Save(ctx, key, fp)
}
