// Package runlog provides run history stores backed by rotating JSONL files or
// SQLite.
package runlog

import (
	"fmt"

	"github.com/kilianp07/svitlo/config"
	"github.com/kilianp07/svitlo/core/runlog"
)

// New builds the store selected by cfg.Backend.
func New(cfg config.RunLogConfig) (runlog.Store, error) {
	switch cfg.Backend {
	case "", "none":
		return runlog.NopStore{}, nil
	case "jsonl":
		return NewJSONLStore(cfg.Path, cfg.MaxSizeMB, cfg.MaxBackups, cfg.MaxAgeDays)
	case "sqlite":
		return NewSQLiteStore(cfg.Path)
	default:
		return nil, fmt.Errorf("runlog: unknown backend %q", cfg.Backend)
	}
}
