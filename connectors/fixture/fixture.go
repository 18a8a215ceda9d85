package fixture

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/kilianp07/svitlo/core/logger"
	"github.com/kilianp07/svitlo/core/model"
	"github.com/kilianp07/svitlo/core/source"
	infralogger "github.com/kilianp07/svitlo/infra/logger"
)

const Name = "fixture"

// File is the recorded upstream state. Queues listed with no records are
// fetched and outage free; queues not listed failed to fetch.
type File struct {
	Queues map[string][]source.Record `json:"queues" yaml:"queues"`
}

// Source replays a YAML or JSON fixture. Timestamps may start with "today" or
// "tomorrow" instead of a date, resolved against the clock in the configured
// zone.
type Source struct {
	path string
	loc  *time.Location
	now  func() time.Time
	log  logger.Logger
}

// New returns a fixture source reading path.
func New(path string, loc *time.Location) *Source {
	return &Source{path: path, loc: loc, now: time.Now, log: infralogger.New("fixture")}
}

func (s *Source) Name() string { return Name }

func (s *Source) SetLogger(l logger.Logger) { s.log = logger.OrNop(l) }

// SetClock overrides the clock used for relative dates.
func (s *Source) SetClock(now func() time.Time) { s.now = now }

// Load decodes a fixture file by extension.
func Load(path string) (File, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return File{}, err
	}
	var f File
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(b, &f)
	case ".json":
		err = json.Unmarshal(b, &f)
	default:
		return File{}, fmt.Errorf("unsupported fixture format: %s", filepath.Ext(path))
	}
	if err != nil {
		return File{}, fmt.Errorf("decode fixture %s: %w", path, err)
	}
	return f, nil
}

func (s *Source) Fetch(ctx context.Context) (source.Results, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := Load(s.path)
	if err != nil {
		return nil, err
	}
	today := s.now().In(s.loc).Format("2006-01-02")
	tomorrow := s.now().In(s.loc).AddDate(0, 0, 1).Format("2006-01-02")
	results := source.Results{}
	for key, records := range f.Queues {
		q, err := model.ParseQueue(key)
		if err != nil {
			s.log.Warnf("fixture: %v", err)
			continue
		}
		resolved := make([]source.Record, len(records))
		for i, r := range records {
			resolved[i] = source.Record{
				Start: resolveDay(r.Start, today, tomorrow),
				End:   resolveDay(r.End, today, tomorrow),
			}
		}
		intervals, _ := source.ParseRecords(q, resolved, s.loc, s.log)
		results.Set(q, intervals)
	}
	return results, nil
}

func resolveDay(ts, today, tomorrow string) string {
	switch {
	case strings.HasPrefix(ts, "today "):
		return today + strings.TrimPrefix(ts, "today")
	case strings.HasPrefix(ts, "tomorrow "):
		return tomorrow + strings.TrimPrefix(ts, "tomorrow")
	default:
		return ts
	}
}
