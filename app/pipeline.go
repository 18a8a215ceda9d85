package app

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kilianp07/svitlo/core/fingerprint"
	coremetrics "github.com/kilianp07/svitlo/core/metrics"
	"github.com/kilianp07/svitlo/core/model"
	"github.com/kilianp07/svitlo/core/monitoring"
	"github.com/kilianp07/svitlo/core/runlog"
	"github.com/kilianp07/svitlo/core/schedule"
	"github.com/kilianp07/svitlo/core/source"
	"github.com/kilianp07/svitlo/infra/mqtt"
	"github.com/kilianp07/svitlo/pkg/export"
	"github.com/kilianp07/svitlo/render"
)

// RunOnce fetches upstream data, rebuilds the document and regenerates the
// artifacts whose inputs changed. Upstream and cache failures degrade the run
// but do not fail it. The returned error is reserved for failures that leave
// nothing published, such as an unwritable document or a broken fact table.
func (s *Service) RunOnce(ctx context.Context) (runlog.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := s.now()
	rec := runlog.Record{
		ID:        uuid.NewString(),
		Timestamp: start,
		Source:    s.source.Name(),
		Fetched:   []string{},
		Failed:    []string{},
	}
	tags := map[string]string{"module": "pipeline", "run_id": rec.ID}
	err := monitoring.Guard(tags, func() error { return s.run(ctx, start, &rec) })
	rec.DurationMS = s.now().Sub(start).Milliseconds()
	if err != nil {
		rec.Error = err.Error()
		monitoring.CaptureException(err, tags)
		s.log.Errorf("run %s failed: %v", rec.ID, err)
	} else {
		s.log.Infof("run %s done: changed=%t generated=%d skipped=%d", rec.ID, rec.Changed, rec.Generated, rec.Skipped)
	}
	if aerr := s.runs.Append(ctx, rec); aerr != nil {
		s.log.Warnf("append run log: %v", aerr)
	}
	s.bus.Publish(rec)
	return rec, err
}

func (s *Service) run(ctx context.Context, now time.Time, rec *runlog.Record) error {
	loc := s.Location()
	results, message := s.fetch(ctx, now)
	for _, q := range results.Fetched() {
		rec.Fetched = append(rec.Fetched, string(q))
	}
	for _, q := range results.Failed() {
		rec.Failed = append(rec.Failed, string(q))
	}

	ft, sel := s.transform.Transform(now, results)
	rec.Today = int64(ft.Today)
	rec.Kept, rec.Dropped = sel.Kept, sel.Dropped

	doc, err := export.NewDocument(s.region, ft, now, loc, message)
	if err != nil {
		return fmt.Errorf("build document: %w", err)
	}
	rec.ContentHash = doc.Meta.ContentHash
	docPath := s.cfg.Output.DocumentPath()
	if err := export.WriteAtomic(docPath, doc); err != nil {
		return fmt.Errorf("write document: %w", err)
	}
	published := append([]string{docPath}, s.writeExports(ft)...)

	changed, err := fingerprint.Changed(ctx, s.store, fingerprint.ContentKey, fingerprint.Fingerprint(doc.Meta.ContentHash))
	if err != nil {
		s.log.Warnf("content fingerprint: %v", err)
	}
	rec.Changed = changed

	gate := fingerprint.NewGate(s.store, s.log)
	out := s.renderArtifacts(ctx, ft, Artifacts(), s.cfg.Output.ImagesDir, gate)
	st := gate.Stats()
	rec.Artifacts = out.results
	rec.Checked, rec.Skipped, rec.Generated = st.Checked, st.Skipped, st.Generated
	s.recordOutages(ft, now)

	if !changed {
		return nil
	}
	s.notify(ctx, rec.ID, doc, ft, out.moved)
	s.upload(ctx, append(published, out.paths...))
	return nil
}

// fetch never fails: an unreachable upstream leaves every queue On and the
// reason is carried in the document status message.
func (s *Service) fetch(ctx context.Context, now time.Time) (source.Results, string) {
	name := s.source.Name()
	started := time.Now()
	results, err := s.source.Fetch(ctx)
	latency := time.Since(started)
	if err != nil {
		s.log.Errorf("fetch %s: %v", name, err)
		monitoring.CaptureException(err, map[string]string{"module": "source", "source": name})
		results = source.Results{}
	}
	if results == nil {
		results = source.Results{}
	}
	for _, q := range model.Queues {
		ivs, ok := results[q]
		s.recordFetch(coremetrics.FetchEvent{
			Source:    name,
			Queue:     string(q),
			OK:        ok,
			Intervals: len(ivs),
			Latency:   latency,
			Time:      now,
		})
	}
	switch failed := results.Failed(); {
	case err != nil:
		return results, fmt.Sprintf("upstream unavailable: %v", err)
	case len(failed) > 0:
		ids := make([]string, len(failed))
		for i, q := range failed {
			ids[i] = q.DisplayID()
		}
		s.log.Warnf("%d queues unavailable, published as on: %s", len(failed), strings.Join(ids, ", "))
		return results, "unavailable queues: " + strings.Join(ids, ", ")
	default:
		return results, ""
	}
}

// Artifacts lists every artifact of a run: one per queue, then the aggregate.
func Artifacts() []fingerprint.Artifact {
	out := make([]fingerprint.Artifact, 0, len(model.Queues)+1)
	for _, q := range model.Queues {
		out = append(out, fingerprint.QueueArtifact(q))
	}
	return append(out, fingerprint.AggregateArtifact())
}

// renderOutcome is what one pass over a set of artifacts produced.
type renderOutcome struct {
	results []runlog.ArtifactResult
	paths   []string
	// moved lists the queues whose stored fingerprint differed.
	moved []model.QueueKey
}

// renderArtifacts draws artifacts into dir. With a gate, all formats of an
// artifact are checked before any fingerprint is saved, and the fingerprint is
// only saved when every regenerated format was written. Without a gate every
// artifact is drawn.
func (s *Service) renderArtifacts(ctx context.Context, ft model.FactTable, artifacts []fingerprint.Artifact, dir string, gate *fingerprint.Gate) renderOutcome {
	var out renderOutcome
	for _, a := range artifacts {
		fp, err := a.Fingerprint(ft)
		if err != nil {
			s.log.Errorf("fingerprint %s: %v", a.Key, err)
			out.results = append(out.results, runlog.ArtifactResult{Key: a.Key, Error: err.Error()})
			continue
		}
		checks := make([]fingerprint.Check, len(s.renderers))
		moved := false
		for i, r := range s.renderers {
			path := filepath.Join(dir, a.Filename(r.Format()))
			if gate == nil {
				checks[i] = fingerprint.Check{Artifact: a, Path: path, Fingerprint: fp, Decision: fingerprint.Regenerate, Reason: "forced"}
				continue
			}
			checks[i] = gate.Check(ctx, a, path, fp)
			if checks[i].Decision == fingerprint.Regenerate && checks[i].Reason != fingerprint.ReasonMissing {
				moved = true
			}
		}
		written := true
		var view render.View
		for i, r := range s.renderers {
			c := checks[i]
			res := runlog.ArtifactResult{Key: a.Key, Format: r.Format(), Decision: c.Decision.String(), Reason: c.Reason, Path: c.Path}
			if c.Decision == fingerprint.Regenerate {
				if view.Rows == nil {
					view = render.ViewFor(a, ft, s.Location())
				}
				if err := export.WriteFileAtomic(c.Path, func(w io.Writer) error { return r.Render(w, view) }); err != nil {
					s.log.Errorf("render %s: %v", c.Path, err)
					res.Error = err.Error()
					written = false
				} else {
					out.paths = append(out.paths, c.Path)
				}
			}
			out.results = append(out.results, res)
			s.recordArtifact(coremetrics.ArtifactEvent{
				Artifact: a.Key,
				Format:   r.Format(),
				Decision: c.Decision.String(),
				Reason:   c.Reason,
				Time:     s.now(),
			})
		}
		if written && gate != nil {
			for _, c := range checks {
				gate.Commit(ctx, c)
			}
		}
		if moved && !a.Aggregate() {
			out.moved = append(out.moved, a.Queue)
		}
	}
	return out
}

// writeExports writes the tabular exports next to the document. Failures are
// logged and skipped.
func (s *Service) writeExports(ft model.FactTable) []string {
	base := strings.TrimSuffix(s.cfg.Output.DocumentPath(), ".json")
	var paths []string
	for _, format := range s.cfg.Output.Exports {
		var write func(io.Writer) error
		switch format {
		case "xlsx":
			write = func(w io.Writer) error { return export.WriteXLSX(w, ft, s.Location()) }
		case "csv":
			write = func(w io.Writer) error { return export.WriteCSV(w, ft, s.Location()) }
		default:
			s.log.Warnf("unknown export format %s", format)
			continue
		}
		path := base + "." + format
		if err := export.WriteFileAtomic(path, write); err != nil {
			s.log.Errorf("export %s: %v", path, err)
			continue
		}
		paths = append(paths, path)
	}
	return paths
}

func (s *Service) notify(ctx context.Context, runID string, doc export.Document, ft model.FactTable, queues []model.QueueKey) {
	if s.notifier == nil {
		return
	}
	u := mqtt.Update{
		RunID:       runID,
		Region:      s.region.ID,
		Today:       ft.Today,
		ContentHash: doc.Meta.ContentHash,
		UpdatedAt:   doc.Fact.Update,
		Queues:      make([]mqtt.QueueUpdate, 0, len(queues)),
	}
	for _, q := range queues {
		u.Queues = append(u.Queues, mqtt.QueueUpdate{
			Queue:    q,
			Today:    ft.Grid(ft.Today, q),
			Tomorrow: ft.Grid(ft.Tomorrow(), q),
		})
	}
	if err := s.notifier.Notify(ctx, u); err != nil {
		s.log.Errorf("notify: %v", err)
	}
}

func (s *Service) upload(ctx context.Context, paths []string) {
	if s.uploader == nil {
		return
	}
	if !s.bucketReady {
		if err := s.uploader.EnsureBucket(ctx); err != nil {
			s.log.Errorf("bucket: %v", err)
			monitoring.CaptureException(err, map[string]string{"module": "objectstore"})
			return
		}
		s.bucketReady = true
	}
	for _, p := range paths {
		if err := s.uploader.UploadFile(ctx, p); err != nil {
			s.log.Errorf("upload %s: %v", p, err)
			monitoring.CaptureException(err, map[string]string{"module": "objectstore", "file": filepath.Base(p)})
		}
	}
}

func (s *Service) recordOutages(ft model.FactTable, now time.Time) {
	rec, perQueue := s.sink.(coremetrics.OutageRecorder)
	dayRec, perDay := s.sink.(coremetrics.DaySummaryRecorder)
	for _, ds := range schedule.Summarize(ft) {
		day := ds.Day.Time(s.Location())
		s.log.Debugw("outage summary", map[string]any{
			"day":             day.Format("2006-01-02"),
			"total_off_hours": ds.TotalOffHours,
			"mean_off_hours":  ds.MeanOffHours,
			"max_off_hours":   ds.MaxOffHours,
			"queues_affected": ds.QueuesAffected,
		})
		if perDay {
			if err := dayRec.RecordDaySummary(coremetrics.DaySummaryEvent{
				Day:            day,
				TotalOffHours:  ds.TotalOffHours,
				MeanOffHours:   ds.MeanOffHours,
				MaxOffHours:    ds.MaxOffHours,
				QueuesAffected: ds.QueuesAffected,
				Time:           now,
			}); err != nil {
				s.log.Debugf("record day summary: %v", err)
			}
		}
		if !perQueue {
			continue
		}
		for _, qs := range ds.Queues {
			if err := rec.RecordOutage(coremetrics.OutageEvent{Day: day, Queue: string(qs.Queue), OffHours: qs.OffHours, Time: now}); err != nil {
				s.log.Debugf("record outage: %v", err)
			}
		}
	}
}

func (s *Service) recordFetch(ev coremetrics.FetchEvent) {
	if rec, ok := s.sink.(coremetrics.FetchRecorder); ok {
		if err := rec.RecordFetch(ev); err != nil {
			s.log.Debugf("record fetch: %v", err)
		}
	}
}

func (s *Service) recordArtifact(ev coremetrics.ArtifactEvent) {
	if rec, ok := s.sink.(coremetrics.ArtifactRecorder); ok {
		if err := rec.RecordArtifact(ev); err != nil {
			s.log.Debugf("record artifact: %v", err)
		}
	}
}
