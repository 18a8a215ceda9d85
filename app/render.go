package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/kilianp07/svitlo/core/fingerprint"
	"github.com/kilianp07/svitlo/core/model"
	"github.com/kilianp07/svitlo/pkg/export"
)

// RenderResult reports a render-from-document pass.
type RenderResult struct {
	Written []string
	Stats   fingerprint.Stats
}

// RenderFromDocument redraws artifacts from a published document without
// touching upstream. An empty queue selects every artifact, otherwise only
// the artifact of that queue. Files go to outDir, or to the configured images
// directory when outDir is empty. Unless force is set, the artifacts go through
// the same change gate as a pipeline run.
func (s *Service) RenderFromDocument(ctx context.Context, path, queue, outDir string, force bool) (RenderResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := export.ReadDocument(path)
	if err != nil {
		return RenderResult{}, err
	}
	ft, err := doc.FactTable()
	if err != nil {
		return RenderResult{}, fmt.Errorf("%s: %w", path, err)
	}
	artifacts := Artifacts()
	if queue != "" {
		q, err := model.ParseQueue(queue)
		if err != nil {
			return RenderResult{}, err
		}
		artifacts = []fingerprint.Artifact{fingerprint.QueueArtifact(q)}
	}
	if outDir == "" {
		outDir = s.cfg.Output.ImagesDir
	}
	var gate *fingerprint.Gate
	if !force {
		gate = fingerprint.NewGate(s.store, s.log)
	}
	out := s.renderArtifacts(ctx, ft, artifacts, outDir, gate)

	res := RenderResult{Written: out.paths}
	if gate != nil {
		res.Stats = gate.Stats()
	} else {
		res.Stats = fingerprint.Stats{Checked: len(out.results), Generated: len(out.paths)}
	}
	var errs []error
	for _, r := range out.results {
		if r.Error != "" {
			errs = append(errs, fmt.Errorf("%s.%s: %s", r.Key, r.Format, r.Error))
		}
	}
	s.log.Infof("rendered %s: checked=%d skipped=%d generated=%d", path, res.Stats.Checked, res.Stats.Skipped, res.Stats.Generated)
	return res, errors.Join(errs...)
}
