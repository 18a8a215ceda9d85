package metrics

import (
	"context"
	"time"

	coremetrics "github.com/kilianp07/svitlo/core/metrics"
	"github.com/kilianp07/svitlo/core/runlog"
	"github.com/kilianp07/svitlo/internal/eventbus"
)

// RunEventFromRecord converts a run log record into the sink event.
func RunEventFromRecord(rec runlog.Record) coremetrics.RunEvent {
	return coremetrics.RunEvent{
		RunID:            rec.ID,
		Time:             rec.Timestamp,
		Duration:         time.Duration(rec.DurationMS) * time.Millisecond,
		ContentChanged:   rec.Changed,
		FetchedQueues:    len(rec.Fetched),
		FailedQueues:     len(rec.Failed),
		KeptIntervals:    rec.Kept,
		DroppedIntervals: rec.Dropped,
		Checked:          rec.Checked,
		Skipped:          rec.Skipped,
		Generated:        rec.Generated,
		Err:              rec.Error,
	}
}

// StartRunCollector subscribes to the run bus and records every finished run
// in sink. It stops when ctx is canceled or the bus is closed. The returned
// channel is closed once the collector has exited.
func StartRunCollector(ctx context.Context, bus *eventbus.Bus[runlog.Record], sink coremetrics.MetricsSink) <-chan struct{} {
	done := make(chan struct{})
	if bus == nil || sink == nil {
		close(done)
		return done
	}
	sub := bus.Subscribe()
	go func() {
		defer close(done)
		defer bus.Unsubscribe(sub)
		for {
			select {
			case <-ctx.Done():
				return
			case rec, ok := <-sub:
				if !ok {
					return
				}
				_ = sink.RecordRun(RunEventFromRecord(rec))
			}
		}
	}()
	return done
}
