package mqtt

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/kilianp07/svitlo/core/model"
	coremqtt "github.com/kilianp07/svitlo/core/mqtt"
	"github.com/kilianp07/svitlo/infra/logger"
)

// QueueUpdate carries both grids of a queue whose fingerprint changed.
type QueueUpdate struct {
	Queue    model.QueueKey
	Today    model.DayGrid
	Tomorrow model.DayGrid
}

// Update describes one schedule change.
type Update struct {
	RunID       string
	Region      string
	Today       model.DayKey
	ContentHash string
	UpdatedAt   string
	Queues      []QueueUpdate
}

type updateMessage struct {
	RunID         string   `json:"run_id"`
	Region        string   `json:"region"`
	Today         int64    `json:"today"`
	ContentHash   string   `json:"content_hash"`
	UpdatedAt     string   `json:"updated_at"`
	ChangedQueues []string `json:"changed_queues"`
}

type queueMessage struct {
	Queue     string        `json:"queue"`
	Label     string        `json:"label"`
	Today     model.DayGrid `json:"today"`
	Tomorrow  model.DayGrid `json:"tomorrow"`
	UpdatedAt string        `json:"updated_at"`
}

// Notifier announces schedule changes on MQTT. Per-queue grids are retained
// so a subscriber connecting later still gets the current state.
type Notifier struct {
	pub    coremqtt.Publisher
	prefix string
	log    logger.Logger
}

// NewNotifier publishes under prefix using pub.
func NewNotifier(pub coremqtt.Publisher, prefix string) *Notifier {
	return &Notifier{pub: pub, prefix: prefix, log: logger.New("notifier")}
}

// UpdateTopic receives one summary message per change.
func (n *Notifier) UpdateTopic() string { return n.prefix + "/update" }

// QueueTopic holds the retained grids of q.
func (n *Notifier) QueueTopic(q model.QueueKey) string { return n.prefix + "/" + q.DisplayID() }

// Notify publishes every changed queue, then the summary. Failures are
// collected so one bad publish does not hide the rest.
func (n *Notifier) Notify(ctx context.Context, u Update) error {
	var errs []error
	changed := make([]string, 0, len(u.Queues))
	for _, qu := range u.Queues {
		changed = append(changed, qu.Queue.DisplayID())
		payload, err := json.Marshal(queueMessage{
			Queue:     qu.Queue.DisplayID(),
			Label:     qu.Queue.Label(),
			Today:     qu.Today,
			Tomorrow:  qu.Tomorrow,
			UpdatedAt: u.UpdatedAt,
		})
		if err != nil {
			errs = append(errs, fmt.Errorf("encode %s: %w", qu.Queue, err))
			continue
		}
		if err := n.pub.Publish(ctx, n.QueueTopic(qu.Queue), payload, true); err != nil {
			errs = append(errs, err)
		}
	}
	payload, err := json.Marshal(updateMessage{
		RunID:         u.RunID,
		Region:        u.Region,
		Today:         int64(u.Today),
		ContentHash:   u.ContentHash,
		UpdatedAt:     u.UpdatedAt,
		ChangedQueues: changed,
	})
	if err != nil {
		errs = append(errs, fmt.Errorf("encode update: %w", err))
	} else if err := n.pub.Publish(ctx, n.UpdateTopic(), payload, false); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	n.log.Infof("announced change %s for %d queues", u.ContentHash, len(u.Queues))
	return nil
}
