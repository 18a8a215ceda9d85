// Package export builds the published GPV document and its tabular exports.
package export

import (
	"fmt"
	"time"

	"github.com/kilianp07/svitlo/core/fingerprint"
	"github.com/kilianp07/svitlo/core/model"
)

// UpdateLayout formats the human readable update time, e.g. "01.07.2025 14:05".
const UpdateLayout = "02.01.2006 15:04"

// StatusParsed is the only status the pipeline writes.
const StatusParsed = "parsed"

// Document is the durable GPV record consumed by downstream readers.
type Document struct {
	RegionID          string `json:"regionId"`
	LastUpdated       int64  `json:"lastUpdated"`
	Fact              Fact   `json:"fact"`
	Preset            Preset `json:"preset"`
	LastUpdateStatus  Status `json:"lastUpdateStatus"`
	RegionAffiliation string `json:"regionAffiliation"`
	Meta              Meta   `json:"meta"`
}

// Fact carries the grids for today and tomorrow.
type Fact struct {
	Data   map[string]map[string]model.DayGrid `json:"data"`
	Update string                              `json:"update"`
	Today  int64                               `json:"today"`
}

// Preset holds the display names readers use to label the grids.
type Preset struct {
	Days       map[string]string `json:"days"`
	SchNames   map[string]string `json:"sch_names"`
	UpdateFact string            `json:"updateFact"`
}

// Status describes the outcome of the fetch that produced the document.
type Status struct {
	Status  string  `json:"status"`
	OK      bool    `json:"ok"`
	Code    int     `json:"code"`
	Message *string `json:"message"`
	At      int64   `json:"at"`
	Attempt int     `json:"attempt"`
}

// Meta versions the document and fingerprints its fact data.
type Meta struct {
	SchemaVersion string `json:"schemaVersion"`
	ContentHash   string `json:"contentHash"`
}

// Region identifies the publisher of a document.
type Region struct {
	ID            string
	Affiliation   string
	SchemaVersion string
}

// Weekdays maps ISO weekday numbers to their Ukrainian names.
var Weekdays = map[string]string{
	"1": "Понеділок",
	"2": "Вівторок",
	"3": "Середа",
	"4": "Четвер",
	"5": "П'ятниця",
	"6": "Субота",
	"7": "Неділя",
}

// QueueNames maps every queue display id to its label.
func QueueNames() map[string]string {
	names := make(map[string]string, len(model.Queues))
	for _, q := range model.Queues {
		names[q.DisplayID()] = q.Label()
	}
	return names
}

// NewDocument assembles the document for ft. now is the generation instant;
// update strings are rendered in loc. A non-empty message is published in the
// status block, the status itself stays "parsed".
func NewDocument(region Region, ft model.FactTable, now time.Time, loc *time.Location, message string) (Document, error) {
	if err := ft.Validate(); err != nil {
		return Document{}, err
	}
	hash, err := fingerprint.Content(ft)
	if err != nil {
		return Document{}, fmt.Errorf("content hash: %w", err)
	}
	update := now.In(loc).Format(UpdateLayout)
	var msg *string
	if message != "" {
		msg = &message
	}
	return Document{
		RegionID:    region.ID,
		LastUpdated: now.Unix(),
		Fact: Fact{
			Data:   ft.Data(),
			Update: update,
			Today:  int64(ft.Today),
		},
		Preset: Preset{
			Days:       Weekdays,
			SchNames:   QueueNames(),
			UpdateFact: update,
		},
		LastUpdateStatus: Status{
			Status:  StatusParsed,
			OK:      true,
			Code:    200,
			Message: msg,
			At:      now.Unix(),
			Attempt: 1,
		},
		RegionAffiliation: region.Affiliation,
		Meta: Meta{
			SchemaVersion: region.SchemaVersion,
			ContentHash:   string(hash),
		},
	}, nil
}

// FactTable rebuilds the table of d. Missing queues read as all On.
func (d Document) FactTable() (model.FactTable, error) {
	return model.FactTableFromData(model.DayKey(d.Fact.Today), d.Fact.Data)
}
