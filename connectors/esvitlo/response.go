package esvitlo

import (
	"encoding/json"

	"github.com/kilianp07/svitlo/core/source"
)

// disconnectionsResponse is the body of show_only_disconnections.
type disconnectionsResponse struct {
	PlannedListCab []plannedItem `json:"planned_list_cab"`
}

type plannedItem struct {
	AccidentID json.Number `json:"accidentid"`
	Begin      string      `json:"acc_begin"`
	EndPlan    string      `json:"accend_plan"`
	TypeID     json.Number `json:"typeid"`
}

// planned reports whether the item is a scheduled outage rather than an
// accident.
func (p plannedItem) planned() bool {
	return p.AccidentID == "0"
}

func (r disconnectionsResponse) records() []source.Record {
	out := make([]source.Record, 0, len(r.PlannedListCab))
	for _, item := range r.PlannedListCab {
		if !item.planned() {
			continue
		}
		out = append(out, source.Record{Start: item.Begin, End: item.EndPlan})
	}
	return out
}
