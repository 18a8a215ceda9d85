package source

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/kilianp07/svitlo/core/model"
)

func TestResultsFetchedAndFailed(t *testing.T) {
	r := Results{}
	r.Set("1.1", nil)
	r.Set("6.2", []model.RawInterval{{Queue: "6.2"}})

	assert.Equal(t, []model.QueueKey{"1.1", "6.2"}, r.Fetched())
	assert.Len(t, r.Failed(), 10)
	assert.NotNil(t, r["1.1"])
	assert.Equal(t, 1, r.Count())
}

func TestParseRecordsSkipsMalformed(t *testing.T) {
	loc := time.FixedZone("UTC+2", 7200)
	ivs, dropped := ParseRecords("2.2", []Record{
		{Start: "2025-01-10T07:15:00", End: "2025-01-10T09:10:00"},
		{Start: "tomorrow", End: "2025-01-10T09:10:00"},
	}, loc, nil)
	assert.Equal(t, 1, dropped)
	if assert.Len(t, ivs, 1) {
		assert.Equal(t, model.QueueKey("2.2"), ivs[0].Queue)
		assert.Equal(t, 7, ivs[0].Start.Hour())
	}
}
