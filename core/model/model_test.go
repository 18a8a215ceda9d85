package model

import (
	"encoding/json"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var kyiv = time.FixedZone("UTC+2", 2*3600)

func TestSlotStateWireNames(t *testing.T) {
	tests := []struct {
		state SlotState
		name  string
	}{
		{On, "yes"},
		{Off, "no"},
		{OffFirstHalf, "first"},
		{OffSecondHalf, "second"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.name, tt.state.String())
		parsed, err := ParseSlotState(tt.name)
		require.NoError(t, err)
		assert.Equal(t, tt.state, parsed)
	}
	_, err := ParseSlotState("maybe")
	assert.Error(t, err)
	assert.False(t, SlotState(7).Valid())
}

func TestParseQueue(t *testing.T) {
	q, err := ParseQueue("GPV3.2")
	require.NoError(t, err)
	assert.Equal(t, QueueKey("3.2"), q)
	assert.Equal(t, "GPV3.2", q.DisplayID())
	assert.Equal(t, "Черга 3.2", q.Label())
	assert.Equal(t, "3", q.Group())

	q, err = ParseQueue(" 6.1 ")
	require.NoError(t, err)
	assert.Equal(t, QueueKey("6.1"), q)

	_, err = ParseQueue("7.1")
	assert.Error(t, err)
	assert.Len(t, Queues, 12)
}

func TestParseLocalTimestamp(t *testing.T) {
	for _, s := range []string{"2025-01-10T07:15:00", "2025-01-10 07:15:00", "2025-01-10T07:15", "2025-01-10 07:15:00.123456"} {
		ts, err := ParseLocalTimestamp(s, kyiv)
		require.NoError(t, err, s)
		assert.Equal(t, 7, ts.Hour())
		assert.Equal(t, 15, ts.Minute())
		assert.Equal(t, kyiv, ts.Location())
	}
	_, err := ParseLocalTimestamp("10.01.2025 07:15", kyiv)
	assert.Error(t, err)

	_, err = NewRawInterval("1.1", "2025-01-10T07:15:00", "garbage", kyiv)
	assert.Error(t, err)
}

func TestDayGridJSON(t *testing.T) {
	var g DayGrid
	g.Set(1, Off)
	g.Set(24, OffSecondHalf)
	g.Set(25, Off)
	g.Set(0, Off)

	b, err := json.Marshal(g)
	require.NoError(t, err)
	assert.Contains(t, string(b), `{"1":"no","2":"yes"`)
	assert.Contains(t, string(b), `"24":"second"}`)

	var back DayGrid
	require.NoError(t, json.Unmarshal(b, &back))
	assert.Equal(t, g, back)
	assert.Equal(t, 1.5, back.OffHours())

	assert.Error(t, json.Unmarshal([]byte(`{"25":"no"}`), &back))
	assert.Error(t, json.Unmarshal([]byte(`{"3":"dark"}`), &back))

	g[3] = SlotState(9)
	_, err = json.Marshal(g)
	assert.Error(t, err)
}

func TestFactTableShape(t *testing.T) {
	today := DayKeyOf(time.Date(2025, 1, 10, 13, 45, 0, 0, kyiv))
	assert.Equal(t, DayKey(time.Date(2025, 1, 10, 0, 0, 0, 0, kyiv).Unix()), today)

	ft := NewFactTable(today)
	require.NoError(t, ft.Validate())
	assert.Equal(t, today+86400, ft.Tomorrow())
	for _, day := range ft.Days() {
		assert.Len(t, ft.Grids[day], 12)
	}

	delete(ft.Grids[ft.Tomorrow()], "4.1")
	err := ft.Validate()
	assert.True(t, errors.Is(err, ErrIncompleteTable))
	assert.Panics(t, ft.MustValidate)
}

func TestFactTableDataRoundTrip(t *testing.T) {
	today := DayKeyOf(time.Date(2025, 1, 10, 0, 0, 0, 0, kyiv))
	ft := NewFactTable(today)
	g := ft.Grids[ft.Tomorrow()]["2.2"]
	g.Set(5, OffFirstHalf)
	ft.Grids[ft.Tomorrow()]["2.2"] = g

	data := ft.Data()
	require.Len(t, data, 2)
	assert.Equal(t, OffFirstHalf, data[strconv.FormatInt(int64(ft.Tomorrow()), 10)]["GPV2.2"].Slot(5))

	back, err := FactTableFromData(today, data)
	require.NoError(t, err)
	assert.Equal(t, ft, back)

	_, err = FactTableFromData(today, map[string]map[string]DayGrid{"x": {}})
	assert.Error(t, err)
}
