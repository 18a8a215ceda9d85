package cmd

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/svitlo/core/model"
)

func TestWriteGrid(t *testing.T) {
	loc := time.FixedZone("UTC+2", 7200)
	ft := model.NewFactTable(model.DayKeyOf(time.Date(2025, 7, 1, 9, 0, 0, 0, loc)))
	g := ft.Grids[ft.Tomorrow()]["3.2"]
	g.Set(1, model.Off)
	g.Set(2, model.OffFirstHalf)
	g.Set(24, model.OffSecondHalf)
	ft.Grids[ft.Tomorrow()]["3.2"] = g

	var buf bytes.Buffer
	require.NoError(t, writeGrid(&buf, ft, "3.2", loc))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, "GPV3.2  Черга 3.2", lines[0])
	assert.True(t, strings.HasPrefix(lines[2], "01.07.2025"))
	assert.True(t, strings.HasSuffix(lines[2], " 0.0"))
	assert.True(t, strings.HasPrefix(lines[3], "02.07.2025  #  <  ."))
	assert.Contains(t, lines[3], ">   ")
	assert.True(t, strings.HasSuffix(lines[3], " 2.0"))
}
