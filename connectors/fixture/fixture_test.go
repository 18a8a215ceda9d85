package fixture

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/svitlo/core/logger"
	"github.com/kilianp07/svitlo/core/model"
)

func TestFixtureYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fixture.yaml")
	data := `queues:
  "1.1":
    - start: "today 07:15"
      end: "today 09:10"
    - start: "2025-01-11 14:00"
      end: "2025-01-11 16:00"
  GPV2.2: []
  "9.9":
    - start: "today 01:00"
      end: "today 02:00"
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	loc := time.FixedZone("UTC+2", 7200)
	s := New(path, loc)
	s.SetLogger(logger.Nop{})
	s.SetClock(func() time.Time { return time.Date(2025, 1, 10, 5, 0, 0, 0, time.UTC) })

	res, err := s.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []model.QueueKey{"1.1", "2.2"}, res.Fetched())
	require.Len(t, res["1.1"], 2)
	assert.Equal(t, time.Date(2025, 1, 10, 7, 15, 0, 0, loc), res["1.1"][0].Start)
	assert.Empty(t, res["2.2"])
}

func TestFixtureJSONAndErrors(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "fixture.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"queues":{"3.1":[{"start":"tomorrow 23:40","end":"tomorrow 23:59"}]}}`), 0o644))
	f, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, f.Queues["3.1"], 1)

	_, err = Load(filepath.Join(dir, "fixture.toml"))
	assert.Error(t, err)
	_, err = New(filepath.Join(dir, "missing.yaml"), time.UTC).Fetch(context.Background())
	assert.Error(t, err)
}
