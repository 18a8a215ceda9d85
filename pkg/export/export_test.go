package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/kilianp07/svitlo/core/fingerprint"
	"github.com/kilianp07/svitlo/core/model"
)

var kyiv = time.FixedZone("UTC+2", 2*3600)

func sampleTable() model.FactTable {
	today := model.DayKeyOf(time.Date(2025, 7, 1, 0, 0, 0, 0, kyiv))
	ft := model.NewFactTable(today)
	g := ft.Grids[ft.Tomorrow()]["1.1"]
	g.Set(15, model.Off)
	g.Set(16, model.OffFirstHalf)
	ft.Grids[ft.Tomorrow()]["1.1"] = g
	return ft
}

var region = Region{ID: "vinnytsia", Affiliation: "Вінницька область", SchemaVersion: "1.0.0"}

func TestNewDocument(t *testing.T) {
	ft := sampleTable()
	now := time.Date(2025, 7, 1, 12, 5, 0, 0, time.UTC)
	doc, err := NewDocument(region, ft, now, kyiv, "")
	require.NoError(t, err)

	assert.Equal(t, "vinnytsia", doc.RegionID)
	assert.Equal(t, now.Unix(), doc.LastUpdated)
	assert.Equal(t, "01.07.2025 14:05", doc.Fact.Update)
	assert.Equal(t, doc.Fact.Update, doc.Preset.UpdateFact)
	assert.Equal(t, int64(ft.Today), doc.Fact.Today)
	assert.Len(t, doc.Fact.Data, 2)
	assert.Len(t, doc.Preset.SchNames, 12)
	assert.Equal(t, "Черга 3.2", doc.Preset.SchNames["GPV3.2"])
	assert.Equal(t, "Неділя", doc.Preset.Days["7"])
	assert.Equal(t, Status{Status: "parsed", OK: true, Code: 200, At: now.Unix(), Attempt: 1}, doc.LastUpdateStatus)
	assert.Equal(t, "Вінницька область", doc.RegionAffiliation)

	hash, err := fingerprint.Content(ft)
	require.NoError(t, err)
	assert.Equal(t, string(hash), doc.Meta.ContentHash)
	assert.Equal(t, "1.0.0", doc.Meta.SchemaVersion)
}

func TestNewDocumentMessageAndInvalidTable(t *testing.T) {
	doc, err := NewDocument(region, sampleTable(), time.Now(), kyiv, "GPV2.1 unavailable")
	require.NoError(t, err)
	require.NotNil(t, doc.LastUpdateStatus.Message)
	assert.Equal(t, "GPV2.1 unavailable", *doc.LastUpdateStatus.Message)

	_, err = NewDocument(region, model.FactTable{}, time.Now(), kyiv, "")
	assert.ErrorIs(t, err, model.ErrIncompleteTable)
}

func TestDocumentJSONShape(t *testing.T) {
	doc, err := NewDocument(region, sampleTable(), time.Unix(1751371500, 0), kyiv, "")
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, doc))

	var raw map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &raw))
	for _, k := range []string{"regionId", "lastUpdated", "fact", "preset", "lastUpdateStatus", "regionAffiliation", "meta"} {
		assert.Contains(t, raw, k)
	}
	status := raw["lastUpdateStatus"].(map[string]any)
	assert.Contains(t, status, "message")
	assert.Nil(t, status["message"])
	assert.Contains(t, buf.String(), "\n  \"regionId\": \"vinnytsia\"")
	assert.Contains(t, buf.String(), "Черга 1.1", "non-ASCII stays unescaped")

	data := raw["fact"].(map[string]any)["data"].(map[string]any)
	require.Len(t, data, 2)
	for _, queues := range data {
		assert.Len(t, queues.(map[string]any), 12)
	}
}

func TestWriteAtomicAndRead(t *testing.T) {
	ft := sampleTable()
	doc, err := NewDocument(region, ft, time.Now(), kyiv, "")
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "data", "Vinnytsiaoblenerho.json")
	require.NoError(t, WriteAtomic(path, doc))
	require.NoError(t, WriteAtomic(path, doc))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary files are removed")

	back, err := ReadDocument(path)
	require.NoError(t, err)
	assert.Equal(t, doc.Meta, back.Meta)
	rebuilt, err := back.FactTable()
	require.NoError(t, err)
	assert.Equal(t, ft, rebuilt)
}

func TestWriteAtomicKeepsOldFileOnFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.json")
	require.NoError(t, os.WriteFile(path, []byte("old"), 0o644))
	err := WriteFileAtomic(path, func(w io.Writer) error {
		_, _ = w.Write([]byte("partial"))
		return assert.AnError
	})
	require.Error(t, err)
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "old", string(b))
}

func TestReadDocumentErrors(t *testing.T) {
	_, err := ReadDocument(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
	bad := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{"), 0o644))
	_, err = ReadDocument(bad)
	assert.Error(t, err)
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleTable(), kyiv))
	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 1+2*12*24)
	assert.Equal(t, []string{"day", "queue", "slot", "hour", "state"}, rows[0])
	assert.Equal(t, []string{"2025-07-01", "GPV1.1", "1", "00-01", "yes"}, rows[1])
	// tomorrow block starts after 12*24 rows; GPV1.1 is its first queue
	assert.Equal(t, []string{"2025-07-02", "GPV1.1", "15", "14-15", "no"}, rows[1+12*24+14])
	assert.Equal(t, []string{"2025-07-02", "GPV1.1", "16", "15-16", "first"}, rows[1+12*24+15])
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, sampleTable(), kyiv))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()
	assert.Equal(t, []string{"2025-07-01", "2025-07-02"}, f.GetSheetList())

	v, err := f.GetCellValue("2025-07-02", "A2")
	require.NoError(t, err)
	assert.Equal(t, "GPV1.1", v)
	v, err = f.GetCellValue("2025-07-02", "P2")
	require.NoError(t, err)
	assert.Equal(t, "no", v)
	v, err = f.GetCellValue("2025-07-02", "Q2")
	require.NoError(t, err)
	assert.Equal(t, "first", v)
	v, err = f.GetCellValue("2025-07-02", "Z2")
	require.NoError(t, err)
	assert.Equal(t, "1.5", v)
}
