package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/kilianp07/svitlo/core/model"
)

// Fingerprint is a hex encoded sha256 digest.
type Fingerprint string

// Of hashes the JSON encoding of v. Map keys are emitted sorted, so equal
// content always yields an equal fingerprint.
func Of(v any) (Fingerprint, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("canonical encoding: %w", err)
	}
	return Bytes(b), nil
}

// Bytes hashes raw bytes.
func Bytes(b []byte) Fingerprint {
	sum := sha256.Sum256(b)
	return Fingerprint(hex.EncodeToString(sum[:]))
}

// Queue fingerprints the today and tomorrow grids of one queue together.
func Queue(ft model.FactTable, q model.QueueKey) (Fingerprint, error) {
	return Of(map[string]model.DayGrid{
		"today":    ft.Grid(ft.Today, q),
		"tomorrow": ft.Grid(ft.Tomorrow(), q),
	})
}

// AggregateTomorrow fingerprints the tomorrow grids of every queue.
func AggregateTomorrow(ft model.FactTable) (Fingerprint, error) {
	grids := make(map[string]model.DayGrid, len(model.Queues))
	for _, q := range model.Queues {
		grids[q.DisplayID()] = ft.Grid(ft.Tomorrow(), q)
	}
	return Of(grids)
}

// Content fingerprints the whole table in its serialized layout. It is the
// content hash published with the document. The digest covers Go's compact
// JSON, so it never equals the contentHash of documents written by the
// legacy Python producer (spaced separators, string-sorted slot keys).
func Content(ft model.FactTable) (Fingerprint, error) {
	return Of(ft.Data())
}
