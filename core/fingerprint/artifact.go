package fingerprint

import (
	"strings"

	"github.com/kilianp07/svitlo/core/model"
)

// ContentKey stores the fingerprint of the whole table.
const ContentKey = "fact-data"

// Artifact identifies one renderable output.
type Artifact struct {
	Key   string
	Queue model.QueueKey // empty for the aggregate artifact
}

// QueueArtifact is the per-queue image of today and tomorrow.
func QueueArtifact(q model.QueueKey) Artifact {
	return Artifact{Key: "gpv-" + strings.ReplaceAll(string(q), ".", "-") + "-emergency", Queue: q}
}

// AggregateArtifact is the image of all queues for tomorrow.
func AggregateArtifact() Artifact {
	return Artifact{Key: "gpv-all-tomorrow"}
}

// Aggregate reports whether a covers all queues.
func (a Artifact) Aggregate() bool { return a.Queue == "" }

// Filename returns the artifact file name for ext, e.g. "png".
func (a Artifact) Filename(ext string) string {
	return SafeKey(a.Key) + "." + strings.TrimPrefix(ext, ".")
}

// Fingerprint computes the fingerprint of the data a renders.
func (a Artifact) Fingerprint(ft model.FactTable) (Fingerprint, error) {
	if a.Aggregate() {
		return AggregateTomorrow(ft)
	}
	return Queue(ft, a.Queue)
}

// SafeKey maps an artifact key to a name usable as a file name. Letters,
// digits, '-' and '_' are kept, everything else becomes '-'.
func SafeKey(key string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(key) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('-')
		}
	}
	return b.String()
}
