package monitoring

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type recordingMonitor struct {
	errs   []error
	panics []any
	tags   map[string]string
}

func (r *recordingMonitor) CaptureException(err error, tags map[string]string) {
	r.errs = append(r.errs, err)
	r.tags = tags
}

func (r *recordingMonitor) CapturePanic(v any, tags map[string]string) {
	r.panics = append(r.panics, v)
	r.tags = tags
}

func (r *recordingMonitor) Flush(time.Duration) {}

func TestGuardCapturesPanic(t *testing.T) {
	rec := &recordingMonitor{}
	Init(rec)
	defer Init(NopMonitor{})

	err := Guard(map[string]string{"job": "run"}, func() error {
		panic("grid shape")
	})
	assert.EqualError(t, err, "panic: grid shape")
	assert.Equal(t, []any{"grid shape"}, rec.panics)
	assert.Equal(t, "run", rec.tags["job"])

	boom := errors.New("boom")
	assert.ErrorIs(t, Guard(nil, func() error { return boom }), boom)

	CaptureException(nil, nil)
	CaptureException(boom, nil)
	assert.Len(t, rec.errs, 1)
}
