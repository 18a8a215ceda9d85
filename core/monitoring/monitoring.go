package monitoring

import (
	"fmt"
	"time"
)

// Monitor defines methods used for error reporting.
type Monitor interface {
	CaptureException(err error, tags map[string]string)
	CapturePanic(v any, tags map[string]string)
	Flush(timeout time.Duration)
}

type NopMonitor struct{}

func (NopMonitor) CaptureException(error, map[string]string) {}
func (NopMonitor) CapturePanic(any, map[string]string)       {}
func (NopMonitor) Flush(time.Duration)                       {}

var current Monitor = NopMonitor{}

// Init sets the global monitor implementation.
func Init(m Monitor) {
	if m != nil {
		current = m
	}
}

// CaptureException records the error with optional tags.
func CaptureException(err error, tags map[string]string) {
	if err != nil {
		current.CaptureException(err, tags)
	}
}

// Guard runs fn and converts a panic into an error. The panic is reported to
// the monitor with tags before returning.
func Guard(tags map[string]string, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			current.CapturePanic(r, tags)
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return fn()
}

// Flush flushes buffered events.
func Flush(d time.Duration) {
	current.Flush(d)
}
