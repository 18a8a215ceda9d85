package mqtt

import "errors"

// ErrPublishTimeout is returned when the broker does not confirm a publish in time.
var ErrPublishTimeout = errors.New("timeout waiting for publish confirmation")

// ErrNotConnected is returned when publishing on a client that never connected.
var ErrNotConnected = errors.New("mqtt client not connected")
