package mqtt

import "context"

// Publisher sends payloads to broker topics.
type Publisher interface {
	// Publish sends payload to topic. Retained messages are kept by the
	// broker and replayed to late subscribers.
	Publish(ctx context.Context, topic string, payload []byte, retained bool) error
	Disconnect()
}

// NopPublisher drops every message.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, string, []byte, bool) error { return nil }
func (NopPublisher) Disconnect()                                       {}
