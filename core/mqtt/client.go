package mqtt

import "context"

// Publisher sends allocation reports to a message broker.
type Publisher interface {
	// Publish delivers payload on topic, retrying transient failures until
	// ctx is done.
	Publish(ctx context.Context, topic string, payload []byte) error
	// Disconnect closes the broker connection.
	Disconnect()
}
