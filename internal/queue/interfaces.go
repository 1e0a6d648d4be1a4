package queue

import "context"

// Consumer applies mark-read commands arriving from a broker until ctx ends.
type Consumer interface {
	Start(ctx context.Context) error
}

// Publisher sends read events to a broker.
type Publisher interface {
	Publish(ctx context.Context, payload []byte, routingKey string) error
	Close() error
}

// ReadRoutingKey is the routing key for read events under prefix.
func ReadRoutingKey(prefix string) string {
	if prefix == "" {
		prefix = "notification"
	}
	return prefix + ".read"
}
