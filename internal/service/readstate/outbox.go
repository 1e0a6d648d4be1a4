package readstate

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"
	"markread_demo/internal/config"
	"markread_demo/internal/model"
	"markread_demo/internal/queue"
)

const (
	outboxSize     = 256
	publishTimeout = 5 * time.Second
)

// Outbox queues read events for the broker. Enqueue never blocks; Run drains
// the queue on its own goroutine.
type Outbox struct {
	events     chan model.ReadEvent
	pub        queue.Publisher
	routingKey string
	log        *zap.Logger
}

func NewOutbox(cfg *config.Config, publisher queue.Publisher, logger *zap.Logger) *Outbox {
	return &Outbox{
		events:     make(chan model.ReadEvent, outboxSize),
		pub:        publisher,
		routingKey: queue.ReadRoutingKey(cfg.RabbitPublishPrefix),
		log:        logger,
	}
}

// Enqueue reports whether event was accepted. Events are dropped while the
// queue is full.
func (o *Outbox) Enqueue(event model.ReadEvent) bool {
	select {
	case o.events <- event:
		return true
	default:
		return false
	}
}

// Run publishes queued events until ctx ends, then closes the publisher.
// Events still queued at that point are dropped.
func (o *Outbox) Run(ctx context.Context) {
	defer func() {
		if err := o.pub.Close(); err != nil {
			o.log.Warn("publisher close failed", zap.Error(err))
		}
	}()
	for {
		select {
		case <-ctx.Done():
			if n := len(o.events); n > 0 {
				o.log.Warn("read events dropped on shutdown", zap.Int("count", n))
			}
			return
		case event := <-o.events:
			o.publish(ctx, event)
		}
	}
}

func (o *Outbox) publish(ctx context.Context, event model.ReadEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		o.log.Error("read event marshal failed", zap.Error(err))
		return
	}
	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()
	if err := o.pub.Publish(ctx, payload, o.routingKey); err != nil {
		o.log.Error("publish read event failed",
			zap.String("notification_id", event.NotificationID),
			zap.Error(err),
		)
	}
}
