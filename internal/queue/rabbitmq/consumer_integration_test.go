//go:build integration

package rabbitmq

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"markread_demo/internal/config"
	"markread_demo/internal/metrics"
	"markread_demo/internal/service/readstate"
	"markread_demo/internal/sse"
	"markread_demo/internal/store/memory"
)

func TestConsumerIntegration(t *testing.T) {
	ctx := context.Background()
	amqpURL, cleanup := setupRabbitMQContainer(t, ctx)
	defer cleanup()

	cfg := &config.Config{
		RabbitMQURL:         amqpURL,
		RabbitExchange:      "notifications",
		RabbitQueue:         "notifications.mark-read",
		RabbitRoutingKey:    "notification.mark-read",
		RabbitConsumerTag:   "mark-read-consumer",
		RabbitPublishPrefix: "notification",
	}

	m, err := metrics.New(prometheus.NewRegistry())
	require.NoError(t, err)
	repo := memory.New(zap.NewNop())
	svc := readstate.NewService(repo, sse.NewHub(), readstate.NewOutbox(cfg, NewPublisher(cfg, zap.NewNop()), zap.NewNop()), m, zap.NewNop())
	consumer := NewConsumer(cfg, svc, zap.NewNop())

	consumeCtx, cancel := context.WithCancel(ctx)
	errCh := make(chan error, 1)
	go func() {
		errCh <- consumer.Start(consumeCtx)
	}()

	require.NoError(t, waitForConsumer(ctx, amqpURL, cfg.RabbitQueue, 5*time.Second))

	publishCommand(t, amqpURL, cfg.RabbitExchange, cfg.RabbitRoutingKey, markReadCommand{ID: "1", UserID: 1})

	require.Eventually(t, func() bool {
		got, err := repo.GetNotification(ctx, "1")
		return err == nil && got.IsRead
	}, 5*time.Second, 50*time.Millisecond)

	cancel()
	select {
	case <-time.After(3 * time.Second):
		t.Fatalf("consumer did not stop")
	case <-errCh:
	}
}

func publishCommand(t *testing.T, amqpURL, exchange, routingKey string, cmd markReadCommand) {
	t.Helper()

	conn, err := amqp.Dial(amqpURL)
	require.NoError(t, err)
	defer conn.Close()

	ch, err := conn.Channel()
	require.NoError(t, err)
	defer ch.Close()

	require.NoError(t, declareExchange(ch, exchange))

	body, err := json.Marshal(cmd)
	require.NoError(t, err)

	err = ch.Publish(exchange, routingKey, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Body:         body,
	})
	require.NoError(t, err)
}

func waitForConsumer(ctx context.Context, amqpURL, queue string, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			conn, err := amqp.Dial(amqpURL)
			if err != nil {
				continue
			}
			ch, err := conn.Channel()
			if err != nil {
				_ = conn.Close()
				continue
			}
			q, err := ch.QueueInspect(queue)
			_ = ch.Close()
			_ = conn.Close()
			if err == nil && q.Consumers > 0 {
				return nil
			}
		}
	}
}
