package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jimlawless/whereami"
	"github.com/segmentio/kafka-go"
	"github.com/techstore/storefront-backend/internal/cfg"
	"github.com/techstore/storefront-backend/internal/usecase"
	"github.com/techstore/storefront-backend/pkg/e"
	"github.com/techstore/storefront-backend/pkg/jitter"
	"github.com/techstore/storefront-backend/pkg/logger"
)

// Producer публикует события завершённых заказов в Kafka.
type Producer struct {
	writer *kafka.Writer
	logger logger.Logger
	cfg    *cfg.KafkaCfg
}

func NewProducer(logger logger.Logger, cfg *cfg.KafkaCfg) (*Producer, error) {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		BatchSize:    10,
		BatchTimeout: 500 * time.Millisecond,
		WriteTimeout: 10 * time.Second,
		Completion: func(messages []kafka.Message, err error) {
			if err != nil {
				logger.Warnf("Kafka producer error: %s", err.Error())
			}
		},
	}

	return &Producer{
		writer: writer,
		logger: logger,
		cfg:    cfg,
	}, nil
}

type orderCompletedEvent struct {
	OrderID     string           `json:"order_id"`
	SessionID   string           `json:"session_id"`
	Items       []orderLineEvent `json:"items"`
	TotalCents  int64            `json:"total_cents"`
	CompletedAt int64            `json:"completed_at"`
}

type orderLineEvent struct {
	ProductID  string `json:"product_id"`
	Name       string `json:"name"`
	PriceCents int64  `json:"price_cents"`
	Quantity   int64  `json:"quantity"`
}

// PublishOrderCompleted отправляет событие о завершённом заказе.
// Ключом сообщения служит ID заказа, чтобы события одного заказа
// попадали в одну партицию. Временные ошибки брокера ретраятся
// с экспоненциальной задержкой.
func (p *Producer) PublishOrderCompleted(ctx context.Context, req *usecase.OrderCompletedReq) error {
	value, err := json.Marshal(toOrderCompletedEvent(req))
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	msg := kafka.Message{
		Key:   []byte(req.OrderID),
		Value: value,
	}

	var lastErr error
	for attempt := 0; attempt <= p.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			delay := jitter.ExponentialBackoff(200*time.Millisecond, 5*time.Second, attempt-1, jitter.DefaultJitter)
			select {
			case <-ctx.Done():
				return e.Wrap(whereami.WhereAmI(), ctx.Err())
			case <-time.After(delay):
			}
		}

		if lastErr = p.writer.WriteMessages(ctx, msg); lastErr == nil {
			return nil
		}

		p.logger.Warnf("Kafka write failed (attempt %d/%d): %v", attempt+1, p.cfg.MaxRetries+1, lastErr)
	}

	return e.Wrap(whereami.WhereAmI(), lastErr)
}

func (p *Producer) EnsureTopic(timeout time.Duration) error {
	conn, err := kafka.Dial(p.cfg.NetworkMode, p.cfg.Brokers[0])
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}
	defer conn.Close()

	partitions, err := conn.ReadPartitions(p.cfg.Topic)
	if err == nil && len(partitions) > 0 {
		return nil
	}

	done := make(chan error, 1)
	go func() {
		err := conn.CreateTopics(kafka.TopicConfig{
			Topic:             p.cfg.Topic,
			NumPartitions:     p.cfg.Partitions,
			ReplicationFactor: p.cfg.ReplicationFactor,
		})
		done <- err
	}()

	select {
	case err := <-done:
		if err != nil {
			return e.Wrap(whereami.WhereAmI(), fmt.Errorf("failed to create topic %s: %w", p.cfg.Topic, err))
		}
		return nil
	case <-time.After(timeout):
		_ = conn.Close()
		return e.Wrap(whereami.WhereAmI(), fmt.Errorf("timeout: %v, topic: %s", timeout, p.cfg.Topic))
	}
}

func (p *Producer) Close() error {
	return p.writer.Close()
}

func toOrderCompletedEvent(req *usecase.OrderCompletedReq) *orderCompletedEvent {
	items := make([]orderLineEvent, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, orderLineEvent{
			ProductID:  item.ProductID,
			Name:       item.Name,
			PriceCents: item.PriceCents,
			Quantity:   item.Quantity,
		})
	}

	return &orderCompletedEvent{
		OrderID:     req.OrderID,
		SessionID:   req.SessionID,
		Items:       items,
		TotalCents:  req.TotalCents,
		CompletedAt: req.CompletedAt.UnixNano(),
	}
}
