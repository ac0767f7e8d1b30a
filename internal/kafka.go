package internal

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"order-sentry/internal/model"
)

// KafkaSink publishes new-order events for external dashboard consumers.
type KafkaSink struct {
	writer *kafka.Writer
	logger *zap.SugaredLogger
}

type newOrderEvent struct {
	EventID     string          `json:"eventID"`
	OrderID     string          `json:"orderID"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	CreatedAt   time.Time       `json:"createdAt"`
	Link        string          `json:"link"`
}

func NewKafkaSink(brokers []string, topic string, logger *zap.SugaredLogger) *KafkaSink {
	w := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireOne,
	}
	return &KafkaSink{writer: w, logger: logger}
}

func (s *KafkaSink) Notify(ctx context.Context, o model.Order) error {
	event := newOrderEvent{
		EventID:     uuid.NewString(),
		OrderID:     o.ID,
		TotalAmount: o.TotalAmount,
		CreatedAt:   o.CreatedAt,
		Link:        "/admin/orders/" + o.ID,
	}

	value, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return s.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(o.ID),
		Value: value,
	})
}

func (s *KafkaSink) Close() error {
	return s.writer.Close()
}
