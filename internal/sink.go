package internal

import (
	"context"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"order-sentry/internal/model"
)

// NotificationSink receives exactly one call per newly detected order.
type NotificationSink interface {
	Notify(context.Context, model.Order) error
}

// LogSink is the in-process operator alert: a structured log line with a
// deep link into the orders view.
type LogSink struct {
	logger *zap.SugaredLogger
}

func NewLogSink(logger *zap.SugaredLogger) *LogSink {
	return &LogSink{logger: logger}
}

func (s *LogSink) Notify(_ context.Context, o model.Order) error {
	s.logger.Infow("new order received",
		"orderID", o.ID,
		"totalAmount", o.TotalAmount,
		"createdAt", o.CreatedAt,
		"link", "/admin/orders/"+o.ID,
	)
	return nil
}

type multiSink []NotificationSink

// MultiSink fans one notification out to every sink; failures are collected,
// not short-circuited.
func MultiSink(sinks ...NotificationSink) NotificationSink {
	return multiSink(sinks)
}

func (m multiSink) Notify(ctx context.Context, o model.Order) error {
	var err error
	for _, s := range m {
		err = multierr.Append(err, s.Notify(ctx, o))
	}
	return err
}
