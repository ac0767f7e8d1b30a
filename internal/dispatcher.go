package internal

import (
	"context"

	"go.uber.org/zap"

	"order-sentry/internal/model"
)

// Dispatcher guarantees at most one user-facing alert per order id per
// session. The poller may hand it the same order across several ticks; the
// notified set in the cache filters repeats.
type Dispatcher struct {
	cache  *OrderCache
	sink   NotificationSink
	logger *zap.SugaredLogger
}

func NewDispatcher(cache *OrderCache, sink NotificationSink, logger *zap.SugaredLogger) *Dispatcher {
	return &Dispatcher{cache: cache, sink: sink, logger: logger}
}

// Dispatch emits one alert per not-yet-notified order. Delivery is
// best-effort: a sink failure still marks the id as notified, losing an
// alert beats duplicating one.
func (d *Dispatcher) Dispatch(ctx context.Context, orders []model.Order) {
	for _, o := range orders {
		if !d.cache.MarkNotified(o.ID) {
			continue
		}

		if err := d.sink.Notify(ctx, o); err != nil {
			NotifyFailuresTotal.Inc()
			d.logger.Errorf("notification for order %s lost: %s", o.ID, err.Error())
			continue
		}
		OrdersNotifiedTotal.Inc()
	}
}
