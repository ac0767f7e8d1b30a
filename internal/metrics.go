package internal

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	PollsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sentry_polls_total",
		Help: "Total number of successful order polls.",
	})

	PollFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sentry_poll_failures_total",
		Help: "Total number of order polls that failed and will be retried.",
	})

	StaleResponsesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sentry_stale_responses_total",
		Help: "Total number of out-of-order poll responses discarded.",
	})

	OrdersNotifiedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sentry_orders_notified_total",
		Help: "Total number of new-order alerts dispatched.",
	})

	NotifyFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sentry_notify_failures_total",
		Help: "Total number of alerts lost to sink failures.",
	})

	OrderCacheItems = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "sentry_order_cache_items",
		Help: "Current number of orders in the session cache.",
	})
)
