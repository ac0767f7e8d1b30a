package internal

import (
	"time"

	"github.com/shopspring/decimal"

	"order-sentry/internal/model"
)

// UniqueCompletedCount merges the new-order subset into the full set,
// dedupes by id (the full-set entry wins) and counts orders with a completed
// payment. Feeds the dashboard badge.
func UniqueCompletedCount(orders, newOrders []model.Order) int {
	merged := make(map[string]model.Order, len(orders)+len(newOrders))
	for _, o := range newOrders {
		merged[o.ID] = o
	}
	for _, o := range orders {
		merged[o.ID] = o
	}

	count := 0
	for _, o := range merged {
		if o.PaymentStatus == model.PaymentStatusCompleted {
			count++
		}
	}
	return count
}

type SalesReport struct {
	Daily   decimal.Decimal `json:"daily"`
	Monthly decimal.Decimal `json:"monthly"`
	Yearly  decimal.Decimal `json:"yearly"`
}

// Sales sums delivered order totals over the calendar day, month and year
// containing now. Recomputed on every call, nothing is cached.
func Sales(orders []model.Order, now time.Time) SalesReport {
	report := SalesReport{
		Daily:   decimal.NewFromInt(0),
		Monthly: decimal.NewFromInt(0),
		Yearly:  decimal.NewFromInt(0),
	}

	ny, nm, nd := now.Date()
	for _, o := range orders {
		if o.Status != model.OrderStatusDelivered {
			continue
		}

		y, m, d := o.CreatedAt.Date()
		if y != ny {
			continue
		}
		report.Yearly = report.Yearly.Add(o.TotalAmount)
		if m != nm {
			continue
		}
		report.Monthly = report.Monthly.Add(o.TotalAmount)
		if d == nd {
			report.Daily = report.Daily.Add(o.TotalAmount)
		}
	}
	return report
}
