package internal

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"order-sentry/internal/model"
)

type IRepository interface {
	FetchAll(context.Context, time.Time) ([]model.Order, error)
	FetchOne(context.Context, string) (model.Order, error)
	UpdateStatus(context.Context, string, string) (model.Order, error)
	Remove(context.Context, string) error
	Orders() []model.Order
	NewOrders() []model.Order
	LastCheck() time.Time
	Acknowledge(time.Time)
}

// Repository fronts the remote order API and keeps the session cache
// consistent with it. Local state changes only after the backend confirms,
// there is no speculative mutation.
type Repository struct {
	api    IOrderAPI
	cache  *OrderCache
	logger *zap.SugaredLogger

	mu      sync.Mutex
	seq     uint64
	applied uint64
}

func NewRepository(api IOrderAPI, cache *OrderCache, logger *zap.SugaredLogger) *Repository {
	return &Repository{api: api, cache: cache, logger: logger}
}

// FetchAll retrieves orders created at or after since, folds them into the
// cache and returns the newly arrived subset. Responses are applied in issue
// order: a response overtaken by a newer one is dropped with
// ErrStaleResponse so it cannot overwrite fresher cache state.
func (r *Repository) FetchAll(ctx context.Context, since time.Time) ([]model.Order, error) {
	r.mu.Lock()
	r.seq++
	seq := r.seq
	r.mu.Unlock()

	issuedAt := time.Now()

	fetched, err := r.api.Orders(ctx, since)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if seq < r.applied {
		StaleResponsesTotal.Inc()
		return nil, ErrStaleResponse
	}
	r.applied = seq

	return r.cache.ApplyFetch(fetched, issuedAt), nil
}

func (r *Repository) FetchOne(ctx context.Context, id string) (model.Order, error) {
	return r.api.Order(ctx, id)
}

// UpdateStatus pushes the new status to the backend. The confirmed order
// replaces its cache entry in both the full set and the new-order subset.
func (r *Repository) UpdateStatus(ctx context.Context, id, status string) (model.Order, error) {
	if !model.ValidOrderStatus(status) {
		return model.Order{}, ErrInvalidStatus
	}

	updated, err := r.api.UpdateStatus(ctx, id, status)
	if err != nil {
		return model.Order{}, err
	}

	r.cache.Put(updated)
	return updated, nil
}

// Remove deletes the order remotely first; the cache entry goes away only on
// success, a failed delete leaves the cache untouched.
func (r *Repository) Remove(ctx context.Context, id string) error {
	err := r.api.Delete(ctx, id)
	if err != nil {
		return err
	}

	r.cache.Delete(id)
	return nil
}

func (r *Repository) Orders() []model.Order {
	return r.cache.Orders()
}

func (r *Repository) NewOrders() []model.Order {
	return r.cache.NewOrders()
}

func (r *Repository) LastCheck() time.Time {
	return r.cache.LastCheck()
}

func (r *Repository) Acknowledge(at time.Time) {
	r.cache.Acknowledge(at)
}
