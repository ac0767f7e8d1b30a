package internal

import (
	"sort"
	"sync"
	"time"

	"order-sentry/internal/model"
)

// OrderCache is the session-scoped in-memory mirror of the backend's order
// records. Order ids are unique within the cache by construction (map keyed
// by id). The poller goroutine and the HTTP handlers share it, so access
// goes through the mutex.
type OrderCache struct {
	mu        sync.RWMutex
	orders    map[string]model.Order
	newOrders map[string]model.Order
	notified  map[string]struct{}
	lastCheck time.Time
}

func NewOrderCache() *OrderCache {
	return &OrderCache{
		orders:    make(map[string]model.Order),
		newOrders: make(map[string]model.Order),
		notified:  make(map[string]struct{}),
		lastCheck: time.Now(),
	}
}

// ApplyFetch folds a fetched order set into the cache. Orders whose id was
// unknown before this fetch become the new-order subset; lastCheck advances
// to the poll's issue time. Returns the newly arrived orders.
func (c *OrderCache) ApplyFetch(fetched []model.Order, issuedAt time.Time) []model.Order {
	c.mu.Lock()
	defer c.mu.Unlock()

	var fresh []model.Order
	for _, o := range fetched {
		if _, known := c.orders[o.ID]; !known {
			fresh = append(fresh, o)
		}
	}

	// the backend returns a window scoped by since, so folding it in
	// materializes the union view rather than dropping history
	for _, o := range fetched {
		c.orders[o.ID] = o
	}

	c.newOrders = make(map[string]model.Order, len(fresh))
	for _, o := range fresh {
		c.newOrders[o.ID] = o
	}

	if issuedAt.After(c.lastCheck) {
		c.lastCheck = issuedAt
	}
	OrderCacheItems.Set(float64(len(c.orders)))
	return fresh
}

// Put replaces the order's entry in both the full set and, if present, the
// new-order subset.
func (c *OrderCache) Put(o model.Order) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.orders[o.ID] = o
	if _, ok := c.newOrders[o.ID]; ok {
		c.newOrders[o.ID] = o
	}
	OrderCacheItems.Set(float64(len(c.orders)))
}

func (c *OrderCache) Delete(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.orders, id)
	delete(c.newOrders, id)
	OrderCacheItems.Set(float64(len(c.orders)))
}

// Orders returns the cached order set sorted by creation time, newest first.
func (c *OrderCache) Orders() []model.Order {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return sortedByCreatedAt(c.orders)
}

func (c *OrderCache) NewOrders() []model.Order {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return sortedByCreatedAt(c.newOrders)
}

func (c *OrderCache) LastCheck() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastCheck
}

// MarkNotified records that an alert went out for the id. Returns false if
// the id was already marked this session. Check and insert happen under one
// lock so repeated dispatches for the same id cannot both win.
func (c *OrderCache) MarkNotified(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.notified[id]; ok {
		return false
	}
	c.notified[id] = struct{}{}
	return true
}

// Acknowledge clears the new-order badge and advances lastCheck.
func (c *OrderCache) Acknowledge(at time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.newOrders = make(map[string]model.Order)
	if at.After(c.lastCheck) {
		c.lastCheck = at
	}
}

// Clear empties the cache on session end. Nothing is persisted.
func (c *OrderCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.orders = make(map[string]model.Order)
	c.newOrders = make(map[string]model.Order)
	c.notified = make(map[string]struct{})
	OrderCacheItems.Set(0)
}

func sortedByCreatedAt(m map[string]model.Order) []model.Order {
	orders := make([]model.Order, 0, len(m))
	for _, o := range m {
		orders = append(orders, o)
	}
	sort.Slice(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
	return orders
}
