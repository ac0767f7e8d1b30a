package test

import (
	"time"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"order-sentry/internal"
	"order-sentry/internal/model"
)

var _ = Describe("OrderCache", func() {
	var (
		cache *internal.OrderCache
		base  time.Time
	)
	BeforeEach(func() {
		cache = internal.NewOrderCache()
		base = time.Now()
	})
	Context("ApplyFetch", func() {
		It("reports unknown ids as newly arrived", func() {
			o1 := newOrder("o1", base)
			o2 := newOrder("o2", base)

			fresh := cache.ApplyFetch([]model.Order{o1, o2}, base.Add(time.Second))
			Expect(fresh).To(HaveLen(2))
			Expect(cache.NewOrders()).To(HaveLen(2))
		})
		It("keeps ids unique across overlapping fetch windows", func() {
			o1 := newOrder("o1", base)
			o2 := newOrder("o2", base.Add(time.Second))

			cache.ApplyFetch([]model.Order{o1}, base.Add(time.Second))
			fresh := cache.ApplyFetch([]model.Order{o1, o2}, base.Add(2*time.Second))

			Expect(fresh).To(HaveLen(1))
			Expect(fresh[0].ID).To(Equal("o2"))
			Expect(cache.Orders()).To(HaveLen(2))
		})
		It("replaces the new-order subset on every fetch", func() {
			o1 := newOrder("o1", base)

			cache.ApplyFetch([]model.Order{o1}, base.Add(time.Second))
			Expect(cache.NewOrders()).To(HaveLen(1))

			cache.ApplyFetch([]model.Order{o1}, base.Add(2*time.Second))
			Expect(cache.NewOrders()).To(BeEmpty())
		})
		It("advances lastCheck to the poll's issue time", func() {
			at := base.Add(time.Minute)
			cache.ApplyFetch(nil, at)
			Expect(cache.LastCheck()).To(Equal(at))
		})
		It("never rewinds lastCheck", func() {
			later := base.Add(time.Minute)
			cache.ApplyFetch(nil, later)
			cache.ApplyFetch(nil, base.Add(time.Second))
			Expect(cache.LastCheck()).To(Equal(later))
		})
	})
	Context("Put and Delete", func() {
		It("replaces the entry in both the full set and the new-order subset", func() {
			o1 := newOrder("o1", base)
			cache.ApplyFetch([]model.Order{o1}, base.Add(time.Second))

			o1.Status = model.OrderStatusShipped
			cache.Put(o1)

			Expect(cache.Orders()).To(HaveLen(1))
			Expect(cache.Orders()[0].Status).To(Equal(model.OrderStatusShipped))
			Expect(cache.NewOrders()[0].Status).To(Equal(model.OrderStatusShipped))
		})
		It("removes the entry from both sets", func() {
			o1 := newOrder("o1", base)
			cache.ApplyFetch([]model.Order{o1}, base.Add(time.Second))

			cache.Delete("o1")
			Expect(cache.Orders()).To(BeEmpty())
			Expect(cache.NewOrders()).To(BeEmpty())
		})
	})
	Context("MarkNotified", func() {
		It("wins only once per id", func() {
			Expect(cache.MarkNotified("o1")).To(BeTrue())
			Expect(cache.MarkNotified("o1")).To(BeFalse())
			Expect(cache.MarkNotified("o2")).To(BeTrue())
		})
	})
	Context("Acknowledge", func() {
		It("clears the badge and advances lastCheck", func() {
			o1 := newOrder("o1", base)
			cache.ApplyFetch([]model.Order{o1}, base.Add(time.Second))

			at := base.Add(time.Minute)
			cache.Acknowledge(at)

			Expect(cache.NewOrders()).To(BeEmpty())
			Expect(cache.Orders()).To(HaveLen(1))
			Expect(cache.LastCheck()).To(Equal(at))
		})
	})
	Context("Clear", func() {
		It("drops all session state including the notified set", func() {
			o1 := newOrder("o1", base)
			cache.ApplyFetch([]model.Order{o1}, base.Add(time.Second))
			cache.MarkNotified("o1")

			cache.Clear()

			Expect(cache.Orders()).To(BeEmpty())
			Expect(cache.NewOrders()).To(BeEmpty())
			Expect(cache.MarkNotified("o1")).To(BeTrue())
		})
	})
})
