package test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"time"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	"order-sentry/internal"
	"order-sentry/internal/model"
)

var _ = Describe("OrderAPIClient", func() {
	var log *zap.SugaredLogger

	BeforeEach(func() {
		logger, err := zap.NewDevelopment()
		Expect(err).ShouldNot(HaveOccurred())
		log = logger.Sugar()
	})

	Context("Orders", func() {
		It("sends the since window and the bearer token", func() {
			var gotSince, gotAuth string
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotSince = r.URL.Query().Get("since")
				gotAuth = r.Header.Get("Authorization")
				_ = json.NewEncoder(w).Encode([]model.Order{newOrder("o1", time.Now())})
			}))
			defer srv.Close()

			client := internal.NewOrderAPIClient(srv.URL, "token123", log)

			since := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
			orders, err := client.Orders(context.Background(), since)
			Expect(err).ShouldNot(HaveOccurred())
			Expect(orders).To(HaveLen(1))
			Expect(gotSince).To(Equal("2026-03-01T12:00:00Z"))
			Expect(gotAuth).To(Equal("Bearer token123"))
		})
		It("omits the since parameter for a full fetch", func() {
			var hadSince bool
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, hadSince = r.URL.Query()["since"]
				_ = json.NewEncoder(w).Encode([]model.Order{})
			}))
			defer srv.Close()

			client := internal.NewOrderAPIClient(srv.URL, "", log)

			_, err := client.Orders(context.Background(), time.Time{})
			Expect(err).ShouldNot(HaveOccurred())
			Expect(hadSince).To(BeFalse())
		})
		It("surfaces the backend's error message on non-2xx", func() {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
				_, _ = w.Write([]byte(`{"message":"orders table is on fire"}`))
			}))
			defer srv.Close()

			client := internal.NewOrderAPIClient(srv.URL, "", log)

			_, err := client.Orders(context.Background(), time.Time{})
			Expect(err).Should(HaveOccurred())

			var apiErr *internal.APIError
			Expect(errors.As(err, &apiErr)).To(BeTrue())
			Expect(apiErr.StatusCode).To(Equal(http.StatusInternalServerError))
			Expect(apiErr.Message).To(Equal("orders table is on fire"))
		})
	})
	Context("Order", func() {
		It("maps 404 to the not found sentinel", func() {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNotFound)
			}))
			defer srv.Close()

			client := internal.NewOrderAPIClient(srv.URL, "", log)

			_, err := client.Order(context.Background(), "missing")
			Expect(err).Should(Equal(internal.ErrOrderNotFound))
		})
	})
	Context("UpdateStatus", func() {
		It("sends the status body and decodes the confirmed order", func() {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				var i model.StatusUpdateInput
				_ = json.NewDecoder(r.Body).Decode(&i)
				o := newOrder("o1", time.Now())
				o.Status = i.Status
				_ = json.NewEncoder(w).Encode(o)
			}))
			defer srv.Close()

			client := internal.NewOrderAPIClient(srv.URL, "", log)

			o, err := client.UpdateStatus(context.Background(), "o1", model.OrderStatusDelivered)
			Expect(err).ShouldNot(HaveOccurred())
			Expect(o.Status).To(Equal(model.OrderStatusDelivered))
		})
	})
})
