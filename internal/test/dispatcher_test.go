package test

import (
	"context"
	"errors"
	"time"

	"github.com/golang/mock/gomock"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	"order-sentry/internal"
	mock_internal "order-sentry/internal/mock"
	"order-sentry/internal/model"
)

var _ = Describe("Dispatcher", func() {
	var (
		ctrl  *gomock.Controller
		cache *internal.OrderCache
		log   *zap.SugaredLogger
	)
	BeforeEach(func() {
		ctrl = gomock.NewController(GinkgoT())

		logger, err := zap.NewDevelopment()
		Expect(err).ShouldNot(HaveOccurred())
		log = logger.Sugar()

		cache = internal.NewOrderCache()
	})
	AfterEach(func() {
		ctrl.Finish()
	})
	Context("Dispatch", func() {
		It("emits one alert per order id across repeated dispatches", func() {
			sink := &recordingSink{}
			d := internal.NewDispatcher(cache, sink, log)

			o1 := newOrder("o1", time.Now())
			o2 := newOrder("o2", time.Now())

			d.Dispatch(context.Background(), []model.Order{o1, o2})
			d.Dispatch(context.Background(), []model.Order{o1, o2})
			d.Dispatch(context.Background(), []model.Order{o1})

			Expect(sink.orders).To(HaveLen(2))
		})
		It("marks an order notified even when the sink fails", func() {
			sink := mock_internal.NewMockNotificationSink(ctrl)
			d := internal.NewDispatcher(cache, sink, log)

			o1 := newOrder("o1", time.Now())

			sink.EXPECT().Notify(gomock.Any(), o1).Return(errors.New("toast service down")).Times(1)

			d.Dispatch(context.Background(), []model.Order{o1})
			d.Dispatch(context.Background(), []model.Order{o1})
		})
		It("fans out to every sink of a multi sink", func() {
			first := &recordingSink{}
			second := &recordingSink{}
			d := internal.NewDispatcher(cache, internal.MultiSink(first, second), log)

			o1 := newOrder("o1", time.Now())
			d.Dispatch(context.Background(), []model.Order{o1})

			Expect(first.orders).To(HaveLen(1))
			Expect(second.orders).To(HaveLen(1))
		})
	})
})
