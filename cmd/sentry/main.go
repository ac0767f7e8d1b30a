package main

import (
	"context"
	"log"
	"os/signal"
	"strings"
	"syscall"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	. "order-sentry/internal"
	"order-sentry/internal/model"
)

func main() {
	//decimals at json as string
	//https://github.com/shopspring/decimal/issues/21
	decimal.MarshalJSONWithoutQuotes = true

	cfg := NewConfig()
	z, err := zap.NewProduction()
	if err != nil {
		log.Fatal(err)
	}
	sugaredLogger := z.Sugar()

	client := NewOrderAPIClient(cfg.CommerceAPIAddress, cfg.CommerceAPIToken, sugaredLogger)
	cache := NewOrderCache()
	repository := NewRepository(client, cache, sugaredLogger)

	sinks := []NotificationSink{NewLogSink(sugaredLogger)}

	var audit *AuditStore
	if cfg.DatabaseURI != "" {
		audit, err = NewAuditStore(cfg.DatabaseURI, sugaredLogger)
		if err != nil {
			sugaredLogger.Fatal(err)
		}
		defer audit.Close()
		sinks = append(sinks, AuditSink{Store: audit})
	}

	if cfg.KafkaBrokers != "" {
		kafkaSink := NewKafkaSink(strings.Split(cfg.KafkaBrokers, ","), cfg.KafkaTopic, sugaredLogger)
		defer kafkaSink.Close()
		sinks = append(sinks, kafkaSink)
	}

	dispatcher := NewDispatcher(cache, MultiSink(sinks...), sugaredLogger)

	caps := model.CapabilitiesFor(model.Role(cfg.Operator.Role))
	poller := NewPoller(repository, dispatcher, caps, cfg.PollInterval, sugaredLogger)

	service := NewService(repository, audit, cfg.JWTSecret, cfg.Operator, sugaredLogger)
	handlers := NewHandlers(service, cfg.JWTSecret, sugaredLogger)

	app := fiber.New()
	app.Use(logger.New())
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	api := app.Group("/api")

	api.Post("/login", handlers.Login)

	api.Get("/orders", handlers.GetOrders)
	api.Get("/orders/new", handlers.GetNewOrders)
	api.Get("/orders/:id", handlers.GetOrder)
	api.Put("/orders/:id/status", handlers.UpdateOrderStatus)
	api.Delete("/orders/:id", handlers.DeleteOrder)
	api.Post("/orders/ack", handlers.AcknowledgeOrders)

	api.Get("/stats", handlers.GetStats)
	api.Get("/notifications", handlers.GetNotificationHistory)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// the first poll seeds the cache with the full order list; the poller
	// keeps asking for the full list until a fetch succeeds, and only then
	// switches to delta windows
	poller.Poll(ctx)
	poller.Start(ctx)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return app.Listen(cfg.RunAddress)
	})
	g.Go(func() error {
		<-gctx.Done()
		poller.Stop()
		cache.Clear()
		return app.Shutdown()
	})

	if err = g.Wait(); err != nil {
		sugaredLogger.Error(err)
	}
	sugaredLogger.Info("Shutting down service...")
}
