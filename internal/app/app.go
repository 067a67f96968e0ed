package app

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mediswift/order/internal/dal/postgres"
	"github.com/mediswift/order/internal/dal/rabbitmq"
	"github.com/mediswift/order/internal/dal/repositories/audit"
	catalogrepo "github.com/mediswift/order/internal/dal/repositories/catalog/postgres"
	orderrepo "github.com/mediswift/order/internal/dal/repositories/order/postgres"
	outboxrepo "github.com/mediswift/order/internal/dal/repositories/outbox/postgres"
	"github.com/mediswift/order/internal/otel"
	"github.com/mediswift/order/internal/service/services/catalogsvc"
	"github.com/mediswift/order/internal/service/services/ordersvc"
	httptransport "github.com/mediswift/order/internal/transport/http"
	outboxworker "github.com/mediswift/order/internal/worker/outbox"
)

// App represents the application.
type App struct {
	orderSvc       *ordersvc.OrderService
	catalogSvc     *catalogsvc.CatalogService
	transport      *httptransport.HTTPTransport
	outboxWorker   *outboxworker.Worker
	rabbitMqClient *rabbitmq.Client
	postgresClient *postgres.Client
	otelController *otel.OtelController
}

// MustNewApp creates a new application.
func MustNewApp() *App {
	otelController := otel.MustInitOtel()
	rabbitMqClient := rabbitmq.MustNewClient()
	postgresClient := postgres.MustNewClient()

	orderRepository := orderrepo.NewPostgresOrderRepository(postgresClient)
	catalogRepository := catalogrepo.NewPostgresCatalogRepository(postgresClient)
	outboxRepository := outboxrepo.NewOutboxRepository(postgresClient)
	auditRepository := audit.NewAuditRabbitMQRepository(rabbitMqClient)

	orderSvc := ordersvc.MustNewOrderService(
		ordersvc.WithOrderRepository(orderRepository),
		ordersvc.WithOutboxRepository(outboxRepository),
		ordersvc.WithAuditRepository(auditRepository),
		ordersvc.WithTxManager(postgresClient),
	)

	catalogSvc := catalogsvc.MustNewCatalogService(
		catalogsvc.WithCatalogRepository(catalogRepository),
	)

	transport := httptransport.NewHTTPTransport(orderSvc, catalogSvc)
	transport.RegisterRoutes()

	outboxWorker := outboxworker.NewWorker(outboxRepository, rabbitMqClient)

	return &App{
		orderSvc:       orderSvc,
		catalogSvc:     catalogSvc,
		transport:      transport,
		outboxWorker:   outboxWorker,
		rabbitMqClient: rabbitMqClient,
		postgresClient: postgresClient,
		otelController: otelController,
	}
}

// Run starts the application.
// Tracks interrupt signal to gracefully shut down the application.
func (a *App) Run() {
	// Create a channel to receive OS signals
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		slog.Info("Starting HTTP server")
		if err := a.transport.Run(); err != nil {
			slog.Error("HTTP server error", "error", err)
		}
	}()

	go func() {
		slog.Info("Starting outbox worker")
		a.outboxWorker.Start(ctx)
	}()

	<-stop
	slog.Info("Shutdown signal received")
	cancel()

	a.gracefulShutdown()
}

// gracefulShutdown shuts components down sequentially: outbox worker, HTTP
// server, RabbitMQ, PostgreSQL, and OpenTelemetry.
func (a *App) gracefulShutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	a.outboxWorker.Stop()
	slog.Info("Outbox worker stopped gracefully")

	if err := a.transport.Shutdown(ctx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	} else {
		slog.Info("HTTP server stopped gracefully")
	}

	if err := a.rabbitMqClient.Close(); err != nil {
		slog.Error("RabbitMQ connection close error", "error", err)
	} else {
		slog.Info("RabbitMQ connection closed gracefully")
	}

	a.postgresClient.Close()
	slog.Info("Database connection closed gracefully")

	if err := a.otelController.Shutdown(); err != nil {
		slog.Error("Otel trace provider connection close error", "error", err)
	} else {
		slog.Info("Otel trace provider connection closed gracefully")
	}

	slog.Info("Application shutdown complete")
}
