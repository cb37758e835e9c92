package app

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/feastly/api/internal/config"
	"github.com/feastly/api/internal/dal/postgres"
	"github.com/feastly/api/internal/dal/rabbitmq"
	redisdal "github.com/feastly/api/internal/dal/redis"
	outboxrepo "github.com/feastly/api/internal/dal/repositories/outbox/postgres"
	restaurantrepo "github.com/feastly/api/internal/dal/repositories/restaurant/postgres"
	sessionrepo "github.com/feastly/api/internal/dal/repositories/session/redis"
	userrepo "github.com/feastly/api/internal/dal/repositories/user/postgres"
	"github.com/feastly/api/internal/otel"
	"github.com/feastly/api/internal/service/services/authsvc"
	"github.com/feastly/api/internal/service/services/ordersvc"
	"github.com/feastly/api/internal/service/services/restaurantsvc"
	httptransport "github.com/feastly/api/internal/transport/http"
	outboxworker "github.com/feastly/api/internal/worker/outbox"
	"github.com/spf13/viper"
)

// App represents the application.
type App struct {
	orderSvc       *ordersvc.OrderService
	restaurantSvc  *restaurantsvc.RestaurantService
	authSvc        *authsvc.AuthService
	transport      *httptransport.HTTPTransport
	outboxWorker   *outboxworker.Worker
	postgresClient *postgres.Client
	redisClient    *redisdal.Client
	rabbitMqClient *rabbitmq.Client
	otelController *otel.OtelController
}

// MustNewApp creates a new application.
func MustNewApp() *App {
	otelController := otel.MustInitOtel()
	postgresClient := postgres.MustNewClient()
	redisClient := redisdal.MustNewClient()
	rabbitMqClient := rabbitmq.MustNewClient()

	orderSvc := ordersvc.MustNewOrderService(
		ordersvc.WithPostgresClient(postgresClient),
		ordersvc.WithSchedule(config.StatusSchedule()),
	)

	restaurantSvc := restaurantsvc.MustNewRestaurantService(
		restaurantsvc.WithRestaurantRepository(
			restaurantrepo.NewPostgresRestaurantRepository(postgresClient.Pool()),
		),
	)

	authSvc := authsvc.MustNewAuthService(
		authsvc.WithUserRepository(userrepo.NewPostgresUserRepository(postgresClient.Pool())),
		authsvc.WithSessionRepository(sessionrepo.NewRedisSessionRepository(redisClient)),
		authsvc.WithSessionTTL(viper.GetDuration("auth.session_ttl")),
	)

	transport := httptransport.NewHTTPTransport(orderSvc, restaurantSvc, authSvc)
	transport.RegisterRoutes()

	outboxWorker := outboxworker.NewWorker(
		outboxrepo.NewOutboxRepository(postgresClient.Pool()),
		rabbitMqClient,
	)

	return &App{
		orderSvc:       orderSvc,
		restaurantSvc:  restaurantSvc,
		authSvc:        authSvc,
		transport:      transport,
		outboxWorker:   outboxWorker,
		postgresClient: postgresClient,
		redisClient:    redisClient,
		rabbitMqClient: rabbitMqClient,
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

// gracefulShutdown performs graceful shutdown of all application components.
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

	if err := a.redisClient.Close(); err != nil {
		slog.Error("Redis connection close error", "error", err)
	} else {
		slog.Info("Redis connection closed gracefully")
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
