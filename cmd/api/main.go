package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/multierr"

	"github.com/yeezuz2020/store-api/api/routes"
	"github.com/yeezuz2020/store-api/internal/customers"
	"github.com/yeezuz2020/store-api/internal/notifications"
	"github.com/yeezuz2020/store-api/internal/orders"
	"github.com/yeezuz2020/store-api/internal/products"
	"github.com/yeezuz2020/store-api/internal/shipments"
	stripewebhook "github.com/yeezuz2020/store-api/internal/webhooks/stripe"
	"github.com/yeezuz2020/store-api/pkg/config"
	"github.com/yeezuz2020/store-api/pkg/db"
	"github.com/yeezuz2020/store-api/pkg/logger"
	"github.com/yeezuz2020/store-api/pkg/metrics"
	"github.com/yeezuz2020/store-api/pkg/migrate"
	"github.com/yeezuz2020/store-api/pkg/packeta"
	"github.com/yeezuz2020/store-api/pkg/redis"
	"github.com/yeezuz2020/store-api/pkg/resend"
	pkgstripe "github.com/yeezuz2020/store-api/pkg/stripe"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap database", err)
		os.Exit(1)
	}

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		logg.Error(ctx, "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(ctx, cfg.Redis, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap redis", err)
		os.Exit(1)
	}

	stripeClient, err := pkgstripe.NewClient(ctx, cfg.Stripe, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap stripe", err)
		os.Exit(1)
	}
	packetaClient, err := packeta.NewClient(cfg.Packeta)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap packeta", err)
		os.Exit(1)
	}
	resendClient, err := resend.NewClient(cfg.Resend)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap resend", err)
		os.Exit(1)
	}

	ordersRepo := orders.NewRepository(dbClient.DB())

	emailsSvc, err := notifications.NewService(notifications.ServiceParams{
		Sender: resendClient,
		Logger: logg,
	})
	if err != nil {
		logg.Error(ctx, "failed to create notifications service", err)
		os.Exit(1)
	}

	ordersSvc, err := orders.NewService(orders.ServiceParams{
		Repo:     ordersRepo,
		Notifier: emailsSvc,
		Logger:   logg,
	})
	if err != nil {
		logg.Error(ctx, "failed to create orders service", err)
		os.Exit(1)
	}

	shipmentsSvc, err := shipments.NewService(shipments.ServiceParams{
		OrdersRepo: ordersRepo,
		Client:     packetaClient,
		Labels:     cfg.Labels,
		Logger:     logg,
	})
	if err != nil {
		logg.Error(ctx, "failed to create shipments service", err)
		os.Exit(1)
	}

	labelsSvc, err := shipments.NewLabelService(shipments.LabelServiceParams{
		OrdersRepo: ordersRepo,
		Client:     packetaClient,
		Labels:     cfg.Labels,
		Logger:     logg,
	})
	if err != nil {
		logg.Error(ctx, "failed to create labels service", err)
		os.Exit(1)
	}

	productsSvc, err := products.NewService(products.ServiceParams{
		Repo:   products.NewRepository(dbClient.DB()),
		Tx:     dbClient,
		Logger: logg,
	})
	if err != nil {
		logg.Error(ctx, "failed to create products service", err)
		os.Exit(1)
	}

	customersSvc, err := customers.NewService(customers.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(ctx, "failed to create customers service", err)
		os.Exit(1)
	}

	webhookGuard, err := stripewebhook.NewIdempotencyGuard(redisClient, cfg.Stripe.EventGuardTTL, "stripe-webhook")
	if err != nil {
		logg.Error(ctx, "failed to create webhook guard", err)
		os.Exit(1)
	}
	webhookSvc, err := stripewebhook.NewService(stripewebhook.ServiceParams{
		OrdersRepo: ordersRepo,
		Shipments:  shipmentsSvc,
		Emails:     emailsSvc,
		Guard:      webhookGuard,
		Logger:     logg,
	})
	if err != nil {
		logg.Error(ctx, "failed to create webhook service", err)
		os.Exit(1)
	}

	httpMetrics := metrics.NewHTTP(prometheus.DefaultRegisterer)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port

	server := &http.Server{
		Addr:              addr,
		ReadHeaderTimeout: 10 * time.Second,
		Handler: routes.NewRouter(
			cfg,
			logg,
			httpMetrics,
			dbClient,
			redisClient,
			stripeClient,
			packetaClient,
			ordersSvc,
			productsSvc,
			customersSvc,
			emailsSvc,
			shipmentsSvc,
			labelsSvc,
			webhookSvc,
		),
	}

	logCtx := logg.WithFields(ctx, map[string]any{"env": cfg.App.Env, "addr": addr})
	logg.Info(logCtx, "starting api server")

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logg.Info(logCtx, "shutdown signal received")
	case err := <-errCh:
		logg.Error(logCtx, "api server stopped unexpectedly", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logg.Error(logCtx, "server shutdown failed", err)
	}

	var closeErr error
	closeErr = multierr.Append(closeErr, dbClient.Close())
	closeErr = multierr.Append(closeErr, redisClient.Close())
	if closeErr != nil {
		logg.Error(logCtx, "error closing clients", closeErr)
		os.Exit(1)
	}
	logg.Info(logCtx, "api server stopped")
}
