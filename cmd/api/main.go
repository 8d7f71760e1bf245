package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/amiraziz/souq-backend/api/routes"
	"github.com/amiraziz/souq-backend/internal/cart"
	"github.com/amiraziz/souq-backend/internal/orders"
	"github.com/amiraziz/souq-backend/internal/products"
	"github.com/amiraziz/souq-backend/internal/stock"
	"github.com/amiraziz/souq-backend/internal/users"
	"github.com/amiraziz/souq-backend/internal/wishlist"
	"github.com/amiraziz/souq-backend/pkg/config"
	"github.com/amiraziz/souq-backend/pkg/db"
	"github.com/amiraziz/souq-backend/pkg/logger"
	"github.com/amiraziz/souq-backend/pkg/metrics"
	"github.com/amiraziz/souq-backend/pkg/migrate"
	"github.com/amiraziz/souq-backend/pkg/redis"
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

	dbClient, err := db.New(context.Background(), cfg.DB, cfg.FeatureFlags.UseSQLite, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, cfg.Cart.GuestTTL, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	registry := prometheus.NewRegistry()
	commerceMetrics := metrics.NewCommerceMetrics(registry)

	userService, err := users.NewService(users.ServiceParams{
		Repo:     users.NewRepository(dbClient.DB()),
		Logger:   logg,
		JWT:      cfg.JWT,
		Password: cfg.Password,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create user service", err)
		os.Exit(1)
	}

	productRepo := products.NewRepository(dbClient.DB())
	productService, err := products.NewService(products.ServiceParams{
		Repo:          productRepo,
		Logger:        logg,
		DefaultMaxQty: cfg.Cart.MaxQtyDefault,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create product service", err)
		os.Exit(1)
	}

	sessionManager, err := cart.NewSession(cart.SessionParams{
		CartRepo:      cart.NewRepository(dbClient.DB()),
		WishlistRepo:  wishlist.NewRepository(dbClient.DB()),
		Device:        redisClient,
		DB:            dbClient,
		Logger:        logg,
		Metrics:       commerceMetrics,
		DefaultMaxQty: cfg.Cart.MaxQtyDefault,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create cart session", err)
		os.Exit(1)
	}

	stockService, err := stock.NewService(stock.ServiceParams{
		ProductRepo: productRepo,
		Logger:      logg,
		Metrics:     commerceMetrics,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create stock service", err)
		os.Exit(1)
	}

	orderService, err := orders.NewService(orders.ServiceParams{
		Repo:         orders.NewRepository(dbClient.DB()),
		Session:      sessionManager,
		Stock:        stockService,
		DB:           dbClient,
		Logger:       logg,
		Metrics:      commerceMetrics,
		ShippingFlat: cfg.Orders.ShippingFlat,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create order service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port

	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Deps{
			Config:   cfg,
			Logger:   logg,
			DB:       dbClient,
			Redis:    redisClient,
			Registry: registry,
			Users:    userService,
			Products: productService,
			Session:  sessionManager,
			Orders:   orderService,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case sig := <-stopCh:
		logg.Info(logg.WithField(ctx, "signal", sig.String()), "shutting down api server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
			os.Exit(1)
		}
	}
}
