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
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"

	"github.com/angelmondragon/potionshop-backend/api/routes"
	"github.com/angelmondragon/potionshop-backend/internal/cart"
	"github.com/angelmondragon/potionshop-backend/internal/catalog"
	"github.com/angelmondragon/potionshop-backend/internal/checkout"
	"github.com/angelmondragon/potionshop-backend/internal/idempotency"
	"github.com/angelmondragon/potionshop-backend/internal/inventory"
	"github.com/angelmondragon/potionshop-backend/internal/ledger"
	"github.com/angelmondragon/potionshop-backend/pkg/config"
	"github.com/angelmondragon/potionshop-backend/pkg/db"
	"github.com/angelmondragon/potionshop-backend/pkg/logger"
	"github.com/angelmondragon/potionshop-backend/pkg/metrics"
	"github.com/angelmondragon/potionshop-backend/pkg/migrate"
	"github.com/angelmondragon/potionshop-backend/pkg/redis"
)

const shutdownTimeout = 10 * time.Second

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

	if err := run(cfg, logg); err != nil {
		logg.Error(context.Background(), "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logg *logger.Logger) (err error) {
	if cfg.App.IsProd() && cfg.Auth.APIKey == "" {
		return errors.New("POTIONSHOP_API_KEY must be set in prod")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, dbClient.Close()) }()

	if err := migrate.Bootstrap(ctx, cfg, logg, dbClient); err != nil {
		return err
	}

	var redisClient *redis.Client
	if cfg.Redis.Enabled() {
		redisClient, err = redis.New(ctx, cfg.Redis, logg)
		if err != nil {
			return err
		}
		defer func() { err = multierr.Append(err, redisClient.Close()) }()
	} else {
		logg.Warn(ctx, "redis not configured, cart rate limiting disabled")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	shopMetrics := metrics.NewShopMetrics(registry)

	services, err := buildServices(ctx, cfg, logg, dbClient, shopMetrics)
	if err != nil {
		return err
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	logCtx := logg.WithFields(ctx, map[string]any{
		"env":       cfg.App.Env,
		"addr":      addr,
		"db_driver": cfg.DB.Driver,
	})
	logg.Info(logCtx, "starting api server")

	server := &http.Server{
		Addr:              addr,
		Handler:           routes.NewRouter(cfg, logg, dbClient, redisClient, registry, shopMetrics, services),
		ReadHeaderTimeout: 5 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	logg.Info(logCtx, "shutting down api server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func buildServices(ctx context.Context, cfg *config.Config, logg *logger.Logger, dbClient *db.Client, shopMetrics *metrics.ShopMetrics) (routes.Services, error) {
	var out routes.Services
	gdb := dbClient.DB()

	catalogRepo := catalog.NewRepository(gdb)
	catalogSvc, err := catalog.NewService(catalogRepo, cfg.Shop.StorefrontLimit)
	if err != nil {
		return out, err
	}
	ledgerSvc, err := ledger.NewService(ledger.NewRepository(gdb))
	if err != nil {
		return out, err
	}
	guard, err := idempotency.NewGuard(gdb)
	if err != nil {
		return out, err
	}
	inventoryRepo := inventory.NewRepository(gdb)

	inventorySvc, err := inventory.NewService(dbClient, inventoryRepo, ledgerSvc, guard, catalogSvc, logg, shopMetrics, inventory.Options{
		PotionsPerCapacityUnit: cfg.Shop.PotionsPerCapacityUnit,
		MLPerCapacityUnit:      cfg.Shop.MLPerCapacityUnit,
	})
	if err != nil {
		return out, err
	}

	cartRepo := cart.NewRepository(gdb)
	cartSvc, err := cart.NewService(cartRepo, dbClient, logg, shopMetrics)
	if err != nil {
		return out, err
	}
	checkoutSvc, err := checkout.NewService(dbClient, cartRepo, inventoryRepo, ledgerSvc, guard, catalogSvc, logg, shopMetrics)
	if err != nil {
		return out, err
	}

	if cfg.FeatureFlags.SeedCatalog {
		seeded, err := catalogSvc.SeedDefaults(ctx)
		if err != nil {
			return out, err
		}
		if seeded > 0 {
			logg.Info(logg.WithField(ctx, "recipes", seeded), "seeded default recipes")
		}
	}
	created, err := inventorySvc.EnsureBaseline(ctx)
	if err != nil {
		return out, err
	}
	if created {
		logg.Info(ctx, "initialized inventory baseline")
	}

	out = routes.Services{
		Inventory: inventorySvc,
		Cart:      cartSvc,
		Checkout:  checkoutSvc,
		Catalog:   catalogSvc,
	}
	return out, nil
}
