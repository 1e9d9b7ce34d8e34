package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/freshmartlabs/smartsupply-backend/api/routes"
	"github.com/freshmartlabs/smartsupply-backend/internal/availability"
	"github.com/freshmartlabs/smartsupply-backend/internal/inventory"
	"github.com/freshmartlabs/smartsupply-backend/internal/managers"
	"github.com/freshmartlabs/smartsupply-backend/internal/orders"
	"github.com/freshmartlabs/smartsupply-backend/internal/sales"
	"github.com/freshmartlabs/smartsupply-backend/pkg/config"
	"github.com/freshmartlabs/smartsupply-backend/pkg/db"
	"github.com/freshmartlabs/smartsupply-backend/pkg/logger"
	"github.com/freshmartlabs/smartsupply-backend/pkg/metrics"
	"github.com/freshmartlabs/smartsupply-backend/pkg/migrate"
	pkgredis "github.com/freshmartlabs/smartsupply-backend/pkg/redis"
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

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
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

	var redisClient *pkgredis.Client
	if cfg.Redis.URL != "" || cfg.Redis.Address != "" {
		redisClient, err = pkgredis.New(context.Background(), cfg.Redis, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap redis", err)
			os.Exit(1)
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing redis", err)
			}
		}()
	} else {
		logg.Warn(context.Background(), "redis not configured, idempotency replay protection disabled")
	}

	inventoryRepo := inventory.NewRepository(dbClient.DB())
	salesRepo := sales.NewRepository(dbClient.DB())
	ordersRepo := orders.NewRepository(dbClient.DB())
	managersRepo := managers.NewRepository(dbClient.DB())

	inventoryService, err := inventory.NewService(inventoryRepo, dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create inventory service", err)
		os.Exit(1)
	}
	salesService, err := sales.NewService(salesRepo, dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create sales service", err)
		os.Exit(1)
	}
	availabilityService, err := availability.NewService(inventoryRepo, salesRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create availability service", err)
		os.Exit(1)
	}
	ordersService, err := orders.NewService(ordersRepo, dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create orders service", err)
		os.Exit(1)
	}
	managersService, err := managers.NewService(managersRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create managers service", err)
		os.Exit(1)
	}

	httpMetrics := metrics.NewHTTPMetrics(prometheus.DefaultRegisterer)

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
			Config:       cfg,
			Logger:       logg,
			DB:           dbClient,
			Redis:        redisClient,
			Metrics:      httpMetrics,
			Inventory:    inventoryService,
			Sales:        salesService,
			Availability: availabilityService,
			Orders:       ordersService,
			Managers:     managersService,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
