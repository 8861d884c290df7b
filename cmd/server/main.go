package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/anyulbade/affiliate-analytics-dashboard/internal/cache"
	"github.com/anyulbade/affiliate-analytics-dashboard/internal/config"
	"github.com/anyulbade/affiliate-analytics-dashboard/internal/database"
	"github.com/anyulbade/affiliate-analytics-dashboard/internal/handler"
	"github.com/anyulbade/affiliate-analytics-dashboard/internal/metrics"
	"github.com/anyulbade/affiliate-analytics-dashboard/internal/middleware"
	"github.com/anyulbade/affiliate-analytics-dashboard/internal/repository"
	"github.com/anyulbade/affiliate-analytics-dashboard/internal/service"
)

func main() {
	cfg := config.Load()

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if level, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(level)
	}
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Caller().Logger()
	zerolog.DefaultContextLogger = &log.Logger

	decimal.MarshalJSONWithoutQuotes = true
	gin.SetMode(cfg.GinMode)
	database.MigrationsDir = cfg.MigrationsDir

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := database.NewPool(ctx, cfg.DatabaseURL())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()

	if cfg.AutoMigrate {
		if err := database.RunMigrations(cfg.DatabaseURL()); err != nil {
			log.Fatal().Err(err).Msg("failed to run migrations")
		}
		if err := database.SeedData(context.Background(), pool); err != nil {
			log.Fatal().Err(err).Msg("failed to seed data")
		}
	}

	resultCache, err := cache.New(cache.Config{
		Backend:       cfg.CacheBackend,
		RedisAddr:     cfg.RedisAddr,
		RedisPassword: cfg.RedisPassword,
		RedisDB:       cfg.RedisDB,
		MaxEntries:    cfg.CacheMaxEntries,
	})
	if err != nil {
		log.Warn().Err(err).Str("backend", cfg.CacheBackend).Msg("cache unavailable, computing every request")
		resultCache = cache.Noop{}
	}
	defer resultCache.Close()

	m := metrics.New()

	router := gin.New()
	router.Use(middleware.Tracing())
	router.Use(middleware.Logger())
	router.Use(middleware.Metrics(m))
	router.Use(middleware.ErrorHandler())
	router.Use(gin.Recovery())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.CORSOrigins
	corsConfig.AllowMethods = []string{"GET", "POST", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", middleware.RequestIDHeader}
	corsConfig.ExposeHeaders = []string{middleware.RequestIDHeader, middleware.TraceIDHeader}
	router.Use(cors.New(corsConfig))

	var cachePinger handler.Pinger
	if cfg.CacheBackend != "none" {
		cachePinger = resultCache
	}
	healthHandler := handler.NewHealthHandler(pool, cachePinger)
	router.GET("/health", healthHandler.Health)
	router.GET("/metrics", gin.WrapH(m.Handler()))

	handler.SetupSwagger(router)
	setupAPIRoutes(router, pool, resultCache, cfg, m)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Str("timezone", cfg.Timezone).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited")
}

func setupAPIRoutes(router *gin.Engine, pool *pgxpool.Pool, c cache.Cache, cfg *config.Config, m *metrics.Metrics) {
	loc := cfg.Location()

	txnRepo := repository.NewTransactionRepository(pool, loc)
	paymentRepo := repository.NewPaymentRepository(pool)
	batchRepo := repository.NewImportBatchRepository(pool)

	analyticsService := service.NewAnalyticsService(txnRepo, paymentRepo, c, cfg.CacheTTL, loc, m)
	importService := service.NewImportService(txnRepo, paymentRepo, batchRepo, loc, analyticsService, m)
	trendService := service.NewTrendService(analyticsService)
	reportService := service.NewReportService(analyticsService)

	handler.RegisterRoutes(router.Group("/api/v1"), handler.Handlers{
		Dashboard: handler.NewDashboardHandler(analyticsService, loc),
		Imports:   handler.NewImportHandler(importService),
		Trends:    handler.NewTrendHandler(trendService, loc),
		Reports:   handler.NewReportHandler(reportService, loc),
	})
}
