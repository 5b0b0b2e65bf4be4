package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	httpadp "kavak-credito/internal/adapter/http"
	"kavak-credito/internal/adapter/messaging"
	appmw "kavak-credito/internal/adapter/middleware"
	"kavak-credito/internal/adapter/repository/mysql"
	redisrepo "kavak-credito/internal/adapter/repository/redis"
	"kavak-credito/internal/config"
	domain "kavak-credito/internal/domain/simulation"
	"kavak-credito/internal/infrastructure/cache"
	"kavak-credito/internal/infrastructure/db"
	"kavak-credito/internal/infrastructure/logger"
	"kavak-credito/internal/infrastructure/metrics"
	"kavak-credito/internal/usecase/settings"
	"kavak-credito/internal/usecase/simulation"
)

func main() {
	configPath := flag.String("config", os.Getenv("CONFIG_FILE"), "path to the YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}

	zl, err := logger.New(cfg.Log)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	if err := run(cfg, zl); err != nil {
		zl.Fatal("api stopped", zap.String("op", "main.run"), zap.Error(err))
	}
}

func run(cfg *config.Config, zl *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gdb, err := db.OpenGorm(cfg.DB.Driver, cfg.DSN(), db.ParseLogLevel(cfg.DB.LogLevel), zl)
	if err != nil {
		return err
	}
	if sqlDB, err := gdb.DB(); err == nil {
		defer sqlDB.Close()
	}
	if err := db.Migrate(gdb); err != nil {
		return err
	}

	rdb, err := cache.OpenRedis(cfg.Redis, zl)
	if err != nil {
		return err
	}
	defer rdb.Close()

	policies := mysql.NewPolicyRepository(gdb)
	audits := mysql.NewAuditRepository(gdb)
	settingsUC := settings.NewUsecase(mysql.NewGormUoW(gdb), policies, audits, zl)

	// first start: store configured policies for countries that have none
	if _, err := settingsUC.Seed(ctx, cfg.PolicyModels(), false); err != nil {
		return err
	}

	var events domain.EventPublisher = messaging.NoopPublisher{}
	if len(cfg.Kafka.Brokers) > 0 {
		kp := messaging.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		defer kp.Close()
		events = kp
	}

	m := metrics.New()
	simulationUC := simulation.NewUsecase(
		policies,
		redisrepo.NewSimulationStore(rdb, cfg.SimulationTTL()),
		events,
		cfg.DefaultCountry,
		simulation.WithLogger(zl),
		simulation.WithMetrics(m),
	)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = httpadp.NewValidator()
	e.Use(appmw.RequestLogger(zl), middleware.Recover(), appmw.Metrics(m))
	if cfg.RateLimit.PerSecond > 0 {
		e.Use(middleware.RateLimiter(middleware.NewRateLimiterMemoryStore(rate.Limit(cfg.RateLimit.PerSecond))))
	}

	// routes
	e.GET("/metrics", echo.WrapHandler(m.Handler()))
	httpadp.RegisterRoutes(e, httpadp.Handlers{
		Health: httpadp.NewHandler().
			WithCheck("db", func(ctx context.Context) error {
				sqlDB, err := gdb.DB()
				if err != nil {
					return err
				}
				return sqlDB.PingContext(ctx)
			}).
			WithCheck("redis", func(ctx context.Context) error { return rdb.Ping(ctx).Err() }),
		Simulations: httpadp.NewSimulationHandler(simulationUC, zl),
		Settings:    httpadp.NewSettingsHandler(settingsUC, zl),
	}, appmw.IdempotencyMiddleware(rdb, cfg.IdempotencyTTL(), zl))

	addr := ":" + cfg.App.Port
	errCh := make(chan error, 1)
	go func() { errCh <- e.Start(addr) }()
	zl.Info("listening", zap.String("op", "main.run"), zap.String("addr", addr))

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	zl.Info("shutting down", zap.String("op", "main.run"))
	return e.Shutdown(shutdownCtx)
}
