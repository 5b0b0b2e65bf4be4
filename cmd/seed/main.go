// Command seed stores the configured jurisdiction policies.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"go.uber.org/zap"

	"kavak-credito/internal/adapter/repository/mysql"
	"kavak-credito/internal/config"
	"kavak-credito/internal/infrastructure/db"
	"kavak-credito/internal/infrastructure/logger"
	"kavak-credito/internal/usecase/settings"
)

func main() {
	configPath := flag.String("config", os.Getenv("CONFIG_FILE"), "path to the YAML config file")
	overwrite := flag.Bool("overwrite", false, "replace policies that already exist")
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

	gdb, err := db.OpenGorm(cfg.DB.Driver, cfg.DSN(), db.ParseLogLevel(cfg.DB.LogLevel), zl)
	if err != nil {
		zl.Fatal("open db", zap.String("op", "seed.main"), zap.Error(err))
	}
	if err := db.Migrate(gdb); err != nil {
		zl.Fatal("migrate", zap.String("op", "seed.main"), zap.Error(err))
	}

	uc := settings.NewUsecase(mysql.NewGormUoW(gdb), mysql.NewPolicyRepository(gdb), mysql.NewAuditRepository(gdb), zl)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	res, err := uc.Seed(ctx, cfg.PolicyModels(), *overwrite)
	if err != nil {
		zl.Fatal("seed", zap.String("op", "seed.main"), zap.Error(err))
	}
	zl.Info("done",
		zap.String("op", "seed.main"),
		zap.Bool("overwrite", *overwrite),
		zap.Int("created", res.Created),
		zap.Int("updated", res.Updated),
		zap.Int("skipped", res.Skipped))
}
