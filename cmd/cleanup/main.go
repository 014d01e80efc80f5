package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/qs3c/criptex_server/config"
	"github.com/qs3c/criptex_server/internal/database"
	"github.com/qs3c/criptex_server/internal/pkg/cron"
	"github.com/qs3c/criptex_server/internal/pkg/logging"
	"github.com/qs3c/criptex_server/internal/repository"
)

var (
	dryRun    = flag.Bool("dry-run", true, "Dry run mode, only count expired sessions")
	olderThan = flag.Duration("older-than", 0, "Only purge sessions that expired at least this long ago")
	every     = flag.Duration("every", 0, "Keep running and purge at this interval (0 = run once)")
)

func main() {
	flag.Parse()

	// 加载配置
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := logging.New(cfg.Log.Level, cfg.Log.Format, os.Stdout).With("process", "cleanup")
	ctx := context.Background()

	// 连接数据库
	db, err := database.NewDB(&cfg.Database, cfg.Server.Mode)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	interval := *every
	if interval <= 0 {
		interval = time.Hour
	}
	purger := cron.NewService(repository.NewSessionRepository(db), *olderThan, interval, *dryRun, logger)

	logger.Info(ctx, "starting session cleanup", "dry_run", *dryRun, "older_than", olderThan.String())

	if *every <= 0 {
		if _, err := purger.PurgeOnce(ctx); err != nil {
			log.Fatalf("Cleanup failed: %v", err)
		}
		if *dryRun {
			logger.Info(ctx, "dry run mode, nothing deleted; run with -dry-run=false to delete")
		}
		return
	}

	purger.Start(ctx)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	purger.Stop()
	logger.Info(ctx, "cleanup stopped")
}
