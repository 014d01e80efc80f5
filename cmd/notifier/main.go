package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/qs3c/criptex_server/config"
	"github.com/qs3c/criptex_server/internal/api"
	"github.com/qs3c/criptex_server/internal/api/handler"
	"github.com/qs3c/criptex_server/internal/database"
	"github.com/qs3c/criptex_server/internal/pkg/logging"
	"github.com/qs3c/criptex_server/internal/pkg/pubsub"
	"github.com/qs3c/criptex_server/internal/pkg/ws"
	"github.com/qs3c/criptex_server/internal/service"
	"github.com/qs3c/criptex_server/internal/worker"
)

func main() {
	// 加载配置
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := logging.New(cfg.Log.Level, cfg.Log.Format, os.Stdout).With("process", "notifier")

	// 初始化 Redis
	rdb, err := database.NewRedis(&cfg.Redis)
	if err != nil {
		log.Fatalf("Failed to connect redis: %v", err)
	}
	defer rdb.Close()

	tickets := service.NewTicketService(&cfg.JWT)

	hub := ws.NewHub(logger)
	websocketHandler := handler.NewWebSocketHandler(hub, tickets, cfg.CORS.AllowedOrigins, logger)
	relay := worker.NewRelay(pubsub.NewSubscriber(rdb, cfg.Notifier.Channel), hub, logger)

	// 创建 context 用于优雅关闭
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		if err := relay.Run(ctx); err != nil {
			logger.Error(ctx, "relay stopped", "err", err)
			cancel()
		}
	}()

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Notifier.Host, cfg.Notifier.Port),
		Handler:           api.SetupNotifier(websocketHandler, cfg, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info(ctx, "notifier starting", "addr", srv.Addr, "channel", cfg.Notifier.Channel)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start notifier: %v", err)
		}
	}()

	// 监听退出信号
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-sigChan:
		logger.Info(ctx, "received shutdown signal")
	case <-ctx.Done():
	}
	cancel()

	shutdownCtx, stop := context.WithTimeout(context.Background(), 10*time.Second)
	defer stop()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error(shutdownCtx, "notifier shutdown failed", "err", err)
	}
	logger.Info(shutdownCtx, "notifier stopped")
}
