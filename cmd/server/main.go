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
	"github.com/qs3c/criptex_server/internal/pkg/idempotency"
	"github.com/qs3c/criptex_server/internal/pkg/logging"
	"github.com/qs3c/criptex_server/internal/pkg/market"
	"github.com/qs3c/criptex_server/internal/pkg/pubsub"
	"github.com/qs3c/criptex_server/internal/repository"
	"github.com/qs3c/criptex_server/internal/service"
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

	logger := logging.New(cfg.Log.Level, cfg.Log.Format, os.Stdout).With("process", "server")
	ctx := context.Background()

	// 初始化数据库
	db, err := database.NewDB(&cfg.Database, cfg.Server.Mode)
	if err != nil {
		log.Fatalf("Failed to connect database: %v", err)
	}
	logger.Info(ctx, "database connected", "driver", cfg.Database.Driver)

	// Redis 可选：关闭时不发布账户事件，也不支持幂等键
	notifier := service.NopNotifier()
	var guard *idempotency.Guard
	if cfg.Redis.Enabled {
		rdb, err := database.NewRedis(&cfg.Redis)
		if err != nil {
			log.Fatalf("Failed to connect redis: %v", err)
		}
		defer rdb.Close()
		logger.Info(ctx, "redis connected")

		notifier = service.NewPublishNotifier(pubsub.NewPublisher(rdb, cfg.Notifier.Channel), logger)
		guard = idempotency.NewGuard(rdb, cfg.Idempotency.TTL())
	}

	exchanger, err := service.NewExchanger(cfg)
	if err != nil {
		log.Fatalf("Failed to init identity provider: %v", err)
	}

	// 初始化 Repository
	userRepo := repository.NewUserRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	predictionRepo := repository.NewPredictionRepository(db)
	referralRepo := repository.NewReferralRepository(db)

	// 初始化 Service
	sessionService := service.NewSessionService(sessionRepo, userRepo)
	quotaService := service.NewQuotaService(userRepo, cfg, notifier)
	referralService := service.NewReferralService(db, userRepo, referralRepo, quotaService, cfg, notifier)
	authService := service.NewAuthService(userRepo, sessionRepo, referralService, exchanger, cfg, logger)
	marketService := service.NewMarketService(market.NewClient(cfg.Market.BaseURL, cfg.Market.APIKey), cfg, logger)
	predictionService := service.NewPredictionService(db, predictionRepo, quotaService, marketService, guard, notifier, logger)

	// 初始化 Handler。API 进程只签发票据，连接由通知进程持有
	authHandler := handler.NewAuthHandler(authService, cfg.Auth)
	userHandler := handler.NewUserHandler()
	cryptoHandler := handler.NewCryptoHandler(marketService)
	predictionHandler := handler.NewPredictionHandler(predictionService)
	quotaHandler := handler.NewQuotaHandler(quotaService)
	referralHandler := handler.NewReferralHandler(referralService)
	websocketHandler := handler.NewWebSocketHandler(nil, service.NewTicketService(&cfg.JWT), cfg.CORS.AllowedOrigins, logger)
	healthHandler := handler.NewHealthHandler(db)

	// 初始化 Router
	router := api.NewRouter(
		authHandler,
		userHandler,
		cryptoHandler,
		predictionHandler,
		quotaHandler,
		referralHandler,
		websocketHandler,
		healthHandler,
		sessionService,
		cfg,
		logger,
	)

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router.Setup(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info(ctx, "server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// 监听退出信号
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan
	logger.Info(ctx, "received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error(ctx, "server shutdown failed", "err", err)
	}
	logger.Info(ctx, "server stopped")
}
