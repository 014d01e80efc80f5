package api

import (
	"github.com/gin-gonic/gin"

	"github.com/qs3c/criptex_server/config"
	"github.com/qs3c/criptex_server/internal/api/handler"
	"github.com/qs3c/criptex_server/internal/api/middleware"
	"github.com/qs3c/criptex_server/internal/pkg/logging"
)

type Router struct {
	authHandler       *handler.AuthHandler
	userHandler       *handler.UserHandler
	cryptoHandler     *handler.CryptoHandler
	predictionHandler *handler.PredictionHandler
	quotaHandler      *handler.QuotaHandler
	referralHandler   *handler.ReferralHandler
	websocketHandler  *handler.WebSocketHandler
	healthHandler     *handler.HealthHandler
	sessions          middleware.SessionResolver
	cfg               *config.Config
	logger            logging.Logger
}

func NewRouter(
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	cryptoHandler *handler.CryptoHandler,
	predictionHandler *handler.PredictionHandler,
	quotaHandler *handler.QuotaHandler,
	referralHandler *handler.ReferralHandler,
	websocketHandler *handler.WebSocketHandler,
	healthHandler *handler.HealthHandler,
	sessions middleware.SessionResolver,
	cfg *config.Config,
	logger logging.Logger,
) *Router {
	return &Router{
		authHandler:       authHandler,
		userHandler:       userHandler,
		cryptoHandler:     cryptoHandler,
		predictionHandler: predictionHandler,
		quotaHandler:      quotaHandler,
		referralHandler:   referralHandler,
		websocketHandler:  websocketHandler,
		healthHandler:     healthHandler,
		sessions:          sessions,
		cfg:               cfg,
		logger:            logger,
	}
}

func (r *Router) Setup() *gin.Engine {
	if r.cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestLogger(r.logger))
	engine.Use(middleware.CORS(r.cfg.CORS))

	cookieName := r.cfg.Auth.CookieName
	requireAuth := middleware.Auth(r.sessions, cookieName)

	api := engine.Group("/api")
	{
		api.GET("/health", r.healthHandler.Health)

		// 认证
		auth := api.Group("/auth")
		{
			auth.POST("/session", r.authHandler.CreateSession)
			auth.GET("/me", requireAuth, r.userHandler.Me)
			auth.POST("/logout", middleware.OptionalAuth(r.sessions, cookieName), r.authHandler.Logout)
		}

		// 公开接口 - 行情
		crypto := api.Group("/crypto")
		{
			crypto.GET("/prices", r.cryptoHandler.Prices)
			crypto.GET("/chart/:symbol", r.cryptoHandler.Chart)
		}

		// 需要认证的接口
		authenticated := api.Group("")
		authenticated.Use(requireAuth)
		{
			authenticated.GET("/predictions", r.predictionHandler.List)
			authenticated.POST("/predictions", r.predictionHandler.Create)

			authenticated.POST("/bonus/claim", r.quotaHandler.ClaimBonus)

			authenticated.GET("/referral/stats", r.referralHandler.Stats)
			authenticated.POST("/referral/use/:code", r.referralHandler.Use)

			authenticated.GET("/ws/ticket", r.websocketHandler.Ticket)
		}
	}

	return engine
}

// SetupNotifier 通知进程只暴露 WebSocket 入口
func SetupNotifier(websocketHandler *handler.WebSocketHandler, cfg *config.Config, logger logging.Logger) *gin.Engine {
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestLogger(logger))
	engine.GET("/ws", websocketHandler.Handle)
	return engine
}
