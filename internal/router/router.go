package router

import (
	"time"

	"mentorly/config"
	"mentorly/internal/auth"
	"mentorly/internal/handler"
	"mentorly/internal/middleware"
	"mentorly/internal/signaling"

	"github.com/gin-gonic/gin"
)

// Deps carries the process-wide singletons built in main. Stores are
// constructed once and injected; nothing here reaches for globals.
type Deps struct {
	Verifier   auth.Verifier
	Nonces     *auth.NonceStore
	Registry   *signaling.RoomRegistry
	Tracker    *signaling.ParticipantTracker
	History    *signaling.ChatHistory
	Dispatcher *signaling.Dispatcher
}

func Setup(cfg *config.Config, deps Deps) *gin.Engine {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RateLimit(middleware.NewInMemoryRateLimiter(100, 60*time.Second)))

	authHandler := handler.NewAuthHandler(cfg, deps.Nonces, deps.Verifier)
	roomHandler := handler.NewRoomHandler(deps.Registry, deps.Tracker, deps.History)
	rpcHandler := handler.NewRPCHandler(&cfg.RPC)
	healthHandler := handler.NewHealthHandler(deps.Registry, deps.Tracker)

	authMw := middleware.AuthRequired(&cfg.JWT)

	api := r.Group("/api/v1")
	{
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/nonce", authHandler.Nonce)
			authGroup.POST("/login", authHandler.Login)
		}
		api.POST("/webrtc/rooms", authMw, roomHandler.Create)
		api.GET("/webrtc/rooms/:room_id", authMw, roomHandler.Get)
		api.POST("/rpc", authMw, rpcHandler.Proxy)
	}

	r.GET("/healthz", healthHandler.Status)
	r.GET("/ws/signaling", handler.UpgradeSignalingWS(&cfg.JWT, deps.Dispatcher))

	return r
}
