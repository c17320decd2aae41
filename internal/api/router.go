package api

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"gym-occupancy-backend/config"
	"gym-occupancy-backend/internal/mw"
)

// NewRouter creates and configures a new Gin router.
func NewRouter(cfg *config.Config, handler *Handler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.CustomRecovery(recoverWithJSON))
	r.NoRoute(notFound)

	corsConfig := cors.DefaultConfig()
	if len(cfg.Server.AllowedOrigins) == 0 {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = cfg.Server.AllowedOrigins
	}
	corsConfig.AllowMethods = []string{"GET", "PUT", "DELETE", "OPTIONS"}
	corsConfig.MaxAge = 12 * time.Hour
	r.Use(cors.New(corsConfig))

	rateLimiter := mw.RateLimiter(cfg.Server.RateLimitPerSec, cfg.Server.RateLimitBurst)

	api := r.Group("/api")
	api.GET("/health", handler.GetHealth)

	limited := api.Group("")
	limited.Use(rateLimiter)
	{
		limited.GET("/weightroom", mw.CacheControl(cfg.Cache.WeightroomTTL), handler.GetWeightroom)
		limited.GET("/classes", mw.CacheControl(cfg.Cache.ClassesTTL), handler.GetClasses)
		limited.GET("/peak-hours", handler.GetPeakHours)
		limited.GET("/snapshots", handler.GetSnapshots)

		limited.GET("/subscriptions", handler.GetSubscription)
		limited.PUT("/subscriptions", handler.PutSubscription)
		limited.DELETE("/subscriptions", handler.DeleteSubscription)
		limited.GET("/vapid_public_key", handler.GetVAPIDPublicKey)
	}

	return r
}
