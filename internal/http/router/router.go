package router

import (
	"net/http"
	"time"

	authhandler "dealdesk_backend/internal/auth/handler"
	authrepo "dealdesk_backend/internal/auth/repository"
	authservice "dealdesk_backend/internal/auth/service"
	buyershandler "dealdesk_backend/internal/buyers/handler"
	buyersrepo "dealdesk_backend/internal/buyers/repository"
	buyersservice "dealdesk_backend/internal/buyers/service"
	"dealdesk_backend/internal/cache"
	"dealdesk_backend/internal/config"
	"dealdesk_backend/internal/http/middleware"
	"dealdesk_backend/platform/logger"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/time/rate"
)

// New wires the repositories, services, and handlers onto a gin engine.
// summaryCache may be nil when redis is not configured.
func New(cfg *config.Config, pool *pgxpool.Pool, summaryCache *cache.Cache, log *logger.Logger) *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestID())
	engine.Use(middleware.RequestLogger(log))
	engine.Use(corsMiddleware(cfg))

	limiter := middleware.NewIPRateLimiter(rate.Limit(50), 100, log)
	engine.Use(limiter.RateLimit())

	authHandler := authhandler.New(authservice.New(authrepo.New(pool), cfg))
	buyersHandler := buyershandler.New(buyersservice.New(buyersrepo.New(pool), summaryCache, log))

	engine.GET("/api/health", func(c *gin.Context) {
		if err := pool.Ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := engine.Group("/api/v1")
	authHandler.RegisterRoutes(v1.Group("/auth"))

	protected := v1.Group("")
	protected.Use(middleware.AuthRequired(cfg))
	authHandler.RegisterProtectedRoutes(protected.Group("/auth"))
	buyersHandler.RegisterRoutes(protected.Group("/buyers"))
	buyersHandler.RegisterAnalyticsRoutes(protected.Group("/analytics"))
	buyersHandler.RegisterStageRoutes(protected.Group("/stages"))

	return engine
}

func corsMiddleware(cfg *config.Config) gin.HandlerFunc {
	corsConfig := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: cfg.CORSAllowCreds,
		MaxAge:           12 * time.Hour,
	}
	if cfg.CORSAllowAll {
		corsConfig.AllowAllOrigins = true
		corsConfig.AllowCredentials = false
	} else {
		corsConfig.AllowOrigins = cfg.CORSOrigins
	}
	return cors.New(corsConfig)
}
