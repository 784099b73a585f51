package http

import (
	"github.com/gdugdh24/proximity-backend/internal/delivery/http/handler"
	"github.com/gdugdh24/proximity-backend/internal/delivery/http/middleware"
	"github.com/gdugdh24/proximity-backend/internal/pkg/logger"
	"github.com/gin-gonic/gin"
)

type Router struct {
	locationHandler  *handler.LocationHandler
	privacyHandler   *handler.PrivacyHandler
	proximityHandler *handler.ProximityHandler
	authMiddleware   *middleware.AuthMiddleware
	log              *logger.Logger
}

func NewRouter(
	locationHandler *handler.LocationHandler,
	privacyHandler *handler.PrivacyHandler,
	proximityHandler *handler.ProximityHandler,
	authMiddleware *middleware.AuthMiddleware,
	log *logger.Logger,
) *Router {
	return &Router{
		locationHandler:  locationHandler,
		privacyHandler:   privacyHandler,
		proximityHandler: proximityHandler,
		authMiddleware:   authMiddleware,
		log:              log,
	}
}

func (r *Router) Setup() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestID(), middleware.AccessLog(r.log))

	// Health check (supports both GET and HEAD)
	healthHandler := func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
		})
	}
	router.GET("/health", healthHandler)
	router.HEAD("/health", healthHandler)

	// API v1
	v1 := router.Group("/api/v1")
	protected := v1.Group("")
	protected.Use(r.authMiddleware.RequireAuth())
	{
		// Location routes
		loc := protected.Group("/location")
		{
			loc.POST("", r.locationHandler.UpdateLocation)
			loc.GET("/nearby", r.locationHandler.GetNearby)
		}

		protected.GET("/crossed-paths", r.proximityHandler.GetCrossedPaths)
		protected.GET("/map", r.proximityHandler.GetMapCard)

		// Privacy routes
		priv := protected.Group("/privacy")
		{
			priv.GET("", r.privacyHandler.GetPrivacy)
			priv.PUT("", r.privacyHandler.UpdatePrivacy)
		}
	}

	return router
}
