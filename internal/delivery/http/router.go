package http

import (
	"log/slog"

	"github.com/gdugdh24/kindred-backend/internal/delivery/http/handler"
	"github.com/gdugdh24/kindred-backend/internal/delivery/http/middleware"
	"github.com/gin-gonic/gin"
)

type Router struct {
	healthHandler       *handler.HealthHandler
	profileHandler      *handler.ProfileHandler
	discoveryHandler    *handler.DiscoveryHandler
	swipeHandler        *handler.SwipeHandler
	socialHandler       *handler.SocialHandler
	notificationHandler *handler.NotificationHandler
	authMiddleware      *middleware.AuthMiddleware
	logger              *slog.Logger
}

func NewRouter(
	healthHandler *handler.HealthHandler,
	profileHandler *handler.ProfileHandler,
	discoveryHandler *handler.DiscoveryHandler,
	swipeHandler *handler.SwipeHandler,
	socialHandler *handler.SocialHandler,
	notificationHandler *handler.NotificationHandler,
	authMiddleware *middleware.AuthMiddleware,
	logger *slog.Logger,
) *Router {
	return &Router{
		healthHandler:       healthHandler,
		profileHandler:      profileHandler,
		discoveryHandler:    discoveryHandler,
		swipeHandler:        swipeHandler,
		socialHandler:       socialHandler,
		notificationHandler: notificationHandler,
		authMiddleware:      authMiddleware,
		logger:              logger,
	}
}

func (r *Router) Setup() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestLogger(r.logger))

	// Health check (supports both GET and HEAD)
	router.GET("/health", r.healthHandler.Health)
	router.HEAD("/health", r.healthHandler.Health)

	// API v1
	v1 := router.Group("/api/v1")
	v1.Use(r.authMiddleware.RequireAuth())
	{
		discover := v1.Group("/discover")
		{
			discover.GET("/candidates", r.discoveryHandler.GetCandidates)
		}

		swipe := v1.Group("/swipe")
		{
			swipe.POST("/like", r.swipeHandler.Like)
			swipe.POST("/pass", r.swipeHandler.Pass)
			swipe.GET("/state/:user_id", r.swipeHandler.State)
			swipe.GET("/quota", r.swipeHandler.Quota)
		}
		v1.GET("/likes/received", r.swipeHandler.GetLikesReceived)
		v1.GET("/matches", r.swipeHandler.GetMatches)

		friends := v1.Group("/friends/requests")
		{
			friends.POST("", r.socialHandler.SendRequest)
			friends.GET("/incoming", r.socialHandler.ListIncoming)
			friends.POST("/:user_id/accept", r.socialHandler.AcceptRequest)
			friends.POST("/:user_id/reject", r.socialHandler.RejectRequest)
		}

		blocks := v1.Group("/blocks")
		{
			blocks.POST("", r.socialHandler.Block)
			blocks.GET("", r.socialHandler.ListBlocked)
			blocks.DELETE("/:user_id", r.socialHandler.Unblock)
		}

		profile := v1.Group("/profile")
		{
			profile.POST("", r.profileHandler.CreateProfile)
			profile.GET("/me", r.profileHandler.GetMyProfile)
			profile.PUT("/me", r.profileHandler.UpdateMyProfile)
			profile.GET("/:user_id", r.profileHandler.GetProfileByUserID)
		}

		notifications := v1.Group("/notifications")
		{
			notifications.GET("", r.notificationHandler.List)
			notifications.POST("/:id/read", r.notificationHandler.MarkRead)
		}
	}

	return router
}
