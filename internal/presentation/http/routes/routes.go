// Package routes provides HTTP route configuration for the presentation layer.
package routes

import (
	"github.com/Gerrylewin/shopguide-blog/internal/application/container"
	"github.com/Gerrylewin/shopguide-blog/internal/presentation/http/handlers"
	"github.com/Gerrylewin/shopguide-blog/internal/presentation/http/middleware"
	"github.com/gin-gonic/gin"
)

// SetupRoutes configures all HTTP routes and middleware with dependency injection.
func SetupRoutes(container *container.Container) *gin.Engine {
	r := gin.Default()

	r.Use(middleware.CORSMiddleware(container.Config.SiteURL))

	// Initialize handlers
	newsletterHandlers := handlers.NewNewsletterHandlers(container.SubscriberService, container.Logger)
	trackingHandlers := handlers.NewTrackingHandlers(container.TrackingService, container.Config.SiteURL, container.Logger)
	subscriberHandlers := handlers.NewSubscriberHandlers(container.SubscriberService, container.Logger)
	sendHandlers := handlers.NewSendHandlers(container.DispatchService, container.PostCheckService, container.TrackingService, container.Logger)
	authHandlers := handlers.NewAuthHandlers(container.AuthService, container.Logger)
	debugHandlers := handlers.NewDebugHandlers(container.ConfigService, container.Logger)

	api := r.Group("/api/v1")
	{
		api.GET("/health", debugHandlers.GetHealth)

		auth := api.Group("/auth")
		{
			auth.POST("/login", authHandlers.PostLogin)
			auth.POST("/logout", authHandlers.PostLogout)
		}

		newsletter := api.Group("/newsletter")
		{
			// Public endpoints: subscription and email beacons.
			newsletter.POST("/subscribe", newsletterHandlers.PostSubscribe)
			newsletter.POST("/unsubscribe", newsletterHandlers.PostUnsubscribe)
			newsletter.GET("/unsubscribe", newsletterHandlers.GetUnsubscribe)
			newsletter.GET("/track/open", trackingHandlers.GetOpenPixel)
			newsletter.GET("/track/click", trackingHandlers.GetClickRedirect)

			// Admin endpoints (JWT or legacy bearer token).
			admin := newsletter.Group("")
			admin.Use(middleware.AdminAuthMiddleware(container.AuthService))
			{
				admin.GET("/debug", debugHandlers.GetStatus)
				admin.GET("/subscribers", subscriberHandlers.GetSubscribers)
				admin.POST("/subscribers", subscriberHandlers.PostSubscriber)
				admin.DELETE("/subscribers", subscriberHandlers.DeleteSubscriber)
				admin.POST("/send-post", sendHandlers.PostSendPost)
				admin.POST("/check-new-posts", sendHandlers.PostCheckNewPosts)
				admin.GET("/check-new-posts", sendHandlers.GetSentPosts)
				admin.GET("/tracking", sendHandlers.GetTrackingRecords)
				admin.GET("/tracking/:emailId", sendHandlers.GetTrackingRecord)
			}
		}
	}

	return r
}
