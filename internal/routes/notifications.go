package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/nneonya/Travel-app/internal/handlers"
)

func RegisterNotificationRoutes(r gin.IRouter, h *handlers.Handler, g Guards) {
	notifications := r.Group("/notifications")
	notifications.Use(g.Auth)
	{
		notifications.GET("", h.GetNotifications)
		notifications.GET("/requests", h.GetIncomingRequests)
		notifications.PUT("/read-all", h.MarkNotificationsRead)
	}
}

func RegisterCityRoutes(r gin.IRouter, h *handlers.Handler) {
	r.GET("/cities", h.ListCities)
}
