package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/nneonya/Travel-app/internal/handlers"
)

func RegisterUserRoutes(r gin.IRouter, h *handlers.Handler, g Guards) {
	users := r.Group("/users")
	{
		auth := users.Group("")
		auth.Use(g.AuthLimit)
		{
			auth.POST("/register", h.Register)
			auth.POST("/login", h.Login)
		}

		protected := users.Group("")
		protected.Use(g.Auth)
		{
			protected.GET("/profile", h.GetProfile)
			protected.PUT("/profile", h.UpdateProfile)
			protected.POST("/avatar", h.UploadAvatar)
			protected.GET("/my-trips", h.MyProfileTrips)
		}

		// Parametrized routes after the static ones
		users.GET("/:id", h.GetUser)
		users.GET("/:id/trips", h.GetUserTrips)
	}
}
