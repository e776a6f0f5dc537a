package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/nneonya/Travel-app/internal/handlers"
	"github.com/nneonya/Travel-app/internal/middleware"
)

// Guards are the auth and throttling middlewares shared by every route
// group.
type Guards struct {
	Auth      gin.HandlerFunc
	Optional  gin.HandlerFunc
	AuthLimit gin.HandlerFunc
	ChatLimit gin.HandlerFunc
}

// NewGuards builds the guards. With rateLimit off the limiters pass
// everything through.
func NewGuards(secret string, rateLimit bool) Guards {
	g := Guards{
		Auth:      middleware.AuthMiddleware(secret),
		Optional:  middleware.OptionalAuthMiddleware(secret),
		AuthLimit: passThrough,
		ChatLimit: passThrough,
	}
	if rateLimit {
		g.AuthLimit = middleware.AuthRateLimit()
		g.ChatLimit = middleware.ChatRateLimit()
	}
	return g
}

func passThrough(c *gin.Context) {
	c.Next()
}

// Register mounts the whole REST API under api.
func Register(api gin.IRouter, h *handlers.Handler, g Guards) {
	RegisterUserRoutes(api, h, g)
	RegisterTripRoutes(api, h, g)
	RegisterTripRequestRoutes(api, h, g)
	RegisterChatRoutes(api, h, g)
	RegisterReviewRoutes(api, h, g)
	RegisterNotificationRoutes(api, h, g)
	RegisterCityRoutes(api, h)
}
