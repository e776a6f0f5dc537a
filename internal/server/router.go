package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	socketio "github.com/googollee/go-socket.io"
	"github.com/nneonya/Travel-app/internal/config"
	"github.com/nneonya/Travel-app/internal/database"
	"github.com/nneonya/Travel-app/internal/handlers"
	"github.com/nneonya/Travel-app/internal/metrics"
	"github.com/nneonya/Travel-app/internal/middleware"
	"github.com/nneonya/Travel-app/internal/routes"
	"github.com/nneonya/Travel-app/internal/services"
	"gorm.io/gorm"
)

// Options is everything the router needs. Socket may be nil, in which
// case /socket.io is not mounted.
type Options struct {
	Config    config.Config
	DB        *gorm.DB
	Cache     *database.Cache
	Handler   *handlers.Handler
	Socket    *socketio.Server
	RateLimit bool
}

// NewRouter builds the gin engine with the full middleware chain and
// every route.
func NewRouter(o Options) *gin.Engine {
	r := gin.New()

	r.Use(middleware.LoggingMiddleware())
	r.Use(middleware.ErrorHandlerMiddleware(!o.Config.IsProduction()))
	r.Use(gin.Recovery())
	r.Use(middleware.MetricsMiddleware())
	r.Use(middleware.SecurityHeaders(o.Config.IsProduction()))
	r.Use(middleware.CORSMiddleware(o.Config.ClientURL))

	if o.RateLimit {
		general := middleware.GeneralRateLimit()
		r.Use(func(c *gin.Context) {
			if strings.HasPrefix(c.Request.URL.Path, "/socket.io/") {
				c.Next()
				return
			}
			general(c)
		})
	}

	r.Static(services.PublicPrefix, o.Config.UploadDir)

	api := r.Group("/api")
	routes.Register(api, o.Handler, routes.NewGuards(o.Config.SecretKey, o.RateLimit))

	r.GET("/health", healthHandler(o))
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	if o.Socket != nil {
		r.GET("/socket.io/*any", handlers.SocketHandler(o.Socket))
		r.POST("/socket.io/*any", handlers.SocketHandler(o.Socket))
	}

	return r
}

func healthHandler(o Options) gin.HandlerFunc {
	return func(c *gin.Context) {
		dbStatus := "ok"
		if err := database.Ping(o.DB); err != nil {
			dbStatus = "error"
		}

		redisStatus := "not configured"
		if o.Cache.Enabled() {
			redisStatus = "ok"
			if err := o.Cache.Ping(c.Request.Context()); err != nil {
				redisStatus = "error"
			}
		}

		status := "ok"
		code := http.StatusOK
		if dbStatus != "ok" {
			status = "degraded"
			code = http.StatusServiceUnavailable
		} else if redisStatus == "error" {
			status = "degraded"
		}

		c.JSON(code, gin.H{
			"status": status,
			"checks": gin.H{
				"database": dbStatus,
				"redis":    redisStatus,
			},
		})
	}
}
