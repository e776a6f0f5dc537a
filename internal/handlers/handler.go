package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/nneonya/Travel-app/internal/config"
	"github.com/nneonya/Travel-app/internal/database"
	"github.com/nneonya/Travel-app/internal/middleware"
	"github.com/nneonya/Travel-app/internal/services"
	apperrors "github.com/nneonya/Travel-app/pkg/errors"
	"gorm.io/gorm"
)

// Handler carries the shared dependencies of every HTTP endpoint.
type Handler struct {
	db       *gorm.DB
	cfg      config.Config
	hub      services.Broadcaster
	files    services.FileStore
	cache    *database.Cache
	requests *services.TripRequestService
}

// Deps groups what main wires into the handlers. Nil Hub, Files and Cache
// fall back to no-op realtime, local uploads and no caching.
type Deps struct {
	DB     *gorm.DB
	Config config.Config
	Hub    services.Broadcaster
	Files  services.FileStore
	Cache  *database.Cache
}

func New(d Deps) *Handler {
	hub := d.Hub
	if hub == nil {
		hub = services.NopBroadcaster{}
	}
	files := d.Files
	if files == nil {
		files = services.NewLocalStore(d.Config.UploadDir)
	}
	return &Handler{
		db:       d.DB,
		cfg:      d.Config,
		hub:      hub,
		files:    files,
		cache:    d.Cache,
		requests: services.NewTripRequestService(d.DB, hub),
	}
}

// fail hands err to ErrorHandlerMiddleware and stops the chain.
func fail(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

func (h *Handler) tx(c *gin.Context) *gorm.DB {
	return h.db.WithContext(c.Request.Context())
}

func paramID(c *gin.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, apperrors.BadRequest("Invalid " + name)
	}
	return uint(id), nil
}

func mustUser(c *gin.Context) (uint, error) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		return 0, apperrors.Unauthorized("Authentication required")
	}
	return userID, nil
}

func queryInt(c *gin.Context, key string, def, max int) int {
	v, err := strconv.Atoi(c.Query(key))
	if err != nil || v < 0 {
		return def
	}
	if max > 0 && v > max {
		return max
	}
	return v
}
