package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nneonya/Travel-app/internal/models"
	"github.com/nneonya/Travel-app/pkg/logger"
)

const (
	citiesCacheKey = "cities:all"
	citiesCacheTTL = 10 * time.Minute
)

func (h *Handler) ListCities(c *gin.Context) {
	ctx := c.Request.Context()

	var cities []models.City
	if err := h.cache.Get(ctx, citiesCacheKey, &cities); err == nil {
		c.JSON(http.StatusOK, cities)
		return
	}

	cities = []models.City{}
	if err := h.tx(c).Order("name ASC").Find(&cities).Error; err != nil {
		fail(c, err)
		return
	}

	if err := h.cache.Set(ctx, citiesCacheKey, cities, citiesCacheTTL); err != nil {
		logger.Warn().Err(err).Msg("Failed to cache cities")
	}
	c.JSON(http.StatusOK, cities)
}
