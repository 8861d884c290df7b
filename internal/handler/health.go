package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	db    Pinger
	cache Pinger
}

// NewHealthHandler reports on the database and, when set, the result cache.
// A cache outage degrades the service but does not make it unhealthy.
func NewHealthHandler(db, cache Pinger) *HealthHandler {
	return &HealthHandler{db: db, cache: cache}
}

func (h *HealthHandler) Health(c *gin.Context) {
	ctx := c.Request.Context()

	cacheStatus := "disabled"
	if h.cache != nil {
		cacheStatus = "connected"
		if err := h.cache.Ping(ctx); err != nil {
			cacheStatus = "disconnected"
		}
	}

	if h.db == nil || h.db.Ping(ctx) != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":   "unhealthy",
			"database": "disconnected",
			"cache":    cacheStatus,
		})
		return
	}

	status := "healthy"
	if cacheStatus == "disconnected" {
		status = "degraded"
	}
	c.JSON(http.StatusOK, gin.H{
		"status":   status,
		"database": "connected",
		"cache":    cacheStatus,
	})
}
