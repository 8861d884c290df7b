package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/anyulbade/affiliate-analytics-dashboard/internal/service"
)

type TrendHandler struct {
	svc *service.TrendService
	loc *time.Location
}

func NewTrendHandler(svc *service.TrendService, loc *time.Location) *TrendHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &TrendHandler{svc: svc, loc: loc}
}

func (h *TrendHandler) GetCohortTrend(c *gin.Context) {
	w, ok := bindWindow(c, h.loc)
	if !ok {
		return
	}

	trend, err := h.svc.GetCohortTrend(c.Request.Context(), w, c.DefaultQuery("metric", "roi"))
	if errors.Is(err, service.ErrUnknownMetric) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   err.Error(),
			"allowed": service.CohortMetrics,
		})
		return
	}
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": trend})
}
