package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/anyulbade/affiliate-analytics-dashboard/internal/analytics"
	"github.com/anyulbade/affiliate-analytics-dashboard/internal/dto"
	"github.com/anyulbade/affiliate-analytics-dashboard/internal/service"
)

type DashboardHandler struct {
	svc *service.AnalyticsService
	loc *time.Location
}

func NewDashboardHandler(svc *service.AnalyticsService, loc *time.Location) *DashboardHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &DashboardHandler{svc: svc, loc: loc}
}

// compute answers the request itself on failure and returns nil.
func (h *DashboardHandler) compute(c *gin.Context) *analytics.Result {
	w, ok := bindWindow(c, h.loc)
	if !ok {
		return nil
	}
	res, err := h.svc.Compute(c.Request.Context(), w)
	if err != nil {
		_ = c.Error(err)
		return nil
	}
	return res
}

func (h *DashboardHandler) Dashboard(c *gin.Context) {
	if res := h.compute(c); res != nil {
		c.JSON(http.StatusOK, res)
	}
}

func (h *DashboardHandler) Cohorts(c *gin.Context) {
	if res := h.compute(c); res != nil {
		c.JSON(http.StatusOK, gin.H{"data": res.Cohorts})
	}
}

func (h *DashboardHandler) Totals(c *gin.Context) {
	if res := h.compute(c); res != nil {
		c.JSON(http.StatusOK, gin.H{"data": res.Totals})
	}
}

func (h *DashboardHandler) Suspicious(c *gin.Context) {
	if res := h.compute(c); res != nil {
		c.JSON(http.StatusOK, gin.H{"data": res.Suspicious})
	}
}

func (h *DashboardHandler) Affiliates(c *gin.Context) {
	sortBy := c.DefaultQuery("sort_by", "ngr_total")
	order := c.DefaultQuery("order", "desc")
	if !validAffiliateSort(sortBy) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid sort_by: " + sortBy})
		return
	}
	if order != "asc" && order != "desc" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "order must be asc or desc"})
		return
	}
	p := dto.ParsePagination(c)

	res := h.compute(c)
	if res == nil {
		return
	}

	affiliates := sortAffiliates(res.Affiliates, sortBy, order == "desc")
	start, end := p.Bounds(len(affiliates))

	c.JSON(http.StatusOK, gin.H{
		"data":       affiliates[start:end],
		"pagination": dto.NewPagination(p.Page, p.PageSize, len(affiliates)),
	})
}

func bindWindow(c *gin.Context, loc *time.Location) (dto.Window, bool) {
	w, err := dto.ParseWindow(c, loc)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return w, false
	}
	return w, true
}
