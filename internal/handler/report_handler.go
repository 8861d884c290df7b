package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/anyulbade/affiliate-analytics-dashboard/internal/service"
)

type ReportHandler struct {
	svc *service.ReportService
	loc *time.Location
}

func NewReportHandler(svc *service.ReportService, loc *time.Location) *ReportHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &ReportHandler{svc: svc, loc: loc}
}

func (h *ReportHandler) GetReport(c *gin.Context) {
	w, ok := bindWindow(c, h.loc)
	if !ok {
		return
	}
	top, _ := strconv.Atoi(c.DefaultQuery("top", "10"))
	if top > 100 {
		top = 100
	}
	format := c.Query("format")

	data, err := h.svc.GenerateReport(c.Request.Context(), w, top)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate report: " + err.Error()})
		return
	}

	wantsHTML := format == "html" || (format == "" && strings.Contains(c.GetHeader("Accept"), "text/html"))

	if wantsHTML {
		html, err := h.svc.RenderHTML(data)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to render HTML: " + err.Error()})
			return
		}
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(html))
		return
	}

	c.JSON(http.StatusOK, data)
}
