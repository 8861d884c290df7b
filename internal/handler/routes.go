package handler

import "github.com/gin-gonic/gin"

type Handlers struct {
	Dashboard *DashboardHandler
	Imports   *ImportHandler
	Trends    *TrendHandler
	Reports   *ReportHandler
}

// RegisterRoutes mounts the API under api, normally the /api/v1 group.
func RegisterRoutes(api *gin.RouterGroup, h Handlers) {
	api.POST("/imports/transactions", h.Imports.UploadTransactions)
	api.POST("/imports/payments", h.Imports.UploadPayments)
	api.GET("/imports", h.Imports.List)
	api.GET("/imports/:id", h.Imports.Get)
	api.DELETE("/imports/:id", h.Imports.Delete)
	api.POST("/transactions/batch", h.Imports.CreateTransactions)
	api.POST("/payments/batch", h.Imports.CreatePayments)

	api.GET("/dashboard", h.Dashboard.Dashboard)
	api.GET("/cohorts", h.Dashboard.Cohorts)
	api.GET("/cohorts/trend", h.Trends.GetCohortTrend)
	api.GET("/affiliates", h.Dashboard.Affiliates)
	api.GET("/affiliates/suspicious", h.Dashboard.Suspicious)
	api.GET("/totals", h.Dashboard.Totals)

	api.GET("/reports/dashboard", h.Reports.GetReport)
}
