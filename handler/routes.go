package handler

import (
	"github.com/swastikanata/ecommerce-dashboard/filestore"
	mid "github.com/swastikanata/ecommerce-dashboard/middleware"
	M "github.com/swastikanata/ecommerce-dashboard/model"

	"github.com/gin-gonic/gin"
)

const ROUTE_API_ROOT = "/api"

// InitRoutes registers the dashboard page and the json api. Every route except
// /status reads the datasets from the request scope.
func InitRoutes(r *gin.Engine, datasets *M.Datasets, narrative *Narrative, fileManager filestore.FileManager) {
	r.SetHTMLTemplate(parseTemplates())

	r.GET("/status", StatusHandler(datasets, fileManager))

	pageRouteGroup := r.Group("/")
	pageRouteGroup.Use(mid.SetScopeDatasets(datasets))
	pageRouteGroup.GET("", DashboardHandler(narrative))

	apiRouteGroup := r.Group(ROUTE_API_ROOT)
	apiRouteGroup.Use(mid.SetScopeDatasets(datasets))
	apiRouteGroup.GET("/metrics", GetMetricsHandler)
	apiRouteGroup.GET("/charts", GetChartsHandler)
	apiRouteGroup.GET("/charts/:chart_id", GetChartHandler)
	apiRouteGroup.GET("/charts/:chart_id/quickchart", GetChartQuickchartHandler)
	apiRouteGroup.GET("/charts/:chart_id/png", GetChartPNGHandler)
	apiRouteGroup.GET("/export.xlsx", ExportWorkbookHandler)
}
