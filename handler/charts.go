package handler

import (
	"bytes"
	"net/http"

	mid "github.com/swastikanata/ecommerce-dashboard/middleware"
	PC "github.com/swastikanata/ecommerce-dashboard/plotchart"
	qc "github.com/swastikanata/ecommerce-dashboard/quickchart"
	U "github.com/swastikanata/ecommerce-dashboard/util"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

type MetricsResponse struct {
	TotalRevenue        float64 `json:"total_revenue"`
	TotalOrders         int64   `json:"total_orders"`
	TotalRevenueDisplay string  `json:"total_revenue_display"`
	TotalOrdersDisplay  string  `json:"total_orders_display"`
}

type QuickchartResponse struct {
	URL      string `json:"url"`
	TableURL string `json:"table_url,omitempty"`
}

func GetMetricsHandler(c *gin.Context) {
	report, ok := getReport(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, MetricsResponse{
		TotalRevenue:        report.Metrics.TotalRevenue,
		TotalOrders:         report.Metrics.TotalOrders,
		TotalRevenueDisplay: U.FormatCurrency(report.Metrics.TotalRevenue),
		TotalOrdersDisplay:  U.FormatCount(report.Metrics.TotalOrders),
	})
}

func GetChartsHandler(c *gin.Context) {
	report, ok := getReport(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, report.Charts())
}

func GetChartHandler(c *gin.Context) {
	report, ok := getReport(c)
	if !ok {
		return
	}

	chartID := c.Params.ByName("chart_id")
	chart, exists := report.Chart(chartID)
	if !exists {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Chart not found."})
		return
	}

	c.JSON(http.StatusOK, chart)
}

func GetChartQuickchartHandler(c *gin.Context) {
	report, ok := getReport(c)
	if !ok {
		return
	}

	chartID := c.Params.ByName("chart_id")
	logCtx := log.WithFields(log.Fields{
		"chart":     chartID,
		"RequestId": U.GetScopeByKeyAsString(c, mid.SCOPE_REQ_ID),
	})

	chart, exists := report.Chart(chartID)
	if !exists {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Chart not found."})
		return
	}

	var response QuickchartResponse
	var err error
	response.URL, err = qc.GetChartImageUrlForSpec(chart)
	if err != nil {
		logCtx.WithError(err).Error("Failed to get chart url from chart spec.")
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to build chart url."})
		return
	}

	if tableConfig, hasTable := qc.BuildTableConfig(chart); hasTable {
		response.TableURL, err = qc.GetTableURLfromTableConfig(tableConfig)
		if err != nil {
			logCtx.WithError(err).Error("Failed to get table url from table config.")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to build table url."})
			return
		}
	}

	c.JSON(http.StatusOK, response)
}

func GetChartPNGHandler(c *gin.Context) {
	report, ok := getReport(c)
	if !ok {
		return
	}

	chartID := c.Params.ByName("chart_id")
	chart, exists := report.Chart(chartID)
	if !exists {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Chart not found."})
		return
	}

	var buf bytes.Buffer
	if err := PC.RenderPNG(&buf, chart); err != nil {
		if errors.Cause(err) == PC.ErrUnsupportedKind {
			c.AbortWithStatusJSON(http.StatusUnprocessableEntity,
				gin.H{"error": "Chart kind " + string(chart.Kind) + " has no image rendering."})
			return
		}
		log.WithFields(log.Fields{
			"chart":     chartID,
			"RequestId": U.GetScopeByKeyAsString(c, mid.SCOPE_REQ_ID),
		}).WithError(err).Error("Failed to render chart png.")
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to render chart."})
		return
	}

	c.Data(http.StatusOK, "image/png", buf.Bytes())
}
