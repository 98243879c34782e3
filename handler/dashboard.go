package handler

import (
	"embed"
	"html/template"
	"net/http"

	mid "github.com/swastikanata/ecommerce-dashboard/middleware"
	M "github.com/swastikanata/ecommerce-dashboard/model"
	U "github.com/swastikanata/ecommerce-dashboard/util"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

const dashboardTemplateName = "dashboard.html"

//go:embed templates/*.html
var templatesFS embed.FS

type metricCard struct {
	Label string
	Value string
}

type dashboardPage struct {
	Narrative *Narrative
	Cards     []metricCard
	Charts    map[string]M.ChartSpec
	// Charts with a server side image rendering.
	ImageCharts map[string]bool
}

func parseTemplates() *template.Template {
	return template.Must(template.New("").ParseFS(templatesFS, "templates/*.html"))
}

// getReport runs the aggregations over the request's datasets. Handlers abort with 503
// when no datasets are in scope.
func getReport(c *gin.Context) (*M.Report, bool) {
	datasets := mid.GetScopeDatasets(c)
	if datasets == nil {
		log.WithField("RequestId", U.GetScopeByKeyAsString(c, mid.SCOPE_REQ_ID)).
			Error("Datasets missing on request scope.")
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "Datasets not loaded."})
		return nil, false
	}
	return M.NewReport(datasets), true
}

func metricCards(narrative *Narrative, metrics M.Metrics) []metricCard {
	return []metricCard{
		{Label: narrative.Cards.TotalRevenue, Value: U.FormatCurrency(metrics.TotalRevenue)},
		{Label: narrative.Cards.TotalOrders, Value: U.FormatCount(metrics.TotalOrders)},
	}
}

// DashboardHandler renders the tabbed dashboard page. Charts are drawn in the browser
// from their specs.
func DashboardHandler(narrative *Narrative) gin.HandlerFunc {
	return func(c *gin.Context) {
		report, ok := getReport(c)
		if !ok {
			return
		}

		page := dashboardPage{
			Narrative:   narrative,
			Cards:       metricCards(narrative, report.Metrics),
			Charts:      make(map[string]M.ChartSpec, len(M.ChartIDs)),
			ImageCharts: make(map[string]bool, len(M.ChartIDs)),
		}
		for _, chart := range report.Charts() {
			page.Charts[chart.ID] = chart
			page.ImageCharts[chart.ID] = chart.Kind != M.ChartKindPie
		}

		c.HTML(http.StatusOK, dashboardTemplateName, page)
	}
}
