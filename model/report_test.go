package model

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadTestDatasets(t *testing.T) *Datasets {
	keyMetrics, err := LoadKeyMetrics(strings.NewReader(keyMetricsCSV))
	require.NoError(t, err)
	customers, err := LoadCustomerSummary(strings.NewReader(customerSummaryCSV))
	require.NoError(t, err)
	orders, err := LoadOrderSummary(strings.NewReader(orderSummaryCSV))
	require.NoError(t, err)
	return &Datasets{KeyMetrics: keyMetrics, Customers: customers, Orders: orders}
}

func TestNewReport(t *testing.T) {
	report := NewReport(loadTestDatasets(t))

	assert.Equal(t, 2500.5, report.Metrics.TotalRevenue)
	assert.Equal(t, int64(22), report.Metrics.TotalOrders)
	assert.Equal(t, 1, report.Recency.Excluded)
	assert.Equal(t, 4, report.Recency.Total())
	assert.Equal(t, []float64{10.5, 20, 300, 42}, report.Monetary)
	require.Len(t, report.DeliveryByMonth, 2)
	require.Len(t, report.DeliveryByReview, 2)

	charts := report.Charts()
	require.Len(t, charts, len(ChartIDs))
	for i, chart := range charts {
		assert.Equal(t, ChartIDs[i], chart.ID)
		assert.False(t, chart.IsEmpty(), chart.ID)
	}

	chart, ok := report.Chart(ChartReview)
	require.True(t, ok)
	assert.Equal(t, []string{"1", "5"}, chart.XAxis.CategoryOrder)

	_, ok = report.Chart("unknown")
	assert.False(t, ok)
}

func TestNewReportEmpty(t *testing.T) {
	for _, datasets := range []*Datasets{nil, {}} {
		report := NewReport(datasets)
		assert.Equal(t, Metrics{}, report.Metrics)
		for _, chart := range report.Charts() {
			assert.True(t, chart.IsEmpty(), chart.ID)
		}
	}
}
