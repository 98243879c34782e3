package model

import (
	log "github.com/sirupsen/logrus"
)

// Report is one rendering pass over the datasets: the card metrics, every derived
// table and the chart built from it.
type Report struct {
	Metrics          Metrics
	KeyMetrics       []KeyMetric
	Recency          Distribution
	Frequency        Distribution
	Monetary         []float64
	DeliveryByMonth  []MonthlyDeliveryTime
	DeliveryByReview []ReviewDeliveryTime
	charts           []ChartSpec
}

// NewReport runs every aggregation and chart builder over ds. It never fails; a dataset
// without usable rows yields empty charts.
func NewReport(ds *Datasets) *Report {
	if ds == nil {
		ds = &Datasets{}
	}

	report := &Report{
		Metrics:          ComputeMetrics(ds.KeyMetrics),
		KeyMetrics:       MonthlyRevenueAndOrders(ds.KeyMetrics),
		Recency:          RecencyDistribution(ds.Customers),
		Frequency:        FrequencyDistribution(ds.Customers),
		Monetary:         MonetaryDistribution(ds.Customers),
		DeliveryByMonth:  DeliveryTimeByMonth(ds.Orders),
		DeliveryByReview: DeliveryTimeByReview(ds.Orders),
	}

	if report.Recency.Excluded > 0 {
		log.WithFields(log.Fields{
			"excluded":  report.Recency.Excluded,
			"customers": len(ds.Customers),
		}).Warn("Customers without a known recency bucket excluded.")
	}

	report.charts = []ChartSpec{
		BuildKeyMetricsChart(report.KeyMetrics),
		BuildRecencyChart(report.Recency),
		BuildFrequencyChart(report.Frequency),
		BuildMonetaryChart(report.Monetary),
		BuildDeliveryTimeChart(report.DeliveryByMonth),
		BuildReviewChart(report.DeliveryByReview),
	}
	return report
}

// Charts returns the charts in dashboard order.
func (r *Report) Charts() []ChartSpec {
	charts := make([]ChartSpec, len(r.charts))
	copy(charts, r.charts)
	return charts
}

func (r *Report) Chart(id string) (ChartSpec, bool) {
	for _, chart := range r.charts {
		if chart.ID == id {
			return chart, true
		}
	}
	return ChartSpec{}, false
}
