package model

import (
	"strconv"
)

type ChartKind string

const (
	ChartKindLine      ChartKind = "line"
	ChartKindBar       ChartKind = "bar"
	ChartKindPie       ChartKind = "pie"
	ChartKindHistogram ChartKind = "histogram"
	ChartKindBox       ChartKind = "box"
)

// Chart identifiers, in dashboard order.
const (
	ChartKeyMetrics   = "key_metrics"
	ChartRecency      = "recency"
	ChartFrequency    = "frequency"
	ChartMonetary     = "monetary"
	ChartDeliveryTime = "delivery_time"
	ChartReview       = "review"
)

var ChartIDs = [...]string{
	ChartKeyMetrics,
	ChartRecency,
	ChartFrequency,
	ChartMonetary,
	ChartDeliveryTime,
	ChartReview,
}

const (
	AxisX         = "x"
	AxisPrimary   = "y"
	AxisSecondary = "y2"

	ColorPrimary   = "#1F77B4"
	ColorSecondary = "#FF7F0E"

	SideLeft  = "left"
	SideRight = "right"
)

type Axis struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Color    string `json:"color,omitempty"`
	Side     string `json:"side,omitempty"`
	ShowGrid bool   `json:"show_grid"`
	// Fixed category order for categorical axes; empty means data order.
	CategoryOrder []string `json:"category_order,omitempty"`
}

// Point is one x/y pair of a categorical or time series. A nil Value is a gap.
type Point struct {
	Label string   `json:"label"`
	Value *float64 `json:"value"`
}

// Series binds one column of a derived table to an axis. Line, bar and pie series carry
// Points; histogram and box series carry raw Values.
type Series struct {
	Name   string    `json:"name"`
	XField string    `json:"x_field,omitempty"`
	YField string    `json:"y_field,omitempty"`
	Axis   string    `json:"axis,omitempty"`
	Color  string    `json:"color,omitempty"`
	Points []Point   `json:"points,omitempty"`
	Values []float64 `json:"values,omitempty"`
}

// ChartSpec is a declarative chart description handed to a renderer. Builders never share
// slices with their input; callers treat a spec as read-only.
type ChartSpec struct {
	ID              string    `json:"id"`
	Kind            ChartKind `json:"kind"`
	Title           string    `json:"title"`
	XAxis           Axis      `json:"x_axis"`
	YAxes           []Axis    `json:"y_axes"`
	Series          []Series  `json:"series"`
	HoverTemplate   string    `json:"hover_template,omitempty"`
	ShowValueLabels bool      `json:"show_value_labels"`
	ShowLegend      bool      `json:"show_legend"`
}

func (s ChartSpec) IsEmpty() bool {
	return len(s.Series) == 0
}

// YAxis returns the y axis with the given id.
func (s ChartSpec) YAxis(id string) (Axis, bool) {
	for _, axis := range s.YAxes {
		if axis.ID == id {
			return axis, true
		}
	}
	return Axis{}, false
}

func floatPtr(v float64) *float64 {
	return &v
}

func BuildKeyMetricsChart(rows []KeyMetric) ChartSpec {
	spec := ChartSpec{
		ID:    ChartKeyMetrics,
		Kind:  ChartKindLine,
		Title: "Total Pendapatan dan Banyak Order per Bulan",
		XAxis: Axis{ID: AxisX, Title: "Bulan"},
		YAxes: []Axis{
			{ID: AxisPrimary, Title: "Total Pendapatan (R$)", Color: ColorPrimary, Side: SideLeft},
			{ID: AxisSecondary, Title: "Banyak Pesanan", Color: ColorSecondary, Side: SideRight},
		},
		ShowLegend: true,
	}
	if len(rows) == 0 {
		return spec
	}

	revenue := make([]Point, 0, len(rows))
	orders := make([]Point, 0, len(rows))
	for _, row := range rows {
		revenuePoint := Point{Label: row.Month}
		if row.Revenue.Valid {
			revenuePoint.Value = floatPtr(row.Revenue.Float64)
		}
		revenue = append(revenue, revenuePoint)

		ordersPoint := Point{Label: row.Month}
		if row.Orders.Valid {
			ordersPoint.Value = floatPtr(float64(row.Orders.Int64))
		}
		orders = append(orders, ordersPoint)
	}

	spec.Series = []Series{
		{Name: ColumnRevenue, XField: ColumnPurchaseMonth, YField: ColumnRevenue,
			Axis: AxisPrimary, Color: ColorPrimary, Points: revenue},
		{Name: ColumnOrderCount, XField: ColumnPurchaseMonth, YField: ColumnOrderCount,
			Axis: AxisSecondary, Color: ColorSecondary, Points: orders},
	}
	return spec
}

func distributionPoints(distribution Distribution) []Point {
	points := make([]Point, 0, len(distribution.Rows))
	for _, row := range distribution.Rows {
		points = append(points, Point{Label: row.Category, Value: floatPtr(float64(row.Count))})
	}
	return points
}

func BuildRecencyChart(distribution Distribution) ChartSpec {
	spec := ChartSpec{
		ID:    ChartRecency,
		Kind:  ChartKindBar,
		Title: "Pembelian Terakhir oleh Pelanggan",
		XAxis: Axis{ID: AxisX, Title: ColumnLastPurchase, CategoryOrder: RecencyBucketLabels()},
		YAxes: []Axis{
			{ID: AxisPrimary, Title: ColumnCustomerCount, Side: SideLeft},
		},
		ShowValueLabels: true,
	}
	if len(distribution.Rows) == 0 {
		return spec
	}

	spec.Series = []Series{
		{Name: ColumnCustomerCount, XField: ColumnLastPurchase, YField: ColumnCustomerCount,
			Axis: AxisPrimary, Color: ColorPrimary, Points: distributionPoints(distribution)},
	}
	return spec
}

func BuildFrequencyChart(distribution Distribution) ChartSpec {
	spec := ChartSpec{
		ID:         ChartFrequency,
		Kind:       ChartKindPie,
		Title:      "Banyak Pesanan oleh Pelanggan",
		XAxis:      Axis{ID: AxisX, Title: ColumnOrderCount},
		YAxes:      []Axis{{ID: AxisPrimary, Title: ColumnCustomerCount}},
		ShowLegend: true,
	}
	if len(distribution.Rows) == 0 {
		return spec
	}

	spec.Series = []Series{
		{Name: ColumnCustomerCount, XField: ColumnOrderCount, YField: ColumnCustomerCount,
			Points: distributionPoints(distribution)},
	}
	return spec
}

// BuildMonetaryChart leaves binning to the renderer.
func BuildMonetaryChart(values []float64) ChartSpec {
	spec := ChartSpec{
		ID:            ChartMonetary,
		Kind:          ChartKindHistogram,
		Title:         "Total Harga Pesanan oleh Pelanggan",
		XAxis:         Axis{ID: AxisX, Title: ColumnCustomerSpend, ShowGrid: true},
		YAxes:         []Axis{{ID: AxisPrimary, Title: ColumnCustomerCount, Side: SideLeft}},
		HoverTemplate: "Total Harga Pesanan=%{x}<br>Banyak Pelanggan=%{y}<extra></extra>",
	}
	if len(values) == 0 {
		return spec
	}

	spec.Series = []Series{
		{Name: ColumnCustomerSpend, XField: ColumnCustomerSpend, Axis: AxisPrimary,
			Color: ColorPrimary, Values: append([]float64(nil), values...)},
	}
	return spec
}

func BuildDeliveryTimeChart(rows []MonthlyDeliveryTime) ChartSpec {
	spec := ChartSpec{
		ID:    ChartDeliveryTime,
		Kind:  ChartKindLine,
		Title: "Perbandingan Estimasi Waktu Sampai dengan Waktu Sebenarnya",
		XAxis: Axis{ID: AxisX, Title: ColumnPurchaseMonth},
		YAxes: []Axis{
			{ID: AxisPrimary, Title: ColumnActualDays, Side: SideLeft},
		},
		HoverTemplate: "Bulan Pembelian=%{x}<br>Waktu Sampai=%{y}<extra></extra>",
		ShowLegend:    true,
	}
	if len(rows) == 0 {
		return spec
	}

	estimated := make([]Point, 0, len(rows))
	actual := make([]Point, 0, len(rows))
	for _, row := range rows {
		label := row.Label()
		estimatedPoint := Point{Label: label}
		if row.EstimatedDays.Valid {
			estimatedPoint.Value = floatPtr(row.EstimatedDays.Float64)
		}
		estimated = append(estimated, estimatedPoint)

		actualPoint := Point{Label: label}
		if row.ActualDays.Valid {
			actualPoint.Value = floatPtr(row.ActualDays.Float64)
		}
		actual = append(actual, actualPoint)
	}

	spec.Series = []Series{
		{Name: ColumnEstimatedDays, XField: ColumnPurchaseMonth, YField: ColumnEstimatedDays,
			Axis: AxisPrimary, Color: ColorPrimary, Points: estimated},
		{Name: ColumnActualDays, XField: ColumnPurchaseMonth, YField: ColumnActualDays,
			Axis: AxisPrimary, Color: ColorSecondary, Points: actual},
	}
	return spec
}

// BuildReviewChart emits one box series per observed review score.
func BuildReviewChart(groups []ReviewDeliveryTime) ChartSpec {
	spec := ChartSpec{
		ID:    ChartReview,
		Kind:  ChartKindBox,
		Title: "Sebaran Lama Waktu Sampai terhadap Rating",
		XAxis: Axis{ID: AxisX, Title: ColumnReviewScore, ShowGrid: true},
		YAxes: []Axis{
			{ID: AxisPrimary, Title: ColumnActualDays, Side: SideLeft},
		},
	}
	if len(groups) == 0 {
		return spec
	}

	spec.Series = make([]Series, 0, len(groups))
	categories := make([]string, 0, len(groups))
	for _, group := range groups {
		name := strconv.FormatInt(group.Score, 10)
		categories = append(categories, name)
		spec.Series = append(spec.Series, Series{
			Name:   name,
			XField: ColumnReviewScore,
			YField: ColumnActualDays,
			Axis:   AxisPrimary,
			Color:  ColorPrimary,
			Values: append([]float64(nil), group.ActualDays...),
		})
	}
	spec.XAxis.CategoryOrder = categories
	return spec
}
