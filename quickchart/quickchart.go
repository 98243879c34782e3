package quickchart

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"

	H "github.com/swastikanata/ecommerce-dashboard/histogram"
	M "github.com/swastikanata/ecommerce-dashboard/model"

	"github.com/dustin/go-humanize"
	quickchartgo "github.com/henomis/quickchart-go"
	log "github.com/sirupsen/logrus"
)

const (
	TypeLine     = "line"
	TypeBar      = "bar"
	TypePie      = "pie"
	TypeBoxPlot  = "boxplot"
	lineTension  = 0.4
	fullBarWidth = 1.0
)

// Category palette for pie slices, starting with the two series colors.
var piePalette = []string{M.ColorPrimary, M.ColorSecondary, "#2CA02C", "#D62728", "#9467BD", "#8C564B"}

type ChartConfig struct {
	Type    string        `json:"type"`
	Data    ChartData     `json:"data"`
	Options *ChartOptions `json:"options,omitempty"`
}
type ChartData struct {
	Labels   []interface{} `json:"labels"`
	DataSets []Dataset     `json:"datasets"`
}
type Dataset struct {
	Label              string        `json:"label"`
	Data               []interface{} `json:"data"`
	Fill               bool          `json:"fill"`
	LineTension        float32       `json:"lineTension"`
	YAxisID            string        `json:"yAxisID,omitempty"`
	BorderColor        string        `json:"borderColor,omitempty"`
	BackgroundColor    interface{}   `json:"backgroundColor,omitempty"`
	BarPercentage      float32       `json:"barPercentage,omitempty"`
	CategoryPercentage float32       `json:"categoryPercentage,omitempty"`
}
type ChartOptions struct {
	Title  Title   `json:"title"`
	Legend Legend  `json:"legend"`
	Scales *Scales `json:"scales,omitempty"`
}
type Title struct {
	Display bool   `json:"display"`
	Text    string `json:"text"`
}
type Legend struct {
	Display bool `json:"display"`
}
type Scales struct {
	XAxes []Axis `json:"xAxes"`
	YAxes []Axis `json:"yAxes"`
}
type Axis struct {
	ID         string     `json:"id,omitempty"`
	Position   string     `json:"position,omitempty"`
	ScaleLabel ScaleLabel `json:"scaleLabel"`
	GridLines  GridLines  `json:"gridLines"`
}
type ScaleLabel struct {
	Display     bool   `json:"display"`
	LabelString string `json:"labelString"`
}
type GridLines struct {
	Display bool `json:"display"`
}
type TableConfig struct {
	Title      string        `json:"title"`
	Columns    []Column      `json:"columns"`
	DataSource []interface{} `json:"dataSource"`
}
type Column struct {
	Width     int    `json:"width"`
	Title     string `json:"title"`
	DataIndex string `json:"dataIndex"`
}

func GetChartImageUrlForConfig(config ChartConfig) (url string, err error) {
	bytes, err := json.Marshal(config)
	if err != nil {
		log.WithError(err).Error("failed to marshal chart config")
		return "", errors.New("failed to get chart url from quickchart")
	}
	qc := quickchartgo.New()
	qc.Config = string(bytes)
	url, err = qc.GetUrl()
	if err != nil {
		log.WithError(err).Error("failed to get chart url from quickchart")
		return "", errors.New("failed to get chart url from quickchart")
	}
	return url, nil
}

func GetTableURLfromTableConfig(config TableConfig) (string, error) {
	bytes, err := json.Marshal(config)
	if err != nil {
		return "", errors.New("Failed to marshal table config")
	}
	url := fmt.Sprintf("https://api.quickchart.io/v1/table?data=%s", url.QueryEscape(string(bytes)))
	return url, nil

}

// GetChartImageUrlForSpec renders spec as a static chart image url.
func GetChartImageUrlForSpec(spec M.ChartSpec) (string, error) {
	return GetChartImageUrlForConfig(BuildChartConfig(spec))
}

// BuildChartConfig translates a chart spec into a Chart.js config understood by quickchart.
// Histograms are binned here, the chart spec carries raw values.
func BuildChartConfig(spec M.ChartSpec) ChartConfig {
	config := ChartConfig{
		Data: ChartData{Labels: []interface{}{}, DataSets: []Dataset{}},
		Options: &ChartOptions{
			Title:  Title{Display: true, Text: spec.Title},
			Legend: Legend{Display: spec.ShowLegend},
		},
	}

	switch spec.Kind {
	case M.ChartKindLine:
		config.Type = TypeLine
		config.Data = buildLineData(spec)
		config.Options.Scales = buildScales(spec)
	case M.ChartKindBar:
		config.Type = TypeBar
		config.Data = buildBarData(spec)
		config.Options.Scales = buildScales(spec)
	case M.ChartKindPie:
		config.Type = TypePie
		config.Data = buildPieData(spec)
	case M.ChartKindHistogram:
		config.Type = TypeBar
		config.Data = buildHistogramData(spec)
		config.Options.Scales = buildScales(spec)
	case M.ChartKindBox:
		config.Type = TypeBoxPlot
		config.Data = buildBoxData(spec)
		config.Options.Scales = buildScales(spec)
	default:
		log.WithField("kind", spec.Kind).Error("Unknown chart kind.")
	}
	return config
}

func pointData(points []M.Point) []interface{} {
	data := make([]interface{}, 0, len(points))
	for _, point := range points {
		if point.Value == nil {
			data = append(data, nil)
			continue
		}
		data = append(data, *point.Value)
	}
	return data
}

func pointLabels(spec M.ChartSpec) []interface{} {
	labels := []interface{}{}
	if len(spec.Series) == 0 {
		return labels
	}
	for _, point := range spec.Series[0].Points {
		labels = append(labels, point.Label)
	}
	return labels
}

func buildLineData(spec M.ChartSpec) ChartData {
	chartData := ChartData{Labels: pointLabels(spec), DataSets: []Dataset{}}
	for _, series := range spec.Series {
		chartData.DataSets = append(chartData.DataSets, Dataset{
			Label:       series.Name,
			Data:        pointData(series.Points),
			LineTension: lineTension,
			YAxisID:     series.Axis,
			BorderColor: series.Color,
		})
	}
	return chartData
}

func buildBarData(spec M.ChartSpec) ChartData {
	chartData := ChartData{Labels: pointLabels(spec), DataSets: []Dataset{}}
	for _, series := range spec.Series {
		chartData.DataSets = append(chartData.DataSets, Dataset{
			Label:           series.Name,
			Data:            pointData(series.Points),
			YAxisID:         series.Axis,
			BackgroundColor: series.Color,
		})
	}
	return chartData
}

func buildPieData(spec M.ChartSpec) ChartData {
	chartData := ChartData{Labels: pointLabels(spec), DataSets: []Dataset{}}
	for _, series := range spec.Series {
		colors := make([]string, 0, len(series.Points))
		for i := range series.Points {
			colors = append(colors, piePalette[i%len(piePalette)])
		}
		chartData.DataSets = append(chartData.DataSets, Dataset{
			Label:           series.Name,
			Data:            pointData(series.Points),
			BackgroundColor: colors,
		})
	}
	return chartData
}

// HistogramBinLabel is the category label of a bin, e.g. "100-200".
func HistogramBinLabel(bin H.NumericBin) string {
	return humanize.Ftoa(bin.Lower) + "-" + humanize.Ftoa(bin.Upper)
}

func buildHistogramData(spec M.ChartSpec) ChartData {
	chartData := ChartData{Labels: []interface{}{}, DataSets: []Dataset{}}
	if len(spec.Series) == 0 {
		return chartData
	}

	series := spec.Series[0]
	bins := H.NewNumericHistogram(series.Values).Bins(0)
	dataSet := Dataset{
		Label:              series.Name,
		Data:               make([]interface{}, 0, len(bins)),
		YAxisID:            series.Axis,
		BackgroundColor:    series.Color,
		BarPercentage:      fullBarWidth,
		CategoryPercentage: fullBarWidth,
	}
	for _, bin := range bins {
		chartData.Labels = append(chartData.Labels, HistogramBinLabel(bin))
		dataSet.Data = append(dataSet.Data, bin.Count)
	}
	chartData.DataSets = append(chartData.DataSets, dataSet)
	return chartData
}

func buildBoxData(spec M.ChartSpec) ChartData {
	chartData := ChartData{Labels: []interface{}{}, DataSets: []Dataset{}}
	if len(spec.Series) == 0 {
		return chartData
	}

	label := spec.XAxis.Title
	if axis, ok := spec.YAxis(M.AxisPrimary); ok {
		label = axis.Title
	}
	dataSet := Dataset{
		Label:           label,
		Data:            make([]interface{}, 0, len(spec.Series)),
		YAxisID:         M.AxisPrimary,
		BorderColor:     M.ColorPrimary,
		BackgroundColor: M.ColorPrimary,
	}
	for _, series := range spec.Series {
		chartData.Labels = append(chartData.Labels, series.Name)
		dataSet.Data = append(dataSet.Data, series.Values)
	}
	chartData.DataSets = append(chartData.DataSets, dataSet)
	return chartData
}

func buildScales(spec M.ChartSpec) *Scales {
	scales := &Scales{
		XAxes: []Axis{{
			ID:         spec.XAxis.ID,
			ScaleLabel: ScaleLabel{Display: spec.XAxis.Title != "", LabelString: spec.XAxis.Title},
			GridLines:  GridLines{Display: spec.XAxis.ShowGrid},
		}},
		YAxes: make([]Axis, 0, len(spec.YAxes)),
	}
	for i, axis := range spec.YAxes {
		scales.YAxes = append(scales.YAxes, Axis{
			ID:         axis.ID,
			Position:   axis.Side,
			ScaleLabel: ScaleLabel{Display: axis.Title != "", LabelString: axis.Title},
			// Secondary axes draw no grid of their own.
			GridLines: GridLines{Display: i == 0},
		})
	}
	return scales
}

// BuildTableConfig tabulates the point series of spec, one row per label.
// Charts of raw values (histogram, box) have no table and return false.
func BuildTableConfig(spec M.ChartSpec) (TableConfig, bool) {
	if len(spec.Series) == 0 || len(spec.Series[0].Points) == 0 {
		return TableConfig{}, false
	}

	const labelIndex = "label"
	config := TableConfig{
		Title:      spec.Title,
		Columns:    []Column{{Title: spec.XAxis.Title, DataIndex: labelIndex}},
		DataSource: []interface{}{},
	}
	for i, series := range spec.Series {
		config.Columns = append(config.Columns, Column{Title: series.Name, DataIndex: fmt.Sprintf("s%d", i)})
	}

	for row, point := range spec.Series[0].Points {
		record := map[string]interface{}{labelIndex: point.Label}
		for i, series := range spec.Series {
			if row < len(series.Points) && series.Points[row].Value != nil {
				record[fmt.Sprintf("s%d", i)] = humanize.Ftoa(*series.Points[row].Value)
			}
		}
		config.DataSource = append(config.DataSource, record)
	}
	return config, true
}
