package plotchart

import (
	"fmt"
	"image/color"
	"io"
	"math"
	"strings"

	H "github.com/swastikanata/ecommerce-dashboard/histogram"
	M "github.com/swastikanata/ecommerce-dashboard/model"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

const (
	DefaultWidth  = 10 * vg.Inch
	DefaultHeight = 6 * vg.Inch
	// Height of each panel when a chart has one panel per y axis.
	panelHeight = 4 * vg.Inch
	FormatPNG   = "png"
)

// ErrUnsupportedKind is returned for chart kinds gonum/plot cannot draw, i.e. pie charts.
var ErrUnsupportedKind = errors.New("chart kind not supported for image rendering")

// RenderPNG draws spec as a png image. Charts with a secondary y axis are drawn as
// vertically stacked panels, one per axis, sharing the x labels.
func RenderPNG(w io.Writer, spec M.ChartSpec) error {
	panels, err := buildPanels(spec)
	if err != nil {
		return err
	}

	if len(panels) == 1 {
		writerTo, err := panels[0].WriterTo(DefaultWidth, DefaultHeight, FormatPNG)
		if err != nil {
			return errors.Wrap(err, "failed to create png writer")
		}
		_, err = writerTo.WriteTo(w)
		return errors.Wrap(err, "failed to write png")
	}

	img := vgimg.New(DefaultWidth, panelHeight*vg.Length(len(panels)))
	dc := draw.New(img)
	tiles := draw.Tiles{
		Rows: len(panels),
		Cols: 1,
		PadY: vg.Points(12),
	}

	grid := make([][]*plot.Plot, 0, len(panels))
	for _, panel := range panels {
		grid = append(grid, []*plot.Plot{panel})
	}
	canvases := plot.Align(grid, tiles, dc)
	for i, panel := range panels {
		panel.Draw(canvases[i][0])
	}

	png := vgimg.PngCanvas{Canvas: img}
	_, err = png.WriteTo(w)
	return errors.Wrap(err, "failed to write png")
}

func buildPanels(spec M.ChartSpec) ([]*plot.Plot, error) {
	switch spec.Kind {
	case M.ChartKindLine:
		return buildLinePanels(spec)
	case M.ChartKindBar:
		p, err := buildBarPanel(spec)
		return []*plot.Plot{p}, err
	case M.ChartKindHistogram:
		p, err := buildHistogramPanel(spec)
		return []*plot.Plot{p}, err
	case M.ChartKindBox:
		p, err := buildBoxPanel(spec)
		return []*plot.Plot{p}, err
	}

	log.WithFields(log.Fields{"chart": spec.ID, "kind": spec.Kind}).
		Debug("Chart kind has no image rendering.")
	return nil, ErrUnsupportedKind
}

func newPlot(spec M.ChartSpec, yTitle string) *plot.Plot {
	p := plot.New()
	p.Title.Text = spec.Title
	p.Title.TextStyle.Font.Size = vg.Points(14)
	p.X.Label.Text = spec.XAxis.Title
	p.Y.Label.Text = yTitle
	p.Legend.Top = true
	if spec.XAxis.ShowGrid {
		p.Add(plotter.NewGrid())
	}
	return p
}

func primaryTitle(spec M.ChartSpec) string {
	if axis, ok := spec.YAxis(M.AxisPrimary); ok {
		return axis.Title
	}
	return ""
}

// nominalX labels the x axis with categories, rotating them when there are many.
func nominalX(p *plot.Plot, labels []string) {
	if len(labels) == 0 {
		return
	}
	p.NominalX(labels...)
	if len(labels) > 8 {
		p.X.Tick.Label.Rotation = math.Pi / 4
		p.X.Tick.Label.XAlign = draw.XRight
		p.X.Tick.Label.YAlign = draw.YCenter
	}
}

func buildLinePanels(spec M.ChartSpec) ([]*plot.Plot, error) {
	axes := spec.YAxes
	if len(axes) == 0 {
		axes = []M.Axis{{ID: M.AxisPrimary}}
	}

	var labels []string
	if len(spec.Series) > 0 {
		for _, point := range spec.Series[0].Points {
			labels = append(labels, point.Label)
		}
	}

	panels := make([]*plot.Plot, 0, len(axes))
	for i, axis := range axes {
		p := newPlot(spec, axis.Title)
		if i > 0 {
			p.Title.Text = ""
		}

		for _, series := range spec.Series {
			if len(axes) > 1 && series.Axis != axis.ID {
				continue
			}
			xys := make(plotter.XYs, 0, len(series.Points))
			for x, point := range series.Points {
				if point.Value == nil {
					continue
				}
				xys = append(xys, plotter.XY{X: float64(x), Y: *point.Value})
			}
			if len(xys) == 0 {
				continue
			}

			line, err := plotter.NewLine(xys)
			if err != nil {
				return nil, errors.Wrapf(err, "failed to plot series %s", series.Name)
			}
			line.Color = HexColor(series.Color)
			line.Width = vg.Points(2)
			p.Add(line)
			if spec.ShowLegend {
				p.Legend.Add(series.Name, line)
			}
		}

		nominalX(p, labels)
		panels = append(panels, p)
	}
	return panels, nil
}

func buildBarPanel(spec M.ChartSpec) (*plot.Plot, error) {
	p := newPlot(spec, primaryTitle(spec))
	if spec.IsEmpty() {
		return p, nil
	}

	series := spec.Series[0]
	values := make(plotter.Values, 0, len(series.Points))
	labels := make([]string, 0, len(series.Points))
	for _, point := range series.Points {
		value := 0.0
		if point.Value != nil {
			value = *point.Value
		}
		values = append(values, value)
		labels = append(labels, point.Label)
	}

	bars, err := plotter.NewBarChart(values, vg.Points(30))
	if err != nil {
		return nil, errors.Wrap(err, "failed to plot bars")
	}
	bars.Color = HexColor(series.Color)
	bars.LineStyle.Width = vg.Length(0)
	p.Add(bars)
	nominalX(p, labels)

	if spec.ShowValueLabels {
		xys := make(plotter.XYs, 0, len(values))
		texts := make([]string, 0, len(values))
		for i, value := range values {
			xys = append(xys, plotter.XY{X: float64(i), Y: value})
			texts = append(texts, humanize.Ftoa(value))
		}
		valueLabels, err := plotter.NewLabels(plotter.XYLabels{XYs: xys, Labels: texts})
		if err != nil {
			return nil, errors.Wrap(err, "failed to plot value labels")
		}
		for i := range valueLabels.TextStyle {
			valueLabels.TextStyle[i].XAlign = draw.XCenter
		}
		p.Add(valueLabels)
	}
	return p, nil
}

func buildHistogramPanel(spec M.ChartSpec) (*plot.Plot, error) {
	p := newPlot(spec, primaryTitle(spec))
	if spec.IsEmpty() {
		return p, nil
	}

	series := spec.Series[0]
	bins := H.NewNumericHistogram(series.Values).Bins(0)
	if len(bins) == 0 {
		return p, nil
	}

	hist := &plotter.Histogram{
		Bins:      make([]plotter.HistogramBin, 0, len(bins)),
		Width:     bins[0].Upper - bins[0].Lower,
		FillColor: HexColor(series.Color),
		LineStyle: plotter.DefaultLineStyle,
	}
	for _, bin := range bins {
		hist.Bins = append(hist.Bins, plotter.HistogramBin{Min: bin.Lower, Max: bin.Upper, Weight: float64(bin.Count)})
	}
	p.Add(hist)
	return p, nil
}

func buildBoxPanel(spec M.ChartSpec) (*plot.Plot, error) {
	p := newPlot(spec, primaryTitle(spec))
	if spec.IsEmpty() {
		return p, nil
	}

	names := make([]string, 0, len(spec.Series))
	for i, series := range spec.Series {
		if len(series.Values) == 0 {
			continue
		}
		box, err := plotter.NewBoxPlot(vg.Points(40), float64(len(names)), plotter.Values(series.Values))
		if err != nil {
			return nil, errors.Wrapf(err, "failed to plot box %d", i)
		}
		box.FillColor = HexColor(series.Color)
		p.Add(box)
		names = append(names, series.Name)
	}
	nominalX(p, names)
	return p, nil
}

// HexColor parses "#RRGGBB". Anything else is black.
func HexColor(hex string) color.Color {
	var r, g, b uint8
	if _, err := fmt.Sscanf(strings.TrimPrefix(hex, "#"), "%02x%02x%02x", &r, &g, &b); err != nil {
		return color.Black
	}
	return color.RGBA{R: r, G: g, B: b, A: 255}
}
