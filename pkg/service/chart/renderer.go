package chart

import (
	"io"
	"strings"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/secmon-lab/insights/pkg/domain/model"
	"github.com/secmon-lab/insights/pkg/domain/types"
)

const (
	defaultHeight = "420px"
	gaugeHeight   = "300px"
	noDataLabel   = "No data"
)

// Renderable is a chart that writes itself as a complete go-echarts HTML page
type Renderable interface {
	Render(w io.Writer) error
}

// Renderer maps renderer-independent chart data onto go-echarts charts
type Renderer struct {
	opts   *Options
	height string
}

// Option is a functional option for configuring Renderer
type Option func(*Renderer)

// WithOptions replaces the themed chart options
func WithOptions(o *Options) Option {
	return func(r *Renderer) {
		r.opts = o
	}
}

// WithHeight sets the height of rectangular charts
func WithHeight(height string) Option {
	return func(r *Renderer) {
		r.height = height
	}
}

// New creates a new Renderer
func New(options ...Option) *Renderer {
	r := &Renderer{
		opts:   DefaultOptions(),
		height: defaultHeight,
	}
	for _, opt := range options {
		opt(r)
	}
	return r
}

// ElementID returns the DOM id of a builtin chart
func ElementID(kind types.ChartKind) string {
	return "chart_" + strings.ReplaceAll(kind.String(), "-", "_")
}

// CustomElementID returns the DOM id of a custom chart
func CustomElementID(id types.ChartID) string {
	return "custom_" + id.String()
}

// Placeholder renders an axis-less chart carrying only a title and a subtitle
func (r *Renderer) Placeholder(elementID, title, subtitle string) Renderable {
	bar := charts.NewBar()
	init := r.opts.Init(r.height)
	init.ChartID = elementID
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(init),
		charts.WithTitleOpts(r.opts.Title(title, subtitle)),
		charts.WithXAxisOpts(opts.XAxis{Show: opts.Bool(false)}),
		charts.WithYAxisOpts(opts.YAxis{Show: opts.Bool(false)}),
	)
	return bar
}

// Error renders the labelled error state of a chart whose computation failed
func (r *Renderer) Error(elementID, title string, err error) Renderable {
	subtitle := "Error"
	if err != nil {
		subtitle = "Error: " + err.Error()
	}
	bar := charts.NewBar()
	init := r.opts.Init(r.height)
	init.ChartID = elementID
	t := r.opts.Title(title, subtitle)
	t.SubtitleStyle = &opts.TextStyle{Color: r.opts.theme.Danger}
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(init),
		charts.WithTitleOpts(t),
		charts.WithXAxisOpts(opts.XAxis{Show: opts.Bool(false)}),
		charts.WithYAxisOpts(opts.YAxis{Show: opts.Bool(false)}),
	)
	return bar
}

func (r *Renderer) rectGlobals(elementID, title, subtitle, xName, yName string) []charts.GlobalOpts {
	init := r.opts.Init(r.height)
	init.ChartID = elementID
	return []charts.GlobalOpts{
		charts.WithInitializationOpts(init),
		charts.WithTitleOpts(r.opts.Title(title, subtitle)),
		charts.WithTooltipOpts(r.opts.Tooltip("axis")),
		charts.WithLegendOpts(r.opts.Legend()),
		charts.WithGridOpts(r.opts.Grid()),
		charts.WithXAxisOpts(r.opts.XAxis(xName)),
		charts.WithYAxisOpts(r.opts.YAxis(yName)),
	}
}

func toBarData(values []float64) []opts.BarData {
	out := make([]opts.BarData, len(values))
	for i, v := range values {
		out[i] = opts.BarData{Value: v}
	}
	return out
}

func toLineData(values []float64) []opts.LineData {
	out := make([]opts.LineData, len(values))
	for i, v := range values {
		out[i] = opts.LineData{Value: v}
	}
	return out
}

func firstSeries(data model.ChartData) []float64 {
	if len(data.Series) == 0 {
		return make([]float64, len(data.Categories))
	}
	return data.Series[0].Values
}

func seriesOpts(color string) []charts.SeriesOpts {
	if color == "" {
		return nil
	}
	return []charts.SeriesOpts{charts.WithItemStyleOpts(opts.ItemStyle{Color: color})}
}
