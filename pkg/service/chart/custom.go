package chart

import (
	"sort"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/insights/pkg/domain/model"
	"github.com/secmon-lab/insights/pkg/domain/types"
)

// Custom renders a user defined chart
func (r *Renderer) Custom(data model.ChartData) Renderable {
	id := CustomElementID(data.ChartID)
	if data.Empty {
		return r.Placeholder(id, data.Title, noDataLabel)
	}

	switch data.Type {
	case types.ChartTypeBar:
		return r.customBar(id, data)
	case types.ChartTypeLine:
		return r.customLine(id, data)
	case types.ChartTypePie:
		return r.customPie(id, data)
	case types.ChartTypeScatter:
		return r.customScatter(id, data)
	case types.ChartTypeBox:
		return r.customBox(id, data)
	default:
		return r.Error(id, data.Title, goerr.New("unsupported chart type", goerr.V("type", data.Type)))
	}
}

// grouped is a set of series aligned on one category axis
type grouped struct {
	categories []string
	series     []model.Series
}

// groupPoints folds raw points into one series per color value. Points sharing
// x and color are combined by reduce.
func groupPoints(points []model.Point, reduce func([]float64) float64) grouped {
	var categories, colors []string
	catIdx := make(map[string]int)
	colorIdx := make(map[string]int)
	values := make(map[[2]int][]float64)

	for _, p := range points {
		ci, ok := catIdx[p.X]
		if !ok {
			ci = len(categories)
			catIdx[p.X] = ci
			categories = append(categories, p.X)
		}
		gi, ok := colorIdx[p.Color]
		if !ok {
			gi = len(colors)
			colorIdx[p.Color] = gi
			colors = append(colors, p.Color)
		}
		key := [2]int{gi, ci}
		values[key] = append(values[key], p.Y)
	}

	out := grouped{categories: categories}
	for gi, color := range colors {
		s := model.Series{Name: color, Values: make([]float64, len(categories))}
		if s.Name == "" {
			s.Name = "Value"
		}
		for ci := range categories {
			if v, ok := values[[2]int{gi, ci}]; ok {
				s.Values[ci] = reduce(v)
			}
		}
		out.series = append(out.series, s)
	}
	return out
}

func sum(values []float64) float64 {
	var s float64
	for _, v := range values {
		s += v
	}
	return s
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return model.Round1(sum(values) / float64(len(values)))
}

func aligned(data model.ChartData, reduce func([]float64) float64) grouped {
	if len(data.Points) > 0 {
		return groupPoints(data.Points, reduce)
	}
	return grouped{categories: data.Categories, series: data.Series}
}

func maxOf(values []float64) float64 {
	var m float64
	for i, v := range values {
		if i == 0 || v > m {
			m = v
		}
	}
	return m
}

// categoryY swaps the value y-axis for the labels of a categorical y field.
// Point values are then positions on that axis.
func (r *Renderer) categoryY(data model.ChartData) []charts.GlobalOpts {
	if len(data.YCategories) == 0 {
		return nil
	}
	y := r.opts.YAxis(yAxisName(data))
	y.Type = "category"
	y.Data = data.YCategories
	return []charts.GlobalOpts{charts.WithYAxisOpts(y)}
}

func yAxisName(data model.ChartData) string {
	if data.YField == types.FieldCount {
		return "Findings"
	}
	return data.YField.String()
}

// customBar stacks raw values per x like a bar of individual rows would
func (r *Renderer) customBar(id string, data model.ChartData) Renderable {
	reduce := sum
	if len(data.YCategories) > 0 {
		reduce = maxOf
	}
	g := aligned(data, reduce)
	bar := charts.NewBar()
	bar.SetGlobalOptions(append(r.rectGlobals(id, data.Title, "", data.XField.String(), yAxisName(data)), r.categoryY(data)...)...)
	bar.SetXAxis(g.categories)
	for _, s := range g.series {
		bar.AddSeries(s.Name, toBarData(s.Values), seriesOpts(r.opts.theme.seriesColor(data.ColorField, s.Name))...)
	}
	return bar
}

func (r *Renderer) customLine(id string, data model.ChartData) Renderable {
	reduce := mean
	if len(data.YCategories) > 0 {
		reduce = maxOf
	}
	g := aligned(data, reduce)
	line := charts.NewLine()
	line.SetGlobalOptions(append(r.rectGlobals(id, data.Title, "", data.XField.String(), yAxisName(data)), r.categoryY(data)...)...)
	line.SetXAxis(g.categories)
	for _, s := range g.series {
		line.AddSeries(s.Name, toLineData(s.Values), seriesOpts(r.opts.theme.seriesColor(data.ColorField, s.Name))...)
	}
	return line
}

func (r *Renderer) customPie(id string, data model.ChartData) Renderable {
	pie := charts.NewPie()
	init := r.opts.Init(r.height)
	init.ChartID = id
	pie.SetGlobalOptions(
		charts.WithInitializationOpts(init),
		charts.WithTitleOpts(r.opts.Title(data.Title, "")),
		charts.WithTooltipOpts(r.opts.Tooltip("item")),
		charts.WithLegendOpts(r.opts.Legend()),
	)

	values := firstSeries(data)
	items := make([]opts.PieData, 0, len(data.Categories))
	for i, c := range data.Categories {
		item := opts.PieData{Name: c, Value: values[i]}
		if color := r.opts.theme.seriesColor(data.XField, c); color != "" {
			item.ItemStyle = &opts.ItemStyle{Color: color}
		}
		items = append(items, item)
	}
	pie.AddSeries(data.XField.String(), items,
		charts.WithPieChartOpts(opts.PieChart{Radius: "65%"}),
		charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Formatter: "{b}: {c}"}),
	)
	return pie
}

func (r *Renderer) customScatter(id string, data model.ChartData) Renderable {
	scatter := charts.NewScatter()
	globals := r.rectGlobals(id, data.Title, "", data.XField.String(), yAxisName(data))
	globals = append(globals, charts.WithTooltipOpts(r.opts.Tooltip("item")))

	if len(data.Points) == 0 {
		// frequency data: one marker per category
		scatter.SetGlobalOptions(globals...)
		scatter.SetXAxis(data.Categories)
		for _, s := range data.Series {
			points := make([]opts.ScatterData, len(s.Values))
			for i, v := range s.Values {
				points[i] = opts.ScatterData{Value: v, SymbolSize: 12}
			}
			scatter.AddSeries(s.Name, points, seriesOpts(r.opts.theme.seriesColor(data.ColorField, s.Name))...)
		}
		return scatter
	}

	numericX := data.XField.Numeric()
	if numericX {
		x := r.opts.XAxis(data.XField.String())
		x.Type = "value"
		globals = append(globals, charts.WithXAxisOpts(x))
	} else {
		g := groupPoints(data.Points, sum)
		x := r.opts.XAxis(data.XField.String())
		x.Type = "category"
		x.Data = g.categories
		globals = append(globals, charts.WithXAxisOpts(x))
	}
	globals = append(globals, r.categoryY(data)...)
	scatter.SetGlobalOptions(globals...)

	var order []string
	byColor := make(map[string][]opts.ScatterData)
	for _, p := range data.Points {
		var x any = p.X
		if numericX {
			if v, err := strconv.ParseFloat(p.X, 64); err == nil {
				x = v
			}
		}
		if _, ok := byColor[p.Color]; !ok {
			order = append(order, p.Color)
		}
		byColor[p.Color] = append(byColor[p.Color], opts.ScatterData{Value: []any{x, p.Y}, SymbolSize: 10})
	}
	for _, color := range order {
		name := color
		if name == "" {
			name = yAxisName(data)
		}
		scatter.AddSeries(name, byColor[color], seriesOpts(r.opts.theme.seriesColor(data.ColorField, color))...)
	}
	return scatter
}

// customBox draws one box per x value over the y values of its rows
func (r *Renderer) customBox(id string, data model.ChartData) Renderable {
	var categories []string
	samples := make(map[string][]float64)

	if len(data.Points) > 0 {
		for _, p := range data.Points {
			if _, ok := samples[p.X]; !ok {
				categories = append(categories, p.X)
			}
			samples[p.X] = append(samples[p.X], p.Y)
		}
	} else {
		// frequency data: the distribution of counts across x
		name := yAxisName(data)
		categories = []string{name}
		for _, s := range data.Series {
			samples[name] = append(samples[name], s.Values...)
		}
	}

	items := make([]opts.BoxPlotData, 0, len(categories))
	for _, c := range categories {
		items = append(items, opts.BoxPlotData{Name: c, Value: fiveNumber(samples[c])})
	}

	box := charts.NewBoxPlot()
	globals := r.rectGlobals(id, data.Title, "", data.XField.String(), yAxisName(data))
	globals = append(globals, charts.WithTooltipOpts(r.opts.Tooltip("item")))
	globals = append(globals, r.categoryY(data)...)
	box.SetGlobalOptions(globals...)
	box.SetXAxis(categories)
	box.AddSeries(yAxisName(data), items, seriesOpts(r.opts.theme.Accent)...)
	return box
}

// fiveNumber returns min, lower quartile, median, upper quartile and max
func fiveNumber(values []float64) []float64 {
	if len(values) == 0 {
		return []float64{0, 0, 0, 0, 0}
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	return []float64{
		sorted[0],
		quantile(sorted, 0.25),
		quantile(sorted, 0.5),
		quantile(sorted, 0.75),
		sorted[len(sorted)-1],
	}
}

// quantile interpolates linearly between closest ranks of sorted values
func quantile(sorted []float64, q float64) float64 {
	pos := q * float64(len(sorted)-1)
	lo := int(pos)
	if lo+1 >= len(sorted) {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo] + frac*(sorted[lo+1]-sorted[lo])
}
