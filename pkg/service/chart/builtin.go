package chart

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/insights/pkg/domain/model"
	"github.com/secmon-lab/insights/pkg/domain/types"
)

// Builtin renders one of the fixed dashboard charts. An empty view renders a
// titled "No data" placeholder.
func (r *Renderer) Builtin(data model.ChartData) Renderable {
	id := ElementID(data.Kind)
	if data.Empty {
		return r.Placeholder(id, data.Title, noDataLabel)
	}

	switch data.Kind {
	case types.ChartRisk:
		return r.gauge(id, data)
	case types.ChartSeverity:
		return r.severityPie(id, data)
	case types.ChartTrend:
		return r.trendLine(id, data)
	case types.ChartSeverityWeek:
		return r.severityWeekBar(id, data)
	case types.ChartSource:
		return r.sourceBar(id, data)
	case types.ChartCategory:
		return r.categoryTreeMap(id, data)
	case types.ChartRepos:
		return r.repoBar(id, data)
	default:
		return r.Error(id, data.Title, goerr.New("unsupported chart", goerr.V("chart", data.Kind)))
	}
}

func total(values []float64) int {
	var sum float64
	for _, v := range values {
		sum += v
	}
	return int(sum)
}

func findingsSubtitle(values []float64) string {
	return humanize.Comma(int64(total(values))) + " findings"
}

func (r *Renderer) gauge(id string, data model.ChartData) Renderable {
	g := charts.NewGauge()
	init := r.opts.Init(gaugeHeight)
	init.ChartID = id
	g.SetGlobalOptions(
		charts.WithInitializationOpts(init),
		charts.WithTitleOpts(r.opts.Title(data.Title, "0 (no open risk) to 100 (saturated)")),
		charts.WithTooltipOpts(r.opts.Tooltip("item")),
	)
	g.AddSeries("Risk", []opts.GaugeData{{Name: "Risk", Value: data.Value}},
		charts.WithItemStyleOpts(opts.ItemStyle{Color: r.riskColor(data.Value)}),
	)
	return g
}

// riskColor follows the green, amber, red bands of the gauge
func (r *Renderer) riskColor(score float64) string {
	switch {
	case score >= 70:
		return r.opts.theme.Danger
	case score >= 40:
		return r.opts.theme.Warning
	default:
		return r.opts.theme.Success
	}
}

func (r *Renderer) severityPie(id string, data model.ChartData) Renderable {
	pie := charts.NewPie()
	init := r.opts.Init(r.height)
	init.ChartID = id
	values := firstSeries(data)
	pie.SetGlobalOptions(
		charts.WithInitializationOpts(init),
		charts.WithTitleOpts(r.opts.Title(data.Title, findingsSubtitle(values))),
		charts.WithTooltipOpts(r.opts.Tooltip("item")),
		charts.WithLegendOpts(r.opts.Legend()),
	)

	items := make([]opts.PieData, 0, len(data.Categories))
	for i, sev := range data.Categories {
		items = append(items, opts.PieData{
			Name:      sev,
			Value:     values[i],
			ItemStyle: &opts.ItemStyle{Color: r.opts.theme.SeverityColor(types.Severity(sev))},
		})
	}
	pie.AddSeries("Severity", items,
		charts.WithPieChartOpts(opts.PieChart{Radius: []string{"40%", "70%"}}),
		charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Formatter: "{b}: {c}"}),
	)
	return pie
}

func (r *Renderer) trendLine(id string, data model.ChartData) Renderable {
	line := charts.NewLine()
	values := firstSeries(data)
	line.SetGlobalOptions(r.rectGlobals(id, data.Title, findingsSubtitle(values), "Date", "Findings")...)
	line.SetXAxis(data.Categories)
	line.AddSeries("Findings", toLineData(values),
		charts.WithItemStyleOpts(opts.ItemStyle{Color: r.opts.theme.Accent}),
		charts.WithLineStyleOpts(opts.LineStyle{Color: r.opts.theme.Accent}),
		charts.WithAreaStyleOpts(opts.AreaStyle{Opacity: opts.Float(0.2)}),
		charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(true)}),
	)
	return line
}

func (r *Renderer) severityWeekBar(id string, data model.ChartData) Renderable {
	bar := charts.NewBar()
	bar.SetGlobalOptions(r.rectGlobals(id, data.Title, "", "Week", "Findings")...)
	bar.SetXAxis(data.Categories)
	for _, s := range data.Series {
		bar.AddSeries(s.Name, toBarData(s.Values),
			charts.WithItemStyleOpts(opts.ItemStyle{Color: r.opts.theme.SeverityColor(types.Severity(s.Name))}),
			charts.WithBarChartOpts(opts.BarChart{Stack: "severity"}),
		)
	}
	return bar
}

func (r *Renderer) sourceBar(id string, data model.ChartData) Renderable {
	bar := charts.NewBar()
	values := firstSeries(data)
	bar.SetGlobalOptions(r.rectGlobals(id, data.Title, findingsSubtitle(values), "Source", "Findings")...)
	bar.SetXAxis(data.Categories)
	bar.AddSeries("Findings", toBarData(values), seriesOpts(r.opts.theme.Accent)...)
	return bar
}

// repoBar draws horizontal bars with the largest repository on top
func (r *Renderer) repoBar(id string, data model.ChartData) Renderable {
	values := firstSeries(data)
	n := len(data.Categories)
	labels := make([]string, n)
	reversed := make([]float64, n)
	for i := range data.Categories {
		labels[n-1-i] = data.Categories[i]
		reversed[n-1-i] = values[i]
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(r.rectGlobals(id, data.Title, findingsSubtitle(values), "", "Findings")...)
	bar.SetXAxis(labels)
	bar.AddSeries("Findings", toBarData(reversed), seriesOpts(r.opts.theme.AccentSoft)...)
	bar.XYReversal()
	return bar
}

// categoryTreeMap nests severities below each category, sized by count
func (r *Renderer) categoryTreeMap(id string, data model.ChartData) Renderable {
	nodes := make([]opts.TreeMapNode, 0, len(data.Categories))
	for i, category := range data.Categories {
		node := opts.TreeMapNode{Name: category}
		for _, s := range data.Series {
			if i >= len(s.Values) || s.Values[i] == 0 {
				continue
			}
			node.Children = append(node.Children, opts.TreeMapNode{
				Name:  s.Name,
				Value: int(s.Values[i]),
			})
			node.Value += int(s.Values[i])
		}
		nodes = append(nodes, node)
	}

	tm := charts.NewTreeMap()
	init := r.opts.Init(r.height)
	init.ChartID = id
	tm.SetGlobalOptions(
		charts.WithInitializationOpts(init),
		charts.WithTitleOpts(r.opts.Title(data.Title, "Sized by findings, split by severity")),
		charts.WithTooltipOpts(r.opts.Tooltip("item")),
	)
	tm.AddSeries("Category", nodes, charts.WithTreeMapOpts(opts.TreeMapChart{
		Animation:  opts.Bool(true),
		Roam:       opts.Bool(false),
		LeafDepth:  2,
		Label:      &opts.Label{Show: opts.Bool(true), Formatter: "{b}"},
		UpperLabel: &opts.UpperLabel{Show: opts.Bool(true)},
		Left:       "2%", Right: "2%", Top: "15%", Bottom: "2%",
	}))
	return tm
}

// Heatmap renders the dimension x time bucket grid
func (r *Renderer) Heatmap(hm model.Heatmap) Renderable {
	id := ElementID(types.ChartHeatmap)
	title := fmt.Sprintf("Findings Timeline by %s", hm.Dimension)
	if hm.Empty {
		return r.Placeholder(id, title, noDataLabel)
	}

	data := make([]opts.HeatMapData, 0, len(hm.Rows)*len(hm.Columns))
	for i := range hm.Rows {
		for j := range hm.Columns {
			data = append(data, opts.HeatMapData{Value: []any{j, i, hm.Cells[i][j]}})
		}
	}

	init := r.opts.Init(r.height)
	init.ChartID = id
	chart := charts.NewHeatMap()
	chart.SetGlobalOptions(
		charts.WithInitializationOpts(init),
		charts.WithTitleOpts(r.opts.Title(title, fmt.Sprintf("per %s", hm.Granularity))),
		charts.WithTooltipOpts(r.opts.Tooltip("item")),
		charts.WithXAxisOpts(opts.XAxis{
			Type:      "category",
			Data:      hm.Columns,
			SplitArea: &opts.SplitArea{Show: opts.Bool(true)},
			AxisLabel: &opts.AxisLabel{Color: r.opts.theme.TextMuted},
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Type:      "category",
			Data:      hm.Rows,
			SplitArea: &opts.SplitArea{Show: opts.Bool(true)},
			AxisLabel: &opts.AxisLabel{Color: r.opts.theme.TextMuted},
		}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Calculable: opts.Bool(true),
			Min:        0,
			Max:        float32(hm.Max),
			InRange:    &opts.VisualMapInRange{Color: []string{r.opts.theme.Card, r.opts.theme.AccentSoft, r.opts.theme.Danger}},
			Orient:     "horizontal",
			Left:       "center",
			Bottom:     "2%",
			TextStyle:  &opts.TextStyle{Color: r.opts.theme.TextMuted},
		}),
		charts.WithGridOpts(opts.Grid{Left: "15%", Right: "5%", Top: "15%", Bottom: "20%"}),
	)
	chart.AddSeries("Findings", data)
	return chart
}
