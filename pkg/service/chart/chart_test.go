package chart_test

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/insights/pkg/domain/model"
	"github.com/secmon-lab/insights/pkg/domain/types"
	"github.com/secmon-lab/insights/pkg/service/chart"
)

func render(t *testing.T, r chart.Renderable) string {
	t.Helper()
	var buf bytes.Buffer
	gt.NoError(t, r.Render(&buf))
	return buf.String()
}

func severityData() model.ChartData {
	return model.ChartData{
		Kind:       types.ChartSeverity,
		Type:       types.ChartTypePie,
		Title:      "Findings by Severity",
		Categories: []string{"Critical", "High", "Medium", "Low"},
		Series:     []model.Series{{Name: "Count", Values: []float64{2, 5, 0, 10}}},
	}
}

func TestBuiltin(t *testing.T) {
	r := chart.New()

	t.Run("severity pie carries title and element id", func(t *testing.T) {
		html := render(t, r.Builtin(severityData()))
		gt.S(t, html).Contains("Findings by Severity")
		gt.S(t, html).Contains("chart_severity")
		gt.S(t, html).Contains("17 findings")
	})

	t.Run("empty view renders a titled placeholder", func(t *testing.T) {
		html := render(t, r.Builtin(model.ChartData{
			Kind:  types.ChartSource,
			Title: "Findings by Source",
			Empty: true,
		}))
		gt.S(t, html).Contains("Findings by Source")
		gt.S(t, html).Contains("No data")
	})

	t.Run("every builtin kind renders", func(t *testing.T) {
		charts := []model.ChartData{
			{Kind: types.ChartRisk, Title: "Risk Score", Value: 36.9},
			severityData(),
			{
				Kind:       types.ChartTrend,
				Title:      "Findings Trend Over Time",
				Categories: []string{"2024-01-05", "2024-01-06"},
				Series:     []model.Series{{Name: "Count", Values: []float64{3, 1}}},
			},
			{
				Kind:       types.ChartSeverityWeek,
				Title:      "Severity Distribution by Week",
				Categories: []string{"1", "2"},
				Series: []model.Series{
					{Name: "Critical", Values: []float64{1, 0}},
					{Name: "High", Values: []float64{0, 2}},
				},
			},
			{
				Kind:       types.ChartSource,
				Title:      "Findings by Source",
				Categories: []string{"Snyk", "Trivy"},
				Series:     []model.Series{{Name: "Count", Values: []float64{4, 2}}},
			},
			{
				Kind:       types.ChartCategory,
				Title:      "Findings by Category",
				Categories: []string{"Container", "Dependency"},
				Series: []model.Series{
					{Name: "High", Values: []float64{3, 0}},
					{Name: "Low", Values: []float64{1, 2}},
				},
			},
			{
				Kind:       types.ChartRepos,
				Title:      "Top 10 Repositories",
				Categories: []string{"api", "web"},
				Series:     []model.Series{{Name: "Count", Values: []float64{7, 3}}},
			},
		}

		for _, data := range charts {
			t.Run(data.Kind.String(), func(t *testing.T) {
				html := render(t, r.Builtin(data))
				gt.S(t, html).Contains(data.Title)
				gt.S(t, html).Contains(chart.ElementID(data.Kind))
			})
		}
	})

	t.Run("unknown kind renders the error state", func(t *testing.T) {
		html := render(t, r.Builtin(model.ChartData{Kind: "unknown", Title: "Mystery"}))
		gt.S(t, html).Contains("Mystery")
		gt.S(t, html).Contains("Error")
	})
}

func TestError(t *testing.T) {
	r := chart.New()
	html := render(t, r.Error("custom_3", "Bar: Source vs count", errors.New("boom")))
	gt.S(t, html).Contains("Bar: Source vs count")
	gt.S(t, html).Contains("Error: boom")
	gt.S(t, html).Contains("custom_3")
}

func TestHeatmap(t *testing.T) {
	r := chart.New()

	t.Run("grid", func(t *testing.T) {
		html := render(t, r.Heatmap(model.Heatmap{
			Granularity: types.GranularityWeek,
			Dimension:   types.FieldTeam,
			Rows:        []string{"platform", "web"},
			Columns:     []string{"2024-01-01", "2024-01-08"},
			Cells:       [][]int{{1, 0}, {0, 4}},
			Max:         4,
		}))
		gt.S(t, html).Contains("Findings Timeline by Assigned_Team")
		gt.S(t, html).Contains("2024-01-08")
		gt.S(t, html).Contains("chart_heatmap")
	})

	t.Run("empty", func(t *testing.T) {
		html := render(t, r.Heatmap(model.Heatmap{
			Granularity: types.GranularityDay,
			Dimension:   types.FieldTeam,
			Empty:       true,
		}))
		gt.S(t, html).Contains("No data")
	})
}

func TestCustom(t *testing.T) {
	r := chart.New()

	t.Run("frequency with color split", func(t *testing.T) {
		html := render(t, r.Custom(model.ChartData{
			ChartID:    1,
			Type:       types.ChartTypeBar,
			Title:      "Bar: Source vs count",
			XField:     types.FieldSource,
			YField:     types.FieldCount,
			ColorField: types.FieldSeverity,
			Categories: []string{"Snyk", "Trivy"},
			Series: []model.Series{
				{Name: "High", Values: []float64{2, 0}},
				{Name: "Low", Values: []float64{0, 3}},
			},
		}))
		gt.S(t, html).Contains("Bar: Source vs count")
		gt.S(t, html).Contains("custom_1")
	})

	points := []model.Point{
		{X: "1", Y: 10},
		{X: "1", Y: 20},
		{X: "2", Y: 5},
	}

	for _, typ := range []types.ChartType{types.ChartTypeBar, types.ChartTypeLine, types.ChartTypeScatter, types.ChartTypeBox} {
		t.Run("raw points as "+typ.String(), func(t *testing.T) {
			html := render(t, r.Custom(model.ChartData{
				ChartID: 2,
				Type:    typ,
				Title:   typ.Title() + ": Week_Number vs MTTR_Hours",
				XField:  types.FieldWeekNumber,
				YField:  types.FieldMTTRHours,
				Points:  points,
			}))
			gt.S(t, html).Contains(typ.Title() + ": Week_Number vs MTTR_Hours")
		})
	}

	categorical := []model.Point{
		{X: "Snyk", Y: 0, YLabel: "Critical"},
		{X: "Trivy", Y: 1, YLabel: "Medium"},
		{X: "Trivy", Y: 0, YLabel: "Critical"},
	}

	for _, typ := range []types.ChartType{types.ChartTypeBar, types.ChartTypeLine, types.ChartTypeScatter, types.ChartTypeBox} {
		t.Run("categorical y as "+typ.String(), func(t *testing.T) {
			html := render(t, r.Custom(model.ChartData{
				ChartID:     6,
				Type:        typ,
				Title:       typ.Title() + ": Source vs Severity",
				XField:      types.FieldSource,
				YField:      types.FieldSeverity,
				Points:      categorical,
				YCategories: []string{"Critical", "Medium"},
			}))
			gt.S(t, html).Contains(typ.Title() + ": Source vs Severity")
			gt.S(t, html).Contains("Medium")
		})
	}

	t.Run("pie", func(t *testing.T) {
		html := render(t, r.Custom(model.ChartData{
			ChartID:    3,
			Type:       types.ChartTypePie,
			Title:      "Pie: Status vs count",
			XField:     types.FieldStatus,
			YField:     types.FieldCount,
			Categories: []string{"Open", "Closed"},
			Series:     []model.Series{{Name: "Count", Values: []float64{4, 1}}},
		}))
		gt.S(t, html).Contains("Pie: Status vs count")
	})

	t.Run("empty", func(t *testing.T) {
		html := render(t, r.Custom(model.ChartData{ChartID: 4, Type: types.ChartTypeBox, Title: "Box", Empty: true}))
		gt.S(t, html).Contains("No data")
	})
}

func TestGroupPoints(t *testing.T) {
	categories, series := chart.GroupPoints([]model.Point{
		{X: "api", Y: 1, Color: "High"},
		{X: "web", Y: 2, Color: "Low"},
		{X: "api", Y: 3, Color: "High"},
	}, chart.Sum)

	gt.A(t, categories).Equal([]string{"api", "web"})
	gt.A(t, series).Length(2)
	gt.Equal(t, series[0].Name, "High")
	gt.A(t, series[0].Values).Equal([]float64{4, 0})

	_, highest := chart.GroupPoints([]model.Point{
		{X: "api", Y: 2, YLabel: "Medium"},
		{X: "api", Y: 0, YLabel: "Critical"},
	}, chart.MaxOf)
	gt.A(t, highest[0].Values).Equal([]float64{2})
	gt.Equal(t, series[1].Name, "Low")
	gt.A(t, series[1].Values).Equal([]float64{0, 2})
}

func TestFiveNumber(t *testing.T) {
	gt.A(t, chart.FiveNumber([]float64{5, 1, 3, 2, 4})).Equal([]float64{1, 2, 3, 4, 5})
	gt.A(t, chart.FiveNumber([]float64{7})).Equal([]float64{7, 7, 7, 7, 7})
	gt.A(t, chart.FiveNumber(nil)).Equal([]float64{0, 0, 0, 0, 0})
}

func TestExtractChartContent(t *testing.T) {
	page := `<!DOCTYPE html><html><head><style>.x{}</style></head><body><div class="container"><div class="item" id="a"></div></div><script>init()</script></body></html>`
	got := chart.ExtractChartContent(page)
	gt.S(t, got).Contains(`class="echart-box"`)
	gt.S(t, got).Contains("init()")
	gt.S(t, got).NotContains("<body>")

	fragment := `<div>already a fragment</div>`
	gt.Equal(t, chart.ExtractChartContent(fragment), fragment)
}

func TestSnapshotCards(t *testing.T) {
	t.Run("falling trend", func(t *testing.T) {
		cards := chart.SnapshotCards(&model.Snapshot{
			KPI:   model.KPI{Total: 3, Open: 1},
			Trend: model.TrendResult{Current: 1, Previous: 4, Delta: -3},
		})
		gt.Equal(t, cards[0].Value, "3")
		gt.Equal(t, cards[1].Detail, "-3 opened vs previous period")
	})

	t.Run("unchanged trend has no sign", func(t *testing.T) {
		cards := chart.SnapshotCards(&model.Snapshot{})
		gt.Equal(t, cards[1].Detail, "0 opened vs previous period")
	})
}

func TestPageRender(t *testing.T) {
	r := chart.New()
	snapshot := &model.Snapshot{
		KPI:        model.KPI{Total: 1234, Open: 10, CriticalOpen: 2, AvgMTTR: 12.25},
		Trend:      model.TrendResult{Current: 5, Previous: 3, Delta: 2},
		TotalInSet: 2000,
	}

	page := chart.NewPage("Security Insights Center", "findings.csv")
	page.LoadedAt = time.Now().Add(-time.Minute)
	page.Filter = model.FilterSet{Sources: []string{"Snyk"}}
	page.Options = model.FilterOptions{
		Sources:    []string{"Snyk", "Trivy"},
		Severities: types.CanonicalSeverities(),
	}
	page.Cards = chart.SnapshotCards(snapshot)
	gt.A(t, page.Cards).Length(4)
	gt.Equal(t, page.Cards[1].Detail, "+2 opened vs previous period")
	page.Warnings = []model.DataQualityWarning{{Kind: model.WarningNullField, Field: "Source", Count: 2}}
	page.Sections = []chart.Section{
		{Kind: types.ChartSeverity, Chart: r.Builtin(severityData())},
		{Kind: types.ChartRisk, Chart: r.Builtin(model.ChartData{Kind: types.ChartRisk, Title: "Risk Score", Value: 10})},
	}
	page.Custom = []chart.Section{
		{ChartID: 5, Chart: r.Error(chart.CustomElementID(5), "Scatter: Team vs Source", errors.New("failed to compute chart"))},
	}

	var buf bytes.Buffer
	gt.NoError(t, page.Render(&buf))
	html := buf.String()

	gt.S(t, html).Contains("echarts.min.js")
	gt.S(t, html).Contains("Security Insights Center")
	gt.S(t, html).Contains("1,234")
	gt.S(t, html).Contains("&#43;2 opened vs previous period")
	gt.S(t, html).Contains("Found 2 null values")
	gt.S(t, html).Contains(`data-kind="severity" data-drillable="true"`)
	gt.S(t, html).NotContains(`data-kind="risk" data-drillable`)
	gt.S(t, html).Contains(`data-remove="5"`)
	gt.S(t, html).Contains(`value="Snyk" selected`)
	gt.S(t, html).Contains("echart-box")
}
