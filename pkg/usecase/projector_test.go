package usecase_test

import (
	"testing"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/insights/pkg/domain/model"
	"github.com/secmon-lab/insights/pkg/domain/types"
	"github.com/secmon-lab/insights/pkg/usecase"
)

var defaultOpts = usecase.ProjectOptions{TopRepos: 10, Sensitivity: 50}

func TestProjectBuiltinSeverity(t *testing.T) {
	t.Run("canonical order keeps zero-count severities", func(t *testing.T) {
		view := concat(
			repeat(2, types.SeverityCritical),
			repeat(1, types.SeverityHigh),
			repeat(3, types.SeverityLow),
		)
		data, err := usecase.ProjectBuiltin(view, types.ChartSeverity, defaultOpts)
		gt.NoError(t, err).Required()
		gt.False(t, data.Empty)
		gt.Equal(t, data.Type, types.ChartTypePie)
		gt.Equal(t, data.Categories, []string{"Critical", "High", "Medium", "Low"})
		gt.Equal(t, data.Series[0].Values, []float64{2, 1, 0, 3})
	})

	t.Run("unrecognized severities are appended after Low", func(t *testing.T) {
		view := concat(
			repeat(1, types.SeverityHigh),
			repeat(2, types.Severity("Info")),
		)
		data, err := usecase.ProjectBuiltin(view, types.ChartSeverity, defaultOpts)
		gt.NoError(t, err).Required()
		gt.Equal(t, data.Categories, []string{"Critical", "High", "Medium", "Low", "Info"})
		gt.Equal(t, data.CountOf("Info"), 2.0)
	})
}

func TestProjectBuiltinEmpty(t *testing.T) {
	for _, kind := range types.BuiltinCharts() {
		t.Run(kind.String(), func(t *testing.T) {
			data, err := usecase.ProjectBuiltin(nil, kind, defaultOpts)
			gt.NoError(t, err).Required()
			gt.True(t, data.Empty)
			gt.Equal(t, data.Kind, kind)
			gt.True(t, data.Title != "")
		})
	}
}

func TestProjectBuiltinUnknown(t *testing.T) {
	_, err := usecase.ProjectBuiltin(repeat(1, types.SeverityLow), types.ChartKind("radar"), defaultOpts)
	gt.Error(t, err)
	gt.B(t, goerr.HasTag(err, model.ErrTagUnknownChart)).True()
}

func TestProjectBuiltinTrend(t *testing.T) {
	view := concat(
		repeat(2, types.SeverityHigh, withOpenedAt(baseTime.Add(48*time.Hour))),
		repeat(1, types.SeverityHigh, withOpenedAt(baseTime)),
		repeat(1, types.SeverityHigh, withOpenedAt(baseTime.Add(5*time.Hour))),
	)
	data, err := usecase.ProjectBuiltin(view, types.ChartTrend, defaultOpts)
	gt.NoError(t, err).Required()
	gt.Equal(t, data.Categories, []string{"2024-01-08", "2024-01-10"})
	gt.Equal(t, data.Series[0].Values, []float64{2, 2})
}

func TestProjectBuiltinSeverityWeek(t *testing.T) {
	view := concat(
		repeat(2, types.SeverityHigh, withOpenedAt(baseTime)),
		repeat(1, types.SeverityCritical, withOpenedAt(baseTime.AddDate(0, 0, 7))),
		repeat(1, types.SeverityHigh, withOpenedAt(baseTime.AddDate(0, 0, 56))),
	)
	data, err := usecase.ProjectBuiltin(view, types.ChartSeverityWeek, defaultOpts)
	gt.NoError(t, err).Required()

	// week numbers sort numerically, not lexically
	gt.Equal(t, data.Categories, []string{"2", "3", "10"})
	gt.Equal(t, len(data.Series), 4)

	critical, ok := data.SeriesByName("Critical")
	gt.True(t, ok)
	gt.Equal(t, critical.Values, []float64{0, 1, 0})

	high, ok := data.SeriesByName("High")
	gt.True(t, ok)
	gt.Equal(t, high.Values, []float64{2, 0, 1})

	medium, ok := data.SeriesByName("Medium")
	gt.True(t, ok)
	gt.Equal(t, medium.Values, []float64{0, 0, 0})
}

func TestProjectBuiltinSource(t *testing.T) {
	view := concat(
		repeat(2, types.SeverityHigh, withSource("Trivy")),
		repeat(3, types.SeverityHigh, withSource("Snyk")),
		repeat(2, types.SeverityHigh, withSource("GuardDuty")),
	)
	data, err := usecase.ProjectBuiltin(view, types.ChartSource, defaultOpts)
	gt.NoError(t, err).Required()
	gt.Equal(t, data.Categories, []string{"Snyk", "GuardDuty", "Trivy"})
	gt.Equal(t, data.Series[0].Values, []float64{3, 2, 2})
}

func TestProjectBuiltinCategory(t *testing.T) {
	view := concat(
		repeat(1, types.SeverityCritical, withCategory("Cloud")),
		repeat(3, types.SeverityHigh, withCategory("Secrets")),
		repeat(1, types.SeverityLow, withCategory("Secrets")),
	)
	data, err := usecase.ProjectBuiltin(view, types.ChartCategory, defaultOpts)
	gt.NoError(t, err).Required()
	gt.Equal(t, data.Categories, []string{"Secrets", "Cloud"})

	critical, _ := data.SeriesByName("Critical")
	gt.Equal(t, critical.Values, []float64{0, 1})
	high, _ := data.SeriesByName("High")
	gt.Equal(t, high.Values, []float64{3, 0})
	low, _ := data.SeriesByName("Low")
	gt.Equal(t, low.Values, []float64{1, 0})
}

func TestProjectBuiltinRepos(t *testing.T) {
	view := concat(
		repeat(3, types.SeverityHigh, withRepo("api")),
		repeat(1, types.SeverityHigh, withRepo("web")),
		repeat(2, types.SeverityHigh, withRepo("infra")),
		repeat(1, types.SeverityHigh, withRepo("docs")),
	)
	data, err := usecase.ProjectBuiltin(view, types.ChartRepos, usecase.ProjectOptions{TopRepos: 3})
	gt.NoError(t, err).Required()
	gt.Equal(t, data.Title, "Top 3 Repositories")
	gt.Equal(t, data.Categories, []string{"api", "infra", "docs"})
	gt.Equal(t, data.Series[0].Values, []float64{3, 2, 1})
}

func TestProjectBuiltinRisk(t *testing.T) {
	view := concat(repeat(4, types.SeverityCritical), repeat(3, types.SeverityLow))
	data, err := usecase.ProjectBuiltin(view, types.ChartRisk, defaultOpts)
	gt.NoError(t, err).Required()
	gt.Equal(t, data.Value, 36.9)
}

func TestProjectHeatmap(t *testing.T) {
	view := concat(
		repeat(2, types.SeverityHigh, withRepo("web"), withOpenedAt(baseTime)),
		repeat(1, types.SeverityLow, withRepo("api"), withOpenedAt(baseTime.AddDate(0, 0, 14))),
		repeat(1, types.SeverityLow, withRepo("api"), withOpenedAt(baseTime.AddDate(0, 0, 2))),
	)

	t.Run("weekly by repository", func(t *testing.T) {
		hm, err := usecase.ProjectHeatmap(view, types.GranularityWeek, types.FieldRepo)
		gt.NoError(t, err).Required()
		gt.Equal(t, hm.Rows, []string{"api", "web"})
		gt.Equal(t, hm.Columns, []string{"2024-01-08", "2024-01-22"})
		gt.Equal(t, hm.Cells, [][]int{{1, 1}, {2, 0}})
		gt.Equal(t, hm.Max, 2)
		gt.Equal(t, hm.Cell("web", "2024-01-22"), 0)
	})

	t.Run("monthly by severity uses canonical rows", func(t *testing.T) {
		hm, err := usecase.ProjectHeatmap(view, types.GranularityMonth, types.FieldSeverity)
		gt.NoError(t, err).Required()
		gt.Equal(t, hm.Rows, []string{"High", "Low"})
		gt.Equal(t, hm.Columns, []string{"2024-01"})
		gt.Equal(t, hm.Cells, [][]int{{2}, {2}})
	})

	t.Run("daily columns", func(t *testing.T) {
		hm, err := usecase.ProjectHeatmap(view, types.GranularityDay, types.FieldSource)
		gt.NoError(t, err).Required()
		gt.Equal(t, hm.Columns, []string{"2024-01-08", "2024-01-10", "2024-01-22"})
	})

	t.Run("empty view", func(t *testing.T) {
		hm, err := usecase.ProjectHeatmap(nil, types.GranularityWeek, types.FieldRepo)
		gt.NoError(t, err).Required()
		gt.True(t, hm.Empty)
	})

	t.Run("numeric dimension is rejected", func(t *testing.T) {
		_, err := usecase.ProjectHeatmap(view, types.GranularityWeek, types.FieldMTTRHours)
		gt.Error(t, err)
		gt.B(t, goerr.HasTag(err, model.ErrTagInvalidField)).True()
	})
}

func TestProjectCustom(t *testing.T) {
	view := concat(
		repeat(1, types.SeverityCritical, withSource("Snyk"), withTeam("infra"), withMTTR(4)),
		repeat(2, types.SeverityHigh, withSource("Trivy"), withTeam("platform"), withMTTR(10)),
		repeat(1, types.SeverityHigh, withSource("Snyk"), withTeam("platform"), withMTTR(6)),
	)

	t.Run("bar of counts orders by count", func(t *testing.T) {
		data, err := usecase.ProjectCustom(view, model.ChartSpec{
			Type: types.ChartTypeBar, X: types.FieldSeverity, Y: types.FieldCount,
		})
		gt.NoError(t, err).Required()
		gt.Equal(t, data.Categories, []string{"High", "Critical"})
		gt.Equal(t, data.Series[0].Values, []float64{3, 1})
		gt.Equal(t, data.Title, "Bar: Severity vs count")
	})

	t.Run("count split by color is dense", func(t *testing.T) {
		data, err := usecase.ProjectCustom(view, model.ChartSpec{
			Type: types.ChartTypeBar, X: types.FieldSource, Y: types.FieldCount, Color: types.FieldTeam,
		})
		gt.NoError(t, err).Required()
		gt.Equal(t, data.Categories, []string{"Snyk", "Trivy"})
		infra, ok := data.SeriesByName("infra")
		gt.True(t, ok)
		gt.Equal(t, infra.Values, []float64{1, 0})
		platform, ok := data.SeriesByName("platform")
		gt.True(t, ok)
		gt.Equal(t, platform.Values, []float64{1, 2})
	})

	t.Run("None color means no split", func(t *testing.T) {
		data, err := usecase.ProjectCustom(view, model.ChartSpec{
			Type: types.ChartTypeLine, X: types.FieldSource, Y: types.FieldCount, Color: "None",
		})
		gt.NoError(t, err).Required()
		gt.Equal(t, len(data.Series), 1)
		gt.Equal(t, data.ColorField, types.Field(""))
	})

	t.Run("pie is always a frequency", func(t *testing.T) {
		data, err := usecase.ProjectCustom(view, model.ChartSpec{
			Type: types.ChartTypePie, X: types.FieldTeam, Y: types.FieldMTTRHours,
		})
		gt.NoError(t, err).Required()
		gt.Equal(t, data.Categories, []string{"platform", "infra"})
		gt.Equal(t, data.Series[0].Values, []float64{3, 1})
	})

	t.Run("raw points with numeric y", func(t *testing.T) {
		data, err := usecase.ProjectCustom(view, model.ChartSpec{
			Type: types.ChartTypeScatter, X: types.FieldSource, Y: types.FieldMTTRHours, Color: types.FieldSeverity,
		})
		gt.NoError(t, err).Required()
		gt.Equal(t, len(data.Points), 4)
		gt.Equal(t, data.Points[0], model.Point{X: "Snyk", Y: 4, Color: "Critical"})
	})

	t.Run("categorical y is placed on a category axis", func(t *testing.T) {
		for _, typ := range []types.ChartType{types.ChartTypeScatter, types.ChartTypeBar, types.ChartTypeBox, types.ChartTypeLine} {
			spec := model.ChartSpec{Type: typ, X: types.FieldSource, Y: types.FieldSeverity}
			_, added := model.NewChartRegistry().Add(spec)
			gt.V(t, added).NotNil()

			data, err := usecase.ProjectCustom(view, spec)
			gt.NoError(t, err).Required()
			gt.Equal(t, data.YCategories, []string{"Critical", "High"})
			gt.Equal(t, len(data.Points), 4)
			for _, p := range data.Points {
				gt.Equal(t, data.YCategories[int(p.Y)], p.YLabel)
			}
		}
	})

	t.Run("categorical y keeps color", func(t *testing.T) {
		data, err := usecase.ProjectCustom(view, model.ChartSpec{
			Type: types.ChartTypeScatter, X: types.FieldSource, Y: types.FieldTeam, Color: types.FieldSeverity,
		})
		gt.NoError(t, err).Required()
		gt.Equal(t, data.YCategories, []string{"infra", "platform"})
		gt.Equal(t, data.Points[0], model.Point{X: "Snyk", Y: 0, YLabel: "infra", Color: "Critical"})
	})

	t.Run("unknown column is rejected", func(t *testing.T) {
		_, err := usecase.ProjectCustom(view, model.ChartSpec{
			Type: types.ChartTypeBar, X: "Owner", Y: types.FieldCount,
		})
		gt.Error(t, err)
		gt.B(t, goerr.HasTag(err, model.ErrTagInvalidField)).True()
	})

	t.Run("empty view", func(t *testing.T) {
		data, err := usecase.ProjectCustom(nil, model.ChartSpec{
			Type: types.ChartTypeBox, X: types.FieldTeam, Y: types.FieldMTTRHours,
		})
		gt.NoError(t, err).Required()
		gt.True(t, data.Empty)
	})
}
