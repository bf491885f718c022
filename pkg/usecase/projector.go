package usecase

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/insights/pkg/domain/model"
	"github.com/secmon-lab/insights/pkg/domain/types"
)

const seriesCount = "Count"

// ProjectOptions carries the tunables of builtin projections
type ProjectOptions struct {
	TopRepos    int
	Sensitivity float64
}

func (o ProjectOptions) topRepos() int {
	if o.TopRepos <= 0 {
		return model.DefaultTopRepos
	}
	return o.TopRepos
}

func builtinTitle(kind types.ChartKind, opts ProjectOptions) string {
	switch kind {
	case types.ChartSeverity:
		return "Findings by Severity"
	case types.ChartTrend:
		return "Findings Trend Over Time"
	case types.ChartSeverityWeek:
		return "Severity Distribution by Week"
	case types.ChartSource:
		return "Findings by Source"
	case types.ChartCategory:
		return "Findings by Category"
	case types.ChartRepos:
		return fmt.Sprintf("Top %d Repositories", opts.topRepos())
	case types.ChartRisk:
		return "Risk Score"
	default:
		return string(kind)
	}
}

// ProjectBuiltin computes the data behind a builtin dashboard chart. An empty
// view is a valid result marked Empty.
func ProjectBuiltin(view []*model.Finding, kind types.ChartKind, opts ProjectOptions) (model.ChartData, error) {
	if !kind.IsValid() {
		return model.ChartData{}, goerr.New("unknown chart",
			goerr.V("chart", kind),
			goerr.T(model.ErrTagUnknownChart))
	}

	data := model.ChartData{Kind: kind, Title: builtinTitle(kind, opts)}
	if len(view) == 0 {
		data.Empty = true
		return data, nil
	}

	switch kind {
	case types.ChartSeverity:
		data.Type = types.ChartTypePie
		counts := countBy(view, types.FieldSeverity)
		data.Categories = severityAxis(counts)
		data.Series = []model.Series{denseSeries(seriesCount, data.Categories, counts)}

	case types.ChartTrend:
		data.Type = types.ChartTypeLine
		data.XField = types.FieldOpenedAt
		counts := make(map[string]int)
		for _, f := range view {
			counts[f.OpenedDate()]++
		}
		data.Categories = sortedKeys(toSet(counts))
		data.Series = []model.Series{denseSeries(seriesCount, data.Categories, counts)}

	case types.ChartSeverityWeek:
		data.Type = types.ChartTypeBar
		data.XField = types.FieldWeekNumber
		data.ColorField = types.FieldSeverity
		data.Categories, data.Series = pivot(view, types.FieldWeekNumber, types.FieldSeverity)

	case types.ChartSource:
		data.Type = types.ChartTypeBar
		data.XField = types.FieldSource
		counts := countBy(view, types.FieldSource)
		data.Categories = byCountDesc(counts, lessString)
		data.Series = []model.Series{denseSeries(seriesCount, data.Categories, counts)}

	case types.ChartCategory:
		data.XField = types.FieldCategory
		data.ColorField = types.FieldSeverity
		totals := countBy(view, types.FieldCategory)
		_, data.Series = pivot(view, types.FieldCategory, types.FieldSeverity)
		// pivot orders categories naturally; the treemap wants biggest first
		data.Categories = byCountDesc(totals, lessString)
		data.Series = reorderSeries(data.Series, sortedKeys(toSet(totals)), data.Categories)

	case types.ChartRepos:
		data.Type = types.ChartTypeBar
		data.XField = types.FieldRepo
		counts := countBy(view, types.FieldRepo)
		repos := byCountDesc(counts, lessString)
		if len(repos) > opts.topRepos() {
			repos = repos[:opts.topRepos()]
		}
		data.Categories = repos
		data.Series = []model.Series{denseSeries(seriesCount, repos, counts)}

	case types.ChartRisk:
		data.Value = RiskScore(view, opts.Sensitivity)
	}

	return data, nil
}

// ProjectHeatmap builds a dense dimension x time bucket grid. Missing cells are
// 0. Rows are ascending (severity rows in canonical order) and columns chronological.
func ProjectHeatmap(view []*model.Finding, g types.Granularity, dimension types.Field) (model.Heatmap, error) {
	if !g.IsValid() {
		return model.Heatmap{}, goerr.New("invalid granularity",
			goerr.V("granularity", g),
			goerr.T(model.ErrTagInvalidField))
	}
	if !dimension.IsValid() || dimension.Numeric() || dimension == types.FieldOpenedAt {
		return model.Heatmap{}, goerr.New("heatmap dimension must be a categorical column",
			goerr.V("dimension", dimension),
			goerr.T(model.ErrTagInvalidField))
	}

	hm := model.Heatmap{Granularity: g, Dimension: dimension}
	if len(view) == 0 {
		hm.Empty = true
		return hm, nil
	}

	rowSet := make(map[string]struct{})
	colSet := make(map[time.Time]struct{})
	type cellKey struct {
		row    string
		bucket time.Time
	}
	cells := make(map[cellKey]int)
	for _, f := range view {
		row := f.Value(dimension)
		bucket := g.Truncate(f.OpenedAt)
		rowSet[row] = struct{}{}
		colSet[bucket] = struct{}{}
		cells[cellKey{row: row, bucket: bucket}]++
	}

	hm.Rows = sortedValues(rowSet, naturalLess(dimension))

	buckets := make([]time.Time, 0, len(colSet))
	for b := range colSet {
		buckets = append(buckets, b)
	}
	sort.Slice(buckets, func(i, j int) bool { return buckets[i].Before(buckets[j]) })
	for _, b := range buckets {
		hm.Columns = append(hm.Columns, g.Label(b))
	}

	hm.Cells = make([][]int, len(hm.Rows))
	for i, row := range hm.Rows {
		hm.Cells[i] = make([]int, len(buckets))
		for j, b := range buckets {
			n := cells[cellKey{row: row, bucket: b}]
			hm.Cells[i][j] = n
			if n > hm.Max {
				hm.Max = n
			}
		}
	}
	return hm, nil
}

// ProjectCustom computes the data behind a user defined chart. With y = count
// the chart shows the frequency of x, split into one series per color value
// when a color field is set. Pie charts always show the frequency of x.
// Otherwise raw (x, y) points are returned. A y field that is not numeric is
// placed on a category axis: YCategories lists its values in natural order and
// each point carries its label and position.
func ProjectCustom(view []*model.Finding, spec model.ChartSpec) (model.ChartData, error) {
	if color, ok := types.ParseColorField(spec.Color.String()); ok {
		spec.Color = color
	}
	if err := spec.Validate(); err != nil {
		return model.ChartData{}, goerr.Wrap(err, "invalid chart spec",
			goerr.V("chart_id", spec.ID),
			goerr.T(model.ErrTagInvalidField))
	}

	data := model.ChartData{
		ChartID:    spec.ID,
		Type:       spec.Type,
		Title:      spec.Title,
		XField:     spec.X,
		YField:     spec.Y,
		ColorField: spec.Color,
	}
	if data.Title == "" {
		data.Title = fmt.Sprintf("%s: %s vs %s", spec.Type.Title(), spec.X, spec.Y)
	}

	frequency := spec.Y == types.FieldCount || spec.Type == types.ChartTypePie

	if len(view) == 0 {
		data.Empty = true
		return data, nil
	}

	if !frequency {
		categorical := !spec.Y.Numeric()
		labels := make(map[string]struct{})
		data.Points = make([]model.Point, 0, len(view))
		for _, f := range view {
			p := model.Point{X: f.Value(spec.X)}
			if categorical {
				p.YLabel = f.Value(spec.Y)
				labels[p.YLabel] = struct{}{}
			} else {
				p.Y, _ = f.Number(spec.Y)
			}
			if spec.Color != "" {
				p.Color = f.Value(spec.Color)
			}
			data.Points = append(data.Points, p)
		}
		if categorical {
			data.YCategories = sortedValues(labels, naturalLess(spec.Y))
			pos := make(map[string]int, len(data.YCategories))
			for i, label := range data.YCategories {
				pos[label] = i
			}
			for i := range data.Points {
				data.Points[i].Y = float64(pos[data.Points[i].YLabel])
			}
		}
		if spec.Type == types.ChartTypeLine {
			less := naturalLess(spec.X)
			sort.SliceStable(data.Points, func(i, j int) bool {
				return less(data.Points[i].X, data.Points[j].X)
			})
		}
		return data, nil
	}

	counts := countBy(view, spec.X)
	switch spec.Type {
	case types.ChartTypePie, types.ChartTypeBar:
		data.Categories = byCountDesc(counts, naturalLess(spec.X))
	default:
		data.Categories = sortedValues(toSet(counts), naturalLess(spec.X))
	}

	if spec.Color == "" || spec.Type == types.ChartTypePie {
		data.ColorField = ""
		data.Series = []model.Series{denseSeries(seriesCount, data.Categories, counts)}
		return data, nil
	}

	natural, series := pivot(view, spec.X, spec.Color)
	data.Series = reorderSeries(series, natural, data.Categories)
	return data, nil
}

func countBy(view []*model.Finding, field types.Field) map[string]int {
	counts := make(map[string]int)
	for _, f := range view {
		counts[f.Value(field)]++
	}
	return counts
}

func toSet(counts map[string]int) map[string]struct{} {
	set := make(map[string]struct{}, len(counts))
	for k := range counts {
		set[k] = struct{}{}
	}
	return set
}

func denseSeries(name string, categories []string, counts map[string]int) model.Series {
	values := make([]float64, len(categories))
	for i, c := range categories {
		values[i] = float64(counts[c])
	}
	return model.Series{Name: name, Values: values}
}

// severityAxis returns the canonical severities followed by any unrecognized
// values present in counts. Zero-count canonical severities are kept.
func severityAxis(counts map[string]int) []string {
	axis := make([]string, 0, len(counts)+4)
	for _, sev := range types.CanonicalSeverities() {
		axis = append(axis, sev.String())
	}

	var extra []string
	for v := range counts {
		if !types.Severity(v).IsValid() {
			extra = append(extra, v)
		}
	}
	sort.Strings(extra)
	return append(axis, extra...)
}

// byCountDesc orders keys by count descending, ties broken by less
func byCountDesc(counts map[string]int, less func(a, b string) bool) []string {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if counts[keys[i]] != counts[keys[j]] {
			return counts[keys[i]] > counts[keys[j]]
		}
		return less(keys[i], keys[j])
	})
	return keys
}

func sortedValues(set map[string]struct{}, less func(a, b string) bool) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}

func lessString(a, b string) bool {
	return a < b
}

// naturalLess orders values of field: severities canonically, numbers
// numerically and everything else lexically
func naturalLess(field types.Field) func(a, b string) bool {
	switch {
	case field == types.FieldSeverity:
		return func(a, b string) bool {
			return types.LessSeverity(types.Severity(a), types.Severity(b))
		}
	case field == types.FieldStatus:
		rank := make(map[string]int)
		for i, s := range types.StatusOrder() {
			rank[s.String()] = i + 1
		}
		return func(a, b string) bool {
			ra, rb := rank[a], rank[b]
			if ra == 0 {
				ra = len(rank) + 1
			}
			if rb == 0 {
				rb = len(rank) + 1
			}
			if ra != rb {
				return ra < rb
			}
			return a < b
		}
	case field.Numeric():
		return func(a, b string) bool {
			fa, errA := strconv.ParseFloat(a, 64)
			fb, errB := strconv.ParseFloat(b, 64)
			if errA != nil || errB != nil {
				return a < b
			}
			return fa < fb
		}
	default:
		return lessString
	}
}

// pivot counts (x, group) pairs into one dense series per group. Both axes are
// in natural order; every series has a value for every x.
func pivot(view []*model.Finding, x, group types.Field) ([]string, []model.Series) {
	xs := make(map[string]struct{})
	groups := make(map[string]struct{})
	counts := make(map[string]map[string]int)
	for _, f := range view {
		xv, gv := f.Value(x), f.Value(group)
		xs[xv] = struct{}{}
		groups[gv] = struct{}{}
		if counts[gv] == nil {
			counts[gv] = make(map[string]int)
		}
		counts[gv][xv]++
	}

	categories := sortedValues(xs, naturalLess(x))
	var groupOrder []string
	if group == types.FieldSeverity {
		// canonical severities stay present even when their column is all zero
		groupCounts := make(map[string]int, len(groups))
		for g := range groups {
			groupCounts[g] = 1
		}
		groupOrder = severityAxis(groupCounts)
	} else {
		groupOrder = sortedValues(groups, naturalLess(group))
	}

	series := make([]model.Series, 0, len(groupOrder))
	for _, g := range groupOrder {
		series = append(series, denseSeries(g, categories, counts[g]))
	}
	return categories, series
}

// reorderSeries permutes series values from the from axis onto the to axis
func reorderSeries(series []model.Series, from, to []string) []model.Series {
	pos := make(map[string]int, len(from))
	for i, c := range from {
		pos[c] = i
	}
	out := make([]model.Series, len(series))
	for i, s := range series {
		values := make([]float64, len(to))
		for j, c := range to {
			if p, ok := pos[c]; ok && p < len(s.Values) {
				values[j] = s.Values[p]
			}
		}
		out[i] = model.Series{Name: s.Name, Values: values}
	}
	return out
}
