package chart

import (
	"bytes"
	"embed"
	"html/template"
	"io"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/insights/pkg/domain/model"
	"github.com/secmon-lab/insights/pkg/domain/types"
)

// DefaultAssetsHost serves echarts.min.js
const DefaultAssetsHost = "https://go-echarts.github.io/go-echarts-assets/assets/"

const styleTagLen = len("</style>")

//go:embed templates/*.html
var templateFS embed.FS

var (
	templates     *template.Template
	templatesOnce sync.Once
	errTemplates  error
)

var funcMap = template.FuncMap{
	"selected": func(values []string, v string) bool {
		for _, s := range values {
			if s == v {
				return true
			}
		}
		return false
	},
	"join": strings.Join,
}

func getTemplates() (*template.Template, error) {
	templatesOnce.Do(func() {
		templates, errTemplates = template.New("").Funcs(funcMap).ParseFS(templateFS, "templates/*.html")
		if errTemplates != nil {
			errTemplates = goerr.Wrap(errTemplates, "failed to parse templates")
		}
	})
	return templates, errTemplates
}

// Card is one KPI tile of the dashboard header
type Card struct {
	Label  string
	Value  string
	Detail string
	Alert  bool
}

// Section is one chart slot of the page
type Section struct {
	Chart Renderable

	// Kind is set for builtin charts; drillable kinds get a click handler
	Kind types.ChartKind
	// ChartID is set for custom charts, which carry a remove button
	ChartID types.ChartID

	Dimension   types.Field
	Granularity types.Granularity
	Wide        bool
}

// Page is the complete dashboard document
type Page struct {
	Title      string
	Source     string
	LoadedAt   time.Time
	AssetsHost string
	Filter     model.FilterSet
	Options    model.FilterOptions
	Cards      []Card
	Warnings   []model.DataQualityWarning
	Sections   []Section
	Custom     []Section
	Fields     []types.Field
	ChartTypes []types.ChartType
}

// NewPage creates a page with the chart builder choices filled in
func NewPage(title, source string) *Page {
	return &Page{
		Title:      title,
		Source:     source,
		AssetsHost: DefaultAssetsHost,
		Fields:     types.ChartableFields(),
		ChartTypes: []types.ChartType{
			types.ChartTypeBar,
			types.ChartTypeLine,
			types.ChartTypePie,
			types.ChartTypeScatter,
			types.ChartTypeBox,
		},
	}
}

// SnapshotCards builds the KPI tiles of a snapshot
func SnapshotCards(s *model.Snapshot) []Card {
	trend := humanize.Comma(int64(s.Trend.Delta))
	if s.Trend.Delta > 0 {
		trend = "+" + trend
	}
	return []Card{
		{
			Label:  "Total Findings",
			Value:  humanize.Comma(int64(s.KPI.Total)),
			Detail: "of " + humanize.Comma(int64(s.TotalInSet)) + " in dataset",
		},
		{
			Label:  "Open",
			Value:  humanize.Comma(int64(s.KPI.Open)),
			Detail: trend + " opened vs previous period",
		},
		{
			Label: "Critical Open",
			Value: humanize.Comma(int64(s.KPI.CriticalOpen)),
			Alert: s.KPI.CriticalOpen > 0,
		},
		{
			Label:  "Avg MTTR",
			Value:  humanize.CommafWithDigits(s.KPI.AvgMTTR, 1) + "h",
			Detail: "SLA Critical " + strconv.FormatFloat(s.SLA.Percent(types.SeverityCritical), 'f', 1, 64) + "%",
		},
	}
}

type sectionView struct {
	HTML        template.HTML
	Kind        string
	ChartID     int
	Dimension   string
	Granularity string
	Wide        bool
	Drillable   bool
}

type pageView struct {
	*Page
	LoadedAtText string
	Builtin      []sectionView
	CustomViews  []sectionView
}

// Render writes the dashboard as one HTML document
func (p *Page) Render(w io.Writer) error {
	tmpl, err := getTemplates()
	if err != nil {
		return err
	}

	view := pageView{Page: p}
	if !p.LoadedAt.IsZero() {
		view.LoadedAtText = humanize.Time(p.LoadedAt)
	}
	if view.Builtin, err = renderSections(p.Sections); err != nil {
		return err
	}
	if view.CustomViews, err = renderSections(p.Custom); err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "dashboard.html", view); err != nil {
		return goerr.Wrap(err, "failed to execute dashboard template")
	}
	if _, err := w.Write(buf.Bytes()); err != nil {
		return goerr.Wrap(err, "failed to write dashboard")
	}
	return nil
}

func renderSections(sections []Section) ([]sectionView, error) {
	views := make([]sectionView, 0, len(sections))
	for _, s := range sections {
		html, err := Fragment(s.Chart)
		if err != nil {
			return nil, err
		}
		views = append(views, sectionView{
			HTML:        template.HTML(html),
			Kind:        s.Kind.String(),
			ChartID:     s.ChartID.Int(),
			Dimension:   s.Dimension.String(),
			Granularity: s.Granularity.String(),
			Wide:        s.Wide,
			Drillable:   s.Kind.IsDrillable(),
		})
	}
	return views, nil
}

// Fragment renders a chart and returns only its element and init script
func Fragment(chart Renderable) (string, error) {
	if chart == nil {
		return "", nil
	}
	var buf bytes.Buffer
	if err := chart.Render(&buf); err != nil {
		return "", goerr.Wrap(err, "failed to render chart")
	}
	return extractChartContent(buf.String()), nil
}

func extractChartContent(html string) string {
	trimmed := strings.TrimSpace(html)
	if !strings.HasPrefix(trimmed, "<!DOCTYPE") && !strings.HasPrefix(trimmed, "<html") {
		return html
	}

	start := strings.Index(html, `<div class="container">`)
	if start == -1 {
		return html
	}
	end := strings.Index(html, `</body>`)
	if end == -1 || end < start {
		return html
	}

	content := html[start:end]
	content = strings.ReplaceAll(content, `class="container"`, `class="echart-box"`)
	return removeStyleTags(content)
}

func removeStyleTags(content string) string {
	for {
		i := strings.Index(content, `<style>`)
		if i == -1 {
			return content
		}
		j := strings.Index(content[i:], `</style>`)
		if j == -1 {
			return content
		}
		content = content[:i] + content[i+j+styleTagLen:]
	}
}
