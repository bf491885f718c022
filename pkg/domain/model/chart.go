package model

import (
	"github.com/secmon-lab/insights/pkg/domain/types"
)

// Series is one named sequence of values aligned with ChartData.Categories
type Series struct {
	Name   string    `json:"name"`
	Values []float64 `json:"values"`
}

// Point is one raw (x, y) observation of a custom chart
type Point struct {
	X string  `json:"x"`
	Y float64 `json:"y"`
	// YLabel is the raw value of a categorical y field. Y then holds its
	// position in ChartData.YCategories.
	YLabel string `json:"y_label,omitempty"`
	Color  string `json:"color,omitempty"`
}

// ChartData is the renderer-independent shape of a chart. Empty marks a view
// with no rows, which is a valid result and not an error.
type ChartData struct {
	Kind        types.ChartKind `json:"kind,omitempty"`
	ChartID     types.ChartID   `json:"chart_id,omitempty"`
	Type        types.ChartType `json:"type,omitempty"`
	Title       string          `json:"title"`
	XField      types.Field     `json:"x_field,omitempty"`
	YField      types.Field     `json:"y_field,omitempty"`
	ColorField  types.Field     `json:"color_field,omitempty"`
	Categories  []string        `json:"categories,omitempty"`
	Series      []Series        `json:"series,omitempty"`
	Points      []Point         `json:"points,omitempty"`
	YCategories []string        `json:"y_categories,omitempty"`
	Value       float64         `json:"value,omitempty"`
	Empty       bool            `json:"empty"`
}

// SeriesByName returns the series with the given name
func (c ChartData) SeriesByName(name string) (Series, bool) {
	for _, s := range c.Series {
		if s.Name == name {
			return s, true
		}
	}
	return Series{}, false
}

// CountOf returns the first-series value for a category, 0 if absent
func (c ChartData) CountOf(category string) float64 {
	if len(c.Series) == 0 {
		return 0
	}
	for i, cat := range c.Categories {
		if cat == category && i < len(c.Series[0].Values) {
			return c.Series[0].Values[i]
		}
	}
	return 0
}

// Heatmap is a dense dimension x time-bucket count grid
type Heatmap struct {
	Granularity types.Granularity `json:"granularity"`
	Dimension   types.Field       `json:"dimension"`
	Rows        []string          `json:"rows"`
	Columns     []string          `json:"columns"`
	Cells       [][]int           `json:"cells"` // Cells[row][column]
	Max         int               `json:"max"`
	Empty       bool              `json:"empty"`
}

// Cell returns the count at (row, column) labels, 0 when either is absent
func (h Heatmap) Cell(row, column string) int {
	ri, ci := -1, -1
	for i, r := range h.Rows {
		if r == row {
			ri = i
			break
		}
	}
	for i, c := range h.Columns {
		if c == column {
			ci = i
			break
		}
	}
	if ri < 0 || ci < 0 {
		return 0
	}
	return h.Cells[ri][ci]
}
