package chart

import "github.com/secmon-lab/insights/pkg/domain/model"

var (
	FiveNumber          = fiveNumber
	Sum                 = sum
	MaxOf               = maxOf
	ExtractChartContent = extractChartContent
)

func GroupPoints(points []model.Point, reduce func([]float64) float64) ([]string, []model.Series) {
	g := groupPoints(points, reduce)
	return g.categories, g.series
}
