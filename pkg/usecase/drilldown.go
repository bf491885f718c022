package usecase

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/insights/pkg/domain/model"
	"github.com/secmon-lab/insights/pkg/domain/types"
)

// ResolveDrillDown narrows view to the rows behind a chart click. Without a
// click the whole view is returned. Clicks do not compound: only the given
// click narrows. A click on a value absent from view yields an empty result.
func ResolveDrillDown(view []*model.Finding, click *model.ClickContext) (model.DrillDown, error) {
	if click == nil {
		return model.DrillDown{
			Findings:    view,
			Description: fmt.Sprintf("Showing all %d findings", len(view)),
		}, nil
	}
	if !click.Chart.IsDrillable() {
		return model.DrillDown{}, goerr.New("unknown chart",
			goerr.V("chart", click.Chart),
			goerr.T(model.ErrTagUnknownChart))
	}

	pred, label := drillPredicate(click)
	narrowed := make([]*model.Finding, 0)
	if pred != nil {
		for _, f := range view {
			if pred(f) {
				narrowed = append(narrowed, f)
			}
		}
	}

	clicked := *click
	return model.DrillDown{
		Findings:    narrowed,
		Description: fmt.Sprintf("Filtered: %s (%d findings)", label, len(narrowed)),
		Narrowed:    true,
		Click:       &clicked,
	}, nil
}

// drillPredicate returns the narrowing predicate of a click and its label. A
// nil predicate means the click cannot match anything.
func drillPredicate(click *model.ClickContext) (func(*model.Finding) bool, string) {
	switch click.Chart {
	case types.ChartSeverity:
		sev := types.Severity(click.Label)
		return nonEmpty(click.Label, func(f *model.Finding) bool {
			return f.Severity == sev
		}), fmt.Sprintf("%s severity", click.Label)

	case types.ChartTrend:
		return nonEmpty(click.X, func(f *model.Finding) bool {
			return f.OpenedDate() == click.X
		}), fmt.Sprintf("Date %s", click.X)

	case types.ChartSeverityWeek:
		label := fmt.Sprintf("Week %s, %s", click.X, click.LegendGroup)
		week, err := strconv.Atoi(strings.TrimSpace(click.X))
		if err != nil || click.LegendGroup == "" {
			return nil, label
		}
		sev := types.Severity(click.LegendGroup)
		return func(f *model.Finding) bool {
			return f.WeekNumber == week && f.Severity == sev
		}, label

	case types.ChartSource:
		return nonEmpty(click.X, func(f *model.Finding) bool {
			return f.Source == click.X
		}), fmt.Sprintf("Source %s", click.X)

	case types.ChartCategory:
		return nonEmpty(click.Label, func(f *model.Finding) bool {
			return f.Category == click.Label
		}), fmt.Sprintf("Category %s", click.Label)

	case types.ChartRepos:
		return nonEmpty(click.Y, func(f *model.Finding) bool {
			return f.Repo == click.Y
		}), fmt.Sprintf("Repository %s", click.Y)

	case types.ChartHeatmap:
		label := fmt.Sprintf("%s %s, %s", click.Dimension, click.Label, click.X)
		if !click.Dimension.IsValid() || !click.Granularity.IsValid() || click.X == "" {
			return nil, label
		}
		return func(f *model.Finding) bool {
			return f.Value(click.Dimension) == click.Label &&
				click.Granularity.Label(click.Granularity.Truncate(f.OpenedAt)) == click.X
		}, label
	}

	return nil, string(click.Chart)
}

func nonEmpty(value string, pred func(*model.Finding) bool) func(*model.Finding) bool {
	if value == "" {
		return nil
	}
	return pred
}
