package graphql

import (
	"time"

	"github.com/secmon-lab/insights/pkg/domain/model"
	"github.com/secmon-lab/insights/pkg/domain/types"
)

func stringList(v interface{}) []string {
	items, ok := v.([]interface{})
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func stringValue(m map[string]interface{}, key string) string {
	s, _ := m[key].(string)
	return s
}

// filterArg converts the optional "filter" argument. A missing filter is the empty set.
func filterArg(args map[string]interface{}) model.FilterSet {
	in, ok := args["filter"].(map[string]interface{})
	if !ok {
		return model.FilterSet{}
	}
	return model.FilterSet{
		Sources:    stringList(in["source"]),
		Severities: stringList(in["severity"]),
		Statuses:   stringList(in["status"]),
		Teams:      stringList(in["team"]),
		Repos:      stringList(in["repo"]),
	}
}

// clickArg converts the optional "click" argument; nil means no click
func clickArg(args map[string]interface{}) *model.ClickContext {
	in, ok := args["click"].(map[string]interface{})
	if !ok {
		return nil
	}
	return &model.ClickContext{
		Chart:       types.ChartKind(stringValue(in, "chart")),
		Label:       stringValue(in, "label"),
		X:           stringValue(in, "x"),
		Y:           stringValue(in, "y"),
		LegendGroup: stringValue(in, "legend_group"),
		Dimension:   types.Field(stringValue(in, "dimension")),
		Granularity: types.Granularity(stringValue(in, "granularity")),
	}
}

func findingsToMaps(findings []*model.Finding) []map[string]interface{} {
	out := make([]map[string]interface{}, 0, len(findings))
	for _, f := range findings {
		out = append(out, map[string]interface{}{
			"row":         f.Row,
			"source":      f.Source,
			"category":    f.Category,
			"severity":    f.Severity.String(),
			"status":      f.Status.String(),
			"team":        f.Team,
			"repo":        f.Repo,
			"opened_at":   f.OpenedAt.Format(time.RFC3339),
			"mttr_hours":  f.MTTRHours,
			"week_number": f.WeekNumber,
			"tool_url":    f.ToolURL,
		})
	}
	return out
}
