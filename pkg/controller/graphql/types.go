package graphql

import (
	"github.com/graphql-go/graphql"
	"github.com/secmon-lab/insights/pkg/domain/model"
)

// FilterInputType carries the five facet selections
var FilterInputType = graphql.NewInputObject(graphql.InputObjectConfig{
	Name: "FilterInput",
	Fields: graphql.InputObjectConfigFieldMap{
		"source":   &graphql.InputObjectFieldConfig{Type: graphql.NewList(graphql.String)},
		"severity": &graphql.InputObjectFieldConfig{Type: graphql.NewList(graphql.String)},
		"status":   &graphql.InputObjectFieldConfig{Type: graphql.NewList(graphql.String)},
		"team":     &graphql.InputObjectFieldConfig{Type: graphql.NewList(graphql.String)},
		"repo":     &graphql.InputObjectFieldConfig{Type: graphql.NewList(graphql.String)},
	},
})

// ClickInputType identifies a clicked data point
var ClickInputType = graphql.NewInputObject(graphql.InputObjectConfig{
	Name: "ClickInput",
	Fields: graphql.InputObjectConfigFieldMap{
		"chart":        &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
		"label":        &graphql.InputObjectFieldConfig{Type: graphql.String},
		"x":            &graphql.InputObjectFieldConfig{Type: graphql.String},
		"y":            &graphql.InputObjectFieldConfig{Type: graphql.String},
		"legend_group": &graphql.InputObjectFieldConfig{Type: graphql.String},
		"dimension":    &graphql.InputObjectFieldConfig{Type: graphql.String},
		"granularity":  &graphql.InputObjectFieldConfig{Type: graphql.String},
	},
})

// FilterOptionsType lists selectable values per facet
var FilterOptionsType = graphql.NewObject(graphql.ObjectConfig{
	Name: "FilterOptions",
	Fields: graphql.Fields{
		"sources":    &graphql.Field{Type: graphql.NewList(graphql.String)},
		"severities": &graphql.Field{Type: graphql.NewList(graphql.String)},
		"statuses":   &graphql.Field{Type: graphql.NewList(graphql.String)},
		"teams":      &graphql.Field{Type: graphql.NewList(graphql.String)},
		"repos":      &graphql.Field{Type: graphql.NewList(graphql.String)},
	},
})

var kpiType = graphql.NewObject(graphql.ObjectConfig{
	Name: "KPI",
	Fields: graphql.Fields{
		"total":         &graphql.Field{Type: graphql.Int},
		"open":          &graphql.Field{Type: graphql.Int},
		"critical_open": &graphql.Field{Type: graphql.Int},
		"avg_mttr":      &graphql.Field{Type: graphql.Float},
	},
})

var trendType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Trend",
	Fields: graphql.Fields{
		"current":   &graphql.Field{Type: graphql.Int},
		"previous":  &graphql.Field{Type: graphql.Int},
		"delta":     &graphql.Field{Type: graphql.Int},
		"delta_pct": &graphql.Field{Type: graphql.Float},
	},
})

var slaComplianceType = graphql.NewObject(graphql.ObjectConfig{
	Name: "SLACompliance",
	Fields: graphql.Fields{
		"severity":        &graphql.Field{Type: graphql.String},
		"threshold_hours": &graphql.Field{Type: graphql.Float},
		"total":           &graphql.Field{Type: graphql.Int},
		"compliant":       &graphql.Field{Type: graphql.Int},
		"percent":         &graphql.Field{Type: graphql.Float},
	},
})

var severityMTTRType = graphql.NewObject(graphql.ObjectConfig{
	Name: "SeverityMTTR",
	Fields: graphql.Fields{
		"severity":  &graphql.Field{Type: graphql.String},
		"count":     &graphql.Field{Type: graphql.Int},
		"mean_mttr": &graphql.Field{Type: graphql.Float},
	},
})

var seriesType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Series",
	Fields: graphql.Fields{
		"name":   &graphql.Field{Type: graphql.String},
		"values": &graphql.Field{Type: graphql.NewList(graphql.Float)},
	},
})

var pointType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Point",
	Fields: graphql.Fields{
		"x":       &graphql.Field{Type: graphql.String},
		"y":       &graphql.Field{Type: graphql.Float},
		"y_label": &graphql.Field{Type: graphql.String},
		"color":   &graphql.Field{Type: graphql.String},
	},
})

// ChartDataType is the renderer independent shape of a chart
var ChartDataType = graphql.NewObject(graphql.ObjectConfig{
	Name: "ChartData",
	Fields: graphql.Fields{
		"kind": &graphql.Field{Type: graphql.String},
		"chart_id": &graphql.Field{
			Type: graphql.Int,
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				c, ok := p.Source.(model.ChartData)
				if !ok {
					return nil, nil
				}
				return c.ChartID.Int(), nil
			},
		},
		"type":         &graphql.Field{Type: graphql.String},
		"title":        &graphql.Field{Type: graphql.String},
		"x_field":      &graphql.Field{Type: graphql.String},
		"y_field":      &graphql.Field{Type: graphql.String},
		"color_field":  &graphql.Field{Type: graphql.String},
		"categories":   &graphql.Field{Type: graphql.NewList(graphql.String)},
		"series":       &graphql.Field{Type: graphql.NewList(seriesType)},
		"points":       &graphql.Field{Type: graphql.NewList(pointType)},
		"y_categories": &graphql.Field{Type: graphql.NewList(graphql.String)},
		"value":        &graphql.Field{Type: graphql.Float},
		"empty":        &graphql.Field{Type: graphql.Boolean},
	},
})

// HeatmapType is the dimension x time bucket count grid
var HeatmapType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Heatmap",
	Fields: graphql.Fields{
		"granularity": &graphql.Field{Type: graphql.String},
		"dimension":   &graphql.Field{Type: graphql.String},
		"rows":        &graphql.Field{Type: graphql.NewList(graphql.String)},
		"columns":     &graphql.Field{Type: graphql.NewList(graphql.String)},
		"cells":       &graphql.Field{Type: graphql.NewList(graphql.NewList(graphql.Int))},
		"max":         &graphql.Field{Type: graphql.Int},
		"empty":       &graphql.Field{Type: graphql.Boolean},
	},
})

// SnapshotType bundles every builtin view of a filter
var SnapshotType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Snapshot",
	Fields: graphql.Fields{
		"kpi":        &graphql.Field{Type: kpiType},
		"risk_score": &graphql.Field{Type: graphql.Float},
		"trend":      &graphql.Field{Type: trendType},
		"sla": &graphql.Field{
			Type: graphql.NewList(slaComplianceType),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				s, ok := p.Source.(*model.Snapshot)
				if !ok {
					return nil, nil
				}
				return s.SLA.Entries, nil
			},
		},
		"mttr":             &graphql.Field{Type: graphql.NewList(severityMTTRType)},
		"charts":           &graphql.Field{Type: graphql.NewList(ChartDataType)},
		"heatmap":          &graphql.Field{Type: HeatmapType},
		"warnings":         &graphql.Field{Type: graphql.Int},
		"total_in_dataset": &graphql.Field{Type: graphql.Int},
	},
})

// FindingType is one dataset row
var FindingType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Finding",
	Fields: graphql.Fields{
		"row":         &graphql.Field{Type: graphql.Int},
		"source":      &graphql.Field{Type: graphql.String},
		"category":    &graphql.Field{Type: graphql.String},
		"severity":    &graphql.Field{Type: graphql.String},
		"status":      &graphql.Field{Type: graphql.String},
		"team":        &graphql.Field{Type: graphql.String},
		"repo":        &graphql.Field{Type: graphql.String},
		"opened_at":   &graphql.Field{Type: graphql.String},
		"mttr_hours":  &graphql.Field{Type: graphql.Float},
		"week_number": &graphql.Field{Type: graphql.Int},
		"tool_url":    &graphql.Field{Type: graphql.String},
	},
})

// DrillDownType is the narrowed finding set behind a click
var DrillDownType = graphql.NewObject(graphql.ObjectConfig{
	Name: "DrillDown",
	Fields: graphql.Fields{
		"description": &graphql.Field{Type: graphql.String},
		"narrowed":    &graphql.Field{Type: graphql.Boolean},
		"count":       &graphql.Field{Type: graphql.Int},
		"findings":    &graphql.Field{Type: graphql.NewList(FindingType)},
	},
})

// WarningType is a data quality warning of the dataset
var WarningType = graphql.NewObject(graphql.ObjectConfig{
	Name: "DataQualityWarning",
	Fields: graphql.Fields{
		"kind":   &graphql.Field{Type: graphql.String},
		"field":  &graphql.Field{Type: graphql.String},
		"count":  &graphql.Field{Type: graphql.Int},
		"values": &graphql.Field{Type: graphql.NewList(graphql.String)},
		"rows":   &graphql.Field{Type: graphql.NewList(graphql.Int)},
		"message": &graphql.Field{
			Type: graphql.String,
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				w, ok := p.Source.(model.DataQualityWarning)
				if !ok {
					return nil, nil
				}
				return w.Message(), nil
			},
		},
	},
})
