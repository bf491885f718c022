package graphql

import (
	"github.com/graphql-go/graphql"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/insights/pkg/usecase"
)

func filterArgument() *graphql.ArgumentConfig {
	return &graphql.ArgumentConfig{Type: FilterInputType}
}

// GetQueryFields returns the dashboard queries mounted in the root schema
func GetQueryFields(r *Resolver) graphql.Fields {
	return graphql.Fields{
		"filterOptions": &graphql.Field{
			Type:    FilterOptionsType,
			Resolve: r.FilterOptions,
		},
		"snapshot": &graphql.Field{
			Type: SnapshotType,
			Args: graphql.FieldConfigArgument{
				"filter": filterArgument(),
			},
			Resolve: r.Snapshot,
		},
		"chart": &graphql.Field{
			Type: ChartDataType,
			Args: graphql.FieldConfigArgument{
				"kind":   &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				"filter": filterArgument(),
			},
			Resolve: r.Chart,
		},
		"heatmap": &graphql.Field{
			Type: HeatmapType,
			Args: graphql.FieldConfigArgument{
				"filter":      filterArgument(),
				"granularity": &graphql.ArgumentConfig{Type: graphql.String},
				"dimension":   &graphql.ArgumentConfig{Type: graphql.String},
			},
			Resolve: r.Heatmap,
		},
		"drillDown": &graphql.Field{
			Type: DrillDownType,
			Args: graphql.FieldConfigArgument{
				"filter": filterArgument(),
				"click":  &graphql.ArgumentConfig{Type: ClickInputType},
			},
			Resolve: r.DrillDown,
		},
		"warnings": &graphql.Field{
			Type:    graphql.NewList(WarningType),
			Resolve: r.Warnings,
		},
	}
}

// NewSchema builds the read-only schema over the dashboard
func NewSchema(dashboard usecase.DashboardUseCase) (graphql.Schema, error) {
	schema, err := graphql.NewSchema(graphql.SchemaConfig{
		Query: graphql.NewObject(graphql.ObjectConfig{
			Name:   "Query",
			Fields: GetQueryFields(NewResolver(dashboard)),
		}),
	})
	if err != nil {
		return graphql.Schema{}, goerr.Wrap(err, "failed to build graphql schema")
	}
	return schema, nil
}
