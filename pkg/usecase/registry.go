package usecase

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/insights/pkg/domain/model"
	"github.com/secmon-lab/insights/pkg/domain/types"
)

func (d *Dashboard) requireRegistry() error {
	if d.registries == nil {
		return goerr.New("custom charts are not enabled")
	}
	return nil
}

// CustomCharts returns the custom charts of the session in display order
func (d *Dashboard) CustomCharts(ctx context.Context, sid types.SessionID) ([]model.ChartSpec, error) {
	if err := d.requireRegistry(); err != nil {
		return nil, err
	}
	reg, err := d.registries.GetRegistry(ctx, sid)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get chart registry", goerr.V("session_id", sid))
	}
	return reg.Charts(), nil
}

// AddCustomChart registers a chart for the session and returns it with its id and title
func (d *Dashboard) AddCustomChart(ctx context.Context, sid types.SessionID, spec model.ChartSpec) (*model.ChartSpec, error) {
	if err := d.requireRegistry(); err != nil {
		return nil, err
	}

	var added *model.ChartSpec
	_, err := d.registries.UpdateRegistry(ctx, sid, func(reg model.ChartRegistry) model.ChartRegistry {
		next, spec := reg.Add(spec)
		added = spec
		return next
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to update chart registry", goerr.V("session_id", sid))
	}
	if added == nil {
		// Add rejects silently; report why
		if color, ok := types.ParseColorField(spec.Color.String()); ok {
			spec.Color = color
		}
		reason := spec.Validate()
		if reason == nil {
			reason = goerr.New("chart rejected")
		}
		return nil, goerr.Wrap(reason, "invalid chart spec",
			goerr.V("session_id", sid),
			goerr.T(model.ErrTagInvalidField))
	}

	return added, nil
}

// RemoveCustomChart removes a chart of the session. Unknown ids are ignored.
func (d *Dashboard) RemoveCustomChart(ctx context.Context, sid types.SessionID, id types.ChartID) error {
	if err := d.requireRegistry(); err != nil {
		return err
	}
	_, err := d.registries.UpdateRegistry(ctx, sid, func(reg model.ChartRegistry) model.ChartRegistry {
		return reg.Remove(id)
	})
	if err != nil {
		return goerr.Wrap(err, "failed to update chart registry", goerr.V("session_id", sid))
	}
	return nil
}

// RenderCustomCharts projects every custom chart of the session for fs. A
// chart that fails to project carries its error so the rest still render.
func (d *Dashboard) RenderCustomCharts(ctx context.Context, sid types.SessionID, fs model.FilterSet) ([]CustomChartResult, error) {
	specs, err := d.CustomCharts(ctx, sid)
	if err != nil {
		return nil, err
	}
	view, err := d.View(ctx, fs)
	if err != nil {
		return nil, err
	}

	results := make([]CustomChartResult, 0, len(specs))
	for _, spec := range specs {
		data, err := ProjectCustom(view, spec)
		results = append(results, CustomChartResult{Spec: spec, Data: data, Err: err})
	}
	return results, nil
}
