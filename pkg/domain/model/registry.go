package model

import (
	"fmt"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/insights/pkg/domain/types"
)

// ChartSpec is one user-defined chart of the chart builder
type ChartSpec struct {
	ID    types.ChartID   `json:"id"`
	Type  types.ChartType `json:"type"`
	X     types.Field     `json:"x"`
	Y     types.Field     `json:"y"` // column name or types.FieldCount
	Color types.Field     `json:"color,omitempty"`
	Title string          `json:"title"`
}

// Validate checks that the spec can be projected
func (s ChartSpec) Validate() error {
	if s.X == "" || s.Y == "" {
		return goerr.New("x and y fields are required", goerr.T(ErrTagInvalidField))
	}
	if !s.Type.IsValid() {
		return goerr.New("unsupported chart type", goerr.V("type", s.Type), goerr.T(ErrTagInvalidField))
	}
	if !s.X.IsValid() {
		return goerr.New("unknown x field", goerr.V("x", s.X), goerr.T(ErrTagInvalidField))
	}
	if s.Y != types.FieldCount && !s.Y.IsValid() {
		return goerr.New("unknown y field", goerr.V("y", s.Y), goerr.T(ErrTagInvalidField))
	}
	if s.Color != "" && !s.Color.IsValid() {
		return goerr.New("unknown color field", goerr.V("color", s.Color), goerr.T(ErrTagInvalidField))
	}
	return nil
}

// ChartRegistry is an ordered list of custom charts. It is a value: Add and
// Remove return a new registry and leave the receiver untouched.
type ChartRegistry struct {
	charts []ChartSpec
	lastID types.ChartID
}

// NewChartRegistry creates a registry holding the given charts in order
func NewChartRegistry(charts ...ChartSpec) ChartRegistry {
	r := ChartRegistry{charts: append([]ChartSpec(nil), charts...)}
	for _, c := range charts {
		if c.ID > r.lastID {
			r.lastID = c.ID
		}
	}
	return r
}

// Charts returns a copy of the registered charts in display order
func (r ChartRegistry) Charts() []ChartSpec {
	return append([]ChartSpec(nil), r.charts...)
}

// Len returns the number of registered charts
func (r ChartRegistry) Len() int {
	return len(r.charts)
}

// Get returns the chart with the given id
func (r ChartRegistry) Get(id types.ChartID) (ChartSpec, bool) {
	for _, c := range r.charts {
		if c.ID == id {
			return c, true
		}
	}
	return ChartSpec{}, false
}

// Add appends spec and returns the new registry with the stored spec. The id is
// len+1, bumped past any id issued before so removed ids never come back. An
// incomplete or invalid spec is rejected: the receiver is returned with nil.
func (r ChartRegistry) Add(spec ChartSpec) (ChartRegistry, *ChartSpec) {
	if color, ok := types.ParseColorField(spec.Color.String()); ok {
		spec.Color = color
	}
	if err := spec.Validate(); err != nil {
		return r, nil
	}

	id := types.ChartID(len(r.charts) + 1)
	if id <= r.lastID {
		id = r.lastID + 1
	}
	spec.ID = id
	spec.Title = fmt.Sprintf("%s: %s vs %s", spec.Type.Title(), spec.X, spec.Y)

	next := ChartRegistry{
		charts: append(r.Charts(), spec),
		lastID: id,
	}
	return next, &spec
}

// Remove returns the registry without the chart of the given id. Unknown ids are a no-op.
func (r ChartRegistry) Remove(id types.ChartID) ChartRegistry {
	next := ChartRegistry{
		charts: make([]ChartSpec, 0, len(r.charts)),
		lastID: r.lastID,
	}
	for _, c := range r.charts {
		if c.ID != id {
			next.charts = append(next.charts, c)
		}
	}
	return next
}
