package usecase

import (
	"sort"

	"github.com/secmon-lab/insights/pkg/domain/model"
	"github.com/secmon-lab/insights/pkg/domain/types"
)

// facet is one compiled facet selection. A nil facet places no restriction.
type facet map[string]struct{}

func compileFacet(values []string) facet {
	if len(values) == 0 {
		return nil
	}
	f := make(facet, len(values))
	for _, v := range values {
		f[v] = struct{}{}
	}
	return f
}

func (f facet) match(v string) bool {
	if f == nil {
		return true
	}
	_, ok := f[v]
	return ok
}

// Filter returns the findings matching every non-empty facet of fs, in input
// order. Values within a facet are alternatives. Values that do not occur in
// the data simply match nothing.
func Filter(findings []*model.Finding, fs model.FilterSet) []*model.Finding {
	sources := compileFacet(fs.Sources)
	severities := compileFacet(fs.Severities)
	statuses := compileFacet(fs.Statuses)
	teams := compileFacet(fs.Teams)
	repos := compileFacet(fs.Repos)

	view := make([]*model.Finding, 0, len(findings))
	for _, f := range findings {
		if !sources.match(f.Source) ||
			!severities.match(f.Severity.String()) ||
			!statuses.match(f.Status.String()) ||
			!teams.match(f.Team) ||
			!repos.match(f.Repo) {
			continue
		}
		view = append(view, f)
	}
	return view
}

// FilterOptions lists the selectable values of each facet. Observed values are
// sorted ascending; severities are always the canonical four.
func FilterOptions(table *model.Table) model.FilterOptions {
	sources := map[string]struct{}{}
	statuses := map[string]struct{}{}
	teams := map[string]struct{}{}
	repos := map[string]struct{}{}

	if table != nil {
		for _, f := range table.Findings {
			addNonEmpty(sources, f.Source)
			addNonEmpty(statuses, f.Status.String())
			addNonEmpty(teams, f.Team)
			addNonEmpty(repos, f.Repo)
		}
	}

	return model.FilterOptions{
		Sources:    sortedKeys(sources),
		Severities: types.CanonicalSeverities(),
		Statuses:   sortedKeys(statuses),
		Teams:      sortedKeys(teams),
		Repos:      sortedKeys(repos),
	}
}

func addNonEmpty(set map[string]struct{}, v string) {
	if v != "" {
		set[v] = struct{}{}
	}
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
