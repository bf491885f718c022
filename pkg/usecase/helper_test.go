package usecase_test

import (
	"time"

	"github.com/secmon-lab/insights/pkg/domain/model"
	"github.com/secmon-lab/insights/pkg/domain/types"
)

var baseTime = time.Date(2024, 1, 8, 9, 0, 0, 0, time.UTC) // Monday, ISO week 2

type findingOpt func(*model.Finding)

func withSource(s string) findingOpt       { return func(f *model.Finding) { f.Source = s } }
func withCategory(s string) findingOpt     { return func(f *model.Finding) { f.Category = s } }
func withStatus(s types.Status) findingOpt { return func(f *model.Finding) { f.Status = s } }
func withTeam(s string) findingOpt         { return func(f *model.Finding) { f.Team = s } }
func withRepo(s string) findingOpt         { return func(f *model.Finding) { f.Repo = s } }
func withMTTR(h float64) findingOpt        { return func(f *model.Finding) { f.MTTRHours = h } }

func withOpenedAt(t time.Time) findingOpt {
	return func(f *model.Finding) {
		f.OpenedAt = t
		_, f.WeekNumber = t.ISOWeek()
	}
}

func newFinding(sev types.Severity, opts ...findingOpt) *model.Finding {
	f := &model.Finding{
		Source:   "Snyk",
		Category: "Dependency",
		Severity: sev,
		Status:   types.StatusOpen,
		Team:     "platform",
		Repo:     "api",
	}
	withOpenedAt(baseTime)(f)
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func repeat(n int, sev types.Severity, opts ...findingOpt) []*model.Finding {
	out := make([]*model.Finding, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, newFinding(sev, opts...))
	}
	return out
}

func concat(groups ...[]*model.Finding) []*model.Finding {
	var out []*model.Finding
	for _, g := range groups {
		out = append(out, g...)
	}
	for i, f := range out {
		f.Row = i + 1
	}
	return out
}
