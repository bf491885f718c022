package usecase

import (
	"math"
	"sort"
	"time"

	"github.com/secmon-lab/insights/pkg/domain/model"
	"github.com/secmon-lab/insights/pkg/domain/types"
)

// ComputeKPIs returns the headline counters of view. In Progress counts as
// open. AvgMTTR is the mean over every row in view, not only closed ones.
func ComputeKPIs(view []*model.Finding) model.KPI {
	var kpi model.KPI
	if len(view) == 0 {
		return kpi
	}

	var mttrSum float64
	for _, f := range view {
		kpi.Total++
		mttrSum += f.MTTRHours
		if f.IsOpen() {
			kpi.Open++
			if f.Severity == types.SeverityCritical {
				kpi.CriticalOpen++
			}
		}
	}
	kpi.AvgMTTR = mttrSum / float64(kpi.Total)
	return kpi
}

// RiskWeight returns the severity weighted count of open findings
func RiskWeight(view []*model.Finding) float64 {
	var raw float64
	for _, f := range view {
		if f.IsOpen() {
			raw += f.Severity.Weight()
		}
	}
	return raw
}

// RiskScore maps open findings onto 0-100 with 100*(1-e^(-raw/sensitivity)),
// rounded to one decimal. The curve saturates below 100. A non-positive
// sensitivity falls back to model.DefaultRiskSensitivity.
func RiskScore(view []*model.Finding, sensitivity float64) float64 {
	if sensitivity <= 0 {
		sensitivity = model.DefaultRiskSensitivity
	}
	raw := RiskWeight(view)
	if raw == 0 {
		return 0
	}
	score := model.Round1(100 * (1 - math.Exp(-raw/sensitivity)))
	// rounding may lift scores just below 100 onto it
	if score >= 100 {
		score = 99.9
	}
	return score
}

type bucketCount struct {
	start time.Time
	count int
}

// bucketize counts findings per time bucket, oldest first. Only populated buckets are returned.
func bucketize(view []*model.Finding, g types.Granularity) []bucketCount {
	counts := make(map[time.Time]int)
	for _, f := range view {
		counts[g.Truncate(f.OpenedAt)]++
	}

	buckets := make([]bucketCount, 0, len(counts))
	for start, n := range counts {
		buckets = append(buckets, bucketCount{start: start, count: n})
	}
	sort.Slice(buckets, func(i, j int) bool {
		return buckets[i].start.Before(buckets[j].start)
	})
	return buckets
}

// TrendComparison compares the two most recent populated buckets. A single
// bucket yields delta_pct 100 by convention, and a zero previous yields 0.
func TrendComparison(view []*model.Finding, g types.Granularity) model.TrendResult {
	if !g.IsValid() {
		g = types.GranularityWeek
	}

	buckets := bucketize(view, g)
	switch len(buckets) {
	case 0:
		return model.TrendResult{}
	case 1:
		cur := buckets[0].count
		return model.TrendResult{Current: cur, Delta: cur, DeltaPct: 100}
	}

	cur := buckets[len(buckets)-1].count
	prev := buckets[len(buckets)-2].count
	result := model.TrendResult{
		Current:  cur,
		Previous: prev,
		Delta:    cur - prev,
	}
	if prev != 0 {
		result.DeltaPct = model.Round1(100 * float64(result.Delta) / float64(prev))
	}
	return result
}

// SLACompliance returns per severity the percentage of findings resolved
// within the threshold. Severities are reported in canonical order, limited to
// those with a threshold. A severity with no findings reports 0.
func SLACompliance(view []*model.Finding, thresholds map[types.Severity]float64) model.ComplianceMap {
	totals := make(map[types.Severity]int)
	compliant := make(map[types.Severity]int)
	for _, f := range view {
		hours, ok := thresholds[f.Severity]
		if !ok {
			continue
		}
		totals[f.Severity]++
		if f.MTTRHours <= hours {
			compliant[f.Severity]++
		}
	}

	result := model.ComplianceMap{Entries: []model.SLACompliance{}}
	for _, sev := range types.CanonicalSeverities() {
		hours, ok := thresholds[sev]
		if !ok {
			continue
		}
		entry := model.SLACompliance{
			Severity:       sev,
			ThresholdHours: hours,
			Total:          totals[sev],
			Compliant:      compliant[sev],
		}
		if entry.Total > 0 {
			entry.Percent = model.Round1(100 * float64(entry.Compliant) / float64(entry.Total))
		}
		result.Entries = append(result.Entries, entry)
	}
	return result
}

// MTTRBySeverity returns the mean MTTR of each canonical severity, 0 for empty buckets
func MTTRBySeverity(view []*model.Finding) []model.SeverityMTTR {
	sums := make(map[types.Severity]float64)
	counts := make(map[types.Severity]int)
	for _, f := range view {
		sums[f.Severity] += f.MTTRHours
		counts[f.Severity]++
	}

	out := make([]model.SeverityMTTR, 0, 4)
	for _, sev := range types.CanonicalSeverities() {
		entry := model.SeverityMTTR{Severity: sev, Count: counts[sev]}
		if entry.Count > 0 {
			entry.MeanMTTR = model.Round1(sums[sev] / float64(entry.Count))
		}
		out = append(out, entry)
	}
	return out
}

// AgeHours returns how long the finding has been open as of now, never negative
func AgeHours(f *model.Finding, now time.Time) float64 {
	if f == nil || f.OpenedAt.IsZero() {
		return 0
	}
	age := f.AgeHours(now)
	if age < 0 {
		return 0
	}
	return age
}

// OldestOpen returns the open finding with the earliest OpenedAt, or nil
func OldestOpen(view []*model.Finding) *model.Finding {
	var oldest *model.Finding
	for _, f := range view {
		if !f.IsOpen() {
			continue
		}
		if oldest == nil || f.OpenedAt.Before(oldest.OpenedAt) {
			oldest = f
		}
	}
	return oldest
}
