package usecase_test

import (
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/insights/pkg/domain/model"
	"github.com/secmon-lab/insights/pkg/domain/types"
	"github.com/secmon-lab/insights/pkg/usecase"
)

func TestComputeKPIs(t *testing.T) {
	t.Run("empty view is all zero", func(t *testing.T) {
		gt.Equal(t, usecase.ComputeKPIs(nil), model.KPI{})
		gt.Equal(t, usecase.ComputeKPIs([]*model.Finding{}), model.KPI{})
	})

	t.Run("counts open and critical open", func(t *testing.T) {
		view := concat(
			repeat(2, types.SeverityCritical, withMTTR(10)),
			repeat(1, types.SeverityCritical, withStatus(types.StatusClosed), withMTTR(20)),
			repeat(1, types.SeverityHigh, withStatus(types.StatusInProgress), withMTTR(30)),
		)
		kpi := usecase.ComputeKPIs(view)
		gt.Equal(t, kpi.Total, 4)
		gt.Equal(t, kpi.Open, 3)
		gt.Equal(t, kpi.CriticalOpen, 2)
		// mean over every row in view, closed or not
		gt.Equal(t, kpi.AvgMTTR, 17.5)
	})
}

func TestRiskScore(t *testing.T) {
	t.Run("no open findings score zero", func(t *testing.T) {
		gt.Equal(t, usecase.RiskScore(nil, 50), 0.0)
		closed := repeat(5, types.SeverityCritical, withStatus(types.StatusClosed))
		gt.Equal(t, usecase.RiskScore(closed, 50), 0.0)
	})

	t.Run("weighted example", func(t *testing.T) {
		view := concat(
			repeat(4, types.SeverityCritical),
			repeat(3, types.SeverityHigh, withStatus(types.StatusClosed)),
			repeat(3, types.SeverityLow),
		)
		gt.Equal(t, usecase.RiskWeight(view), 23.0)
		// 100 * (1 - e^-0.46) = 36.87
		gt.Equal(t, usecase.RiskScore(view, model.DefaultRiskSensitivity), 36.9)
	})

	t.Run("monotonic in open critical findings", func(t *testing.T) {
		base := repeat(3, types.SeverityLow)
		prev := usecase.RiskScore(base, 50)
		for n := 1; n <= 60; n++ {
			view := concat(base, repeat(n, types.SeverityCritical))
			score := usecase.RiskScore(view, 50)
			gt.True(t, score >= prev)
			prev = score
		}
	})

	t.Run("saturates below 100", func(t *testing.T) {
		view := repeat(1000, types.SeverityCritical)
		score := usecase.RiskScore(view, 50)
		gt.True(t, score < 100)
		gt.True(t, score > 99)
	})

	t.Run("sensitivity is tunable", func(t *testing.T) {
		view := repeat(10, types.SeverityHigh)
		gt.True(t, usecase.RiskScore(view, 100) < usecase.RiskScore(view, 50))
		gt.Equal(t, usecase.RiskScore(view, 0), usecase.RiskScore(view, model.DefaultRiskSensitivity))
	})
}

func TestTrendComparison(t *testing.T) {
	t.Run("empty view", func(t *testing.T) {
		gt.Equal(t, usecase.TrendComparison(nil, types.GranularityWeek), model.TrendResult{})
	})

	t.Run("single bucket uses sentinel", func(t *testing.T) {
		for _, n := range []int{1, 7, 42} {
			view := repeat(n, types.SeverityHigh)
			gt.Equal(t, usecase.TrendComparison(view, types.GranularityWeek), model.TrendResult{
				Current: n, Previous: 0, Delta: n, DeltaPct: 100,
			})
		}
	})

	t.Run("week over week", func(t *testing.T) {
		view := concat(
			repeat(4, types.SeverityHigh, withOpenedAt(baseTime.AddDate(0, 0, -7))),
			repeat(2, types.SeverityHigh, withOpenedAt(baseTime)),
			// Sunday belongs to the week starting on the previous Monday
			repeat(1, types.SeverityHigh, withOpenedAt(baseTime.AddDate(0, 0, 6))),
		)
		gt.Equal(t, usecase.TrendComparison(view, types.GranularityWeek), model.TrendResult{
			Current: 3, Previous: 4, Delta: -1, DeltaPct: -25,
		})
	})

	t.Run("previous is the second most recent populated bucket", func(t *testing.T) {
		view := concat(
			repeat(2, types.SeverityHigh, withOpenedAt(baseTime.AddDate(0, 0, -21))),
			repeat(3, types.SeverityHigh, withOpenedAt(baseTime)),
		)
		gt.Equal(t, usecase.TrendComparison(view, types.GranularityWeek), model.TrendResult{
			Current: 3, Previous: 2, Delta: 1, DeltaPct: 50,
		})
	})

	t.Run("month granularity", func(t *testing.T) {
		view := concat(
			repeat(3, types.SeverityHigh, withOpenedAt(time.Date(2024, 1, 31, 23, 0, 0, 0, time.UTC))),
			repeat(4, types.SeverityHigh, withOpenedAt(time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC))),
		)
		result := usecase.TrendComparison(view, types.GranularityMonth)
		gt.Equal(t, result.Current, 4)
		gt.Equal(t, result.Previous, 3)
		gt.Equal(t, result.DeltaPct, 33.3)
	})
}

func TestSLACompliance(t *testing.T) {
	thresholds := model.DefaultSLAConfig().Hours()

	t.Run("critical example", func(t *testing.T) {
		view := concat(
			repeat(1, types.SeverityCritical, withMTTR(10)),
			repeat(1, types.SeverityCritical, withMTTR(30)),
			repeat(1, types.SeverityCritical, withMTTR(5)),
			repeat(1, types.SeverityCritical, withMTTR(50)),
		)
		result := usecase.SLACompliance(view, thresholds)
		gt.Equal(t, result.Percent(types.SeverityCritical), 50.0)
		gt.Equal(t, result.Entries[0].Compliant, 2)
		gt.Equal(t, result.Entries[0].Total, 4)
	})

	t.Run("threshold is inclusive", func(t *testing.T) {
		view := repeat(1, types.SeverityHigh, withMTTR(72))
		gt.Equal(t, usecase.SLACompliance(view, thresholds).Percent(types.SeverityHigh), 100.0)
	})

	t.Run("empty buckets report zero in canonical order", func(t *testing.T) {
		result := usecase.SLACompliance(nil, thresholds)
		gt.Equal(t, len(result.Entries), 4)
		for i, sev := range types.CanonicalSeverities() {
			gt.Equal(t, result.Entries[i].Severity, sev)
			gt.Equal(t, result.Entries[i].Percent, 0.0)
		}
	})

	t.Run("only configured severities are reported", func(t *testing.T) {
		result := usecase.SLACompliance(repeat(2, types.SeverityLow), map[types.Severity]float64{
			types.SeverityLow: 1,
		})
		gt.Equal(t, len(result.Entries), 1)
		gt.Equal(t, result.Percent(types.SeverityLow), 100.0)
	})
}

func TestMTTRBySeverity(t *testing.T) {
	view := concat(
		repeat(1, types.SeverityHigh, withMTTR(10)),
		repeat(1, types.SeverityHigh, withMTTR(21)),
		repeat(1, types.SeverityLow, withMTTR(3)),
	)
	result := usecase.MTTRBySeverity(view)
	gt.Equal(t, len(result), 4)
	gt.Equal(t, result[0], model.SeverityMTTR{Severity: types.SeverityCritical})
	gt.Equal(t, result[1], model.SeverityMTTR{Severity: types.SeverityHigh, Count: 2, MeanMTTR: 15.5})
	gt.Equal(t, result[3], model.SeverityMTTR{Severity: types.SeverityLow, Count: 1, MeanMTTR: 3})
}

func TestAgeHours(t *testing.T) {
	f := newFinding(types.SeverityHigh)
	gt.Equal(t, usecase.AgeHours(f, baseTime.Add(36*time.Hour)), 36.0)
	gt.Equal(t, usecase.AgeHours(f, baseTime.Add(-time.Hour)), 0.0)
	gt.Equal(t, usecase.AgeHours(nil, baseTime), 0.0)

	older := newFinding(types.SeverityLow, withOpenedAt(baseTime.AddDate(0, 0, -3)))
	closed := newFinding(types.SeverityLow, withOpenedAt(baseTime.AddDate(0, 0, -9)), withStatus(types.StatusClosed))
	gt.Equal(t, usecase.OldestOpen([]*model.Finding{f, older, closed}), older)
	gt.V(t, usecase.OldestOpen(nil)).Nil()
}
