package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/insights/pkg/domain/model"
	"github.com/secmon-lab/insights/pkg/domain/types"
	"github.com/urfave/cli/v3"
)

func cmdSummary() *cli.Command {
	var (
		dashboardCfg dashboardConfig
		filterCfg    filterConfig
		notify       bool
	)

	flags := joinFlags(
		dashboardCfg.Flags(),
		filterCfg.Flags(),
		[]cli.Flag{
			&cli.BoolFlag{
				Name:        "notify",
				Usage:       "Post the summary to Slack as a KPI digest",
				Category:    "Slack",
				Destination: &notify,
			},
		},
	)

	return &cli.Command{
		Name:  "summary",
		Usage: "Print KPIs, risk, trend and SLA compliance of the dataset",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			if notify && !dashboardCfg.slack.IsConfigured() {
				return goerr.New("--notify requires --slack-oauth-token and --slack-channel")
			}

			dashboard, _, err := dashboardCfg.build(ctx, nil)
			if err != nil {
				return err
			}

			tbl, err := dashboard.Table(ctx)
			if err != nil {
				return err
			}
			fs := filterCfg.FilterSet()
			snapshot, err := dashboard.Snapshot(ctx, fs)
			if err != nil {
				return err
			}

			ages, err := dashboard.OpenFindingAges(ctx, fs)
			if err != nil {
				return err
			}

			writeSummary(c.Root().Writer, tbl, snapshot, ages, time.Now())

			if notify {
				if err := dashboard.NotifyDigest(ctx, fs); err != nil {
					return err
				}
				ctxlog.From(ctx).Info("Digest posted to Slack",
					slog.String("channel", dashboardCfg.slack.Channel))
			}
			return nil
		},
	}
}

func newTable(w io.Writer, title string) table.Writer {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleLight)
	tw.SetTitle(title)
	return tw
}

// writeSummary prints the snapshot of one filter as console tables
func writeSummary(w io.Writer, tbl *model.Table, s *model.Snapshot, openAges []float64, now time.Time) {
	fmt.Fprintf(w, "Dataset: %s (%s rows, loaded %s)\n",
		tbl.Source, humanize.Comma(int64(tbl.Len())), humanize.RelTime(tbl.LoadedAt, now, "ago", "from now"))
	if !s.Filter.IsEmpty() {
		fmt.Fprintf(w, "Filter: %s\n", describeFilter(s.Filter))
	}
	fmt.Fprintln(w)

	kpi := newTable(w, "Key metrics")
	kpi.AppendHeader(table.Row{"Metric", "Value"})
	kpi.AppendRows([]table.Row{
		{"Total findings", humanize.Comma(int64(s.KPI.Total))},
		{"Open", humanize.Comma(int64(s.KPI.Open))},
		{"Critical open", humanize.Comma(int64(s.KPI.CriticalOpen))},
		{"Avg MTTR", formatHours(s.KPI.AvgMTTR)},
		{"Oldest open", oldestOpen(openAges)},
		{"Risk score", fmt.Sprintf("%.1f / 100", s.RiskScore)},
		{"Trend", formatTrend(s.Trend)},
		{"Data quality warnings", humanize.Comma(int64(s.Warnings))},
	})
	kpi.SetColumnConfigs([]table.ColumnConfig{{Number: 2, Align: text.AlignRight}})
	kpi.Render()
	fmt.Fprintln(w)

	sla := newTable(w, "SLA compliance")
	sla.AppendHeader(table.Row{"Severity", "Threshold", "Findings", "Within SLA", "Compliance"})
	for _, e := range s.SLA.Entries {
		sla.AppendRow(table.Row{
			e.Severity,
			formatHours(e.ThresholdHours),
			humanize.Comma(int64(e.Total)),
			humanize.Comma(int64(e.Compliant)),
			fmt.Sprintf("%.1f%%", e.Percent),
		})
	}
	sla.Render()
	fmt.Fprintln(w)

	mttr := newTable(w, "MTTR by severity")
	mttr.AppendHeader(table.Row{"Severity", "Findings", "Mean MTTR"})
	for _, m := range s.MTTR {
		mttr.AppendRow(table.Row{m.Severity, humanize.Comma(int64(m.Count)), formatHours(m.MeanMTTR)})
	}
	mttr.Render()

	if repos, ok := s.Chart(types.ChartRepos); ok && !repos.Empty && len(repos.Series) > 0 {
		fmt.Fprintln(w)
		top := newTable(w, repos.Title)
		top.AppendHeader(table.Row{"#", "Repository", "Findings"})
		for i, repo := range repos.Categories {
			top.AppendRow(table.Row{i + 1, repo, humanize.Comma(int64(repos.CountOf(repo)))})
		}
		top.Render()
	}
}

func formatHours(h float64) string {
	if h >= 48 {
		return fmt.Sprintf("%sh (%.1fd)", humanize.CommafWithDigits(h, 1), h/24)
	}
	return humanize.CommafWithDigits(h, 1) + "h"
}

// oldestOpen formats the first age, the list being sorted oldest first
func oldestOpen(ages []float64) string {
	if len(ages) == 0 {
		return "-"
	}
	return formatHours(ages[0])
}

func formatTrend(t model.TrendResult) string {
	sign := ""
	if t.Delta > 0 {
		sign = "+"
	}
	return fmt.Sprintf("%d -> %d (%s%d, %s%.1f%%)", t.Previous, t.Current, sign, t.Delta, sign, t.DeltaPct)
}

func describeFilter(fs model.FilterSet) string {
	var out string
	add := func(name string, values []string) {
		if len(values) == 0 {
			return
		}
		if out != "" {
			out += ", "
		}
		out += fmt.Sprintf("%s=%v", name, values)
	}
	add("source", fs.Sources)
	add("severity", fs.Severities)
	add("status", fs.Statuses)
	add("team", fs.Teams)
	add("repo", fs.Repos)
	return out
}
