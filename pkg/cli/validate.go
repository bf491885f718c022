package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/insights/pkg/domain/model"
	"github.com/urfave/cli/v3"
)

// maxSampleValues bounds the offending values printed per warning
const maxSampleValues = 5

func cmdValidate() *cli.Command {
	var (
		dashboardCfg  dashboardConfig
		failOnWarning bool
	)

	flags := joinFlags(
		dashboardCfg.dataset.Flags(),
		dashboardCfg.engine.Flags(),
		[]cli.Flag{
			&cli.BoolFlag{
				Name:        "fail-on-warning",
				Usage:       "Exit with an error when the dataset has data quality warnings",
				Destination: &failOnWarning,
			},
		},
	)

	return &cli.Command{
		Name:  "validate",
		Usage: "Load the dataset and report data quality warnings",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			dashboard, _, err := dashboardCfg.build(ctx, nil)
			if err != nil {
				return err
			}

			tbl, err := dashboard.Table(ctx)
			if err != nil {
				return err
			}

			writeValidation(c.Root().Writer, tbl)

			if failOnWarning && len(tbl.Warnings) > 0 {
				return goerr.New("dataset has data quality warnings",
					goerr.V("source", tbl.Source),
					goerr.V("warnings", len(tbl.Warnings)))
			}
			return nil
		},
	}
}

// writeValidation prints the load result and every data quality warning
func writeValidation(w io.Writer, tbl *model.Table) {
	fmt.Fprintf(w, "Dataset: %s\n", tbl.Source)
	fmt.Fprintf(w, "Rows: %s\n", humanize.Comma(int64(tbl.Len())))

	if len(tbl.Warnings) == 0 {
		fmt.Fprintln(w, "No data quality warnings")
		return
	}

	tw := newTable(w, fmt.Sprintf("%d data quality warnings", len(tbl.Warnings)))
	tw.AppendHeader(table.Row{"Kind", "Field", "Rows", "Sample", "Message"})
	for _, warning := range tbl.Warnings {
		tw.AppendRow(table.Row{
			warning.Kind,
			warning.Field,
			humanize.Comma(int64(warning.Count)),
			sampleValues(warning.Values),
			warning.Message(),
		})
	}
	tw.Render()
}

func sampleValues(values []string) string {
	if len(values) <= maxSampleValues {
		return strings.Join(values, ", ")
	}
	return strings.Join(values[:maxSampleValues], ", ") +
		fmt.Sprintf(" (+%d more)", len(values)-maxSampleValues)
}
