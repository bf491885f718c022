package config

import (
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

// DefaultDataPath is the dataset read when no path is given
const DefaultDataPath = "data/security_findings_unified.csv"

// Dataset holds the dataset source configuration
type Dataset struct {
	Path string
}

// Flags returns CLI flags for Dataset configuration
func (d *Dataset) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "data",
			Aliases:     []string{"d"},
			Usage:       "Path of the unified security findings CSV",
			Category:    "Dataset",
			Value:       DefaultDataPath,
			Sources:     cli.EnvVars("INSIGHTS_DATA"),
			Destination: &d.Path,
		},
	}
}

// Validate validates the dataset configuration
func (d *Dataset) Validate() error {
	if d.Path == "" {
		return goerr.New("dataset path is required")
	}
	return nil
}

// LogValue returns structured log value
func (d Dataset) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("path", d.Path),
	)
}
