package config

import (
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	slackSvc "github.com/secmon-lab/insights/pkg/service/slack"
	"github.com/urfave/cli/v3"
)

// Slack holds Slack notification configuration
type Slack struct {
	OAuthToken    string
	Channel       string
	SigningSecret string
}

// Flags returns CLI flags for Slack configuration
func (s *Slack) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "slack-oauth-token",
			Usage:       "Slack OAuth token for posting notifications",
			Category:    "Slack",
			Sources:     cli.EnvVars("INSIGHTS_SLACK_OAUTH_TOKEN"),
			Destination: &s.OAuthToken,
		},
		&cli.StringFlag{
			Name:        "slack-channel",
			Usage:       "Slack channel ID receiving data quality warnings and digests",
			Category:    "Slack",
			Sources:     cli.EnvVars("INSIGHTS_SLACK_CHANNEL"),
			Destination: &s.Channel,
		},
		&cli.StringFlag{
			Name:        "slack-signing-secret",
			Usage:       "Slack signing secret enabling the /insights slash command",
			Category:    "Slack",
			Sources:     cli.EnvVars("INSIGHTS_SLACK_SIGNING_SECRET"),
			Destination: &s.SigningSecret,
		},
	}
}

// IsConfigured checks if Slack notifications are enabled
func (s *Slack) IsConfigured() bool {
	return s.OAuthToken != ""
}

// Validate validates the Slack configuration
func (s *Slack) Validate() error {
	if s.OAuthToken != "" && s.Channel == "" {
		return goerr.New("slack channel is required when slack token is set")
	}
	if s.OAuthToken == "" && s.Channel != "" {
		return goerr.New("slack token is required when slack channel is set")
	}
	return nil
}

// Configure creates the notifier. It returns nil when Slack is not configured.
func (s *Slack) Configure() (*slackSvc.Notifier, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	if !s.IsConfigured() {
		return nil, nil
	}
	return slackSvc.NewNotifier(slackSvc.New(s.OAuthToken), s.Channel), nil
}

// IsCommandConfigured checks if the slash command endpoint is enabled
func (s *Slack) IsCommandConfigured() bool {
	return s.SigningSecret != ""
}

// LogValue returns structured log value
func (s Slack) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Bool("has_oauth_token", s.OAuthToken != ""),
		slog.String("channel", s.Channel),
		slog.Bool("has_signing_secret", s.SigningSecret != ""),
	)
}
