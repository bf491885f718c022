package config

import (
	"log/slog"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/insights/pkg/repository"
	"github.com/urfave/cli/v3"
)

// DefaultRefreshInterval is how often serve recomputes the dashboard
const DefaultRefreshInterval = 5 * time.Minute

// Server holds server configuration
type Server struct {
	Addr              string
	Title             string
	AssetsHost        string
	RefreshInterval   time.Duration
	RefreshInvalidate bool
	Metrics           bool
	SessionTTL        time.Duration
	MaxSessions       int
}

// Flags returns CLI flags for Server configuration
func (s *Server) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "Server address",
			Value:       "localhost:8080",
			Sources:     cli.EnvVars("INSIGHTS_ADDR"),
			Destination: &s.Addr,
		},
		&cli.StringFlag{
			Name:        "title",
			Usage:       "Dashboard page title",
			Value:       "Security Insights Center",
			Sources:     cli.EnvVars("INSIGHTS_TITLE"),
			Destination: &s.Title,
		},
		&cli.StringFlag{
			Name:        "assets-host",
			Usage:       "Base URL the browser loads echarts.min.js from",
			Value:       "https://go-echarts.github.io/go-echarts-assets/assets/",
			Sources:     cli.EnvVars("INSIGHTS_ASSETS_HOST"),
			Destination: &s.AssetsHost,
		},
		&cli.DurationFlag{
			Name:        "refresh-interval",
			Usage:       "Interval of the background dashboard refresh (0 disables it)",
			Category:    "Refresh",
			Value:       DefaultRefreshInterval,
			Sources:     cli.EnvVars("INSIGHTS_REFRESH_INTERVAL"),
			Destination: &s.RefreshInterval,
		},
		&cli.BoolFlag{
			Name:        "refresh-invalidate",
			Usage:       "Re-read the dataset file on every refresh instead of recomputing from the cache",
			Category:    "Refresh",
			Sources:     cli.EnvVars("INSIGHTS_REFRESH_INVALIDATE"),
			Destination: &s.RefreshInvalidate,
		},
		&cli.DurationFlag{
			Name:        "session-ttl",
			Usage:       "Idle time after which a browser session loses its custom charts (0 disables expiry)",
			Category:    "Session",
			Value:       repository.DefaultSessionTTL,
			Sources:     cli.EnvVars("INSIGHTS_SESSION_TTL"),
			Destination: &s.SessionTTL,
		},
		&cli.IntFlag{
			Name:        "max-sessions",
			Usage:       "Maximum number of browser sessions holding custom charts (0 is unbounded)",
			Category:    "Session",
			Value:       repository.DefaultMaxSessions,
			Sources:     cli.EnvVars("INSIGHTS_MAX_SESSIONS"),
			Destination: &s.MaxSessions,
		},
		&cli.BoolFlag{
			Name:        "metrics",
			Usage:       "Expose Prometheus metrics on /metrics",
			Value:       true,
			Sources:     cli.EnvVars("INSIGHTS_METRICS"),
			Destination: &s.Metrics,
		},
	}
}

// Validate validates the server configuration
func (s *Server) Validate() error {
	if s.Addr == "" {
		return goerr.New("server address is required")
	}
	if s.RefreshInterval < 0 {
		return goerr.New("refresh interval must not be negative",
			goerr.V("refresh_interval", s.RefreshInterval))
	}
	if s.SessionTTL < 0 || s.MaxSessions < 0 {
		return goerr.New("session limits must not be negative",
			goerr.V("session_ttl", s.SessionTTL),
			goerr.V("max_sessions", s.MaxSessions))
	}
	return nil
}

// RegistryStore creates the per-session custom chart store with the configured limits
func (s *Server) RegistryStore() *repository.RegistryStore {
	return repository.NewRegistryStore(
		repository.WithSessionTTL(s.SessionTTL),
		repository.WithMaxSessions(s.MaxSessions),
	)
}

// LogValue returns structured log value
func (s Server) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("addr", s.Addr),
		slog.String("title", s.Title),
		slog.String("assets_host", s.AssetsHost),
		slog.Duration("refresh_interval", s.RefreshInterval),
		slog.Bool("refresh_invalidate", s.RefreshInvalidate),
		slog.Bool("metrics", s.Metrics),
		slog.Duration("session_ttl", s.SessionTTL),
		slog.Int("max_sessions", s.MaxSessions),
	)
}
