package interfaces

//go:generate moq -out mocks/notifier_mock.go -pkg mocks . Notifier SlackClient

import (
	"context"

	"github.com/secmon-lab/insights/pkg/domain/model"
	"github.com/slack-go/slack"
)

// Notifier reports dataset health and KPI digests to operators
type Notifier interface {
	NotifyDataQuality(ctx context.Context, source string, warnings []model.DataQualityWarning) error
	NotifyDigest(ctx context.Context, source string, snapshot *model.Snapshot) error
}

// SlackClient is the subset of slack.Client used for notifications
type SlackClient interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
	AuthTestContext(ctx context.Context) (*slack.AuthTestResponse, error)
}
