package slack

import (
	"context"
	"fmt"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/insights/pkg/domain/interfaces"
	"github.com/secmon-lab/insights/pkg/domain/model"
	"github.com/slack-go/slack"
)

// Notifier posts dataset health and KPI digests to one channel
type Notifier struct {
	client    interfaces.SlackClient
	channelID string
	blocks    *BlockBuilder
}

// NewNotifier creates a new Notifier
func NewNotifier(client interfaces.SlackClient, channelID string) *Notifier {
	return &Notifier{
		client:    client,
		channelID: channelID,
		blocks:    NewBlockBuilder(),
	}
}

var _ interfaces.Notifier = (*Notifier)(nil)

// NotifyDataQuality posts the warnings of a load. Nothing is posted without warnings.
func (n *Notifier) NotifyDataQuality(ctx context.Context, source string, warnings []model.DataQualityWarning) error {
	if len(warnings) == 0 {
		return nil
	}
	text := fmt.Sprintf("%d data quality warnings in %s", len(warnings), source)
	return n.post(ctx, text, n.blocks.BuildDataQualityBlocks(source, warnings))
}

// NotifyDigest posts a KPI digest of a snapshot
func (n *Notifier) NotifyDigest(ctx context.Context, source string, snapshot *model.Snapshot) error {
	if snapshot == nil {
		return goerr.New("snapshot is required")
	}
	text := fmt.Sprintf("Security Insights digest: %d findings, %d open, risk %.1f",
		snapshot.KPI.Total, snapshot.KPI.Open, snapshot.RiskScore)
	return n.post(ctx, text, n.blocks.BuildDigestBlocks(source, snapshot))
}

// Verify checks the token with auth.test and logs the bot identity
func (n *Notifier) Verify(ctx context.Context) error {
	resp, err := n.client.AuthTestContext(ctx)
	if err != nil {
		return goerr.Wrap(err, "failed to verify Slack token", goerr.V("channel", n.channelID))
	}
	ctxlog.From(ctx).Info("Slack notifier ready",
		"bot_user", resp.User,
		"team", resp.Team,
		"channel", n.channelID)
	return nil
}

func (n *Notifier) post(ctx context.Context, text string, blocks []slack.Block) error {
	channel, ts, err := n.client.PostMessageContext(ctx, n.channelID,
		slack.MsgOptionText(text, false),
		slack.MsgOptionBlocks(blocks...),
	)
	if err != nil {
		return goerr.Wrap(err, "failed to post notification", goerr.V("channel", n.channelID))
	}
	ctxlog.From(ctx).Debug("notification posted", "channel", channel, "ts", ts)
	return nil
}
