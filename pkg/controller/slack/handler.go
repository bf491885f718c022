package slack

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/insights/pkg/domain/model"
	slackSvc "github.com/secmon-lab/insights/pkg/service/slack"
	"github.com/secmon-lab/insights/pkg/usecase"
	"github.com/secmon-lab/insights/pkg/utils/async"
	slackgo "github.com/slack-go/slack"
)

const (
	responseEphemeral = "ephemeral"
	responseInChannel = "in_channel"
)

// maxCommandBody bounds slash command payloads
const maxCommandBody = 64 << 10

// Handler serves the /insights slash command
type Handler struct {
	signingSecret string
	dashboard     usecase.DashboardUseCase
	blocks        *slackSvc.BlockBuilder
}

// NewHandler creates a new Slack handler
func NewHandler(signingSecret string, dashboard usecase.DashboardUseCase) *Handler {
	return &Handler{
		signingSecret: signingSecret,
		dashboard:     dashboard,
		blocks:        slackSvc.NewBlockBuilder(),
	}
}

// HandleCommand verifies and acknowledges a slash command. The answer is
// computed in background and posted to the command's response URL.
func (h *Handler) HandleCommand(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if h.signingSecret == "" {
		h.writeError(w, ctx, goerr.New("Slack not configured"), http.StatusServiceUnavailable)
		return
	}

	// Read body
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxCommandBody))
	if err != nil {
		h.writeError(w, ctx, goerr.Wrap(err, "failed to read request body"), http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	// Verify Slack signature
	if err := h.verifySlackSignature(r, body); err != nil {
		ctxlog.From(ctx).Warn("Invalid Slack signature", "error", err)
		h.writeError(w, ctx, goerr.Wrap(err, "invalid signature"), http.StatusUnauthorized)
		return
	}

	r.Body = io.NopCloser(bytes.NewReader(body))
	slash, err := slackgo.SlashCommandParse(r)
	if err != nil {
		h.writeError(w, ctx, goerr.Wrap(err, "failed to parse slash command"), http.StatusBadRequest)
		return
	}

	logger := ctxlog.From(ctx).With("user", slash.UserID, "channel", slash.ChannelID)
	cmd, err := parseCommand(slash.Text)
	if err != nil {
		logger.Debug("Rejected slash command", "error", err, "text", slash.Text)
		h.reply(w, ctx, responseEphemeral, fmt.Sprintf("%s\n%s", err.Error(), usage))
		return
	}
	if cmd.name == subHelp {
		h.reply(w, ctx, responseEphemeral, usage)
		return
	}
	if slash.ResponseURL == "" {
		h.writeError(w, ctx, goerr.New("response_url is required"), http.StatusBadRequest)
		return
	}

	logger.Info("Slash command accepted", "subcommand", cmd.name, "filter", cmd.filter)
	responseURL := slash.ResponseURL
	async.Dispatch(ctx, func(ctx context.Context) error {
		return h.respond(ctx, cmd, responseURL)
	})

	h.reply(w, ctx, responseEphemeral, "Computing security insights...")
}

// respond computes the answer of cmd and posts it to responseURL
func (h *Handler) respond(ctx context.Context, cmd *command, responseURL string) error {
	msg, err := h.buildMessage(ctx, cmd)
	if err != nil {
		msg = &slackgo.WebhookMessage{
			ResponseType: responseEphemeral,
			Text:         "Failed to compute security insights: " + err.Error(),
		}
		ctxlog.From(ctx).Error("Failed to answer slash command", "error", err)
	}

	if err := slackSvc.PostResponse(ctx, responseURL, msg); err != nil {
		return goerr.Wrap(err, "failed to post slash command response")
	}
	return nil
}

func (h *Handler) buildMessage(ctx context.Context, cmd *command) (*slackgo.WebhookMessage, error) {
	source := h.dashboard.Source()

	switch cmd.name {
	case subWarnings:
		warnings, err := h.dashboard.Warnings(ctx)
		if err != nil {
			return nil, err
		}
		if len(warnings) == 0 {
			return &slackgo.WebhookMessage{
				ResponseType: responseInChannel,
				Text:         "No data quality warnings in " + source,
				Blocks:       &slackgo.Blocks{BlockSet: h.blocks.BuildContextBlocks("✅ No data quality warnings in `" + source + "`")},
			}, nil
		}
		return &slackgo.WebhookMessage{
			ResponseType: responseInChannel,
			Text:         fmt.Sprintf("%d data quality warnings in %s", len(warnings), source),
			Blocks:       &slackgo.Blocks{BlockSet: h.blocks.BuildDataQualityBlocks(source, warnings)},
		}, nil

	default:
		snapshot, err := h.dashboard.Snapshot(ctx, cmd.filter)
		if err != nil {
			return nil, err
		}
		return &slackgo.WebhookMessage{
			ResponseType: responseInChannel,
			Text: fmt.Sprintf("Security Insights digest: %d findings, %d open, risk %.1f",
				snapshot.KPI.Total, snapshot.KPI.Open, snapshot.RiskScore),
			Blocks: &slackgo.Blocks{BlockSet: h.digestBlocks(source, snapshot)},
		}, nil
	}
}

func (h *Handler) digestBlocks(source string, s *model.Snapshot) []slackgo.Block {
	blocks := h.blocks.BuildDigestBlocks(source, s)
	if !s.Filter.IsEmpty() {
		filter, _ := json.Marshal(s.Filter)
		blocks = append(blocks, h.blocks.BuildContextBlocks("Filter: `"+string(filter)+"`")...)
	}
	return blocks
}

// verifySlackSignature verifies the Slack request signature and its timestamp window
func (h *Handler) verifySlackSignature(r *http.Request, body []byte) error {
	sv, err := slackgo.NewSecretsVerifier(r.Header, h.signingSecret)
	if err != nil {
		return goerr.Wrap(err, "invalid signature headers")
	}
	if _, err := sv.Write(body); err != nil {
		return goerr.Wrap(err, "failed to hash request body")
	}
	if err := sv.Ensure(); err != nil {
		return goerr.Wrap(err, "signature mismatch")
	}
	return nil
}

// reply writes an immediate slash command response
func (h *Handler) reply(w http.ResponseWriter, ctx context.Context, responseType, text string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(map[string]string{
		"response_type": responseType,
		"text":          text,
	}); err != nil {
		ctxlog.From(ctx).Error("Failed to encode slash command reply", "error", err)
	}
}

// writeError writes an error response
func (h *Handler) writeError(w http.ResponseWriter, ctx context.Context, err error, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	var message string
	if goErr := goerr.Unwrap(err); goErr != nil {
		message = goErr.Error()
	} else {
		message = err.Error()
	}

	if err := json.NewEncoder(w).Encode(map[string]string{
		"error": message,
	}); err != nil {
		ctxlog.From(ctx).Error("Failed to encode error response", "error", err)
	}
}
