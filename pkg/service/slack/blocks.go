package slack

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/secmon-lab/insights/pkg/domain/model"
	"github.com/secmon-lab/insights/pkg/domain/types"
	"github.com/slack-go/slack"
)

// maxWarningLines bounds the data quality list; Slack rejects section text over 3000 chars
const maxWarningLines = 20

// GetSeverityEmoji returns emoji based on severity
func GetSeverityEmoji(sev types.Severity) string {
	switch sev {
	case types.SeverityCritical:
		return "🚨"
	case types.SeverityHigh:
		return "🔴"
	case types.SeverityMedium:
		return "🟠"
	case types.SeverityLow:
		return "🟢"
	default:
		return "❓"
	}
}

// GetRiskEmoji returns emoji for the band of a risk score
func GetRiskEmoji(score float64) string {
	switch {
	case score >= 70:
		return "🔴"
	case score >= 40:
		return "🟠"
	default:
		return "🟢"
	}
}

// BlockBuilder provides methods to build Slack message blocks
type BlockBuilder struct{}

// NewBlockBuilder creates a new BlockBuilder instance
func NewBlockBuilder() *BlockBuilder {
	return &BlockBuilder{}
}

func header(text string) slack.Block {
	return &slack.HeaderBlock{
		Type: slack.MBTHeader,
		Text: &slack.TextBlockObject{
			Type: slack.PlainTextType,
			Text: text,
		},
	}
}

func field(label, value string) *slack.TextBlockObject {
	return &slack.TextBlockObject{
		Type: slack.MarkdownType,
		Text: "*" + label + ":*\n" + value,
	}
}

// BuildContextBlocks builds generic context blocks with the given message
func (b *BlockBuilder) BuildContextBlocks(message string) []slack.Block {
	return []slack.Block{
		slack.NewContextBlock(
			"",
			slack.NewTextBlockObject(
				slack.MarkdownType,
				message,
				false,
				false,
			),
		),
	}
}

// BuildDataQualityBlocks lists the data quality warnings of a fresh load
func (b *BlockBuilder) BuildDataQualityBlocks(source string, warnings []model.DataQualityWarning) []slack.Block {
	rows := 0
	for _, w := range warnings {
		rows += w.Count
	}

	lines := make([]string, 0, len(warnings))
	for i, w := range warnings {
		if i == maxWarningLines {
			lines = append(lines, fmt.Sprintf("…and %d more", len(warnings)-maxWarningLines))
			break
		}
		lines = append(lines, "• "+w.Message())
	}

	blocks := []slack.Block{
		header("⚠️ Data quality warnings"),
		&slack.SectionBlock{
			Type: slack.MBTSection,
			Fields: []*slack.TextBlockObject{
				field("Dataset", "`"+source+"`"),
				field("Affected rows", humanize.Comma(int64(rows))),
			},
		},
		&slack.DividerBlock{
			Type: slack.MBTDivider,
		},
		&slack.SectionBlock{
			Type: slack.MBTSection,
			Text: &slack.TextBlockObject{
				Type: slack.MarkdownType,
				Text: strings.Join(lines, "\n"),
			},
		},
	}
	return append(blocks, b.BuildContextBlocks("Rows with warnings are kept in the dashboard.")...)
}

// BuildDigestBlocks summarizes the KPIs of a snapshot
func (b *BlockBuilder) BuildDigestBlocks(source string, s *model.Snapshot) []slack.Block {
	trend := fmt.Sprintf("%d → %d", s.Trend.Previous, s.Trend.Current)
	if s.Trend.Previous > 0 {
		trend += fmt.Sprintf(" (%+.1f%%)", s.Trend.DeltaPct)
	}

	blocks := []slack.Block{
		header("📊 Security Insights digest"),
		&slack.SectionBlock{
			Type: slack.MBTSection,
			Fields: []*slack.TextBlockObject{
				field("Findings", humanize.Comma(int64(s.KPI.Total))),
				field("Open", humanize.Comma(int64(s.KPI.Open))),
				field("Critical open", GetSeverityEmoji(types.SeverityCritical)+" "+humanize.Comma(int64(s.KPI.CriticalOpen))),
				field("Risk score", GetRiskEmoji(s.RiskScore)+" "+strconv.FormatFloat(s.RiskScore, 'f', 1, 64)),
				field("Avg MTTR", humanize.CommafWithDigits(s.KPI.AvgMTTR, 1)+"h"),
				field("Trend", trend),
			},
		},
	}

	if len(s.SLA.Entries) > 0 {
		lines := make([]string, 0, len(s.SLA.Entries))
		for _, e := range s.SLA.Entries {
			lines = append(lines, fmt.Sprintf("%s %s: %.1f%% within %sh (%d/%d)",
				GetSeverityEmoji(e.Severity), e.Severity,
				e.Percent, strconv.FormatFloat(e.ThresholdHours, 'f', -1, 64),
				e.Compliant, e.Total))
		}
		blocks = append(blocks,
			&slack.DividerBlock{Type: slack.MBTDivider},
			&slack.SectionBlock{
				Type: slack.MBTSection,
				Text: &slack.TextBlockObject{
					Type: slack.MarkdownType,
					Text: "*SLA compliance*\n" + strings.Join(lines, "\n"),
				},
			},
		)
	}

	note := fmt.Sprintf("Dataset `%s`", source)
	if !s.Filter.IsEmpty() {
		note += " (filtered)"
	}
	if s.Warnings > 0 {
		note += fmt.Sprintf(" · %d data quality warnings", s.Warnings)
	}
	return append(blocks, b.BuildContextBlocks(note)...)
}
