package slack

import (
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/insights/pkg/domain/model"
)

// Subcommands of the slash command
const (
	subSummary  = "summary"
	subWarnings = "warnings"
	subHelp     = "help"
)

const usage = "Usage: `/insights [summary] [source=X] [severity=Critical,High] [status=\"In Progress\"] [team=X] [repo=X]`, " +
	"`/insights warnings` or `/insights help`"

// command is a parsed slash command text
type command struct {
	name   string
	filter model.FilterSet
}

// parseCommand reads "[subcommand] key=value ..." where a value may be a
// comma separated list and may be double quoted to keep spaces
func parseCommand(text string) (*command, error) {
	tokens := tokenize(text)
	cmd := &command{name: subSummary}

	if len(tokens) > 0 && !strings.Contains(tokens[0], "=") {
		cmd.name = strings.ToLower(tokens[0])
		tokens = tokens[1:]
	}
	switch cmd.name {
	case subSummary, subWarnings, subHelp:
	default:
		return nil, goerr.New("unknown subcommand", goerr.V("subcommand", cmd.name))
	}

	for _, token := range tokens {
		key, value, ok := strings.Cut(token, "=")
		if !ok || value == "" {
			return nil, goerr.New("filter must be key=value", goerr.V("token", token))
		}
		values := strings.Split(value, ",")
		switch strings.ToLower(key) {
		case "source":
			cmd.filter.Sources = append(cmd.filter.Sources, values...)
		case "severity":
			cmd.filter.Severities = append(cmd.filter.Severities, values...)
		case "status":
			cmd.filter.Statuses = append(cmd.filter.Statuses, values...)
		case "team":
			cmd.filter.Teams = append(cmd.filter.Teams, values...)
		case "repo":
			cmd.filter.Repos = append(cmd.filter.Repos, values...)
		default:
			return nil, goerr.New("unknown filter", goerr.V("key", key))
		}
	}

	return cmd, nil
}

// tokenize splits on whitespace outside double quotes and drops the quotes
func tokenize(text string) []string {
	var (
		tokens  []string
		current strings.Builder
		quoted  bool
	)
	flush := func() {
		if current.Len() > 0 {
			tokens = append(tokens, current.String())
			current.Reset()
		}
	}

	for _, r := range text {
		switch {
		case r == '"' || r == '“' || r == '”':
			quoted = !quoted
		case !quoted && (r == ' ' || r == '\t' || r == '\n'):
			flush()
		default:
			current.WriteRune(r)
		}
	}
	flush()
	return tokens
}
