package slack

import "github.com/secmon-lab/insights/pkg/domain/model"

func ParseCommand(text string) (string, model.FilterSet, error) {
	cmd, err := parseCommand(text)
	if err != nil {
		return "", model.FilterSet{}, err
	}
	return cmd.name, cmd.filter, nil
}

var Tokenize = tokenize
