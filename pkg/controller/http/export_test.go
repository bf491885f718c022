package http

import (
	"net/url"

	"github.com/secmon-lab/insights/pkg/domain/model"
)

// Test-only accessors for request parsing and error mapping
func ParseFilter(q url.Values) model.FilterSet {
	return parseFilter(q)
}

func ParseClick(q url.Values) *model.ClickContext {
	return parseClick(q)
}

func ErrorStatus(err error) int {
	return errorStatus(err)
}
