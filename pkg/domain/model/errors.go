package model

import "github.com/m-mizutani/goerr/v2"

// Error tags. A DataLoadError is any error tagged with ErrTagNotFound or ErrTagParse.
var (
	ErrTagNotFound      = goerr.NewTag("not_found")
	ErrTagParse         = goerr.NewTag("parse_error")
	ErrTagMissingColumn = goerr.NewTag("missing_column")
	ErrTagInvalidField  = goerr.NewTag("invalid_field")
	ErrTagUnknownChart  = goerr.NewTag("unknown_chart")
	ErrTagInvalidConfig = goerr.NewTag("invalid_config")
)

// IsDataLoadError reports whether err is a fatal dataset load failure
func IsDataLoadError(err error) bool {
	return goerr.HasTag(err, ErrTagNotFound) || goerr.HasTag(err, ErrTagParse)
}
