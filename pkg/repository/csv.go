package repository

import (
	"context"
	"encoding/csv"
	"errors"
	"io"
	"net/url"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/insights/pkg/domain/interfaces"
	"github.com/secmon-lab/insights/pkg/domain/model"
	"github.com/secmon-lab/insights/pkg/domain/types"
)

// Layouts accepted for Opened_At. Values without a zone are read as UTC.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// CSV loads findings from a comma separated file with a header row
type CSV struct {
	now func() time.Time
}

// CSVOption configures the CSV loader
type CSVOption func(*CSV)

// WithClock replaces the clock used for Table.LoadedAt
func WithClock(now func() time.Time) CSVOption {
	return func(c *CSV) {
		c.now = now
	}
}

// NewCSV creates a new CSV loader
func NewCSV(opts ...CSVOption) *CSV {
	c := &CSV{now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var _ interfaces.Loader = (*CSV)(nil)

// Load reads and validates the dataset at path. Parse failures of required
// columns abort the load; data quality issues are collected as warnings.
func (c *CSV) Load(ctx context.Context, path string) (*model.Table, error) {
	logger := ctxlog.From(ctx)
	logger.Debug("loading dataset", "source", path)

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, goerr.Wrap(err, "dataset not found",
				goerr.V("source", path),
				goerr.T(model.ErrTagNotFound))
		}
		return nil, goerr.Wrap(err, "failed to open dataset",
			goerr.V("source", path),
			goerr.T(model.ErrTagNotFound))
	}
	defer f.Close()

	table, err := c.parse(f, path)
	if err != nil {
		return nil, err
	}

	for _, w := range table.Warnings {
		logger.Warn("data quality issue", "source", path, "warning", w, "message", w.Message())
	}
	logger.Info("dataset loaded",
		"source", path,
		"rows", table.Len(),
		"warnings", len(table.Warnings))

	return table, nil
}

type columnIndex map[types.Field]int

func (idx columnIndex) get(record []string, field types.Field) string {
	i, ok := idx[field]
	if !ok || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

func (c *CSV) parse(r io.Reader, source string) (*model.Table, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, goerr.New("dataset is empty",
				goerr.V("source", source),
				goerr.T(model.ErrTagParse))
		}
		return nil, goerr.Wrap(err, "failed to read header",
			goerr.V("source", source),
			goerr.T(model.ErrTagParse))
	}

	idx := make(columnIndex, len(header))
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		idx[types.Field(name)] = i
	}
	for _, field := range types.RequiredFields() {
		if _, ok := idx[field]; !ok {
			return nil, goerr.New("required column is missing",
				goerr.V("source", source),
				goerr.V("column", field),
				goerr.T(model.ErrTagMissingColumn),
				goerr.T(model.ErrTagParse))
		}
	}

	table := &model.Table{
		Source:   source,
		LoadedAt: c.now().UTC(),
	}
	v := newValidator()

	for row := 1; ; row++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "malformed record",
				goerr.V("source", source),
				goerr.V("row", row),
				goerr.T(model.ErrTagParse))
		}

		finding, err := parseFinding(idx, record, row)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to parse record",
				goerr.V("source", source),
				goerr.T(model.ErrTagParse))
		}

		rawURL := idx.get(record, types.FieldToolURL)
		finding.ToolURL = normalizeToolURL(rawURL)
		if rawURL != "" && finding.ToolURL == "" {
			v.add(model.WarningInvalidToolURL, types.FieldToolURL, rawURL, row)
		}

		v.check(finding)
		table.Findings = append(table.Findings, finding)
	}

	table.Warnings = v.warnings()
	return table, nil
}

func parseFinding(idx columnIndex, record []string, row int) (*model.Finding, error) {
	openedAt, err := parseTimestamp(idx.get(record, types.FieldOpenedAt))
	if err != nil {
		return nil, goerr.Wrap(err, "invalid timestamp",
			goerr.V("row", row),
			goerr.V("column", types.FieldOpenedAt),
			goerr.V("value", idx.get(record, types.FieldOpenedAt)))
	}

	mttrRaw := idx.get(record, types.FieldMTTRHours)
	mttr, err := strconv.ParseFloat(mttrRaw, 64)
	if err != nil {
		return nil, goerr.Wrap(err, "invalid number",
			goerr.V("row", row),
			goerr.V("column", types.FieldMTTRHours),
			goerr.V("value", mttrRaw))
	}

	_, week := openedAt.ISOWeek()
	return &model.Finding{
		Row:        row,
		Source:     idx.get(record, types.FieldSource),
		Category:   idx.get(record, types.FieldCategory),
		Severity:   types.Severity(idx.get(record, types.FieldSeverity)),
		Status:     types.Status(idx.get(record, types.FieldStatus)),
		Team:       idx.get(record, types.FieldTeam),
		Repo:       idx.get(record, types.FieldRepo),
		OpenedAt:   openedAt,
		MTTRHours:  mttr,
		WeekNumber: week,
	}, nil
}

func parseTimestamp(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, goerr.New("timestamp is empty")
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, goerr.New("unsupported timestamp format", goerr.V("layouts", timestampLayouts))
}

// normalizeToolURL returns the trimmed URL when it is an absolute http(s) URL, otherwise empty
func normalizeToolURL(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	u, err := url.Parse(s)
	if err != nil || u.Host == "" {
		return ""
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return ""
	}
	return s
}

type warningKey struct {
	kind  model.WarningKind
	field types.Field
}

// validator accumulates data quality warnings in first-seen order
type validator struct {
	order   []warningKey
	entries map[warningKey]*model.DataQualityWarning
	values  map[warningKey]map[string]struct{}
}

func newValidator() *validator {
	return &validator{
		entries: make(map[warningKey]*model.DataQualityWarning),
		values:  make(map[warningKey]map[string]struct{}),
	}
}

func (v *validator) add(kind model.WarningKind, field types.Field, value string, row int) {
	key := warningKey{kind: kind, field: field}
	w, ok := v.entries[key]
	if !ok {
		w = &model.DataQualityWarning{Kind: kind, Field: field.String()}
		v.entries[key] = w
		v.values[key] = make(map[string]struct{})
		v.order = append(v.order, key)
	}
	w.Count++
	w.Rows = append(w.Rows, row)
	if value != "" {
		v.values[key][value] = struct{}{}
	}
}

func (v *validator) check(f *model.Finding) {
	for _, field := range []types.Field{types.FieldSource, types.FieldSeverity, types.FieldStatus} {
		if f.Value(field) == "" {
			v.add(model.WarningNullField, field, "", f.Row)
		}
	}
	if f.Severity != "" && !f.Severity.IsValid() {
		v.add(model.WarningUnrecognizedSeverity, types.FieldSeverity, f.Severity.String(), f.Row)
	}
	if f.Status != "" && !f.Status.IsValid() {
		v.add(model.WarningUnrecognizedStatus, types.FieldStatus, f.Status.String(), f.Row)
	}
	if f.MTTRHours < 0 {
		v.add(model.WarningNegativeMTTR, types.FieldMTTRHours, "", f.Row)
	}
}

func (v *validator) warnings() []model.DataQualityWarning {
	if len(v.order) == 0 {
		return nil
	}
	out := make([]model.DataQualityWarning, 0, len(v.order))
	for _, key := range v.order {
		w := *v.entries[key]
		for value := range v.values[key] {
			w.Values = append(w.Values, value)
		}
		sort.Strings(w.Values)
		out = append(out, w)
	}
	return out
}
