package types

// Field is a dataset column name. Names are exact-match contract surfaces of the input file.
type Field string

const (
	FieldSource     Field = "Source"
	FieldCategory   Field = "Category"
	FieldSeverity   Field = "Severity"
	FieldStatus     Field = "Status"
	FieldTeam       Field = "Assigned_Team"
	FieldRepo       Field = "Repo/Account"
	FieldOpenedAt   Field = "Opened_At"
	FieldMTTRHours  Field = "MTTR_Hours"
	FieldWeekNumber Field = "Week_Number"
	FieldToolURL    Field = "tool_url"

	// FieldCount is the y-axis sentinel meaning "frequency of x"
	FieldCount Field = "count"
)

// RequiredFields returns the columns every dataset must carry
func RequiredFields() []Field {
	return []Field{
		FieldSource,
		FieldCategory,
		FieldSeverity,
		FieldStatus,
		FieldTeam,
		FieldRepo,
		FieldOpenedAt,
		FieldMTTRHours,
	}
}

// ChartableFields returns the columns offered to the chart builder
func ChartableFields() []Field {
	return []Field{
		FieldSource,
		FieldCategory,
		FieldSeverity,
		FieldStatus,
		FieldTeam,
		FieldRepo,
		FieldOpenedAt,
		FieldMTTRHours,
		FieldWeekNumber,
	}
}

// String returns the string representation
func (f Field) String() string {
	return string(f)
}

// IsValid reports whether the field names a chartable column
func (f Field) IsValid() bool {
	for _, c := range ChartableFields() {
		if c == f {
			return true
		}
	}
	return false
}

// Numeric reports whether values of the field are numbers
func (f Field) Numeric() bool {
	return f == FieldMTTRHours || f == FieldWeekNumber
}

// ParseColorField normalizes an optional color field. "None", "none" and
// empty mean no color split.
func ParseColorField(s string) (Field, bool) {
	switch s {
	case "", "None", "none":
		return "", true
	}
	f := Field(s)
	return f, f.IsValid()
}
