package types

// Severity is the urgency of a finding. Only the four canonical values are
// recognized; any other value read from a dataset is kept verbatim so that it
// still shows up in counts, and is reported as a data quality warning.
type Severity string

const (
	SeverityCritical Severity = "Critical"
	SeverityHigh     Severity = "High"
	SeverityMedium   Severity = "Medium"
	SeverityLow      Severity = "Low"
)

var canonicalSeverities = []Severity{
	SeverityCritical,
	SeverityHigh,
	SeverityMedium,
	SeverityLow,
}

// CanonicalSeverities returns the recognized severities in descending urgency.
// A fresh slice is returned on every call.
func CanonicalSeverities() []Severity {
	out := make([]Severity, len(canonicalSeverities))
	copy(out, canonicalSeverities)
	return out
}

// ParseSeverity returns the severity and whether it is one of the canonical values
func ParseSeverity(s string) (Severity, bool) {
	sev := Severity(s)
	return sev, sev.IsValid()
}

// String returns the string representation
func (s Severity) String() string {
	return string(s)
}

// IsValid checks if the severity is one of the canonical values
func (s Severity) IsValid() bool {
	switch s {
	case SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow:
		return true
	default:
		return false
	}
}

// Rank returns the position of the severity in canonical order (Critical=0).
// Unrecognized values rank after Low.
func (s Severity) Rank() int {
	for i, sev := range canonicalSeverities {
		if sev == s {
			return i
		}
	}
	return len(canonicalSeverities)
}

// Weight returns the risk weight of an open finding of this severity
func (s Severity) Weight() float64 {
	switch s {
	case SeverityCritical:
		return 5
	case SeverityHigh:
		return 3
	case SeverityMedium:
		return 2
	case SeverityLow:
		return 1
	default:
		return 0
	}
}

// LessSeverity orders severities canonically, breaking ties between
// unrecognized values lexically
func LessSeverity(a, b Severity) bool {
	ra, rb := a.Rank(), b.Rank()
	if ra != rb {
		return ra < rb
	}
	return a < b
}
