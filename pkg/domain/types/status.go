package types

// Status represents the lifecycle state of a finding
type Status string

const (
	StatusOpen       Status = "Open"
	StatusInProgress Status = "In Progress"
	StatusClosed     Status = "Closed"
)

// String returns the string representation of the status
func (s Status) String() string {
	return string(s)
}

// IsValid checks if the status is valid
func (s Status) IsValid() bool {
	switch s {
	case StatusOpen, StatusInProgress, StatusClosed:
		return true
	default:
		return false
	}
}

// IsOpen reports whether the finding still counts as workload.
// In Progress is treated as open.
func (s Status) IsOpen() bool {
	return s == StatusOpen || s == StatusInProgress
}

// StatusOrder returns statuses in logical order
func StatusOrder() []Status {
	return []Status{StatusOpen, StatusInProgress, StatusClosed}
}
