package types

import (
	"fmt"
	"strconv"

	"github.com/google/uuid"
)

// SessionID identifies one dashboard session (browser tab) holding its own chart registry
type SessionID string

// String returns the string representation
func (id SessionID) String() string {
	return string(id)
}

// NewSessionID creates a new SessionID
func NewSessionID() SessionID {
	return SessionID(uuid.New().String())
}

// ParseSessionID validates a session identifier received from a client
func ParseSessionID(s string) (SessionID, bool) {
	if _, err := uuid.Parse(s); err != nil {
		return "", false
	}
	return SessionID(s), true
}

// ChartID represents a custom chart identifier. IDs are positive and never reused within a registry.
type ChartID int

// String returns the string representation
func (id ChartID) String() string {
	return fmt.Sprintf("%d", id)
}

// Int returns the int representation
func (id ChartID) Int() int {
	return int(id)
}

// ParseChartID parses a decimal chart identifier
func ParseChartID(s string) (ChartID, bool) {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, false
	}
	return ChartID(n), true
}
