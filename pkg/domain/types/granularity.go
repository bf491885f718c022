package types

import "time"

// Granularity is the width of a time bucket
type Granularity string

const (
	GranularityDay   Granularity = "day"
	GranularityWeek  Granularity = "week"
	GranularityMonth Granularity = "month"
)

// ParseGranularity accepts day/week/month and the short forms D/W/M
func ParseGranularity(s string) (Granularity, bool) {
	switch s {
	case "day", "D", "d":
		return GranularityDay, true
	case "week", "W", "w":
		return GranularityWeek, true
	case "month", "M", "m":
		return GranularityMonth, true
	default:
		return "", false
	}
}

// String returns the string representation
func (g Granularity) String() string {
	return string(g)
}

// IsValid checks if the granularity is valid
func (g Granularity) IsValid() bool {
	_, ok := ParseGranularity(string(g))
	return ok
}

// Truncate returns the start of the bucket containing t, in UTC.
// Weeks start on Monday so that buckets line up with ISO week numbers.
func (g Granularity) Truncate(t time.Time) time.Time {
	t = t.UTC()
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)

	switch g {
	case GranularityMonth:
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	case GranularityWeek:
		weekday := int(day.Weekday())
		// Sunday is the last day of an ISO week
		if weekday == 0 {
			weekday = 7
		}
		return day.AddDate(0, 0, -(weekday - 1))
	default:
		return day
	}
}

// Label formats a bucket start for display
func (g Granularity) Label(bucket time.Time) string {
	if g == GranularityMonth {
		return bucket.Format("2006-01")
	}
	return bucket.Format("2006-01-02")
}
