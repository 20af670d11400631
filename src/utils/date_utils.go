package utils

import (
	"log"
	"time"
)

const DateOnlyFormat = "2006-01-02"

// ParseTimestamp parses an ISO 8601 timestamp, accepting both the full
// RFC3339 form used on-chain and the date-only form used in exchange
// exports. Logs and returns zero time if parsing fails.
func ParseTimestamp(ts string) time.Time {
	if t, err := time.Parse(time.RFC3339, ts); err == nil {
		return t
	}
	t, err := time.Parse(DateOnlyFormat, ts)
	if err != nil {
		log.Printf("Error parsing timestamp '%s': %v. Returning zero time.", ts, err)
		return time.Time{}
	}
	return t
}

// IsTimestampInYear reports whether ts falls within the given calendar
// year (UTC).
func IsTimestampInYear(ts string, year int) bool {
	t := ParseTimestamp(ts)
	if t.IsZero() {
		return false
	}
	start := time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(year+1, 1, 1, 0, 0, 0, 0, time.UTC)
	return !t.Before(start) && t.Before(end)
}

// DaysBetween returns whole calendar days from a to b, both ISO 8601
// timestamps, ignoring the time-of-day portion.
func DaysBetween(a, b string) int {
	ta := ParseTimestamp(a)
	tb := ParseTimestamp(b)
	da := time.Date(ta.Year(), ta.Month(), ta.Day(), 0, 0, 0, 0, time.UTC)
	db := time.Date(tb.Year(), tb.Month(), tb.Day(), 0, 0, 0, 0, time.UTC)
	return int(db.Sub(da).Hours() / 24)
}

// YearRange is one tax year's date window: Start inclusive, End
// exclusive.
type YearRange struct {
	Year  int
	Start string
	End   string
}

// CalculateYearDateRanges builds the per-year windows from startYear
// through endYear inclusive.
func CalculateYearDateRanges(startYear, endYear int) []YearRange {
	var ranges []YearRange
	for year := startYear; year <= endYear; year++ {
		ranges = append(ranges, YearRange{
			Year:  year,
			Start: time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC).Format(DateOnlyFormat),
			End:   time.Date(year+1, 1, 1, 0, 0, 0, 0, time.UTC).Format(DateOnlyFormat),
		})
	}
	return ranges
}
