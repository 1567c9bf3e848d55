// Package dateutils parses the many date spellings found in statement exports.
package dateutils

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// Common date format constants used throughout the application
const (
	DateLayoutISO       = "2006-01-02"
	DateLayoutFull      = "2006-01-02 15:04:05"
	DateLayoutUS        = "1/2/2006"
	DateLayoutEuropean  = "2/1/2006"
	DateLayoutDotted    = "2.1.2006"
	DateLayoutWithMonth = "2-Jan-2006"
)

// LayoutFallback names dates that matched no fixed layout and were resolved
// by the free-form parser.
const LayoutFallback = "free-form"

// CommonFormats is the ordered list of layouts tried before the free-form
// parser. Ambiguous numeric dates resolve month-first: a US layout always
// precedes its day-first twin, which only wins when the month is impossible.
var CommonFormats = []string{
	DateLayoutISO,
	DateLayoutFull,
	"2006-01-02T15:04:05",
	time.RFC3339,
	DateLayoutUS,
	DateLayoutEuropean,
	"1/2/2006 15:04",
	"1/2/2006 15:04:05",
	"1-2-2006",
	"2-1-2006",
	"1/2/06",
	"2/1/06",
	"1-2-06",
	"2-1-06",
	DateLayoutDotted,
	DateLayoutWithMonth,
	"2-Jan-06",
	"2 Jan 2006",
	"2006/01/02",
	"Jan 2, 2006",
	"January 2, 2006",
	"2 January 2006",
}

var spaces = regexp.MustCompile(`\s+`)

// ParseDate parses dateStr and returns the time and the layout that matched.
func ParseDate(dateStr string) (time.Time, string, error) {
	dateStr = CleanDateString(dateStr)
	if dateStr == "" {
		return time.Time{}, "", fmt.Errorf("empty date")
	}

	for _, layout := range CommonFormats {
		if t, err := time.Parse(layout, dateStr); err == nil {
			return t, layout, nil
		}
	}

	t, err := dateparse.ParseAny(dateStr)
	if err != nil {
		return time.Time{}, "", fmt.Errorf("unable to parse date: %s", dateStr)
	}
	return t, LayoutFallback, nil
}

// ParseCalendarDate parses dateStr and drops the time of day.
func ParseCalendarDate(dateStr string) (time.Time, error) {
	t, _, err := ParseDate(dateStr)
	if err != nil {
		return time.Time{}, err
	}
	return TruncateToDate(t), nil
}

// TruncateToDate returns midnight UTC of t's calendar date.
func TruncateToDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ToISODate formats a time.Time value as an ISO date (YYYY-MM-DD)
func ToISODate(date time.Time) string {
	return date.Format(DateLayoutISO)
}

// CleanDateString trims and collapses internal whitespace.
func CleanDateString(dateStr string) string {
	return spaces.ReplaceAllString(strings.TrimSpace(dateStr), " ")
}
