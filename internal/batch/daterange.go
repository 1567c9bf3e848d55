package batch

import (
	"fmt"
	"time"

	"fjacquet/stmt-categorizer/internal/models"
)

// DateRange represents a date range with start and end dates
type DateRange struct {
	Start time.Time
	End   time.Time
}

// String returns the date range in the format "YYYY-MM-DD_YYYY-MM-DD"
func (dr DateRange) String() string {
	if dr.Start.IsZero() || dr.End.IsZero() {
		return ""
	}
	return fmt.Sprintf("%s_%s", dr.Start.Format("2006-01-02"), dr.End.Format("2006-01-02"))
}

// Merge combines this date range with another, returning the overall range
func (dr DateRange) Merge(other DateRange) DateRange {
	out := dr
	if out.Start.IsZero() || (!other.Start.IsZero() && other.Start.Before(out.Start)) {
		out.Start = other.Start
	}
	if out.End.IsZero() || (!other.End.IsZero() && other.End.After(out.End)) {
		out.End = other.End
	}
	return out
}

// DateRangeOf returns the earliest and latest transaction dates.
func DateRangeOf(transactions []models.Transaction) DateRange {
	var dr DateRange
	for _, tx := range transactions {
		dr = dr.Merge(DateRange{Start: tx.Date, End: tx.Date})
	}
	return dr
}

// CountDuplicates counts transactions sharing date, amount and folded
// description with an earlier one. Duplicates are reported, never removed.
func CountDuplicates(transactions []models.Transaction) int {
	seen := make(map[string]bool, len(transactions))
	count := 0
	for _, tx := range transactions {
		key := fmt.Sprintf("%s|%s|%s",
			tx.Date.Format("2006-01-02"), tx.Amount.String(), models.FoldDescription(tx.Description))
		if seen[key] {
			count++
			continue
		}
		seen[key] = true
	}
	return count
}
