package analytics

import (
	"time"

	"github.com/Akhilesh2006s/gst-backend/internal/domain/ledger"
	"github.com/Akhilesh2006s/gst-backend/internal/domain/shared"
)

// Period is a named reporting window ending today
type Period string

const (
	Period7Days  Period = "7days"
	Period30Days Period = "30days"
	Period90Days Period = "90days"
	Period1Year  Period = "1year"
)

// DefaultPeriod is used when a request names no period
const DefaultPeriod = Period30Days

// periodDays is the closed lookup table for named periods
var periodDays = map[Period]int{
	Period7Days:  7,
	Period30Days: 30,
	Period90Days: 90,
	Period1Year:  365,
}

// IsValid checks if the period is a known named window
func (p Period) IsValid() bool {
	_, ok := periodDays[p]
	return ok
}

// Days returns the calendar-day length of the period
func (p Period) Days() int {
	return periodDays[p]
}

// String returns the string representation of Period
func (p Period) String() string {
	return string(p)
}

// AllPeriods lists every named period, shortest first
func AllPeriods() []Period {
	return []Period{Period7Days, Period30Days, Period90Days, Period1Year}
}

// ResolveWindow turns a named period plus optional explicit bounds into a
// concrete date range. Explicit bounds win over the named period; a single
// explicit bound borrows the other end from the period length. Days are
// truncated to UTC midnight and the window end is inclusive of "today".
func ResolveWindow(period Period, start, end *time.Time, now time.Time) (ledger.DateRange, error) {
	if period == "" {
		period = DefaultPeriod
	}
	if !period.IsValid() {
		return ledger.DateRange{}, shared.NewValidationError("Unknown period: " + period.String())
	}

	today := now.UTC().Truncate(24 * time.Hour)
	days := period.Days()

	var from, to time.Time
	switch {
	case start != nil && end != nil:
		from = start.UTC().Truncate(24 * time.Hour)
		to = end.UTC().Truncate(24 * time.Hour)
	case start != nil:
		from = start.UTC().Truncate(24 * time.Hour)
		to = from.AddDate(0, 0, days-1)
	case end != nil:
		to = end.UTC().Truncate(24 * time.Hour)
		from = to.AddDate(0, 0, -(days - 1))
	default:
		to = today
		from = to.AddDate(0, 0, -(days - 1))
	}

	if to.Before(from) {
		return ledger.DateRange{}, shared.NewValidationError("Window end precedes window start")
	}

	// Make the To bound cover the whole final day.
	to = to.Add(24*time.Hour - time.Nanosecond)
	return ledger.DateRange{From: from, To: to}, nil
}
