package history

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrUnknownPeriod is returned by ParsePeriod for unrecognised input.
var ErrUnknownPeriod = errors.New("unknown period")

// Period selects a time window relative to now.
type Period string

// Supported periods.
const (
	PeriodAll   Period = "all"
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
	PeriodYear  Period = "year"
)

const (
	weekWindow  = 7 * 24 * time.Hour
	monthWindow = 30 * 24 * time.Hour
)

// Periods lists the periods in display order.
func Periods() []Period {
	return []Period{PeriodAll, PeriodWeek, PeriodMonth, PeriodYear}
}

// ParsePeriod parses a period name. Empty input means PeriodAll.
func ParsePeriod(s string) (Period, error) {
	switch p := Period(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return PeriodAll, nil
	case PeriodAll, PeriodWeek, PeriodMonth, PeriodYear:
		return p, nil
	default:
		return "", fmt.Errorf("%w %q (expected all, week, month or year)", ErrUnknownPeriod, s)
	}
}

// Label returns the display label of p.
func (p Period) Label() string {
	switch p {
	case PeriodWeek:
		return "Last 7 days"
	case PeriodMonth:
		return "Last 30 days"
	case PeriodYear:
		return "This year"
	default:
		return "All time"
	}
}

// Filter returns the entries inside period relative to now, in their
// original order. The input slice is never modified.
//
// Week and month are fixed windows (7 and 30 days, inclusive) measured
// from now. Year is calendar aligned: an entry from Dec 31 is not in the
// year of a Jan 1 now, however close the two instants are.
func Filter(entries []Entry, period Period, now time.Time) []Entry {
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if inPeriod(e.Date, period, now) {
			out = append(out, e)
		}
	}
	return out
}

func inPeriod(date time.Time, period Period, now time.Time) bool {
	switch period {
	case PeriodWeek:
		return now.Sub(date) <= weekWindow
	case PeriodMonth:
		return now.Sub(date) <= monthWindow
	case PeriodYear:
		return date.In(now.Location()).Year() == now.Year()
	default:
		return true
	}
}
