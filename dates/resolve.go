// Package dates parses user-supplied analysis dates and resolves them to a
// trading day actually present in a price series.
package dates

import (
	"fmt"
	"time"

	"stockanalyze/market"
)

// layouts accepted for user date input, tried in order.
var layouts = []string{
	"2006-01-02",
	"2006.01.02",
	"2006/01/02",
	"20060102",
}

// MaxFallbackSteps bounds how many prior trading days Resolve will try
// before giving up on a requested date.
const MaxFallbackSteps = 5

// Resolved is the outcome of resolving a requested date against a series.
type Resolved struct {
	Requested time.Time   // the date the user asked for
	Actual    time.Time   // the trading date used, possibly earlier
	Steps     int         // trading-day fallback steps taken (0..MaxFallbackSteps)
	Attempts  []time.Time // dates tried and found missing, for diagnostics
}

// Parse converts a date string in any accepted layout to a UTC calendar date.
func Parse(s string) (time.Time, error) {
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return market.Day(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q (want YYYY-MM-DD, YYYY.MM.DD, YYYY/MM/DD or YYYYMMDD)",
		market.ErrInvalidDateFormat, s)
}

// IsDate reports whether s looks like a date in any accepted layout.
// The CLI uses it to tell date arguments apart from stock symbols.
func IsDate(s string) bool {
	_, err := Parse(s)
	return err == nil
}

// prevWeekday steps back one calendar day, then keeps stepping until the
// result is not a Saturday or Sunday.
func prevWeekday(t time.Time) time.Time {
	t = t.AddDate(0, 0, -1)
	for t.Weekday() == time.Saturday || t.Weekday() == time.Sunday {
		t = t.AddDate(0, 0, -1)
	}
	return t
}

// Resolve parses the requested date string and finds the trading day to
// analyze. If the series has no bar on the requested date it walks backward
// one trading day at a time (weekends skipped), at most MaxFallbackSteps
// attempts, never crossing into the previous calendar year. Falling back to
// a stale year would make trend readings silently misleading, so that case
// fails with ErrDateUnavailable instead.
func Resolve(series *market.Series, requested string) (Resolved, error) {
	d0, err := Parse(requested)
	if err != nil {
		return Resolved{}, err
	}

	r := Resolved{Requested: d0}
	if series.Has(d0) {
		r.Actual = d0
		return r, nil
	}

	d := d0
	for step := 1; step <= MaxFallbackSteps; step++ {
		d = prevWeekday(d)
		if d.Year() != d0.Year() {
			return Resolved{}, fmt.Errorf("%w: %s (fallback would cross into %d; tried %s)",
				market.ErrDateUnavailable, d0.Format(market.DateLayout), d.Year(), formatAttempts(r.Attempts))
		}
		if series.Has(d) {
			r.Actual = d
			r.Steps = step
			return r, nil
		}
		r.Attempts = append(r.Attempts, d)
	}

	return Resolved{}, fmt.Errorf("%w: %s (no data within %d trading days; tried %s)",
		market.ErrDateUnavailable, d0.Format(market.DateLayout), MaxFallbackSteps, formatAttempts(r.Attempts))
}

func formatAttempts(attempts []time.Time) string {
	if len(attempts) == 0 {
		return "none"
	}
	s := ""
	for i, a := range attempts {
		if i > 0 {
			s += ", "
		}
		s += a.Format(market.DateLayout)
	}
	return s
}
