package market

import (
	"sort"
	"time"
)

// Series is the ordered daily price history for one symbol. Dates are
// strictly increasing and unique; the store is the only mutator.
type Series struct {
	Symbol string
	Bars   []Bar
}

// NewSeries builds a series from bars, sorting ascending by date. It does
// not deduplicate; use Merge for that.
func NewSeries(symbol string, bars []Bar) *Series {
	s := &Series{Symbol: symbol, Bars: bars}
	sort.Slice(s.Bars, func(i, j int) bool { return s.Bars[i].Date.Before(s.Bars[j].Date) })
	return s
}

func (s *Series) Len() int { return len(s.Bars) }

// First returns the earliest bar; ok is false for an empty series.
func (s *Series) First() (Bar, bool) {
	if len(s.Bars) == 0 {
		return Bar{}, false
	}
	return s.Bars[0], true
}

// Last returns the most recent bar; ok is false for an empty series.
func (s *Series) Last() (Bar, bool) {
	if len(s.Bars) == 0 {
		return Bar{}, false
	}
	return s.Bars[len(s.Bars)-1], true
}

// Index returns the position of the bar on the given calendar date,
// or -1 when the series has no bar for it.
func (s *Series) Index(date time.Time) int {
	d := Day(date)
	i := sort.Search(len(s.Bars), func(i int) bool { return !s.Bars[i].Date.Before(d) })
	if i < len(s.Bars) && s.Bars[i].Date.Equal(d) {
		return i
	}
	return -1
}

// Has reports whether the series contains a bar for the given date.
func (s *Series) Has(date time.Time) bool { return s.Index(date) >= 0 }

// UpTo returns the prefix of bars ending at the given date inclusive.
// The returned slice shares backing storage and must be treated read-only.
func (s *Series) UpTo(date time.Time) []Bar {
	i := s.Index(date)
	if i < 0 {
		return nil
	}
	return s.Bars[:i+1]
}

// Tail returns up to the last n bars, read-only.
func (s *Series) Tail(n int) []Bar {
	if n >= len(s.Bars) {
		return s.Bars
	}
	return s.Bars[len(s.Bars)-n:]
}

// Closes extracts the close prices of the given bars.
func Closes(bars []Bar) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = b.Close
	}
	return out
}

// Merge unions existing and fetched bars by date. On a date collision the
// fetched bar wins; bars outside the fetched range are retained untouched.
// The result is sorted ascending and is the same regardless of how many
// times the same fetched set is applied.
func Merge(existing, fetched []Bar) []Bar {
	byDate := make(map[time.Time]Bar, len(existing)+len(fetched))
	for _, b := range existing {
		byDate[Day(b.Date)] = b
	}
	for _, b := range fetched {
		byDate[Day(b.Date)] = b
	}
	out := make([]Bar, 0, len(byDate))
	for _, b := range byDate {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}
