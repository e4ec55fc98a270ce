package market

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(s string) time.Time {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func bar(date string, close float64) Bar {
	return Bar{Date: day(date), Open: close, High: close, Low: close, Close: close, Volume: 1000}
}

func TestNormalize(t *testing.T) {
	b := Bar{
		Date:  time.Date(2024, 3, 1, 16, 0, 0, 0, time.FixedZone("EST", -5*3600)),
		Open:  100.12345678,
		High:  101.9999995,
		Low:   99.0000004,
		Close: 100.5,
	}
	n := b.Normalize()

	assert.Equal(t, day("2024-03-01"), n.Date)
	assert.Equal(t, 100.123457, n.Open)
	assert.Equal(t, 102.0, n.High)
	assert.Equal(t, 99.0, n.Low)
	assert.Equal(t, 100.5, n.Close)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		bar  Bar
		ok   bool
	}{
		{"valid", bar("2024-03-01", 100), true},
		{"zero date", Bar{Open: 1, High: 1, Low: 1, Close: 1}, false},
		{"zero close", Bar{Date: day("2024-03-01"), Open: 1, High: 1, Low: 1}, false},
		{"negative open", Bar{Date: day("2024-03-01"), Open: -1, High: 1, Low: 1, Close: 1}, false},
		{"negative volume", Bar{Date: day("2024-03-01"), Open: 1, High: 1, Low: 1, Close: 1, Volume: -5}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.bar.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrValidation)
			}
		})
	}
}

func TestSeriesLookup(t *testing.T) {
	s := NewSeries("AAPL", []Bar{
		bar("2024-03-05", 12),
		bar("2024-03-01", 10),
		bar("2024-03-04", 11),
	})

	// sorted on construction
	first, ok := s.First()
	require.True(t, ok)
	assert.Equal(t, day("2024-03-01"), first.Date)

	assert.True(t, s.Has(day("2024-03-04")))
	assert.False(t, s.Has(day("2024-03-02")))
	assert.Equal(t, 2, s.Index(day("2024-03-05")))
	assert.Equal(t, -1, s.Index(day("2024-03-06")))

	prefix := s.UpTo(day("2024-03-04"))
	require.Len(t, prefix, 2)
	assert.Equal(t, day("2024-03-04"), prefix[1].Date)

	assert.Nil(t, s.UpTo(day("2024-03-03")))
	assert.Len(t, s.Tail(2), 2)
	assert.Len(t, s.Tail(10), 3)
}

func TestMergeFreshBarsWin(t *testing.T) {
	existing := []Bar{bar("2024-03-01", 10), bar("2024-03-04", 11)}
	fetched := []Bar{bar("2024-03-04", 99), bar("2024-03-05", 12)}

	merged := Merge(existing, fetched)
	require.Len(t, merged, 3)
	assert.Equal(t, 10.0, merged[0].Close)
	assert.Equal(t, 99.0, merged[1].Close) // fetched overrides cached
	assert.Equal(t, 12.0, merged[2].Close)
}

func TestMergeIdempotent(t *testing.T) {
	existing := []Bar{bar("2024-03-01", 10), bar("2024-03-04", 11)}
	fetched := []Bar{bar("2024-03-04", 11.5), bar("2024-03-05", 12)}

	once := Merge(existing, fetched)
	twice := Merge(once, fetched)
	assert.Equal(t, once, twice)
}

func TestMergeDatesStrictlyIncreasing(t *testing.T) {
	existing := []Bar{bar("2024-03-05", 1), bar("2024-03-01", 2), bar("2024-03-03", 3)}
	fetched := []Bar{bar("2024-03-03", 4), bar("2024-03-02", 5), bar("2024-03-02", 6)}

	merged := Merge(existing, fetched)
	for i := 1; i < len(merged); i++ {
		assert.True(t, merged[i-1].Date.Before(merged[i].Date),
			"dates must be strictly increasing: %v then %v", merged[i-1].Date, merged[i].Date)
	}
}
