package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockanalyze/market"
)

func testBars(n int) []market.Bar {
	start := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	bars := make([]market.Bar, n)
	for i := range bars {
		c := 100.0 + float64(i)
		bars[i] = market.Bar{
			Date:   start.AddDate(0, 0, i),
			Open:   c - 0.25,
			High:   c + 0.5,
			Low:    c - 0.5,
			Close:  c,
			Volume: int64(1000 + i),
		}
	}
	return bars
}

func TestCSVStoreRoundTrip(t *testing.T) {
	t.Parallel()

	s, err := NewCSV(t.TempDir())
	require.NoError(t, err)

	ctx := context.Background()
	want := testBars(5)
	require.NoError(t, s.Save(ctx, "AAPL", want))

	got, err := s.Load(ctx, "AAPL")
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestCSVStoreMissingSymbol(t *testing.T) {
	t.Parallel()

	s, err := NewCSV(t.TempDir())
	require.NoError(t, err)

	got, err := s.Load(context.Background(), "NOPE")
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestCSVStoreSymbolsAndDelete(t *testing.T) {
	t.Parallel()

	s, err := NewCSV(t.TempDir())
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, s.Save(ctx, "MSFT", testBars(2)))
	require.NoError(t, s.Save(ctx, "AAPL", testBars(2)))

	symbols, err := s.Symbols(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"AAPL", "MSFT"}, symbols)

	require.NoError(t, s.Delete(ctx, "AAPL"))
	require.NoError(t, s.Delete(ctx, "AAPL")) // deleting twice is fine

	symbols, err = s.Symbols(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"MSFT"}, symbols)
}

func TestCSVStoreOverwrite(t *testing.T) {
	t.Parallel()

	s, err := NewCSV(t.TempDir())
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, s.Save(ctx, "AAPL", testBars(5)))
	want := testBars(2)
	require.NoError(t, s.Save(ctx, "AAPL", want))

	got, err := s.Load(ctx, "AAPL")
	require.NoError(t, err)
	assert.Equal(t, want, got)
}
