package indicators

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockanalyze/market"
)

func TestKDJSeedFifty(t *testing.T) {
	bars := barsFromCloses(100)
	k, d, j, err := KDJSeries(bars, 9, 3, 3)
	require.NoError(t, err)
	assert.Equal(t, 50.0, k[0])
	assert.Equal(t, 50.0, d[0])
	assert.Equal(t, 50.0, j[0])
}

func TestKDJFlatWindowRSVFifty(t *testing.T) {
	// All highs, lows and closes identical: the 9-day range is zero and RSV
	// defaults to 50, so K, D and J stay pinned at 50.
	bars := make([]market.Bar, 12)
	for i := range bars {
		bars[i] = market.Bar{
			Date: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, i),
			Open: 100, High: 100, Low: 100, Close: 100, Volume: 10,
		}
	}
	k, d, j, err := KDJSeries(bars, 9, 3, 3)
	require.NoError(t, err)
	for i := range bars {
		assert.InDelta(t, 50.0, k[i], 1e-9)
		assert.InDelta(t, 50.0, d[i], 1e-9)
		assert.InDelta(t, 50.0, j[i], 1e-9)
	}
}

func TestKDJSmoothing(t *testing.T) {
	bars := []market.Bar{
		{Date: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), Open: 9.5, High: 10, Low: 9, Close: 9.5},
		{Date: time.Date(2024, 2, 2, 0, 0, 0, 0, time.UTC), Open: 10, High: 11, Low: 10, Close: 11},
	}
	// Second bar: window low 9, high 11, close 11 => RSV = 100.
	// K = 50*2/3 + 100/3 = 66.667, D = 50*2/3 + 66.667/3 = 55.556,
	// J = 3K - 2D = 88.889.
	k, d, j, err := KDJSeries(bars, 9, 3, 3)
	require.NoError(t, err)
	assert.InDelta(t, 66.6667, k[1], 0.001)
	assert.InDelta(t, 55.5556, d[1], 0.001)
	assert.InDelta(t, 88.8889, j[1], 0.001)
}

func TestAnalyzeKDJStatus(t *testing.T) {
	// A long rally pins RSV at 100 and drives J above 90.
	bars := barsFromCloses(rising(30, 100, 2)...)
	r, err := AnalyzeKDJ(bars)
	require.NoError(t, err)
	assert.Equal(t, KDJSevereOverbought, r.Status)
	assert.Greater(t, r.J, 90.0)

	// And a long slide is the mirror image.
	bars = barsFromCloses(rising(30, 200, -2)...)
	r, err = AnalyzeKDJ(bars)
	require.NoError(t, err)
	assert.Equal(t, KDJSevereOversold, r.Status)
	assert.Less(t, r.J, 10.0)
}

func TestKDJEmptySeries(t *testing.T) {
	_, _, _, err := KDJSeries(nil, 9, 3, 3)
	assert.Error(t, err)
}
