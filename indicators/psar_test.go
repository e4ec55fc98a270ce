package indicators

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockanalyze/market"
)

// ohlc builds bars from (high, low, close) rows with consecutive dates.
func ohlc(rows ...[3]float64) []market.Bar {
	start := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]market.Bar, len(rows))
	for i, r := range rows {
		bars[i] = market.Bar{
			Date:  start.AddDate(0, 0, i),
			Open:  r[2],
			High:  r[0],
			Low:   r[1],
			Close: r[2],
		}
	}
	return bars
}

func TestPSARNeedsThreeBars(t *testing.T) {
	_, _, err := PSARSeries(barsFromCloses(100, 101), DefaultPSARStart, DefaultPSARStep, DefaultPSARMax)
	assert.Error(t, err)
}

func TestPSARHandComputed(t *testing.T) {
	bars := ohlc(
		[3]float64{10, 9, 9.5},
		[3]float64{10.5, 9.5, 10},
		[3]float64{11, 10, 10.5},
		[3]float64{11.5, 10.5, 11},
	)
	sar, up, err := PSARSeries(bars, 0.02, 0.02, 0.20)
	require.NoError(t, err)

	// i=2: SAR advances toward hp=10, then gets clamped to the lows of the
	// two prior bars (9.5, then 9). The new high 11 bumps af to 0.04.
	assert.InDelta(t, 9.0, sar[2], 1e-9)
	assert.True(t, up[2])

	// i=3: 9 + 0.04*(11-9) = 9.08, no clamp applies.
	assert.InDelta(t, 9.08, sar[3], 1e-9)
	assert.True(t, up[3])
}

func TestPSARFlipOnCrash(t *testing.T) {
	bars := ohlc(
		[3]float64{10, 9, 9.5},
		[3]float64{10.5, 9.5, 10},
		[3]float64{11, 10, 10.5},
		[3]float64{11.5, 10.5, 11},
		[3]float64{8, 7, 7.5},
	)
	r, err := AnalyzePSAR(bars)
	require.NoError(t, err)

	// The crash low pierces the rising SAR: flip to a downtrend with the
	// SAR reset to the prior extreme high.
	assert.False(t, r.Uptrend)
	assert.True(t, r.Reversed)
	assert.InDelta(t, 11.5, r.SAR, 1e-9)
	assert.Equal(t, 1, r.TrendAge)
	assert.Equal(t, TrendWeak, r.Strength) // one-bar trend, no move yet
	assert.InDelta(t, 4.0/7.5*100, r.Distance, 1e-9)
}

func TestPSARSteadyUptrend(t *testing.T) {
	r, err := AnalyzePSAR(barsFromCloses(rising(10, 100, 1)...))
	require.NoError(t, err)

	assert.True(t, r.Uptrend)
	assert.False(t, r.Reversed)
	assert.Equal(t, 8, r.TrendAge) // trend defined from the third bar on
	assert.Less(t, r.SAR, 109.0)   // SAR trails below price in an uptrend
	assert.Equal(t, TrendStrong, r.Strength)
	assert.Positive(t, r.Distance)
}
