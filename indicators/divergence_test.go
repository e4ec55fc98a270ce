package indicators

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectDivergenceBearish(t *testing.T) {
	// Price closes above its prior local high (12) while the oscillator
	// stays under its own prior high (80).
	bars := barsFromCloses(10, 12, 11, 11.5, 13)
	values := []float64{70, 80, 60, 65, 75}

	d := DetectDivergence(bars, values, DivergenceWindow)
	require.NotNil(t, d)
	assert.Equal(t, Bearish, d.Kind)
	assert.Equal(t, bars[1].Date, d.PriceDate)
	assert.Equal(t, bars[1].Date, d.IndicatorDate)
	assert.Equal(t, 12.0, d.ExtremePrice)
	assert.Equal(t, 80.0, d.ExtremeValue)
	assert.Equal(t, 13.0, d.CurrentPrice)
	assert.Equal(t, 75.0, d.CurrentValue)
}

func TestDetectDivergenceBullish(t *testing.T) {
	bars := barsFromCloses(13, 11, 12, 11.5, 10)
	values := []float64{30, 20, 40, 35, 25}

	d := DetectDivergence(bars, values, DivergenceWindow)
	require.NotNil(t, d)
	assert.Equal(t, Bullish, d.Kind)
	assert.Equal(t, 11.0, d.ExtremePrice)
	assert.Equal(t, 20.0, d.ExtremeValue)
}

func TestDetectDivergenceTieIsNone(t *testing.T) {
	// A retest of the prior high is not a divergence; the comparison is
	// strict.
	bars := barsFromCloses(10, 12, 11, 11.5, 12)
	values := []float64{70, 80, 60, 65, 75}
	assert.Nil(t, DetectDivergence(bars, values, DivergenceWindow))
}

func TestDetectDivergenceNoExtremum(t *testing.T) {
	// Monotone series have no interior local extrema.
	bars := barsFromCloses(rising(6, 100, 1)...)
	values := []float64{40, 45, 50, 55, 60, 65}
	assert.Nil(t, DetectDivergence(bars, values, DivergenceWindow))
}

func TestDetectDivergenceWindowTrimsHistory(t *testing.T) {
	// With the window cut to the last three bars the prior highs fall out
	// of view and the pattern disappears.
	bars := barsFromCloses(10, 12, 11, 11.5, 13)
	values := []float64{70, 80, 60, 65, 75}
	assert.Nil(t, DetectDivergence(bars, values, 3))
}

func TestCrossWindow(t *testing.T) {
	// Fast crosses above slow at the second-to-last bar: only the last two
	// bars share a regime, clamped up to the three-bar floor.
	fast := []float64{10, 20, 30, 55, 60}
	slow := []float64{50, 50, 50, 50, 50}
	assert.Equal(t, 3, crossWindow(fast, slow, DivergenceWindow))

	// No cross inside the window: the full window stands.
	fast = []float64{60, 61, 62, 63, 64}
	assert.Equal(t, DivergenceWindow, crossWindow(fast, slow, DivergenceWindow))
}

func TestDetectDivergenceLengthMismatch(t *testing.T) {
	bars := barsFromCloses(10, 12, 11)
	assert.Nil(t, DetectDivergence(bars, []float64{70, 80}, DivergenceWindow))
}
