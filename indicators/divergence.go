package indicators

import (
	"time"

	"stockanalyze/market"
)

// DivergenceWindow is the medium-term lookback, in trading days, scanned for
// price/oscillator divergence.
const DivergenceWindow = 30

// DivergenceKind tags a divergence as weakening an uptrend or a downtrend.
type DivergenceKind int

const (
	Bearish DivergenceKind = iota // price high not confirmed by the oscillator
	Bullish                       // price low not confirmed by the oscillator
)

func (k DivergenceKind) String() string {
	if k == Bullish {
		return "bullish"
	}
	return "bearish"
}

// Divergence pairs the dates of the price extreme and the oscillator extreme
// the final bar was compared against.
type Divergence struct {
	Kind          DivergenceKind
	PriceDate     time.Time // date of the prior local price extreme
	IndicatorDate time.Time // date of the prior local oscillator extreme
	ExtremePrice  float64   // price at PriceDate
	ExtremeValue  float64   // oscillator at IndicatorDate
	CurrentPrice  float64
	CurrentValue  float64
}

// crossWindow shrinks window to the bars since the most recent cross of two
// aligned lines (sign change of a-b). A divergence that straddles a fast/slow
// cross spans two regimes and is noise, so the lookback restarts there. The
// window keeps a floor of 3 bars so the extremum scan stays meaningful.
func crossWindow(a, b []float64, window int) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := n - 1; i >= 1 && n-i < window; i-- {
		if (a[i]-b[i] > 0) != (a[i-1]-b[i-1] > 0) {
			if w := n - i; w > 3 {
				return w
			}
			return 3
		}
	}
	return window
}

// localExtremum finds the most recent index whose value is strictly greater
// (high=true) or strictly less (high=false) than both neighbors. Endpoints
// are never extrema. Returns -1 when the window has none.
func localExtremum(values []float64, high bool) int {
	for i := len(values) - 2; i >= 1; i-- {
		if high && values[i] > values[i-1] && values[i] > values[i+1] {
			return i
		}
		if !high && values[i] < values[i-1] && values[i] < values[i+1] {
			return i
		}
	}
	return -1
}

// DetectDivergence checks the trailing window of bars for a divergence
// between price and an aligned oscillator series. The test is a single
// comparison of the final bar against the most recent local extremum of each
// series: bearish when price closes strictly above its prior local high
// while the oscillator sits below its own prior local high, bullish for the
// symmetric case on lows. A price tie with the prior extreme is not a
// divergence. Returns nil when the window is too short or no pattern holds.
func DetectDivergence(bars []market.Bar, values []float64, window int) *Divergence {
	if len(bars) != len(values) || len(bars) < 3 {
		return nil
	}
	if len(bars) > window {
		bars = bars[len(bars)-window:]
		values = values[len(values)-window:]
	}

	closes := market.Closes(bars)
	last := len(bars) - 1
	cur, curVal := closes[last], values[last]

	if pi := localExtremum(closes, true); pi >= 0 {
		if vi := localExtremum(values, true); vi >= 0 {
			if cur > closes[pi] && curVal < values[vi] {
				return &Divergence{
					Kind:          Bearish,
					PriceDate:     bars[pi].Date,
					IndicatorDate: bars[vi].Date,
					ExtremePrice:  closes[pi],
					ExtremeValue:  values[vi],
					CurrentPrice:  cur,
					CurrentValue:  curVal,
				}
			}
		}
	}

	if pi := localExtremum(closes, false); pi >= 0 {
		if vi := localExtremum(values, false); vi >= 0 {
			if cur < closes[pi] && curVal > values[vi] {
				return &Divergence{
					Kind:          Bullish,
					PriceDate:     bars[pi].Date,
					IndicatorDate: bars[vi].Date,
					ExtremePrice:  closes[pi],
					ExtremeValue:  values[vi],
					CurrentPrice:  cur,
					CurrentValue:  curVal,
				}
			}
		}
	}
	return nil
}
