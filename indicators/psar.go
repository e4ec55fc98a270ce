package indicators

import (
	"fmt"
	"math"

	"stockanalyze/market"
)

// Wilder's parabolic SAR parameters.
const (
	DefaultPSARStart = 0.02
	DefaultPSARStep  = 0.02
	DefaultPSARMax   = 0.20
)

// psarMinBars: the recurrence needs two seed bars before the first SAR.
const psarMinBars = 3

// TrendStrength grades a PSAR trend by the price change over its lifetime.
type TrendStrength int

const (
	TrendWeak TrendStrength = iota
	TrendModerate
	TrendStrong
)

func (s TrendStrength) String() string {
	switch s {
	case TrendModerate:
		return "moderate"
	case TrendStrong:
		return "strong"
	default:
		return "weak"
	}
}

// PSARResult is the stop-and-reverse state at the final bar.
type PSARResult struct {
	SAR     float64
	Uptrend bool

	// TrendAge is how many bars the current trend has run, counting the
	// final bar.
	TrendAge int
	// Reversed is true when the trend flipped on the final bar.
	Reversed bool

	// PriceChange is the percent move of the close over the trend's life.
	PriceChange float64
	Strength    TrendStrength
	// Distance is the percent gap between the close and the SAR.
	Distance float64
}

// PSARSeries runs the Wilder parabolic recurrence over bars with the given
// acceleration start, step and cap. The returned slices align with bars; the
// first two entries are seeds (SAR equal to the close, trend undefined) and
// valid values begin at index 2.
//
// In an uptrend: SAR' = SAR + af*(hp - SAR), clamped to not exceed the lows
// of the previous two bars; a low piercing the SAR flips the trend, resets
// SAR to the prior extreme high and af to the start value. Downtrend is the
// mirror image. A new extreme advances af by step up to the cap.
func PSARSeries(bars []market.Bar, start, step, max float64) (sar []float64, up []bool, err error) {
	if len(bars) < psarMinBars {
		return nil, nil, fmt.Errorf("psar: not enough bars: need %d, got %d", psarMinBars, len(bars))
	}

	n := len(bars)
	sar = make([]float64, n)
	up = make([]bool, n)
	for i := range bars {
		sar[i] = bars[i].Close
	}

	bull := true
	af := start
	hp := bars[0].High
	lp := bars[0].Low

	for i := 2; i < n; i++ {
		if bull {
			sar[i] = sar[i-1] + af*(hp-sar[i-1])
		} else {
			sar[i] = sar[i-1] + af*(lp-sar[i-1])
		}

		if bull {
			if bars[i].Low < sar[i] {
				bull = false
				sar[i] = hp
				lp = bars[i].Low
				af = start
			} else {
				if bars[i].High > hp {
					hp = bars[i].High
					af = math.Min(af+step, max)
				}
				if bars[i-1].Low < sar[i] {
					sar[i] = bars[i-1].Low
				}
				if bars[i-2].Low < sar[i] {
					sar[i] = bars[i-2].Low
				}
			}
		} else {
			if bars[i].High > sar[i] {
				bull = true
				sar[i] = lp
				hp = bars[i].High
				af = start
			} else {
				if bars[i].Low < lp {
					lp = bars[i].Low
					af = math.Min(af+step, max)
				}
				if bars[i-1].High > sar[i] {
					sar[i] = bars[i-1].High
				}
				if bars[i-2].High > sar[i] {
					sar[i] = bars[i-2].High
				}
			}
		}

		up[i] = bull
	}
	return sar, up, nil
}

// AnalyzePSAR computes the PSAR state at the last bar with default
// parameters, plus trend age, strength and reversal detection.
func AnalyzePSAR(bars []market.Bar) (PSARResult, error) {
	sar, up, err := PSARSeries(bars, DefaultPSARStart, DefaultPSARStep, DefaultPSARMax)
	if err != nil {
		return PSARResult{}, err
	}

	last := len(bars) - 1
	r := PSARResult{SAR: sar[last], Uptrend: up[last]}

	// Trend values are defined from index 2 on.
	for i := last; i >= 2 && up[i] == r.Uptrend; i-- {
		r.TrendAge++
	}
	if last >= 3 {
		r.Reversed = up[last-1] != r.Uptrend
	}

	c := bars[last].Close
	startIdx := last - r.TrendAge + 1
	if base := bars[startIdx].Close; base != 0 {
		r.PriceChange = (c - base) / base * 100
	}
	switch chg := math.Abs(r.PriceChange); {
	case chg < 1:
		r.Strength = TrendWeak
	case chg < 3:
		r.Strength = TrendModerate
	default:
		r.Strength = TrendStrong
	}
	if c != 0 {
		r.Distance = math.Abs(c-r.SAR) / c * 100
	}
	return r, nil
}
