package indicators

import (
	"fmt"
	"math"

	"stockanalyze/market"
)

// Bollinger defaults: 20-day SMA with bands two standard deviations out.
const (
	DefaultBollingerPeriod = 20
	DefaultBollingerWidth  = 2.0
)

// BollingerSignal places the close relative to the bands.
type BollingerSignal int

const (
	BollInside BollingerSignal = iota
	BollAboveUpper
	BollBelowLower
)

func (s BollingerSignal) String() string {
	switch s {
	case BollAboveUpper:
		return "above upper band"
	case BollBelowLower:
		return "below lower band"
	default:
		return "inside bands"
	}
}

// BandTrend is the bar-over-bar change in band width.
type BandTrend int

const (
	BandStable BandTrend = iota
	BandNarrowing
	BandExpanding
)

func (t BandTrend) String() string {
	switch t {
	case BandNarrowing:
		return "narrowing"
	case BandExpanding:
		return "expanding"
	default:
		return "stable"
	}
}

// BollingerResult is the band state at the final bar.
type BollingerResult struct {
	Middle float64
	Upper  float64
	Lower  float64

	// Width is (upper-lower)/middle, the squeeze/expansion measure.
	Width float64
	// Position locates the close inside the bands as a percentage:
	// 0 at the lower band, 100 at the upper.
	Position float64

	Signal BollingerSignal
	Trend  BandTrend // vs the previous bar's width; stable when only period bars exist
}

// sampleStddev is the n-1 denominator form, matching how the band width has
// always been derived for this report.
func sampleStddev(values []float64, mean float64) float64 {
	if len(values) < 2 {
		return 0
	}
	var ss float64
	for _, v := range values {
		d := v - mean
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(values)-1))
}

func bandsAt(closes []float64, period int, k float64) (middle, upper, lower float64) {
	window := closes[len(closes)-period:]
	var sum float64
	for _, c := range window {
		sum += c
	}
	middle = sum / float64(period)
	half := k * sampleStddev(window, middle)
	return middle, middle + half, middle - half
}

// Bollinger computes the band state at the last bar. Requires at least
// period bars; with period+1 or more the width trend against the prior bar
// is also derived.
func Bollinger(bars []market.Bar, period int, k float64) (BollingerResult, error) {
	if period <= 1 {
		return BollingerResult{}, fmt.Errorf("bollinger: period must be at least 2, got %d", period)
	}
	if len(bars) < period {
		return BollingerResult{}, fmt.Errorf("bollinger: not enough bars: need %d, got %d", period, len(bars))
	}

	closes := market.Closes(bars)
	middle, upper, lower := bandsAt(closes, period, k)

	r := BollingerResult{Middle: middle, Upper: upper, Lower: lower}
	if middle != 0 {
		r.Width = (upper - lower) / middle
	}
	if span := upper - lower; span != 0 {
		r.Position = (closes[len(closes)-1] - lower) / span * 100
	}

	c := closes[len(closes)-1]
	switch {
	case c > upper:
		r.Signal = BollAboveUpper
	case c < lower:
		r.Signal = BollBelowLower
	}

	if len(bars) > period {
		pm, pu, pl := bandsAt(closes[:len(closes)-1], period, k)
		if pm != 0 {
			prevWidth := (pu - pl) / pm
			switch {
			case r.Width < prevWidth:
				r.Trend = BandNarrowing
			case r.Width > prevWidth:
				r.Trend = BandExpanding
			}
		}
	}
	return r, nil
}
