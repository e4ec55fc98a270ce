package indicators

import (
	"fmt"
	"math"

	"stockanalyze/market"
)

// MAWindows are the moving averages in the daily readout, shortest first.
var MAWindows = []int{20, 50, 120, 200}

// VolumeMAPeriod is the baseline window for today's volume.
const VolumeMAPeriod = 20

// MAAlignment classifies how the moving averages stack at the final bar.
type MAAlignment int

const (
	MAMixed MAAlignment = iota
	MABullish
	MABearish
	MAEntangled
)

func (a MAAlignment) String() string {
	switch a {
	case MABullish:
		return "bullish stack"
	case MABearish:
		return "bearish stack"
	case MAEntangled:
		return "entangled"
	default:
		return "mixed"
	}
}

// MALine is one moving average and the close's distance from it.
type MALine struct {
	Window int
	Value  float64
	Diff   float64 // close vs the line, percent
}

// Near reports whether the close sits within a percent of the line.
func (l MALine) Near() bool { return math.Abs(l.Diff) < 1 }

// MAResult is the moving-average readout at the final bar.
type MAResult struct {
	Lines       []MALine // one per MAWindows entry, in order
	DailyChange float64  // percent vs the prior close
	Volume      int64
	AvgVolume   float64 // VolumeMAPeriod-day average
	VolumeRatio float64 // percent vs AvgVolume
	Alignment   MAAlignment
}

// VolumeAbove reports whether today's volume beat its average.
func (r MAResult) VolumeAbove() bool { return float64(r.Volume) > r.AvgVolume }

// sma averages the trailing period values.
func sma(values []float64, period int) float64 {
	var sum float64
	for _, v := range values[len(values)-period:] {
		sum += v
	}
	return sum / float64(period)
}

// AnalyzeMA computes the moving-average panel at the last bar. The longest
// window plus the prior close sets the history floor.
func AnalyzeMA(bars []market.Bar) (MAResult, error) {
	need := MAWindows[len(MAWindows)-1] + 1
	if len(bars) < need {
		return MAResult{}, fmt.Errorf("ma: not enough bars: need %d, got %d", need, len(bars))
	}

	closes := market.Closes(bars)
	cur := closes[len(closes)-1]
	prev := closes[len(closes)-2]

	r := MAResult{DailyChange: (cur - prev) / prev * 100}
	for _, w := range MAWindows {
		v := sma(closes, w)
		r.Lines = append(r.Lines, MALine{Window: w, Value: v, Diff: (cur - v) / v * 100})
	}

	var volSum float64
	for _, b := range bars[len(bars)-VolumeMAPeriod:] {
		volSum += float64(b.Volume)
	}
	r.Volume = bars[len(bars)-1].Volume
	r.AvgVolume = volSum / VolumeMAPeriod
	if r.AvgVolume > 0 {
		r.VolumeRatio = (float64(r.Volume)/r.AvgVolume - 1) * 100
	}

	r.Alignment = maAlignment(r.Lines)
	return r, nil
}

// maAlignment reads the stack order. Short over long all the way down is a
// bullish stack, the reverse a bearish one. Failing both, any two distinct
// lines within a percent of each other make the stack entangled.
func maAlignment(lines []MALine) MAAlignment {
	bullish, bearish := true, true
	for i := 1; i < len(lines); i++ {
		if lines[i-1].Value <= lines[i].Value {
			bullish = false
		}
		if lines[i-1].Value >= lines[i].Value {
			bearish = false
		}
	}
	switch {
	case bullish:
		return MABullish
	case bearish:
		return MABearish
	}

	for i := range lines {
		for j := range lines {
			if i == j || lines[i].Value == lines[j].Value {
				continue
			}
			if math.Abs(lines[i].Value-lines[j].Value)/lines[j].Value < 0.01 {
				return MAEntangled
			}
		}
	}
	return MAMixed
}
