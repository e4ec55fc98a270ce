package indicators

import (
	"fmt"

	"stockanalyze/market"
)

// KDJ defaults: 9-day RSV window, smoothing factor 3 for both K and D.
const (
	DefaultKDJPeriod    = 9
	DefaultKDJSmoothing = 3
)

// KDJStatus classifies the J value.
type KDJStatus int

const (
	KDJNormal KDJStatus = iota
	KDJOverbought
	KDJSevereOverbought
	KDJOversold
	KDJSevereOversold
)

func (s KDJStatus) String() string {
	switch s {
	case KDJOverbought:
		return "overbought"
	case KDJSevereOverbought:
		return "severely overbought"
	case KDJOversold:
		return "oversold"
	case KDJSevereOversold:
		return "severely oversold"
	default:
		return "normal"
	}
}

// KDJResult is the stochastic reading at the final bar.
type KDJResult struct {
	K, D, J    float64
	Status     KDJStatus
	Divergence *Divergence // against the J line, nil when none
}

// KDJSeries computes the K, D and J lines over bars.
//
// RSV uses the highest high and lowest low of the trailing n bars (fewer at
// the start of the series); a flat window reads 50 rather than dividing by
// zero. K and D are seeded at 50 on the first bar and smoothed as
// K = K_prev*(m1-1)/m1 + RSV/m1 and D = D_prev*(m2-1)/m2 + K/m2.
// J = 3K - 2D.
func KDJSeries(bars []market.Bar, n, m1, m2 int) (k, d, j []float64, err error) {
	if n <= 0 || m1 <= 1 || m2 <= 1 {
		return nil, nil, nil, fmt.Errorf("kdj: bad parameters n=%d m1=%d m2=%d", n, m1, m2)
	}
	if len(bars) == 0 {
		return nil, nil, nil, fmt.Errorf("kdj: empty series")
	}

	rsv := make([]float64, len(bars))
	for i := range bars {
		lo, hi := bars[i].Low, bars[i].High
		for w := i - 1; w >= 0 && w > i-n; w-- {
			if bars[w].Low < lo {
				lo = bars[w].Low
			}
			if bars[w].High > hi {
				hi = bars[w].High
			}
		}
		if hi == lo {
			rsv[i] = 50
		} else {
			rsv[i] = (bars[i].Close - lo) / (hi - lo) * 100
		}
	}

	k = make([]float64, len(bars))
	d = make([]float64, len(bars))
	j = make([]float64, len(bars))
	k[0], d[0] = 50, 50
	j[0] = 3*k[0] - 2*d[0]

	fm1, fm2 := float64(m1), float64(m2)
	for i := 1; i < len(bars); i++ {
		k[i] = k[i-1]*(fm1-1)/fm1 + rsv[i]/fm1
		d[i] = d[i-1]*(fm2-1)/fm2 + k[i]/fm2
		j[i] = 3*k[i] - 2*d[i]
	}
	return k, d, j, nil
}

// AnalyzeKDJ computes the KDJ reading at the last bar and checks the J line
// for divergence against price.
func AnalyzeKDJ(bars []market.Bar) (KDJResult, error) {
	k, d, j, err := KDJSeries(bars, DefaultKDJPeriod, DefaultKDJSmoothing, DefaultKDJSmoothing)
	if err != nil {
		return KDJResult{}, err
	}

	last := len(bars) - 1
	r := KDJResult{K: k[last], D: d[last], J: j[last]}
	switch {
	case r.J > 90:
		r.Status = KDJSevereOverbought
	case r.J > 80:
		r.Status = KDJOverbought
	case r.J < 10:
		r.Status = KDJSevereOversold
	case r.J < 20:
		r.Status = KDJOversold
	}
	// Restart the divergence lookback at the latest K/D cross.
	r.Divergence = DetectDivergence(bars, j, crossWindow(k, d, DivergenceWindow))
	return r, nil
}
