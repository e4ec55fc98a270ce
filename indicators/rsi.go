package indicators

import (
	"fmt"

	"stockanalyze/market"
)

// DefaultRSIPeriod is the smoothing period used when none is given.
const DefaultRSIPeriod = 14

// RSIStatus classifies an RSI reading.
type RSIStatus int

const (
	RSINormal RSIStatus = iota
	RSIOverbought
	RSISevereOverbought
	RSIOversold
	RSISevereOversold
)

func (s RSIStatus) String() string {
	switch s {
	case RSIOverbought:
		return "overbought"
	case RSISevereOverbought:
		return "severely overbought"
	case RSIOversold:
		return "oversold"
	case RSISevereOversold:
		return "severely oversold"
	default:
		return "normal"
	}
}

// RSIResult is the RSI reading at the final bar of the analyzed prefix.
type RSIResult struct {
	Period     int
	Value      float64
	Status     RSIStatus
	Divergence *Divergence // nil when none detected in the lookback window
}

// RSISeries computes Wilder's RSI over the closes of bars. The returned
// slice is aligned with bars; entries before the first full period hold the
// neutral value 50 since no smoothed average exists yet.
//
// The averages are seeded with the simple mean of the first period changes,
// then smoothed with the running moving average
// avg = (avg_prev*(period-1) + x) / period. A window with zero losses reads
// 100; zero gains with any loss reads 0.
func RSISeries(bars []market.Bar, period int) ([]float64, error) {
	if period <= 0 {
		return nil, fmt.Errorf("rsi: period must be positive, got %d", period)
	}
	if len(bars) < period+1 {
		return nil, fmt.Errorf("rsi: not enough bars: need %d, got %d", period+1, len(bars))
	}

	closes := market.Closes(bars)
	out := make([]float64, len(bars))
	for i := 0; i < period; i++ {
		out[i] = 50
	}

	var avgGain, avgLoss float64
	for i := 1; i <= period; i++ {
		change := closes[i] - closes[i-1]
		if change > 0 {
			avgGain += change
		} else {
			avgLoss -= change
		}
	}
	avgGain /= float64(period)
	avgLoss /= float64(period)
	out[period] = rsiValue(avgGain, avgLoss)

	p := float64(period)
	for i := period + 1; i < len(closes); i++ {
		change := closes[i] - closes[i-1]
		gain, loss := 0.0, 0.0
		if change > 0 {
			gain = change
		} else {
			loss = -change
		}
		avgGain = (avgGain*(p-1) + gain) / p
		avgLoss = (avgLoss*(p-1) + loss) / p
		out[i] = rsiValue(avgGain, avgLoss)
	}
	return out, nil
}

func rsiValue(avgGain, avgLoss float64) float64 {
	if avgLoss == 0 {
		return 100
	}
	if avgGain == 0 {
		return 0
	}
	rs := avgGain / avgLoss
	return 100 - 100/(1+rs)
}

// AnalyzeRSI computes the RSI at the last bar, classifies it, and checks the
// medium-term window for a price/RSI divergence.
func AnalyzeRSI(bars []market.Bar, period int) (RSIResult, error) {
	if period == 0 {
		period = DefaultRSIPeriod
	}
	values, err := RSISeries(bars, period)
	if err != nil {
		return RSIResult{}, err
	}

	r := RSIResult{
		Period: period,
		Value:  values[len(values)-1],
	}
	switch {
	case r.Value > 80:
		r.Status = RSIOverbought
	case r.Value < 20:
		r.Status = RSIOversold
	}
	r.Divergence = DetectDivergence(bars, values, DivergenceWindow)
	return r, nil
}

// RSIPanel is the classic three-period RSI readout (6/12/24) with the
// severity ladder used by the daily report.
type RSIPanel struct {
	RSI6, RSI12, RSI24 float64
	Status             RSIStatus
	Divergence         *Divergence
}

// AnalyzeRSIPanel computes RSI(6), RSI(12) and RSI(24) at the last bar.
// Divergence is evaluated against the fast RSI(6) line.
func AnalyzeRSIPanel(bars []market.Bar) (RSIPanel, error) {
	rsi6, err := RSISeries(bars, 6)
	if err != nil {
		return RSIPanel{}, err
	}
	rsi12, err := RSISeries(bars, 12)
	if err != nil {
		return RSIPanel{}, err
	}
	rsi24, err := RSISeries(bars, 24)
	if err != nil {
		return RSIPanel{}, err
	}

	last := len(bars) - 1
	p := RSIPanel{
		RSI6:  rsi6[last],
		RSI12: rsi12[last],
		RSI24: rsi24[last],
		// Lookback restarts at the latest fast/slow RSI cross.
		Divergence: DetectDivergence(bars, rsi6, crossWindow(rsi6, rsi12, DivergenceWindow)),
	}

	switch {
	case p.RSI6 > 95 || p.RSI12 > 90 || p.RSI24 > 85:
		p.Status = RSISevereOverbought
	case p.RSI6 > 85 || p.RSI12 > 80 || p.RSI24 > 75:
		p.Status = RSIOverbought
	case p.RSI6 < 5 || p.RSI12 < 10 || p.RSI24 < 15:
		p.Status = RSISevereOversold
	case p.RSI6 < 15 || p.RSI12 < 20 || p.RSI24 < 25:
		p.Status = RSIOversold
	}
	return p, nil
}
