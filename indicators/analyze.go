package indicators

import (
	"stockanalyze/market"
)

// Analysis bundles every indicator's reading at the final bar of a series
// prefix. Indicators that lack enough history carry their error instead of a
// result; one short window does not block the others.
type Analysis struct {
	Demark DemarkResult

	MA    MAResult
	MAErr error

	RSI    RSIPanel
	RSIErr error

	KDJ    KDJResult
	KDJErr error

	Bollinger    BollingerResult
	BollingerErr error

	PSAR    PSARResult
	PSARErr error
}

// Analyze runs all indicators over bars with their default parameters.
func Analyze(bars []market.Bar) Analysis {
	a := Analysis{Demark: Demark(bars)}
	a.MA, a.MAErr = AnalyzeMA(bars)
	a.RSI, a.RSIErr = AnalyzeRSIPanel(bars)
	a.KDJ, a.KDJErr = AnalyzeKDJ(bars)
	a.Bollinger, a.BollingerErr = Bollinger(bars, DefaultBollingerPeriod, DefaultBollingerWidth)
	a.PSAR, a.PSARErr = AnalyzePSAR(bars)
	return a
}
