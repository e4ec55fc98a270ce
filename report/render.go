package report

import (
	"fmt"
	"math"
	"strings"

	"stockanalyze/dates"
	"stockanalyze/indicators"
	"stockanalyze/market"
)

// SymbolAnalysis is one symbol's resolved date and indicator readings,
// ready to render.
type SymbolAnalysis struct {
	Symbol   string
	Resolved dates.Resolved
	Close    float64
	Analysis indicators.Analysis

	// Err is set when the symbol could not be analyzed at all; the other
	// fields are then empty.
	Err error
}

// AnalyzeSymbol resolves the requested date against the series and runs the
// full indicator suite over the prefix ending there.
func AnalyzeSymbol(series *market.Series, requested string) SymbolAnalysis {
	sa := SymbolAnalysis{Symbol: series.Symbol}

	resolved, err := dates.Resolve(series, requested)
	if err != nil {
		sa.Err = err
		return sa
	}
	sa.Resolved = resolved

	prefix := series.UpTo(resolved.Actual)
	sa.Close = prefix[len(prefix)-1].Close
	sa.Analysis = indicators.Analyze(prefix)
	return sa
}

// RenderSymbol writes one symbol's Markdown section.
func RenderSymbol(w *strings.Builder, sa SymbolAnalysis) {
	fmt.Fprintf(w, "### %s\n\n", sa.Symbol)
	if sa.Err != nil {
		fmt.Fprintf(w, "Analysis unavailable: %v\n\n", sa.Err)
		return
	}

	fmt.Fprintf(w, "Date: %s", sa.Resolved.Actual.Format(market.DateLayout))
	if sa.Resolved.Steps > 0 {
		fmt.Fprintf(w, " (requested %s, stepped back %d trading days)",
			sa.Resolved.Requested.Format(market.DateLayout), sa.Resolved.Steps)
	}
	fmt.Fprintf(w, "  \nClose: %.2f\n\n", sa.Close)

	renderDemark(w, sa.Analysis.Demark)
	renderMA(w, sa.Analysis)
	renderRSI(w, sa.Analysis)
	renderKDJ(w, sa.Analysis)
	renderBollinger(w, sa.Analysis)
	renderPSAR(w, sa.Analysis)
}

func renderDemark(w *strings.Builder, d indicators.DemarkResult) {
	w.WriteString("**Demark TD Sequential**\n\n")
	fmt.Fprintf(w, "- Setup: up %d/9, down %d/9\n", d.UpSetup, d.DownSetup)
	fmt.Fprintf(w, "- Countdown: up %d/4, down %d/4\n", d.UpCountdown, d.DownCountdown)
	switch {
	case d.UpSetupComplete:
		w.WriteString("- **Up Setup-9 completed today: possible top**\n")
	case d.DownSetupComplete:
		w.WriteString("- **Down Setup-9 completed today: possible bottom**\n")
	case d.UpCountdownComplete:
		w.WriteString("- **Up countdown completed today: exhaustion signal**\n")
	case d.DownCountdownComplete:
		w.WriteString("- **Down countdown completed today: exhaustion signal**\n")
	}
	if !d.LastUpSetup.IsZero() {
		fmt.Fprintf(w, "- Last up Setup-9: %s\n", d.LastUpSetup.Format(market.DateLayout))
	}
	if !d.LastDownSetup.IsZero() {
		fmt.Fprintf(w, "- Last down Setup-9: %s\n", d.LastDownSetup.Format(market.DateLayout))
	}
	w.WriteString("\n")
}

func renderMA(w *strings.Builder, a indicators.Analysis) {
	w.WriteString("**Moving Averages**\n\n")
	if a.MAErr != nil {
		fmt.Fprintf(w, "- unavailable: %v\n\n", a.MAErr)
		return
	}
	m := a.MA
	for _, l := range m.Lines {
		if l.Near() {
			fmt.Fprintf(w, "- MA%d=%.2f (close near the line)\n", l.Window, l.Value)
			continue
		}
		rel := "above"
		if l.Diff < 0 {
			rel = "below"
		}
		fmt.Fprintf(w, "- MA%d=%.2f (close %s by %.2f%%)\n", l.Window, l.Value, rel, math.Abs(l.Diff))
	}
	fmt.Fprintf(w, "- day change %+.2f%%, volume vs %d-day average %+.2f%%\n",
		m.DailyChange, indicators.VolumeMAPeriod, m.VolumeRatio)
	fmt.Fprintf(w, "- alignment: **%s**\n", m.Alignment)
	w.WriteString("\n")
}

func renderRSI(w *strings.Builder, a indicators.Analysis) {
	w.WriteString("**RSI**\n\n")
	if a.RSIErr != nil {
		fmt.Fprintf(w, "- unavailable: %v\n\n", a.RSIErr)
		return
	}
	r := a.RSI
	fmt.Fprintf(w, "- RSI(6)=%.1f RSI(12)=%.1f RSI(24)=%.1f\n", r.RSI6, r.RSI12, r.RSI24)
	if r.Status != indicators.RSINormal {
		fmt.Fprintf(w, "- **%s**\n", r.Status)
	}
	renderDivergence(w, r.Divergence)
	w.WriteString("\n")
}

func renderKDJ(w *strings.Builder, a indicators.Analysis) {
	w.WriteString("**KDJ**\n\n")
	if a.KDJErr != nil {
		fmt.Fprintf(w, "- unavailable: %v\n\n", a.KDJErr)
		return
	}
	k := a.KDJ
	fmt.Fprintf(w, "- K=%.1f D=%.1f J=%.1f\n", k.K, k.D, k.J)
	if k.Status != indicators.KDJNormal {
		fmt.Fprintf(w, "- **%s**\n", k.Status)
	}
	renderDivergence(w, k.Divergence)
	w.WriteString("\n")
}

func renderBollinger(w *strings.Builder, a indicators.Analysis) {
	w.WriteString("**Bollinger Bands**\n\n")
	if a.BollingerErr != nil {
		fmt.Fprintf(w, "- unavailable: %v\n\n", a.BollingerErr)
		return
	}
	b := a.Bollinger
	fmt.Fprintf(w, "- middle=%.2f upper=%.2f lower=%.2f\n", b.Middle, b.Upper, b.Lower)
	fmt.Fprintf(w, "- width=%.4f (%s), band position %.0f%%\n", b.Width, b.Trend, b.Position)
	if b.Signal != indicators.BollInside {
		fmt.Fprintf(w, "- **close %s**\n", b.Signal)
	}
	w.WriteString("\n")
}

func renderPSAR(w *strings.Builder, a indicators.Analysis) {
	w.WriteString("**Parabolic SAR**\n\n")
	if a.PSARErr != nil {
		fmt.Fprintf(w, "- unavailable: %v\n\n", a.PSARErr)
		return
	}
	p := a.PSAR
	dir := "downtrend"
	if p.Uptrend {
		dir = "uptrend"
	}
	fmt.Fprintf(w, "- SAR=%.2f, %s for %d days (%s, %+.2f%%)\n",
		p.SAR, dir, p.TrendAge, p.Strength, p.PriceChange)
	fmt.Fprintf(w, "- distance from SAR: %.2f%%\n", p.Distance)
	if p.Reversed {
		w.WriteString("- **trend flipped today**\n")
	}
	w.WriteString("\n")
}

func renderDivergence(w *strings.Builder, d *indicators.Divergence) {
	if d == nil {
		return
	}
	fmt.Fprintf(w, "- **%s divergence** vs %s (price %.2f -> %.2f, indicator %.1f -> %.1f)\n",
		d.Kind, d.PriceDate.Format(market.DateLayout),
		d.ExtremePrice, d.CurrentPrice, d.ExtremeValue, d.CurrentValue)
}
