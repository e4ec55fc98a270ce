package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"stockanalyze/dates"
	"stockanalyze/fetch"
	"stockanalyze/indicators"
	"stockanalyze/market"
)

var clearCache bool

func init() {
	for _, c := range []*cobra.Command{demarkCmd, maCmd, rsiCmd, kdjCmd, bollCmd, psarCmd, analyzeCmd} {
		c.Flags().BoolVar(&clearCache, "clear-cache", false, "drop cached bars before fetching")
		rootCmd.AddCommand(c)
	}
}

// resolvedSeries is one symbol's prefix ending on the resolved analysis day.
type resolvedSeries struct {
	symbol   string
	resolved dates.Resolved
	bars     []market.Bar
}

// loadPrefixes fetches the symbols and resolves the requested date against
// each series. Per-symbol failures are reported and skipped; the first one
// is returned after the rest have printed, so the exit code reflects it.
func loadPrefixes(cmd *cobra.Command, args []string) ([]resolvedSeries, error) {
	symbols, date, err := splitArgs(args)
	if err != nil {
		return nil, err
	}
	if date == "" {
		date = time.Now().Format(market.DateLayout)
	}

	manager, err := newManager()
	if err != nil {
		return nil, err
	}
	if clearCache {
		for _, s := range symbols {
			if err := manager.Clear(cmd.Context(), s); err != nil {
				return nil, err
			}
		}
	}

	results := fetch.New(manager, cfg.Fetch.Workers).Load(cmd.Context(), symbols)

	var (
		out      []resolvedSeries
		firstErr error
	)
	fail := func(symbol string, err error) {
		fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", symbol, err)
		if firstErr == nil {
			firstErr = err
		}
	}
	for _, r := range results {
		if r.Err != nil {
			fail(r.Symbol, r.Err)
			continue
		}
		resolved, err := dates.Resolve(r.Series, date)
		if err != nil {
			fail(r.Symbol, err)
			continue
		}
		out = append(out, resolvedSeries{
			symbol:   r.Symbol,
			resolved: resolved,
			bars:     r.Series.UpTo(resolved.Actual),
		})
	}
	return out, firstErr
}

func printHeader(cmd *cobra.Command, rs resolvedSeries) {
	fmt.Fprintf(cmd.OutOrStdout(), "\n=== %s @ %s", rs.symbol, rs.resolved.Actual.Format(market.DateLayout))
	if rs.resolved.Steps > 0 {
		fmt.Fprintf(cmd.OutOrStdout(), " (requested %s)", rs.resolved.Requested.Format(market.DateLayout))
	}
	fmt.Fprintf(cmd.OutOrStdout(), " close %.2f ===\n", rs.bars[len(rs.bars)-1].Close)
}

var demarkCmd = &cobra.Command{
	Use:   "demark <symbols...> [date]",
	Short: "TD Sequential setup and countdown state",
	RunE: func(cmd *cobra.Command, args []string) error {
		prefixes, err := loadPrefixes(cmd, args)
		for _, rs := range prefixes {
			printHeader(cmd, rs)
			d := indicators.Demark(rs.bars)
			fmt.Fprintf(cmd.OutOrStdout(), "setup: up %d/9 down %d/9\n", d.UpSetup, d.DownSetup)
			fmt.Fprintf(cmd.OutOrStdout(), "countdown: up %d/4 down %d/4\n", d.UpCountdown, d.DownCountdown)
			if d.Signal != indicators.DemarkNone {
				fmt.Fprintf(cmd.OutOrStdout(), "signal: %s\n", d.Signal)
			}
			if !d.LastUpSetup.IsZero() {
				fmt.Fprintf(cmd.OutOrStdout(), "last up setup-9: %s\n", d.LastUpSetup.Format(market.DateLayout))
			}
			if !d.LastDownSetup.IsZero() {
				fmt.Fprintf(cmd.OutOrStdout(), "last down setup-9: %s\n", d.LastDownSetup.Format(market.DateLayout))
			}
		}
		return err
	},
}

var maCmd = &cobra.Command{
	Use:   "ma <symbols...> [date]",
	Short: "Moving average stack with volume readout",
	RunE: func(cmd *cobra.Command, args []string) error {
		prefixes, err := loadPrefixes(cmd, args)
		for _, rs := range prefixes {
			printHeader(cmd, rs)
			m, merr := indicators.AnalyzeMA(rs.bars)
			if merr != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", rs.symbol, merr)
				continue
			}
			for _, l := range m.Lines {
				if l.Near() {
					fmt.Fprintf(cmd.OutOrStdout(), "MA%d=%.2f (near)\n", l.Window, l.Value)
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "MA%d=%.2f (%+.2f%%)\n", l.Window, l.Value, l.Diff)
			}
			side := "below"
			if m.VolumeAbove() {
				side = "above"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "day change %+.2f%%\n", m.DailyChange)
			fmt.Fprintf(cmd.OutOrStdout(), "volume %d, %s 20-day average %.0f (%+.2f%%)\n",
				m.Volume, side, m.AvgVolume, m.VolumeRatio)
			fmt.Fprintf(cmd.OutOrStdout(), "alignment: %s\n", m.Alignment)
		}
		return err
	},
}

var rsiPeriod int

func init() {
	rsiCmd.Flags().IntVar(&rsiPeriod, "period", 0, "single RSI period (default: 6/12/24 panel)")
}

var rsiCmd = &cobra.Command{
	Use:   "rsi <symbols...> [date]",
	Short: "RSI panel with divergence detection",
	RunE: func(cmd *cobra.Command, args []string) error {
		prefixes, err := loadPrefixes(cmd, args)
		for _, rs := range prefixes {
			printHeader(cmd, rs)
			if rsiPeriod > 0 {
				r, rerr := indicators.AnalyzeRSI(rs.bars, rsiPeriod)
				if rerr != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", rs.symbol, rerr)
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "RSI(%d) = %.1f (%s)\n", r.Period, r.Value, r.Status)
				printDivergence(cmd, r.Divergence)
				continue
			}
			p, rerr := indicators.AnalyzeRSIPanel(rs.bars)
			if rerr != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", rs.symbol, rerr)
				continue
			}
			fmt.Fprintf(cmd.OutOrStdout(), "RSI(6)=%.1f RSI(12)=%.1f RSI(24)=%.1f (%s)\n",
				p.RSI6, p.RSI12, p.RSI24, p.Status)
			printDivergence(cmd, p.Divergence)
		}
		return err
	},
}

var kdjCmd = &cobra.Command{
	Use:   "kdj <symbols...> [date]",
	Short: "KDJ stochastic reading",
	RunE: func(cmd *cobra.Command, args []string) error {
		prefixes, err := loadPrefixes(cmd, args)
		for _, rs := range prefixes {
			printHeader(cmd, rs)
			k, kerr := indicators.AnalyzeKDJ(rs.bars)
			if kerr != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", rs.symbol, kerr)
				continue
			}
			fmt.Fprintf(cmd.OutOrStdout(), "K=%.1f D=%.1f J=%.1f (%s)\n", k.K, k.D, k.J, k.Status)
			printDivergence(cmd, k.Divergence)
		}
		return err
	},
}

var bollCmd = &cobra.Command{
	Use:   "boll <symbols...> [date]",
	Short: "Bollinger Bands state",
	RunE: func(cmd *cobra.Command, args []string) error {
		prefixes, err := loadPrefixes(cmd, args)
		for _, rs := range prefixes {
			printHeader(cmd, rs)
			b, berr := indicators.Bollinger(rs.bars, indicators.DefaultBollingerPeriod, indicators.DefaultBollingerWidth)
			if berr != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", rs.symbol, berr)
				continue
			}
			fmt.Fprintf(cmd.OutOrStdout(), "middle=%.2f upper=%.2f lower=%.2f\n", b.Middle, b.Upper, b.Lower)
			fmt.Fprintf(cmd.OutOrStdout(), "width=%.4f (%s) position=%.0f%% signal=%s\n",
				b.Width, b.Trend, b.Position, b.Signal)
		}
		return err
	},
}

var psarCmd = &cobra.Command{
	Use:   "psar <symbols...> [date]",
	Short: "Parabolic SAR trend state",
	RunE: func(cmd *cobra.Command, args []string) error {
		prefixes, err := loadPrefixes(cmd, args)
		for _, rs := range prefixes {
			printHeader(cmd, rs)
			p, perr := indicators.AnalyzePSAR(rs.bars)
			if perr != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", rs.symbol, perr)
				continue
			}
			dir := "down"
			if p.Uptrend {
				dir = "up"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "SAR=%.2f trend=%s age=%d strength=%s change=%+.2f%% distance=%.2f%%\n",
				p.SAR, dir, p.TrendAge, p.Strength, p.PriceChange, p.Distance)
			if p.Reversed {
				fmt.Fprintln(cmd.OutOrStdout(), "trend flipped today")
			}
		}
		return err
	},
}

func printDivergence(cmd *cobra.Command, d *indicators.Divergence) {
	if d == nil {
		return
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s divergence vs %s: price %.2f -> %.2f, indicator %.1f -> %.1f\n",
		d.Kind, d.PriceDate.Format(market.DateLayout),
		d.ExtremePrice, d.CurrentPrice, d.ExtremeValue, d.CurrentValue)
}
