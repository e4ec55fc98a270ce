package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"stockanalyze/indicators"
	"stockanalyze/report"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <symbols...> [date]",
	Short: "Run the full indicator suite per symbol",
	Long: `Analyze runs Demark, RSI, KDJ, Bollinger and PSAR for each symbol on the
resolved analysis date and prints the combined Markdown section for each.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		prefixes, err := loadPrefixes(cmd, args)
		var w strings.Builder
		for _, rs := range prefixes {
			report.RenderSymbol(&w, report.SymbolAnalysis{
				Symbol:   rs.symbol,
				Resolved: rs.resolved,
				Close:    rs.bars[len(rs.bars)-1].Close,
				Analysis: indicators.Analyze(rs.bars),
			})
		}
		fmt.Fprint(cmd.OutOrStdout(), w.String())
		return err
	},
}
