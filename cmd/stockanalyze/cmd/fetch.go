package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(fetchCmd)
}

var fetchCmd = &cobra.Command{
	Use:   "fetch <symbols...>",
	Short: "Warm the local cache for the given symbols",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		coord, err := newCoordinator()
		if err != nil {
			return err
		}

		var firstErr error
		for _, r := range coord.Load(cmd.Context(), args) {
			if r.Err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", r.Symbol, r.Err)
				if firstErr == nil {
					firstErr = r.Err
				}
				continue
			}
			state := "cached"
			if r.Fetched {
				state = "fetched"
			}
			last, _ := r.Series.Last()
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d bars through %s (%s)\n",
				r.Symbol, r.Series.Len(), last.Date.Format("2006-01-02"), state)
		}
		return firstErr
	},
}
