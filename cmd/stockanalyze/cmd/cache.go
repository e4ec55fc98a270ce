package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"stockanalyze/store"
)

func init() {
	cacheCmd.AddCommand(cacheClearCmd, cacheExportCmd, cacheImportCmd)
	rootCmd.AddCommand(cacheCmd)
}

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the local bar cache",
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear [symbols...]",
	Short: "Drop cached bars for the given symbols, or everything",
	RunE: func(cmd *cobra.Command, args []string) error {
		manager, err := newManager()
		if err != nil {
			return err
		}
		if len(args) == 0 {
			if err := manager.Clear(cmd.Context(), ""); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "cache cleared")
			return nil
		}
		for _, symbol := range args {
			if err := manager.Clear(cmd.Context(), symbol); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s cleared\n", symbol)
		}
		return nil
	},
}

var cacheExportCmd = &cobra.Command{
	Use:   "export <archive.tar.xz>",
	Short: "Snapshot every cached series into an xz archive",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		manager, err := newManager()
		if err != nil {
			return err
		}
		if err := store.Export(cmd.Context(), manager.Backend(), args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "cache exported to %s\n", args[0])
		return nil
	},
}

var cacheImportCmd = &cobra.Command{
	Use:   "import <archive.tar.xz>",
	Short: "Restore a cache snapshot into the configured backend",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		manager, err := newManager()
		if err != nil {
			return err
		}
		if err := store.Import(cmd.Context(), manager.Backend(), args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "cache imported from %s\n", args[0])
		return nil
	},
}
