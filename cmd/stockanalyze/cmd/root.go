package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/phuslu/log"
	"github.com/spf13/cobra"

	"stockanalyze/config"
	"stockanalyze/fetch"
	"stockanalyze/market"
	"stockanalyze/store"
	"stockanalyze/yahoo"
)

// Exit codes: scripts drive the tool and branch on these.
const (
	exitOK = iota
	exitError
	exitInvalidDate
	exitDateUnavailable
	exitDataUnavailable
)

var (
	cfgFile string
	verbose bool

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "stockanalyze",
	Short: "Daily-bar technical analysis: Demark, RSI, KDJ, Bollinger, PSAR",
	Long: `stockanalyze fetches daily candles, caches them locally and runs the
classic technical-analysis suite over them:

  - Demark TD Sequential setup and countdown
  - RSI with 6/12/24 panel and divergence detection
  - KDJ stochastic
  - Bollinger Bands with squeeze/expansion tracking
  - Parabolic SAR with trend age and strength

Symbols and an optional date are positional; the date is recognized in
YYYY-MM-DD, YYYY.MM.DD, YYYY/MM/DD or YYYYMMDD form anywhere in the list.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		// A missing .env is fine; explicit config errors are not.
		_ = godotenv.Load()

		log.DefaultLogger = log.Logger{
			Level:  log.InfoLevel,
			Writer: &log.ConsoleWriter{ColorOutput: false, Writer: os.Stderr},
		}
		if verbose {
			log.DefaultLogger.Level = log.DebugLevel
		}

		var err error
		cfg, err = config.Load(cfgFile)
		return err
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (YAML)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
}

// Execute runs the CLI and maps the error taxonomy onto exit codes.
func Execute() int {
	err := rootCmd.Execute()
	if err == nil {
		return exitOK
	}
	fmt.Fprintln(os.Stderr, "Error:", err)
	switch {
	case errors.Is(err, market.ErrInvalidDateFormat):
		return exitInvalidDate
	case errors.Is(err, market.ErrDateUnavailable):
		return exitDateUnavailable
	case errors.Is(err, market.ErrDataUnavailable):
		return exitDataUnavailable
	default:
		return exitError
	}
}

// newManager wires the configured backend and the market-data client.
func newManager() (*store.Manager, error) {
	var (
		backend store.Backend
		err     error
	)
	switch cfg.Store.Backend {
	case "sqlite":
		backend, err = store.NewSQLite(cfg.Store.DBPath)
	default:
		backend, err = store.NewCSV(cfg.Store.CacheDir)
	}
	if err != nil {
		return nil, err
	}

	timeout, err := cfg.FetchTimeout()
	if err != nil {
		return nil, err
	}
	opts := []yahoo.Option{yahoo.WithTimeout(timeout)}
	if cfg.Fetch.BaseURL != "" {
		opts = append(opts, yahoo.WithBaseURL(cfg.Fetch.BaseURL))
	}

	return store.NewManager(backend, yahoo.New(opts...), store.WithStart(cfg.StartDate())), nil
}

func newCoordinator() (*fetch.Coordinator, error) {
	m, err := newManager()
	if err != nil {
		return nil, err
	}
	return fetch.New(m, cfg.Fetch.Workers), nil
}
