package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/phuslu/log"
	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"stockanalyze/mailer"
	"stockanalyze/market"
	"stockanalyze/report"
)

var (
	reportOnly  bool
	reportForce bool
	reportEmail bool
	schedule    string
)

func init() {
	reportCmd.Flags().BoolVar(&reportOnly, "report-only", false, "print nothing but the report body")
	reportCmd.Flags().BoolVar(&reportForce, "force", false, "regenerate even when a cached report exists")
	reportCmd.Flags().BoolVar(&reportEmail, "email", false, "send the report to the configured recipients")
	reportCmd.Flags().StringVar(&schedule, "schedule", "", "cron expression; run as a daemon instead of once")
	rootCmd.AddCommand(reportCmd)
}

var reportCmd = &cobra.Command{
	Use:   "report [date]",
	Short: "Generate the grouped market analysis report",
	Long: `Report renders the Markdown market analysis for every group in the stock
list file, caches it per date, and optionally converts it to HTML and mails
it to the recipients list. With --schedule it stays up and regenerates on
the given cron expression, emailing failures to the To list.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		date := ""
		if len(args) == 1 {
			date = args[0]
		}

		groups, err := report.LoadGroups(cfg.Report.GroupFile)
		if err != nil {
			return err
		}
		coord, err := newCoordinator()
		if err != nil {
			return err
		}
		gen := report.NewGenerator(coord, cfg.Report.OutDir)

		if schedule == "" {
			return runReport(cmd.Context(), cmd, gen, groups, date)
		}
		return runScheduled(cmd, gen, groups)
	},
}

func runReport(ctx context.Context, cmd *cobra.Command, gen *report.Generator, groups []report.Group, date string) error {
	if date == "" {
		date = time.Now().Format(market.DateLayout)
	}
	path, content, err := gen.Generate(ctx, groups, date, reportForce)
	if err != nil {
		return err
	}
	if reportOnly {
		fmt.Fprint(cmd.OutOrStdout(), content)
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "report written to %s\n\n%s", path, content)
	}

	if !reportEmail {
		return nil
	}
	return emailReport(date, content)
}

func emailReport(date, content string) error {
	m, err := mailer.New(cfg.SMTP)
	if err != nil {
		return err
	}
	to, bcc, err := mailer.ReadEmailList(cfg.Report.EmailFile)
	if err != nil {
		return err
	}
	title := fmt.Sprintf("Market Analysis Report (%s)", date)
	html, err := report.HTML(title, content)
	if err != nil {
		return err
	}
	return m.SendReport(to, bcc, date, html)
}

// runScheduled regenerates (and mails) the report on the cron schedule until
// interrupted. A failed run alerts the To list instead of killing the
// daemon.
func runScheduled(cmd *cobra.Command, gen *report.Generator, groups []report.Group) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c := cron.New()
	_, err := c.AddFunc(schedule, func() {
		// Scheduled runs always rebuild for the current day.
		reportForce = true
		if err := runReport(ctx, cmd, gen, groups, ""); err != nil {
			log.Error().Err(err).Msg("scheduled report failed")
			alertFailure(err)
		}
	})
	if err != nil {
		return fmt.Errorf("bad --schedule %q: %w", schedule, err)
	}

	log.Info().Str("schedule", schedule).Msg("report daemon started")
	c.Start()
	<-ctx.Done()
	<-c.Stop().Done()
	return nil
}

func alertFailure(runErr error) {
	m, err := mailer.New(cfg.SMTP)
	if err != nil {
		log.Warn().Err(err).Msg("cannot send failure alert")
		return
	}
	to, _, err := mailer.ReadEmailList(cfg.Report.EmailFile)
	if err != nil {
		log.Warn().Err(err).Msg("cannot read email list for alert")
		return
	}
	if err := m.SendErrorAlert(to, runErr); err != nil {
		log.Warn().Err(err).Msg("failure alert not delivered")
	}
}
