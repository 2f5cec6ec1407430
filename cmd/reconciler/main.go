package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/k0kubun/pp/v3"
	"github.com/spf13/cobra"
	"github.com/subosito/gotenv"

	"github.com/MVCVLLVN/reconciler/pkg/config"
	"github.com/MVCVLLVN/reconciler/pkg/runner"
	"github.com/MVCVLLVN/reconciler/pkg/store"
)

var (
	cfgFile string
	nowFlag string
	debug   bool
)

var rootCmd = &cobra.Command{
	Use:   "reconciler",
	Short: "Daily transaction reconciliation exports",
	RunE: func(cmd *cobra.Command, _ []string) error {
		// Show help when no subcommand is provided
		return cmd.Help()
	},
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Reconcile yesterday's transactions for every configured client",
	RunE: func(cmd *cobra.Command, _ []string) error {
		logger := log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			Prefix:          "reconciler",
		})
		if debug {
			logger.SetLevel(log.DebugLevel)
		}

		cfg, err := config.Load(cfgFile, cmd.Flags())
		if err != nil {
			return err
		}
		if debug {
			fmt.Println(pp.Sprint(cfg))
		}
		if cfg.DatabaseURL == "" {
			return fmt.Errorf("no database dsn configured (flag --dsn, env RECONCILER_DATABASE_URL or config file)")
		}

		now := time.Now()
		if nowFlag != "" {
			now, err = time.Parse(time.RFC3339, nowFlag)
			if err != nil {
				return fmt.Errorf("invalid --now value: %w", err)
			}
		}

		ctx := context.Background()
		conn, err := store.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer conn.Close()

		r := runner.New(runner.RunContext{
			Fetcher: store.NewClient(conn, logger),
			Config:  cfg,
			Now:     now,
			Logger:  logger,
		})
		outcomes, err := r.Run(ctx)
		if err != nil {
			return err
		}

		printSummary(outcomes)
		return nil
	},
}

func printSummary(outcomes []runner.Outcome) {
	writtenStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("10")) // green
	emptyStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("8"))    // gray
	failedStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("9"))   // red

	written, empty, failed := 0, 0, 0
	for _, o := range outcomes {
		switch o.Status {
		case runner.StatusWritten:
			written++
			line := fmt.Sprintf("+ client %d | %d row(s) | %s", o.ClientID, o.Rows, o.Path)
			fmt.Println(writtenStyle.Render(line))
		case runner.StatusEmpty:
			empty++
			fmt.Println(emptyStyle.Render(fmt.Sprintf("= client %d | nothing to export", o.ClientID)))
		case runner.StatusFailed:
			failed++
			fmt.Println(failedStyle.Render(fmt.Sprintf("! client %d | %v", o.ClientID, o.Err)))
		}
	}
	fmt.Printf("\nRun: %d written, %d empty, %d failed\n", written, empty, failed)
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "Config file (yaml)")

	runCmd.Flags().String("dsn", "", "ClickHouse connection string")
	runCmd.Flags().StringP("output", "o", "", "Output directory for report files")
	runCmd.Flags().StringVar(&nowFlag, "now", "", "Override the wall clock (RFC3339), e.g. to repeat a past window")
	runCmd.Flags().BoolVar(&debug, "debug", false, "Verbose logging and a dump of the effective config")

	rootCmd.AddCommand(runCmd)
}

func main() {
	// Optional .env for local development; missing files are fine.
	_ = gotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
