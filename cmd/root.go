// Package cmd defines and implements the CLI commands for the siteaudit
// executable.
package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/flowopt/siteaudit/internal/audit"
	"github.com/flowopt/siteaudit/internal/config"
	"github.com/flowopt/siteaudit/internal/fetch"
	"github.com/flowopt/siteaudit/internal/logging"
	"github.com/flowopt/siteaudit/internal/report"
)

type rootFlags struct {
	cfgFile   string
	jsonOut   bool
	outPath   string
	pdfPath   string
	timeout   float64
	userAgent string
}

// newRootCmd creates and configures the root command. The root command runs
// a single audit; `serve` starts the HTTP API.
func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:   "siteaudit <url>",
		Short: "Audit a website's automation potential (heuristic triage).",
		Long: `siteaudit fetches a single web page plus robots.txt and sitemap.xml,
inspects the HTML for automation-relevant signals (forms, anti-bot hints,
structured data, feeds, API hints, platform fingerprints) and combines them
into a 0-100 automation-potential score with a recommendation.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAudit(cmd, args[0], flags)
		},
	}

	cmd.PersistentFlags().StringVar(&flags.cfgFile, "config", "", "config file path")
	cmd.Flags().BoolVar(&flags.jsonOut, "json", false, "print JSON to stdout instead of the table view")
	cmd.Flags().StringVar(&flags.outPath, "out", "", "write the JSON report to a file")
	cmd.Flags().StringVar(&flags.pdfPath, "pdf", "", "write a PDF report to a file")
	cmd.Flags().Float64Var(&flags.timeout, "timeout", 12.0, "per-request timeout in seconds")
	cmd.Flags().StringVar(&flags.userAgent, "user-agent", audit.DefaultUserAgent, "User-Agent header")

	cmd.AddCommand(newServeCmd(flags))

	return cmd
}

// loadConfig merges the config file with flag overrides. Explicitly set
// flags win over file and environment values.
func loadConfig(cmd *cobra.Command, flags *rootFlags) (config.Config, error) {
	cfg, err := config.Load(flags.cfgFile)
	if err != nil {
		return config.Config{}, err
	}
	if cmd.Flags().Changed("timeout") {
		cfg.Audit.TimeoutSeconds = flags.timeout
	}
	if cmd.Flags().Changed("user-agent") {
		cfg.Audit.UserAgent = flags.userAgent
	}
	return cfg, cfg.Validate()
}

func runAudit(cmd *cobra.Command, rawURL string, flags *rootFlags) error {
	cfg, err := loadConfig(cmd, flags)
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.Logging.Development)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	fetcher := fetch.New(fetch.Config{
		UserAgent: cfg.Audit.UserAgent,
		Timeout:   cfg.Timeout(),
	}, logger)
	auditor := audit.New(fetcher, audit.Config{
		Timeout:   cfg.Timeout(),
		UserAgent: cfg.Audit.UserAgent,
	}, logger)

	// An unreachable site still yields a completed (degraded) report; only
	// invalid input aborts the run.
	rep, err := auditor.Audit(cmd.Context(), rawURL)
	if err != nil {
		return fmt.Errorf("invalid url: %w", err)
	}

	if flags.outPath != "" {
		payload, err := report.JSON(rep, time.Now())
		if err != nil {
			return err
		}
		if err := os.WriteFile(flags.outPath, payload, 0o644); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
		logger.Info("report written", zap.String("path", flags.outPath))
	}

	if flags.pdfPath != "" {
		doc, err := report.PDF(rep, time.Now())
		if err != nil {
			return err
		}
		if err := os.WriteFile(flags.pdfPath, doc, 0o644); err != nil {
			return fmt.Errorf("write pdf: %w", err)
		}
		logger.Info("pdf written", zap.String("path", flags.pdfPath))
	}

	if flags.jsonOut {
		payload, err := report.JSON(rep, time.Time{})
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(payload)
		return err
	}
	return report.Console(cmd.OutOrStdout(), rep)
}

// Execute is the main entry point.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
