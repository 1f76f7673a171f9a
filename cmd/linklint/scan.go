package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/nao1215/linklint/internal/checker"
	"github.com/nao1215/linklint/internal/config"
	"github.com/nao1215/linklint/internal/database"
	"github.com/nao1215/linklint/internal/log"
	"github.com/nao1215/linklint/internal/pipeline"
	"github.com/nao1215/linklint/internal/report"
)

// NewScanCmd creates the scan command.
func NewScanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan [site-root]",
		Short: "Check all links in a static site output directory",
		Long: `Scan walks a static site output directory and validates every link.

It extracts references from each HTML document:
- <a href>, <img src>, <link rel="stylesheet" href>, <script src>

Local references are resolved against the filesystem. External URLs
are probed with HTTP HEAD requests through a bounded worker pool,
with duplicate URLs validated only once per run.

Results are printed to the terminal and written to the reports
directory as timestamped JSON and Markdown files, with latest.json and
latest.md aliases pointing at the newest run.

Examples:
  # Check the ./public directory
  linklint scan

  # Check a specific directory
  linklint scan dist

  # Record the public URL and fail the build on broken links
  linklint scan --base-url https://example.com --strict public

  # Use a named site entry from .linklint
  linklint scan --site blog.example.com

Configuration file (.linklint) example:
  defaults:
    timeout: 10s
    concurrency: 10
  sites:
    blog.example.com:
      root: public
      baseURL: https://blog.example.com
      maxRetries: 3`,
		Args: cobra.MaximumNArgs(1),
		RunE: runScanCmd,
	}

	// Validation behavior flags
	cmd.Flags().StringP("base-url", "b", "",
		"Public URL of the site, recorded in reports and used for protocol-relative links")
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Timeout for each external HEAD request")
	cmd.Flags().IntP("retries", "r", config.DefaultMaxRetries,
		"Number of retries for timed-out or failed external requests")
	cmd.Flags().Duration("retry-backoff", config.DefaultRetryBackoff,
		"Pause between retries of an external request")
	cmd.Flags().IntP("concurrency", "p", config.DefaultConcurrency,
		"Maximum number of external validations in flight at once")
	cmd.Flags().String("user-agent", config.DefaultUserAgent,
		"User-Agent header sent with external requests")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .linklint in current or home directory)")
	cmd.Flags().StringP("site", "s", "",
		"Named site entry from the configuration file to apply")

	// Report flags
	cmd.Flags().StringP("report-dir", "o", config.DefaultReportDir,
		"Directory for JSON and Markdown report artifacts")
	cmd.Flags().BoolP("json", "j", false,
		"Print the JSON report to stdout instead of the text summary")
	cmd.Flags().BoolP("markdown", "m", false,
		"Print the Markdown report to stdout instead of the text summary")

	// CI and history flags
	cmd.Flags().Bool("strict", false,
		"Exit non-zero when broken links are found")
	cmd.Flags().Bool("no-history", false,
		"Do not record this run in the history database")

	return cmd
}

// runScanCmd executes the scan command.
func runScanCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := log.NewLogger(cmd.ErrOrStderr(), cfg.Verbose)
	slog.SetDefault(logger)

	// Set up context with signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			logger.Info("received shutdown signal, cancelling...")
			cancel()
		case <-ctx.Done():
		}
	}()

	return runScan(ctx, cmd, cfg, logger)
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildConfig creates a Config from cobra command flags and the
// optional configuration file.
//
// Precedence, lowest to highest: built-in defaults, the config file
// defaults section, the selected site entry, explicitly set flags,
// and finally the positional site-root argument.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()

	var err error
	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	siteName, err := cmd.Flags().GetString("site")
	if err != nil {
		return nil, err
	}

	// If the user explicitly specified a config file path, error if not
	// found. If no path was specified, silently run without a file.
	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)

	switch {
	case configPath != "":
		cfg.SiteConfigs, err = config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	case explicitConfigPath:
		return nil, fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
	default:
		cfg.SiteConfigs = &config.File{
			Sites: make(map[string]config.SiteConfig),
		}
	}

	if siteName != "" {
		if _, ok := cfg.SiteConfigs.Sites[siteName]; !ok {
			return nil, fmt.Errorf("site %q not found in configuration file", siteName)
		}
	}
	cfg.ApplySite(cfg.SiteConfigs.GetSiteConfig(siteName))

	if err := applyFlags(cmd, cfg); err != nil {
		return nil, err
	}

	// Positional argument wins over everything
	if len(args) > 0 {
		cfg.Root = args[0]
	}

	cfg.Verbose = getVerboseFlag(cmd)

	cfg.Strict, err = cmd.Flags().GetBool("strict")
	if err != nil {
		return nil, err
	}

	noHistory, err := cmd.Flags().GetBool("no-history")
	if err != nil {
		return nil, err
	}
	cfg.SaveToDB = !noHistory
	cfg.DBDir = config.XDGDataDir()

	return cfg, nil
}

// applyFlags overlays flag values the user explicitly set onto cfg.
// Unchanged flags keep whatever the config file resolved.
func applyFlags(cmd *cobra.Command, cfg *config.Config) error {
	var err error

	if cmd.Flags().Changed("base-url") {
		if cfg.BaseURL, err = cmd.Flags().GetString("base-url"); err != nil {
			return err
		}
	}
	if cmd.Flags().Changed("timeout") {
		if cfg.Timeout, err = cmd.Flags().GetDuration("timeout"); err != nil {
			return err
		}
	}
	if cmd.Flags().Changed("retries") {
		if cfg.MaxRetries, err = cmd.Flags().GetInt("retries"); err != nil {
			return err
		}
	}
	if cmd.Flags().Changed("retry-backoff") {
		if cfg.RetryBackoff, err = cmd.Flags().GetDuration("retry-backoff"); err != nil {
			return err
		}
	}
	if cmd.Flags().Changed("concurrency") {
		if cfg.Concurrency, err = cmd.Flags().GetInt("concurrency"); err != nil {
			return err
		}
	}
	if cmd.Flags().Changed("user-agent") {
		if cfg.UserAgent, err = cmd.Flags().GetString("user-agent"); err != nil {
			return err
		}
	}
	if cmd.Flags().Changed("report-dir") {
		if cfg.ReportDir, err = cmd.Flags().GetString("report-dir"); err != nil {
			return err
		}
	}

	return nil
}

// runScan executes the link check.
func runScan(ctx context.Context, cmd *cobra.Command, cfg *config.Config, logger *slog.Logger) error {
	logger.Info("starting link check",
		"root", cfg.Root,
		"concurrency", cfg.Concurrency,
		"timeout", cfg.Timeout,
		"saveToDB", cfg.SaveToDB,
	)

	crawl := pipeline.NewCrawl(cfg.Root, cfg.BaseURL)
	crawl.Progress = cmd.OutOrStdout()

	local := checker.NewLocalResolver(crawl.Root)
	external := checker.NewExternalValidator(
		&http.Client{Timeout: cfg.Timeout},
		checker.WithUserAgent(cfg.UserAgent),
		checker.WithBaseScheme(baseScheme(cfg.BaseURL)),
		checker.WithRetries(cfg.MaxRetries, cfg.RetryBackoff),
	)

	p := pipeline.New(pipeline.WithLogger(logger))
	p.AddSteps(
		pipeline.NewDiscoverStep(logger),
		pipeline.NewExtractStep(logger),
		pipeline.NewValidateStep(local, external, cfg.Concurrency, logger),
	)

	startTime := time.Now()
	if err := p.Execute(ctx, crawl); err != nil {
		return err
	}
	logger.Info("link check finished",
		"elapsed", time.Since(startTime).Round(time.Millisecond),
		"total", crawl.Result.Total,
		"broken", crawl.Result.Broken,
	)

	if err := outputReport(cmd, cfg, crawl); err != nil {
		return err
	}

	// Report artifacts are the run's product; failing to write them
	// fails the run.
	artifacts := report.NewArtifacts(cfg.ReportDir, getVersion())
	jsonPath, mdPath, err := artifacts.WriteAll(crawl.Result)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Reports written to %s and %s\n", jsonPath, mdPath)

	if cfg.SaveToDB {
		if err := saveRun(ctx, cfg, crawl, logger); err != nil {
			logger.Error("failed to save run history", "error", err)
		}
	}

	if cfg.Strict && crawl.Result.Broken > 0 {
		return fmt.Errorf("%d broken link(s) found", crawl.Result.Broken)
	}

	return nil
}

// baseScheme extracts the scheme of the configured base URL for
// protocol-relative link validation. Defaults to https.
func baseScheme(baseURL string) string {
	if baseURL == "" {
		return "https"
	}
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" {
		return "https"
	}
	return u.Scheme
}

// outputReport prints the run result to stdout in the requested format.
func outputReport(cmd *cobra.Command, cfg *config.Config, crawl *pipeline.Crawl) error {
	jsonOutput, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}
	markdownOutput, err := cmd.Flags().GetBool("markdown")
	if err != nil {
		return err
	}
	if jsonOutput && markdownOutput {
		return errors.New("--json and --markdown are mutually exclusive")
	}

	var writer report.Writer
	switch {
	case jsonOutput:
		writer = report.NewJSONWriter(cmd.OutOrStdout(),
			report.WithPrettyPrint(), report.WithVersion(getVersion()))
	case markdownOutput:
		writer = report.NewMarkdownWriter(cmd.OutOrStdout())
	default:
		writer = report.NewSimpleWriter(cmd.OutOrStdout(),
			report.WithVerbose(cfg.Verbose))
	}

	_, err = writer.Write(crawl.Result)
	return err
}

// saveRun records the finished run in the history database.
func saveRun(ctx context.Context, cfg *config.Config, crawl *pipeline.Crawl, logger *slog.Logger) error {
	db, err := database.Open(cfg.DBDir, database.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() { _ = db.Close() }()

	runID, err := db.SaveRun(ctx, crawl.Result)
	if err != nil {
		return err
	}

	logger.Info("run saved to history", "id", runID, "dir", cfg.DBDir)
	return nil
}
