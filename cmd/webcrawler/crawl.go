package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/nao1215/webcrawler/internal/config"
	"github.com/nao1215/webcrawler/internal/crawler"
	"github.com/nao1215/webcrawler/internal/database"
	"github.com/nao1215/webcrawler/internal/model"
	"github.com/nao1215/webcrawler/internal/parser"
	"github.com/nao1215/webcrawler/internal/profiler"
	"github.com/nao1215/webcrawler/internal/report"
)

// requestTimeout bounds a single fetch. The crawl deadline only stops new
// fetches from starting, so a hung server would otherwise hold a worker
// until the process is interrupted.
const requestTimeout = 30 * time.Second

// NewCrawlCmd creates the crawl command.
func NewCrawlCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crawl <config-file>",
		Short: "Crawl the web and count popular words",
		Long: `Crawl reads a configuration file (YAML or JSON), crawls the web from its
start pages, and writes the most popular words followed by a profiling report.

The crawl follows links up to maxDepth pages from a start page and stops
starting new fetches once timeoutSeconds have elapsed. Pages that fail to
load are logged and skipped.

Examples:
  # Crawl with a configuration file
  webcrawler crawl webcrawler.yaml

  # Print a human readable result instead of JSON
  webcrawler crawl --format text webcrawler.yaml

  # Record the run in the history database
  webcrawler crawl --save webcrawler.yaml`,
		Args: cobra.ArbitraryArgs,
		RunE: runCrawlCmd,
	}

	cmd.Flags().StringP("format", "f", "",
		"Result format: json, text or markdown (overrides resultFormat)")
	cmd.Flags().BoolP("save", "s", false,
		"Record the run in the history database")
	cmd.Flags().String("history-dir", "",
		"History database directory (default: XDG data directory)")

	return cmd
}

// crawlOptions are the command line settings that are not part of Config.
type crawlOptions struct {
	save       bool
	historyDir string
}

// runCrawlCmd executes the crawl command.
func runCrawlCmd(cmd *cobra.Command, args []string) error {
	// A wrong invocation prints usage and is not treated as a failure.
	if len(args) != 1 {
		return cmd.Usage()
	}

	logger := newLogger(cmd)
	slog.SetDefault(logger)

	cfg, err := config.Load(args[0])
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	opts, err := applyCrawlFlags(cmd, cfg)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	// Handle interrupt signals
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

	return runCrawl(ctx, cfg, opts, cmd.OutOrStdout(), logger)
}

// applyCrawlFlags copies command line overrides into cfg.
func applyCrawlFlags(cmd *cobra.Command, cfg *config.Config) (crawlOptions, error) {
	var opts crawlOptions

	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return opts, err
	}
	if format != "" {
		cfg.ResultFormat = format
	}

	opts.save, err = cmd.Flags().GetBool("save")
	if err != nil {
		return opts, err
	}

	opts.historyDir, err = cmd.Flags().GetString("history-dir")
	if err != nil {
		return opts, err
	}
	if opts.historyDir == "" {
		opts.historyDir = cfg.HistoryDir
	}
	if opts.historyDir != "" {
		opts.save = true
	}
	if opts.save && opts.historyDir == "" {
		opts.historyDir = config.XDGDataDir()
	}

	return opts, nil
}

// runCrawl performs one crawl described by cfg and writes its outputs.
func runCrawl(ctx context.Context, cfg *config.Config, opts crawlOptions, stdout io.Writer, logger *slog.Logger) error {
	ignoredURLs, err := cfg.IgnoredURLRules()
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}
	ignoredWords, err := cfg.IgnoredWordRules()
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	client, err := parser.NewHTTPClient(parser.ClientConfig{
		ProxyAddress: cfg.ProxyAddress,
		Timeout:      requestTimeout,
		UserAgent:    cfg.UserAgent,
		Headers:      cfg.Headers,
		Cookie:       cfg.Cookie,
	})
	if err != nil {
		return fmt.Errorf("failed to create HTTP client: %w", err)
	}

	pageParser := parser.New(
		parser.WithHTTPClient(client),
		parser.WithRequestsPerSecond(cfg.RequestsPerSecond),
		parser.WithIgnoredWords(ignoredWords),
		parser.WithMaxBodySize(cfg.MaxBodySize),
		parser.WithLogger(logger),
	)

	prof := profiler.New()
	profiledParser, err := crawler.NewProfiledParser(prof, pageParser)
	if err != nil {
		return err
	}

	crawlerOpts := []crawler.Option{
		crawler.WithTimeout(cfg.Timeout()),
		crawler.WithMaxDepth(cfg.MaxDepth),
		crawler.WithPopularWordCount(cfg.PopularWordCount),
		crawler.WithParallelism(cfg.Parallelism),
		crawler.WithIgnoreRules(ignoredURLs),
		crawler.WithLogger(logger),
	}

	implementation := cfg.ImplementationOverride
	if implementation == "" {
		implementation = config.ImplementationParallel
	}

	var target crawler.WebCrawler
	switch implementation {
	case config.ImplementationSequential:
		target = crawler.NewSequentialCrawler(profiledParser, crawlerOpts...)
	default:
		target = crawler.NewParallelCrawler(profiledParser, crawlerOpts...)
	}

	webCrawler, err := crawler.NewProfiledCrawler(prof, target)
	if err != nil {
		return err
	}

	logger.Debug("crawler ready",
		"implementation", implementation,
		"maxParallelism", webCrawler.MaxParallelism(),
		"startPages", len(cfg.StartPages),
	)

	startedAt := time.Now()
	result, crawlErr := webCrawler.Crawl(ctx, cfg.StartPages)
	duration := time.Since(startedAt)
	if crawlErr != nil && !errors.Is(crawlErr, context.Canceled) {
		return fmt.Errorf("crawl failed: %w", crawlErr)
	}

	// An interrupted crawl still reports what it collected.
	if err := writeResult(cfg, result, stdout); err != nil {
		return err
	}

	var profile bytes.Buffer
	if _, err := prof.WriteTo(&profile); err != nil {
		return fmt.Errorf("failed to render profile: %w", err)
	}
	if err := writeProfile(prof, cfg.ProfileOutputPath, profile.Bytes(), stdout); err != nil {
		return err
	}

	if opts.save {
		run := &database.Run{
			StartedAt:      startedAt,
			Duration:       duration,
			Implementation: implementation,
			StartPages:     cfg.StartPages,
			Result:         result,
			Profile:        profile.String(),
		}
		if err := saveRun(ctx, opts.historyDir, run); err != nil {
			return err
		}
		logger.Info("run recorded", "id", run.ID, "dir", opts.historyDir)
	}

	if crawlErr != nil {
		return fmt.Errorf("crawl interrupted: %w", crawlErr)
	}
	return nil
}

// writeResult writes result to cfg.ResultPath, or stdout when it is empty.
func writeResult(cfg *config.Config, result *model.CrawlResult, stdout io.Writer) (err error) {
	output, err := report.Open(cfg.ResultPath, stdout)
	if err != nil {
		return fmt.Errorf("failed to open result output: %w", err)
	}
	defer func() {
		if closeErr := output.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close result output: %w", closeErr)
		}
	}()

	writer, err := report.NewWriter(cfg.ResultFormat, output)
	if err != nil {
		return err
	}
	if _, err := writer.Write(result); err != nil {
		return fmt.Errorf("failed to write result: %w", err)
	}
	return nil
}

// writeProfile writes the rendered profile to stdout when path is empty,
// and otherwise lets the profiler append it to path.
func writeProfile(prof *profiler.Profiler, path string, rendered []byte, stdout io.Writer) error {
	if path != "" {
		return prof.WriteFile(path)
	}
	if _, err := stdout.Write(rendered); err != nil {
		return fmt.Errorf("failed to write profile: %w", err)
	}
	return nil
}

// saveRun records run in the history database under dir.
func saveRun(ctx context.Context, dir string, run *database.Run) (err error) {
	db, err := database.Open(dir, database.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open history database: %w", err)
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close history database: %w", closeErr)
		}
	}()

	// The crawl context may already be cancelled; the record is still kept.
	if _, err := db.SaveRun(context.WithoutCancel(ctx), run); err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}
	return nil
}
