package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/nao1215/webcrawler/internal/config"
	"github.com/nao1215/webcrawler/internal/database"
	"github.com/nao1215/webcrawler/internal/report"
)

// defaultHistoryLimit is how many runs history lists without -n.
const defaultHistoryLimit = 20

// NewHistoryCmd creates the history command.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recorded crawl runs",
		Long: `History lists the crawl runs recorded with "webcrawler crawl --save",
newest first, as a Markdown table.

The history directory is taken from --dir, then from historyDir in the
configuration file, and finally defaults to the XDG data directory.

Examples:
  # List the 20 most recent runs
  webcrawler history

  # List every run
  webcrawler history -n 0

  # Show the result and profile of run 3
  webcrawler history --id 3`,
		Args: cobra.NoArgs,
		RunE: runHistoryCmd,
	}

	cmd.Flags().IntP("limit", "n", defaultHistoryLimit,
		"Maximum number of runs to list (0 lists all)")
	cmd.Flags().Int64("id", 0,
		"Show the result and profile of a single run")
	cmd.Flags().String("dir", "",
		"History database directory")
	cmd.Flags().StringP("config", "c", "",
		"Configuration file to read historyDir from (default: webcrawler.yaml)")

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return err
	}

	id, err := cmd.Flags().GetInt64("id")
	if err != nil {
		return err
	}

	dir, err := resolveHistoryDir(cmd)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	ctx := cmd.Context()

	// Listing must not create a database as a side effect.
	if _, err := os.Stat(filepath.Join(dir, database.FileName)); errors.Is(err, os.ErrNotExist) {
		if id != 0 {
			return fmt.Errorf("%w: %d", database.ErrRunNotFound, id)
		}
		return report.WriteHistory(out, nil)
	}

	db, err := database.Open(dir, database.Options{EnableWAL: true})
	if err != nil {
		return fmt.Errorf("failed to open history database: %w", err)
	}
	defer db.Close() //nolint:errcheck // read-only use

	if id != 0 {
		return showRun(ctx, db, id, out)
	}

	runs, err := db.ListRuns(ctx, limit)
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}
	return report.WriteHistory(out, runs)
}

// resolveHistoryDir picks the history directory from the flags, then the
// configuration file, then the XDG data directory.
func resolveHistoryDir(cmd *cobra.Command) (string, error) {
	dir, err := cmd.Flags().GetString("dir")
	if err != nil {
		return "", err
	}
	if dir != "" {
		return dir, nil
	}

	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return "", err
	}

	// An explicitly named configuration file must exist; the default
	// lookup silently falls back when nothing is found.
	found := config.FindConfigFile(configPath)
	if found == "" && configPath != "" {
		return "", fmt.Errorf("%w: %s", config.ErrConfigNotFound, configPath)
	}
	if found != "" {
		cfg, err := config.Load(found)
		if err != nil {
			return "", fmt.Errorf("configuration error: %w", err)
		}
		if cfg.HistoryDir != "" {
			return cfg.HistoryDir, nil
		}
	}

	return config.XDGDataDir(), nil
}

// showRun writes the result and the profile of one recorded run.
func showRun(ctx context.Context, db *database.HistoryDB, id int64, out io.Writer) error {
	run, err := db.GetRun(ctx, id)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Run %d (%s, %s, %s)\n\n",
		run.ID, run.Implementation, run.StartedAt.Format("2006-01-02 15:04:05 MST"), run.Duration)

	writer, err := report.NewWriter(config.FormatText, out)
	if err != nil {
		return err
	}
	if _, err := writer.Write(run.Result); err != nil {
		return fmt.Errorf("failed to write result: %w", err)
	}

	fmt.Fprintln(out)
	_, err = io.WriteString(out, run.Profile)
	return err
}
