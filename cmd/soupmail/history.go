package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/nao1215/soupmail/internal/config"
	"github.com/nao1215/soupmail/internal/history"
	"github.com/nao1215/soupmail/internal/model"
	"github.com/nao1215/soupmail/internal/report"
)

// defaultHistoryLimit is how many deliveries `history` lists by default.
const defaultHistoryLimit = 20

// NewHistoryCmd creates the history command.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show past deliveries",
		Long: `History lists the messages recorded by previous send runs, newest first.

Each entry shows when it ran, whether the content came from the model or the
fallback pool, how many attempts it took and whether the mail went out.
Recipient addresses are never stored.

Examples:
  # Last 20 runs
  soupmail history

  # One run with its full content
  soupmail history --id 42 -v

  # Markdown report to a file
  soupmail history --markdown --limit 100 -o report.md`,
		Args: cobra.NoArgs,
		RunE: runHistoryCmd,
	}

	cmd.Flags().StringP("config", "c", "",
		"Settings file path (default: .soupmail.yaml in current or home directory)")
	cmd.Flags().IntP("limit", "l", defaultHistoryLimit,
		"Maximum number of deliveries to show (0 for all)")
	cmd.Flags().Int64("id", 0,
		"Show a single delivery by ID")
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write the report to a file instead of stdout")

	return cmd
}

// historyOptions are the parsed flags of the history command.
type historyOptions struct {
	limit    int
	id       int64
	json     bool
	markdown bool
	output   string
	verbose  bool
}

func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	cfg := config.NewConfig()

	var err error
	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return err
	}
	if err := applySettingsFile(cfg); err != nil {
		return err
	}

	var opts historyOptions
	if opts.limit, err = cmd.Flags().GetInt("limit"); err != nil {
		return err
	}
	if opts.id, err = cmd.Flags().GetInt64("id"); err != nil {
		return err
	}
	if opts.json, err = cmd.Flags().GetBool("json"); err != nil {
		return err
	}
	if opts.markdown, err = cmd.Flags().GetBool("markdown"); err != nil {
		return err
	}
	if opts.output, err = cmd.Flags().GetString("output"); err != nil {
		return err
	}
	opts.verbose = getVerboseFlag(cmd)

	if err := config.CheckReportFormats(opts.json, opts.markdown); err != nil {
		return err
	}

	return showHistory(cmd.Context(), cfg.HistoryDir, opts, cmd.OutOrStdout())
}

// showHistory reads deliveries from the database in dir and writes a report.
func showHistory(ctx context.Context, dir string, opts historyOptions, stdout io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}

	// Do not create an empty database just to report that it is empty.
	store, err := history.Open(dir, history.Options{EnableWAL: true})
	if err != nil {
		if _, statErr := os.Stat(filepath.Join(dir, history.DBFile)); errors.Is(statErr, os.ErrNotExist) {
			fmt.Fprintln(stdout, "No deliveries recorded yet.")
			return nil
		}
		return fmt.Errorf("failed to open history: %w", err)
	}
	defer store.Close()

	var deliveries []model.Delivery
	if opts.id > 0 {
		d, err := store.Get(ctx, opts.id)
		if err != nil {
			return fmt.Errorf("delivery %d: %w", opts.id, err)
		}
		deliveries = []model.Delivery{*d}
		opts.verbose = true
	} else {
		deliveries, err = store.List(ctx, opts.limit)
		if err != nil {
			return err
		}
	}

	out := stdout
	if opts.output != "" {
		if dir := filepath.Dir(opts.output); dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
		}
		// History holds message content, so keep the file owner-only.
		f, err := os.OpenFile(opts.output, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	_, err = newReportWriter(out, opts).Write(deliveries)
	return err
}

func newReportWriter(w io.Writer, opts historyOptions) report.Writer {
	switch {
	case opts.json:
		return report.NewJSONWriter(w, report.WithPrettyPrint(), report.WithVersion(getVersion()))
	case opts.markdown:
		return report.NewMarkdownWriter(w)
	default:
		return report.NewSimpleWriter(w, report.WithVerbose(opts.verbose))
	}
}
