package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/runnerr0/phishurl/internal/config"
	"github.com/runnerr0/phishurl/internal/ingest"
	"github.com/runnerr0/phishurl/internal/logging"
	"github.com/runnerr0/phishurl/internal/report"
	"github.com/runnerr0/phishurl/internal/source"
	"github.com/runnerr0/phishurl/internal/storage"
)

// resolveConfig merges the config file, environment and flags, in that order
// of increasing precedence.
func resolveConfig(opts *Options) (*config.Config, error) {
	cfg, err := config.Resolve(opts.Config)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	if opts.Root != "" {
		cfg.Input.Root = opts.Root
	}
	if opts.Out != "" {
		cfg.Output.File = opts.Out
	}
	if opts.Driver != "" {
		cfg.Storage.Driver = opts.Driver
	}
	if opts.Report != "" {
		cfg.Report.Markdown = opts.Report
	}
	if opts.Strict {
		cfg.Ingest.FailOnDecodeError = true
		cfg.Ingest.FailOnInvalidRecord = true
	}
	if opts.Verbose && logging.ParseLevel(cfg.Logging.Level) > slog.LevelInfo {
		cfg.Logging.Level = "info"
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// execute performs one load run: enumerate, parse and insert into an
// in-memory store, then persist it to the output file. Skip diagnostics go
// to stdout; logs and the verbose summary go to stderr.
func execute(ctx context.Context, opts *Options, stdout, stderr io.Writer) error {
	cfg, err := resolveConfig(opts)
	if err != nil {
		return err
	}

	logger := logging.Setup(stderr, cfg.Logging.Level, cfg.Logging.Format)

	store, err := storage.OpenMemory(cfg.Storage.Driver)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer store.Close()

	loader := ingest.NewLoader(store, ingest.NewDiagnostics(stdout),
		ingest.WithPolicy(ingest.Policy{
			FailOnDecode:  cfg.Ingest.FailOnDecodeError,
			FailOnInvalid: cfg.Ingest.FailOnInvalidRecord,
		}),
		ingest.WithLogger(logger),
	)

	sum, err := loader.Run(ctx, source.New(cfg.Input.Root).Paths())
	if err != nil {
		return err
	}

	if err := store.Persist(ctx, cfg.Output.File); err != nil {
		return err
	}
	logger.Info("database written", "path", cfg.Output.File, "rows", sum.Inserted)

	if cfg.Report.Markdown == "" && !opts.Verbose {
		return nil
	}

	stats, err := store.GetStats(ctx)
	if err != nil {
		return fmt.Errorf("get stats: %w", err)
	}

	if cfg.Report.Markdown != "" {
		hosts, err := store.HostCounts(ctx)
		if err != nil {
			return fmt.Errorf("count hosts: %w", err)
		}
		run := &report.Run{
			Root:    cfg.Input.Root,
			Output:  cfg.Output.File,
			Summary: sum,
			Stats:   stats,
			Hosts:   hosts,
		}
		if err := report.WriteFile(cfg.Report.Markdown, run); err != nil {
			return err
		}
		logger.Info("report written", "path", cfg.Report.Markdown)
	}

	if opts.Verbose {
		printSummary(stderr, cfg, sum, stats)
	}
	return nil
}

// printSummary writes a human-readable run summary.
func printSummary(w io.Writer, cfg *config.Config, sum *ingest.Summary, stats *storage.Stats) {
	var size int64
	if info, err := os.Stat(cfg.Output.File); err == nil {
		size = info.Size()
	}

	fmt.Fprintln(w, "phishurl run")
	fmt.Fprintln(w, "============")
	fmt.Fprintf(w, "Run ID:        %s\n", sum.RunID)
	fmt.Fprintf(w, "Root:          %s\n", cfg.Input.Root)
	fmt.Fprintf(w, "Database:      %s (%s)\n", cfg.Output.File, formatBytes(size))
	fmt.Fprintf(w, "Files:         %s\n", formatNumber(int64(sum.Files)))
	fmt.Fprintf(w, "Records:       %s\n", formatNumber(int64(sum.Records)))

	if sum.Records > 0 {
		pct := float64(sum.Inserted) / float64(sum.Records) * 100
		fmt.Fprintf(w, "Inserted:      %s (%.1f%%)\n", formatNumber(int64(sum.Inserted)), pct)
	} else {
		fmt.Fprintf(w, "Inserted:      %s\n", formatNumber(int64(sum.Inserted)))
	}
	fmt.Fprintf(w, "Skipped:       %s\n", formatNumber(int64(sum.Skipped())))

	if stats.TotalRows > 0 {
		fmt.Fprintf(w, "Oldest:        %s\n", stats.OldestDate.Format("2006-01-02"))
		fmt.Fprintf(w, "Newest:        %s\n", stats.NewestDate.Format("2006-01-02"))
	}

	if len(stats.TopHosts) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Top Hosts:")
		for _, h := range stats.TopHosts {
			fmt.Fprintf(w, "  %-30s %s\n", h.Host, formatNumber(h.Count))
		}
	}

	fmt.Fprintf(w, "\nDuration:      %s\n", formatDuration(sum.Duration()))
}
