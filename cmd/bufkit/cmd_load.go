package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/couchcryptid/bufkit-etl/internal/adapter/filesystem"
	"github.com/couchcryptid/bufkit-etl/internal/adapter/sqlite"
	"github.com/couchcryptid/bufkit-etl/internal/observability"
	"github.com/couchcryptid/bufkit-etl/internal/pipeline"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

func newLoadCmd(opts *rootOptions) *cobra.Command {
	var (
		dbPath    string
		batchSize int
	)

	cmd := &cobra.Command{
		Use:   "load --db PATH FILE...",
		Short: "Parse files and store their soundings in SQLite",
		Long: `Load runs each file through the same pipeline as the service and writes the
merged soundings to a SQLite database. Soundings already present are kept, so
loading a file twice is harmless. Exits non-zero if any file could not be
read, parsed, or stored.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if dbPath == "" {
				return errors.New("--db is required")
			}
			logger := observability.NewLoggerTo(os.Stderr, opts.logLevel, "text")

			store, err := sqlite.Open(dbPath, logger)
			if err != nil {
				return err
			}
			defer store.Close()

			p := pipeline.New(
				filesystem.NewExtractor(args, opts.maxBytes, logger),
				pipeline.NewTransformer(nil, logger),
				store,
				logger,
				observability.NewMetricsWith(prometheus.NewRegistry()),
				batchSize,
			)
			if err := p.Run(cmd.Context()); err != nil {
				return err
			}

			stats := p.Stats()
			fmt.Fprintf(cmd.OutOrStdout(), "loaded %d soundings from %d files into %s\n",
				stats.Soundings, stats.Files-stats.FailedFiles, dbPath)
			if stats.SkippedRows > 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "skipped %d undecodable surface rows\n", stats.SkippedRows)
			}
			return loadFailure(stats, len(args))
		},
	}
	cmd.Flags().StringVar(&dbPath, "db", "", "SQLite database to write (created if missing)")
	cmd.Flags().IntVar(&batchSize, "batch-size", 20, "files per load transaction")
	return cmd
}

// loadFailure reports the first class of failure in stats, checked in the
// order files move through the pipeline.
func loadFailure(stats pipeline.Stats, total int) error {
	if unread := int64(total) - stats.Files - stats.LoadFailedFiles; unread > 0 {
		return fmt.Errorf("%d of %d files could not be read", unread, total)
	}
	if stats.LoadFailedFiles > 0 {
		return fmt.Errorf("%d of %d files failed to load", stats.LoadFailedFiles, total)
	}
	if stats.FailedFiles > 0 {
		return fmt.Errorf("%d of %d files failed to parse", stats.FailedFiles, total)
	}
	return nil
}
