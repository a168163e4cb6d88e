package main

import (
	"encoding/json"
	"os"

	"github.com/couchcryptid/bufkit-etl/internal/adapter/filesystem"
	"github.com/couchcryptid/bufkit-etl/internal/domain"
	"github.com/couchcryptid/bufkit-etl/internal/observability"
	"github.com/spf13/cobra"
)

func newParseCmd(opts *rootOptions) *cobra.Command {
	var withIndexes bool

	cmd := &cobra.Command{
		Use:   "parse FILE",
		Short: "Print the merged soundings of a file as JSON lines",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := observability.NewLoggerTo(os.Stderr, opts.logLevel, "text")

			text, err := filesystem.LoadText(args[0], opts.maxBytes)
			if err != nil {
				return err
			}
			parsed, err := domain.ParseRawEvent(domain.RawEvent{Key: []byte(args[0]), Value: []byte(text)})
			if err != nil {
				return err
			}
			if parsed.SkippedRows > 0 {
				logger.Warn("surface rows skipped", "file", parsed.Source, "rows", parsed.SkippedRows)
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			for _, s := range parsed.Soundings {
				s = domain.EnrichSounding(s)
				if !withIndexes {
					s.Indexes = nil
				}
				if err := enc.Encode(s); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&withIndexes, "indexes", false, "include the stability index map")
	return cmd
}
