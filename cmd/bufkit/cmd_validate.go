package main

import (
	"fmt"

	"github.com/couchcryptid/bufkit-etl/internal/adapter/filesystem"
	"github.com/couchcryptid/bufkit-etl/internal/domain"
	"github.com/spf13/cobra"
)

func newValidateCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate FILE...",
		Short: "Check that files are well-formed BUFKIT",
		Long: `Validate decodes every upper-air record and every surface row of each file.
It is stricter than parse: a surface row that parsing would silently skip
fails validation. Exits non-zero if any file is invalid.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			failed := 0
			for _, path := range args {
				n, err := validateFile(path, opts.maxBytes)
				if err != nil {
					failed++
					fmt.Fprintf(out, "FAIL  %s: %v\n", path, err)
					continue
				}
				fmt.Fprintf(out, "PASS  %s (%d soundings)\n", path, n)
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d files invalid", failed, len(args))
			}
			return nil
		},
	}
}

// validateFile returns the number of soundings a valid file yields.
func validateFile(path string, maxBytes int64) (int, error) {
	text, err := filesystem.LoadText(path, maxBytes)
	if err != nil {
		return 0, err
	}
	d, err := domain.Parse(text, path)
	if err != nil {
		return 0, err
	}
	if err := d.Validate(); err != nil {
		return 0, err
	}

	it := d.Soundings()
	n := 0
	for it.Next() {
		n++
	}
	return n, it.Err()
}
