// Command bufkit validates, parses, and loads BUFKIT sounding files from disk.
//
// Usage:
//
//	bufkit validate gfs3_kmso.buf nam_kmso.buf
//	bufkit parse --indexes gfs3_kmso.buf > kmso.jsonl
//	bufkit load --db soundings.db data/*.buf
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// defaultMaxBytes matches the service's MAX_FILE_BYTES default.
const defaultMaxBytes = 8 << 20

type rootOptions struct {
	maxBytes int64
	logLevel string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "bufkit",
		Short: "Work with BUFKIT forecast sounding files",
		Long: `bufkit reads BUFKIT model sounding files, checks their structure, and
turns them into merged soundings as JSON or rows in a SQLite database.`,
		SilenceUsage: true,
	}
	root.PersistentFlags().Int64Var(&opts.maxBytes, "max-bytes", defaultMaxBytes, "reject files larger than this many bytes")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "log level for diagnostics on stderr")

	root.AddCommand(
		newValidateCmd(opts),
		newParseCmd(opts),
		newLoadCmd(opts),
	)
	return root
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
