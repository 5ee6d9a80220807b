package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"course-catalog/internal/source"
)

var (
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

func versionString() string {
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

var workers int
var labFallback bool
var courseFiles []string

var rootCmd = &cobra.Command{
	Use:   "catalogctl",
	Short: "Extract a structured course catalog from training documents",
	Long: `catalogctl reads training-catalog documents (plain text, JSON paragraph dumps,
optionally brotli-compressed) from local paths, http(s) or sftp, extracts courses with
their modules and labs, and writes them as partitioned items to a key-value store.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.Version = Version
	rootCmd.SetVersionTemplate(fmt.Sprintf("catalogctl %s\n", versionString()))

	rootCmd.PersistentFlags().IntVar(&workers, "workers", 0, "Documents parsed concurrently (0 = CATALOG_WORKERS)")
	rootCmd.PersistentFlags().StringSliceVar(&courseFiles, "courses", nil, "Course JSON (snapshot or bare array) from another producer to merge in")
	rootCmd.PersistentFlags().BoolVar(&labFallback, "lab-fallback", false, "Append stray outline text to the most recent lab's description")
}

// Execute runs the root command. Unreadable input exits with status 2 so
// callers can tell it apart from partial write failures.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		if errors.Is(err, source.ErrUnavailable) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}
