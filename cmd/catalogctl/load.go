package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"course-catalog/internal/config"
	"course-catalog/internal/report"
	catalogsync "course-catalog/internal/sync"
)

var loadMode string
var loadStore string
var dryRun bool
var uploadSnapshot bool

var loadCmd = &cobra.Command{
	Use:   "load [document...]",
	Short: "Extract courses and persist them as partitioned items",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.log.Sync()

		if loadMode != "" {
			a.cfg.WriteMode = loadMode
		}
		mode, err := catalogsync.ParseMode(a.cfg.WriteMode)
		if err != nil {
			return err
		}
		switch {
		case dryRun:
			err = a.cfg.SetStore(config.StoreMemory)
		case loadStore != "":
			err = a.cfg.SetStore(loadStore)
		}
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		start := time.Now()

		// Source failures abort here, before any store is opened.
		ex, snap, err := a.extract(ctx, args)
		if err != nil {
			return err
		}
		if uploadSnapshot {
			if err := a.uploadSnapshot(ctx, snap); err != nil {
				a.log.Warn("snapshot upload failed", "error", err)
			}
		}

		st, err := openStore(ctx, a.cfg, a.log)
		if err != nil {
			return err
		}
		defer st.Close()

		loader := catalogsync.NewLoader(st, mode, &catalogsync.BatchWriter{
			BatchSize:  a.cfg.BatchSize,
			MaxRetries: a.cfg.MaxRetries,
			BaseDelay:  a.cfg.RetryBase,
			MaxDelay:   a.cfg.RetryMax,
		}, a.log.With("store", a.cfg.Store))

		sum, err := loader.Load(ctx, ex.Courses)
		if err != nil {
			return err
		}
		sum.Documents = ex.Documents
		sum.Dropped = ex.Dropped
		sum.IgnoredTables = ex.IgnoredTables
		sum.Fallbacks = ex.Fallbacks
		sum.Elapsed = time.Since(start)
		report.FormatSummary(cmd.OutOrStdout(), sum)

		if n := sum.FailedCount(); n > 0 {
			return fmt.Errorf("%d of %d items failed to persist", n, sum.Attempted)
		}
		return nil
	},
}

func init() {
	loadCmd.Flags().StringVar(&loadMode, "mode", "", "Write mode: insert or upsert (default CATALOG_WRITE_MODE)")
	loadCmd.Flags().StringVar(&loadStore, "store", "", "Store backend: memory, sqlite, postgres or redis (default CATALOG_STORE)")
	loadCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Persist into an in-memory store only")
	loadCmd.Flags().BoolVar(&uploadSnapshot, "upload-snapshot", false, "Upload the debug snapshot via SFTP")
	rootCmd.AddCommand(loadCmd)
}
