package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"course-catalog/internal/domain"
	"course-catalog/internal/export"
	"course-catalog/internal/report"
)

var itemsCSV string
var listCourses bool

var extractCmd = &cobra.Command{
	Use:   "extract [document...]",
	Short: "Extract courses and write the debug snapshot without persisting",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.log.Sync()

		start := time.Now()
		ex, _, err := a.extract(cmd.Context(), args)
		if err != nil {
			return err
		}

		if itemsCSV != "" {
			if err := writeItemsCSV(itemsCSV, ex.Courses); err != nil {
				return err
			}
			a.log.Info("items csv written", "path", itemsCSV)
		}

		sum := extractionSummary(ex)
		sum.Elapsed = time.Since(start)
		out := cmd.OutOrStdout()
		if listCourses {
			report.FormatCourses(out, ex.Courses)
		}
		report.FormatSummary(out, sum)
		return nil
	},
}

func writeItemsCSV(path string, courses []domain.Course) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := export.WriteItemsCSV(f, previewItems(courses, time.Now())); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func init() {
	extractCmd.Flags().StringVar(&itemsCSV, "items-csv", "", "Also write the mapped items to this CSV file")
	extractCmd.Flags().BoolVar(&listCourses, "list", false, "Print one line per extracted course")
	rootCmd.AddCommand(extractCmd)
}
