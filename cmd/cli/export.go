package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/kopeyka/receipt-service/internal/export"
	"github.com/kopeyka/receipt-service/internal/views"
)

var (
	exportOut  string
	exportYear int
)

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a spending report workbook",
	Long: `Export an XLSX workbook with summary, monthly, top-product, and
per-store sheets assembled from the analytics endpoints.`,
	Example: `  receipt-service export
  receipt-service export --year 2025 --out 2025-report.xlsx`,
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVar(&exportOut, "out", "", "Output file (default spending-report-<date>.xlsx)")
	exportCmd.Flags().IntVar(&exportYear, "year", 0, "Reporting year (default current)")
}

func runExport(cmd *cobra.Command, args []string) error {
	if err := requireSession(); err != nil {
		return err
	}

	ctx := cmd.Context()
	resolver := views.NewStoreResolver(client, *logger)
	report := export.Report{
		Totals:    views.NewTotals(client, *logger).Load(ctx),
		Analytics: views.NewAnalytics(client, *logger).Load(ctx, views.AnalyticsFilter{Year: exportYear}),
		Stores:    views.NewStores(client, resolver, *logger).Load(ctx, views.StoresFilter{}),
	}
	if report.Totals.Err != "" && report.Analytics.Err != "" && report.Stores.Err != "" {
		return fmt.Errorf("backend unavailable: %s", report.Totals.Err)
	}

	data, err := export.XLSX(report)
	if err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}

	out := exportOut
	if out == "" {
		out = fmt.Sprintf("spending-report-%s.xlsx", time.Now().Format("2006-01-02"))
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", out, err)
	}

	fmt.Printf("Wrote %s (%d bytes)\n", out, len(data))
	return nil
}
