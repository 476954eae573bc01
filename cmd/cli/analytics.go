package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kopeyka/receipt-service/internal/normalize"
	"github.com/kopeyka/receipt-service/internal/views"
)

var (
	analyticsYear   int
	analyticsMonths int
	analyticsLimit  int
	analyticsOutput string
)

// analyticsCmd represents the analytics command
var analyticsCmd = &cobra.Command{
	Use:   "analytics",
	Short: "Show spending analytics",
	Long: `Show monthly dynamics, top purchased products, and per-store spending
for a reporting window, plus derived insights (most expensive month, most
active month, top product).`,
	Example: `  receipt-service analytics
  receipt-service analytics --year 2025 --months 12 --limit 20`,
	RunE: runAnalytics,
}

func init() {
	rootCmd.AddCommand(analyticsCmd)

	analyticsCmd.Flags().IntVar(&analyticsYear, "year", 0, "Reporting year (default current)")
	analyticsCmd.Flags().IntVar(&analyticsMonths, "months", 0, "Product window in months (default 6)")
	analyticsCmd.Flags().IntVar(&analyticsLimit, "limit", 0, "Top products to show (default 10)")
	analyticsCmd.Flags().StringVar(&analyticsOutput, "output", "table", "Output format: table or json")
}

func runAnalytics(cmd *cobra.Command, args []string) error {
	if err := requireSession(); err != nil {
		return err
	}

	snap := views.NewAnalytics(client, *logger).Load(cmd.Context(), views.AnalyticsFilter{
		Year:       analyticsYear,
		MonthsBack: analyticsMonths,
		Limit:      analyticsLimit,
	})
	if snap.Err != "" {
		return fmt.Errorf("analytics unavailable: %s", snap.Err)
	}

	if analyticsOutput == "json" {
		return printJSON(snap)
	}

	if len(snap.Monthly) > 0 {
		fmt.Printf("Monthly dynamics %d\n", snap.Filter.Year)
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "MONTH\tRECEIPTS\tTOTAL")
		for _, p := range snap.Monthly {
			fmt.Fprintf(w, "%s %d\t%d\t%s\n", p.MonthName, p.Year, p.ReceiptsCount, normalize.FormatMoney(p.TotalAmount, 2))
		}
		w.Flush()
		fmt.Println()
	}

	if len(snap.TopProducts) > 0 {
		fmt.Printf("Top products (last %d months)\n", snap.Filter.MonthsBack)
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "PRODUCT\tQTY\tTOTAL")
		for _, p := range snap.TopProducts {
			fmt.Fprintf(w, "%s\t%.2f %s\t%s\n", p.Name, p.Quantity, p.Measure, normalize.FormatMoney(p.TotalAmount, 2))
		}
		w.Flush()
		fmt.Println()
	}

	if len(snap.StoreStats) > 0 {
		fmt.Println("Spending by store")
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "STORE\tRECEIPTS\tAVG\tTOTAL")
		for _, s := range snap.StoreStats {
			fmt.Fprintf(w, "%s\t%d\t%s\t%s\n", s.Name, s.ReceiptsCount,
				normalize.FormatMoney(s.AverageReceipt, 2), normalize.FormatMoney(s.TotalAmount, 2))
		}
		w.Flush()
		fmt.Println()
	}

	for _, insight := range snap.Insights {
		fmt.Printf("%s: %s", insight.Title, insight.Value)
		if insight.Amount > 0 {
			fmt.Printf(" (%s)", normalize.FormatMoney(insight.Amount, 2))
		}
		fmt.Println()
	}
	return nil
}
