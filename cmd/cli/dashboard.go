package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kopeyka/receipt-service/internal/normalize"
	"github.com/kopeyka/receipt-service/internal/views"
)

var dashboardOutput string

// dashboardCmd represents the dashboard command
var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Show the spending dashboard",
	Long: `Show the dashboard: headline stats for the current month (or all time
when the backend has no data for it) and the most recent receipts.`,
	RunE: runDashboard,
}

func init() {
	rootCmd.AddCommand(dashboardCmd)

	dashboardCmd.Flags().StringVar(&dashboardOutput, "output", "table", "Output format: table or json")
}

func runDashboard(cmd *cobra.Command, args []string) error {
	if err := requireSession(); err != nil {
		return err
	}

	snap := views.NewDashboard(client, *logger).Load(cmd.Context())
	if snap.Err != "" {
		return fmt.Errorf("dashboard unavailable: %s", snap.Err)
	}

	if dashboardOutput == "json" {
		return printJSON(snap)
	}

	fmt.Printf("Period: %s\n", snap.Stats.Month)
	fmt.Printf("Spent: %s (cash %s, card %s)\n",
		normalize.FormatMoney(snap.Stats.TotalAmount, 2),
		normalize.FormatMoney(snap.Stats.CashAmount, 2),
		normalize.FormatMoney(snap.Stats.EcashAmount, 2))
	fmt.Printf("Receipts: %d across %d stores\n\n", snap.Stats.ReceiptsCount, snap.Stats.UniqueStores)

	if len(snap.RecentReceipts) == 0 {
		fmt.Println("No receipts yet")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "DATE\tSTORE\tITEMS\tTOTAL")
	for _, r := range snap.RecentReceipts {
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", r.DateTime, r.StoreName, r.ItemsCount, normalize.FormatMoney(r.TotalAmount, 2))
	}
	return w.Flush()
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
