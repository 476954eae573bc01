package main

import (
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kopeyka/receipt-service/internal/normalize"
	"github.com/kopeyka/receipt-service/internal/views"
)

var (
	receiptsSkip   int
	receiptsLimit  int
	receiptsOutput string
)

// receiptsCmd represents the receipts command
var receiptsCmd = &cobra.Command{
	Use:   "receipts",
	Short: "Browse and upload receipts",
}

// receiptsListCmd represents the receipts list command
var receiptsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List receipt history",
	Example: `  receipt-service receipts list
  receipt-service receipts list --skip 100 --limit 50`,
	RunE: runReceiptsList,
}

// receiptsUploadCmd represents the receipts upload command
var receiptsUploadCmd = &cobra.Command{
	Use:   "upload <file>...",
	Short: "Upload receipt JSON documents",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runReceiptsUpload,
}

func init() {
	rootCmd.AddCommand(receiptsCmd)
	receiptsCmd.AddCommand(receiptsListCmd, receiptsUploadCmd)

	receiptsListCmd.Flags().IntVar(&receiptsSkip, "skip", 0, "Rows to skip")
	receiptsListCmd.Flags().IntVar(&receiptsLimit, "limit", 0, "Page size (default 100)")
	receiptsListCmd.Flags().StringVar(&receiptsOutput, "output", "table", "Output format: table or json")
}

func runReceiptsList(cmd *cobra.Command, args []string) error {
	if err := requireSession(); err != nil {
		return err
	}

	assembler := views.NewReceipts(client, views.NewStoreResolver(client, *logger), *logger)
	snap := assembler.Load(cmd.Context(), views.ReceiptsFilter{Skip: receiptsSkip, Limit: receiptsLimit})
	if snap.Err != "" {
		return fmt.Errorf("receipts unavailable: %s", snap.Err)
	}

	if receiptsOutput == "json" {
		return printJSON(snap)
	}

	if len(snap.Receipts) == 0 {
		fmt.Println("No receipts found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tDATE\tSTORE\tITEMS\tCASH\tCARD\tTOTAL")
	for _, r := range snap.Receipts {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\t%s\t%s\n",
			r.ID, r.DateTime, r.StoreName, r.ItemsCount,
			normalize.FormatMoney(r.CashAmount, 2),
			normalize.FormatMoney(r.EcashAmount, 2),
			normalize.FormatMoney(r.TotalAmount, 2))
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Printf("\n%d receipts, %d unique stores\n", len(snap.Receipts), snap.UniqueStores)
	return nil
}

func runReceiptsUpload(cmd *cobra.Command, args []string) error {
	if err := requireSession(); err != nil {
		return err
	}

	assembler := views.NewReceipts(client, nil, *logger)
	failed := 0
	for _, path := range args {
		content, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}

		res := assembler.Upload(cmd.Context(), filepath.Base(path), content)
		if !res.Success {
			failed++
			fmt.Fprintf(os.Stderr, "%s: %s\n", path, res.Error)
			continue
		}
		fmt.Printf("%s: uploaded\n", path)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d uploads failed", failed, len(args))
	}
	return nil
}
