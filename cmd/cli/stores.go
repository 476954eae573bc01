package main

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kopeyka/receipt-service/internal/normalize"
	"github.com/kopeyka/receipt-service/internal/views"
	"github.com/kopeyka/receipt-service/internal/wire"
)

var (
	storesSortBy       string
	storesDescending   bool
	storesFavoriteOnly bool
	storesOutput       string

	storeName     string
	storeLegal    string
	storeAddress  string
	storeCategory string
	storeNotes    string
	storeFavorite bool
)

// storesCmd represents the stores command
var storesCmd = &cobra.Command{
	Use:   "stores",
	Short: "Manage user stores",
}

// storesListCmd represents the stores list command
var storesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stores with spending aggregates",
	RunE:  runStoresList,
}

// storesCreateCmd represents the stores create command
var storesCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a store",
	Example: `  receipt-service stores create --name "Corner Shop"
  receipt-service stores create --name "Corner Shop" --category grocery --favorite`,
	RunE: runStoresCreate,
}

// storesUpdateCmd represents the stores update command
var storesUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update a store",
	Args:  cobra.ExactArgs(1),
	RunE:  runStoresUpdate,
}

// storesFavoriteCmd represents the stores favorite command
var storesFavoriteCmd = &cobra.Command{
	Use:   "favorite <id>",
	Short: "Toggle a store's favorite flag",
	Args:  cobra.ExactArgs(1),
	RunE:  runStoresFavorite,
}

// storesDeleteCmd represents the stores delete command
var storesDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a store",
	Args:  cobra.ExactArgs(1),
	RunE:  runStoresDelete,
}

func init() {
	rootCmd.AddCommand(storesCmd)
	storesCmd.AddCommand(storesListCmd, storesCreateCmd, storesUpdateCmd, storesFavoriteCmd, storesDeleteCmd)

	storesListCmd.Flags().StringVar(&storesSortBy, "sort", "", "Sort field: total_amount, receipts_count, retail_name, created_at")
	storesListCmd.Flags().BoolVar(&storesDescending, "desc", false, "Sort descending")
	storesListCmd.Flags().BoolVar(&storesFavoriteOnly, "favorites", false, "Only favorite stores")
	storesListCmd.Flags().StringVar(&storesOutput, "output", "table", "Output format: table or json")

	for _, cmd := range []*cobra.Command{storesCreateCmd, storesUpdateCmd} {
		cmd.Flags().StringVar(&storeName, "name", "", "Retail name")
		cmd.Flags().StringVar(&storeLegal, "legal-name", "", "Legal name")
		cmd.Flags().StringVar(&storeAddress, "address", "", "Address")
		cmd.Flags().StringVar(&storeCategory, "category", "", "Category")
		cmd.Flags().StringVar(&storeNotes, "notes", "", "Notes")
	}
	storesCreateCmd.Flags().BoolVar(&storeFavorite, "favorite", false, "Mark as favorite")
	storesCreateCmd.MarkFlagRequired("name")
	storesFavoriteCmd.Flags().BoolVar(&storeFavorite, "on", true, "Favorite state to set")
}

func newStoresAssembler() *views.Stores {
	return views.NewStores(client, views.NewStoreResolver(client, *logger), *logger)
}

func runStoresList(cmd *cobra.Command, args []string) error {
	if err := requireSession(); err != nil {
		return err
	}

	snap := newStoresAssembler().Load(cmd.Context(), views.StoresFilter{
		SortBy:       storesSortBy,
		Descending:   storesDescending,
		FavoriteOnly: storesFavoriteOnly,
	})
	if snap.Err != "" {
		return fmt.Errorf("stores unavailable: %s", snap.Err)
	}

	if storesOutput == "json" {
		return printJSON(snap)
	}

	if len(snap.Stores) == 0 {
		fmt.Println("No stores found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tCATEGORY\tFAV\tRECEIPTS\tAVG\tTOTAL")
	for _, s := range snap.Stores {
		fav := ""
		if s.IsFavorite {
			fav = "*"
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%d\t%s\t%s\n",
			s.ID, s.RetailName, s.Category, fav, s.ReceiptsCount,
			normalize.FormatMoney(s.AverageReceipt, 2), normalize.FormatMoney(s.TotalAmount, 2))
	}
	return w.Flush()
}

func runStoresCreate(cmd *cobra.Command, args []string) error {
	if err := requireSession(); err != nil {
		return err
	}

	input := storeInputFromFlags(cmd)
	input.RetailName = &storeName
	if cmd.Flags().Changed("favorite") {
		input.IsFavorite = &storeFavorite
	}

	res := newStoresAssembler().Create(cmd.Context(), input)
	if !res.Success {
		return fmt.Errorf("store creation failed: %s", res.Error)
	}
	fmt.Printf("Created store %q\n", storeName)
	return nil
}

func runStoresUpdate(cmd *cobra.Command, args []string) error {
	if err := requireSession(); err != nil {
		return err
	}
	storeID, err := parseStoreID(args[0])
	if err != nil {
		return err
	}

	input := storeInputFromFlags(cmd)
	if cmd.Flags().Changed("name") {
		input.RetailName = &storeName
	}
	if input == (wire.StoreInput{}) {
		return fmt.Errorf("nothing to update, pass at least one field flag")
	}

	res := newStoresAssembler().Update(cmd.Context(), storeID, input)
	if !res.Success {
		return fmt.Errorf("store update failed: %s", res.Error)
	}
	fmt.Printf("Updated store %d\n", storeID)
	return nil
}

func runStoresFavorite(cmd *cobra.Command, args []string) error {
	if err := requireSession(); err != nil {
		return err
	}
	storeID, err := parseStoreID(args[0])
	if err != nil {
		return err
	}

	res := newStoresAssembler().ToggleFavorite(cmd.Context(), storeID, storeFavorite)
	if !res.Success {
		return fmt.Errorf("favorite toggle failed: %s", res.Error)
	}
	fmt.Printf("Store %d favorite=%t\n", storeID, storeFavorite)
	return nil
}

func runStoresDelete(cmd *cobra.Command, args []string) error {
	if err := requireSession(); err != nil {
		return err
	}
	storeID, err := parseStoreID(args[0])
	if err != nil {
		return err
	}

	res := newStoresAssembler().Delete(cmd.Context(), storeID)
	if !res.Success {
		return fmt.Errorf("store deletion failed: %s", res.Error)
	}
	fmt.Printf("Deleted store %d\n", storeID)
	return nil
}

// storeInputFromFlags collects the optional field flags that were set.
func storeInputFromFlags(cmd *cobra.Command) wire.StoreInput {
	var input wire.StoreInput
	if cmd.Flags().Changed("legal-name") {
		input.LegalName = &storeLegal
	}
	if cmd.Flags().Changed("address") {
		input.Address = &storeAddress
	}
	if cmd.Flags().Changed("category") {
		input.Category = &storeCategory
	}
	if cmd.Flags().Changed("notes") {
		input.Notes = &storeNotes
	}
	return input
}

func parseStoreID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid store id %q", arg)
	}
	return id, nil
}
