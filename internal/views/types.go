// Package views assembles screen-ready view models from backend responses.
// Each assembler issues its requests concurrently with an all-settled join
// (a failed request empties its slice instead of blocking the others), runs
// the results through the normalize and stats packages, and commits one
// immutable snapshot per load. Stale loads are discarded with a generation
// counter: when filters change mid-flight, the last requested load wins.
package views

import (
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/kopeyka/receipt-service/internal/api"
	"github.com/kopeyka/receipt-service/internal/normalize"
	"github.com/kopeyka/receipt-service/internal/wire"
)

// PlaceholderStoreName labels receipts whose store could not be resolved.
// It is a display sentinel only and never counts as a real store.
const PlaceholderStoreName = "Unknown Store"

// Result is the outcome of a mutating operation. Mutations never panic and
// never throw past this boundary; the caller renders Error inline.
type Result struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// ReceiptItem is one normalized receipt line.
type ReceiptItem struct {
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
	Measure  string  `json:"measure"`
	Price    float64 `json:"price"`
	Sum      float64 `json:"sum"`
}

// Receipt is one receipt denormalized for list and detail display. All
// amounts are in major currency units.
type Receipt struct {
	ID             string        `json:"id"`
	DateTime       string        `json:"date_time"`
	StoreID        int64         `json:"store_id,omitempty"`
	StoreName      string        `json:"store_name"`
	StoreLegalName string        `json:"store_legal_name,omitempty"`
	CashierName    string        `json:"cashier_name,omitempty"`
	ItemsCount     int           `json:"items_count"`
	TotalAmount    float64       `json:"total_amount"`
	CashAmount     float64       `json:"cash_amount"`
	EcashAmount    float64       `json:"ecash_amount"`
	Items          []ReceiptItem `json:"items,omitempty"`
}

// StoreView is one user store normalized for display.
type StoreView struct {
	ID             int64   `json:"id"`
	RetailName     string  `json:"retail_name"`
	LegalName      string  `json:"legal_name,omitempty"`
	INN            string  `json:"inn,omitempty"`
	Address        string  `json:"address,omitempty"`
	Category       string  `json:"category,omitempty"`
	IsFavorite     bool    `json:"is_favorite"`
	Notes          string  `json:"notes,omitempty"`
	TotalAmount    float64 `json:"total_amount"`
	AverageReceipt float64 `json:"average_receipt"`
	ReceiptsCount  int     `json:"receipts_count"`
}

// buildReceipt normalizes one wire receipt into its view model.
func buildReceipt(rec wire.Receipt, now time.Time) Receipt {
	out := Receipt{
		DateTime:    rec.DateTime,
		StoreName:   PlaceholderStoreName,
		TotalAmount: normalize.Money(rec.TotalSum),
		CashAmount:  normalize.Money(rec.CashTotalSum),
		EcashAmount: normalize.Money(rec.EcashTotalSum),
		ItemsCount:  len(rec.Items),
	}

	switch {
	case rec.ID != 0:
		out.ID = fmtID(rec.ID)
	case rec.ExternalID != "":
		out.ID = rec.ExternalID
	default:
		out.ID = uuid.NewString()
	}
	if out.DateTime == "" {
		out.DateTime = now.UTC().Format(time.RFC3339)
	}
	if rec.Shop != nil {
		if rec.Shop.RetailName != "" {
			out.StoreName = rec.Shop.RetailName
		}
		out.StoreLegalName = rec.Shop.LegalName
	}
	if rec.Cashier != nil {
		out.CashierName = rec.Cashier.Name
	}

	if len(rec.Items) > 0 {
		out.Items = make([]ReceiptItem, 0, len(rec.Items))
		for _, it := range rec.Items {
			out.Items = append(out.Items, ReceiptItem{
				Name:     it.Name,
				Quantity: it.Quantity.Float64(),
				Measure:  it.Measure,
				Price:    normalize.Money(it.Price),
				Sum:      normalize.Money(it.Sum),
			})
		}
	}
	return out
}

func fmtID(id int64) string {
	return strconv.FormatInt(id, 10)
}

// errorMessage turns a request failure into the message shown to the user:
// the backend detail when there is one, otherwise the given fallback.
func errorMessage(err error, fallback string) string {
	var apiErr *api.Error
	if errors.As(err, &apiErr) && apiErr.Detail != "" {
		return apiErr.Detail
	}
	return fallback
}
