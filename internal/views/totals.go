package views

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/kopeyka/receipt-service/internal/api"
	"github.com/kopeyka/receipt-service/internal/normalize"
	"github.com/kopeyka/receipt-service/internal/stats"
)

// TotalsSnapshot is the all-time aggregate with the cash/electronic payment
// split expressed as percentages of the total.
type TotalsSnapshot struct {
	TotalAmount   float64 `json:"total_amount"`
	CashAmount    float64 `json:"cash_amount"`
	EcashAmount   float64 `json:"ecash_amount"`
	ReceiptsCount int     `json:"receipts_count"`
	CashPercent   float64 `json:"cash_percent"`
	EcashPercent  float64 `json:"ecash_percent"`
	Loading       bool    `json:"loading"`
	Err           string  `json:"error,omitempty"`
}

// Totals assembles the all-time totals snapshot.
type Totals struct {
	api *api.Client
	log zerolog.Logger

	gen  atomic.Uint64
	mu   sync.Mutex
	snap TotalsSnapshot
}

// NewTotals creates the totals assembler.
func NewTotals(client *api.Client, log zerolog.Logger) *Totals {
	return &Totals{api: client, log: log, snap: TotalsSnapshot{Loading: true}}
}

// Snapshot returns the last committed view model.
func (t *Totals) Snapshot() TotalsSnapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.snap
}

// Load fetches the all-time aggregate and derives the payment split.
func (t *Totals) Load(ctx context.Context) TotalsSnapshot {
	gen := t.gen.Add(1)

	var snap TotalsSnapshot
	sums, err := t.api.TotalSums(ctx)
	if err != nil {
		t.log.Warn().Err(err).Msg("total sums unavailable")
		snap.Err = errorMessage(err, "failed to load totals")
	} else {
		snap.TotalAmount = normalize.Money(sums.TotalSum)
		snap.CashAmount = normalize.Money(sums.CashTotalSum)
		snap.EcashAmount = normalize.Money(sums.EcashTotalSum)
		snap.ReceiptsCount = sums.ReceiptsCount
		snap.CashPercent = stats.PercentageOf(snap.TotalAmount, snap.CashAmount)
		snap.EcashPercent = stats.PercentageOf(snap.TotalAmount, snap.EcashAmount)
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if gen != t.gen.Load() {
		return t.snap
	}
	t.snap = snap
	return snap
}
