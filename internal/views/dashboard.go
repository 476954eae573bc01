package views

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/kopeyka/receipt-service/internal/api"
	"github.com/kopeyka/receipt-service/internal/normalize"
	"github.com/kopeyka/receipt-service/internal/stats"
	"github.com/kopeyka/receipt-service/internal/wire"
)

const recentReceiptsLimit = 50

// DashboardStats is the headline card data: either the current calendar
// month when the backend reported it, or the all-time aggregate.
type DashboardStats struct {
	ReceiptsCount int     `json:"receipts_count"`
	TotalAmount   float64 `json:"total_amount"`
	CashAmount    float64 `json:"cash_amount"`
	EcashAmount   float64 `json:"ecash_amount"`
	UniqueStores  int     `json:"unique_stores"`
	Month         string  `json:"month"`
}

// DashboardSnapshot is the dashboard screen view model.
type DashboardSnapshot struct {
	Stats          DashboardStats `json:"stats"`
	RecentReceipts []Receipt      `json:"recent_receipts"`
	Loading        bool           `json:"loading"`
	Err            string         `json:"error,omitempty"`
}

// Dashboard assembles the dashboard snapshot from three concurrent reads:
// all-time totals, this year's monthly dynamics, and recent receipts.
type Dashboard struct {
	api *api.Client
	log zerolog.Logger
	now func() time.Time

	gen  atomic.Uint64
	mu   sync.Mutex
	snap DashboardSnapshot
}

// NewDashboard creates the dashboard assembler.
func NewDashboard(client *api.Client, log zerolog.Logger) *Dashboard {
	return &Dashboard{
		api:  client,
		log:  log,
		now:  time.Now,
		snap: DashboardSnapshot{Loading: true},
	}
}

// Snapshot returns the last committed view model.
func (d *Dashboard) Snapshot() DashboardSnapshot {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.snap
}

// Load fetches and assembles a fresh snapshot. If another Load started
// after this one, the result is discarded and the newer snapshot returned.
func (d *Dashboard) Load(ctx context.Context) DashboardSnapshot {
	gen := d.gen.Add(1)
	now := d.now()

	var (
		sums        wire.TotalSums
		sumsErr     error
		monthly     []wire.MonthlyStat
		monthlyErr  error
		receipts    []wire.Receipt
		receiptsErr error
	)
	settle(ctx,
		func(ctx context.Context) { sums, sumsErr = d.api.TotalSums(ctx) },
		func(ctx context.Context) { monthly, monthlyErr = d.api.MonthlyDynamics(ctx, now.Year()) },
		func(ctx context.Context) { receipts, receiptsErr = d.api.Receipts(ctx, 0, recentReceiptsLimit) },
	)

	snap := DashboardSnapshot{
		Stats: DashboardStats{Month: "all time"},
	}

	if sumsErr == nil {
		snap.Stats.ReceiptsCount = sums.ReceiptsCount
		snap.Stats.TotalAmount = normalize.Money(sums.TotalSum)
		snap.Stats.CashAmount = normalize.Money(sums.CashTotalSum)
		snap.Stats.EcashAmount = normalize.Money(sums.EcashTotalSum)
	} else {
		d.log.Warn().Err(sumsErr).Msg("total sums unavailable")
	}

	// Prefer the current calendar month when the backend reported it.
	if monthlyErr == nil {
		currentMonth := int(now.Month())
		for _, m := range monthly {
			if m.Month == currentMonth {
				snap.Stats.ReceiptsCount = m.ReceiptsCount
				snap.Stats.TotalAmount = normalize.Money(m.TotalSum)
				snap.Stats.CashAmount = normalize.Money(m.CashTotalSum)
				snap.Stats.EcashAmount = normalize.Money(m.EcashTotalSum)
				snap.Stats.Month = fmt.Sprintf("%04d-%02d", now.Year(), currentMonth)
				break
			}
		}
	} else {
		d.log.Warn().Err(monthlyErr).Msg("monthly dynamics unavailable")
	}

	if receiptsErr == nil {
		snap.RecentReceipts = make([]Receipt, 0, len(receipts))
		names := make([]string, 0, len(receipts))
		for _, rec := range receipts {
			r := buildReceipt(rec, now)
			snap.RecentReceipts = append(snap.RecentReceipts, r)
			names = append(names, r.StoreName)
		}
		snap.Stats.UniqueStores = stats.UniqueStoreCount(names, PlaceholderStoreName)
	} else {
		d.log.Warn().Err(receiptsErr).Msg("recent receipts unavailable")
	}

	if sumsErr != nil && monthlyErr != nil && receiptsErr != nil {
		snap.Err = errorMessage(sumsErr, "failed to load dashboard data")
	}

	return d.commit(gen, snap)
}

func (d *Dashboard) commit(gen uint64, snap DashboardSnapshot) DashboardSnapshot {
	d.mu.Lock()
	defer d.mu.Unlock()
	if gen != d.gen.Load() {
		// A newer load superseded this one; its result is already, or will
		// be, the committed snapshot.
		return d.snap
	}
	d.snap = snap
	return snap
}
