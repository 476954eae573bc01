package views

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/kopeyka/receipt-service/internal/api"
	"github.com/kopeyka/receipt-service/internal/normalize"
	"github.com/kopeyka/receipt-service/internal/stats"
	"github.com/kopeyka/receipt-service/internal/wire"
)

// AnalyticsFilter selects the reporting window. Zero values mean defaults:
// the current calendar year, a 6-month product window, top 10 products.
type AnalyticsFilter struct {
	Year       int `json:"year"`
	MonthsBack int `json:"months_back"`
	Limit      int `json:"limit"`
}

func (f AnalyticsFilter) withDefaults(now time.Time) AnalyticsFilter {
	if f.Year == 0 {
		f.Year = now.Year()
	}
	if f.MonthsBack == 0 {
		f.MonthsBack = 6
	}
	if f.Limit == 0 {
		f.Limit = 10
	}
	return f
}

// StoreStatRow is one per-store aggregate on the analytics screen.
type StoreStatRow struct {
	Name           string  `json:"name"`
	LegalName      string  `json:"legal_name,omitempty"`
	TotalAmount    float64 `json:"total_amount"`
	AverageReceipt float64 `json:"average_receipt"`
	ReceiptsCount  int     `json:"receipts_count"`
}

// AnalyticsSnapshot is the analytics screen view model.
type AnalyticsSnapshot struct {
	Filter      AnalyticsFilter `json:"filter"`
	Monthly     []stats.Period  `json:"monthly"`
	TopProducts []stats.Product `json:"top_products"`
	StoreStats  []StoreStatRow  `json:"store_stats"`
	Insights    []stats.Insight `json:"insights"`
	Loading     bool            `json:"loading"`
	Err         string          `json:"error,omitempty"`
}

// Analytics assembles monthly dynamics, top products, and store stats for a
// reporting window.
type Analytics struct {
	api *api.Client
	log zerolog.Logger
	now func() time.Time

	gen  atomic.Uint64
	mu   sync.Mutex
	snap AnalyticsSnapshot
}

// NewAnalytics creates the analytics assembler.
func NewAnalytics(client *api.Client, log zerolog.Logger) *Analytics {
	return &Analytics{
		api:  client,
		log:  log,
		now:  time.Now,
		snap: AnalyticsSnapshot{Loading: true},
	}
}

// Snapshot returns the last committed view model.
func (a *Analytics) Snapshot() AnalyticsSnapshot {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.snap
}

// Load fetches a fresh snapshot for the given filter. Changing the filter
// while a load is in flight makes the older load's result stale; the last
// requested load wins.
func (a *Analytics) Load(ctx context.Context, filter AnalyticsFilter) AnalyticsSnapshot {
	gen := a.gen.Add(1)
	filter = filter.withDefaults(a.now())

	var (
		monthly     []wire.MonthlyStat
		monthlyErr  error
		products    []wire.TopProduct
		productsErr error
		storeRows   []wire.StoreStatsRow
		storesErr   error
	)
	settle(ctx,
		func(ctx context.Context) { monthly, monthlyErr = a.api.MonthlyDynamics(ctx, filter.Year) },
		func(ctx context.Context) { products, productsErr = a.api.TopProducts(ctx, filter.MonthsBack, filter.Limit) },
		func(ctx context.Context) { storeRows, storesErr = a.api.StoreStats(ctx) },
	)

	snap := AnalyticsSnapshot{Filter: filter}

	if monthlyErr == nil {
		snap.Monthly = buildPeriods(monthly, filter.Year)
	} else {
		a.log.Warn().Err(monthlyErr).Int("year", filter.Year).Msg("monthly dynamics unavailable")
	}
	if productsErr == nil {
		snap.TopProducts = buildProducts(products, filter.Limit)
	} else {
		a.log.Warn().Err(productsErr).Msg("top products unavailable")
	}
	if storesErr == nil {
		snap.StoreStats = buildStoreStats(storeRows)
	} else {
		a.log.Warn().Err(storesErr).Msg("store stats unavailable")
	}

	if monthlyErr != nil && productsErr != nil && storesErr != nil {
		snap.Err = errorMessage(monthlyErr, "failed to load analytics data")
	} else {
		snap.Insights = stats.MonthlyInsights(snap.Monthly, snap.TopProducts)
	}

	return a.commit(gen, snap)
}

func (a *Analytics) commit(gen uint64, snap AnalyticsSnapshot) AnalyticsSnapshot {
	a.mu.Lock()
	defer a.mu.Unlock()
	if gen != a.gen.Load() {
		return a.snap
	}
	a.snap = snap
	return snap
}

func buildPeriods(monthly []wire.MonthlyStat, year int) []stats.Period {
	periods := make([]stats.Period, 0, len(monthly))
	for _, m := range monthly {
		p := stats.Period{
			Month:         m.Month,
			Year:          m.Year,
			MonthName:     stats.MonthName(m.Month),
			TotalAmount:   normalize.Money(m.TotalSum),
			CashAmount:    normalize.Money(m.CashTotalSum),
			EcashAmount:   normalize.Money(m.EcashTotalSum),
			ReceiptsCount: m.ReceiptsCount,
		}
		if p.Year == 0 {
			p.Year = year
		}
		periods = append(periods, p)
	}
	return periods
}

func buildProducts(products []wire.TopProduct, limit int) []stats.Product {
	out := make([]stats.Product, 0, len(products))
	for _, p := range products {
		name := p.Name
		if name == "" {
			name = "Unnamed product"
		}
		measure := p.Measure
		if measure == "" {
			measure = "pcs"
		}
		out = append(out, stats.Product{
			Name:        name,
			TotalAmount: normalize.Money(p.TotalSum),
			Quantity:    p.TotalQuantity.Float64(),
			Measure:     measure,
			Category:    p.Category,
		})
	}
	// The backend already ranks products, but older versions returned them
	// unsorted; re-rank so the view model ordering is guaranteed.
	return stats.TopN(out, func(p stats.Product) float64 { return p.TotalAmount }, limit)
}

func buildStoreStats(rows []wire.StoreStatsRow) []StoreStatRow {
	out := make([]StoreStatRow, 0, len(rows))
	for _, row := range rows {
		total := normalize.Money(row.Amount())
		avg := normalize.Money(row.Average())
		if avg == 0 {
			avg = stats.AverageReceipt(total, row.ReceiptsCount)
		}
		name := row.DisplayName()
		if name == "" {
			name = PlaceholderStoreName
		}
		out = append(out, StoreStatRow{
			Name:           name,
			LegalName:      row.LegalName,
			TotalAmount:    total,
			AverageReceipt: avg,
			ReceiptsCount:  row.ReceiptsCount,
		})
	}
	return stats.TopN(out, func(r StoreStatRow) float64 { return r.TotalAmount }, len(out))
}
