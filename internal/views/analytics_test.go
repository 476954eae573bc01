package views

import (
	"context"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kopeyka/receipt-service/internal/stats"
)

func TestAnalyticsLoad(t *testing.T) {
	var gotMonthlyQuery, gotProductsQuery url.Values
	client := newBackend(t, map[string]http.HandlerFunc{
		"/analytics/monthly-dynamics": func(w http.ResponseWriter, r *http.Request) {
			gotMonthlyQuery = r.URL.Query()
			w.Write([]byte(`[
				{"month": 1, "total_sum": 10000, "receipts_count": 2},
				{"month": 2, "total_sum": {"__Decimal__": true, "str": "40000"}, "receipts_count": 1},
				{"month": 3, "total_sum": "5000", "receipts_count": 10}
			]`))
		},
		"/analytics/top-products": func(w http.ResponseWriter, r *http.Request) {
			gotProductsQuery = r.URL.Query()
			w.Write([]byte(`[
				{"name": "Bread", "total_sum": 8000, "total_quantity": 4, "measure": "pcs"},
				{"name": "Milk", "total_sum": 12000, "total_quantity": 6}
			]`))
		},
		"/analytics/store-stats": respondJSON(`[
			{"retail_name": "Corner Shop", "total_amount": 30000, "receipts_count": 3, "receipt_avg": 10000},
			{"name": "Mall Kiosk", "total_spent": 45000, "receipts_count": 0}
		]`),
	})
	a := NewAnalytics(client, zerolog.Nop())
	a.now = func() time.Time { return time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC) }

	snap := a.Load(context.Background(), AnalyticsFilter{})

	assert.Equal(t, AnalyticsFilter{Year: 2026, MonthsBack: 6, Limit: 10}, snap.Filter)
	assert.Equal(t, "2026", gotMonthlyQuery.Get("year"))
	assert.Equal(t, "6", gotProductsQuery.Get("months"))
	assert.Equal(t, "10", gotProductsQuery.Get("limit"))

	// Every wire representation lands as rubles.
	require.Len(t, snap.Monthly, 3)
	assert.InDelta(t, 100.0, snap.Monthly[0].TotalAmount, 1e-9)
	assert.InDelta(t, 400.0, snap.Monthly[1].TotalAmount, 1e-9)
	assert.InDelta(t, 50.0, snap.Monthly[2].TotalAmount, 1e-9)
	assert.Equal(t, 2026, snap.Monthly[0].Year)
	assert.Equal(t, "Feb", snap.Monthly[1].MonthName)

	// Products are re-ranked by spend regardless of backend order.
	require.Len(t, snap.TopProducts, 2)
	assert.Equal(t, "Milk", snap.TopProducts[0].Name)
	assert.InDelta(t, 120.0, snap.TopProducts[0].TotalAmount, 1e-9)
	assert.Equal(t, "pcs", snap.TopProducts[0].Measure)

	// Store stats coalesce both field-name generations; a missing average
	// falls back to the average-receipt policy (total when count is 0).
	require.Len(t, snap.StoreStats, 2)
	assert.Equal(t, "Mall Kiosk", snap.StoreStats[0].Name)
	assert.InDelta(t, 450.0, snap.StoreStats[0].TotalAmount, 1e-9)
	assert.InDelta(t, 450.0, snap.StoreStats[0].AverageReceipt, 1e-9)
	assert.Equal(t, "Corner Shop", snap.StoreStats[1].Name)
	assert.InDelta(t, 100.0, snap.StoreStats[1].AverageReceipt, 1e-9)

	// Insights cover the window.
	kinds := make([]stats.InsightKind, 0, len(snap.Insights))
	for _, in := range snap.Insights {
		kinds = append(kinds, in.Kind)
	}
	assert.Contains(t, kinds, stats.InsightMaxSpend)
	assert.Contains(t, kinds, stats.InsightActivity)
	assert.Contains(t, kinds, stats.InsightTopProduct)
	assert.Contains(t, kinds, stats.InsightTotals)
}

func TestAnalyticsPartialFailure(t *testing.T) {
	client := newBackend(t, map[string]http.HandlerFunc{
		"/analytics/monthly-dynamics": respondJSON(`[{"month": 5, "total_sum": 10000, "receipts_count": 1}]`),
		"/analytics/top-products":     respondStatus(http.StatusBadGateway),
		"/analytics/store-stats":      respondStatus(http.StatusBadGateway),
	})
	a := NewAnalytics(client, zerolog.Nop())

	snap := a.Load(context.Background(), AnalyticsFilter{Year: 2026})

	assert.Empty(t, snap.Err)
	assert.Len(t, snap.Monthly, 1)
	assert.Empty(t, snap.TopProducts)
	assert.Empty(t, snap.StoreStats)
	assert.NotEmpty(t, snap.Insights, "insights still computed from the surviving slice")
}

func TestAnalyticsAllFail(t *testing.T) {
	client := newBackend(t, map[string]http.HandlerFunc{
		"/analytics/monthly-dynamics": respondStatus(http.StatusInternalServerError),
		"/analytics/top-products":     respondStatus(http.StatusInternalServerError),
		"/analytics/store-stats":      respondStatus(http.StatusInternalServerError),
	})
	a := NewAnalytics(client, zerolog.Nop())

	snap := a.Load(context.Background(), AnalyticsFilter{Year: 2026})

	assert.NotEmpty(t, snap.Err)
	assert.Empty(t, snap.Monthly)
	assert.Empty(t, snap.Insights)
}
