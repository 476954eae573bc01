package views

import (
	"context"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const threeReceipts = `[
	{"id": 1, "total_sum": 50000, "shop": {"retail_name": "Corner Shop"}},
	{"id": 2, "total_sum": 30000, "shop": {"retail_name": "Mall Kiosk"}},
	{"id": 3, "total_sum": 20000}
]`

// A failed monthly-dynamics request must not block the receipts slice: the
// stats stay at their default zeroed shape and the receipts render.
func TestDashboardPartialFailure(t *testing.T) {
	client := newBackend(t, map[string]http.HandlerFunc{
		"/analytics/total-sums":       respondStatus(http.StatusInternalServerError),
		"/analytics/monthly-dynamics": respondStatus(http.StatusInternalServerError),
		"/receipts":                   respondJSON(threeReceipts),
	})
	d := NewDashboard(client, zerolog.Nop())

	snap := d.Load(context.Background())

	assert.False(t, snap.Loading)
	assert.Empty(t, snap.Err, "partial failure is not an overall error")
	assert.Equal(t, DashboardStats{Month: "all time", UniqueStores: 2}, snap.Stats)
	require.Len(t, snap.RecentReceipts, 3)
	assert.Equal(t, "Corner Shop", snap.RecentReceipts[0].StoreName)
	assert.Equal(t, PlaceholderStoreName, snap.RecentReceipts[2].StoreName)
	assert.InDelta(t, 500.0, snap.RecentReceipts[0].TotalAmount, 1e-9)
}

func TestDashboardCurrentMonthOverridesTotals(t *testing.T) {
	now := time.Date(2026, time.August, 29, 12, 0, 0, 0, time.UTC)
	client := newBackend(t, map[string]http.HandlerFunc{
		"/analytics/total-sums": respondJSON(`{"total_sum": 1000000, "cash_total_sum": 400000, "ecash_total_sum": 600000, "receipts_count": 100}`),
		"/analytics/monthly-dynamics": respondJSON(`[
			{"month": 7, "total_sum": 20000, "receipts_count": 4},
			{"month": 8, "total_sum": 50000, "cash_total_sum": 10000, "ecash_total_sum": 40000, "receipts_count": 5}
		]`),
		"/receipts": respondJSON(`[]`),
	})
	d := NewDashboard(client, zerolog.Nop())
	d.now = func() time.Time { return now }

	snap := d.Load(context.Background())

	assert.Equal(t, "2026-08", snap.Stats.Month)
	assert.Equal(t, 5, snap.Stats.ReceiptsCount)
	assert.InDelta(t, 500.0, snap.Stats.TotalAmount, 1e-9)
	assert.InDelta(t, 100.0, snap.Stats.CashAmount, 1e-9)
	assert.InDelta(t, 400.0, snap.Stats.EcashAmount, 1e-9)
}

func TestDashboardAllRequestsFail(t *testing.T) {
	client := newBackend(t, map[string]http.HandlerFunc{
		"/analytics/total-sums":       respondStatus(http.StatusInternalServerError),
		"/analytics/monthly-dynamics": respondStatus(http.StatusInternalServerError),
		"/receipts":                   respondStatus(http.StatusInternalServerError),
	})
	d := NewDashboard(client, zerolog.Nop())

	snap := d.Load(context.Background())

	assert.NotEmpty(t, snap.Err)
	assert.Empty(t, snap.RecentReceipts)
	assert.Equal(t, DashboardStats{Month: "all time"}, snap.Stats)
}

// When a second load starts before the first finishes, the first load's
// result is discarded: last request wins.
func TestDashboardStaleLoadDiscarded(t *testing.T) {
	release := make(chan struct{})
	var totalCalls atomic.Int32
	client := newBackend(t, map[string]http.HandlerFunc{
		"/analytics/total-sums": func(w http.ResponseWriter, r *http.Request) {
			if totalCalls.Add(1) == 1 {
				<-release
				w.Write([]byte(`{"total_sum": 11111, "receipts_count": 1}`))
				return
			}
			w.Write([]byte(`{"total_sum": 99900, "receipts_count": 9}`))
		},
		"/analytics/monthly-dynamics": respondJSON(`[]`),
		"/receipts":                   respondJSON(`[]`),
	})
	d := NewDashboard(client, zerolog.Nop())

	firstDone := make(chan DashboardSnapshot, 1)
	go func() { firstDone <- d.Load(context.Background()) }()

	// Wait for the first load to reach the blocked handler, then start the
	// second.
	require.Eventually(t, func() bool { return totalCalls.Load() == 1 }, time.Second, time.Millisecond)
	second := d.Load(context.Background())
	close(release)
	first := <-firstDone

	assert.Equal(t, 9, second.Stats.ReceiptsCount)
	// The superseded load returns the committed (newer) snapshot, not its
	// own stale data.
	assert.Equal(t, 9, first.Stats.ReceiptsCount)
	assert.Equal(t, 9, d.Snapshot().Stats.ReceiptsCount)
}
