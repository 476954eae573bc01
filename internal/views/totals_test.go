package views

import (
	"context"
	"net/http"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestTotalsPaymentSplit(t *testing.T) {
	client := newBackend(t, map[string]http.HandlerFunc{
		"/analytics/total-sums": respondJSON(`{
			"total_sum": "1000000",
			"cash_total_sum": 250000,
			"ecash_total_sum": {"__Decimal__": true, "str": "750000"},
			"receipts_count": 40
		}`),
	})
	v := NewTotals(client, zerolog.Nop())

	snap := v.Load(context.Background())

	assert.Empty(t, snap.Err)
	assert.InDelta(t, 10000.0, snap.TotalAmount, 1e-9)
	assert.InDelta(t, 2500.0, snap.CashAmount, 1e-9)
	assert.InDelta(t, 7500.0, snap.EcashAmount, 1e-9)
	assert.Equal(t, 40, snap.ReceiptsCount)
	assert.InDelta(t, 25.0, snap.CashPercent, 1e-9)
	assert.InDelta(t, 75.0, snap.EcashPercent, 1e-9)
}

func TestTotalsZeroTotalYieldsZeroPercentages(t *testing.T) {
	client := newBackend(t, map[string]http.HandlerFunc{
		"/analytics/total-sums": respondJSON(`{"total_sum": 0, "cash_total_sum": 0, "ecash_total_sum": 0}`),
	})
	v := NewTotals(client, zerolog.Nop())

	snap := v.Load(context.Background())

	assert.Zero(t, snap.CashPercent)
	assert.Zero(t, snap.EcashPercent)
}

func TestTotalsLoadFailure(t *testing.T) {
	client := newBackend(t, map[string]http.HandlerFunc{
		"/analytics/total-sums": respondStatus(http.StatusInternalServerError),
	})
	v := NewTotals(client, zerolog.Nop())

	snap := v.Load(context.Background())

	assert.NotEmpty(t, snap.Err)
	assert.Zero(t, snap.TotalAmount)
}
