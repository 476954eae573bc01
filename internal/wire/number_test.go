package wire

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeNumber(t *testing.T, raw string) Number {
	t.Helper()
	var n Number
	require.NoError(t, json.Unmarshal([]byte(raw), &n))
	return n
}

func TestNumberDecoding(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected float64
	}{
		{"plain integer", `12345`, 12345},
		{"plain float", `123.45`, 123.45},
		{"negative", `-50`, -50},
		{"null", `null`, 0},
		{"numeric string", `"1299"`, 1299},
		{"decimal string", `"12.99"`, 12.99},
		{"malformed string", `"abc"`, 0},
		{"empty string", `""`, 0},
		{"tagged decimal", `{"__Decimal__": true, "str": "4500.50"}`, 4500.50},
		{"tagged decimal bad str", `{"__Decimal__": true, "str": "oops"}`, 0},
		{"untagged object", `{"value": 10}`, 0},
		{"empty object", `{}`, 0},
		{"boolean", `true`, 0},
		{"array", `[1,2,3]`, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := decodeNumber(t, tt.raw)
			assert.Equal(t, tt.expected, n.Float64())
		})
	}
}

// Decoding must be total: no input may produce an error or a non-finite
// value.
func TestNumberTotality(t *testing.T) {
	inputs := []string{
		`null`, `{}`, `"NaN"`, `"Infinity"`, `"-Infinity"`, `"1e999"`,
		`{"__Decimal__": true}`, `{"str": "5"}`, `[]`, `false`,
		`"   "`, `"12,50"`,
	}
	for _, raw := range inputs {
		var n Number
		err := json.Unmarshal([]byte(raw), &n)
		require.NoError(t, err, "input %s", raw)
		f := n.Float64()
		assert.False(t, math.IsNaN(f) || math.IsInf(f, 0), "input %s", raw)
	}
}

// Re-normalizing an already normalized value must not change it.
func TestNumberIdempotence(t *testing.T) {
	for _, raw := range []string{`500`, `"12.99"`, `{"__Decimal__": true, "str": "7"}`, `null`} {
		n := decodeNumber(t, raw)
		again, err := json.Marshal(n)
		require.NoError(t, err)
		assert.Equal(t, n, decodeNumber(t, string(again)))
	}
}

func TestNumberInsideStruct(t *testing.T) {
	raw := `{
		"total_sum": {"__Decimal__": true, "str": "125000"},
		"cash_total_sum": "25000",
		"ecash_total_sum": 100000,
		"receipts_count": 7
	}`
	var sums TotalSums
	require.NoError(t, json.Unmarshal([]byte(raw), &sums))
	assert.Equal(t, 125000.0, sums.TotalSum.Float64())
	assert.Equal(t, 25000.0, sums.CashTotalSum.Float64())
	assert.Equal(t, 100000.0, sums.EcashTotalSum.Float64())
	assert.Equal(t, 7, sums.ReceiptsCount)
}

func TestStoreStatsRowCoalescing(t *testing.T) {
	var old, current StoreStatsRow
	require.NoError(t, json.Unmarshal([]byte(
		`{"name": "Corner Shop", "total_spent": 5000, "receipts_count": 2, "avg_receipt": 2500}`), &old))
	require.NoError(t, json.Unmarshal([]byte(
		`{"retail_name": "Corner Shop", "total_amount": 5000, "receipts_count": 2, "receipt_avg": 2500}`), &current))

	for _, row := range []StoreStatsRow{old, current} {
		assert.Equal(t, "Corner Shop", row.DisplayName())
		assert.Equal(t, 5000.0, row.Amount().Float64())
		assert.Equal(t, 2500.0, row.Average().Float64())
	}
}
