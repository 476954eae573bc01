package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPercentageOf(t *testing.T) {
	tests := []struct {
		name     string
		total    float64
		part     float64
		expected float64
	}{
		{"half", 200, 100, 50},
		{"full", 100, 100, 100},
		{"zero part", 100, 0, 0},
		{"zero total", 0, 50, 0},
		{"negative total", -10, 5, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, PercentageOf(tt.total, tt.part), 1e-9)
		})
	}
}

// For part <= total the percentage must stay within [0, 100].
func TestPercentageOfBounded(t *testing.T) {
	cases := [][2]float64{{100, 33}, {1, 1}, {0.01, 0.005}, {1e9, 0}, {0, 0}}
	for _, c := range cases {
		pct := PercentageOf(c[0], c[1])
		assert.GreaterOrEqual(t, pct, 0.0)
		assert.LessOrEqual(t, pct, 100.0)
	}
}

func TestAverageReceipt(t *testing.T) {
	assert.InDelta(t, 300, AverageReceipt(1200, 4), 1e-9)
	// No observed receipts surfaces the raw total, not zero.
	assert.InDelta(t, 1200, AverageReceipt(1200, 0), 1e-9)
	assert.InDelta(t, 1200, AverageReceipt(1200, -1), 1e-9)
	assert.InDelta(t, 0, AverageReceipt(0, 0), 1e-9)
}

type rankedProduct struct {
	Name  string
	Total float64
}

func TestTopNStableOrdering(t *testing.T) {
	products := []rankedProduct{
		{"A", 30}, {"B", 50}, {"C", 50}, {"D", 10},
	}
	top := TopN(products, func(p rankedProduct) float64 { return p.Total }, 2)

	// B and C tie on 50; B entered first and must stay first.
	assert.Equal(t, []rankedProduct{{"B", 50}, {"C", 50}}, top)

	// Repeated calls on identical input produce identical output.
	again := TopN(products, func(p rankedProduct) float64 { return p.Total }, 2)
	assert.Equal(t, top, again)

	// Input order is untouched.
	assert.Equal(t, []rankedProduct{{"A", 30}, {"B", 50}, {"C", 50}, {"D", 10}}, products)
}

func TestTopNBounds(t *testing.T) {
	products := []rankedProduct{{"A", 1}, {"B", 2}}
	key := func(p rankedProduct) float64 { return p.Total }

	assert.Len(t, TopN(products, key, 10), 2)
	assert.Nil(t, TopN(products, key, 0))
	assert.Nil(t, TopN([]rankedProduct{}, key, 3))
}

func TestUniqueStoreCount(t *testing.T) {
	names := []string{"Corner Shop", "Unknown Store", "Unknown Store", "Corner Shop", "Mall Kiosk"}
	assert.Equal(t, 2, UniqueStoreCount(names, "Unknown Store"))

	// Canonicalization folds case and quoting before comparing.
	assert.Equal(t, 1, UniqueStoreCount([]string{`ООО "Лента"`, "ооо лента", ""}, "Unknown Store"))

	assert.Equal(t, 0, UniqueStoreCount(nil, "Unknown Store"))
	assert.Equal(t, 0, UniqueStoreCount([]string{"", "  ", "Unknown Store"}, "Unknown Store"))
}
