package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func findInsight(insights []Insight, kind InsightKind) *Insight {
	for i := range insights {
		if insights[i].Kind == kind {
			return &insights[i]
		}
	}
	return nil
}

func TestMonthlyInsights(t *testing.T) {
	periods := []Period{
		{Month: 1, MonthName: "Jan", Year: 2026, TotalAmount: 100, ReceiptsCount: 2},
		{Month: 2, MonthName: "Feb", Year: 2026, TotalAmount: 400, ReceiptsCount: 1},
		{Month: 3, MonthName: "Mar", Year: 2026, TotalAmount: 50, ReceiptsCount: 10},
	}
	products := []Product{
		{Name: "Milk", TotalAmount: 120},
		{Name: "Bread", TotalAmount: 80},
	}

	insights := MonthlyInsights(periods, products)
	require.Len(t, insights, 4)

	maxSpend := findInsight(insights, InsightMaxSpend)
	require.NotNil(t, maxSpend)
	assert.Equal(t, "Feb 2026", maxSpend.Value)
	assert.InDelta(t, 400, maxSpend.Amount, 1e-9)

	activity := findInsight(insights, InsightActivity)
	require.NotNil(t, activity)
	assert.Equal(t, "Mar 2026", activity.Value)
	assert.Equal(t, 10, activity.Count)

	top := findInsight(insights, InsightTopProduct)
	require.NotNil(t, top)
	assert.Equal(t, "Milk", top.Value)

	totals := findInsight(insights, InsightTotals)
	require.NotNil(t, totals)
	assert.Equal(t, "3 months", totals.Value)
	assert.InDelta(t, 550, totals.Amount, 1e-9)
	assert.Equal(t, 13, totals.Count)
}

func TestMonthlyInsightsEmptyPeriods(t *testing.T) {
	assert.Empty(t, MonthlyInsights(nil, []Product{{Name: "Milk", TotalAmount: 1}}))
	assert.Empty(t, MonthlyInsights([]Period{}, nil))
}

func TestMonthlyInsightsNoActivity(t *testing.T) {
	periods := []Period{
		{Month: 1, MonthName: "Jan", Year: 2026, TotalAmount: 100},
		{Month: 2, MonthName: "Feb", Year: 2026, TotalAmount: 50},
	}
	insights := MonthlyInsights(periods, nil)

	// No period saw receipts, so no activity finding.
	assert.Nil(t, findInsight(insights, InsightActivity))
	assert.NotNil(t, findInsight(insights, InsightMaxSpend))
	assert.NotNil(t, findInsight(insights, InsightTotals))
}

func TestMonthlyInsightsZeroSpend(t *testing.T) {
	periods := []Period{{Month: 1, MonthName: "Jan", Year: 2026}}
	insights := MonthlyInsights(periods, nil)

	// All-zero data still yields the running totals finding.
	require.Len(t, insights, 1)
	assert.Equal(t, InsightTotals, insights[0].Kind)
}

func TestMonthName(t *testing.T) {
	assert.Equal(t, "Jan", MonthName(1))
	assert.Equal(t, "Dec", MonthName(12))
	assert.Equal(t, "M0", MonthName(0))
	assert.Equal(t, "M13", MonthName(13))
}
