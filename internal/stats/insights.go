package stats

import "fmt"

// Period is one calendar-month aggregate in major currency units.
type Period struct {
	Month         int     `json:"month"`
	Year          int     `json:"year"`
	MonthName     string  `json:"month_name"`
	TotalAmount   float64 `json:"total_amount"`
	CashAmount    float64 `json:"cash_amount"`
	EcashAmount   float64 `json:"ecash_amount"`
	ReceiptsCount int     `json:"receipts_count"`
}

// Product is one product aggregate in major currency units.
type Product struct {
	Name        string  `json:"name"`
	TotalAmount float64 `json:"total_amount"`
	Quantity    float64 `json:"quantity"`
	Measure     string  `json:"measure"`
	Category    string  `json:"category"`
}

// InsightKind labels a finding produced by MonthlyInsights.
type InsightKind string

const (
	InsightMaxSpend   InsightKind = "max_spend"
	InsightActivity   InsightKind = "activity"
	InsightTopProduct InsightKind = "top_product"
	InsightTotals     InsightKind = "totals"
)

// Insight is one human-readable finding over a reporting window.
type Insight struct {
	Kind   InsightKind `json:"kind"`
	Title  string      `json:"title"`
	Value  string      `json:"value"`
	Amount float64     `json:"amount,omitempty"`
	Count  int         `json:"count,omitempty"`
}

var shortMonths = [...]string{
	"Jan", "Feb", "Mar", "Apr", "May", "Jun",
	"Jul", "Aug", "Sep", "Oct", "Nov", "Dec",
}

// MonthName returns the short display name for a 1-based month number.
func MonthName(month int) string {
	if month >= 1 && month <= 12 {
		return shortMonths[month-1]
	}
	return fmt.Sprintf("M%d", month)
}

// MonthlyInsights extracts the findings shown on the analytics screen: the
// highest-spend month, the most active month by receipt count (only when at
// least one period saw receipts), the top product by spend, and running
// totals for the whole window. An empty period list yields no findings.
func MonthlyInsights(periods []Period, products []Product) []Insight {
	if len(periods) == 0 {
		return nil
	}

	insights := make([]Insight, 0, 4)

	maxSpend := periods[0]
	for _, p := range periods[1:] {
		if p.TotalAmount > maxSpend.TotalAmount {
			maxSpend = p
		}
	}
	if maxSpend.TotalAmount > 0 {
		insights = append(insights, Insight{
			Kind:   InsightMaxSpend,
			Title:  "Highest spending month",
			Value:  fmt.Sprintf("%s %d", maxSpend.MonthName, maxSpend.Year),
			Amount: maxSpend.TotalAmount,
		})
	}

	mostActive := periods[0]
	for _, p := range periods[1:] {
		if p.ReceiptsCount > mostActive.ReceiptsCount {
			mostActive = p
		}
	}
	if mostActive.ReceiptsCount > 0 {
		insights = append(insights, Insight{
			Kind:  InsightActivity,
			Title: "Most active month",
			Value: fmt.Sprintf("%s %d", mostActive.MonthName, mostActive.Year),
			Count: mostActive.ReceiptsCount,
		})
	}

	if top := TopN(products, func(p Product) float64 { return p.TotalAmount }, 1); len(top) > 0 {
		insights = append(insights, Insight{
			Kind:   InsightTopProduct,
			Title:  "Top product",
			Value:  top[0].Name,
			Amount: top[0].TotalAmount,
		})
	}

	var totalSpent float64
	var totalReceipts int
	for _, p := range periods {
		totalSpent += p.TotalAmount
		totalReceipts += p.ReceiptsCount
	}
	insights = append(insights, Insight{
		Kind:   InsightTotals,
		Title:  "Period totals",
		Value:  fmt.Sprintf("%d months", len(periods)),
		Amount: totalSpent,
		Count:  totalReceipts,
	})

	return insights
}
