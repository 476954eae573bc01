package api

import (
	"context"
	"net/url"
	"strconv"

	"github.com/kopeyka/receipt-service/internal/wire"
)

// MonthlyDynamics returns per-month aggregates for a calendar year.
func (c *Client) MonthlyDynamics(ctx context.Context, year int) ([]wire.MonthlyStat, error) {
	query := url.Values{"year": {strconv.Itoa(year)}}
	var months []wire.MonthlyStat
	err := c.get(ctx, "/analytics/monthly-dynamics", query, &months)
	return months, err
}

// TopProducts returns ranked product spend over a trailing window of months.
func (c *Client) TopProducts(ctx context.Context, months, limit int) ([]wire.TopProduct, error) {
	query := url.Values{
		"months": {strconv.Itoa(months)},
		"limit":  {strconv.Itoa(limit)},
	}
	var products []wire.TopProduct
	err := c.get(ctx, "/analytics/top-products", query, &products)
	return products, err
}

// StoreStats returns per-store spending aggregates.
func (c *Client) StoreStats(ctx context.Context) ([]wire.StoreStatsRow, error) {
	var rows []wire.StoreStatsRow
	err := c.get(ctx, "/analytics/store-stats", nil, &rows)
	return rows, err
}

// TotalSums returns the all-time aggregate.
func (c *Client) TotalSums(ctx context.Context) (wire.TotalSums, error) {
	var sums wire.TotalSums
	err := c.get(ctx, "/analytics/total-sums", nil, &sums)
	return sums, err
}
