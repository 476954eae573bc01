package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/kopeyka/receipt-service/internal/wire"
)

// ListStoresOptions are the query parameters for the stores listing.
type ListStoresOptions struct {
	SortBy       string
	Descending   bool
	Skip         int
	Limit        int
	FavoriteOnly bool
}

// Stores lists the user's stores.
func (c *Client) Stores(ctx context.Context, opts ListStoresOptions) ([]wire.Store, error) {
	if opts.Limit == 0 {
		opts.Limit = 100
	}
	query := url.Values{
		"skip":  {strconv.Itoa(opts.Skip)},
		"limit": {strconv.Itoa(opts.Limit)},
	}
	if opts.SortBy != "" {
		query.Set("sort_by", opts.SortBy)
		query.Set("descending", strconv.FormatBool(opts.Descending))
	}
	if opts.FavoriteOnly {
		query.Set("favorite_only", "true")
	}
	var stores []wire.Store
	err := c.get(ctx, "/stores/", query, &stores)
	return stores, err
}

// CreateStore creates a user store.
func (c *Client) CreateStore(ctx context.Context, input wire.StoreInput) (wire.Store, error) {
	var store wire.Store
	err := c.postJSON(ctx, "/stores/", input, &store)
	return store, err
}

// UpdateStore updates a user store. Only non-nil input fields are sent, so
// a favorite toggle is a one-field update.
func (c *Client) UpdateStore(ctx context.Context, storeID int64, input wire.StoreInput) (wire.Store, error) {
	var store wire.Store
	err := c.putJSON(ctx, fmt.Sprintf("/stores/%d", storeID), input, &store)
	return store, err
}

// DeleteStore deletes a user store.
func (c *Client) DeleteStore(ctx context.Context, storeID int64) error {
	return c.delete(ctx, fmt.Sprintf("/stores/%d", storeID))
}
