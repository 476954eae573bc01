package api

import (
	"context"
	"net/url"
	"strconv"

	"github.com/kopeyka/receipt-service/internal/wire"
)

// Receipts lists the user's receipt history, newest first.
func (c *Client) Receipts(ctx context.Context, skip, limit int) ([]wire.Receipt, error) {
	query := url.Values{
		"skip":  {strconv.Itoa(skip)},
		"limit": {strconv.Itoa(limit)},
	}
	var receipts []wire.Receipt
	err := c.get(ctx, "/receipts", query, &receipts)
	return receipts, err
}

// UploadReceipt ingests a fiscal receipt document (JSON export from the tax
// service app) as a multipart upload.
func (c *Client) UploadReceipt(ctx context.Context, filename string, content []byte) (wire.Receipt, error) {
	var created wire.Receipt
	err := c.postMultipart(ctx, "/receipts/upload-json", filename, content, &created)
	return created, err
}

// CreateReceipt creates a receipt from an already-parsed document.
func (c *Client) CreateReceipt(ctx context.Context, doc any) (wire.Receipt, error) {
	var created wire.Receipt
	err := c.postJSON(ctx, "/receipts/", doc, &created)
	return created, err
}
