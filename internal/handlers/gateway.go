// Package handlers exposes the assembled view models over HTTP. Each
// endpoint serves a snapshot: reads trigger a load, mutations go through the
// write-then-refetch protocol of the underlying assembler.
package handlers

import (
	"github.com/rs/zerolog"

	"github.com/kopeyka/receipt-service/internal/api"
	"github.com/kopeyka/receipt-service/internal/session"
	"github.com/kopeyka/receipt-service/internal/views"
)

// Gateway holds the shared state behind all HTTP handlers.
type Gateway struct {
	API      *api.Client
	Sessions *session.Manager
	Log      zerolog.Logger

	Dashboard *views.Dashboard
	Analytics *views.Analytics
	Totals    *views.Totals
	Receipts  *views.Receipts
	Stores    *views.Stores
	Resolver  *views.StoreResolver
}

// NewGateway wires the assemblers around one backend client.
func NewGateway(client *api.Client, sessions *session.Manager, log zerolog.Logger) *Gateway {
	resolver := views.NewStoreResolver(client, log)
	return &Gateway{
		API:       client,
		Sessions:  sessions,
		Log:       log,
		Dashboard: views.NewDashboard(client, log),
		Analytics: views.NewAnalytics(client, log),
		Totals:    views.NewTotals(client, log),
		Receipts:  views.NewReceipts(client, resolver, log),
		Stores:    views.NewStores(client, resolver, log),
		Resolver:  resolver,
	}
}
