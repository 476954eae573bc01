package views

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/kopeyka/receipt-service/internal/api"
	"github.com/kopeyka/receipt-service/internal/normalize"
	"github.com/kopeyka/receipt-service/internal/stats"
	"github.com/kopeyka/receipt-service/internal/wire"
)

// StoresFilter selects and orders the stores listing. Zero values mean
// sorting by total spend, descending, first page of 100.
type StoresFilter struct {
	SortBy       string `json:"sort_by"`
	Descending   bool   `json:"descending"`
	Skip         int    `json:"skip"`
	Limit        int    `json:"limit"`
	FavoriteOnly bool   `json:"favorite_only"`
}

func (f StoresFilter) withDefaults() StoresFilter {
	if f.SortBy == "" {
		f.SortBy = "total_amount"
		f.Descending = true
	}
	if f.Limit == 0 {
		f.Limit = 100
	}
	return f
}

// StoresSnapshot is the stores screen view model.
type StoresSnapshot struct {
	Filter  StoresFilter `json:"filter"`
	Stores  []StoreView  `json:"stores"`
	Total   int          `json:"total"`
	Loading bool         `json:"loading"`
	Err     string       `json:"error,omitempty"`
}

// Stores assembles the user's store list and performs store mutations with
// a write-then-refetch protocol.
type Stores struct {
	api      *api.Client
	resolver *StoreResolver
	log      zerolog.Logger

	gen    atomic.Uint64
	mu     sync.Mutex
	snap   StoresSnapshot
	filter StoresFilter
}

// NewStores creates the stores assembler. The resolver, when present, has
// its cache flushed after every successful mutation.
func NewStores(client *api.Client, resolver *StoreResolver, log zerolog.Logger) *Stores {
	return &Stores{
		api:      client,
		resolver: resolver,
		log:      log,
		snap:     StoresSnapshot{Loading: true},
	}
}

// Snapshot returns the last committed view model.
func (s *Stores) Snapshot() StoresSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap
}

// Load fetches the store listing for the given filter.
func (s *Stores) Load(ctx context.Context, filter StoresFilter) StoresSnapshot {
	gen := s.gen.Add(1)
	filter = filter.withDefaults()

	s.mu.Lock()
	s.filter = filter
	s.mu.Unlock()

	snap := StoresSnapshot{Filter: filter}
	raw, err := s.api.Stores(ctx, api.ListStoresOptions{
		SortBy:       filter.SortBy,
		Descending:   filter.Descending,
		Skip:         filter.Skip,
		Limit:        filter.Limit,
		FavoriteOnly: filter.FavoriteOnly,
	})
	if err != nil {
		s.log.Warn().Err(err).Msg("stores unavailable")
		snap.Err = errorMessage(err, "failed to load stores")
	} else {
		snap.Stores = make([]StoreView, 0, len(raw))
		for _, store := range raw {
			snap.Stores = append(snap.Stores, buildStore(store))
		}
		snap.Total = len(snap.Stores)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen.Load() {
		return s.snap
	}
	s.snap = snap
	return snap
}

// Create creates a store and refetches the listing on success.
func (s *Stores) Create(ctx context.Context, input wire.StoreInput) Result {
	if _, err := s.api.CreateStore(ctx, input); err != nil {
		s.log.Warn().Err(err).Msg("store creation rejected")
		return Result{Error: errorMessage(err, "failed to create store")}
	}
	return s.refetch(ctx)
}

// Update updates a store and refetches the listing on success.
func (s *Stores) Update(ctx context.Context, storeID int64, input wire.StoreInput) Result {
	if _, err := s.api.UpdateStore(ctx, storeID, input); err != nil {
		s.log.Warn().Err(err).Int64("store_id", storeID).Msg("store update rejected")
		return Result{Error: errorMessage(err, "failed to update store")}
	}
	return s.refetch(ctx)
}

// ToggleFavorite flips the favorite flag on a store.
func (s *Stores) ToggleFavorite(ctx context.Context, storeID int64, favorite bool) Result {
	return s.Update(ctx, storeID, wire.StoreInput{IsFavorite: &favorite})
}

// Delete removes a store and refetches the listing on success.
func (s *Stores) Delete(ctx context.Context, storeID int64) Result {
	if err := s.api.DeleteStore(ctx, storeID); err != nil {
		s.log.Warn().Err(err).Int64("store_id", storeID).Msg("store deletion rejected")
		return Result{Error: errorMessage(err, "failed to delete store")}
	}
	return s.refetch(ctx)
}

func (s *Stores) refetch(ctx context.Context) Result {
	if s.resolver != nil {
		s.resolver.Flush()
	}
	s.mu.Lock()
	filter := s.filter
	s.mu.Unlock()
	s.Load(ctx, filter)
	return Result{Success: true}
}

func buildStore(store wire.Store) StoreView {
	total := normalize.Money(store.TotalAmount)
	avg := normalize.Money(store.ReceiptAvg)
	if avg == 0 {
		avg = stats.AverageReceipt(total, store.ReceiptsCount)
	}
	name := store.RetailName
	if name == "" {
		name = PlaceholderStoreName
	}
	return StoreView{
		ID:             store.ID,
		RetailName:     name,
		LegalName:      store.LegalName,
		INN:            store.INN,
		Address:        store.Address,
		Category:       store.Category,
		IsFavorite:     store.IsFavorite,
		Notes:          store.Notes,
		TotalAmount:    total,
		AverageReceipt: avg,
		ReceiptsCount:  store.ReceiptsCount,
	}
}
