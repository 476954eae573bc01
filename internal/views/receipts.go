package views

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/kopeyka/receipt-service/internal/api"
	"github.com/kopeyka/receipt-service/internal/stats"
)

// ReceiptsFilter paginates the receipt history. Zero values mean the first
// page of 100.
type ReceiptsFilter struct {
	Skip  int `json:"skip"`
	Limit int `json:"limit"`
}

func (f ReceiptsFilter) withDefaults() ReceiptsFilter {
	if f.Limit == 0 {
		f.Limit = 100
	}
	return f
}

// ReceiptsSnapshot is the receipts screen view model.
type ReceiptsSnapshot struct {
	Filter       ReceiptsFilter `json:"filter"`
	Receipts     []Receipt      `json:"receipts"`
	UniqueStores int            `json:"unique_stores"`
	Loading      bool           `json:"loading"`
	Err          string         `json:"error,omitempty"`
}

// Receipts assembles the receipt history and handles uploads with a
// write-then-refetch protocol: the listing is refetched only after the
// backend accepted the write.
type Receipts struct {
	api      *api.Client
	resolver *StoreResolver
	log      zerolog.Logger
	now      func() time.Time

	gen    atomic.Uint64
	mu     sync.Mutex
	snap   ReceiptsSnapshot
	filter ReceiptsFilter
}

// NewReceipts creates the receipts assembler. The resolver is optional;
// without one, receipts are not linked to user stores.
func NewReceipts(client *api.Client, resolver *StoreResolver, log zerolog.Logger) *Receipts {
	return &Receipts{
		api:      client,
		resolver: resolver,
		log:      log,
		now:      time.Now,
		snap:     ReceiptsSnapshot{Loading: true},
	}
}

// Snapshot returns the last committed view model.
func (r *Receipts) Snapshot() ReceiptsSnapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snap
}

// Load fetches one page of receipt history.
func (r *Receipts) Load(ctx context.Context, filter ReceiptsFilter) ReceiptsSnapshot {
	gen := r.gen.Add(1)
	filter = filter.withDefaults()

	r.mu.Lock()
	r.filter = filter
	r.mu.Unlock()

	snap := ReceiptsSnapshot{Filter: filter}
	raw, err := r.api.Receipts(ctx, filter.Skip, filter.Limit)
	if err != nil {
		r.log.Warn().Err(err).Msg("receipts unavailable")
		snap.Err = errorMessage(err, "failed to load receipts")
	} else {
		now := r.now()
		snap.Receipts = make([]Receipt, 0, len(raw))
		names := make([]string, 0, len(raw))
		for _, rec := range raw {
			v := buildReceipt(rec, now)
			snap.Receipts = append(snap.Receipts, v)
			names = append(names, v.StoreName)
		}
		snap.UniqueStores = stats.UniqueStoreCount(names, PlaceholderStoreName)
		if r.resolver != nil {
			r.resolver.Attach(ctx, snap.Receipts)
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if gen != r.gen.Load() {
		return r.snap
	}
	r.snap = snap
	return snap
}

// Upload ingests a receipt document and, on success, refetches the current
// page. On failure the existing snapshot is left untouched.
func (r *Receipts) Upload(ctx context.Context, filename string, content []byte) Result {
	if _, err := r.api.UploadReceipt(ctx, filename, content); err != nil {
		r.log.Warn().Err(err).Str("file", filename).Msg("receipt upload rejected")
		return Result{Error: errorMessage(err, "failed to upload receipt")}
	}
	r.Load(ctx, r.currentFilter())
	return Result{Success: true}
}

// Create creates a receipt from a parsed document, then refetches.
func (r *Receipts) Create(ctx context.Context, doc any) Result {
	if _, err := r.api.CreateReceipt(ctx, doc); err != nil {
		r.log.Warn().Err(err).Msg("receipt creation rejected")
		return Result{Error: errorMessage(err, "failed to create receipt")}
	}
	r.Load(ctx, r.currentFilter())
	return Result{Success: true}
}

func (r *Receipts) currentFilter() ReceiptsFilter {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.filter
}
