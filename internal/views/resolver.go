package views

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/rs/zerolog"

	"github.com/kopeyka/receipt-service/internal/api"
	"github.com/kopeyka/receipt-service/internal/normalize"
	"github.com/kopeyka/receipt-service/internal/wire"
)

const (
	storeCacheKey = "stores"
	storeCacheTTL = 5 * time.Minute
)

// StoreResolver matches a receipt's retail place against the user's store
// list by canonical name. The receipt→store link is a name match, not a
// foreign key, so resolution is best-effort. The store list is cached for a
// short TTL; resolution is read-only and a stale list only delays a match.
type StoreResolver struct {
	api   *api.Client
	cache *gocache.Cache
	log   zerolog.Logger
}

// NewStoreResolver creates a resolver with its own store-list cache.
func NewStoreResolver(client *api.Client, log zerolog.Logger) *StoreResolver {
	return &StoreResolver{
		api:   client,
		cache: gocache.New(storeCacheTTL, 2*storeCacheTTL),
		log:   log,
	}
}

// Resolve returns the user store matching the given retail place name, if
// any. The placeholder name never resolves.
func (r *StoreResolver) Resolve(ctx context.Context, retailPlace string) (wire.Store, bool) {
	if retailPlace == "" || retailPlace == PlaceholderStoreName {
		return wire.Store{}, false
	}
	for _, store := range r.stores(ctx) {
		if normalize.SameName(store.RetailName, retailPlace) {
			return store, true
		}
	}
	return wire.Store{}, false
}

// Attach fills StoreID on every receipt whose store name matches a user
// store.
func (r *StoreResolver) Attach(ctx context.Context, receipts []Receipt) {
	if len(receipts) == 0 {
		return
	}
	stores := r.stores(ctx)
	if len(stores) == 0 {
		return
	}
	for i := range receipts {
		if receipts[i].StoreName == PlaceholderStoreName {
			continue
		}
		for _, store := range stores {
			if normalize.SameName(store.RetailName, receipts[i].StoreName) {
				receipts[i].StoreID = store.ID
				break
			}
		}
	}
}

// Flush drops the cached store list; the next resolution refetches it.
// Called after store mutations so new stores match immediately.
func (r *StoreResolver) Flush() {
	r.cache.Delete(storeCacheKey)
}

func (r *StoreResolver) stores(ctx context.Context) []wire.Store {
	if cached, ok := r.cache.Get(storeCacheKey); ok {
		return cached.([]wire.Store)
	}
	stores, err := r.api.Stores(ctx, api.ListStoresOptions{})
	if err != nil {
		r.log.Debug().Err(err).Msg("store list unavailable for resolution")
		return nil
	}
	r.cache.Set(storeCacheKey, stores, gocache.DefaultExpiration)
	return stores
}
