package views

import (
	"context"
	"encoding/json"
	"net/http"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kopeyka/receipt-service/internal/wire"
)

func strPtr(s string) *string { return &s }

func TestStoresLoad(t *testing.T) {
	client := newBackend(t, map[string]http.HandlerFunc{
		"/stores/": respondJSON(`[
			{"id": 1, "retail_name": "Corner Shop", "total_amount": 120000, "receipts_count": 4, "receipt_avg": 30000, "is_favorite": true},
			{"id": 2, "retail_name": "Mall Kiosk", "total_amount": 120000, "receipts_count": 0}
		]`),
	})
	s := NewStores(client, nil, zerolog.Nop())

	snap := s.Load(context.Background(), StoresFilter{})

	assert.Equal(t, "total_amount", snap.Filter.SortBy)
	assert.True(t, snap.Filter.Descending)
	assert.Equal(t, 2, snap.Total)
	require.Len(t, snap.Stores, 2)
	assert.InDelta(t, 1200.0, snap.Stores[0].TotalAmount, 1e-9)
	assert.InDelta(t, 300.0, snap.Stores[0].AverageReceipt, 1e-9)
	assert.True(t, snap.Stores[0].IsFavorite)
	// Zero observed receipts: the average surfaces the total.
	assert.InDelta(t, 1200.0, snap.Stores[1].AverageReceipt, 1e-9)
}

// Write-then-refetch: a successful update triggers exactly one listing
// refetch; a rejected one leaves the snapshot untouched and triggers none.
func TestStoresWriteThenRefetch(t *testing.T) {
	var listCalls atomic.Int32
	var acceptWrites atomic.Bool
	acceptWrites.Store(true)

	client := newBackend(t, map[string]http.HandlerFunc{
		"/stores/": func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet:
				listCalls.Add(1)
				w.Write([]byte(`[{"id": 1, "retail_name": "Corner Shop"}]`))
			case http.MethodPost:
				if !acceptWrites.Load() {
					w.WriteHeader(http.StatusUnprocessableEntity)
					w.Write([]byte(`{"detail": "store already exists"}`))
					return
				}
				w.Write([]byte(`{"id": 2, "retail_name": "New Store"}`))
			}
		},
		"/stores/1": func(w http.ResponseWriter, r *http.Request) {
			if !acceptWrites.Load() {
				w.WriteHeader(http.StatusUnprocessableEntity)
				w.Write([]byte(`{"detail": "invalid store"}`))
				return
			}
			w.Write([]byte(`{"id": 1, "retail_name": "Corner Shop"}`))
		},
	})
	s := NewStores(client, nil, zerolog.Nop())

	s.Load(context.Background(), StoresFilter{})
	require.Equal(t, int32(1), listCalls.Load())

	res := s.Update(context.Background(), 1, wire.StoreInput{Notes: strPtr("updated")})
	assert.Equal(t, Result{Success: true}, res)
	assert.Equal(t, int32(2), listCalls.Load(), "accepted write refetches exactly once")

	acceptWrites.Store(false)
	res = s.Update(context.Background(), 1, wire.StoreInput{Notes: strPtr("nope")})
	assert.False(t, res.Success)
	assert.Equal(t, "invalid store", res.Error)
	assert.Equal(t, int32(2), listCalls.Load(), "rejected write does not refetch")

	res = s.Create(context.Background(), wire.StoreInput{RetailName: strPtr("Dup")})
	assert.False(t, res.Success)
	assert.Equal(t, "store already exists", res.Error)
	assert.Equal(t, int32(2), listCalls.Load())
}

func TestStoresToggleFavoriteSendsOnlyFlag(t *testing.T) {
	var gotBody map[string]any
	client := newBackend(t, map[string]http.HandlerFunc{
		"/stores/": respondJSON(`[]`),
		"/stores/7": func(w http.ResponseWriter, r *http.Request) {
			json.NewDecoder(r.Body).Decode(&gotBody)
			w.Write([]byte(`{"id": 7}`))
		},
	})
	s := NewStores(client, nil, zerolog.Nop())

	res := s.ToggleFavorite(context.Background(), 7, true)
	require.True(t, res.Success)
	assert.Equal(t, map[string]any{"is_favorite": true}, gotBody)
}

func TestStoresDelete(t *testing.T) {
	var deleted atomic.Bool
	client := newBackend(t, map[string]http.HandlerFunc{
		"/stores/": respondJSON(`[]`),
		"/stores/3": func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodDelete {
				deleted.Store(true)
				w.Write([]byte(`{"message": "deleted"}`))
			}
		},
	})
	s := NewStores(client, nil, zerolog.Nop())

	res := s.Delete(context.Background(), 3)
	assert.True(t, res.Success)
	assert.True(t, deleted.Load())
}

func TestStoresLoadFailure(t *testing.T) {
	client := newBackend(t, map[string]http.HandlerFunc{
		"/stores/": respondStatus(http.StatusInternalServerError),
	})
	s := NewStores(client, nil, zerolog.Nop())

	snap := s.Load(context.Background(), StoresFilter{})

	assert.NotEmpty(t, snap.Err)
	assert.Empty(t, snap.Stores)
}
