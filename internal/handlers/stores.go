package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/kopeyka/receipt-service/internal/views"
	"github.com/kopeyka/receipt-service/internal/wire"
)

// ListStoresRequest represents query parameters for the stores view
type ListStoresRequest struct {
	SortBy       string `form:"sortBy" binding:"omitempty,oneof=total_amount receipts_count retail_name created_at"`
	Descending   bool   `form:"descending"`
	Skip         int    `form:"skip" binding:"min=0"`
	Limit        int    `form:"limit" binding:"min=0,max=500"`
	FavoriteOnly bool   `form:"favoriteOnly"`
}

// StoreRequest represents the create/update payload for a store
type StoreRequest struct {
	RetailName *string `json:"retail_name"`
	LegalName  *string `json:"legal_name"`
	INN        *string `json:"inn"`
	Address    *string `json:"address"`
	Category   *string `json:"category"`
	IsFavorite *bool   `json:"is_favorite"`
	Notes      *string `json:"notes"`
}

func (r StoreRequest) toInput() wire.StoreInput {
	return wire.StoreInput{
		RetailName: r.RetailName,
		LegalName:  r.LegalName,
		INN:        r.INN,
		Address:    r.Address,
		Category:   r.Category,
		IsFavorite: r.IsFavorite,
		Notes:      r.Notes,
	}
}

// ListStores assembles and returns the stores listing.
// GET /views/stores?sortBy=total_amount&descending=true&favoriteOnly=false
func (g *Gateway) ListStores(c *gin.Context) {
	var req ListStoresRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	snap := g.Stores.Load(c.Request.Context(), views.StoresFilter{
		SortBy:       req.SortBy,
		Descending:   req.Descending,
		Skip:         req.Skip,
		Limit:        req.Limit,
		FavoriteOnly: req.FavoriteOnly,
	})
	c.JSON(snapshotStatus(snap.Err), snap)
}

// CreateStore creates a store and returns the refreshed listing.
// POST /stores
func (g *Gateway) CreateStore(c *gin.Context) {
	var req StoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.RetailName == nil || *req.RetailName == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "retail_name is required"})
		return
	}

	res := g.Stores.Create(c.Request.Context(), req.toInput())
	if !res.Success {
		c.JSON(http.StatusUnprocessableEntity, res)
		return
	}
	c.JSON(http.StatusCreated, g.Stores.Snapshot())
}

// UpdateStore updates a store and returns the refreshed listing.
// PUT /stores/:storeId
func (g *Gateway) UpdateStore(c *gin.Context) {
	storeID, ok := storeIDParam(c)
	if !ok {
		return
	}
	var req StoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res := g.Stores.Update(c.Request.Context(), storeID, req.toInput())
	if !res.Success {
		c.JSON(http.StatusUnprocessableEntity, res)
		return
	}
	c.JSON(http.StatusOK, g.Stores.Snapshot())
}

// FavoriteRequest represents the favorite toggle payload
type FavoriteRequest struct {
	Favorite bool `json:"favorite"`
}

// ToggleFavorite flips the favorite flag on a store.
// POST /stores/:storeId/favorite
func (g *Gateway) ToggleFavorite(c *gin.Context) {
	storeID, ok := storeIDParam(c)
	if !ok {
		return
	}
	var req FavoriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res := g.Stores.ToggleFavorite(c.Request.Context(), storeID, req.Favorite)
	if !res.Success {
		c.JSON(http.StatusUnprocessableEntity, res)
		return
	}
	c.JSON(http.StatusOK, g.Stores.Snapshot())
}

// DeleteStore removes a store and returns the refreshed listing.
// DELETE /stores/:storeId
func (g *Gateway) DeleteStore(c *gin.Context) {
	storeID, ok := storeIDParam(c)
	if !ok {
		return
	}

	res := g.Stores.Delete(c.Request.Context(), storeID)
	if !res.Success {
		c.JSON(http.StatusUnprocessableEntity, res)
		return
	}
	c.JSON(http.StatusOK, g.Stores.Snapshot())
}

func storeIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("storeId"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid store id"})
		return 0, false
	}
	return id, true
}
