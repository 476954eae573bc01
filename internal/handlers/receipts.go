package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kopeyka/receipt-service/internal/views"
)

const maxUploadSize = 10 << 20 // 10 MiB

// ListReceiptsRequest represents query parameters for the receipts view
type ListReceiptsRequest struct {
	Skip  int `form:"skip" binding:"min=0"`
	Limit int `form:"limit" binding:"min=0,max=500"`
}

// ListReceipts assembles and returns one page of receipt history.
// GET /views/receipts?skip=0&limit=100
func (g *Gateway) ListReceipts(c *gin.Context) {
	var req ListReceiptsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	snap := g.Receipts.Load(c.Request.Context(), views.ReceiptsFilter{
		Skip:  req.Skip,
		Limit: req.Limit,
	})
	c.JSON(snapshotStatus(snap.Err), snap)
}

// UploadReceipt forwards a receipt document upload and returns the refreshed
// listing on success.
// POST /receipts/upload (multipart, field "file")
func (g *Gateway) UploadReceipt(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file field is required"})
		return
	}
	if header.Size > maxUploadSize {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "file too large"})
		return
	}

	file, err := header.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read upload"})
		return
	}
	defer file.Close()
	content, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read upload"})
		return
	}

	res := g.Receipts.Upload(c.Request.Context(), header.Filename, content)
	if !res.Success {
		c.JSON(http.StatusUnprocessableEntity, res)
		return
	}
	c.JSON(http.StatusOK, g.Receipts.Snapshot())
}

// CreateReceipt creates a receipt from a parsed JSON document.
// POST /receipts
func (g *Gateway) CreateReceipt(c *gin.Context) {
	var doc map[string]any
	if err := c.ShouldBindJSON(&doc); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res := g.Receipts.Create(c.Request.Context(), doc)
	if !res.Success {
		c.JSON(http.StatusUnprocessableEntity, res)
		return
	}
	c.JSON(http.StatusCreated, g.Receipts.Snapshot())
}
