package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kopeyka/receipt-service/internal/views"
)

// GetDashboard assembles and returns the dashboard snapshot.
// GET /views/dashboard
func (g *Gateway) GetDashboard(c *gin.Context) {
	snap := g.Dashboard.Load(c.Request.Context())
	c.JSON(snapshotStatus(snap.Err), snap)
}

// AnalyticsRequest represents query parameters for the analytics view
type AnalyticsRequest struct {
	Year       int `form:"year" binding:"min=0"`
	MonthsBack int `form:"monthsBack" binding:"min=0,max=120"`
	Limit      int `form:"limit" binding:"min=0,max=100"`
}

// GetAnalytics assembles and returns the analytics snapshot.
// GET /views/analytics?year=2026&monthsBack=6&limit=10
func (g *Gateway) GetAnalytics(c *gin.Context) {
	var req AnalyticsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	snap := g.Analytics.Load(c.Request.Context(), views.AnalyticsFilter{
		Year:       req.Year,
		MonthsBack: req.MonthsBack,
		Limit:      req.Limit,
	})
	c.JSON(snapshotStatus(snap.Err), snap)
}

// GetTotals assembles and returns the all-time totals snapshot.
// GET /views/totals
func (g *Gateway) GetTotals(c *gin.Context) {
	snap := g.Totals.Load(c.Request.Context())
	c.JSON(snapshotStatus(snap.Err), snap)
}

// snapshotStatus is 200 unless the whole snapshot failed to load. Partial
// failures still return 200 with the data that did arrive.
func snapshotStatus(errMsg string) int {
	if errMsg != "" {
		return http.StatusBadGateway
	}
	return http.StatusOK
}
