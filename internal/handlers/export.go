package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kopeyka/receipt-service/internal/export"
	"github.com/kopeyka/receipt-service/internal/views"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportReport renders the spending report workbook from fresh snapshots.
// GET /export/report.xlsx?year=2026
func (g *Gateway) ExportReport(c *gin.Context) {
	var req AnalyticsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	report := export.Report{
		Totals: g.Totals.Load(ctx),
		Analytics: g.Analytics.Load(ctx, views.AnalyticsFilter{
			Year:       req.Year,
			MonthsBack: req.MonthsBack,
			Limit:      req.Limit,
		}),
		Stores: g.Stores.Load(ctx, views.StoresFilter{}),
	}
	if report.Totals.Err != "" && report.Analytics.Err != "" && report.Stores.Err != "" {
		c.JSON(http.StatusBadGateway, gin.H{"error": "backend unavailable"})
		return
	}

	data, err := export.XLSX(report)
	if err != nil {
		g.Log.Error().Err(err).Msg("failed to render report")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to render report"})
		return
	}

	filename := fmt.Sprintf("spending-report-%s.xlsx", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, xlsxContentType, data)
}
