// Package export renders analytics snapshots into downloadable reports.
package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/kopeyka/receipt-service/internal/normalize"
	"github.com/kopeyka/receipt-service/internal/stats"
	"github.com/kopeyka/receipt-service/internal/views"
)

const (
	sheetSummary  = "Summary"
	sheetMonthly  = "Monthly"
	sheetProducts = "Top Products"
	sheetStores   = "Stores"
)

// Report bundles the snapshots that feed one spending report.
type Report struct {
	Totals    views.TotalsSnapshot
	Analytics views.AnalyticsSnapshot
	Stores    views.StoresSnapshot
}

// XLSX renders the report as an Excel workbook.
func XLSX(r Report) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := writeSummary(f, r.Totals); err != nil {
		return nil, err
	}
	if err := writeMonthly(f, r.Analytics.Monthly); err != nil {
		return nil, err
	}
	if err := writeProducts(f, r.Analytics.TopProducts); err != nil {
		return nil, err
	}
	if err := writeStores(f, r.Stores.Stores); err != nil {
		return nil, err
	}

	// excelize starts every workbook with Sheet1
	f.DeleteSheet("Sheet1")
	if idx, err := f.GetSheetIndex(sheetSummary); err == nil {
		f.SetActiveSheet(idx)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to render workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeSummary(f *excelize.File, totals views.TotalsSnapshot) error {
	if _, err := f.NewSheet(sheetSummary); err != nil {
		return err
	}
	rows := [][]any{
		{"Metric", "Value"},
		{"Total spent", normalize.FormatMoney(totals.TotalAmount, 2)},
		{"Cash", normalize.FormatMoney(totals.CashAmount, 2)},
		{"Cash %", fmt.Sprintf("%.1f%%", totals.CashPercent)},
		{"Card", normalize.FormatMoney(totals.EcashAmount, 2)},
		{"Card %", fmt.Sprintf("%.1f%%", totals.EcashPercent)},
		{"Receipts", totals.ReceiptsCount},
	}
	return writeRows(f, sheetSummary, rows)
}

func writeMonthly(f *excelize.File, periods []stats.Period) error {
	if _, err := f.NewSheet(sheetMonthly); err != nil {
		return err
	}
	rows := [][]any{{"Month", "Year", "Total", "Receipts"}}
	for _, p := range periods {
		rows = append(rows, []any{p.MonthName, p.Year, p.TotalAmount, p.ReceiptsCount})
	}
	return writeRows(f, sheetMonthly, rows)
}

func writeProducts(f *excelize.File, products []stats.Product) error {
	if _, err := f.NewSheet(sheetProducts); err != nil {
		return err
	}
	rows := [][]any{{"Product", "Measure", "Quantity", "Total"}}
	for _, p := range products {
		rows = append(rows, []any{p.Name, p.Measure, p.Quantity, p.TotalAmount})
	}
	return writeRows(f, sheetProducts, rows)
}

func writeStores(f *excelize.File, stores []views.StoreView) error {
	if _, err := f.NewSheet(sheetStores); err != nil {
		return err
	}
	rows := [][]any{{"Store", "Category", "Favorite", "Total", "Receipts", "Average receipt"}}
	for _, s := range stores {
		fav := ""
		if s.IsFavorite {
			fav = "yes"
		}
		rows = append(rows, []any{s.RetailName, s.Category, fav, s.TotalAmount, s.ReceiptsCount, s.AverageReceipt})
	}
	return writeRows(f, sheetStores, rows)
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}
