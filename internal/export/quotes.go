// Package export renders quote lists as spreadsheets.
package export

import (
	"fmt"
	"io"
	"time"

	"github.com/diewo77/go-erp/internal/models"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const sheetName = "Quotes"

var quoteHeader = []any{
	"Quote number", "Status", "Archived", "Customer ID", "Sales rep ID",
	"Delivery method", "Subtotal", "Discount %", "Transport", "Grand total",
	"Created", "Expires",
}

// WriteQuotes writes quotes as an XLSX workbook with one row per quote.
func WriteQuotes(w io.Writer, quotes []models.Quote) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(0), sheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if err := f.SetSheetRow(sheetName, "A1", &quoteHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, q := range quotes {
		row := []any{
			q.QuoteNumber,
			string(q.Status),
			q.Archived,
			q.CustomerID,
			q.SalesRepID,
			string(q.DeliveryMethod),
			money(q.Subtotal),
			money(q.DiscountPercentage),
			money(q.TransportTotal),
			money(q.GrandTotal),
			q.CreatedAt.Format(time.DateOnly),
			dateOrBlank(q.ExpiresAt),
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return fmt.Errorf("write quote %s: %w", q.QuoteNumber, err)
		}
	}
	if err := f.SetPanes(sheetName, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"}); err != nil {
		return fmt.Errorf("freeze header: %w", err)
	}
	return f.Write(w)
}

// money stores amounts as numbers so the sheet can sum them.
func money(d decimal.Decimal) float64 {
	return d.Round(4).InexactFloat64()
}

func dateOrBlank(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.DateOnly)
}
