package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/diewo77/go-erp/internal/models"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

func TestWriteQuotes(t *testing.T) {
	expires := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	quotes := []models.Quote{
		{
			QuoteNumber:        "Q-202403-0001",
			Status:             models.QuoteStatusApproved,
			CustomerID:         3,
			SalesRepID:         1,
			DeliveryMethod:     models.DeliveryMethodDelivered,
			Subtotal:           decimal.RequireFromString("500"),
			DiscountPercentage: decimal.RequireFromString("12.5"),
			TransportTotal:     decimal.RequireFromString("2030"),
			GrandTotal:         decimal.RequireFromString("2467.5"),
			CreatedAt:          time.Date(2024, 3, 8, 9, 30, 0, 0, time.UTC),
			ExpiresAt:          &expires,
		},
		{
			QuoteNumber:    "Q-202403-0002",
			Status:         models.QuoteStatusDraft,
			DeliveryMethod: models.DeliveryMethodCollected,
			CreatedAt:      time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC),
		},
	}

	var buf bytes.Buffer
	if err := WriteQuotes(&buf, quotes); err != nil {
		t.Fatalf("WriteQuotes: %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	if err != nil {
		t.Fatalf("rows: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want header + 2", len(rows))
	}
	if rows[0][0] != "Quote number" || rows[0][9] != "Grand total" {
		t.Errorf("header = %v", rows[0])
	}

	first := rows[1]
	checks := map[int]string{0: "Q-202403-0001", 1: "APPROVED", 5: "DELIVERED", 7: "12.5", 9: "2467.5", 10: "2024-03-08", 11: "2024-03-15"}
	for col, want := range checks {
		if first[col] != want {
			t.Errorf("row 1 col %d = %q, want %q", col, first[col], want)
		}
	}
	if second := rows[2]; second[0] != "Q-202403-0002" || second[1] != "DRAFT" {
		t.Errorf("row 2 = %v", second)
	}
}

func TestWriteQuotes_Empty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteQuotes(&buf, nil); err != nil {
		t.Fatalf("WriteQuotes: %v", err)
	}
	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()
	rows, err := f.GetRows(sheetName)
	if err != nil {
		t.Fatalf("rows: %v", err)
	}
	if len(rows) != 1 {
		t.Errorf("got %d rows, want only the header", len(rows))
	}
}
