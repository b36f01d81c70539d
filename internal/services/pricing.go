package services

import (
	"time"

	"github.com/diewo77/go-erp/internal/models"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// DiscountedPrice is unitPrice less discount percent.
func DiscountedPrice(unitPrice, discountPct decimal.Decimal) decimal.Decimal {
	return unitPrice.Sub(unitPrice.Mul(discountPct).Div(hundred))
}

// LineTotal is qty times the discounted unit price.
func LineTotal(qty, unitPrice, discountPct decimal.Decimal) decimal.Decimal {
	return qty.Mul(DiscountedPrice(unitPrice, discountPct))
}

// Totals is the money side of a quote.
type Totals struct {
	Subtotal           decimal.Decimal
	DiscountTotal      decimal.Decimal
	DiscountPercentage decimal.Decimal
	TransportTotal     decimal.Decimal
	GrandTotal         decimal.Decimal
}

// ComputeTotals derives the quote totals from its items and transport cost.
// The blended discount percentage is rounded to 4 places for storage; the
// grand total uses the exact discount amount.
func ComputeTotals(items []models.QuoteItem, transportTotal decimal.Decimal) Totals {
	subtotal := decimal.Zero
	discount := decimal.Zero
	for _, it := range items {
		gross := it.Qty.Mul(it.UnitPrice)
		subtotal = subtotal.Add(gross)
		discount = discount.Add(gross.Mul(it.DiscountPercentage).Div(hundred))
	}

	pct := decimal.Zero
	if !subtotal.IsZero() {
		pct = discount.Div(subtotal).Mul(hundred).Round(4)
	}

	return Totals{
		Subtotal:           subtotal,
		DiscountTotal:      discount,
		DiscountPercentage: pct,
		TransportTotal:     transportTotal,
		GrandTotal:         subtotal.Sub(discount).Add(transportTotal),
	}
}

// ServiceEndDate estimates when delivery finishes. It returns nil unless the
// start date, loads per day and a known truck type are all present.
func ServiceEndDate(start *time.Time, loadsPerDay *int, truck *models.TruckType, tonnage decimal.Decimal) *time.Time {
	if start == nil || loadsPerDay == nil || *loadsPerDay <= 0 || truck == nil {
		return nil
	}
	capacity, ok := truck.Capacity()
	if !ok {
		return nil
	}
	loads := tonnage.Div(capacity).Ceil()
	days := loads.Div(decimal.NewFromInt(int64(*loadsPerDay))).Ceil()
	end := start.AddDate(0, 0, int(days.IntPart()))
	return &end
}

// ExpiresAt is the end of the validity window starting at from.
func ExpiresAt(from time.Time, validityDays int) time.Time {
	return from.AddDate(0, 0, validityDays)
}

func itemLines(items []models.QuoteItem) []TransportLine {
	lines := make([]TransportLine, len(items))
	for i, it := range items {
		lines[i] = TransportLine{Qty: it.Qty, UOM: it.UOMSnapshot}
	}
	return lines
}
