package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockItem is a catalog product sold from a project (crushed stone, sand...).
// MinUnitPrice and MinOrderQty bound what sales reps may quote.
type StockItem struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	ProjectID uint   `gorm:"index;not null" json:"project_id"`
	Code      string `gorm:"size:50" json:"code,omitempty"`
	Name      string `gorm:"size:255;not null" json:"name"`
	// UOM is the unit of measure, e.g. TON, KG, M3.
	UOM           string          `gorm:"size:30;not null;default:'TON'" json:"uom"`
	UnitPrice     decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"unit_price"`
	MinUnitPrice  decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"min_unit_price"`
	MinOrderQty   decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"min_order_qty"`
	TruckloadOnly bool            `gorm:"default:false" json:"truckload_only"`
	IsActive      bool            `gorm:"not null" json:"is_active"`
}
