package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Route is a priced point-to-point logistics path. CostPerKm is optional at
// rest but a route without a rate cannot be used to price transport.
type Route struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	FromCity   string              `gorm:"size:100;not null;index:idx_route_cities" json:"from_city"`
	ToCity     string              `gorm:"size:100;not null;index:idx_route_cities" json:"to_city"`
	DistanceKm decimal.Decimal     `gorm:"type:decimal(12,3);not null;default:0" json:"distance_km"`
	CostPerKm  decimal.NullDecimal `gorm:"type:decimal(18,4)" json:"cost_per_km"`

	Tolls    []RouteToll        `gorm:"foreignKey:RouteID" json:"tolls,omitempty"`
	Stations []RouteTollStation `gorm:"foreignKey:RouteID" json:"stations,omitempty"`
}

// HasRate reports whether the route carries a usable, non-zero cost per km.
func (r *Route) HasRate() bool {
	return r.CostPerKm.Valid && !r.CostPerKm.Decimal.IsZero()
}

// RouteToll is a flat fee charged once per quote on a route.
type RouteToll struct {
	ID      uint            `gorm:"primaryKey" json:"id"`
	RouteID uint            `gorm:"index;not null" json:"route_id"`
	Name    string          `gorm:"size:255" json:"name"`
	Amount  decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"amount"`
}

// TollStation is a physical toll plaza with per-vehicle-type rates.
type TollStation struct {
	ID    uint       `gorm:"primaryKey" json:"id"`
	Name  string     `gorm:"size:255;not null" json:"name"`
	Rates []TollRate `gorm:"foreignKey:StationID" json:"rates,omitempty"`
}

// TollRate is the fee of one station for one vehicle type.
type TollRate struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	StationID   uint            `gorm:"index;not null" json:"station_id"`
	VehicleType string          `gorm:"size:50;not null" json:"vehicle_type"`
	Amount      decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"amount"`
}

// RouteTollStation places a toll station on a route.
type RouteTollStation struct {
	ID        uint         `gorm:"primaryKey" json:"id"`
	RouteID   uint         `gorm:"index;not null" json:"route_id"`
	StationID uint         `gorm:"index;not null" json:"station_id"`
	Station   *TollStation `gorm:"foreignKey:StationID" json:"station,omitempty"`
	Sequence  int          `gorm:"default:0" json:"sequence"`
}
