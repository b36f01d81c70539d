package services

import (
	"context"

	"github.com/diewo77/go-erp/internal/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// RouteService answers pricing questions about a route without touching
// quotes.
type RouteService struct {
	db *gorm.DB
}

func NewRouteService(db *gorm.DB) *RouteService {
	return &RouteService{db: db}
}

// ExpectedTollTotal sums the toll station rates for vehicleType along a route.
func (s *RouteService) ExpectedTollTotal(ctx context.Context, routeID uint, vehicleType string) (decimal.Decimal, error) {
	var route models.Route
	err := s.db.WithContext(ctx).
		Preload("Stations", func(db *gorm.DB) *gorm.DB { return db.Order("sequence ASC") }).
		Preload("Stations.Station.Rates").
		First(&route, routeID).Error
	if err != nil {
		return decimal.Zero, lookupErr("route", routeID, err)
	}
	return StationTollTotal(&route, vehicleType), nil
}

// PreviewTransport prices freight for lines on a route, as quote creation
// would, without storing anything.
func (s *RouteService) PreviewTransport(ctx context.Context, routeID uint, lines []TransportLine) (Transport, error) {
	route, err := loadRoute(s.db.WithContext(ctx), routeID)
	if err != nil {
		return Transport{}, err
	}
	return CalculateTransport(route, lines)
}
