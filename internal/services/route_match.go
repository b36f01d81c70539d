package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/diewo77/go-erp/internal/models"
	"gorm.io/gorm"
)

// CityResolver extracts a delivery city from a free text address.
type CityResolver interface {
	ResolveCity(address string) string
}

// AddressCityResolver assumes addresses shaped like "street, city, region":
// it takes the second to last comma separated token, else the last one, else
// the whole address.
type AddressCityResolver struct{}

func (AddressCityResolver) ResolveCity(address string) string {
	parts := strings.Split(address, ",")
	if len(parts) == 1 {
		return strings.TrimSpace(address)
	}
	if city := strings.TrimSpace(parts[len(parts)-2]); city != "" {
		return city
	}
	return strings.TrimSpace(parts[len(parts)-1])
}

// routeInput is what route binding looks at. Update callers fill the terms
// with the patch value when present and the stored value otherwise, but
// RouteID only ever comes from the request itself.
type routeInput struct {
	DeliveryMethod  models.DeliveryMethod
	RouteID         *uint
	DeliveryCity    string
	DeliveryAddress string
	WarehouseID     *uint
	CompanyID       uint
}

// bindRoute returns the route a quote prices transport on, or nil when the
// quote is routeless. A route requested explicitly wins; otherwise collected
// quotes are routeless and delivered quotes try an exact departure/destination
// city match.
func (s *QuoteService) bindRoute(tx *gorm.DB, in routeInput) (*models.Route, error) {
	if in.RouteID != nil {
		return loadRoute(tx, *in.RouteID)
	}
	if in.DeliveryMethod != models.DeliveryMethodDelivered {
		return nil, nil
	}

	to := strings.TrimSpace(in.DeliveryCity)
	if to == "" {
		to = s.cities.ResolveCity(in.DeliveryAddress)
	}
	from, err := departureCity(tx, in.WarehouseID, in.CompanyID)
	if err != nil {
		return nil, err
	}
	if from == "" || to == "" {
		return nil, nil
	}

	var route models.Route
	err = tx.Preload("Tolls").
		Where("LOWER(from_city) = LOWER(?) AND LOWER(to_city) = LOWER(?)", from, to).
		Order("id").
		First(&route).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("match route: %w", err)
	}
	return &route, nil
}

// departureCity is the warehouse city when a warehouse is set, else the
// company city.
func departureCity(tx *gorm.DB, warehouseID *uint, companyID uint) (string, error) {
	if warehouseID != nil {
		var wh models.Warehouse
		if err := tx.Select("city").First(&wh, *warehouseID).Error; err != nil {
			return "", lookupErr("warehouse", *warehouseID, err)
		}
		return strings.TrimSpace(wh.City), nil
	}
	var company models.Company
	if err := tx.Select("city").First(&company, companyID).Error; err != nil {
		return "", lookupErr("company", companyID, err)
	}
	return strings.TrimSpace(company.City), nil
}

func loadRoute(tx *gorm.DB, id uint) (*models.Route, error) {
	var route models.Route
	if err := tx.Preload("Tolls").First(&route, id).Error; err != nil {
		return nil, lookupErr("route", id, err)
	}
	return &route, nil
}

// lookupErr turns a missing row into a NotFound error and wraps the rest.
func lookupErr(entity string, id uint, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound(entity, id)
	}
	return fmt.Errorf("load %s %d: %w", entity, id, err)
}
