package services

import (
	"strings"

	"github.com/diewo77/go-erp/internal/models"
	"github.com/shopspring/decimal"
)

var thousand = decimal.NewFromInt(1000)

// TransportLine is the part of a line item that matters for freight.
type TransportLine struct {
	Qty decimal.Decimal `json:"qty"`
	UOM string          `json:"uom"`
}

// Transport is the result of pricing freight on a route. The snapshot fields
// are stored on the quote as is.
type Transport struct {
	Tonnage    decimal.Decimal `json:"tonnage"`
	DistanceKm decimal.Decimal `json:"distance_km"`
	CostPerKm  decimal.Decimal `json:"cost_per_km"`
	Base       decimal.Decimal `json:"base"`
	TollTotal  decimal.Decimal `json:"toll_total"`
	Total      decimal.Decimal `json:"total"`
}

// ToTonnes converts a quantity to metric tonnes. Unknown units are taken as
// tonnes already.
func ToTonnes(qty decimal.Decimal, uom string) decimal.Decimal {
	switch strings.ToUpper(strings.TrimSpace(uom)) {
	case "KG", "KGS", "KILOGRAM", "KILOGRAMS":
		return qty.Div(thousand)
	default:
		// TON, TONS, T, MT, METRIC TON, METRIC TONS
		return qty
	}
}

// TotalTonnage sums the tonnage of all lines.
func TotalTonnage(lines []TransportLine) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(ToTonnes(l.Qty, l.UOM))
	}
	return total
}

// CalculateTransport prices freight for lines on route. A nil route costs
// nothing. Tolls must be loaded on the route.
func CalculateTransport(route *models.Route, lines []TransportLine) (Transport, error) {
	if route == nil {
		return Transport{}, nil
	}
	if !route.HasRate() {
		return Transport{}, invalid("route_id", "route %s -> %s has no cost per km configured", route.FromCity, route.ToCity)
	}

	tonnage := TotalTonnage(lines)
	if tonnage.IsZero() {
		tonnage = decimal.NewFromInt(1)
	}
	rate := route.CostPerKm.Decimal
	base := tonnage.Mul(rate).Mul(route.DistanceKm)

	tolls := decimal.Zero
	for _, t := range route.Tolls {
		tolls = tolls.Add(t.Amount)
	}

	return Transport{
		Tonnage:    tonnage,
		DistanceKm: route.DistanceKm,
		CostPerKm:  rate,
		Base:       base,
		TollTotal:  tolls,
		Total:      base.Add(tolls),
	}, nil
}

// StationTollTotal sums, over the toll stations of a route, the rate each one
// charges vehicleType. Stations without such a rate add nothing.
func StationTollTotal(route *models.Route, vehicleType string) decimal.Decimal {
	total := decimal.Zero
	for _, rs := range route.Stations {
		if rs.Station == nil {
			continue
		}
		for _, rate := range rs.Station.Rates {
			if strings.EqualFold(rate.VehicleType, vehicleType) {
				total = total.Add(rate.Amount)
				break
			}
		}
	}
	return total
}
