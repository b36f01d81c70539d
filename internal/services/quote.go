package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/diewo77/go-erp/internal/metrics"
	"github.com/diewo77/go-erp/internal/models"
	"github.com/diewo77/go-erp/validation"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	defaultValidityDays = 7
	maxLoadsPerDay      = 5
	// itemScale is the scale of the item qty, price and discount columns.
	itemScale = 4
)

// QuoteService prices quotes and drives them through the approval workflow.
type QuoteService struct {
	db       *gorm.DB
	notifier Notifier
	metrics  *metrics.Recorder
	log      *slog.Logger
	now      Clock
	cities   CityResolver
}

type Option func(*QuoteService)

func WithNotifier(n Notifier) Option         { return func(s *QuoteService) { s.notifier = n } }
func WithMetrics(r *metrics.Recorder) Option { return func(s *QuoteService) { s.metrics = r } }
func WithLogger(l *slog.Logger) Option       { return func(s *QuoteService) { s.log = l } }
func WithClock(c Clock) Option               { return func(s *QuoteService) { s.now = c } }
func WithCityResolver(r CityResolver) Option { return func(s *QuoteService) { s.cities = r } }

func NewQuoteService(db *gorm.DB, opts ...Option) *QuoteService {
	s := &QuoteService{
		db:     db,
		now:    UTCClock,
		cities: AddressCityResolver{},
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.notifier == nil {
		s.notifier = NewDBNotifier(db)
	}
	if s.log == nil {
		s.log = slog.Default()
	}
	return s
}

// QuoteItemInput is one requested line. Name and unit come from the catalog.
type QuoteItemInput struct {
	StockItemID        uint            `json:"stock_item_id"`
	Qty                decimal.Decimal `json:"qty"`
	UnitPrice          decimal.Decimal `json:"unit_price"`
	DiscountPercentage decimal.Decimal `json:"discount_percentage"`
}

type CreateQuoteInput struct {
	CompanyID         uint                  `json:"company_id"`
	ProjectID         uint                  `json:"project_id"`
	CustomerID        uint                  `json:"customer_id"`
	ContactID         *uint                 `json:"contact_id,omitempty"`
	WarehouseID       *uint                 `json:"warehouse_id,omitempty"`
	RouteID           *uint                 `json:"route_id,omitempty"`
	DeliveryMethod    models.DeliveryMethod `json:"delivery_method"`
	DeliveryAddress   string                `json:"delivery_address,omitempty"`
	DeliveryCity      string                `json:"delivery_city,omitempty"`
	ValidityDays      *int                  `json:"validity_days,omitempty"`
	PaymentTerms      models.PaymentTerms   `json:"payment_terms,omitempty"`
	DeliveryStartDate *time.Time            `json:"delivery_start_date,omitempty"`
	LoadsPerDay       *int                  `json:"loads_per_day,omitempty"`
	TruckType         *models.TruckType     `json:"truck_type,omitempty"`
	Notes             string                `json:"notes,omitempty"`
	Items             []QuoteItemInput      `json:"items"`
}

// UpdateQuoteInput is a patch: nil fields keep their stored value. A non nil
// Items replaces the whole item set.
type UpdateQuoteInput struct {
	ContactID         *uint                  `json:"contact_id,omitempty"`
	WarehouseID       *uint                  `json:"warehouse_id,omitempty"`
	RouteID           *uint                  `json:"route_id,omitempty"` // 0 unpins the route
	DeliveryMethod    *models.DeliveryMethod `json:"delivery_method,omitempty"`
	DeliveryAddress   *string                `json:"delivery_address,omitempty"`
	DeliveryCity      *string                `json:"delivery_city,omitempty"`
	ValidityDays      *int                   `json:"validity_days,omitempty"`
	PaymentTerms      *models.PaymentTerms   `json:"payment_terms,omitempty"`
	DeliveryStartDate *time.Time             `json:"delivery_start_date,omitempty"`
	LoadsPerDay       *int                   `json:"loads_per_day,omitempty"`
	TruckType         *models.TruckType      `json:"truck_type,omitempty"`
	Notes             *string                `json:"notes,omitempty"`
	Items             []QuoteItemInput       `json:"items,omitempty"`
}

// routeFieldsChanged reports whether the patch touches anything route
// binding depends on.
func (in UpdateQuoteInput) routeFieldsChanged() bool {
	return in.RouteID != nil || in.DeliveryMethod != nil || in.DeliveryAddress != nil ||
		in.DeliveryCity != nil || in.WarehouseID != nil
}

// quoteTerms are the scalar terms checked the same way on create and update.
type quoteTerms struct {
	DeliveryMethod  models.DeliveryMethod
	DeliveryAddress string
	DeliveryCity    string
	ValidityDays    int
	PaymentTerms    models.PaymentTerms
	LoadsPerDay     *int
	TruckType       *models.TruckType
}

var (
	deliveryMethods = []string{string(models.DeliveryMethodDelivered), string(models.DeliveryMethodCollected)}
	paymentTerms    = []string{
		string(models.PaymentTermsCOD), string(models.PaymentTermsCashOnOrder),
		string(models.PaymentTermsNet7), string(models.PaymentTermsNet30),
	}
	truckTypes = []string{string(models.TruckTypeSideTipper), string(models.TruckTypeTipper)}
)

func validateTerms(t quoteTerms, v validation.Violations) {
	validation.OneOf("delivery_method", string(t.DeliveryMethod), deliveryMethods, v)
	if t.DeliveryMethod == models.DeliveryMethodDelivered &&
		isBlank(t.DeliveryAddress) && isBlank(t.DeliveryCity) {
		v.Add("delivery_address", "required for delivered quotes")
	}
	if t.ValidityDays < 1 {
		v.Add("validity_days", "must be at least 1, got %d", t.ValidityDays)
	}
	validation.OneOf("payment_terms", string(t.PaymentTerms), paymentTerms, v)
	if t.LoadsPerDay != nil {
		validation.RangeInt("loads_per_day", *t.LoadsPerDay, 1, maxLoadsPerDay, v)
	}
	if t.TruckType != nil {
		validation.OneOf("truck_type", string(*t.TruckType), truckTypes, v)
	}
}

func validateItemInputs(items []QuoteItemInput, v validation.Violations) {
	if len(items) == 0 {
		v.Add("items", "at least one item is required")
		return
	}
	for i, it := range items {
		prefix := fmt.Sprintf("items[%d].", i)
		if it.StockItemID == 0 {
			v.Add(prefix+"stock_item_id", "required")
		}
		validation.PositiveDecimal(prefix+"qty", it.Qty, v)
		validation.NonNegativeDecimal(prefix+"unit_price", it.UnitPrice, v)
		validation.RangeDecimal(prefix+"discount_percentage", it.DiscountPercentage, decimal.Zero, hundred, v)
		validation.MaxScale(prefix+"qty", it.Qty, itemScale, v)
		validation.MaxScale(prefix+"unit_price", it.UnitPrice, itemScale, v)
		validation.MaxScale(prefix+"discount_percentage", it.DiscountPercentage, itemScale, v)
	}
}

// checkValidity enforces that only approvers may offer more than the default
// validity window.
func checkValidity(days int, actor Actor) error {
	if days > defaultValidityDays && !actor.CanApprove() {
		return &QuoteError{
			Kind:    ErrForbidden,
			Field:   "validity_days",
			Message: fmt.Sprintf("validity above %d days requires approval permission", defaultValidityDays),
		}
	}
	return nil
}

// CreateQuote validates the request, prices it and stores it as a DRAFT owned
// by the actor.
func (s *QuoteService) CreateQuote(ctx context.Context, in CreateQuoteInput, actor Actor) (*models.Quote, error) {
	validity := defaultValidityDays
	if in.ValidityDays != nil {
		validity = *in.ValidityDays
	}
	terms := quoteTerms{
		DeliveryMethod:  in.DeliveryMethod,
		DeliveryAddress: in.DeliveryAddress,
		DeliveryCity:    in.DeliveryCity,
		ValidityDays:    validity,
		PaymentTerms:    in.PaymentTerms,
		LoadsPerDay:     in.LoadsPerDay,
		TruckType:       in.TruckType,
	}
	if terms.PaymentTerms == "" {
		terms.PaymentTerms = models.PaymentTermsCOD
	}

	v := validation.Violations{}
	validateTerms(terms, v)
	validateItemInputs(in.Items, v)
	if !v.Empty() {
		return nil, invalidFields(v)
	}
	if err := checkValidity(validity, actor); err != nil {
		return nil, err
	}

	now := s.now()
	var quote models.Quote
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := checkParties(tx, in); err != nil {
			return err
		}
		items, err := buildItems(tx, in.ProjectID, in.Items)
		if err != nil {
			return err
		}
		route, err := s.bindRoute(tx, routeInput{
			DeliveryMethod:  in.DeliveryMethod,
			RouteID:         in.RouteID,
			DeliveryCity:    in.DeliveryCity,
			DeliveryAddress: in.DeliveryAddress,
			WarehouseID:     in.WarehouseID,
			CompanyID:       in.CompanyID,
		})
		if err != nil {
			return err
		}

		number, err := nextQuoteNumber(tx, now)
		if err != nil {
			return err
		}

		quote = models.Quote{
			CreatedAt:         now,
			UpdatedAt:         now,
			QuoteNumber:       number,
			CompanyID:         in.CompanyID,
			ProjectID:         in.ProjectID,
			CustomerID:        in.CustomerID,
			ContactID:         in.ContactID,
			WarehouseID:       in.WarehouseID,
			SalesRepID:        actor.UserID,
			DeliveryMethod:    in.DeliveryMethod,
			DeliveryAddress:   in.DeliveryAddress,
			DeliveryCity:      in.DeliveryCity,
			Status:            models.QuoteStatusDraft,
			ValidityDays:      validity,
			PaymentTerms:      terms.PaymentTerms,
			DeliveryStartDate: in.DeliveryStartDate,
			LoadsPerDay:       in.LoadsPerDay,
			TruckType:         in.TruckType,
			Notes:             in.Notes,
			Items:             items,
		}
		expires := ExpiresAt(now, validity)
		quote.ExpiresAt = &expires
		if err := applyPricing(&quote, route); err != nil {
			return err
		}

		if err := tx.Create(&quote).Error; err != nil {
			if isUniqueViolation(err) {
				return conflict("quote number %s already taken, retry", number)
			}
			return fmt.Errorf("create quote: %w", err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrConflict) {
			s.metrics.NumberConflict()
		}
		return nil, err
	}
	return &quote, nil
}

// applyPricing recomputes transport, totals, snapshots and service end date
// of q from q.Items and route.
func applyPricing(q *models.Quote, route *models.Route) error {
	lines := itemLines(q.Items)
	transport, err := CalculateTransport(route, lines)
	if err != nil {
		return err
	}
	totals := ComputeTotals(q.Items, transport.Total)

	q.RouteID = nil
	if route != nil {
		id := route.ID
		q.RouteID = &id
	}
	q.Subtotal = totals.Subtotal
	q.DiscountPercentage = totals.DiscountPercentage
	q.TransportTotal = totals.TransportTotal
	q.GrandTotal = totals.GrandTotal
	q.DistanceKmSnapshot = transport.DistanceKm
	q.CostPerKmSnapshot = transport.CostPerKm
	q.TollTotalSnapshot = transport.TollTotal
	q.ServiceEndDate = ServiceEndDate(q.DeliveryStartDate, q.LoadsPerDay, q.TruckType, TotalTonnage(lines))
	return nil
}

// checkParties verifies that the referenced company, project, customer,
// contact and warehouse exist and belong together.
func checkParties(tx *gorm.DB, in CreateQuoteInput) error {
	var company models.Company
	if err := tx.Select("id").First(&company, in.CompanyID).Error; err != nil {
		return lookupErr("company", in.CompanyID, err)
	}
	var project models.Project
	if err := tx.First(&project, in.ProjectID).Error; err != nil {
		return lookupErr("project", in.ProjectID, err)
	}
	if project.CompanyID != in.CompanyID {
		return invalid("project_id", "project %d does not belong to company %d", in.ProjectID, in.CompanyID)
	}
	var customer models.Customer
	if err := tx.Select("id").First(&customer, in.CustomerID).Error; err != nil {
		return lookupErr("customer", in.CustomerID, err)
	}
	if err := checkContact(tx, in.ContactID, in.CustomerID); err != nil {
		return err
	}
	return checkWarehouse(tx, in.WarehouseID, in.CompanyID)
}

func checkContact(tx *gorm.DB, contactID *uint, customerID uint) error {
	if contactID == nil {
		return nil
	}
	var contact models.Contact
	if err := tx.First(&contact, *contactID).Error; err != nil {
		return lookupErr("contact", *contactID, err)
	}
	if contact.CustomerID != customerID {
		return invalid("contact_id", "contact %d does not belong to customer %d", *contactID, customerID)
	}
	return nil
}

func checkWarehouse(tx *gorm.DB, warehouseID *uint, companyID uint) error {
	if warehouseID == nil {
		return nil
	}
	var wh models.Warehouse
	if err := tx.First(&wh, *warehouseID).Error; err != nil {
		return lookupErr("warehouse", *warehouseID, err)
	}
	if wh.CompanyID != companyID {
		return invalid("warehouse_id", "warehouse %d does not belong to company %d", *warehouseID, companyID)
	}
	return nil
}

// buildItems checks each requested line against the project catalog and
// returns the priced snapshots. The catalog is read in one query.
func buildItems(tx *gorm.DB, projectID uint, inputs []QuoteItemInput) ([]models.QuoteItem, error) {
	ids := make([]uint, 0, len(inputs))
	for _, in := range inputs {
		ids = append(ids, in.StockItemID)
	}
	var stock []models.StockItem
	if err := tx.Where("id IN ?", ids).Find(&stock).Error; err != nil {
		return nil, fmt.Errorf("load stock items: %w", err)
	}
	catalog := make(map[uint]models.StockItem, len(stock))
	for _, si := range stock {
		catalog[si.ID] = si
	}

	items := make([]models.QuoteItem, 0, len(inputs))
	for i, in := range inputs {
		field := fmt.Sprintf("items[%d]", i)
		si, ok := catalog[in.StockItemID]
		if !ok || si.ProjectID != projectID {
			return nil, &QuoteError{
				Kind:    ErrNotFound,
				Field:   field + ".stock_item_id",
				Message: fmt.Sprintf("stock item %d not found in project %d", in.StockItemID, projectID),
			}
		}
		if !si.IsActive {
			return nil, invalid(field+".stock_item_id", "stock item %q is inactive", si.Name)
		}

		final := DiscountedPrice(in.UnitPrice, in.DiscountPercentage)
		if final.LessThan(si.MinUnitPrice) {
			return nil, invalid(field+".unit_price", "final price %s for %q is below the minimum %s",
				final.String(), si.Name, si.MinUnitPrice.String())
		}
		if in.Qty.LessThan(si.MinOrderQty) {
			return nil, invalid(field+".qty", "quantity %s for %q is below the minimum order %s",
				in.Qty.String(), si.Name, si.MinOrderQty.String())
		}
		if si.TruckloadOnly && si.MinOrderQty.IsPositive() && !in.Qty.Mod(si.MinOrderQty).IsZero() {
			return nil, invalid(field+".qty", "%q is sold by full truckload: quantity %s must be a multiple of %s",
				si.Name, in.Qty.String(), si.MinOrderQty.String())
		}

		items = append(items, models.QuoteItem{
			StockItemID:        si.ID,
			NameSnapshot:       si.Name,
			UOMSnapshot:        si.UOM,
			Qty:                in.Qty,
			UnitPrice:          in.UnitPrice,
			DiscountPercentage: in.DiscountPercentage,
			LineTotal:          LineTotal(in.Qty, in.UnitPrice, in.DiscountPercentage),
			Position:           i,
		})
	}
	return items, nil
}

// UpdateQuote applies a patch to a DRAFT or REJECTED quote. Replacing the
// items, or changing anything route binding depends on, reprices the quote.
func (s *QuoteService) UpdateQuote(ctx context.Context, id uint, in UpdateQuoteInput, actor Actor) (*models.Quote, error) {
	if in.Items != nil {
		v := validation.Violations{}
		validateItemInputs(in.Items, v)
		if !v.Empty() {
			return nil, invalidFields(v)
		}
	}

	now := s.now()
	var quote models.Quote
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Items", orderedItems).First(&quote, id).Error; err != nil {
			return lookupErr("quote", id, err)
		}
		if quote.SalesRepID != actor.UserID && !actor.CanApprove() {
			return forbidden("only the owner or an approver can edit quote %s", quote.QuoteNumber)
		}
		if !quote.CanEdit() || quote.Archived {
			return invalid("status", "cannot edit quote %s in status %s", quote.QuoteNumber, describeStatus(&quote))
		}

		applyPatch(&quote, in)
		v := validation.Violations{}
		validateTerms(quoteTerms{
			DeliveryMethod:  quote.DeliveryMethod,
			DeliveryAddress: quote.DeliveryAddress,
			DeliveryCity:    quote.DeliveryCity,
			ValidityDays:    quote.ValidityDays,
			PaymentTerms:    quote.PaymentTerms,
			LoadsPerDay:     quote.LoadsPerDay,
			TruckType:       quote.TruckType,
		}, v)
		if !v.Empty() {
			return invalidFields(v)
		}
		if in.ValidityDays != nil {
			if err := checkValidity(quote.ValidityDays, actor); err != nil {
				return err
			}
			expires := ExpiresAt(quote.CreatedAt, quote.ValidityDays)
			quote.ExpiresAt = &expires
		}
		if err := checkContact(tx, quote.ContactID, quote.CustomerID); err != nil {
			return err
		}
		if err := checkWarehouse(tx, quote.WarehouseID, quote.CompanyID); err != nil {
			return err
		}

		if in.Items != nil {
			items, err := buildItems(tx, quote.ProjectID, in.Items)
			if err != nil {
				return err
			}
			if err := tx.Where("quote_id = ?", quote.ID).Delete(&models.QuoteItem{}).Error; err != nil {
				return fmt.Errorf("delete items: %w", err)
			}
			for i := range items {
				items[i].QuoteID = quote.ID
			}
			if err := tx.Create(&items).Error; err != nil {
				return fmt.Errorf("create items: %w", err)
			}
			quote.Items = items
		}

		if in.Items != nil || in.routeFieldsChanged() {
			route, err := s.updatedRoute(tx, &quote, in)
			if err != nil {
				return err
			}
			if err := applyPricing(&quote, route); err != nil {
				return err
			}
		} else {
			quote.ServiceEndDate = ServiceEndDate(quote.DeliveryStartDate, quote.LoadsPerDay, quote.TruckType,
				TotalTonnage(itemLines(quote.Items)))
		}

		quote.UpdatedAt = now
		return tx.Model(&models.Quote{}).Where("id = ?", quote.ID).Updates(map[string]any{
			"contact_id":           quote.ContactID,
			"warehouse_id":         quote.WarehouseID,
			"route_id":             quote.RouteID,
			"delivery_method":      quote.DeliveryMethod,
			"delivery_address":     quote.DeliveryAddress,
			"delivery_city":        quote.DeliveryCity,
			"validity_days":        quote.ValidityDays,
			"payment_terms":        quote.PaymentTerms,
			"expires_at":           quote.ExpiresAt,
			"delivery_start_date":  quote.DeliveryStartDate,
			"service_end_date":     quote.ServiceEndDate,
			"loads_per_day":        quote.LoadsPerDay,
			"truck_type":           quote.TruckType,
			"notes":                quote.Notes,
			"subtotal":             quote.Subtotal,
			"discount_percentage":  quote.DiscountPercentage,
			"transport_total":      quote.TransportTotal,
			"grand_total":          quote.GrandTotal,
			"distance_km_snapshot": quote.DistanceKmSnapshot,
			"cost_per_km_snapshot": quote.CostPerKmSnapshot,
			"toll_total_snapshot":  quote.TollTotalSnapshot,
			"updated_at":           now,
		}).Error
	})
	if err != nil {
		return nil, err
	}
	return &quote, nil
}

func applyPatch(q *models.Quote, in UpdateQuoteInput) {
	if in.ContactID != nil {
		q.ContactID = in.ContactID
	}
	if in.WarehouseID != nil {
		q.WarehouseID = in.WarehouseID
	}
	if in.DeliveryMethod != nil {
		q.DeliveryMethod = *in.DeliveryMethod
	}
	if in.DeliveryAddress != nil {
		q.DeliveryAddress = *in.DeliveryAddress
	}
	if in.DeliveryCity != nil {
		q.DeliveryCity = *in.DeliveryCity
	}
	if in.ValidityDays != nil {
		q.ValidityDays = *in.ValidityDays
	}
	if in.PaymentTerms != nil {
		q.PaymentTerms = *in.PaymentTerms
	}
	if in.DeliveryStartDate != nil {
		q.DeliveryStartDate = in.DeliveryStartDate
	}
	if in.LoadsPerDay != nil {
		q.LoadsPerDay = in.LoadsPerDay
	}
	if in.TruckType != nil {
		q.TruckType = in.TruckType
	}
	if in.Notes != nil {
		q.Notes = *in.Notes
	}
}

// updatedRoute picks the route an updated quote is priced on. A patch that
// touches route fields rebinds from the merged terms and only a route_id in
// the patch itself pins a route; route_id 0 drops the pin. An items only patch
// keeps the stored route.
func (s *QuoteService) updatedRoute(tx *gorm.DB, quote *models.Quote, in UpdateQuoteInput) (*models.Route, error) {
	if !in.routeFieldsChanged() && quote.RouteID != nil {
		route, err := loadRoute(tx, *quote.RouteID)
		if !errors.Is(err, ErrNotFound) {
			return route, err
		}
	}
	var pinned *uint
	if in.RouteID != nil && *in.RouteID != 0 {
		pinned = in.RouteID
	}
	return s.bindRoute(tx, routeInput{
		DeliveryMethod:  quote.DeliveryMethod,
		RouteID:         pinned,
		DeliveryCity:    quote.DeliveryCity,
		DeliveryAddress: quote.DeliveryAddress,
		WarehouseID:     quote.WarehouseID,
		CompanyID:       quote.CompanyID,
	})
}

func orderedItems(db *gorm.DB) *gorm.DB { return db.Order("position ASC, id ASC") }

func orderedAudits(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }

// GetQuote loads a quote with its items and audit trail.
func (s *QuoteService) GetQuote(ctx context.Context, id uint) (*models.Quote, error) {
	var q models.Quote
	err := s.db.WithContext(ctx).
		Preload("Items", orderedItems).
		Preload("Audits", orderedAudits).
		First(&q, id).Error
	if err != nil {
		return nil, lookupErr("quote", id, err)
	}
	return &q, nil
}

// QuoteFilter narrows ListQuotes. Archived quotes are hidden unless
// IncludeArchived is set.
type QuoteFilter struct {
	Status          models.QuoteStatus
	SalesRepID      uint
	CustomerID      uint
	IncludeArchived bool
	Limit           int
	Offset          int
}

func (s *QuoteService) ListQuotes(ctx context.Context, f QuoteFilter) ([]models.Quote, error) {
	q := s.db.WithContext(ctx).Model(&models.Quote{})
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.SalesRepID != 0 {
		q = q.Where("sales_rep_id = ?", f.SalesRepID)
	}
	if f.CustomerID != 0 {
		q = q.Where("customer_id = ?", f.CustomerID)
	}
	if !f.IncludeArchived {
		q = q.Where("archived = ?", false)
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}
	if f.Offset > 0 {
		q = q.Offset(f.Offset)
	}
	var quotes []models.Quote
	if err := q.Order("created_at DESC, id DESC").Find(&quotes).Error; err != nil {
		return nil, fmt.Errorf("list quotes: %w", err)
	}
	return quotes, nil
}

// QuoteAudit returns the approval trail of a quote, oldest first.
func (s *QuoteService) QuoteAudit(ctx context.Context, id uint) ([]models.QuoteApprovalAudit, error) {
	db := s.db.WithContext(ctx)
	var n int64
	if err := db.Model(&models.Quote{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return nil, fmt.Errorf("load quote %d: %w", id, err)
	}
	if n == 0 {
		return nil, notFound("quote", id)
	}
	var audits []models.QuoteApprovalAudit
	if err := orderedAudits(db.Where("quote_id = ?", id)).Find(&audits).Error; err != nil {
		return nil, fmt.Errorf("load audit: %w", err)
	}
	return audits, nil
}

func isBlank(s string) bool { return strings.TrimSpace(s) == "" }
