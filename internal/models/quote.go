package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// QuoteStatus is the approval workflow state of a quote.
type QuoteStatus string

const (
	QuoteStatusDraft           QuoteStatus = "DRAFT"
	QuoteStatusPendingApproval QuoteStatus = "PENDING_APPROVAL"
	QuoteStatusApproved        QuoteStatus = "APPROVED"
	QuoteStatusRejected        QuoteStatus = "REJECTED"
	QuoteStatusWon             QuoteStatus = "WON"
	QuoteStatusLost            QuoteStatus = "LOST"
)

// DeliveryMethod tells whether transport is priced into the quote.
type DeliveryMethod string

const (
	DeliveryMethodDelivered DeliveryMethod = "DELIVERED"
	DeliveryMethodCollected DeliveryMethod = "COLLECTED"
)

// PaymentTerms of a quote.
type PaymentTerms string

const (
	PaymentTermsCOD         PaymentTerms = "COD"
	PaymentTermsCashOnOrder PaymentTerms = "CASH_ON_ORDER"
	PaymentTermsNet7        PaymentTerms = "NET_7"
	PaymentTermsNet30       PaymentTerms = "NET_30"
)

// TruckType determines the tonnage carried per load.
type TruckType string

const (
	TruckTypeSideTipper TruckType = "SIDE_TIPPER"
	TruckTypeTipper     TruckType = "TIPPER"
)

var truckCapacities = map[TruckType]decimal.Decimal{
	TruckTypeSideTipper: decimal.NewFromInt(42),
	TruckTypeTipper:     decimal.NewFromInt(40),
}

// Capacity returns the tonnes per load, false for unknown truck types.
func (t TruckType) Capacity() (decimal.Decimal, bool) {
	c, ok := truckCapacities[t]
	return c, ok
}

// LossReason categorises why a quote was lost.
type LossReason string

const (
	LossReasonPrice             LossReason = "PRICE"
	LossReasonCompetitor        LossReason = "COMPETITOR"
	LossReasonTiming            LossReason = "TIMING"
	LossReasonLogistics         LossReason = "LOGISTICS"
	LossReasonCustomerCancelled LossReason = "CUSTOMER_CANCELLED"
	LossReasonOther             LossReason = "OTHER"
)

// Quote is a priced proposal to a customer. Monetary fields are derived from
// the items and the bound route; they are never taken from caller input.
type Quote struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	QuoteNumber string `gorm:"size:20;uniqueIndex;not null" json:"quote_number"`

	CompanyID   uint  `gorm:"index;not null" json:"company_id"`
	ProjectID   uint  `gorm:"index;not null" json:"project_id"`
	CustomerID  uint  `gorm:"index;not null" json:"customer_id"`
	ContactID   *uint `gorm:"index" json:"contact_id,omitempty"`
	WarehouseID *uint `gorm:"index" json:"warehouse_id,omitempty"`
	RouteID     *uint `gorm:"index" json:"route_id,omitempty"`
	// SalesRepID owns the quote.
	SalesRepID uint `gorm:"index;not null" json:"sales_rep_id"`

	DeliveryMethod  DeliveryMethod `gorm:"size:20;not null" json:"delivery_method"`
	DeliveryAddress string         `gorm:"size:500" json:"delivery_address,omitempty"`
	DeliveryCity    string         `gorm:"size:100" json:"delivery_city,omitempty"`

	Subtotal decimal.Decimal `gorm:"type:numeric;not null;default:0" json:"subtotal"`
	// DiscountPercentage is the blended rate rounded for display. The exact
	// discount lives in the items, so subtotal less this rate may differ from
	// GrandTotal by a rounding step.
	DiscountPercentage decimal.Decimal `gorm:"type:decimal(9,4);not null;default:0" json:"discount_percentage"`
	TransportTotal     decimal.Decimal `gorm:"type:numeric;not null;default:0" json:"transport_total"`
	GrandTotal         decimal.Decimal `gorm:"type:numeric;not null;default:0" json:"grand_total"`

	DistanceKmSnapshot decimal.Decimal `gorm:"type:decimal(12,3);not null;default:0" json:"distance_km_snapshot"`
	CostPerKmSnapshot  decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"cost_per_km_snapshot"`
	TollTotalSnapshot  decimal.Decimal `gorm:"type:numeric;not null;default:0" json:"toll_total_snapshot"`

	Status      QuoteStatus `gorm:"size:30;not null;index" json:"status"`
	SubmittedAt *time.Time  `json:"submitted_at,omitempty"`
	ApprovedAt  *time.Time  `json:"approved_at,omitempty"`
	RejectedAt  *time.Time  `gorm:"index" json:"rejected_at,omitempty"`
	Archived    bool        `gorm:"not null;default:false;index" json:"archived"`
	ArchivedAt  *time.Time  `json:"archived_at,omitempty"`

	ValidityDays      int          `gorm:"not null;default:7" json:"validity_days"`
	PaymentTerms      PaymentTerms `gorm:"size:30;not null" json:"payment_terms"`
	ExpiresAt         *time.Time   `gorm:"index" json:"expires_at,omitempty"`
	DeliveryStartDate *time.Time   `json:"delivery_start_date,omitempty"`
	ServiceEndDate    *time.Time   `json:"service_end_date,omitempty"`
	LoadsPerDay       *int         `json:"loads_per_day,omitempty"`
	TruckType         *TruckType   `gorm:"size:30" json:"truck_type,omitempty"`

	LossReasonCategory *LossReason `gorm:"size:30" json:"loss_reason_category,omitempty"`
	OutcomeReasonNotes string      `gorm:"type:text" json:"outcome_reason_notes,omitempty"`
	Notes              string      `gorm:"type:text" json:"notes,omitempty"`

	Items  []QuoteItem          `gorm:"foreignKey:QuoteID" json:"items,omitempty"`
	Audits []QuoteApprovalAudit `gorm:"foreignKey:QuoteID" json:"audits,omitempty"`
}

// GetUserID implements policy.Ownable: the sales rep owns the quote.
func (q *Quote) GetUserID() uint {
	return q.SalesRepID
}

// CanEdit reports whether items and terms may still change.
func (q *Quote) CanEdit() bool {
	return q.Status == QuoteStatusDraft || q.Status == QuoteStatusRejected
}

// CanArchive reports whether the status allows archiving at all.
func (q *Quote) CanArchive() bool {
	switch q.Status {
	case QuoteStatusWon, QuoteStatusLost, QuoteStatusRejected:
		return !q.Archived
	}
	return false
}

// LastStatusChange is the timestamp the outcome aging rule measures from.
func (q *Quote) LastStatusChange() time.Time {
	if !q.UpdatedAt.IsZero() {
		return q.UpdatedAt
	}
	return q.CreatedAt
}

// QuoteItem is a frozen snapshot of a catalog entry at the time it was quoted.
type QuoteItem struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	QuoteID      uint   `gorm:"index;not null" json:"quote_id"`
	StockItemID  uint   `gorm:"index;not null" json:"stock_item_id"`
	NameSnapshot string `gorm:"size:255;not null" json:"name_snapshot"`
	UOMSnapshot  string `gorm:"size:30;not null" json:"uom_snapshot"`

	Qty                decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"qty"`
	UnitPrice          decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"unit_price"`
	DiscountPercentage decimal.Decimal `gorm:"type:decimal(9,4);not null;default:0" json:"discount_percentage"`
	LineTotal          decimal.Decimal `gorm:"type:numeric;not null" json:"line_total"`
	Position           int             `gorm:"default:0" json:"position"`
}
