package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestQuote_GetUserID(t *testing.T) {
	q := &Quote{SalesRepID: 42}
	if got := q.GetUserID(); got != 42 {
		t.Errorf("GetUserID() = %d, want 42", got)
	}
}

func TestQuote_Status(t *testing.T) {
	tests := []struct {
		name       string
		status     QuoteStatus
		archived   bool
		canEdit    bool
		canArchive bool
	}{
		{"draft", QuoteStatusDraft, false, true, false},
		{"pending", QuoteStatusPendingApproval, false, false, false},
		{"approved", QuoteStatusApproved, false, false, false},
		{"rejected", QuoteStatusRejected, false, true, true},
		{"won", QuoteStatusWon, false, false, true},
		{"lost", QuoteStatusLost, false, false, true},
		{"lost archived", QuoteStatusLost, true, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := &Quote{Status: tt.status, Archived: tt.archived}
			if got := q.CanEdit(); got != tt.canEdit {
				t.Errorf("CanEdit() = %v, want %v", got, tt.canEdit)
			}
			if got := q.CanArchive(); got != tt.canArchive {
				t.Errorf("CanArchive() = %v, want %v", got, tt.canArchive)
			}
		})
	}
}

func TestQuote_LastStatusChange(t *testing.T) {
	created := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	updated := created.Add(48 * time.Hour)
	if got := (&Quote{CreatedAt: created}).LastStatusChange(); !got.Equal(created) {
		t.Errorf("expected fallback to created_at, got %v", got)
	}
	if got := (&Quote{CreatedAt: created, UpdatedAt: updated}).LastStatusChange(); !got.Equal(updated) {
		t.Errorf("expected updated_at, got %v", got)
	}
}

func TestTruckType_Capacity(t *testing.T) {
	if c, ok := TruckTypeSideTipper.Capacity(); !ok || !c.Equal(decimal.NewFromInt(42)) {
		t.Errorf("side tipper capacity = %s, %v", c, ok)
	}
	if c, ok := TruckTypeTipper.Capacity(); !ok || !c.Equal(decimal.NewFromInt(40)) {
		t.Errorf("tipper capacity = %s, %v", c, ok)
	}
	if _, ok := TruckType("VAN").Capacity(); ok {
		t.Error("unknown truck type must have no capacity")
	}
}

func TestRoute_HasRate(t *testing.T) {
	tests := []struct {
		name string
		rate decimal.NullDecimal
		want bool
	}{
		{"unset", decimal.NullDecimal{}, false},
		{"zero", decimal.NewNullDecimal(decimal.Zero), false},
		{"set", decimal.NewNullDecimal(decimal.NewFromInt(2)), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &Route{CostPerKm: tt.rate}
			if got := r.HasRate(); got != tt.want {
				t.Errorf("HasRate() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestProfile_Codes(t *testing.T) {
	p := &Profile{Permissions: []Permission{
		{ResourceType: "quote", Action: "approve"},
		{ResourceType: "*", Action: "*"},
	}}
	codes := p.Codes()
	if len(codes) != 2 || codes[0] != "quote:approve" || codes[1] != "*:*" {
		t.Errorf("unexpected codes %v", codes)
	}
}
