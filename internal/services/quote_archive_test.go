package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/diewo77/go-erp/internal/models"
	"gorm.io/gorm"
)

// insertQuote stores a bare quote in the given state, bypassing the workflow.
func insertQuote(t *testing.T, conn *gorm.DB, f fixture, status models.QuoteStatus, stamp time.Time, set map[string]any) models.Quote {
	t.Helper()
	var n int64
	conn.Model(&models.Quote{}).Count(&n)
	q := models.Quote{
		QuoteNumber:    fmt.Sprintf("Q-TEST-%04d", n+1),
		CompanyID:      f.company.ID,
		ProjectID:      f.project.ID,
		CustomerID:     f.customer.ID,
		SalesRepID:     salesRep.UserID,
		DeliveryMethod: models.DeliveryMethodCollected,
		PaymentTerms:   models.PaymentTermsCOD,
		Status:         status,
	}
	mustCreate(t, conn, &q)
	cols := map[string]any{"created_at": stamp, "updated_at": stamp}
	for k, v := range set {
		cols[k] = v
	}
	if err := conn.Model(&models.Quote{}).Where("id = ?", q.ID).UpdateColumns(cols).Error; err != nil {
		t.Fatalf("stamp quote: %v", err)
	}
	return q
}

func isArchived(t *testing.T, conn *gorm.DB, id uint) bool {
	t.Helper()
	return reload(t, conn, id).Archived
}

func TestSweepArchivesRejectedAfterAWeek(t *testing.T) {
	conn := setupTestDB(t)
	f := seedFixture(t, conn)
	now := time.Date(2025, 6, 20, 2, 0, 0, 0, time.UTC)
	svc := newTestService(conn, &fakeClock{now})

	old := insertQuote(t, conn, f, models.QuoteStatusRejected, now.AddDate(0, 0, -20),
		map[string]any{"rejected_at": now.AddDate(0, 0, -8)})
	recent := insertQuote(t, conn, f, models.QuoteStatusRejected, now.AddDate(0, 0, -20),
		map[string]any{"rejected_at": now.AddDate(0, 0, -6)})

	res, err := svc.RunArchivingSweep(context.Background(), now)
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if res.Rejected != 1 {
		t.Fatalf("rejected archived = %d, want 1", res.Rejected)
	}
	if !isArchived(t, conn, old.ID) {
		t.Error("quote rejected 8 days ago should be archived")
	}
	if isArchived(t, conn, recent.ID) {
		t.Error("quote rejected 6 days ago should stay visible")
	}
	stored := reload(t, conn, old.ID)
	if stored.ArchivedAt == nil || !stored.ArchivedAt.Equal(now) {
		t.Errorf("archived at %v", stored.ArchivedAt)
	}
}

func TestSweepArchivesOutcomeAfterMonthEnds(t *testing.T) {
	march15 := time.Date(2025, 3, 15, 14, 0, 0, 0, time.UTC)
	tests := []struct {
		name string
		now  time.Time
		want bool
	}{
		{"april 2", time.Date(2025, 4, 2, 2, 0, 0, 0, time.UTC), true},
		{"april 1 midnight", time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC), true},
		{"march 20", time.Date(2025, 3, 20, 2, 0, 0, 0, time.UTC), false},
		{"march 31 late", time.Date(2025, 3, 31, 23, 59, 0, 0, time.UTC), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conn := setupTestDB(t)
			f := seedFixture(t, conn)
			svc := newTestService(conn, &fakeClock{tt.now})
			won := insertQuote(t, conn, f, models.QuoteStatusWon, march15, nil)
			lost := insertQuote(t, conn, f, models.QuoteStatusLost, march15, nil)

			res, err := svc.RunArchivingSweep(context.Background(), tt.now)
			if err != nil {
				t.Fatalf("sweep: %v", err)
			}
			if got := isArchived(t, conn, won.ID); got != tt.want {
				t.Errorf("won archived = %v, want %v", got, tt.want)
			}
			if got := isArchived(t, conn, lost.ID); got != tt.want {
				t.Errorf("lost archived = %v, want %v", got, tt.want)
			}
			wantCount := 0
			if tt.want {
				wantCount = 2
			}
			if res.Outcome != wantCount {
				t.Errorf("outcome count = %d, want %d", res.Outcome, wantCount)
			}
		})
	}
}

func TestSweepArchivesLongExpired(t *testing.T) {
	conn := setupTestDB(t)
	f := seedFixture(t, conn)
	now := time.Date(2025, 6, 20, 2, 0, 0, 0, time.UTC)
	svc := newTestService(conn, &fakeClock{now})

	stale := insertQuote(t, conn, f, models.QuoteStatusApproved, now.AddDate(0, 0, -30),
		map[string]any{"expires_at": now.AddDate(0, 0, -8)})
	fresh := insertQuote(t, conn, f, models.QuoteStatusApproved, now.AddDate(0, 0, -30),
		map[string]any{"expires_at": now.AddDate(0, 0, -2)})
	open := insertQuote(t, conn, f, models.QuoteStatusDraft, now.AddDate(0, 0, -30), nil)

	res, err := svc.RunArchivingSweep(context.Background(), now)
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if res.Expired != 1 || res.Total() != 1 {
		t.Fatalf("result %+v, want one expired", res)
	}
	if !isArchived(t, conn, stale.ID) || isArchived(t, conn, fresh.ID) || isArchived(t, conn, open.ID) {
		t.Fatal("only the quote expired 8 days ago should be archived")
	}
}

func TestSweepSkipsArchivedAndCountsEachRuleOnce(t *testing.T) {
	conn := setupTestDB(t)
	f := seedFixture(t, conn)
	now := time.Date(2025, 6, 20, 2, 0, 0, 0, time.UTC)
	svc := newTestService(conn, &fakeClock{now})
	longAgo := now.AddDate(0, -3, 0)

	// Matches rules 1 and 3; rule 1 runs first.
	insertQuote(t, conn, f, models.QuoteStatusRejected, longAgo, map[string]any{
		"rejected_at": longAgo,
		"expires_at":  longAgo,
	})
	// Matches rules 2 and 3; rule 2 runs first.
	insertQuote(t, conn, f, models.QuoteStatusWon, longAgo, map[string]any{"expires_at": longAgo})
	insertQuote(t, conn, f, models.QuoteStatusRejected, longAgo, map[string]any{
		"rejected_at": longAgo,
		"archived":    true,
	})

	res, err := svc.RunArchivingSweep(context.Background(), now)
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if res != (SweepResult{Rejected: 1, Outcome: 1, Expired: 0}) {
		t.Fatalf("result %+v", res)
	}

	again, err := svc.RunArchivingSweep(context.Background(), now)
	if err != nil {
		t.Fatalf("second sweep: %v", err)
	}
	if again.Total() != 0 {
		t.Fatalf("second sweep archived %+v", again)
	}
}

func TestFirstOfNextMonth(t *testing.T) {
	got := firstOfNextMonth(time.Date(2024, 12, 31, 23, 0, 0, 0, time.UTC))
	if !got.Equal(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("got %v", got)
	}
}
