package services

import (
	"context"
	"fmt"
	"time"

	"github.com/diewo77/go-erp/internal/models"
)

// Archive rules, also used as metric labels.
const (
	ArchiveRuleManual   = "manual"
	ArchiveRuleRejected = "rejected"
	ArchiveRuleOutcome  = "outcome"
	ArchiveRuleExpired  = "expired"
)

// archiveGraceDays is how long rejected and expired quotes stay visible.
const archiveGraceDays = 7

// SweepResult counts the quotes archived by each rule of one sweep.
type SweepResult struct {
	Rejected int `json:"rejected"`
	Outcome  int `json:"outcome"`
	Expired  int `json:"expired"`
}

func (r SweepResult) Total() int { return r.Rejected + r.Outcome + r.Expired }

// RunArchivingSweep archives, in order:
//  1. REJECTED quotes rejected at least 7 days before now,
//  2. WON and LOST quotes whose last status change lies in a calendar month
//     that has fully elapsed,
//  3. quotes that expired at least 7 days before now.
//
// A failure on a single quote in rule 2 is logged and skipped.
func (s *QuoteService) RunArchivingSweep(ctx context.Context, now time.Time) (SweepResult, error) {
	var res SweepResult
	db := s.db.WithContext(ctx)
	cutoff := now.AddDate(0, 0, -archiveGraceDays)
	archive := map[string]any{"archived": true, "archived_at": now}

	rejected := db.Model(&models.Quote{}).
		Where("archived = ? AND status = ? AND rejected_at IS NOT NULL AND rejected_at <= ?",
			false, models.QuoteStatusRejected, cutoff).
		UpdateColumns(archive)
	if rejected.Error != nil {
		return res, fmt.Errorf("archive rejected quotes: %w", rejected.Error)
	}
	res.Rejected = int(rejected.RowsAffected)

	var closed []models.Quote
	err := db.Select("id", "quote_number", "created_at", "updated_at").
		Where("archived = ? AND status IN ?", false,
			[]models.QuoteStatus{models.QuoteStatusWon, models.QuoteStatusLost}).
		Find(&closed).Error
	if err != nil {
		return res, fmt.Errorf("load closed quotes: %w", err)
	}
	for _, q := range closed {
		if now.Before(firstOfNextMonth(q.LastStatusChange().In(now.Location()))) {
			continue
		}
		r := db.Model(&models.Quote{}).
			Where("id = ? AND archived = ?", q.ID, false).
			UpdateColumns(archive)
		if r.Error != nil {
			s.log.Error("archive closed quote failed", "quote_id", q.ID, "quote_number", q.QuoteNumber, "err", r.Error)
			continue
		}
		res.Outcome += int(r.RowsAffected)
	}

	expired := db.Model(&models.Quote{}).
		Where("archived = ? AND expires_at IS NOT NULL AND expires_at <= ?", false, cutoff).
		UpdateColumns(archive)
	if expired.Error != nil {
		return res, fmt.Errorf("archive expired quotes: %w", expired.Error)
	}
	res.Expired = int(expired.RowsAffected)

	s.metrics.Archived(ArchiveRuleRejected, res.Rejected)
	s.metrics.Archived(ArchiveRuleOutcome, res.Outcome)
	s.metrics.Archived(ArchiveRuleExpired, res.Expired)
	s.log.Info("archiving sweep done",
		"rejected", res.Rejected, "outcome", res.Outcome, "expired", res.Expired, "total", res.Total())
	return res, nil
}

// firstOfNextMonth returns midnight on the first day of the month after t,
// in t's location.
func firstOfNextMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month()+1, 1, 0, 0, 0, 0, t.Location())
}
