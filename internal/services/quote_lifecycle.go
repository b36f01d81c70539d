package services

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/diewo77/go-erp/internal/models"
	"gorm.io/gorm"
)

// transition describes one audited status change.
type transition struct {
	action models.AuditAction
	verb   string
	from   []models.QuoteStatus
	to     models.QuoteStatus
	notes  string
	// authorize runs before the status check.
	authorize func(q *models.Quote) error
	// precheck runs after the status check, inside the transaction.
	precheck func(tx *gorm.DB, q *models.Quote) error
	// fields adds columns to the status update.
	fields func(q *models.Quote, now time.Time) map[string]any
}

// apply runs t on quote id: authorization, status check, conditional update and
// audit row, all in one transaction.
func (s *QuoteService) apply(ctx context.Context, id uint, actor Actor, t transition) (*models.Quote, error) {
	now := s.now()
	var quote models.Quote
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&quote, id).Error; err != nil {
			return lookupErr("quote", id, err)
		}
		if err := t.authorize(&quote); err != nil {
			return err
		}
		if quote.Archived || !slices.Contains(t.from, quote.Status) {
			return invalid("status", "cannot %s quote %s in status %s", t.verb, quote.QuoteNumber, describeStatus(&quote))
		}
		if t.precheck != nil {
			if err := t.precheck(tx, &quote); err != nil {
				return err
			}
		}

		updates := map[string]any{"status": t.to, "updated_at": now}
		if t.fields != nil {
			for k, v := range t.fields(&quote, now) {
				updates[k] = v
			}
		}
		res := tx.Model(&models.Quote{}).
			Where("id = ? AND status = ? AND archived = ?", quote.ID, quote.Status, false).
			Updates(updates)
		if res.Error != nil {
			return fmt.Errorf("%s quote: %w", t.verb, res.Error)
		}
		if res.RowsAffected == 0 {
			return conflict("quote %s changed while it was being processed, retry", quote.QuoteNumber)
		}

		audit := models.QuoteApprovalAudit{
			CreatedAt:   now,
			QuoteID:     quote.ID,
			Action:      t.action,
			ActorUserID: actor.UserID,
			Notes:       t.notes,
		}
		if err := tx.Create(&audit).Error; err != nil {
			return fmt.Errorf("write audit: %w", err)
		}

		return tx.Preload("Items", orderedItems).First(&quote, id).Error
	})
	if err != nil {
		return nil, err
	}
	s.metrics.Transition(string(t.action))
	return &quote, nil
}

func describeStatus(q *models.Quote) string {
	if q.Archived {
		return string(q.Status) + " (archived)"
	}
	return string(q.Status)
}

func ownerOnly(actor Actor, verb string) func(q *models.Quote) error {
	return func(q *models.Quote) error {
		if q.SalesRepID != actor.UserID {
			return forbidden("only the owner can %s quote %s", verb, q.QuoteNumber)
		}
		return nil
	}
}

func requirePermission(allowed bool, verb string) func(q *models.Quote) error {
	return func(q *models.Quote) error {
		if !allowed {
			return forbidden("not allowed to %s quote %s", verb, q.QuoteNumber)
		}
		return nil
	}
}

// SubmitQuote sends a DRAFT or REJECTED quote for approval.
func (s *QuoteService) SubmitQuote(ctx context.Context, id uint, actor Actor, notes string) (*models.Quote, error) {
	return s.apply(ctx, id, actor, transition{
		action:    models.AuditActionSubmit,
		verb:      "submit",
		from:      []models.QuoteStatus{models.QuoteStatusDraft, models.QuoteStatusRejected},
		to:        models.QuoteStatusPendingApproval,
		notes:     notes,
		authorize: ownerOnly(actor, "submit"),
		precheck: func(tx *gorm.DB, q *models.Quote) error {
			var items int64
			if err := tx.Model(&models.QuoteItem{}).Where("quote_id = ?", q.ID).Count(&items).Error; err != nil {
				return fmt.Errorf("count items: %w", err)
			}
			if items == 0 {
				return invalid("items", "quote %s has no items", q.QuoteNumber)
			}
			if q.DeliveryMethod == models.DeliveryMethodDelivered && q.RouteID == nil {
				return invalid("route_id", "delivered quote %s has no route bound", q.QuoteNumber)
			}
			return nil
		},
		fields: func(_ *models.Quote, now time.Time) map[string]any {
			return map[string]any{"submitted_at": now}
		},
	})
}

// ApproveQuote approves a pending quote and restarts its validity window. The
// owner is notified; a failed notification is only logged.
func (s *QuoteService) ApproveQuote(ctx context.Context, id uint, actor Actor, notes string) (*models.Quote, error) {
	q, err := s.apply(ctx, id, actor, transition{
		action:    models.AuditActionApprove,
		verb:      "approve",
		from:      []models.QuoteStatus{models.QuoteStatusPendingApproval},
		to:        models.QuoteStatusApproved,
		notes:     notes,
		authorize: requirePermission(actor.CanApprove(), "approve"),
		fields: func(q *models.Quote, now time.Time) map[string]any {
			return map[string]any{
				"approved_at": now,
				"expires_at":  ExpiresAt(now, q.ValidityDays),
			}
		},
	})
	if err != nil {
		return nil, err
	}

	if err := s.notifyOwner(ctx, q, NotificationQuoteApproved, "Quote approved",
		fmt.Sprintf("Quote %s has been approved.", q.QuoteNumber)); err != nil {
		s.log.Warn("approval notification failed", "quote_id", q.ID, "user_id", q.SalesRepID, "err", err)
	}
	return q, nil
}

// RejectQuote rejects a pending quote. Unlike approval, a failed notification
// is returned to the caller; the rejection itself is already committed.
func (s *QuoteService) RejectQuote(ctx context.Context, id uint, actor Actor, reason string) (*models.Quote, error) {
	if isBlank(reason) {
		return nil, invalid("reason", "a rejection reason is required")
	}
	q, err := s.apply(ctx, id, actor, transition{
		action:    models.AuditActionReject,
		verb:      "reject",
		from:      []models.QuoteStatus{models.QuoteStatusPendingApproval},
		to:        models.QuoteStatusRejected,
		notes:     reason,
		authorize: requirePermission(actor.CanReject(), "reject"),
		fields: func(_ *models.Quote, now time.Time) map[string]any {
			return map[string]any{"rejected_at": now}
		},
	})
	if err != nil {
		return nil, err
	}

	if err := s.notifyOwner(ctx, q, NotificationQuoteRejected, "Quote rejected",
		fmt.Sprintf("Quote %s has been rejected: %s", q.QuoteNumber, reason)); err != nil {
		return q, fmt.Errorf("notify owner of rejection: %w", err)
	}
	return q, nil
}

// WithdrawQuote takes a pending quote back to DRAFT.
func (s *QuoteService) WithdrawQuote(ctx context.Context, id uint, actor Actor) (*models.Quote, error) {
	return s.apply(ctx, id, actor, transition{
		action:    models.AuditActionWithdraw,
		verb:      "withdraw",
		from:      []models.QuoteStatus{models.QuoteStatusPendingApproval},
		to:        models.QuoteStatusDraft,
		authorize: ownerOnly(actor, "withdraw"),
		fields: func(_ *models.Quote, _ time.Time) map[string]any {
			return map[string]any{"submitted_at": nil}
		},
	})
}

var lossReasons = []models.LossReason{
	models.LossReasonPrice, models.LossReasonCompetitor, models.LossReasonTiming,
	models.LossReasonLogistics, models.LossReasonCustomerCancelled, models.LossReasonOther,
}

// MarkQuoteOutcome closes an approved quote as WON or LOST. LOST needs a loss
// reason; WON clears any previous one.
func (s *QuoteService) MarkQuoteOutcome(ctx context.Context, id uint, outcome models.QuoteStatus, actor Actor, reason *models.LossReason, notes string) (*models.Quote, error) {
	var action models.AuditAction
	switch outcome {
	case models.QuoteStatusWon:
		action = models.AuditActionMarkWon
		reason = nil
	case models.QuoteStatusLost:
		action = models.AuditActionMarkLost
		if reason == nil {
			return nil, invalid("loss_reason_category", "required when the quote is lost")
		}
		if !slices.Contains(lossReasons, *reason) {
			return nil, invalid("loss_reason_category", "unknown loss reason %q", *reason)
		}
	default:
		return nil, invalid("outcome", "must be WON or LOST, got %q", outcome)
	}

	return s.apply(ctx, id, actor, transition{
		action:    action,
		verb:      "record an outcome for",
		from:      []models.QuoteStatus{models.QuoteStatusApproved},
		to:        outcome,
		notes:     notes,
		authorize: requirePermission(actor.CanApprove(), "record an outcome for"),
		fields: func(_ *models.Quote, _ time.Time) map[string]any {
			var category any
			if reason != nil {
				category = *reason
			}
			return map[string]any{
				"loss_reason_category": category,
				"outcome_reason_notes": notes,
			}
		},
	})
}

// ArchiveQuote hides a closed quote immediately, without the age checks of
// the archiving sweep.
func (s *QuoteService) ArchiveQuote(ctx context.Context, id uint, actor Actor) (*models.Quote, error) {
	now := s.now()
	var quote models.Quote
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&quote, id).Error; err != nil {
			return lookupErr("quote", id, err)
		}
		if quote.SalesRepID != actor.UserID && !actor.CanApprove() {
			return forbidden("only the owner or an approver can archive quote %s", quote.QuoteNumber)
		}
		if quote.Archived {
			return invalid("archived", "quote %s is already archived", quote.QuoteNumber)
		}
		if !quote.CanArchive() {
			return invalid("status", "cannot archive quote %s in status %s", quote.QuoteNumber, quote.Status)
		}
		res := tx.Model(&models.Quote{}).
			Where("id = ? AND archived = ?", quote.ID, false).
			UpdateColumns(map[string]any{"archived": true, "archived_at": now})
		if res.Error != nil {
			return fmt.Errorf("archive quote: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return invalid("archived", "quote %s is already archived", quote.QuoteNumber)
		}
		quote.Archived = true
		quote.ArchivedAt = &now
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.metrics.Archived(ArchiveRuleManual, 1)
	return &quote, nil
}

// DeleteQuote removes a quote with its items and audit trail. Owners may only
// delete drafts; holders of quote:delete may delete any quote.
func (s *QuoteService) DeleteQuote(ctx context.Context, id uint, actor Actor) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var quote models.Quote
		if err := tx.First(&quote, id).Error; err != nil {
			return lookupErr("quote", id, err)
		}
		if !actor.CanDelete() {
			if quote.SalesRepID != actor.UserID {
				return forbidden("not allowed to delete quote %s", quote.QuoteNumber)
			}
			if quote.Status != models.QuoteStatusDraft {
				return invalid("status", "cannot delete quote %s in status %s", quote.QuoteNumber, quote.Status)
			}
		}
		if err := tx.Where("quote_id = ?", id).Delete(&models.QuoteItem{}).Error; err != nil {
			return fmt.Errorf("delete items: %w", err)
		}
		if err := tx.Where("quote_id = ?", id).Delete(&models.QuoteApprovalAudit{}).Error; err != nil {
			return fmt.Errorf("delete audit: %w", err)
		}
		if err := tx.Delete(&models.Quote{}, id).Error; err != nil {
			return fmt.Errorf("delete quote: %w", err)
		}
		return nil
	})
}

func (s *QuoteService) notifyOwner(ctx context.Context, q *models.Quote, typ, title, msg string) error {
	return s.notifier.Notify(ctx, q.SalesRepID, typ, title, msg, fmt.Sprintf("/quotes/%d", q.ID))
}
