package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AuditAction is the lifecycle transition recorded by a QuoteApprovalAudit.
type AuditAction string

const (
	AuditActionSubmit   AuditAction = "SUBMIT"
	AuditActionApprove  AuditAction = "APPROVE"
	AuditActionReject   AuditAction = "REJECT"
	AuditActionWithdraw AuditAction = "WITHDRAW"
	AuditActionMarkWon  AuditAction = "MARK_WON"
	AuditActionMarkLost AuditAction = "MARK_LOST"
)

// QuoteApprovalAudit is an append-only trail entry, one per transition.
type QuoteApprovalAudit struct {
	ID          uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt   time.Time   `gorm:"index" json:"created_at"`
	QuoteID     uint        `gorm:"index;not null" json:"quote_id"`
	Action      AuditAction `gorm:"size:20;not null" json:"action"`
	ActorUserID uint        `gorm:"index;not null" json:"actor_user_id"`
	Notes       string      `gorm:"type:text" json:"notes,omitempty"`
}

// BeforeCreate assigns the row id.
func (a *QuoteApprovalAudit) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
