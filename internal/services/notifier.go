package services

import (
	"context"

	"github.com/diewo77/go-erp/internal/models"
	"gorm.io/gorm"
)

// Notification types sent by the quote workflow.
const (
	NotificationQuoteApproved = "QUOTE_APPROVED"
	NotificationQuoteRejected = "QUOTE_REJECTED"
)

// Notifier delivers a message to a user.
type Notifier interface {
	Notify(ctx context.Context, userID uint, typ, title, message, link string) error
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, userID uint, typ, title, message, link string) error

func (f NotifierFunc) Notify(ctx context.Context, userID uint, typ, title, message, link string) error {
	return f(ctx, userID, typ, title, message, link)
}

// DBNotifier stores notifications as rows the UI polls.
type DBNotifier struct {
	db *gorm.DB
}

func NewDBNotifier(db *gorm.DB) *DBNotifier {
	return &DBNotifier{db: db}
}

func (n *DBNotifier) Notify(ctx context.Context, userID uint, typ, title, message, link string) error {
	return n.db.WithContext(ctx).Create(&models.Notification{
		UserID:  userID,
		Type:    typ,
		Title:   title,
		Message: message,
		Link:    link,
	}).Error
}
