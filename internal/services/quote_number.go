package services

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/diewo77/go-erp/internal/models"
	"gorm.io/gorm"
)

// QuoteNumberPrefix returns the "Q-YYYYMM-" prefix for the month of t.
func QuoteNumberPrefix(t time.Time) string {
	return "Q-" + t.Format("200601") + "-"
}

// nextQuoteNumber allocates the next number of the month. It must run inside
// the creating transaction; a number that is already taken is a conflict and
// the whole creation must be retried.
func nextQuoteNumber(tx *gorm.DB, now time.Time) (string, error) {
	prefix := QuoteNumberPrefix(now)

	var last []string
	err := tx.Model(&models.Quote{}).
		Where("quote_number LIKE ?", prefix+"%").
		Order("LENGTH(quote_number) DESC").
		Order("quote_number DESC").
		Limit(1).
		Pluck("quote_number", &last).Error
	if err != nil {
		return "", fmt.Errorf("read last quote number: %w", err)
	}

	seq := 0
	if len(last) > 0 {
		if n, err := strconv.Atoi(strings.TrimPrefix(last[0], prefix)); err == nil {
			seq = n
		}
	}
	number := fmt.Sprintf("%s%04d", prefix, seq+1)

	var taken int64
	if err := tx.Model(&models.Quote{}).Where("quote_number = ?", number).Count(&taken).Error; err != nil {
		return "", fmt.Errorf("check quote number: %w", err)
	}
	if taken > 0 {
		return "", conflict("quote number %s already taken, retry", number)
	}
	return number, nil
}

// isUniqueViolation reports whether err comes from a unique index. The
// connection must be opened with TranslateError.
func isUniqueViolation(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
