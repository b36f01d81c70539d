package db

import (
	"github.com/diewo77/go-erp/internal/models"
	"gorm.io/gorm"
)

// Migrate runs AutoMigrate for all models.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		// Auth & Authorization
		&models.User{},
		&models.Profile{},
		&models.Permission{},
		// Reference data
		&models.Company{},
		&models.Project{},
		&models.Customer{},
		&models.Contact{},
		&models.Warehouse{},
		&models.StockItem{},
		&models.Route{},
		&models.RouteToll{},
		&models.TollStation{},
		&models.TollRate{},
		&models.RouteTollStation{},
		// Quotes
		&models.Quote{},
		&models.QuoteItem{},
		&models.QuoteApprovalAudit{},
		&models.Notification{},
	)
}

// Seed initializes the permission catalog and default profiles.
// Should be called after Migrate.
func Seed(db *gorm.DB) error {
	if err := SeedPermissions(db); err != nil {
		return err
	}
	return SeedProfiles(db)
}
