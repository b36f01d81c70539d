package db

import (
	"errors"
	"strings"

	"github.com/diewo77/go-erp/internal/models"
	"gorm.io/gorm"
)

var permissionCatalog = []struct {
	ResourceType string
	Action       string
	Description  string
}{
	{"*", "*", "Full system access"},
	{"quote", "*", "All quote actions"},
	{"quote", "list", "List quotes"},
	{"quote", "view", "View quote details"},
	{"quote", "create", "Create quotes"},
	{"quote", "update", "Edit own quotes"},
	{"quote", "submit", "Submit own quotes for approval"},
	{"quote", "withdraw", "Withdraw own quotes from approval"},
	{"quote", "approve", "Approve quotes, record outcomes, edit any quote"},
	{"quote", "reject", "Reject quotes"},
	{"quote", "archive", "Archive closed quotes"},
	{"quote", "delete", "Delete quotes in any status"},
	{"quote", "export", "Export quote lists"},
	{"route", "*", "All route actions"},
	{"route", "list", "List routes"},
	{"route", "view", "View routes and toll totals"},
}

var profileCatalog = []struct {
	Name        string
	Description string
	Permissions []string
}{
	{
		Name:        "admin",
		Description: "Full system administrator with all permissions",
		Permissions: []string{"*:*"},
	},
	{
		Name:        "sales",
		Description: "Prepares and submits own quotes",
		Permissions: []string{
			"quote:list", "quote:view", "quote:create", "quote:update",
			"quote:submit", "quote:withdraw", "quote:archive",
			"route:list", "route:view",
		},
	},
	{
		Name:        "sales_manager",
		Description: "Approves, rejects and closes quotes",
		Permissions: []string{"quote:*", "route:*"},
	},
	{
		Name:        "viewer",
		Description: "Read-only access to quotes and routes",
		Permissions: []string{"quote:list", "quote:view", "route:list", "route:view"},
	},
}

// SeedPermissions creates the permission catalog. It is idempotent.
func SeedPermissions(db *gorm.DB) error {
	for _, p := range permissionCatalog {
		perm := models.Permission{ResourceType: p.ResourceType, Action: p.Action, Description: p.Description}
		if err := db.Where("resource_type = ? AND action = ?", p.ResourceType, p.Action).
			FirstOrCreate(&perm).Error; err != nil {
			return err
		}
	}
	return nil
}

// SeedProfiles creates the system profiles and (re)assigns their permissions.
func SeedProfiles(db *gorm.DB) error {
	for _, p := range profileCatalog {
		var profile models.Profile
		err := db.Where("name = ?", p.Name).First(&profile).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			profile = models.Profile{Name: p.Name, Description: p.Description, IsSystem: true}
			err = db.Create(&profile).Error
		}
		if err != nil {
			return err
		}

		var perms []models.Permission
		for _, code := range p.Permissions {
			resource, action, ok := strings.Cut(code, ":")
			if !ok {
				continue
			}
			var perm models.Permission
			if err := db.Where("resource_type = ? AND action = ?", resource, action).First(&perm).Error; err == nil {
				perms = append(perms, perm)
			}
		}
		if err := db.Model(&profile).Association("Permissions").Replace(perms); err != nil {
			return err
		}
	}
	return nil
}
