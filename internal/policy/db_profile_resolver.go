package policy

import (
	"context"
	"errors"

	"github.com/diewo77/go-erp/gate"
	"github.com/diewo77/go-erp/internal/models"
	"gorm.io/gorm"
)

// DBProfileResolver fetches user profiles from the database.
// It implements gate.ProfileResolver for uint user IDs.
type DBProfileResolver struct {
	DB *gorm.DB
}

func NewDBProfileResolver(db *gorm.DB) *DBProfileResolver {
	return &DBProfileResolver{DB: db}
}

// Resolve loads the profile of an active user with its permissions. Unknown or
// inactive users and users without a profile resolve to nil.
func (r *DBProfileResolver) Resolve(ctx context.Context, userID uint) (gate.Profile, error) {
	var user models.User
	err := r.DB.WithContext(ctx).Preload("Profile.Permissions").
		Where("active = ?", true).
		First(&user, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if user.Profile == nil {
		return nil, nil
	}
	return &dbProfileAdapter{profile: user.Profile}, nil
}

// dbProfileAdapter exposes a models.Profile as a gate.Profile.
type dbProfileAdapter struct {
	profile *models.Profile
}

func (a *dbProfileAdapter) ID() uint     { return a.profile.ID }
func (a *dbProfileAdapter) Name() string { return a.profile.Name }

func (a *dbProfileAdapter) HasPermission(perm gate.Permission) bool {
	return gate.Grants(a.Permissions()).Allows(perm)
}

func (a *dbProfileAdapter) Permissions() []gate.Permission {
	return gate.ParseGrants(a.profile.Codes()...)
}
