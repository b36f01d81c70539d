package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/diewo77/go-erp/httpx"
	"github.com/diewo77/go-erp/internal/models"
	"gorm.io/gorm"
)

// ProfileCache drops cached permissions of a user whose profile changed.
type ProfileCache interface {
	InvalidateUser(userID uint)
}

// AdminUserProfileHandler lets admins see users and assign them profiles,
// which is how sales reps become approvers.
type AdminUserProfileHandler struct {
	DB    *gorm.DB
	Cache ProfileCache
	log   *slog.Logger
}

func NewAdminUserProfileHandler(db *gorm.DB, cache ProfileCache, log *slog.Logger) *AdminUserProfileHandler {
	if log == nil {
		log = slog.Default()
	}
	return &AdminUserProfileHandler{DB: db, Cache: cache, log: log}
}

// List returns all users with their profile, plus the assignable profiles.
func (h *AdminUserProfileHandler) List(w http.ResponseWriter, r *http.Request) {
	var users []models.User
	if err := h.DB.WithContext(r.Context()).Preload("Profile").Order("id").Find(&users).Error; err != nil {
		h.log.Error("list users", "err", err)
		httpx.JSONError(w, http.StatusInternalServerError, "db_error", nil)
		return
	}
	var profiles []models.Profile
	if err := h.DB.WithContext(r.Context()).Preload("Permissions").Order("name").Find(&profiles).Error; err != nil {
		h.log.Error("list profiles", "err", err)
		httpx.JSONError(w, http.StatusInternalServerError, "db_error", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"users":    users,
		"profiles": profiles,
	})
}

type assignProfileRequest struct {
	// ProfileID nil removes the profile.
	ProfileID *uint `json:"profile_id"`
}

// AssignProfile sets or clears a user's profile and invalidates its cached
// permissions.
func (h *AdminUserProfileHandler) AssignProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(w, r)
	if !ok {
		return
	}
	var req assignProfileRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.JSONErrorMessage(w, http.StatusBadRequest, "invalid_json", err.Error(), nil)
		return
	}

	db := h.DB.WithContext(r.Context())
	var user models.User
	if err := db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httpx.JSONError(w, http.StatusNotFound, "user_not_found", nil)
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "db_error", nil)
		return
	}
	if req.ProfileID != nil {
		var profile models.Profile
		if err := db.First(&profile, *req.ProfileID).Error; err != nil {
			httpx.JSONError(w, http.StatusNotFound, "profile_not_found", nil)
			return
		}
	}

	if err := db.Model(&user).Update("profile_id", req.ProfileID).Error; err != nil {
		h.log.Error("assign profile", "user_id", userID, "err", err)
		httpx.JSONError(w, http.StatusInternalServerError, "db_error", nil)
		return
	}
	if h.Cache != nil {
		h.Cache.InvalidateUser(userID)
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"user_id":    userID,
		"profile_id": req.ProfileID,
	})
}
