package policy

import (
	"context"
	"net/http"
	"time"

	"github.com/diewo77/go-erp/auth"
	"github.com/diewo77/go-erp/gate"
	"github.com/diewo77/go-erp/httpx"
	"github.com/diewo77/go-erp/internal/services"
	"gorm.io/gorm"
)

// Resource types guarded by the gate.
const (
	QuoteResource = "quote"
	RouteResource = "route"
)

// AuthGate is the central authorization point: a HybridGate over cached
// database profiles.
type AuthGate struct {
	Gate          *gate.HybridGate[uint]
	CacheResolver *gate.CachedResolver[uint]
}

// NewAuthGate creates a gate that caches user profiles for cacheTTL. Quotes
// are guarded by ownership, which approvers bypass.
func NewAuthGate(db *gorm.DB, cacheTTL time.Duration) *AuthGate {
	cached := gate.NewCachedResolver[uint](NewDBProfileResolver(db), cacheTTL)
	ag := &AuthGate{
		Gate:          gate.NewHybridGate[uint](cached),
		CacheResolver: cached,
	}
	ag.RegisterPolicy(QuoteResource, NewBypassPolicy(NewOwnershipPolicy(), func(ctx context.Context, userID uint) bool {
		return ag.HasGrant(ctx, userID, QuoteResource, gate.ActionApprove)
	}))
	return ag
}

// RegisterPolicy adds a resource policy, e.g. ownership for "quote".
func (ag *AuthGate) RegisterPolicy(resourceType string, p gate.Policy[uint]) {
	ag.Gate.Register(resourceType, p)
}

// Authorize checks that the current user can perform action on resource.
func (ag *AuthGate) Authorize(ctx context.Context, action gate.Action, resourceType string, resource any) error {
	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		return gate.ErrUnauthorized
	}
	return ag.Gate.Authorize(ctx, userID, action, resourceType, resource)
}

// CanProfile checks only profile permissions (no ownership check).
func (ag *AuthGate) CanProfile(ctx context.Context, action gate.Action, resourceType string) bool {
	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		return false
	}
	return ag.Gate.CanProfile(ctx, userID, action, resourceType)
}

// Actor returns the current user with the flat permission set the services
// check against.
func (ag *AuthGate) Actor(ctx context.Context) (services.Actor, error) {
	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		return services.Actor{}, gate.ErrUnauthorized
	}
	grants, err := ag.CacheResolver.Grants(ctx, userID)
	if err != nil {
		return services.Actor{}, err
	}
	return services.Actor{UserID: userID, Permissions: grants}, nil
}

// HasGrant reports whether userID holds resourceType:action, ignoring policies.
func (ag *AuthGate) HasGrant(ctx context.Context, userID uint, resourceType string, action gate.Action) bool {
	grants, err := ag.CacheResolver.Grants(ctx, userID)
	return err == nil && grants.Can(resourceType, action)
}

// InvalidateUser clears the cache for a user whose profile changed.
func (ag *AuthGate) InvalidateUser(userID uint) {
	ag.CacheResolver.Invalidate(userID)
}

// RequirePermission returns middleware answering 403 unless the user's
// profile holds resourceType:action.
func (ag *AuthGate) RequirePermission(resourceType string, action gate.Action) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !ag.CanProfile(r.Context(), action, resourceType) {
				httpx.JSONErrorMessage(w, http.StatusForbidden, "forbidden",
					"missing permission "+string(gate.NewPermission(resourceType, action)), nil)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin returns middleware answering 403 unless the user holds *:*.
func (ag *AuthGate) RequireAdmin() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok := auth.UserIDFromContext(r.Context())
			if !ok {
				httpx.JSONError(w, http.StatusUnauthorized, "unauthorized", nil)
				return
			}
			grants, err := ag.CacheResolver.Grants(r.Context(), userID)
			if err != nil || !grants.Allows(gate.PermissionSuperAdmin) {
				httpx.JSONError(w, http.StatusForbidden, "admin_required", nil)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
