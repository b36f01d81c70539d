// Package gate is a small permission library: "resource:action" permission
// codes with wildcards, profiles that group them, and a gate combining a
// profile check with per-resource policies.
//
// Services that only need a yes/no answer work on Grants, the flat permission
// set of the acting user, and never see profiles or resolvers.
package gate

import "strings"

// Permission represents an allowed action on a resource type.
// Format: "resource:action" (e.g., "quote:approve", "route:view")
type Permission string

// NewPermission creates a permission from resource type and action.
func NewPermission(resourceType string, action Action) Permission {
	return Permission(resourceType + ":" + string(action))
}

// Parse splits a permission into resource type and action.
func (p Permission) Parse() (resourceType string, action Action) {
	parts := strings.SplitN(string(p), ":", 2)
	if len(parts) != 2 {
		return "", ""
	}
	return parts[0], Action(parts[1])
}

// Wildcards for super permissions
const (
	WildcardAll                     = "*"
	PermissionSuperAdmin Permission = "*:*"
)

// Matches checks if this permission matches a requested permission.
// "*:*" matches all, "quote:*" matches every quote action.
func (p Permission) Matches(requested Permission) bool {
	if p == PermissionSuperAdmin || p == requested {
		return true
	}
	res, act := p.Parse()
	reqRes, _ := requested.Parse()
	return res != "" && res == reqRes && string(act) == WildcardAll
}

// Grants is the flat permission set held by an acting user.
type Grants []Permission

// ParseGrants builds a Grants set from raw permission codes, skipping blanks.
func ParseGrants(codes ...string) Grants {
	g := make(Grants, 0, len(codes))
	for _, c := range codes {
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		g = append(g, Permission(c))
	}
	return g
}

// GrantsOf returns the permissions of a profile, or nil for a nil profile.
func GrantsOf(p Profile) Grants {
	if p == nil {
		return nil
	}
	return Grants(p.Permissions())
}

// Allows reports whether any grant matches the requested permission.
func (g Grants) Allows(requested Permission) bool {
	for _, p := range g {
		if p.Matches(requested) {
			return true
		}
	}
	return false
}

// Can is Allows for a resource type and action pair.
func (g Grants) Can(resourceType string, action Action) bool {
	return g.Allows(NewPermission(resourceType, action))
}
