package gate

import "context"

// HybridGate combines profile-based permissions with resource-specific policies.
// Authorization flow:
//  1. the user must be non-zero
//  2. the user's profile must hold resource:action
//  3. when a policy is registered and a resource is given, the policy decides
type HybridGate[U comparable] struct {
	resolver ProfileResolver[U]
	policies map[string]Policy[U]
}

func NewHybridGate[U comparable](resolver ProfileResolver[U]) *HybridGate[U] {
	return &HybridGate[U]{
		resolver: resolver,
		policies: make(map[string]Policy[U]),
	}
}

// Register adds a resource-specific policy, replacing any previous one.
func (g *HybridGate[U]) Register(resourceType string, p Policy[U]) {
	g.policies[resourceType] = p
}

// Authorize returns nil when the user may perform action on the resource.
func (g *HybridGate[U]) Authorize(ctx context.Context, user U, action Action, resourceType string, resource any) error {
	if !g.CanProfile(ctx, user, action, resourceType) {
		return ErrUnauthorized
	}
	if resource == nil {
		return nil
	}
	if policy, ok := g.policies[resourceType]; ok && !policy.Can(ctx, user, action, resource) {
		return ErrUnauthorized
	}
	return nil
}

func (g *HybridGate[U]) Can(ctx context.Context, user U, action Action, resourceType string, resource any) bool {
	return g.Authorize(ctx, user, action, resourceType, resource) == nil
}

// CanProfile checks only the profile permission, without any policy.
func (g *HybridGate[U]) CanProfile(ctx context.Context, user U, action Action, resourceType string) bool {
	var zero U
	if user == zero {
		return false
	}
	profile, err := g.resolver.Resolve(ctx, user)
	if err != nil || profile == nil {
		return false
	}
	return profile.HasPermission(NewPermission(resourceType, action))
}
