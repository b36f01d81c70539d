package gate_test

import (
	"context"
	"testing"

	"github.com/diewo77/go-erp/gate"
)

type ownerPolicy struct{}

type ownedResource struct {
	OwnerID uint
}

func (ownerPolicy) Can(_ context.Context, userID uint, _ gate.Action, resource any) bool {
	if r, ok := resource.(*ownedResource); ok {
		return r.OwnerID == userID
	}
	return false
}

func TestHybridGate_ProfileOnly(t *testing.T) {
	resolver := gate.NewStaticResolver[uint]()
	resolver.Set(1, gate.NewStaticProfile(1, "sales",
		gate.NewPermission("quote", gate.ActionCreate),
		gate.NewPermission("quote", gate.ActionView),
	))
	g := gate.NewHybridGate[uint](resolver)
	ctx := context.Background()

	if !g.Can(ctx, 1, gate.ActionCreate, "quote", nil) {
		t.Error("user with permission should be allowed")
	}
	if g.Can(ctx, 1, gate.ActionApprove, "quote", nil) {
		t.Error("user without permission should be denied")
	}
	if g.Can(ctx, 2, gate.ActionView, "quote", nil) {
		t.Error("user without profile should be denied")
	}
	if err := g.Authorize(ctx, 0, gate.ActionView, "quote", nil); err != gate.ErrUnauthorized {
		t.Errorf("zero user should be unauthorized, got %v", err)
	}
}

func TestHybridGate_WithOwnershipPolicy(t *testing.T) {
	resolver := gate.NewStaticResolver[uint]()
	profile := gate.NewStaticProfile(1, "sales", gate.NewPermission("quote", gate.ActionUpdate))
	resolver.Set(1, profile)
	resolver.Set(2, profile)

	g := gate.NewHybridGate[uint](resolver)
	g.Register("quote", ownerPolicy{})
	resource := &ownedResource{OwnerID: 1}

	if !g.Can(context.Background(), 1, gate.ActionUpdate, "quote", resource) {
		t.Error("owner should be allowed")
	}
	if g.Can(context.Background(), 2, gate.ActionUpdate, "quote", resource) {
		t.Error("non-owner should be denied even with profile permission")
	}
	if !g.CanProfile(context.Background(), 2, gate.ActionUpdate, "quote") {
		t.Error("CanProfile ignores ownership")
	}
}
