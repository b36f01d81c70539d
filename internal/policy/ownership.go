package policy

import (
	"context"

	"github.com/diewo77/go-erp/gate"
)

// Ownable is implemented by resources that have an owning user, such as a
// quote and its sales rep.
type Ownable interface {
	GetUserID() uint
}

// OwnershipPolicy allows access to resources the user owns.
type OwnershipPolicy struct{}

func NewOwnershipPolicy() *OwnershipPolicy {
	return &OwnershipPolicy{}
}

// Can checks ownership. Without a resource (list, create) it allows, since
// profile permissions already control access. Resources that are not Ownable
// are denied.
func (p *OwnershipPolicy) Can(_ context.Context, userID uint, _ gate.Action, resource any) bool {
	if resource == nil {
		return true
	}
	ownable, ok := resource.(Ownable)
	if !ok {
		return false
	}
	return ownable.GetUserID() == userID
}

// BypassPolicy lets privileged users through and defers to inner otherwise.
// Approvers use it to see every quote, not just their own.
type BypassPolicy struct {
	inner     gate.Policy[uint]
	privilege func(ctx context.Context, userID uint) bool
}

func NewBypassPolicy(inner gate.Policy[uint], privilege func(ctx context.Context, userID uint) bool) *BypassPolicy {
	return &BypassPolicy{inner: inner, privilege: privilege}
}

func (p *BypassPolicy) Can(ctx context.Context, userID uint, action gate.Action, resource any) bool {
	if p.privilege(ctx, userID) {
		return true
	}
	return p.inner.Can(ctx, userID, action, resource)
}
