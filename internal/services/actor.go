package services

import (
	"time"

	"github.com/diewo77/go-erp/gate"
)

const quoteResource = "quote"

// Actor is the authenticated user performing an operation.
type Actor struct {
	UserID      uint
	Permissions gate.Grants
}

// CanApprove covers approve, outcome and acting on other reps' quotes.
func (a Actor) CanApprove() bool { return a.Permissions.Can(quoteResource, gate.ActionApprove) }

func (a Actor) CanReject() bool { return a.Permissions.Can(quoteResource, gate.ActionReject) }

func (a Actor) CanDelete() bool { return a.Permissions.Can(quoteResource, gate.ActionDelete) }

// Clock returns the current time. Tests inject a fixed one.
type Clock func() time.Time

// UTCClock is the production clock.
func UTCClock() time.Time { return time.Now().UTC() }
