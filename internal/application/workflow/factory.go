// Package workflow wires the generic domain state machine to the submission
// lifecycle: which triggers are legal from which states, and which role may
// fire each one.
package workflow

import (
	"context"
	"fmt"

	"github.com/jcabrera/civil-registry/internal/domain/entity"
	domainwf "github.com/jcabrera/civil-registry/internal/domain/workflow"
)

// NewSubmissionMachine builds the lifecycle state machine for one submission,
// positioned at its current state. Guards close over the acting principal and
// the submission owner; the same ruleset applies to all five kinds.
func NewSubmissionMachine(current domainwf.State, actor entity.Actor, ownerUserID string) domainwf.StateMachine {
	staff := staffGuard(actor)
	owner := ownerGuard(actor, ownerUserID)

	builder := domainwf.NewBuilder()

	builder.Configure(domainwf.StatePendingVerification).
		PermitIf(domainwf.TriggerApprove, domainwf.StateApprovedForPayment, staff).
		PermitIf(domainwf.TriggerReturn, domainwf.StateReturnedForCorrection, staff).
		PermitIf(domainwf.TriggerReject, domainwf.StateRejected, staff)

	builder.Configure(domainwf.StateApprovedForPayment).
		PermitIf(domainwf.TriggerSubmitPayment, domainwf.StatePaymentSubmitted, owner)

	builder.Configure(domainwf.StatePaymentSubmitted).
		PermitIf(domainwf.TriggerConfirmPayment, domainwf.StateReadyForPickup, staff).
		PermitIf(domainwf.TriggerRejectPayment, domainwf.StateApprovedForPayment, staff)

	builder.Configure(domainwf.StateReadyForPickup).
		PermitIf(domainwf.TriggerComplete, domainwf.StateCompleted, staff)

	builder.Configure(domainwf.StateReturnedForCorrection).
		PermitIf(domainwf.TriggerResubmit, domainwf.StatePendingVerification, owner)

	// REJECTED and COMPLETED are terminal states - no outgoing transitions

	return builder.Build(current)
}

// staffGuard permits EMPLOYEE and ADMIN regardless of ownership
func staffGuard(actor entity.Actor) domainwf.GuardFunc {
	return func(ctx context.Context) error {
		if !actor.Role.IsStaff() {
			return fmt.Errorf("%w: role %s may not perform staff actions", domainwf.ErrPermissionDenied, actor.Role)
		}
		return nil
	}
}

// ownerGuard permits only the citizen who created the submission
func ownerGuard(actor entity.Actor, ownerUserID string) domainwf.GuardFunc {
	return func(ctx context.Context) error {
		if actor.Role != entity.RoleUser {
			return fmt.Errorf("%w: role %s may not perform citizen actions", domainwf.ErrPermissionDenied, actor.Role)
		}
		if actor.UserID != ownerUserID {
			return fmt.Errorf("%w: only the submission owner may act on it", domainwf.ErrPermissionDenied)
		}
		return nil
	}
}
