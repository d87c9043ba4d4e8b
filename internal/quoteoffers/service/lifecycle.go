package service

import (
	"quoteoffer_backend/internal/quoteoffers/repository"
)

// OperationClass groups the endpoint guards into auditable categories so the
// lifecycle rules live in one transition table instead of scattered
// status comparisons.
type OperationClass int

const (
	// OpDraftMutation covers all draft-only operations (update, option CRUD,
	// validate, delete draft).
	OpDraftMutation OperationClass = iota
	// OpFinalize is the draft-to-quote transition.
	OpFinalize
	// OpQuoteAccess covers finalized-quote operations (read, delete quote).
	OpQuoteAccess
	// OpClientApproval records the client's accept/reject decision.
	OpClientApproval
	// OpStatusChange is the generic status-change operation.
	OpStatusChange
)

// Allowed reports whether the operation class is permitted in the current
// status. Draft operations require DRAFT; everything else requires the offer
// to have left DRAFT. No further transition guards exist: nothing prevents an
// ACCEPTED offer from moving to REJECTED through the generic status change.
func Allowed(current repository.Status, op OperationClass) bool {
	switch op {
	case OpDraftMutation, OpFinalize:
		return current == repository.StatusDraft
	case OpQuoteAccess, OpClientApproval, OpStatusChange:
		return current != repository.StatusDraft
	default:
		return false
	}
}

// ValidTarget reports whether a status is an acceptable target for the
// generic status-change operation. Re-entering DRAFT is never allowed.
func ValidTarget(target repository.Status) bool {
	return target.IsValid() && target != repository.StatusDraft
}
