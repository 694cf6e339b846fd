package moderation

import (
	"context"

	"github.com/google/uuid"
)

// Report statuses form a closed set; no other values are stored.
const (
	StatusPending  = "pending"
	StatusReviewed = "reviewed"
	StatusResolved = "resolved"
)

// Action is an operator decision applied to one or many reports.
type Action string

const (
	ActionApprove Action = "approve"
	ActionReject  Action = "reject"
)

// Valid reports whether the action is a known decision.
func (a Action) Valid() bool {
	return a == ActionApprove || a == ActionReject
}

// Status returns the report status the action results in.
// Approving a report resolves it; rejecting sends it back as reviewed.
func (a Action) Status() string {
	if a == ActionApprove {
		return StatusResolved
	}
	return StatusReviewed
}

// ValidationError rejects a whole batch before any dispatch.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "invalid batch action: " + e.Reason
}

// ReportUpdater applies one moderation decision to one report.
// A call is binary: any returned error counts as a failed attempt.
type ReportUpdater interface {
	UpdateReport(ctx context.Context, id uuid.UUID, status, notes string) error
}

// Progress is the snapshot published after every item completion.
type Progress struct {
	Total     int         `json:"total"`
	Completed int         `json:"completed"`
	Succeeded int         `json:"succeeded"`
	FailedIDs []uuid.UUID `json:"failed_ids"`
}

// Result is the final outcome of one batch action.
type Result struct {
	Succeeded int         `json:"succeeded_count"`
	FailedIDs []uuid.UUID `json:"failed_ids"`
}
