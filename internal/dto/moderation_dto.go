package dto

import "github.com/google/uuid"

// ActionReportRequest applies one decision to a single report.
type ActionReportRequest struct {
	Action string `json:"action" validate:"required,oneof=approve reject"`
	Notes  string `json:"notes" validate:"required"`
}

// BatchActionRequest applies one decision to many reports at once.
// Notes are mandatory: a batch decision without a rationale is rejected
// before any dispatch.
type BatchActionRequest struct {
	ReportIDs []uuid.UUID `json:"report_ids" validate:"required,min=1"`
	Action    string      `json:"action" validate:"required,oneof=approve reject"`
	Notes     string      `json:"notes" validate:"required"`
}

type BatchSubmitResponse struct {
	JobID uuid.UUID `json:"job_id"`
}
