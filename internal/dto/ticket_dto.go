package dto

type TicketReplyRequest struct {
	Body string `json:"body" validate:"required"`
}

type UpdateUserRequest struct {
	Role   *string `json:"role,omitempty" validate:"omitempty,oneof=user moderator admin"`
	Active *bool   `json:"active,omitempty"`
}

type FlagMessageRequest struct {
	Reason   string `json:"reason" validate:"required"`
	Severity string `json:"severity" validate:"omitempty,oneof=low medium high"`
}
