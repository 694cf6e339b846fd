package models

import (
	"time"

	"github.com/google/uuid"
)

// Ticket is a support request raised by a platform member and worked
// by console operators.
type Ticket struct {
	ID         uuid.UUID     `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID     uuid.UUID     `gorm:"type:uuid;not null;index" json:"user_id"`
	Subject    string        `gorm:"not null;size:255" json:"subject"`
	Body       string        `gorm:"type:text" json:"body"`
	Category   string        `gorm:"size:50;default:'general'" json:"category"`
	Priority   string        `gorm:"size:20;default:'normal'" json:"priority"`
	Status     string        `gorm:"not null;default:'open';size:20;index" json:"status"`
	AssigneeID *uuid.UUID    `gorm:"type:uuid;index" json:"assignee_id,omitempty"`
	CreatedAt  time.Time     `json:"created_at"`
	UpdatedAt  time.Time     `json:"updated_at"`
	ClosedAt   *time.Time    `json:"closed_at,omitempty"`
	User       User          `gorm:"foreignKey:UserID" json:"-"`
	Replies    []TicketReply `gorm:"foreignKey:TicketID" json:"replies,omitempty"`
}

// TicketReply is one message on a ticket thread, written either by the
// member or by an operator.
type TicketReply struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	TicketID  uuid.UUID `gorm:"type:uuid;not null;index" json:"ticket_id"`
	AuthorID  uuid.UUID `gorm:"type:uuid;not null" json:"author_id"`
	Body      string    `gorm:"type:text;not null" json:"body"`
	FromStaff bool      `gorm:"default:false" json:"from_staff"`
	CreatedAt time.Time `json:"created_at"`
}
