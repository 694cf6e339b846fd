package models

import (
	"time"

	"github.com/google/uuid"
)

// Report is a content report under moderation. The reporter-supplied
// fields are immutable after creation; only a status-changing operator
// action sets Status and ReviewNotes.
type Report struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ReporterID  uuid.UUID `gorm:"type:uuid;not null;index" json:"reporter_id"`
	ContentType string    `gorm:"not null;size:50" json:"content_type"`
	ContentID   string    `gorm:"not null;size:255;index" json:"content_id"`
	Reason      string    `gorm:"not null;size:500" json:"reason"`
	Content     string    `gorm:"type:text" json:"content"`
	Severity    string    `gorm:"size:20;default:'low'" json:"severity"`
	Status      string    `gorm:"not null;default:'pending';size:50;index" json:"status"`
	ReviewNotes string    `gorm:"size:1000" json:"review_notes,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
