package models

import (
	"time"

	"github.com/google/uuid"
)

// Conversation is a direct-message thread between two platform members
// (typically an investor and a founder after a match).
type Conversation struct {
	ID            uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	InvestorID    uuid.UUID `gorm:"type:uuid;not null;index" json:"investor_id"`
	FounderID     uuid.UUID `gorm:"type:uuid;not null;index" json:"founder_id"`
	LastMessageAt time.Time `gorm:"index" json:"last_message_at"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type Message struct {
	ID             uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ConversationID uuid.UUID `gorm:"type:uuid;not null;index" json:"conversation_id"`
	SenderID       uuid.UUID `gorm:"type:uuid;not null" json:"sender_id"`
	Body           string    `gorm:"type:text;not null" json:"body"`
	Flagged        bool      `gorm:"default:false;index" json:"flagged"`
	CreatedAt      time.Time `json:"created_at"`
}
