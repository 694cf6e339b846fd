package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/investmatch/admin-backend/internal/models"
	"github.com/investmatch/admin-backend/internal/moderation"
	"github.com/investmatch/admin-backend/internal/realtime"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

var (
	ErrMessageNotFound = errors.New("message not found")
	ErrAlreadyFlagged  = errors.New("message already flagged")
)

// MessageService gives operators read access to member conversations and
// lets them flag a message, which files a content report and announces it
// on the realtime channel.
type MessageService struct {
	db           *gorm.DB
	redis        *redis.Client
	eventChannel string
}

func NewMessageService(db *gorm.DB, redisClient *redis.Client, eventChannel string) *MessageService {
	return &MessageService{db: db, redis: redisClient, eventChannel: eventChannel}
}

func (s *MessageService) ListConversations(limit, offset int) ([]models.Conversation, int64, error) {
	var conversations []models.Conversation
	var total int64

	query := s.db.Model(&models.Conversation{})
	query.Count(&total)

	if err := query.Order("last_message_at DESC").Limit(limit).Offset(offset).Find(&conversations).Error; err != nil {
		return nil, 0, err
	}
	return conversations, total, nil
}

func (s *MessageService) ListMessages(conversationID uuid.UUID, limit, offset int) ([]models.Message, error) {
	var messages []models.Message
	err := s.db.Where("conversation_id = ?", conversationID).
		Order("created_at ASC").Limit(limit).Offset(offset).
		Find(&messages).Error
	if err != nil {
		return nil, err
	}
	return messages, nil
}

// FlagMessage marks the message, creates a pending content report and
// publishes a new_report event so every open console sees it arrive.
func (s *MessageService) FlagMessage(ctx context.Context, messageID, operatorID uuid.UUID, reason, severity string) (*models.Report, error) {
	var msg models.Message
	if err := s.db.First(&msg, "id = ?", messageID).Error; err != nil {
		return nil, ErrMessageNotFound
	}
	if msg.Flagged {
		return nil, ErrAlreadyFlagged
	}

	if severity == "" {
		severity = "low"
	}

	report := models.Report{
		ID:          uuid.New(),
		ReporterID:  operatorID,
		ContentType: "message",
		ContentID:   messageID.String(),
		Reason:      reason,
		Content:     msg.Body,
		Severity:    severity,
		Status:      moderation.StatusPending,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&msg).Update("flagged", true).Error; err != nil {
			return err
		}
		return tx.Create(&report).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to flag message: %w", err)
	}

	ev := moderation.Event{Type: moderation.EventNewReport, Report: report}
	if err := realtime.Publish(ctx, s.redis, s.eventChannel, ev); err != nil {
		// The report exists either way; consoles pick it up on reseed.
		slog.Error("failed to publish new_report event", "report_id", report.ID, "error", err)
	}

	return &report, nil
}
