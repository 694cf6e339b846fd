package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/investmatch/admin-backend/internal/models"
	"gorm.io/gorm"
)

var (
	ErrTicketNotFound = errors.New("ticket not found")
	ErrTicketClosed   = errors.New("ticket is closed")
)

type TicketService struct {
	db *gorm.DB
}

func NewTicketService(db *gorm.DB) *TicketService {
	return &TicketService{db: db}
}

func (s *TicketService) List(status string, limit, offset int) ([]models.Ticket, int64, error) {
	var tickets []models.Ticket
	var total int64

	query := s.db.Model(&models.Ticket{})
	if status != "" {
		query = query.Where("status = ?", status)
	}
	query.Count(&total)

	if err := query.Order("updated_at DESC").Limit(limit).Offset(offset).Find(&tickets).Error; err != nil {
		return nil, 0, err
	}
	return tickets, total, nil
}

func (s *TicketService) Get(id uuid.UUID) (*models.Ticket, error) {
	var ticket models.Ticket
	err := s.db.Preload("Replies", func(db *gorm.DB) *gorm.DB {
		return db.Order("created_at ASC")
	}).First(&ticket, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTicketNotFound
		}
		return nil, err
	}
	return &ticket, nil
}

// Reply appends an operator response and moves the ticket to
// awaiting_user; the operator takes assignment if nobody has.
func (s *TicketService) Reply(ticketID, operatorID uuid.UUID, body string) (*models.TicketReply, error) {
	var ticket models.Ticket
	if err := s.db.First(&ticket, "id = ?", ticketID).Error; err != nil {
		return nil, ErrTicketNotFound
	}
	if ticket.Status == "closed" {
		return nil, ErrTicketClosed
	}

	reply := models.TicketReply{
		ID:        uuid.New(),
		TicketID:  ticketID,
		AuthorID:  operatorID,
		Body:      body,
		FromStaff: true,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&reply).Error; err != nil {
			return err
		}
		updates := map[string]interface{}{"status": "awaiting_user"}
		if ticket.AssigneeID == nil {
			updates["assignee_id"] = operatorID
		}
		return tx.Model(&ticket).Updates(updates).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to reply to ticket: %w", err)
	}
	return &reply, nil
}

func (s *TicketService) Close(id uuid.UUID) error {
	now := time.Now()
	result := s.db.Model(&models.Ticket{}).
		Where("id = ? AND status <> 'closed'", id).
		Updates(map[string]interface{}{"status": "closed", "closed_at": now})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTicketNotFound
	}
	return nil
}
