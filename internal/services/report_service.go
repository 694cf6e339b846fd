package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/investmatch/admin-backend/internal/models"
	"github.com/investmatch/admin-backend/internal/moderation"
	"gorm.io/gorm"
)

var ErrReportNotFound = errors.New("report not found")

// seedLimit bounds how many reports the in-memory store loads at once.
const seedLimit = 500

// ReportService persists moderation decisions. It implements
// moderation.ReportUpdater: one UPDATE per report per attempt, binary
// success or failure.
type ReportService struct {
	db *gorm.DB
}

func NewReportService(db *gorm.DB) *ReportService {
	return &ReportService{db: db}
}

// UpdateReport writes status and review notes for one report.
func (s *ReportService) UpdateReport(ctx context.Context, id uuid.UUID, status, notes string) error {
	result := s.db.WithContext(ctx).Model(&models.Report{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":       status,
			"review_notes": notes,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update report %s: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrReportNotFound
	}
	return nil
}

// List fetches reports from the database, newest first.
func (s *ReportService) List(status string, limit, offset int) ([]models.Report, int64, error) {
	var reports []models.Report
	var total int64

	query := s.db.Model(&models.Report{})
	if status != "" {
		query = query.Where("status = ?", status)
	}
	query.Count(&total)

	if err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&reports).Error; err != nil {
		return nil, 0, err
	}
	return reports, total, nil
}

// Seed loads the current report set into the store.
func (s *ReportService) Seed(store *moderation.Store, status string) error {
	reports, _, err := s.List(status, seedLimit, 0)
	if err != nil {
		return fmt.Errorf("failed to seed report store: %w", err)
	}
	store.Seed(reports)
	return nil
}
