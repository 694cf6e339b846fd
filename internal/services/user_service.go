package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/investmatch/admin-backend/internal/models"
	"gorm.io/gorm"
)

var ErrUserNotFound = errors.New("user not found")

type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

func (s *UserService) List(search, role, accountType string, limit, offset int) ([]models.User, int64, error) {
	var users []models.User
	var total int64

	query := s.db.Model(&models.User{})
	if search != "" {
		like := "%" + search + "%"
		query = query.Where("email ILIKE ? OR display_name ILIKE ?", like, like)
	}
	if role != "" {
		query = query.Where("role = ?", role)
	}
	if accountType != "" {
		query = query.Where("account_type = ?", accountType)
	}
	query.Count(&total)

	if err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&users).Error; err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

func (s *UserService) Get(id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// Update changes role and/or active flag; nil fields are left alone.
func (s *UserService) Update(id uuid.UUID, role *string, active *bool) (*models.User, error) {
	updates := map[string]interface{}{}
	if role != nil {
		updates["role"] = *role
	}
	if active != nil {
		updates["active"] = *active
	}
	if len(updates) == 0 {
		return s.Get(id)
	}

	result := s.db.Model(&models.User{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to update user: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ErrUserNotFound
	}
	return s.Get(id)
}
