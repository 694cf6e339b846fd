package services

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/investmatch/admin-backend/internal/models"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const (
	statsCacheKey = "admin:dashboard:stats"
	statsCacheTTL = 60 * time.Second
)

// DashboardStats is the aggregate snapshot behind the console dashboard.
type DashboardStats struct {
	TotalUsers       int64            `json:"total_users"`
	ActiveUsers      int64            `json:"active_users"`
	NewUsers7d       int64            `json:"new_users_7d"`
	OpenTickets      int64            `json:"open_tickets"`
	ClosedTickets7d  int64            `json:"closed_tickets_7d"`
	Conversations    int64            `json:"conversations"`
	Messages24h      int64            `json:"messages_24h"`
	ReportsByStatus  map[string]int64 `json:"reports_by_status"`
	GeneratedAt      time.Time        `json:"generated_at"`
}

type AnalyticsService struct {
	db    *gorm.DB
	redis *redis.Client
}

func NewAnalyticsService(db *gorm.DB, redisClient *redis.Client) *AnalyticsService {
	return &AnalyticsService{db: db, redis: redisClient}
}

// Stats returns dashboard aggregates, cached in Redis for a minute.
func (s *AnalyticsService) Stats(ctx context.Context) (*DashboardStats, error) {
	if cached, err := s.redis.Get(ctx, statsCacheKey).Result(); err == nil {
		var stats DashboardStats
		if err := json.Unmarshal([]byte(cached), &stats); err == nil {
			return &stats, nil
		}
	}

	stats, err := s.compute()
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(stats); err == nil {
		if err := s.redis.Set(ctx, statsCacheKey, data, statsCacheTTL).Err(); err != nil {
			slog.Warn("failed to cache dashboard stats", "error", err)
		}
	}

	return stats, nil
}

func (s *AnalyticsService) compute() (*DashboardStats, error) {
	stats := &DashboardStats{
		ReportsByStatus: make(map[string]int64),
		GeneratedAt:     time.Now().UTC(),
	}

	weekAgo := time.Now().AddDate(0, 0, -7)
	dayAgo := time.Now().Add(-24 * time.Hour)

	if err := s.db.Model(&models.User{}).Count(&stats.TotalUsers).Error; err != nil {
		return nil, err
	}
	s.db.Model(&models.User{}).Where("active = true").Count(&stats.ActiveUsers)
	s.db.Model(&models.User{}).Where("created_at > ?", weekAgo).Count(&stats.NewUsers7d)

	s.db.Model(&models.Ticket{}).Where("status <> 'closed'").Count(&stats.OpenTickets)
	s.db.Model(&models.Ticket{}).Where("status = 'closed' AND closed_at > ?", weekAgo).Count(&stats.ClosedTickets7d)

	s.db.Model(&models.Conversation{}).Count(&stats.Conversations)
	s.db.Model(&models.Message{}).Where("created_at > ?", dayAgo).Count(&stats.Messages24h)

	var rows []struct {
		Status string
		Count  int64
	}
	if err := s.db.Model(&models.Report{}).
		Select("status, count(*) as count").
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		stats.ReportsByStatus[row.Status] = row.Count
	}

	return stats, nil
}
