package services

import (
	"log"
	"time"

	"garment_tracker/internal/models"
	"garment_tracker/internal/redis"

	"gorm.io/gorm"
)

// DashboardStats is the per-area summary shown on the landing view.
type DashboardStats struct {
	ActiveOrders       int64 `json:"active_orders"`
	MyAreaOrders       int64 `json:"my_area_orders"`
	PendingTransfers   int64 `json:"pending_transfers"`
	PendingRepositions int64 `json:"pending_repositions"`
	CompletedToday     int64 `json:"completed_today"`
}

type DashboardService interface {
	Stats(area models.Area) (*DashboardStats, error)
}

type dashboardService struct {
	db    *gorm.DB
	redis *redis.Client
}

func NewDashboardService(db *gorm.DB, redisClient *redis.Client) DashboardService {
	return &dashboardService{db: db, redis: redisClient}
}

const statsTTL = 30 * time.Second

// Stats serves the cached per-area summary when fresh and recomputes it from
// the database otherwise. The cache is advisory; a cold or broken Redis just
// means more queries.
func (s *dashboardService) Stats(area models.Area) (*DashboardStats, error) {
	if s.redis != nil {
		var cached DashboardStats
		if err := s.redis.GetDashboardStats(string(area), &cached); err == nil {
			return &cached, nil
		}
	}

	stats := &DashboardStats{}

	if err := s.db.Model(&models.Order{}).
		Where("status = ?", models.OrderActive).
		Count(&stats.ActiveOrders).Error; err != nil {
		return nil, err
	}

	if err := s.db.Model(&models.Order{}).
		Where("status = ? AND current_area = ?", models.OrderActive, area).
		Count(&stats.MyAreaOrders).Error; err != nil {
		return nil, err
	}

	if err := s.db.Model(&models.Transfer{}).
		Where("to_area = ? AND status = ?", area, models.TransferPending).
		Count(&stats.PendingTransfers).Error; err != nil {
		return nil, err
	}

	if err := s.db.Model(&models.Reposition{}).
		Where("status = ?", models.RepositionPendiente).
		Count(&stats.PendingRepositions).Error; err != nil {
		return nil, err
	}

	startOfDay := time.Now().Truncate(24 * time.Hour)
	if err := s.db.Model(&models.Order{}).
		Where("status = ? AND completed_at >= ?", models.OrderCompleted, startOfDay).
		Count(&stats.CompletedToday).Error; err != nil {
		return nil, err
	}

	if s.redis != nil {
		if err := s.redis.SetDashboardStats(string(area), stats, statsTTL); err != nil {
			log.Printf("[dashboard] failed to cache stats for %s: %v", area, err)
		}
	}

	return stats, nil
}
