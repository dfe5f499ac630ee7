package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"grievance-service/internal/model"
)

type HistoryRepository struct {
	db *gorm.DB
}

func NewHistoryRepository(db *gorm.DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

// ListFor returns the full transition log for a grievance, most recent
// first. Entries are immutable, so the result only ever grows.
func (r *HistoryRepository) ListFor(ctx context.Context, grievanceID uuid.UUID) ([]model.StatusHistoryEntry, error) {
	var entries []model.StatusHistoryEntry
	if err := r.db.WithContext(ctx).
		Where("grievance_id = ?", grievanceID).
		Order("created_at DESC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}
