package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"grievance-service/internal/model"
)

type StatsRepository struct {
	db *gorm.DB
}

func NewStatsRepository(db *gorm.DB) *StatsRepository {
	return &StatsRepository{db: db}
}

func (r *StatsRepository) scoped(ctx context.Context, department model.Department) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&model.Grievance{})
	if department != "" {
		query = query.Where("department = ?", department)
	}
	return query
}

func (r *StatsRepository) CountByPriority(ctx context.Context, department model.Department) ([]model.PriorityCount, error) {
	var rows []model.PriorityCount
	if err := r.scoped(ctx, department).
		Select("priority, COUNT(*) AS count").
		Group("priority").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *StatsRepository) CountByDepartment(ctx context.Context) ([]model.DepartmentCount, error) {
	var rows []model.DepartmentCount
	if err := r.db.WithContext(ctx).
		Model(&model.Grievance{}).
		Select("department, COUNT(*) AS count").
		Group("department").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *StatsRepository) CountByStatus(ctx context.Context, department model.Department) ([]model.StatusCount, error) {
	var rows []model.StatusCount
	if err := r.scoped(ctx, department).
		Select("status, COUNT(*) AS count").
		Group("status").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// DailyCounts groups submissions by calendar day since the cutoff. Days with
// no submissions are absent; the service fills the gaps.
func (r *StatsRepository) DailyCounts(ctx context.Context, department model.Department, since time.Time) ([]model.DailyCount, error) {
	var rows []model.DailyCount
	if err := r.scoped(ctx, department).
		Select("TO_CHAR(created_at::date, 'YYYY-MM-DD') AS day, COUNT(*) AS count").
		Where("created_at >= ?", since).
		Group("created_at::date").
		Order("day").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *StatsRepository) Total(ctx context.Context, department model.Department) (int64, error) {
	var total int64
	if err := r.scoped(ctx, department).Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}
