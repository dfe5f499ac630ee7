package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"grievance-service/internal/cache"
	"grievance-service/internal/model"
)

// trendWindowDays is the fixed dashboard trend window.
const trendWindowDays = 7

type StatsStore interface {
	CountByPriority(ctx context.Context, department model.Department) ([]model.PriorityCount, error)
	CountByDepartment(ctx context.Context) ([]model.DepartmentCount, error)
	CountByStatus(ctx context.Context, department model.Department) ([]model.StatusCount, error)
	DailyCounts(ctx context.Context, department model.Department, since time.Time) ([]model.DailyCount, error)
	Total(ctx context.Context, department model.Department) (int64, error)
}

type StatsService struct {
	stats StatsStore
	cache *cache.StatsCache
	log   zerolog.Logger
}

func NewStatsService(stats StatsStore, statsCache *cache.StatsCache, log zerolog.Logger) *StatsService {
	return &StatsService{stats: stats, cache: statsCache, log: log}
}

// Dashboard computes the aggregate snapshot for one department, or for all
// of them when scope is "all". Results are point-in-time reads of the record
// store and may be served from a short-lived cache.
func (s *StatsService) Dashboard(ctx context.Context, principal model.Principal, scope string) (*model.DashboardStats, error) {
	if !principal.IsAdmin() {
		return nil, ErrPermissionDenied
	}

	var department model.Department
	if !strings.EqualFold(strings.TrimSpace(scope), "all") {
		department = model.ParseDepartment(scope)
		if !strings.EqualFold(strings.TrimSpace(scope), string(department)) {
			return nil, ErrInvalidInput
		}
		if !principal.CanViewDepartment(department) {
			return nil, ErrPermissionDenied
		}
	} else if principal.Department != model.DepartmentAdministration {
		return nil, ErrPermissionDenied
	}

	cacheKey := "stats:" + statsScopeKey(department)
	var cached model.DashboardStats
	if s.cache.Get(ctx, cacheKey, &cached) {
		return &cached, nil
	}

	stats, err := s.compute(ctx, department)
	if err != nil {
		return nil, err
	}

	s.cache.Set(ctx, cacheKey, stats)
	return stats, nil
}

func (s *StatsService) compute(ctx context.Context, department model.Department) (*model.DashboardStats, error) {
	priorities, err := s.stats.CountByPriority(ctx, department)
	if err != nil {
		return nil, err
	}
	departments, err := s.stats.CountByDepartment(ctx)
	if err != nil {
		return nil, err
	}
	statuses, err := s.stats.CountByStatus(ctx, department)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	since := now.AddDate(0, 0, -(trendWindowDays - 1)).Truncate(24 * time.Hour)
	daily, err := s.stats.DailyCounts(ctx, department, since)
	if err != nil {
		return nil, err
	}

	total, err := s.stats.Total(ctx, department)
	if err != nil {
		return nil, err
	}

	return &model.DashboardStats{
		Department:       department,
		PriorityCounts:   priorities,
		DepartmentCounts: departments,
		StatusCounts:     statuses,
		DailyTrend:       fillTrendGaps(daily, since, trendWindowDays),
		Total:            total,
	}, nil
}

// fillTrendGaps expands the sparse day counts into a dense window so charts
// render zero days instead of skipping them.
func fillTrendGaps(rows []model.DailyCount, since time.Time, days int) []model.DailyCount {
	byDay := make(map[string]int64, len(rows))
	for _, row := range rows {
		byDay[row.Day] = row.Count
	}

	trend := make([]model.DailyCount, 0, days)
	for i := 0; i < days; i++ {
		day := since.AddDate(0, 0, i).Format("2006-01-02")
		trend = append(trend, model.DailyCount{Day: day, Count: byDay[day]})
	}
	return trend
}

func statsScopeKey(department model.Department) string {
	if department == "" {
		return "all"
	}
	return strings.ToLower(strings.ReplaceAll(string(department), " ", "_"))
}
