package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"grievance-service/internal/model"
)

type fakeStatsStore struct {
	priorities  []model.PriorityCount
	departments []model.DepartmentCount
	statuses    []model.StatusCount
	daily       []model.DailyCount
	total       int64
	lastScope   model.Department
}

func (f *fakeStatsStore) CountByPriority(ctx context.Context, department model.Department) ([]model.PriorityCount, error) {
	f.lastScope = department
	return f.priorities, nil
}

func (f *fakeStatsStore) CountByDepartment(ctx context.Context) ([]model.DepartmentCount, error) {
	return f.departments, nil
}

func (f *fakeStatsStore) CountByStatus(ctx context.Context, department model.Department) ([]model.StatusCount, error) {
	return f.statuses, nil
}

func (f *fakeStatsStore) DailyCounts(ctx context.Context, department model.Department, since time.Time) ([]model.DailyCount, error) {
	return f.daily, nil
}

func (f *fakeStatsStore) Total(ctx context.Context, department model.Department) (int64, error) {
	return f.total, nil
}

func newStatsFixture(store *fakeStatsStore) *StatsService {
	return NewStatsService(store, nil, zerolog.Nop())
}

func TestDashboard_AllScopeForAdministrationOnly(t *testing.T) {
	store := &fakeStatsStore{total: 5}
	svc := newStatsFixture(store)

	superAdmin := model.Principal{UserID: uuid.New(), Role: model.UserRoleAdmin, Department: model.DepartmentAdministration}
	stats, err := svc.Dashboard(context.Background(), superAdmin, "all")
	require.NoError(t, err)
	assert.Equal(t, model.Department(""), stats.Department)
	assert.Equal(t, int64(5), stats.Total)
	assert.Equal(t, model.Department(""), store.lastScope)

	healthAdmin := model.Principal{UserID: uuid.New(), Role: model.UserRoleAdmin, Department: model.DepartmentHealth}
	_, err = svc.Dashboard(context.Background(), healthAdmin, "all")
	assert.ErrorIs(t, err, ErrPermissionDenied)
}

func TestDashboard_DepartmentScope(t *testing.T) {
	store := &fakeStatsStore{total: 2}
	svc := newStatsFixture(store)
	healthAdmin := model.Principal{UserID: uuid.New(), Role: model.UserRoleAdmin, Department: model.DepartmentHealth}

	stats, err := svc.Dashboard(context.Background(), healthAdmin, "health")
	require.NoError(t, err)
	assert.Equal(t, model.DepartmentHealth, stats.Department)
	assert.Equal(t, model.DepartmentHealth, store.lastScope)

	// Other departments are off limits for a department admin.
	_, err = svc.Dashboard(context.Background(), healthAdmin, "Education")
	assert.ErrorIs(t, err, ErrPermissionDenied)
}

func TestDashboard_RejectsCitizensAndUnknownScopes(t *testing.T) {
	svc := newStatsFixture(&fakeStatsStore{})

	citizen := model.Principal{UserID: uuid.New(), Role: model.UserRoleCitizen}
	_, err := svc.Dashboard(context.Background(), citizen, "all")
	assert.ErrorIs(t, err, ErrPermissionDenied)

	superAdmin := model.Principal{UserID: uuid.New(), Role: model.UserRoleAdmin, Department: model.DepartmentAdministration}
	_, err = svc.Dashboard(context.Background(), superAdmin, "parks")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestDashboard_TrendWindowIsDense(t *testing.T) {
	today := time.Now().UTC().Format("2006-01-02")
	store := &fakeStatsStore{
		daily: []model.DailyCount{{Day: today, Count: 3}},
		total: 3,
	}
	svc := newStatsFixture(store)
	superAdmin := model.Principal{UserID: uuid.New(), Role: model.UserRoleAdmin, Department: model.DepartmentAdministration}

	stats, err := svc.Dashboard(context.Background(), superAdmin, "all")
	require.NoError(t, err)
	require.Len(t, stats.DailyTrend, 7)
	assert.Equal(t, today, stats.DailyTrend[6].Day)
	assert.Equal(t, int64(3), stats.DailyTrend[6].Count)
	for _, day := range stats.DailyTrend[:6] {
		assert.Zero(t, day.Count)
	}
}

func TestFillTrendGaps(t *testing.T) {
	since := time.Date(2026, 8, 25, 0, 0, 0, 0, time.UTC)
	rows := []model.DailyCount{
		{Day: "2026-08-26", Count: 2},
		{Day: "2026-08-29", Count: 1},
	}

	trend := fillTrendGaps(rows, since, 7)
	require.Len(t, trend, 7)
	assert.Equal(t, "2026-08-25", trend[0].Day)
	assert.Equal(t, "2026-08-31", trend[6].Day)
	assert.Equal(t, int64(2), trend[1].Count)
	assert.Equal(t, int64(1), trend[4].Count)
	assert.Equal(t, int64(0), trend[0].Count)
}
