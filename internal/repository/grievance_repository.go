package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"grievance-service/internal/model"
)

type GrievanceRepository struct {
	db *gorm.DB
}

func NewGrievanceRepository(db *gorm.DB) *GrievanceRepository {
	return &GrievanceRepository{db: db}
}

// Create allocates the human-readable ref and inserts the record in one
// transaction so refs are never burned on failed inserts.
func (r *GrievanceRepository) Create(ctx context.Context, grievance *model.Grievance) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var seq int64
		if err := tx.Raw("SELECT nextval('grievance_ref_seq')").Scan(&seq).Error; err != nil {
			return err
		}
		grievance.Ref = fmt.Sprintf("GRV-%06d", seq)
		return tx.Create(grievance).Error
	})
}

func (r *GrievanceRepository) GetByRef(ctx context.Context, ref string) (*model.Grievance, error) {
	var grievance model.Grievance
	if err := r.db.WithContext(ctx).
		First(&grievance, "ref = ?", ref).Error; err != nil {
		return nil, err
	}
	return &grievance, nil
}

func (r *GrievanceRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.Grievance, error) {
	query := r.db.WithContext(ctx).
		Model(&model.Grievance{}).
		Where("user_id = ?", userID)
	query = applyPagination(query, limit, offset)

	var grievances []model.Grievance
	if err := query.Order("created_at DESC").Find(&grievances).Error; err != nil {
		return nil, err
	}
	return grievances, nil
}

type GrievanceFilter struct {
	Department model.Department
	Statuses   []model.Status
	Priorities []model.Priority
	DateFrom   *time.Time
	DateTo     *time.Time
	Limit      int
	Offset     int
}

func (r *GrievanceRepository) ListByDepartment(ctx context.Context, filter GrievanceFilter) ([]model.Grievance, error) {
	query := r.db.WithContext(ctx).Model(&model.Grievance{})

	if filter.Department != "" {
		query = query.Where("department = ?", filter.Department)
	}
	if len(filter.Statuses) > 0 {
		query = query.Where("status IN ?", filter.Statuses)
	}
	if len(filter.Priorities) > 0 {
		query = query.Where("priority IN ?", filter.Priorities)
	}
	if filter.DateFrom != nil {
		query = query.Where("created_at >= ?", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		query = query.Where("created_at <= ?", *filter.DateTo)
	}
	query = applyPagination(query, filter.Limit, filter.Offset)

	var grievances []model.Grievance
	if err := query.Order("created_at DESC").Find(&grievances).Error; err != nil {
		return nil, err
	}
	return grievances, nil
}

// ApplyStatus commits the record update and the ledger append as one
// transaction: either the new status and its history entry are both
// observable or neither is. Only the workflow engine calls this.
func (r *GrievanceRepository) ApplyStatus(ctx context.Context, grievanceID uuid.UUID, newStatus model.Status, resolutionNote, proofURL *string, entry *model.StatusHistoryEntry) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"status": newStatus,
		}
		if resolutionNote != nil {
			updates["resolution_note"] = *resolutionNote
		}
		if proofURL != nil {
			updates["proof_url"] = *proofURL
		}
		if err := tx.Model(&model.Grievance{}).
			Where("id = ?", grievanceID).
			Updates(updates).Error; err != nil {
			return err
		}
		return tx.Create(entry).Error
	})
}

func applyPagination(query *gorm.DB, limit, offset int) *gorm.DB {
	if offset > 0 {
		query = query.Offset(offset)
	}
	if limit > 0 {
		query = query.Limit(limit)
	} else {
		query = query.Limit(200)
	}
	return query
}
