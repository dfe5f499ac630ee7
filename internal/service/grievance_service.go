package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"grievance-service/internal/model"
	"grievance-service/internal/repository"
)

// GrievanceStore is the record store contract. Status is written only
// through ApplyStatus, which the workflow engine alone may call.
type GrievanceStore interface {
	Create(ctx context.Context, grievance *model.Grievance) error
	GetByRef(ctx context.Context, ref string) (*model.Grievance, error)
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.Grievance, error)
	ListByDepartment(ctx context.Context, filter repository.GrievanceFilter) ([]model.Grievance, error)
	ApplyStatus(ctx context.Context, grievanceID uuid.UUID, newStatus model.Status, resolutionNote, proofURL *string, entry *model.StatusHistoryEntry) error
}

type HistoryLedger interface {
	ListFor(ctx context.Context, grievanceID uuid.UUID) ([]model.StatusHistoryEntry, error)
}

// Classifier structures and routes a fresh submission. All three calls
// degrade gracefully: a failed call falls back instead of blocking intake.
type Classifier interface {
	StructureGrievance(ctx context.Context, text, city, area string) (string, error)
	ClassifyDepartment(ctx context.Context, text string) (model.Department, error)
	AssignPriority(ctx context.Context, text string) (model.Priority, error)
}

type GrievanceService struct {
	grievances GrievanceStore
	history    HistoryLedger
	classifier Classifier
	log        zerolog.Logger
}

func NewGrievanceService(
	grievances GrievanceStore,
	history HistoryLedger,
	classifier Classifier,
	log zerolog.Logger,
) *GrievanceService {
	return &GrievanceService{
		grievances: grievances,
		history:    history,
		classifier: classifier,
		log:        log,
	}
}

type SubmitGrievanceInput struct {
	Phone       string
	Email       string
	Description string
	City        string
	Area        string
	Pincode     string
	ProofURL    string
}

// Submit creates a grievance in the initial stage. Classification failures
// never reject a submission: the grievance lands in Other at MEDIUM priority
// with no structured summary, matching the intake's availability-first
// posture.
func (s *GrievanceService) Submit(ctx context.Context, principal model.Principal, input SubmitGrievanceInput) (*model.Grievance, error) {
	description := strings.TrimSpace(input.Description)
	phone := strings.TrimSpace(input.Phone)
	city := strings.TrimSpace(input.City)
	if description == "" || phone == "" || city == "" {
		return nil, ErrInvalidInput
	}

	grievance := &model.Grievance{
		UserID:      principal.UserID,
		Phone:       phone,
		Email:       strings.TrimSpace(input.Email),
		Description: description,
		City:        city,
		Area:        strings.TrimSpace(input.Area),
		Pincode:     strings.TrimSpace(input.Pincode),
		Department:  model.DepartmentOther,
		Priority:    model.PriorityMedium,
		Status:      model.StatusPending,
	}
	if proof := strings.TrimSpace(input.ProofURL); proof != "" {
		grievance.ProofURL = &proof
	}

	if structured, err := s.classifier.StructureGrievance(ctx, description, city, grievance.Area); err != nil {
		s.log.Warn().Err(err).Msg("grievance structuring failed, storing raw text only")
	} else if structured != "" {
		grievance.StructuredText = &structured
	}

	if department, err := s.classifier.ClassifyDepartment(ctx, description); err != nil {
		s.log.Warn().Err(err).Msg("department classification failed, routing to Other")
	} else {
		grievance.Department = department
	}

	if priority, err := s.classifier.AssignPriority(ctx, description); err != nil {
		s.log.Warn().Err(err).Msg("priority assignment failed, defaulting to MEDIUM")
	} else {
		grievance.Priority = priority
	}

	if err := s.grievances.Create(ctx, grievance); err != nil {
		return nil, err
	}

	s.log.Info().
		Str("ref", grievance.Ref).
		Str("department", string(grievance.Department)).
		Str("priority", string(grievance.Priority)).
		Msg("grievance submitted")
	return grievance, nil
}

func (s *GrievanceService) Get(ctx context.Context, principal model.Principal, ref string) (*model.Grievance, error) {
	grievance, err := s.grievances.GetByRef(ctx, ref)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !s.canView(principal, grievance) {
		return nil, ErrPermissionDenied
	}
	return grievance, nil
}

// History returns the transition ledger, most recent first.
func (s *GrievanceService) History(ctx context.Context, principal model.Principal, ref string) ([]model.StatusHistoryEntry, error) {
	grievance, err := s.Get(ctx, principal, ref)
	if err != nil {
		return nil, err
	}
	return s.history.ListFor(ctx, grievance.ID)
}

func (s *GrievanceService) ListByUser(ctx context.Context, principal model.Principal, userID uuid.UUID, limit, offset int) ([]model.Grievance, error) {
	if principal.UserID != userID && !principal.IsAdmin() {
		return nil, ErrPermissionDenied
	}
	return s.grievances.ListByUser(ctx, userID, limit, offset)
}

type ListByDepartmentOptions struct {
	Statuses   []model.Status
	Priorities []model.Priority
	Limit      int
	Offset     int
}

func (s *GrievanceService) ListByDepartment(ctx context.Context, principal model.Principal, department model.Department, opts ListByDepartmentOptions) ([]model.Grievance, error) {
	if department != "" && !department.Valid() {
		return nil, ErrInvalidInput
	}
	if department == "" {
		// Listing every department is reserved for Administration.
		if !principal.IsAdmin() || principal.Department != model.DepartmentAdministration {
			return nil, ErrPermissionDenied
		}
	} else if !principal.CanViewDepartment(department) {
		return nil, ErrPermissionDenied
	}

	return s.grievances.ListByDepartment(ctx, repository.GrievanceFilter{
		Department: department,
		Statuses:   opts.Statuses,
		Priorities: opts.Priorities,
		Limit:      opts.Limit,
		Offset:     opts.Offset,
	})
}

func (s *GrievanceService) canView(principal model.Principal, grievance *model.Grievance) bool {
	if grievance.UserID == principal.UserID {
		return true
	}
	return principal.IsAdmin()
}
