package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusPending     Status = "PENDING"
	StatusUnderReview Status = "UNDER_REVIEW"
	StatusInProcess   Status = "IN_PROCESS"
	StatusOnHold      Status = "ON_HOLD"
	StatusResolved    Status = "RESOLVED"
	StatusClosed      Status = "CLOSED"
)

// AllStatuses lists every workflow stage in presentation order.
func AllStatuses() []Status {
	return []Status{
		StatusPending,
		StatusUnderReview,
		StatusInProcess,
		StatusOnHold,
		StatusResolved,
		StatusClosed,
	}
}

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusUnderReview, StatusInProcess, StatusOnHold, StatusResolved, StatusClosed:
		return true
	}
	return false
}

// ParseStatus normalizes user-facing forms like "Under Review" or
// "under_review" to the canonical enum value.
func ParseStatus(raw string) (Status, bool) {
	normalized := strings.ToUpper(strings.TrimSpace(raw))
	normalized = strings.ReplaceAll(normalized, " ", "_")
	normalized = strings.ReplaceAll(normalized, "-", "_")
	s := Status(normalized)
	return s, s.Valid()
}

type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityMedium Priority = "MEDIUM"
	PriorityHigh   Priority = "HIGH"
)

func (p Priority) Valid() bool {
	return p == PriorityLow || p == PriorityMedium || p == PriorityHigh
}

func ParsePriority(raw string) (Priority, bool) {
	p := Priority(strings.ToUpper(strings.TrimSpace(raw)))
	return p, p.Valid()
}

type Department string

const (
	DepartmentHealth          Department = "Health"
	DepartmentEducation       Department = "Education"
	DepartmentInfrastructure  Department = "Infrastructure"
	DepartmentPublicSafety    Department = "Public Safety"
	DepartmentWaterSanitation Department = "Water & Sanitation"
	DepartmentAdministration  Department = "Administration"
	DepartmentOther           Department = "Other"
)

// AllDepartments returns the closed set of routing departments.
func AllDepartments() []Department {
	return []Department{
		DepartmentHealth,
		DepartmentEducation,
		DepartmentInfrastructure,
		DepartmentPublicSafety,
		DepartmentWaterSanitation,
		DepartmentAdministration,
		DepartmentOther,
	}
}

func (d Department) Valid() bool {
	for _, known := range AllDepartments() {
		if d == known {
			return true
		}
	}
	return false
}

// ParseDepartment matches case-insensitively and falls back to Other,
// mirroring how classification output is sanitized.
func ParseDepartment(raw string) Department {
	trimmed := strings.TrimSpace(raw)
	for _, known := range AllDepartments() {
		if strings.EqualFold(trimmed, string(known)) {
			return known
		}
	}
	return DepartmentOther
}

// Grievance is one citizen complaint. Status is mutated only through the
// workflow engine; everything else is fixed at submission time apart from
// the resolution note, which is set when the grievance is resolved.
type Grievance struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	Ref            string     `gorm:"type:varchar(16);uniqueIndex;not null" json:"ref"`
	UserID         uuid.UUID  `gorm:"type:uuid;not null" json:"user_id"`
	Phone          string     `gorm:"type:varchar(32);not null" json:"phone"`
	Email          string     `gorm:"type:varchar(255)" json:"email,omitempty"`
	Description    string     `gorm:"type:text;not null" json:"description"`
	StructuredText *string    `gorm:"type:text" json:"structured_text,omitempty"`
	City           string     `gorm:"type:varchar(128);not null" json:"city"`
	Area           string     `gorm:"type:varchar(128)" json:"area,omitempty"`
	Pincode        string     `gorm:"type:varchar(16)" json:"pincode,omitempty"`
	Department     Department `gorm:"type:varchar(64);not null" json:"department"`
	Priority       Priority   `gorm:"type:grievance_priority;not null" json:"priority"`
	Status         Status     `gorm:"type:grievance_status;not null;default:'PENDING'" json:"status"`
	ResolutionNote *string    `gorm:"type:text" json:"resolution_note,omitempty"`
	ProofURL       *string    `gorm:"type:text" json:"proof_url,omitempty"`
	CreatedAt      time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Grievance) TableName() string {
	return "grievances"
}
