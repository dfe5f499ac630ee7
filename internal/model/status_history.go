package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StatusHistoryEntry is one immutable record of an accepted transition.
// Entries are only ever appended; the latest entry's NewStatus always
// matches the owning grievance's current status.
type StatusHistoryEntry struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	GrievanceID uuid.UUID  `gorm:"type:uuid;not null" json:"grievance_id"`
	OldStatus   *Status    `gorm:"type:grievance_status" json:"old_status"`
	NewStatus   Status     `gorm:"type:grievance_status;not null" json:"new_status"`
	Note        string     `gorm:"type:text" json:"note"`
	ActorID     *uuid.UUID `gorm:"type:uuid" json:"actor_id"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"created_at"`
}

func (StatusHistoryEntry) TableName() string {
	return "grievance_status_history"
}

func (e *StatusHistoryEntry) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}
