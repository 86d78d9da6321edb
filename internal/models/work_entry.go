package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// WorkEntry is a work-history row on a profile. ChronicleNote is the
// chronicle-facing annotation shown on the timeline.
type WorkEntry struct {
	WorkEntryID   uuid.UUID      `gorm:"column:work_entry_id;type:uuid;primaryKey" json:"work_entry_id"`
	ProfileID     uuid.UUID      `gorm:"column:profile_id;type:uuid;not null;index" json:"profile_id"`
	Company       string         `gorm:"column:company;not null" json:"company"`
	Title         string         `gorm:"column:title;not null" json:"title"`
	StartDate     time.Time      `gorm:"column:start_date;not null" json:"start_date"`
	EndDate       *time.Time     `gorm:"column:end_date" json:"end_date"`
	Summary       string         `gorm:"column:summary" json:"summary"`
	ChronicleNote string         `gorm:"column:chronicle_note" json:"chronicle_note"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

func (WorkEntry) TableName() string {
	return "work_entries"
}

func (w *WorkEntry) BeforeCreate(tx *gorm.DB) error {
	if w.WorkEntryID == uuid.Nil {
		w.WorkEntryID = uuid.New()
	}
	return nil
}
