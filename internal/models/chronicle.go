package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ChronicleEntry is one timeline event on a profile's chronicle.
type ChronicleEntry struct {
	EntryID   uuid.UUID      `gorm:"column:entry_id;type:uuid;primaryKey" json:"entry_id"`
	ProfileID uuid.UUID      `gorm:"column:profile_id;type:uuid;not null;index" json:"profile_id"`
	Title     string         `gorm:"column:title;not null" json:"title"`
	Body      string         `gorm:"column:body" json:"body"`
	EntryDate time.Time      `gorm:"column:entry_date;not null" json:"entry_date"`
	PlaceID   *uuid.UUID     `gorm:"column:place_id;type:uuid" json:"place_id"`
	Tags      datatypes.JSON `gorm:"column:tags;type:jsonb" json:"tags"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (ChronicleEntry) TableName() string {
	return "chronicle_entries"
}

func (e *ChronicleEntry) BeforeCreate(tx *gorm.DB) error {
	if e.EntryID == uuid.Nil {
		e.EntryID = uuid.New()
	}
	return nil
}

// ChroniclePlace is a reusable place referenced by chronicle entries.
type ChroniclePlace struct {
	PlaceID   uuid.UUID `gorm:"column:place_id;type:uuid;primaryKey" json:"place_id"`
	ProfileID uuid.UUID `gorm:"column:profile_id;type:uuid;not null;index" json:"profile_id"`
	Name      string    `gorm:"column:name;not null" json:"name"`
	City      string    `gorm:"column:city" json:"city"`
	Country   string    `gorm:"column:country" json:"country"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (ChroniclePlace) TableName() string {
	return "chronicle_places"
}

func (p *ChroniclePlace) BeforeCreate(tx *gorm.DB) error {
	if p.PlaceID == uuid.Nil {
		p.PlaceID = uuid.New()
	}
	return nil
}
