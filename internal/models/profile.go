package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Profile is the per-user identity row. Display fields feed contact card
// materialization when a connection is accepted.
type Profile struct {
	ProfileID    uuid.UUID      `gorm:"column:profile_id;type:uuid;primaryKey" json:"profile_id"`
	Fullname     string         `gorm:"column:fullname;not null" json:"fullname"`
	Email        string         `gorm:"column:email;not null;uniqueIndex" json:"email"`
	PasswordHash string         `gorm:"column:password_hash" json:"-"`
	AvatarURL    string         `gorm:"column:avatar_url" json:"avatar_url"`
	Location     string         `gorm:"column:location" json:"location"`
	Bio          string         `gorm:"column:bio" json:"bio"`
	Website      string         `gorm:"column:website" json:"website"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Profile) TableName() string {
	return "profiles"
}

// BeforeCreate sets UUID if not set (for DBs without gen_random_uuid).
func (p *Profile) BeforeCreate(tx *gorm.DB) error {
	if p.ProfileID == uuid.Nil {
		p.ProfileID = uuid.New()
	}
	return nil
}
