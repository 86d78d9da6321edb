package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RelationshipConnection is the relationship_type written by invite redemption.
const RelationshipConnection = "connection"

// Contact is a directional, owner-scoped card describing another person.
// LinkedProfileID is set when that person is also a platform user.
type Contact struct {
	ContactID        uuid.UUID      `gorm:"column:contact_id;type:uuid;primaryKey" json:"contact_id"`
	OwnerID          uuid.UUID      `gorm:"column:owner_id;type:uuid;not null;index" json:"owner_id"`
	Fullname         string         `gorm:"column:fullname;not null" json:"fullname"`
	Email            string         `gorm:"column:email" json:"email"`
	AvatarURL        string         `gorm:"column:avatar_url" json:"avatar_url"`
	Location         string         `gorm:"column:location" json:"location"`
	Bio              string         `gorm:"column:bio" json:"bio"`
	Website          string         `gorm:"column:website" json:"website"`
	LinkedProfileID  *uuid.UUID     `gorm:"column:linked_profile_id;type:uuid;index" json:"linked_profile_id"`
	RelationshipType string         `gorm:"column:relationship_type" json:"relationship_type"`
	Notes            string         `gorm:"column:notes" json:"notes"`
	CreatedAt        time.Time      `json:"createdAt"`
	UpdatedAt        time.Time      `json:"updatedAt"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Contact) TableName() string {
	return "contacts"
}

func (c *Contact) BeforeCreate(tx *gorm.DB) error {
	if c.ContactID == uuid.Nil {
		c.ContactID = uuid.New()
	}
	return nil
}
