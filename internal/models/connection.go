package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Connection statuses. A connection goes pending -> accepted exactly once.
const (
	ConnectionPending  = "pending"
	ConnectionAccepted = "accepted"
)

// Connection is an invite relationship between an inviter and an invitee.
// InviteeID stays nil while pending and is set atomically with the status flip.
type Connection struct {
	ConnectionID uuid.UUID  `gorm:"column:connection_id;type:uuid;primaryKey" json:"connection_id"`
	InviteCode   string     `gorm:"column:invite_code;not null;uniqueIndex" json:"invite_code"`
	InviterID    uuid.UUID  `gorm:"column:inviter_id;type:uuid;not null;index" json:"inviter_id"`
	InviteeID    *uuid.UUID `gorm:"column:invitee_id;type:uuid;index" json:"invitee_id"`
	ContactID    *uuid.UUID `gorm:"column:contact_id;type:uuid" json:"contact_id"`
	Status       string     `gorm:"column:status;not null;default:pending" json:"status"`
	AcceptedAt   *time.Time `gorm:"column:accepted_at" json:"accepted_at"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

func (Connection) TableName() string {
	return "connections"
}

func (c *Connection) BeforeCreate(tx *gorm.DB) error {
	if c.ConnectionID == uuid.Nil {
		c.ConnectionID = uuid.New()
	}
	return nil
}
