package contacts

import (
	"context"
	"errors"
	"strings"

	"nexus-backend/internal/models"
	"nexus-backend/internal/pkg/validation"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Service struct {
	DB *gorm.DB
}

type CreateContactInput struct {
	OwnerID          uuid.UUID
	Fullname         string `json:"fullname"`
	Email            string `json:"email"`
	AvatarURL        string `json:"avatar_url"`
	Location         string `json:"location"`
	Bio              string `json:"bio"`
	Website          string `json:"website"`
	RelationshipType string `json:"relationship_type"`
	Notes            string `json:"notes"`
}

// CreateContact creates a manually-entered card. Linking to a platform profile
// only happens through invite redemption.
func (s *Service) CreateContact(ctx context.Context, in CreateContactInput) (*models.Contact, error) {
	fullname := strings.TrimSpace(in.Fullname)
	if fullname == "" {
		return nil, errors.New("Contact name is required")
	}
	if in.Email != "" && !validation.IsValidEmail(in.Email) {
		return nil, errors.New("Invalid email format")
	}

	card := &models.Contact{
		OwnerID:          in.OwnerID,
		Fullname:         fullname,
		Email:            strings.TrimSpace(strings.ToLower(in.Email)),
		AvatarURL:        in.AvatarURL,
		Location:         strings.TrimSpace(in.Location),
		Bio:              in.Bio,
		Website:          strings.TrimSpace(in.Website),
		RelationshipType: strings.TrimSpace(in.RelationshipType),
		Notes:            in.Notes,
	}
	if err := s.DB.WithContext(ctx).Create(card).Error; err != nil {
		return nil, err
	}
	return card, nil
}

// ListContacts returns the owner's cards, optionally filtered by relationship type.
func (s *Service) ListContacts(ctx context.Context, ownerID uuid.UUID, relationshipType string) ([]models.Contact, error) {
	q := s.DB.WithContext(ctx).Where("owner_id = ?", ownerID)
	if relationshipType != "" {
		q = q.Where("relationship_type = ?", relationshipType)
	}
	var cards []models.Contact
	if err := q.Order("fullname ASC").Find(&cards).Error; err != nil {
		return nil, err
	}
	return cards, nil
}

// ViewContact returns one of the owner's cards.
func (s *Service) ViewContact(ctx context.Context, ownerID, contactID uuid.UUID) (*models.Contact, error) {
	var card models.Contact
	err := s.DB.WithContext(ctx).
		Where("contact_id = ? AND owner_id = ?", contactID, ownerID).
		First(&card).Error
	if err == gorm.ErrRecordNotFound {
		return nil, errors.New("Contact not found")
	} else if err != nil {
		return nil, err
	}
	return &card, nil
}

// UpdateContact updates allowed fields on one of the owner's cards. The
// linked_profile_id column is owned by invite redemption and never updatable here.
func (s *Service) UpdateContact(ctx context.Context, ownerID, contactID uuid.UUID, fields map[string]interface{}) (*models.Contact, error) {
	if len(fields) == 0 {
		return nil, errors.New("Missing update fields")
	}

	allowed := map[string]bool{
		"fullname": true, "email": true, "avatar_url": true, "location": true,
		"bio": true, "website": true, "relationship_type": true, "notes": true,
	}
	upd := make(map[string]interface{})
	for k, v := range fields {
		if !allowed[k] {
			continue
		}
		upd[k] = v
	}
	if len(upd) == 0 {
		return nil, errors.New("No valid update fields provided")
	}

	if fn, ok := upd["fullname"].(string); ok && strings.TrimSpace(fn) == "" {
		return nil, errors.New("Contact name must be a non-empty string")
	}
	if e, ok := upd["email"].(string); ok && e != "" {
		if !validation.IsValidEmail(e) {
			return nil, errors.New("Invalid email format")
		}
		upd["email"] = strings.TrimSpace(strings.ToLower(e))
	}

	result := s.DB.WithContext(ctx).Model(&models.Contact{}).
		Where("contact_id = ? AND owner_id = ?", contactID, ownerID).
		Updates(upd)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, errors.New("Contact not found")
	}

	var card models.Contact
	if err := s.DB.WithContext(ctx).Where("contact_id = ?", contactID).First(&card).Error; err != nil {
		return nil, err
	}
	return &card, nil
}

// RemoveContact soft-deletes one of the owner's cards.
func (s *Service) RemoveContact(ctx context.Context, ownerID, contactID uuid.UUID) error {
	result := s.DB.WithContext(ctx).
		Where("contact_id = ? AND owner_id = ?", contactID, ownerID).
		Delete(&models.Contact{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errors.New("Contact not found")
	}
	return nil
}
