package profiles

import (
	"context"
	"errors"
	"strings"
	"unicode"

	"nexus-backend/internal/models"
	"nexus-backend/internal/pkg/validation"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Service holds DB for profile operations.
type Service struct {
	DB *gorm.DB
}

// CreateProfileInput is the signup body.
type CreateProfileInput struct {
	Fullname string `json:"fullname"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Location string `json:"location"`
	Bio      string `json:"bio"`
	Website  string `json:"website"`
}

// CreateProfile creates a profile for the interactive signup path.
func (s *Service) CreateProfile(ctx context.Context, in CreateProfileInput) (*models.Profile, error) {
	if in.Email == "" || !validation.IsValidEmail(in.Email) {
		return nil, errors.New("Invalid email format")
	}
	if in.Password == "" || !validation.IsValidPassword(in.Password) {
		return nil, errors.New("Invalid password format")
	}
	trimmed := strings.TrimSpace(in.Fullname)
	if trimmed == "" {
		return nil, errors.New("Full name is required and must be a non-empty string")
	}
	if !validation.IsValidFullname(trimmed) {
		return nil, errors.New("Full name contains invalid characters (only letters, spaces, hyphens, and apostrophes allowed)")
	}
	if !validation.IsValidWebsite(strings.TrimSpace(in.Website)) {
		return nil, errors.New("Website must be an http(s) URL")
	}

	email := strings.TrimSpace(strings.ToLower(in.Email))

	var existing models.Profile
	if err := s.DB.WithContext(ctx).Where("email = ?", email).First(&existing).Error; err == nil {
		return nil, errors.New("Email already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), 10)
	if err != nil {
		return nil, err
	}

	p := &models.Profile{
		Fullname:     titleCaseAndNormalize(trimmed),
		Email:        email,
		PasswordHash: string(hash),
		Location:     strings.TrimSpace(in.Location),
		Bio:          in.Bio,
		Website:      strings.TrimSpace(in.Website),
	}
	if err := s.DB.WithContext(ctx).Create(p).Error; err != nil {
		return nil, err
	}
	return p, nil
}

// UpdateProfile updates allowed fields. Allowed: fullname, email, password,
// avatar_url, location, bio, website.
func (s *Service) UpdateProfile(ctx context.Context, profileID string, fields map[string]interface{}) (*models.Profile, error) {
	if profileID == "" {
		return nil, errors.New("Missing profile ID")
	}
	if _, err := uuid.Parse(profileID); err != nil {
		return nil, errors.New("Invalid profile ID format (must be a valid UUID)")
	}
	if len(fields) == 0 {
		return nil, errors.New("Missing update fields")
	}

	allowed := map[string]bool{
		"fullname": true, "email": true, "password": true,
		"avatar_url": true, "location": true, "bio": true, "website": true,
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

	if e, ok := upd["email"].(string); ok && e != "" {
		if !validation.IsValidEmail(e) {
			return nil, errors.New("Invalid email format")
		}
		upd["email"] = strings.TrimSpace(strings.ToLower(e))
	}
	if p, ok := upd["password"].(string); ok && p != "" {
		if !validation.IsValidPassword(p) {
			return nil, errors.New("Invalid password format")
		}
		hash, _ := bcrypt.GenerateFromPassword([]byte(p), 10)
		upd["password_hash"] = string(hash)
		delete(upd, "password")
	}
	if fn, ok := upd["fullname"].(string); ok {
		trimmed := strings.TrimSpace(fn)
		if trimmed == "" {
			return nil, errors.New("Full name must be a non-empty string")
		}
		if !validation.IsValidFullname(trimmed) {
			return nil, errors.New("Full name contains invalid characters")
		}
		upd["fullname"] = titleCaseAndNormalize(trimmed)
	}
	if w, ok := upd["website"].(string); ok {
		w = strings.TrimSpace(w)
		if !validation.IsValidWebsite(w) {
			return nil, errors.New("Website must be an http(s) URL")
		}
		upd["website"] = w
	}

	if e, ok := upd["email"].(string); ok {
		var dup models.Profile
		if err := s.DB.WithContext(ctx).Where("email = ? AND profile_id != ?", e, profileID).First(&dup).Error; err == nil {
			return nil, errors.New("Email already registered")
		}
	}

	result := s.DB.WithContext(ctx).Model(&models.Profile{}).Where("profile_id = ?", profileID).Updates(upd)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, errors.New("Profile not found")
	}

	var p models.Profile
	if err := s.DB.WithContext(ctx).Where("profile_id = ?", profileID).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// ViewProfile returns a profile by ID.
func (s *Service) ViewProfile(ctx context.Context, profileID string) (*models.Profile, error) {
	if profileID == "" {
		return nil, errors.New("Missing profile ID")
	}
	var p models.Profile
	if err := s.DB.WithContext(ctx).Where("profile_id = ?", profileID).First(&p).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.New("Profile not found")
		}
		return nil, err
	}
	return &p, nil
}

// CanView reports whether viewer may see target: self, or an accepted
// connection between the two in either direction.
func (s *Service) CanView(ctx context.Context, viewerID, targetID uuid.UUID) (bool, error) {
	if viewerID == targetID {
		return true, nil
	}
	var conn models.Connection
	err := s.DB.WithContext(ctx).
		Where("status = ?", models.ConnectionAccepted).
		Where("(inviter_id = ? AND invitee_id = ?) OR (inviter_id = ? AND invitee_id = ?)",
			viewerID, targetID, targetID, viewerID).
		First(&conn).Error
	if err == gorm.ErrRecordNotFound {
		return false, nil
	} else if err != nil {
		return false, err
	}
	return true, nil
}

func titleCaseAndNormalize(s string) string {
	s = strings.TrimSpace(strings.ToLower(s))
	var b strings.Builder
	capitalize := true
	for _, r := range s {
		if unicode.IsSpace(r) {
			if !capitalize {
				b.WriteRune(' ')
				capitalize = true
			}
			continue
		}
		if capitalize {
			b.WriteRune(unicode.ToUpper(r))
			capitalize = false
		} else {
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}
