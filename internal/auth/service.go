package auth

import (
	"nexus-backend/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// LoginInput for login request body.
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SessionProfileShape is the object stored in session and returned by /me.
type SessionProfileShape struct {
	ProfileID string `json:"profile_id"`
	Fullname  string `json:"fullname"`
	Email     string `json:"email"`
}

// ProfileFinder abstracts profile lookup by email+password (GORM in production,
// doubles in tests).
type ProfileFinder interface {
	FindByEmailAndPassword(email, password string) (*models.Profile, error)
}

// GormProfileFinder implements ProfileFinder using GORM and bcrypt.
type GormProfileFinder struct{ DB *gorm.DB }

func (g *GormProfileFinder) FindByEmailAndPassword(email, password string) (*models.Profile, error) {
	return LoginProfile(g.DB, LoginInput{Email: email, Password: password})
}

// LoginProfile finds a profile by email and verifies the password.
func LoginProfile(db *gorm.DB, input LoginInput) (*models.Profile, error) {
	if input.Email == "" || input.Password == "" {
		return nil, ErrEmailPasswordRequired
	}
	var p models.Profile
	if err := db.Where("email = ?", input.Email).First(&p).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrInvalidEmail
		}
		return nil, err
	}
	if p.PasswordHash == "" {
		return nil, ErrInvalidEmail
	}
	if err := bcrypt.CompareHashAndPassword([]byte(p.PasswordHash), []byte(input.Password)); err != nil {
		return nil, ErrIncorrectPassword
	}
	return &p, nil
}

// VerifyProfile validates the session user and returns the shape for /me.
func VerifyProfile(sessionUser interface{}) (*SessionProfileShape, error) {
	if sessionUser == nil {
		return nil, ErrNotAuthenticated
	}
	m, ok := sessionUser.(map[string]interface{})
	if !ok {
		return nil, ErrNotAuthenticated
	}
	profileID, _ := m["profile_id"].(string)
	if profileID == "" {
		return nil, ErrNotAuthenticated
	}
	return &SessionProfileShape{
		ProfileID: profileID,
		Fullname:  str(m["fullname"]),
		Email:     str(m["email"]),
	}, nil
}

func str(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}
