package auth

import (
	"testing"

	"nexus-backend/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func setupServiceTest(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Profile{}))
	return db
}

func seedProfile(t *testing.T, db *gorm.DB, email, password string) *models.Profile {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), 10)
	require.NoError(t, err)
	p := &models.Profile{
		Fullname:     "Seed User",
		Email:        email,
		PasswordHash: string(hash),
	}
	require.NoError(t, db.Create(p).Error)
	return p
}

func TestLoginProfile_Success(t *testing.T) {
	db := setupServiceTest(t)
	seeded := seedProfile(t, db, "login@test.com", "Password1!")

	p, err := LoginProfile(db, LoginInput{Email: "login@test.com", Password: "Password1!"})
	require.NoError(t, err)
	assert.Equal(t, seeded.ProfileID, p.ProfileID)
}

func TestLoginProfile_WrongPassword(t *testing.T) {
	db := setupServiceTest(t)
	seedProfile(t, db, "login@test.com", "Password1!")

	_, err := LoginProfile(db, LoginInput{Email: "login@test.com", Password: "nope"})
	assert.Equal(t, ErrIncorrectPassword, err)
}

func TestLoginProfile_UnknownEmail(t *testing.T) {
	db := setupServiceTest(t)

	_, err := LoginProfile(db, LoginInput{Email: "nobody@test.com", Password: "Password1!"})
	assert.Equal(t, ErrInvalidEmail, err)
}

func TestLoginProfile_NoPasswordHash(t *testing.T) {
	db := setupServiceTest(t)
	// OAuth-only profile: no local password.
	require.NoError(t, db.Create(&models.Profile{
		Fullname: "OAuth User",
		Email:    "oauth@test.com",
	}).Error)

	_, err := LoginProfile(db, LoginInput{Email: "oauth@test.com", Password: "anything"})
	assert.Equal(t, ErrInvalidEmail, err)
}

func TestLoginProfile_MissingFields(t *testing.T) {
	db := setupServiceTest(t)

	_, err := LoginProfile(db, LoginInput{Email: "", Password: "x"})
	assert.Equal(t, ErrEmailPasswordRequired, err)
}

func TestVerifyProfile(t *testing.T) {
	p, err := VerifyProfile(map[string]interface{}{
		"profile_id": "b2c3d4e5-0000-0000-0000-000000000001",
		"fullname":   "Test User",
		"email":      "test@test.com",
	})
	require.NoError(t, err)
	assert.Equal(t, "Test User", p.Fullname)

	_, err = VerifyProfile(nil)
	assert.Equal(t, ErrNotAuthenticated, err)

	_, err = VerifyProfile(map[string]interface{}{"fullname": "No ID"})
	assert.Equal(t, ErrNotAuthenticated, err)

	_, err = VerifyProfile("not-a-map")
	assert.Equal(t, ErrNotAuthenticated, err)
}
