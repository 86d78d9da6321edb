package auth

import (
	"context"
	"strings"

	"nexus-backend/internal/connections"
	"nexus-backend/internal/middleware"
	"nexus-backend/internal/models"
	"nexus-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

const userSessionsPrefix = "user_sessions:"
const defaultNext = "/dashboard"
const callbackFailRedirect = "/login?error=auth_callback_failed"

// InviteRedeemer is the slice of the connections service the auth flows need.
type InviteRedeemer interface {
	Redeem(ctx context.Context, inviteeID uuid.UUID, rawCode string) (connections.RedeemOutcome, error)
}

// Handlers holds dependencies for auth endpoints.
type Handlers struct {
	Finder    ProfileFinder
	Exchanger CodeExchanger
	Redeemer  InviteRedeemer
	DB        *gorm.DB
	Rdb       *redis.Client
	Config    middleware.SessionConfig
}

// LoginRequest body. InviteCode is the manual redemption path: a user who
// received a code out of band supplies it at login time.
type LoginRequest struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	InviteCode string `json:"invite_code"`
}

// Login POST /api/v1/auth/login — authenticate, create session, set cookie.
// When invite_code is present the redemption result is embedded under
// data.redemption as {success, error?}; a failed redemption never fails the login.
func (h *Handlers) Login(c *fiber.Ctx) error {
	if h.Finder == nil {
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, "Email and password are required", fiber.StatusBadRequest, nil)
	}
	if req.Email == "" || req.Password == "" {
		return response.Error(c, "Email and password are required", fiber.StatusBadRequest, nil)
	}

	profile, err := h.Finder.FindByEmailAndPassword(req.Email, req.Password)
	if err != nil {
		switch err {
		case ErrEmailPasswordRequired:
			return response.Error(c, err.Error(), fiber.StatusBadRequest, nil)
		case ErrInvalidEmail, ErrIncorrectPassword:
			return response.Error(c, err.Error(), fiber.StatusUnauthorized, nil)
		default:
			return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
		}
	}

	sessionID := middleware.RegenerateSessionID(c)
	middleware.SetSessionUser(c, middleware.SessionUser{
		ProfileID: profile.ProfileID.String(),
		Fullname:  profile.Fullname,
		Email:     profile.Email,
	})

	ctx := context.Background()
	if err := h.Rdb.SAdd(ctx, userSessionsPrefix+profile.ProfileID.String(), sessionID).Err(); err != nil {
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}

	cookie := middleware.SessionCookieConfig(h.Config)
	cookie.Value = "s:" + sessionID
	c.Cookie(&cookie)

	data := fiber.Map{
		"user": fiber.Map{
			"profile_id": profile.ProfileID.String(),
			"fullname":   profile.Fullname,
			"email":      profile.Email,
		},
	}
	if req.InviteCode != "" && h.Redeemer != nil {
		data["redemption"] = h.redeemForClient(c.Context(), profile.ProfileID, req.InviteCode)
	}
	return response.Success(c, "Login successful", data, nil)
}

func (h *Handlers) redeemForClient(ctx context.Context, profileID uuid.UUID, code string) fiber.Map {
	outcome, err := h.Redeemer.Redeem(ctx, profileID, code)
	if err != nil {
		log.Error().Err(err).Str("profile_id", profileID.String()).Msg("Invite redemption store error during login")
		return fiber.Map{"success": false, "error": outcome.ClientMessage()}
	}
	if !outcome.OK() {
		return fiber.Map{"success": false, "error": outcome.ClientMessage()}
	}
	return fiber.Map{"success": true}
}

// Me GET /api/v1/auth/me — return current session user in standard success format.
func (h *Handlers) Me(c *fiber.Ctx) error {
	sessionUser := middleware.GetUser(c)
	profile, err := VerifyProfile(sessionUser)
	if err != nil {
		return response.Error(c, "Not authenticated", fiber.StatusUnauthorized, nil)
	}
	return response.Success(c, "Authenticated", fiber.Map{"user": profile}, nil)
}

// Logout DELETE /api/v1/auth/logout — SRem user_sessions, Del session key, clear cookie.
func (h *Handlers) Logout(c *fiber.Ctx) error {
	sessionID := middleware.GetSessionID(c)
	sessionUser := middleware.GetUser(c)

	ctx := context.Background()

	if sessionUser != nil && sessionID != "" {
		if m, ok := sessionUser.(map[string]interface{}); ok {
			if profileID, _ := m["profile_id"].(string); profileID != "" {
				_ = h.Rdb.SRem(ctx, userSessionsPrefix+profileID, sessionID).Err()
			}
		}
	}

	if sessionID != "" {
		_ = h.Rdb.Del(ctx, middleware.SessionRedisPrefix+sessionID).Err()
	}

	middleware.DestroySession(c)

	cookie := middleware.SessionCookieConfig(h.Config)
	cookie.Value = ""
	cookie.MaxAge = -1
	c.Cookie(&cookie)

	return response.Success(c, "Logged out successfully", nil, nil)
}

// Callback GET /auth/callback?code&next — exchanges the authorization code for
// a session. If the signup metadata carries an invite code the redemption runs
// server-side: every outcome is logged and none of them blocks the redirect.
func (h *Handlers) Callback(c *fiber.Ctx) error {
	code := c.Query("code")
	next := sanitizeNext(c.Query("next"))

	if code == "" || h.Exchanger == nil {
		return c.Redirect(callbackFailRedirect, fiber.StatusFound)
	}

	user, err := h.Exchanger.ExchangeCode(c.Context(), code)
	if err != nil {
		log.Warn().Err(err).Msg("Auth code exchange failed")
		return c.Redirect(callbackFailRedirect, fiber.StatusFound)
	}

	profile, err := h.ensureProfile(c.Context(), user)
	if err != nil {
		log.Error().Err(err).Str("auth_user_id", user.ID).Msg("Profile ensure failed during callback")
		return c.Redirect(callbackFailRedirect, fiber.StatusFound)
	}

	sessionID := middleware.RegenerateSessionID(c)
	middleware.SetSessionUser(c, middleware.SessionUser{
		ProfileID: profile.ProfileID.String(),
		Fullname:  profile.Fullname,
		Email:     profile.Email,
	})
	if h.Rdb != nil {
		_ = h.Rdb.SAdd(context.Background(), userSessionsPrefix+profile.ProfileID.String(), sessionID).Err()
	}
	cookie := middleware.SessionCookieConfig(h.Config)
	cookie.Value = "s:" + sessionID
	c.Cookie(&cookie)

	if user.InviteCode != "" && h.Redeemer != nil {
		outcome, err := h.Redeemer.Redeem(c.Context(), profile.ProfileID, user.InviteCode)
		evt := log.Info()
		if err != nil {
			evt = log.Error().Err(err)
		}
		evt.Str("profile_id", profile.ProfileID.String()).
			Str("outcome", outcome.String()).
			Msg("Signup invite redemption")

		// Clear regardless of outcome: the signup-time code gets one shot.
		if err := h.Exchanger.ClearInviteMetadata(c.Context(), user.ID); err != nil {
			log.Warn().Err(err).Str("auth_user_id", user.ID).Msg("Could not clear invite metadata")
		}
	}

	return c.Redirect(next, fiber.StatusFound)
}

// ensureProfile finds the profile matching the auth user, creating it on first
// login (signup path).
func (h *Handlers) ensureProfile(ctx context.Context, user *ExchangedUser) (*models.Profile, error) {
	profileID, err := uuid.Parse(user.ID)
	if err != nil {
		return nil, err
	}
	var p models.Profile
	dbErr := h.DB.WithContext(ctx).Where("profile_id = ?", profileID).First(&p).Error
	if dbErr == nil {
		return &p, nil
	}
	if dbErr != gorm.ErrRecordNotFound {
		return nil, dbErr
	}
	fullname := user.Fullname
	if fullname == "" {
		fullname = user.Email
	}
	p = models.Profile{
		ProfileID: profileID,
		Fullname:  fullname,
		Email:     user.Email,
		AvatarURL: user.AvatarURL,
	}
	if err := h.DB.WithContext(ctx).Create(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// sanitizeNext keeps redirects on-site: relative paths only.
func sanitizeNext(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") {
		return defaultNext
	}
	return next
}
