package profiles

import (
	"context"

	"nexus-backend/internal/emails"
	"nexus-backend/internal/middleware"
	"nexus-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type Handlers struct {
	Service *Service
	Mailer  emails.Sender
}

// POST /api/v1/profiles/create-profile (no auth: signup)
func (h *Handlers) CreateProfile(c *fiber.Ctx) error {
	var body CreateProfileInput
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Invalid request body", 400, nil)
	}

	p, err := h.Service.CreateProfile(c.Context(), body)
	if err != nil {
		return response.Error(c, err.Error(), 400, nil)
	}

	if h.Mailer != nil {
		if err := h.Mailer.SendWelcome(context.Background(), p.Email, p.Fullname); err != nil {
			log.Warn().Err(err).Str("profile_id", p.ProfileID.String()).Msg("Welcome email send failed")
		}
	}

	return response.SuccessCreated(c, "Profile created successfully", p, nil)
}

// GET /api/v1/profiles/me (auth required)
func (h *Handlers) Me(c *fiber.Ctx) error {
	actor := getActor(c)
	if actor == nil {
		return response.Unauthorized(c, "Unauthorized")
	}

	p, err := h.Service.ViewProfile(c.Context(), actor.ProfileID.String())
	if err != nil {
		return response.Error(c, err.Error(), 404, nil)
	}
	return response.Success(c, "Profile fetched successfully", p, nil)
}

// PUT /api/v1/profiles/me (auth required)
func (h *Handlers) UpdateMe(c *fiber.Ctx) error {
	actor := getActor(c)
	if actor == nil {
		return response.Unauthorized(c, "Unauthorized")
	}

	var fields map[string]interface{}
	if err := c.BodyParser(&fields); err != nil {
		return response.Error(c, "Invalid request body", 400, nil)
	}

	p, err := h.Service.UpdateProfile(c.Context(), actor.ProfileID.String(), fields)
	if err != nil {
		return response.Error(c, err.Error(), 400, nil)
	}
	return response.Success(c, "Profile updated successfully", p, nil)
}

// GET /api/v1/profiles/view/:id (auth required; self or connected only)
func (h *Handlers) View(c *fiber.Ctx) error {
	actor := getActor(c)
	if actor == nil {
		return response.Unauthorized(c, "Unauthorized")
	}

	targetID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, "Invalid profile ID format (must be a valid UUID)", 400, nil)
	}

	ok, err := h.Service.CanView(c.Context(), actor.ProfileID, targetID)
	if err != nil {
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	if !ok {
		return response.Error(c, "You are not connected with this profile", 403, nil)
	}

	p, err := h.Service.ViewProfile(c.Context(), targetID.String())
	if err != nil {
		return response.NotFound(c, err.Error())
	}
	return response.Success(c, "Profile fetched successfully", p, nil)
}

type actorInfo struct {
	ProfileID uuid.UUID
	Fullname  string
	Email     string
}

func getActor(c *fiber.Ctx) *actorInfo {
	u := middleware.GetUser(c)
	if u == nil {
		return nil
	}
	m, ok := u.(map[string]interface{})
	if !ok {
		return nil
	}
	idStr, _ := m["profile_id"].(string)
	profileID, err := uuid.Parse(idStr)
	if err != nil {
		return nil
	}
	fullname, _ := m["fullname"].(string)
	email, _ := m["email"].(string)
	return &actorInfo{ProfileID: profileID, Fullname: fullname, Email: email}
}
