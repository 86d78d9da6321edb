package connections

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
	Service       *Service
	Mailer        emails.Sender
	InviteBaseURL string
}

// POST /api/v1/connections/create-invite (auth required)
// When the body carries an email, the invite link is also mailed to it.
func (h *Handlers) CreateInvite(c *fiber.Ctx) error {
	var body struct {
		ContactID string `json:"contact_id"`
		Email     string `json:"email"`
	}
	// Body is optional; a bare POST mints a code with no placeholder.
	_ = c.BodyParser(&body)

	actor := getActor(c)
	if actor == nil {
		return response.Unauthorized(c, "Unauthorized")
	}

	in := CreateInviteInput{InviterID: actor.ProfileID}
	if body.ContactID != "" {
		contactID, err := uuid.Parse(body.ContactID)
		if err != nil {
			return response.Error(c, "Invalid contact ID format (must be a valid UUID)", 400, nil)
		}
		in.ContactID = &contactID
	}

	conn, err := h.Service.CreateInvite(c.Context(), in)
	if err != nil {
		return response.Error(c, err.Error(), 400, nil)
	}

	inviteURL := h.InviteBaseURL + "/invite/" + conn.InviteCode
	if body.Email != "" && h.Mailer != nil {
		// Best effort: the invite exists either way.
		if err := h.Mailer.SendInvite(context.Background(), body.Email, actor.Fullname, inviteURL); err != nil {
			log.Warn().Err(err).Str("invite_code", conn.InviteCode).Msg("Invite email send failed")
		}
	}

	return response.SuccessCreated(c, "Invite created successfully", fiber.Map{
		"connection": conn,
		"invite_url": inviteURL,
	}, nil)
}

// POST /api/v1/connections/redeem (auth required)
// Interactive redemption: precondition failures come back as
// {success: false, error: "..."} rather than an HTTP error.
func (h *Handlers) Redeem(c *fiber.Ctx) error {
	var body struct {
		Code string `json:"code"`
	}
	if err := c.BodyParser(&body); err != nil || body.Code == "" {
		return response.Error(c, "Invite code is required", 400, nil)
	}

	actor := getActor(c)
	if actor == nil {
		return response.Unauthorized(c, "Unauthorized")
	}

	outcome, err := h.Service.Redeem(c.Context(), actor.ProfileID, body.Code)
	if err != nil {
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	if !outcome.OK() {
		return response.Success(c, "Invite redemption failed", fiber.Map{
			"success": false,
			"error":   outcome.ClientMessage(),
		}, nil)
	}
	return response.Success(c, "Invite redeemed successfully", fiber.Map{
		"success": true,
	}, nil)
}

// GET /api/v1/connections/list (auth required)
func (h *Handlers) List(c *fiber.Ctx) error {
	actor := getActor(c)
	if actor == nil {
		return response.Unauthorized(c, "Unauthorized")
	}

	conns, err := h.Service.ListForProfile(c.Context(), actor.ProfileID)
	if err != nil {
		return response.Error(c, err.Error(), 400, nil)
	}
	return response.Success(c, "Connections fetched successfully", conns, nil)
}

// GET /api/v1/connections/pending (auth required)
func (h *Handlers) Pending(c *fiber.Ctx) error {
	actor := getActor(c)
	if actor == nil {
		return response.Unauthorized(c, "Unauthorized")
	}

	conns, err := h.Service.PendingForInviter(c.Context(), actor.ProfileID)
	if err != nil {
		return response.Error(c, err.Error(), 400, nil)
	}
	return response.Success(c, "Pending invites fetched successfully", conns, nil)
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
