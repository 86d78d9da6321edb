package synergy

import (
	"nexus-backend/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

type Handlers struct {
	Service *Service
}

// POST /api/ai/synergy (auth required)
// This endpoint keeps the frontend's raw contract: 200 with
// {helpThem, helpMe, commonGround}, or 500 with {error} — not the standard
// response envelope.
func (h *Handlers) Generate(c *fiber.Ctx) error {
	if middleware.GetUser(c) == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	var body struct {
		Me   ProfilePayload `json:"me"`
		Them ProfilePayload `json:"them"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if body.Me.Fullname == "" || body.Them.Fullname == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Both profiles are required"})
	}

	result, err := h.Service.Generate(c.Context(), body.Me, body.Them)
	if err != nil {
		log.Error().Err(err).Msg("Synergy generation failed")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(fiber.StatusOK).JSON(result)
}
