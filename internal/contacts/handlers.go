package contacts

import (
	"nexus-backend/internal/middleware"
	"nexus-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Handlers struct {
	Service *Service
}

// POST /api/v1/contacts/create-contact (auth required)
func (h *Handlers) CreateContact(c *fiber.Ctx) error {
	actor := getActor(c)
	if actor == nil {
		return response.Unauthorized(c, "Unauthorized")
	}

	var body CreateContactInput
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Invalid request body", 400, nil)
	}
	body.OwnerID = actor.ProfileID

	card, err := h.Service.CreateContact(c.Context(), body)
	if err != nil {
		return response.Error(c, err.Error(), 400, nil)
	}
	return response.SuccessCreated(c, "Contact created successfully", card, nil)
}

// GET /api/v1/contacts/list-contacts?relationship_type= (auth required)
func (h *Handlers) ListContacts(c *fiber.Ctx) error {
	actor := getActor(c)
	if actor == nil {
		return response.Unauthorized(c, "Unauthorized")
	}

	cards, err := h.Service.ListContacts(c.Context(), actor.ProfileID, c.Query("relationship_type"))
	if err != nil {
		return response.Error(c, err.Error(), 400, nil)
	}
	return response.Success(c, "Contacts fetched successfully", cards, nil)
}

// GET /api/v1/contacts/view-contact/:id (auth required)
func (h *Handlers) ViewContact(c *fiber.Ctx) error {
	actor := getActor(c)
	if actor == nil {
		return response.Unauthorized(c, "Unauthorized")
	}

	contactID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, "Invalid contact ID format (must be a valid UUID)", 400, nil)
	}

	card, err := h.Service.ViewContact(c.Context(), actor.ProfileID, contactID)
	if err != nil {
		return response.NotFound(c, err.Error())
	}
	return response.Success(c, "Contact fetched successfully", card, nil)
}

// PUT /api/v1/contacts/update-contact/:id (auth required)
func (h *Handlers) UpdateContact(c *fiber.Ctx) error {
	actor := getActor(c)
	if actor == nil {
		return response.Unauthorized(c, "Unauthorized")
	}

	contactID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, "Invalid contact ID format (must be a valid UUID)", 400, nil)
	}

	var fields map[string]interface{}
	if err := c.BodyParser(&fields); err != nil {
		return response.Error(c, "Invalid request body", 400, nil)
	}

	card, err := h.Service.UpdateContact(c.Context(), actor.ProfileID, contactID, fields)
	if err != nil {
		return response.Error(c, err.Error(), 400, nil)
	}
	return response.Success(c, "Contact updated successfully", card, nil)
}

// DELETE /api/v1/contacts/remove-contact/:id (auth required)
func (h *Handlers) RemoveContact(c *fiber.Ctx) error {
	actor := getActor(c)
	if actor == nil {
		return response.Unauthorized(c, "Unauthorized")
	}

	contactID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, "Invalid contact ID format (must be a valid UUID)", 400, nil)
	}

	if err := h.Service.RemoveContact(c.Context(), actor.ProfileID, contactID); err != nil {
		return response.Error(c, err.Error(), 400, nil)
	}
	return response.Success(c, "Contact removed successfully", nil, nil)
}

type actorInfo struct {
	ProfileID uuid.UUID
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
	return &actorInfo{ProfileID: profileID}
}
