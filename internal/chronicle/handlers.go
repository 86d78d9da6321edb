package chronicle

import (
	"nexus-backend/internal/middleware"
	"nexus-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Handlers struct {
	Service *Service
}

// POST /api/v1/chronicle/create-entry (auth required)
func (h *Handlers) CreateEntry(c *fiber.Ctx) error {
	actor := getActor(c)
	if actor == nil {
		return response.Unauthorized(c, "Unauthorized")
	}

	var body CreateEntryInput
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Invalid request body", 400, nil)
	}
	body.ProfileID = actor.ProfileID

	entry, err := h.Service.CreateEntry(c.Context(), body)
	if err != nil {
		return response.Error(c, err.Error(), 400, nil)
	}
	return response.SuccessCreated(c, "Entry created successfully", entry, nil)
}

// GET /api/v1/chronicle/list-entries (auth required)
func (h *Handlers) ListEntries(c *fiber.Ctx) error {
	actor := getActor(c)
	if actor == nil {
		return response.Unauthorized(c, "Unauthorized")
	}

	entries, err := h.Service.ListEntries(c.Context(), actor.ProfileID)
	if err != nil {
		return response.Error(c, err.Error(), 400, nil)
	}
	return response.Success(c, "Entries fetched successfully", entries, nil)
}

// PUT /api/v1/chronicle/update-entry/:id (auth required)
func (h *Handlers) UpdateEntry(c *fiber.Ctx) error {
	actor := getActor(c)
	if actor == nil {
		return response.Unauthorized(c, "Unauthorized")
	}

	entryID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, "Invalid entry ID format (must be a valid UUID)", 400, nil)
	}

	var fields map[string]interface{}
	if err := c.BodyParser(&fields); err != nil {
		return response.Error(c, "Invalid request body", 400, nil)
	}

	entry, err := h.Service.UpdateEntry(c.Context(), actor.ProfileID, entryID, fields)
	if err != nil {
		return response.Error(c, err.Error(), 400, nil)
	}
	return response.Success(c, "Entry updated successfully", entry, nil)
}

// DELETE /api/v1/chronicle/remove-entry/:id (auth required)
func (h *Handlers) RemoveEntry(c *fiber.Ctx) error {
	actor := getActor(c)
	if actor == nil {
		return response.Unauthorized(c, "Unauthorized")
	}

	entryID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, "Invalid entry ID format (must be a valid UUID)", 400, nil)
	}

	if err := h.Service.RemoveEntry(c.Context(), actor.ProfileID, entryID); err != nil {
		return response.Error(c, err.Error(), 400, nil)
	}
	return response.Success(c, "Entry removed successfully", nil, nil)
}

// POST /api/v1/chronicle/create-place (auth required)
func (h *Handlers) CreatePlace(c *fiber.Ctx) error {
	actor := getActor(c)
	if actor == nil {
		return response.Unauthorized(c, "Unauthorized")
	}

	var body CreatePlaceInput
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Invalid request body", 400, nil)
	}
	body.ProfileID = actor.ProfileID

	place, err := h.Service.CreatePlace(c.Context(), body)
	if err != nil {
		return response.Error(c, err.Error(), 400, nil)
	}
	return response.SuccessCreated(c, "Place created successfully", place, nil)
}

// GET /api/v1/chronicle/list-places (auth required)
func (h *Handlers) ListPlaces(c *fiber.Ctx) error {
	actor := getActor(c)
	if actor == nil {
		return response.Unauthorized(c, "Unauthorized")
	}

	places, err := h.Service.ListPlaces(c.Context(), actor.ProfileID)
	if err != nil {
		return response.Error(c, err.Error(), 400, nil)
	}
	return response.Success(c, "Places fetched successfully", places, nil)
}

// POST /api/v1/chronicle/create-work-entry (auth required)
func (h *Handlers) CreateWorkEntry(c *fiber.Ctx) error {
	actor := getActor(c)
	if actor == nil {
		return response.Unauthorized(c, "Unauthorized")
	}

	var body CreateWorkEntryInput
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Invalid request body", 400, nil)
	}
	body.ProfileID = actor.ProfileID

	entry, err := h.Service.CreateWorkEntry(c.Context(), body)
	if err != nil {
		return response.Error(c, err.Error(), 400, nil)
	}
	return response.SuccessCreated(c, "Work entry created successfully", entry, nil)
}

// GET /api/v1/chronicle/list-work-entries (auth required)
func (h *Handlers) ListWorkEntries(c *fiber.Ctx) error {
	actor := getActor(c)
	if actor == nil {
		return response.Unauthorized(c, "Unauthorized")
	}

	entries, err := h.Service.ListWorkEntries(c.Context(), actor.ProfileID)
	if err != nil {
		return response.Error(c, err.Error(), 400, nil)
	}
	return response.Success(c, "Work entries fetched successfully", entries, nil)
}

// PUT /api/v1/chronicle/update-work-entry/:id (auth required)
func (h *Handlers) UpdateWorkEntry(c *fiber.Ctx) error {
	actor := getActor(c)
	if actor == nil {
		return response.Unauthorized(c, "Unauthorized")
	}

	workEntryID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, "Invalid work entry ID format (must be a valid UUID)", 400, nil)
	}

	var fields map[string]interface{}
	if err := c.BodyParser(&fields); err != nil {
		return response.Error(c, "Invalid request body", 400, nil)
	}

	entry, err := h.Service.UpdateWorkEntry(c.Context(), actor.ProfileID, workEntryID, fields)
	if err != nil {
		return response.Error(c, err.Error(), 400, nil)
	}
	return response.Success(c, "Work entry updated successfully", entry, nil)
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
