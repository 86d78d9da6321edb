package contacts

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"nexus-backend/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupContactsTest(t *testing.T) (*fiber.App, *gorm.DB, uuid.UUID) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Profile{}, &models.Contact{}))

	owner := &models.Profile{Fullname: "Owner User", Email: "owner@test.com"}
	require.NoError(t, db.Create(owner).Error)

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("user", map[string]interface{}{
			"profile_id": owner.ProfileID.String(),
		})
		return c.Next()
	})

	h := &Handlers{Service: &Service{DB: db}}
	app.Post("/api/v1/contacts/create-contact", h.CreateContact)
	app.Get("/api/v1/contacts/list-contacts", h.ListContacts)
	app.Get("/api/v1/contacts/view-contact/:id", h.ViewContact)
	app.Put("/api/v1/contacts/update-contact/:id", h.UpdateContact)
	app.Delete("/api/v1/contacts/remove-contact/:id", h.RemoveContact)
	return app, db, owner.ProfileID
}

func parseBody(t *testing.T, r io.Reader) map[string]interface{} {
	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(r).Decode(&body))
	return body
}

func seedContact(t *testing.T, db *gorm.DB, ownerID uuid.UUID, fullname, relType string) *models.Contact {
	card := &models.Contact{OwnerID: ownerID, Fullname: fullname, RelationshipType: relType}
	require.NoError(t, db.Create(card).Error)
	return card
}

func TestCreateContactHandler(t *testing.T) {
	app, db, ownerID := setupContactsTest(t)

	payload := bytes.NewBufferString(`{
		"fullname": "  New Contact ",
		"email": "Contact@Test.com",
		"relationship_type": "friend",
		"notes": "met at a meetup"
	}`)
	req := httptest.NewRequest("POST", "/api/v1/contacts/create-contact", payload)
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 201, resp.StatusCode)

	var card models.Contact
	require.NoError(t, db.Where("owner_id = ?", ownerID).First(&card).Error)
	assert.Equal(t, "New Contact", card.Fullname)
	assert.Equal(t, "contact@test.com", card.Email)
	assert.Nil(t, card.LinkedProfileID)
}

func TestCreateContactHandler_MissingName(t *testing.T) {
	app, _, _ := setupContactsTest(t)

	payload := bytes.NewBufferString(`{"email":"contact@test.com"}`)
	req := httptest.NewRequest("POST", "/api/v1/contacts/create-contact", payload)
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)
}

func TestListContactsHandler_Filter(t *testing.T) {
	app, db, ownerID := setupContactsTest(t)
	seedContact(t, db, ownerID, "Friend One", "friend")
	seedContact(t, db, ownerID, "Colleague One", "colleague")
	// Another owner's card never shows up.
	seedContact(t, db, uuid.New(), "Stranger", "friend")

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/contacts/list-contacts", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	body := parseBody(t, resp.Body)
	assert.Len(t, body["data"].([]interface{}), 2)

	resp, err = app.Test(httptest.NewRequest("GET", "/api/v1/contacts/list-contacts?relationship_type=friend", nil))
	require.NoError(t, err)
	body = parseBody(t, resp.Body)
	data := body["data"].([]interface{})
	require.Len(t, data, 1)
	assert.Equal(t, "Friend One", data[0].(map[string]interface{})["fullname"])
}

func TestViewContactHandler_NotOwned(t *testing.T) {
	app, db, _ := setupContactsTest(t)
	other := seedContact(t, db, uuid.New(), "Stranger", "friend")

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/contacts/view-contact/"+other.ContactID.String(), nil))
	require.NoError(t, err)
	assert.Equal(t, 404, resp.StatusCode)
}

func TestUpdateContactHandler(t *testing.T) {
	app, db, ownerID := setupContactsTest(t)
	card := seedContact(t, db, ownerID, "Old Name", "friend")
	linked := uuid.New()

	payload := bytes.NewBufferString(`{
		"fullname": "New Name",
		"notes": "updated notes",
		"linked_profile_id": "` + linked.String() + `"
	}`)
	req := httptest.NewRequest("PUT", "/api/v1/contacts/update-contact/"+card.ContactID.String(), payload)
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var updated models.Contact
	require.NoError(t, db.Where("contact_id = ?", card.ContactID).First(&updated).Error)
	assert.Equal(t, "New Name", updated.Fullname)
	assert.Equal(t, "updated notes", updated.Notes)
	// linked_profile_id is owned by invite redemption.
	assert.Nil(t, updated.LinkedProfileID)
}

func TestRemoveContactHandler(t *testing.T) {
	app, db, ownerID := setupContactsTest(t)
	card := seedContact(t, db, ownerID, "Removable", "friend")

	resp, err := app.Test(httptest.NewRequest("DELETE", "/api/v1/contacts/remove-contact/"+card.ContactID.String(), nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	// Soft delete: gone from default queries, row still present.
	var n int64
	require.NoError(t, db.Model(&models.Contact{}).Where("owner_id = ?", ownerID).Count(&n).Error)
	assert.EqualValues(t, 0, n)
	require.NoError(t, db.Unscoped().Model(&models.Contact{}).Where("owner_id = ?", ownerID).Count(&n).Error)
	assert.EqualValues(t, 1, n)
}

func TestRemoveContactHandler_NotFound(t *testing.T) {
	app, _, _ := setupContactsTest(t)

	resp, err := app.Test(httptest.NewRequest("DELETE", "/api/v1/contacts/remove-contact/"+uuid.New().String(), nil))
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)
}
