package synergy

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSynergyApp(client CompletionClient, loggedIn bool) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		if loggedIn {
			c.Locals("user", map[string]interface{}{
				"profile_id": "11111111-2222-3333-4444-555555555555",
			})
		}
		return c.Next()
	})
	h := &Handlers{Service: &Service{Client: client}}
	app.Post("/api/ai/synergy", h.Generate)
	return app
}

func synergyRequest() *bytes.Buffer {
	b, _ := json.Marshal(fiber.Map{
		"me":   fiber.Map{"fullname": "Ada", "bio": "Engineer"},
		"them": fiber.Map{"fullname": "Grace", "work": "Compilers"},
	})
	return bytes.NewBuffer(b)
}

func TestGenerateHandler(t *testing.T) {
	app := newSynergyApp(&fakeCompletionClient{
		reply: "HELP_THEM: Intro to design network.\nHELP_ME: Pitch review.\nCOMMON_GROUND: Berlin.",
	}, true)

	req := httptest.NewRequest("POST", "/api/ai/synergy", synergyRequest())
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	// Raw contract, not the standard envelope.
	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "Intro to design network.", body["helpThem"])
	assert.Equal(t, "Pitch review.", body["helpMe"])
	assert.Equal(t, "Berlin.", body["commonGround"])
}

func TestGenerateHandler_Unauthorized(t *testing.T) {
	app := newSynergyApp(&fakeCompletionClient{}, false)

	req := httptest.NewRequest("POST", "/api/ai/synergy", synergyRequest())
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 401, resp.StatusCode)
}

func TestGenerateHandler_MissingProfiles(t *testing.T) {
	app := newSynergyApp(&fakeCompletionClient{}, true)

	payload := bytes.NewBufferString(`{"me":{"fullname":"Ada"},"them":{}}`)
	req := httptest.NewRequest("POST", "/api/ai/synergy", payload)
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)
}

func TestGenerateHandler_UpstreamFailure(t *testing.T) {
	app := newSynergyApp(&fakeCompletionClient{err: errors.New("completion error: status 500")}, true)

	req := httptest.NewRequest("POST", "/api/ai/synergy", synergyRequest())
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 500, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Contains(t, body["error"], "completion error")
}
