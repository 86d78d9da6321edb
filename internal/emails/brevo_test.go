package emails

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendInvite(t *testing.T) {
	var gotKey string
	var gotBody BrevoSendRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("api-key")
		b, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(b, &gotBody)
		w.WriteHeader(201)
	}))
	defer srv.Close()

	client := &BrevoClient{APIKey: "brevo-key", MailFrom: "hello@nexus.app", APIURL: srv.URL}
	err := client.SendInvite(context.Background(), "friend@test.com", "Jane Doe", "https://nexus.app/invite/NEXUS-7Q2K9P")
	require.NoError(t, err)

	assert.Equal(t, "brevo-key", gotKey)
	assert.Equal(t, "hello@nexus.app", gotBody.Sender.Email)
	require.Len(t, gotBody.To, 1)
	assert.Equal(t, "friend@test.com", gotBody.To[0].Email)
	assert.Equal(t, "Jane Doe wants to connect with you on Nexus", gotBody.Subject)
	assert.Contains(t, gotBody.HTMLContent, "https://nexus.app/invite/NEXUS-7Q2K9P")
}

func TestSendInvite_EscapesInviterName(t *testing.T) {
	var gotBody BrevoSendRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(b, &gotBody)
		w.WriteHeader(201)
	}))
	defer srv.Close()

	client := &BrevoClient{APIKey: "brevo-key", APIURL: srv.URL}
	err := client.SendInvite(context.Background(), "friend@test.com", `<script>"x"</script>`, "https://nexus.app/invite/NEXUS-AB12CD")
	require.NoError(t, err)
	assert.NotContains(t, gotBody.HTMLContent, "<script>")
	assert.Contains(t, gotBody.HTMLContent, "&lt;script&gt;")
}

func TestSend_NoOpWithoutKey(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	client := &BrevoClient{APIURL: srv.URL}
	require.NoError(t, client.SendWelcome(context.Background(), "x@test.com", "X"))
	require.NoError(t, client.SendInvite(context.Background(), "x@test.com", "X", "link"))
	assert.False(t, called)
}

func TestSend_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(401)
	}))
	defer srv.Close()

	client := &BrevoClient{APIKey: "bad", APIURL: srv.URL}
	err := client.SendWelcome(context.Background(), "x@test.com", "X")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 401")
}
