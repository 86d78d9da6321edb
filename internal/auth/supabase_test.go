package auth

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

func TestExchangeCode(t *testing.T) {
	var gotPath, gotAuth, gotAPIKey string
	var gotBody map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path + "?" + r.URL.RawQuery
		gotAuth = r.Header.Get("Authorization")
		gotAPIKey = r.Header.Get("apikey")
		b, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(b, &gotBody)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"access_token": "tok",
			"user": {
				"id": "11111111-2222-3333-4444-555555555555",
				"email": "new@test.com",
				"user_metadata": {
					"full_name": "New User",
					"avatar_url": "https://cdn.example.com/a.png",
					"invite_code": "NEXUS-7Q2K9P"
				}
			}
		}`))
	}))
	defer srv.Close()

	client := &SupabaseClient{BaseURL: srv.URL, SecretKey: "secret-key"}
	user, err := client.ExchangeCode(context.Background(), "auth-code-1")
	require.NoError(t, err)

	assert.Equal(t, "/auth/v1/token?grant_type=pkce", gotPath)
	assert.Equal(t, "Bearer secret-key", gotAuth)
	assert.Equal(t, "secret-key", gotAPIKey)
	assert.Equal(t, "auth-code-1", gotBody["auth_code"])

	assert.Equal(t, "11111111-2222-3333-4444-555555555555", user.ID)
	assert.Equal(t, "new@test.com", user.Email)
	assert.Equal(t, "New User", user.Fullname)
	assert.Equal(t, "NEXUS-7Q2K9P", user.InviteCode)
}

func TestExchangeCode_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(400)
		_, _ = w.Write([]byte(`{"error":"invalid code"}`))
	}))
	defer srv.Close()

	client := &SupabaseClient{BaseURL: srv.URL, SecretKey: "secret-key"}
	_, err := client.ExchangeCode(context.Background(), "bad")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 400")
}

func TestExchangeCode_NoUser(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"access_token":"tok","user":{}}`))
	}))
	defer srv.Close()

	client := &SupabaseClient{BaseURL: srv.URL, SecretKey: "secret-key"}
	_, err := client.ExchangeCode(context.Background(), "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no user")
}

func TestExchangeCode_Unconfigured(t *testing.T) {
	client := &SupabaseClient{}
	_, err := client.ExchangeCode(context.Background(), "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SUPABASE_URL")
}

func TestClearInviteMetadata(t *testing.T) {
	var gotMethod, gotPath string
	var gotBody map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		b, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(b, &gotBody)
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	client := &SupabaseClient{BaseURL: srv.URL, SecretKey: "secret-key"}
	require.NoError(t, client.ClearInviteMetadata(context.Background(), "user-123"))

	assert.Equal(t, http.MethodPut, gotMethod)
	assert.Equal(t, "/auth/v1/admin/users/user-123", gotPath)
	meta := gotBody["user_metadata"].(map[string]interface{})
	code, present := meta["invite_code"]
	assert.True(t, present)
	assert.Nil(t, code)
}
