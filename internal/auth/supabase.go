package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ExchangedUser is the identity returned by the auth-code exchange.
// InviteCode carries the signup-time invite code from user metadata, if any.
type ExchangedUser struct {
	ID         string
	Email      string
	Fullname   string
	AvatarURL  string
	InviteCode string
}

// CodeExchanger abstracts the hosted auth API: exchange an authorization code
// for a user, and clear the signup invite_code metadata after redemption.
type CodeExchanger interface {
	ExchangeCode(ctx context.Context, code string) (*ExchangedUser, error)
	ClearInviteMetadata(ctx context.Context, userID string) error
}

// SupabaseClient is a CodeExchanger backed by the Supabase auth HTTP API.
type SupabaseClient struct {
	BaseURL   string
	SecretKey string
	Client    *http.Client
}

type supabaseTokenResponse struct {
	AccessToken string `json:"access_token"`
	User        struct {
		ID           string `json:"id"`
		Email        string `json:"email"`
		UserMetadata struct {
			FullName   string `json:"full_name"`
			AvatarURL  string `json:"avatar_url"`
			InviteCode string `json:"invite_code"`
		} `json:"user_metadata"`
	} `json:"user"`
}

func (c *SupabaseClient) ExchangeCode(ctx context.Context, code string) (*ExchangedUser, error) {
	if err := c.check(); err != nil {
		return nil, err
	}
	base := strings.TrimRight(c.BaseURL, "/")
	url := fmt.Sprintf("%s/auth/v1/token?grant_type=pkce", base)

	bodyBytes, _ := json.Marshal(map[string]string{"auth_code": code})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, err
	}
	c.setHeaders(req)

	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("supabase request: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("supabase auth error: status %d body: %s", resp.StatusCode, string(respBody))
	}

	var data supabaseTokenResponse
	if err := json.Unmarshal(respBody, &data); err != nil {
		return nil, fmt.Errorf("supabase response decode: %w", err)
	}
	if data.User.ID == "" {
		return nil, fmt.Errorf("supabase returned no user, body: %s", string(respBody))
	}
	return &ExchangedUser{
		ID:         data.User.ID,
		Email:      data.User.Email,
		Fullname:   data.User.UserMetadata.FullName,
		AvatarURL:  data.User.UserMetadata.AvatarURL,
		InviteCode: data.User.UserMetadata.InviteCode,
	}, nil
}

// ClearInviteMetadata nulls out user_metadata.invite_code via the admin users
// API so a signup-time code cannot be redeemed twice.
func (c *SupabaseClient) ClearInviteMetadata(ctx context.Context, userID string) error {
	if err := c.check(); err != nil {
		return err
	}
	base := strings.TrimRight(c.BaseURL, "/")
	url := fmt.Sprintf("%s/auth/v1/admin/users/%s", base, userID)

	bodyBytes, _ := json.Marshal(map[string]interface{}{
		"user_metadata": map[string]interface{}{"invite_code": nil},
	})
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(bodyBytes))
	if err != nil {
		return err
	}
	c.setHeaders(req)

	resp, err := c.Client.Do(req)
	if err != nil {
		return fmt.Errorf("supabase request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("supabase admin error: status %d body: %s", resp.StatusCode, string(respBody))
	}
	return nil
}

func (c *SupabaseClient) check() error {
	if c.Client == nil {
		c.Client = &http.Client{Timeout: 10 * time.Second}
	}
	if c.BaseURL == "" {
		return fmt.Errorf("supabase: SUPABASE_URL is not set")
	}
	if c.SecretKey == "" {
		return fmt.Errorf("supabase: SUPABASE_SECRET_KEY is not set")
	}
	return nil
}

// Match @supabase/supabase-js: both apikey and Authorization Bearer (same key).
func (c *SupabaseClient) setHeaders(req *http.Request) {
	req.Header.Set("apikey", c.SecretKey)
	req.Header.Set("Authorization", "Bearer "+c.SecretKey)
	req.Header.Set("Content-Type", "application/json")
}
