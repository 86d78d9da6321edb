package emails

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const defaultBrevoAPI = "https://api.brevo.com/v3/smtp/email"

// BrevoSendRequest matches the Brevo API v3 transactional email body.
type BrevoSendRequest struct {
	Sender      BrevoSender `json:"sender"`
	To          []BrevoTo   `json:"to"`
	Subject     string      `json:"subject"`
	HTMLContent string      `json:"htmlContent"`
}

type BrevoSender struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

type BrevoTo struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

// Sender sends transactional emails. Nil or unconfigured = no-op, so mail is
// always best-effort.
type Sender interface {
	SendWelcome(ctx context.Context, toEmail, fullname string) error
	SendInvite(ctx context.Context, toEmail, inviterName, inviteLink string) error
}

// BrevoClient sends emails via the Brevo API. An empty APIKey disables sending.
type BrevoClient struct {
	APIKey   string
	MailFrom string
	APIURL   string // override for tests; default Brevo
	Client   *http.Client
}

func (c *BrevoClient) from() string {
	if c.MailFrom != "" {
		return c.MailFrom
	}
	return "noreply@nexus.app"
}

func (c *BrevoClient) send(ctx context.Context, toEmail, subject, html string) error {
	if c.APIKey == "" {
		return nil
	}
	apiURL := c.APIURL
	if apiURL == "" {
		apiURL = defaultBrevoAPI
	}
	body := BrevoSendRequest{
		Sender:      BrevoSender{Email: c.from(), Name: "Nexus"},
		To:          []BrevoTo{{Email: toEmail}},
		Subject:     subject,
		HTMLContent: html,
	}
	bodyBytes, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL, bytes.NewReader(bodyBytes))
	if err != nil {
		return err
	}
	req.Header.Set("api-key", c.APIKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.Client == nil {
		c.Client = &http.Client{Timeout: 15 * time.Second}
	}
	resp, err := c.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("brevo send failed: status %d", resp.StatusCode)
	}
	return nil
}

// SendWelcome sends the welcome email after signup.
func (c *BrevoClient) SendWelcome(ctx context.Context, toEmail, fullname string) error {
	if c.APIKey == "" {
		return nil
	}
	if fullname == "" {
		fullname = "there"
	}
	return c.send(ctx, toEmail, "Welcome to Nexus!", Layout(welcomeContent(fullname)))
}

// SendInvite sends a connection invite with the redemption link.
func (c *BrevoClient) SendInvite(ctx context.Context, toEmail, inviterName, inviteLink string) error {
	if c.APIKey == "" {
		return nil
	}
	if inviterName == "" {
		inviterName = "Someone"
	}
	subject := fmt.Sprintf("%s wants to connect with you on Nexus", inviterName)
	return c.send(ctx, toEmail, subject, Layout(inviteContent(inviterName, inviteLink)))
}

func welcomeContent(fullname string) string {
	return fmt.Sprintf(`
    <h1>Welcome, %s!</h1>
    <p>Your <strong>Nexus</strong> account is ready. Nexus keeps the people you know, the moments you shared, and the ways you can help each other in one place.</p>
    <center>
      <a href="https://nexus.app/dashboard" class="nexus-button">Open your dashboard</a>
    </center>
    <p style="margin-top: 20px; font-size: 14px; color: #666;">
      If you did not sign up for this account, please ignore this email.
    </p>
`, EscapeHTML(fullname))
}

func inviteContent(inviterName, inviteLink string) string {
	return fmt.Sprintf(`
    <h1>%s invited you to connect</h1>
    <p>Accept the invitation on <strong>Nexus</strong> and you will each get a contact card for the other, kept up to date automatically.</p>
    <center>
      <a href="%s" class="nexus-button">Accept invitation</a>
    </center>
    <p style="margin-top:20px;font-size:14px;color:#666;">
      If you were not expecting this invitation, you can safely ignore this email.
    </p>
`, EscapeHTML(inviterName), inviteLink)
}
