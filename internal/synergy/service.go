package synergy

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"
)

// Fixed upstream parameters for the synergy draft.
const (
	completionModel     = "gpt-4o-mini"
	completionMaxTokens = 500
)

// CompletionClient abstracts the language-model API.
type CompletionClient interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// HTTPClient is a CompletionClient backed by an OpenAI-compatible
// chat-completions endpoint.
type HTTPClient struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

type completionRequest struct {
	Model     string              `json:"model"`
	MaxTokens int                 `json:"max_tokens"`
	Messages  []completionMessage `json:"messages"`
}

type completionMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type completionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (c *HTTPClient) Complete(ctx context.Context, prompt string) (string, error) {
	if c.Client == nil {
		c.Client = &http.Client{Timeout: 30 * time.Second}
	}
	if c.APIKey == "" {
		return "", fmt.Errorf("synergy: COMPLETION_API_KEY is not set")
	}
	base := strings.TrimRight(c.BaseURL, "/")
	url := base + "/v1/chat/completions"

	bodyBytes, _ := json.Marshal(completionRequest{
		Model:     completionModel,
		MaxTokens: completionMaxTokens,
		Messages:  []completionMessage{{Role: "user", Content: prompt}},
	})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("completion request: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// Raw status and body kept for diagnostics; no retry.
		return "", fmt.Errorf("completion error: status %d body: %s", resp.StatusCode, string(respBody))
	}

	var data completionResponse
	if err := json.Unmarshal(respBody, &data); err != nil {
		return "", fmt.Errorf("completion response decode: %w", err)
	}
	if len(data.Choices) == 0 {
		return "", fmt.Errorf("completion returned no choices, body: %s", string(respBody))
	}
	return data.Choices[0].Message.Content, nil
}

// ProfilePayload carries the textual fields of one profile.
type ProfilePayload struct {
	Fullname string `json:"fullname"`
	Location string `json:"location"`
	Bio      string `json:"bio"`
	Website  string `json:"website"`
	Work     string `json:"work"`
}

// Result is the parsed synergy note.
type Result struct {
	HelpThem     string `json:"helpThem"`
	HelpMe       string `json:"helpMe"`
	CommonGround string `json:"commonGround"`
}

// Service builds the prompt, calls the model, and splits the reply.
type Service struct {
	Client CompletionClient
}

// Generate drafts talking points between two connected users.
func (s *Service) Generate(ctx context.Context, me, them ProfilePayload) (*Result, error) {
	reply, err := s.Client.Complete(ctx, BuildPrompt(me, them))
	if err != nil {
		return nil, err
	}
	result := ParseReply(reply)
	return &result, nil
}

// BuildPrompt renders the fixed-format prompt. The labels must match the
// parsing regexes below.
func BuildPrompt(me, them ProfilePayload) string {
	var b strings.Builder
	b.WriteString("You are drafting talking points between two professionals.\n\n")
	b.WriteString("PERSON A (me):\n")
	writeProfile(&b, me)
	b.WriteString("\nPERSON B (them):\n")
	writeProfile(&b, them)
	b.WriteString("\nReply with exactly three labeled sections:\n")
	b.WriteString("HELP_THEM: how A can help B\n")
	b.WriteString("HELP_ME: how B can help A\n")
	b.WriteString("COMMON_GROUND: shared interests or background\n")
	return b.String()
}

func writeProfile(b *strings.Builder, p ProfilePayload) {
	fmt.Fprintf(b, "Name: %s\n", p.Fullname)
	if p.Location != "" {
		fmt.Fprintf(b, "Location: %s\n", p.Location)
	}
	if p.Bio != "" {
		fmt.Fprintf(b, "Bio: %s\n", p.Bio)
	}
	if p.Website != "" {
		fmt.Fprintf(b, "Website: %s\n", p.Website)
	}
	if p.Work != "" {
		fmt.Fprintf(b, "Work: %s\n", p.Work)
	}
}

var (
	helpThemRe     = regexp.MustCompile(`(?s)HELP_THEM:\s*(.*?)\s*(?:HELP_ME:|COMMON_GROUND:|$)`)
	helpMeRe       = regexp.MustCompile(`(?s)HELP_ME:\s*(.*?)\s*(?:COMMON_GROUND:|$)`)
	commonGroundRe = regexp.MustCompile(`(?s)COMMON_GROUND:\s*(.*?)\s*$`)
)

// ParseReply splits the model reply on the three literal labels. A missing
// label leaves the corresponding field empty.
func ParseReply(reply string) Result {
	return Result{
		HelpThem:     capture(helpThemRe, reply),
		HelpMe:       capture(helpMeRe, reply),
		CommonGround: capture(commonGroundRe, reply),
	}
}

func capture(re *regexp.Regexp, s string) string {
	m := re.FindStringSubmatch(s)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}
