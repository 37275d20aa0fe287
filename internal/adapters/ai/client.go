package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/adpilot/marketops/internal/domain"
	"github.com/adpilot/marketops/internal/ports"
)

const defaultBaseURL = "https://api.openai.com/v1"

// Client calls a chat-completions style LLM API for ad copy and
// recommendation phrasing.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	model      string
}

func NewClient(baseURL, apiKey, model string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if model == "" {
		model = "gpt-4o-mini"
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		model:      model,
	}
}

type chatRequest struct {
	Model          string        `json:"model"`
	Messages       []chatMessage `json:"messages"`
	Temperature    float64       `json:"temperature"`
	ResponseFormat *chatFormat   `json:"response_format,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatFormat struct {
	Type string `json:"type"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

func (c *Client) complete(ctx context.Context, system, user string, jsonMode bool) (string, error) {
	reqBody := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Temperature: 0.7,
	}
	if jsonMode {
		reqBody.ResponseFormat = &chatFormat{Type: "json_object"}
	}
	raw, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("%w: encode assist request: %v", domain.ErrRemote, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(raw))
	if err != nil {
		return "", fmt.Errorf("%w: build assist request: %v", domain.ErrRemote, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrRemote, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return "", fmt.Errorf("%w: assist api throttled", domain.ErrRateLimited)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("%w: assist status=%d body=%s", domain.ErrRemote, resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("%w: decode assist response: %v", domain.ErrRemote, err)
	}
	if len(out.Choices) == 0 {
		return "", fmt.Errorf("%w: assist returned no choices", domain.ErrRemote)
	}
	return out.Choices[0].Message.Content, nil
}

const adCopySystemPrompt = `You write short, punchy ad copy. Respond with a JSON object with keys
"headline", "body", "call_to_action" and nothing else. Headline under 60
characters, body under 200 characters.`

func (c *Client) GenerateAdCopy(ctx context.Context, platform domain.Platform, product, audience string) (domain.Creative, error) {
	user := fmt.Sprintf("Platform: %s. Product: %s.", platform, product)
	if audience != "" {
		user += fmt.Sprintf(" Target audience: %s.", audience)
	}
	content, err := c.complete(ctx, adCopySystemPrompt, user, true)
	if err != nil {
		return domain.Creative{}, err
	}

	var parsed struct {
		Headline     string `json:"headline"`
		Body         string `json:"body"`
		CallToAction string `json:"call_to_action"`
	}
	if err := json.Unmarshal([]byte(content), &parsed); err != nil {
		return domain.Creative{}, fmt.Errorf("%w: assist returned malformed ad copy: %v", domain.ErrRemote, err)
	}
	if parsed.Headline == "" {
		return domain.Creative{}, fmt.Errorf("%w: assist returned empty headline", domain.ErrRemote)
	}
	return domain.Creative{
		Headline:     parsed.Headline,
		Body:         parsed.Body,
		CallToAction: parsed.CallToAction,
	}, nil
}

func (c *Client) Recommend(ctx context.Context, prompt string) (string, error) {
	return c.complete(ctx, "You are a concise marketing analyst. Answer in one sentence.", prompt, false)
}

var _ ports.AssistClient = (*Client)(nil)
