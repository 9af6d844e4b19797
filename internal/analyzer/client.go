package analyzer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/spec-kit/support-desk/internal/config"
	"github.com/spec-kit/support-desk/internal/domain"
)

// Client calls an OpenAI-compatible chat completion endpoint and parses
// the model output into an Analysis. Every call carries the configured
// timeout; callers handle errors via Fallback.
type Client struct {
	baseURL string
	apiKey  string
	model   string
	http    *http.Client
}

// NewClient builds an analyzer client from configuration.
func NewClient(cfg config.AnalyzerConfig) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
		http:    &http.Client{Timeout: cfg.Timeout()},
	}
}

const analyzePrompt = `You are a support ticket classifier. Given a ticket subject and description,
respond with a single JSON object and nothing else, using these fields:
category (billing|technical|account|feature_request|bug_report|general),
priority (low|medium|high|urgent), summary (one sentence),
suggested_response (a short reply to the customer), tags (array of strings),
sentiment (positive|neutral|negative), should_escalate (boolean).`

// Analyze classifies the ticket text.
func (c *Client) Analyze(ctx context.Context, subject, description string) (*Analysis, error) {
	user := fmt.Sprintf("Subject: %s\n\nDescription: %s", subject, description)
	content, err := c.complete(ctx, analyzePrompt, user)
	if err != nil {
		return nil, err
	}

	var analysis Analysis
	if err := json.Unmarshal([]byte(extractJSON(content)), &analysis); err != nil {
		return nil, fmt.Errorf("malformed analysis payload: %w", err)
	}
	if !domain.ValidCategory(analysis.Category) || !domain.ValidPriority(analysis.Priority) {
		return nil, fmt.Errorf("analysis returned unknown classification %q/%q",
			analysis.Category, analysis.Priority)
	}
	if analysis.Tags == nil {
		analysis.Tags = []string{}
	}
	return &analysis, nil
}

const respondPrompt = `You are a support agent. Write a brief, polite reply to the customer's
ticket. Respond with the reply text only.`

// GenerateResponse drafts a reply for the ticket.
func (c *Client) GenerateResponse(ctx context.Context, ticket *domain.Ticket) (string, error) {
	user := fmt.Sprintf("Category: %s\nSubject: %s\n\nDescription: %s",
		ticket.Category, ticket.Subject, ticket.Description)
	content, err := c.complete(ctx, respondPrompt, user)
	if err != nil {
		return "", err
	}
	reply := strings.TrimSpace(content)
	if reply == "" {
		return "", fmt.Errorf("empty response from analyzer")
	}
	return reply, nil
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

func (c *Client) complete(ctx context.Context, system, user string) (string, error) {
	payload, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("analyzer returned status %d", resp.StatusCode)
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", err
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("analyzer returned no choices")
	}
	return parsed.Choices[0].Message.Content, nil
}

// extractJSON strips markdown fences the model sometimes wraps around
// its JSON output.
func extractJSON(content string) string {
	content = strings.TrimSpace(content)
	if start := strings.Index(content, "{"); start >= 0 {
		if end := strings.LastIndex(content, "}"); end > start {
			return content[start : end+1]
		}
	}
	return content
}
