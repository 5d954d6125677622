package ollamachat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"golang.org/x/time/rate"

	"docqa-orchestrator/internal/domain"
)

const generationTemperature = 0.2

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string                 `json:"model"`
	Messages []chatMessage          `json:"messages"`
	Stream   bool                   `json:"stream"`
	Options  map[string]interface{} `json:"options,omitempty"`
}

type chatResponse struct {
	Message struct {
		Content string `json:"content"`
	} `json:"message"`
	Done bool `json:"done"`
}

// Client sends conversation turns to Ollama's chat endpoint and returns the
// assistant reply.
type Client struct {
	BaseURL string
	Model   string
	HTTP    *http.Client
	limiter *rate.Limiter
}

// New constructs a chat client for the given endpoint and model.
// requestsPerSecond > 0 enables client-side throttling of generation calls.
func New(baseURL, model string, httpClient *http.Client, requestsPerSecond float64) *Client {
	limiter := rate.NewLimiter(rate.Inf, 1)
	if requestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), 1)
	}
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Model:   model,
		HTTP:    httpClient,
		limiter: limiter,
	}
}

// Complete sends the ordered turns to Ollama and returns the generated
// reply. An empty reply is returned as-is; the caller decides what to
// substitute.
func (c *Client) Complete(ctx context.Context, turns []domain.Turn) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("generation rate limit: %w", err)
	}

	messages := make([]chatMessage, len(turns))
	for i, turn := range turns {
		messages[i] = chatMessage{Role: string(turn.Role), Content: turn.Text}
	}

	reqBody := chatRequest{
		Model:    c.Model,
		Messages: messages,
		Stream:   false,
		Options: map[string]interface{}{
			"temperature": generationTemperature,
		},
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal chat request: %w", err)
	}

	url := fmt.Sprintf("%s/api/chat", c.BaseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to call chat endpoint: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("chat endpoint returned %d: %s", resp.StatusCode, string(body))
	}

	var chatResp chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return "", fmt.Errorf("failed to decode chat response: %w", err)
	}

	return strings.TrimSpace(chatResp.Message.Content), nil
}

// Version returns the wrapped model name.
func (c *Client) Version() string {
	return c.Model
}

var _ domain.ChatClient = (*Client)(nil)
