package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultLMStudioBaseURL is the standard local LM Studio endpoint.
const DefaultLMStudioBaseURL = "http://localhost:1234"

// LMStudioClient talks to LM Studio's OpenAI-compatible chat API.
type LMStudioClient struct {
	baseURL     string
	model       string
	temperature float64
	httpClient  *http.Client
}

// NewLMStudioClient creates a client from options, applying defaults for any
// unset field.
func NewLMStudioClient(opts Options) *LMStudioClient {
	baseURL := opts.LMStudioBaseURL
	if baseURL == "" {
		baseURL = DefaultLMStudioBaseURL
	}
	temperature := opts.Temperature
	if temperature == 0 {
		temperature = 0.7
	}
	return &LMStudioClient{
		baseURL:     baseURL,
		model:       opts.Model,
		temperature: temperature,
		httpClient:  &http.Client{},
	}
}

// Name returns the backend identifier.
func (c *LMStudioClient) Name() string {
	return "lmstudio"
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	Stream      bool          `json:"stream"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Generate sends one user message and returns the first choice's content.
func (c *LMStudioClient) Generate(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(chatCompletionRequest{
		Model:       c.model,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		Temperature: c.temperature,
		Stream:      false,
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("lmstudio request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read lmstudio response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("lmstudio returned status %d: %s", resp.StatusCode, data)
	}

	var parsed chatCompletionResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return "", fmt.Errorf("failed to decode lmstudio response: %w", err)
	}
	if parsed.Error != nil {
		return "", fmt.Errorf("lmstudio error: %s", parsed.Error.Message)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("lmstudio returned no choices")
	}
	return parsed.Choices[0].Message.Content, nil
}

// Available probes the models endpoint with a short deadline.
func (c *LMStudioClient) Available(ctx context.Context) bool {
	probeCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(probeCtx, http.MethodGet, c.baseURL+"/v1/models", nil)
	if err != nil {
		return false
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}
