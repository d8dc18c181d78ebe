// Package ollama talks to a local Ollama server for text generation. The
// client is optional infrastructure: when it is absent, disabled, or
// failing, the chat layer falls back to templated replies.
package ollama

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

// generateTimeout bounds a single generation call. The chat layer abandons
// the call and takes its fallback path when this elapses.
const generateTimeout = 120 * time.Second

// Client generates text via the Ollama API.
type Client struct {
	baseURL    string
	model      string
	enabled    bool
	httpClient *http.Client
}

func NewClient(baseURL, model string, enabled bool) *Client {
	return &Client{
		baseURL: baseURL,
		model:   model,
		enabled: enabled,
		httpClient: &http.Client{
			Timeout: generateTimeout,
		},
	}
}

// Enabled reports whether generation is configured on.
func (c *Client) Enabled() bool {
	return c.enabled
}

type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

type generateResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
	Error    string `json:"error"`
}

// Generate produces a completion for the prompt, non-streaming.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	if !c.enabled {
		return "", fmt.Errorf("ollama is disabled, set OLLAMA_ENABLED=true to use generation")
	}

	data, err := json.Marshal(generateRequest{
		Model:  c.model,
		Prompt: prompt,
		Stream: false,
	})
	if err != nil {
		return "", fmt.Errorf("marshal generate request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/generate", bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("build generate request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("ollama generate: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read generate response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("ollama generate: status %d: %s", resp.StatusCode, string(body))
	}

	var result generateResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("decode generate response: %w", err)
	}
	if result.Error != "" {
		return "", fmt.Errorf("ollama error: %s", result.Error)
	}
	if result.Response == "" {
		return "", fmt.Errorf("ollama returned an empty response")
	}

	return result.Response, nil
}

// GenerateWithContext wraps the user input in a prompt carrying retrieved
// memory lines as context.
func (c *Client) GenerateWithContext(ctx context.Context, userInput string, contextLines []string) (string, error) {
	contextText := "No context available."
	if len(contextLines) > 0 {
		contextText = "Context from memory:\n" + strings.Join(contextLines, "\n")
	}

	prompt := fmt.Sprintf(
		"%s\n\nUser question: %s\n\nPlease provide a helpful response based on the context above.",
		contextText, userInput,
	)

	return c.Generate(ctx, prompt)
}

// HealthCheck reports whether the Ollama server is reachable. A disabled
// client is never healthy and performs no network I/O.
func (c *Client) HealthCheck(ctx context.Context) bool {
	if !c.enabled {
		return false
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/tags", nil)
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

// ListModels returns the names of models the server has pulled.
func (c *Client) ListModels(ctx context.Context) ([]string, error) {
	if !c.enabled {
		return nil, fmt.Errorf("ollama is disabled")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/tags", nil)
	if err != nil {
		return nil, fmt.Errorf("build tags request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ollama tags: %w", err)
	}
	defer resp.Body.Close()

	var tags struct {
		Models []struct {
			Name string `json:"name"`
		} `json:"models"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&tags); err != nil {
		return nil, fmt.Errorf("decode tags response: %w", err)
	}

	names := make([]string, 0, len(tags.Models))
	for _, m := range tags.Models {
		names = append(names, m.Name)
	}
	return names, nil
}
