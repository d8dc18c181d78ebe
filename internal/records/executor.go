package records

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// maxResponseBody caps how much of a response we keep as learning material.
const maxResponseBody = 1 << 20 // 1 MiB

// Response is the outcome of an executed outbound call.
type Response struct {
	Status  int    `json:"status"`
	Body    string `json:"body"`
	Success bool   `json:"success"`
}

// Executor performs real outbound HTTP requests on behalf of the learning
// API. Calls are time-bounded and response bodies are truncated to a sane
// size.
type Executor struct {
	httpClient *http.Client
}

func NewExecutor() *Executor {
	return &Executor{
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Execute runs the request and returns its status and (bounded) body.
// Only http and https URLs are accepted.
func (e *Executor) Execute(ctx context.Context, method, url, body string, headers map[string]string) (Response, error) {
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		return Response{}, fmt.Errorf("URL must start with http:// or https://")
	}

	var reqBody io.Reader
	if body != "" {
		reqBody = strings.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, strings.ToUpper(method), url, reqBody)
	if err != nil {
		return Response{}, fmt.Errorf("build request: %w", err)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return Response{}, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return Response{}, fmt.Errorf("read response body: %w", err)
	}

	return Response{
		Status:  resp.StatusCode,
		Body:    string(data),
		Success: resp.StatusCode >= 200 && resp.StatusCode < 300,
	}, nil
}
