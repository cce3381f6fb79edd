package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	appLog "github.com/ASLaskin/CalenAI/internal/log"
)

// Client talks to a local Ollama server. Both endpoints are treated as
// black boxes: a connection failure or non-2xx status is an error for the
// caller to surface, never a crash and never retried here.
type Client struct {
	baseURL     string
	model       string
	temperature float64
	http        *http.Client
}

// NewClient creates a Client for the given base URL (e.g.
// "http://localhost:11434"), model name and sampling temperature.
func NewClient(baseURL, model string, temperature float64) *Client {
	return &Client{
		baseURL:     baseURL,
		model:       model,
		temperature: temperature,
		// The generate call can legitimately take a while on local
		// hardware; there is no timeout in the core contract.
		http: &http.Client{},
	}
}

type generateRequest struct {
	Model       string  `json:"model"`
	Prompt      string  `json:"prompt"`
	Stream      bool    `json:"stream"`
	Temperature float64 `json:"temperature"`
}

type generateResponse struct {
	Response string `json:"response"`
}

// Generate sends the full prompt to the generate endpoint and returns the
// model's raw response text.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	payload, err := json.Marshal(generateRequest{
		Model:       c.model,
		Prompt:      prompt,
		Stream:      false,
		Temperature: c.temperature,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/generate", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("ollama request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("ollama generate: %s", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	var out generateResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("ollama response decode: %w", err)
	}
	if out.Response == "" {
		return "", errors.New("ollama returned an empty response")
	}
	return out.Response, nil
}

// Ping probes the version endpoint with a short timeout and reports
// whether the server answered. Used only as a liveness check at startup.
func (c *Client) Ping(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/version", nil)
	if err != nil {
		return false
	}

	resp, err := c.http.Do(req)
	if err != nil {
		appLog.Debug("ollama liveness probe failed", "err", err.Error())
		return false
	}
	defer resp.Body.Close()

	return resp.StatusCode == http.StatusOK
}
