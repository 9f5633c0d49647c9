// Package deepgram issues ephemeral credentials for the browser's
// streaming speech-to-text connection.
package deepgram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultBaseURL is the Deepgram API endpoint.
const DefaultBaseURL = "https://api.deepgram.com"

// MaxTokenTTL is the ceiling on ephemeral token lifetime.
const MaxTokenTTL = 10 * time.Minute

// Config holds the configuration for the Deepgram client.
type Config struct {
	APIKey     string
	ProjectID  string
	BaseURL    string
	HTTPClient *http.Client
	Timeout    time.Duration
}

// Client issues short-lived Deepgram API keys. There is no refresh or
// rotation; callers simply request a fresh token when one expires.
type Client struct {
	apiKey     string
	projectID  string
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new Deepgram client.
func NewClient(cfg *Config) (*Client, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if cfg.ProjectID == "" {
		return nil, fmt.Errorf("project id is required")
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout == 0 {
			timeout = 10 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	return &Client{
		apiKey:     cfg.APIKey,
		projectID:  cfg.ProjectID,
		baseURL:    baseURL,
		httpClient: httpClient,
	}, nil
}

// Token is a short-lived credential for the streaming STT connection.
type Token struct {
	Key       string
	ExpiresIn time.Duration
}

type createKeyRequest struct {
	Comment    string   `json:"comment"`
	Scopes     []string `json:"scopes"`
	TTLSeconds int      `json:"time_to_live_in_seconds"`
}

type createKeyResponse struct {
	Key      string `json:"key"`
	APIKeyID string `json:"api_key_id"`
}

// CreateEphemeralToken issues a new short-lived key. The requested TTL
// is capped at MaxTokenTTL.
func (c *Client) CreateEphemeralToken(ctx context.Context, ttl time.Duration) (*Token, error) {
	if ttl <= 0 || ttl > MaxTokenTTL {
		ttl = MaxTokenTTL
	}

	body, err := json.Marshal(createKeyRequest{
		Comment:    "voicedesk ephemeral browser token",
		Scopes:     []string{"usage:write"},
		TTLSeconds: int(ttl.Seconds()),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/v1/projects/%s/keys", c.baseURL, c.projectID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Token "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("deepgram request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("deepgram returned status %d: %s", resp.StatusCode, string(respBody))
	}

	var parsed createKeyResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if parsed.Key == "" {
		return nil, fmt.Errorf("deepgram returned no key")
	}

	return &Token{Key: parsed.Key, ExpiresIn: ttl}, nil
}
