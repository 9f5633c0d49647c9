// Package elevenlabs provides the ElevenLabs text-to-speech client.
package elevenlabs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultBaseURL is the ElevenLabs API endpoint.
const DefaultBaseURL = "https://api.elevenlabs.io/v1"

// Config holds the configuration for the ElevenLabs client.
type Config struct {
	APIKey     string
	BaseURL    string
	ModelID    string
	HTTPClient *http.Client
	Timeout    time.Duration
}

// Client implements the tts.Provider interface for ElevenLabs.
type Client struct {
	apiKey     string
	baseURL    string
	modelID    string
	httpClient *http.Client
}

// NewClient creates a new ElevenLabs client.
func NewClient(cfg *Config) (*Client, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	modelID := cfg.ModelID
	if modelID == "" {
		modelID = "eleven_turbo_v2_5"
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout == 0 {
			timeout = 30 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	return &Client{
		apiKey:     cfg.APIKey,
		baseURL:    baseURL,
		modelID:    modelID,
		httpClient: httpClient,
	}, nil
}

type synthesizeRequest struct {
	Text    string `json:"text"`
	ModelID string `json:"model_id"`
}

type synthesizeResponse struct {
	AudioURL string `json:"audio_url"`
}

// Synthesize converts text to speech and returns the hosted audio URL.
func (c *Client) Synthesize(ctx context.Context, text, voiceID string) (string, error) {
	if text == "" {
		return "", fmt.Errorf("text is required")
	}
	if voiceID == "" {
		return "", fmt.Errorf("voice id is required")
	}

	body, err := json.Marshal(synthesizeRequest{Text: text, ModelID: c.modelID})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/text-to-speech/%s?output_format=mp3_44100_128&with_audio_url=true", c.baseURL, voiceID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("xi-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("elevenlabs request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("elevenlabs returned status %d: %s", resp.StatusCode, string(respBody))
	}

	var parsed synthesizeResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if parsed.AudioURL == "" {
		return "", fmt.Errorf("elevenlabs returned no audio url")
	}
	return parsed.AudioURL, nil
}
