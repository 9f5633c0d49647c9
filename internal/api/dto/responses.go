// Package dto provides Data Transfer Objects for API requests and responses.
package dto

import "github.com/voicedesk/agent-service/internal/domain/models"

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// SessionState echoes the conversation state back to the widget.
type SessionState struct {
	SessionID     string               `json:"sessionId"`
	CollectedData models.CollectedData `json:"collectedData"`
}

// TurnResponse represents the agent's reply to one turn.
type TurnResponse struct {
	ReplyText    string       `json:"replyText"`
	AskFor       *string      `json:"askFor"`
	ReadyToBook  bool         `json:"readyToBook"`
	SessionState SessionState `json:"sessionState"`
	AudioURL     string       `json:"audioUrl,omitempty"`
}

// BookingResponse represents the response for creating a booking.
type BookingResponse struct {
	CalendlyURL string `json:"calendlyUrl"`
}

// SpeechResponse represents the response for direct speech synthesis.
type SpeechResponse struct {
	AudioURL string `json:"audioUrl"`
}

// TokenResponse represents an ephemeral speech-to-text credential.
type TokenResponse struct {
	Token     string `json:"token"`
	ExpiresIn int    `json:"expiresIn"`
}

// SlotsResponse represents the open slots for one calendar day.
type SlotsResponse struct {
	Date  string   `json:"date"`
	Slots []string `json:"slots"`
}
