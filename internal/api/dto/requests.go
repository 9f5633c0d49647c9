// Package dto provides Data Transfer Objects for API requests and responses.
package dto

// TurnRequest represents one user utterance delivered to the agent.
type TurnRequest struct {
	SessionID string `json:"sessionId" binding:"required,min=1,max=128"`
	Text      string `json:"text" binding:"max=4000"`
	Final     bool   `json:"final"`
}

// BookingRequest represents the request body for creating a booking.
type BookingRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=200"`
	Email       string `json:"email" binding:"required,email"`
	MeetingTime string `json:"meetingTime"`
}

// SpeechRequest represents the request body for direct speech synthesis.
type SpeechRequest struct {
	Text    string `json:"text" binding:"required,min=1,max=4000"`
	VoiceID string `json:"voiceId"`
}
