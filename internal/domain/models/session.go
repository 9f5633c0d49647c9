// Package models contains domain models for the VoiceDesk Agent Service.
package models

import "time"

// Role identifies the author of a conversation message.
type Role string

const (
	// RoleSystem marks instruction messages injected by the service.
	RoleSystem Role = "system"
	// RoleUser marks messages spoken or typed by the visitor.
	RoleUser Role = "user"
	// RoleAssistant marks replies produced by the language model.
	RoleAssistant Role = "assistant"
)

// Message is one role-tagged turn in the conversation context sent to
// the language model.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// CollectedData holds the structured fields the dialogue is trying to
// fill before a booking can be made.
type CollectedData struct {
	Name              string   `json:"name,omitempty"`
	Email             string   `json:"email,omitempty"`
	MeetingPreference string   `json:"meetingPreference,omitempty"`
	UserPreferredTime string   `json:"userPreferredTime,omitempty"`
	RejectedSlots     []string `json:"rejectedSlots,omitempty"`
	LastSuggestedSlot string   `json:"lastSuggestedSlot,omitempty"`
}

// HasRejected reports whether the given slot has already been declined.
func (c *CollectedData) HasRejected(slot string) bool {
	for _, s := range c.RejectedSlots {
		if s == slot {
			return true
		}
	}
	return false
}

// RejectSuggestedSlot moves the pending suggestion into the rejected
// set and clears it. No-op when nothing is pending.
func (c *CollectedData) RejectSuggestedSlot() {
	if c.LastSuggestedSlot == "" {
		return
	}
	if !c.HasRejected(c.LastSuggestedSlot) {
		c.RejectedSlots = append(c.RejectedSlots, c.LastSuggestedSlot)
	}
	c.LastSuggestedSlot = ""
}

// DialogueState is the explicit conversation state, derived from which
// collected fields are populated.
type DialogueState string

const (
	StateAwaitingName       DialogueState = "awaiting_name"
	StateAwaitingSlotChoice DialogueState = "awaiting_slot_choice"
	StateAwaitingEmail      DialogueState = "awaiting_email"
	StateAwaitingConfirm    DialogueState = "awaiting_confirmation"
	StateBooked             DialogueState = "booked"
)

// DialogueSession is one ongoing conversation, keyed by a
// caller-supplied opaque session ID. Sessions live in process memory
// only and are reaped by inactivity, never persisted.
type DialogueSession struct {
	SessionID   string        `json:"sessionId"`
	Messages    []Message     `json:"messages"`
	Collected   CollectedData `json:"collectedData"`
	Booked      bool          `json:"booked"`
	CreatedAt   time.Time     `json:"createdAt"`
	LastUpdated time.Time     `json:"lastUpdated"`
}

// NewDialogueSession creates a session seeded with the system prompt.
func NewDialogueSession(sessionID, systemPrompt string, now time.Time) *DialogueSession {
	return &DialogueSession{
		SessionID:   sessionID,
		Messages:    []Message{{Role: RoleSystem, Content: systemPrompt}},
		CreatedAt:   now,
		LastUpdated: now,
	}
}

// AppendMessage appends a turn to the conversation history.
func (s *DialogueSession) AppendMessage(role Role, content string) {
	s.Messages = append(s.Messages, Message{Role: role, Content: content})
}

// State derives the explicit dialogue state from the collected fields.
// Collection order is name, then meeting slot, then email.
func (s *DialogueSession) State() DialogueState {
	switch {
	case s.Booked:
		return StateBooked
	case s.Collected.Name == "":
		return StateAwaitingName
	case s.Collected.MeetingPreference == "":
		return StateAwaitingSlotChoice
	case s.Collected.Email == "":
		return StateAwaitingEmail
	default:
		return StateAwaitingConfirm
	}
}
