// Package tts provides speech synthesis with a memoizing cache for
// canned phrases.
package tts

import "context"

// Provider is the text-to-speech backend.
type Provider interface {
	// Synthesize converts text to speech and returns a playable audio
	// reference.
	Synthesize(ctx context.Context, text, voiceID string) (string, error)
}

// DefaultCatalog returns the canned phrases pre-synthesized at process
// start: greetings, email instruction, confirmations and generic
// recovery lines. Callers may append further phrases before prewarming.
func DefaultCatalog() []string {
	return []string{
		"Hi there! I'm the VoiceDesk assistant. May I have your name?",
		"Great, thanks! Let's find a time that works for you.",
		"Could you tell me your email address? You can spell it out, like john dot smith at gmail dot com.",
		"Perfect, you're all set! You'll receive a calendar invite shortly.",
		"Your meeting is booked. Looking forward to speaking with you!",
		"Sorry, I didn't catch that. Could you say it again?",
		"No problem, let's try a different time.",
		"Thanks! One moment while I check the calendar.",
	}
}
