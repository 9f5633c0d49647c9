// Package extract provides heuristic extraction of structured fields
// from free-text voice utterances: time phrases, accept/reject
// sentiment against a suggested slot, and dictated email addresses.
//
// The heuristics are a replaceable strategy: the Orchestrator depends
// only on the Extractor interface, so a model-based classifier can be
// swapped in without touching the dialogue state machine.
package extract

import "strings"

// Decision classifies an utterance relative to a suggested slot.
type Decision string

const (
	// DecisionNone means the utterance carried no usable signal.
	DecisionNone Decision = "none"
	// DecisionAccepted means the suggested slot was accepted.
	DecisionAccepted Decision = "accepted"
	// DecisionRejected means the suggested slot was declined.
	DecisionRejected Decision = "rejected"
	// DecisionNewTime means the utterance offered a fresh time instead
	// of answering the suggestion.
	DecisionNewTime Decision = "new_time"
)

// SlotResponse is the result of classifying an utterance against a
// suggested slot. Time is set for DecisionNewTime and for rejections
// that embed an alternative ("no, but 3pm works").
type SlotResponse struct {
	Decision Decision
	Time     string
}

// Extractor converts free-text utterances into structured fields.
// Implementations must be pure: same input, same output, no hidden
// state.
type Extractor interface {
	// ParseTimePhrase recognizes a spoken time phrase and normalizes it
	// to "H:MM AM/PM". Returns false when no pattern matches.
	ParseTimePhrase(text string) (string, bool)

	// ClassifySlotResponse determines whether the utterance accepts or
	// rejects the suggested slot, or offers a competing time.
	ClassifySlotResponse(text, suggestedSlot string) SlotResponse

	// ReconstructEmail converts a dictated email into a normalized
	// address. Returns false when no valid address can be assembled.
	ReconstructEmail(text string) (string, bool)

	// StripNamePrefix removes lead-ins like "my name is" from an
	// utterance that is being treated as the caller's name.
	StripNamePrefix(text string) string
}

// Heuristic is the default regex-and-word-list Extractor.
type Heuristic struct {
	cfg Config
}

// NewHeuristic creates a heuristic extractor. A zero Config gets the
// default word lists.
func NewHeuristic(cfg Config) *Heuristic {
	cfg.applyDefaults()
	return &Heuristic{cfg: cfg}
}

// containsPhrase reports whether phrase occurs in text on word
// boundaries. Both arguments must already be lowercased.
func containsPhrase(text, phrase string) bool {
	padded := " " + stripPunct(text) + " "
	return strings.Contains(padded, " "+phrase+" ")
}

// stripPunct replaces punctuation with spaces so word-boundary
// matching works on utterances like "no, that doesn't work.".
func stripPunct(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		switch r {
		case ',', '.', '!', '?', ';', ':':
			b.WriteRune(' ')
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
