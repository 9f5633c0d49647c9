package extract

import (
	"strings"
)

// negativeWindow is how many characters around a bare parsed time are
// scanned for negative-sentiment words before the time is trusted.
// Guards against "3pm doesn't work" being read as an acceptance of 3pm.
const negativeWindow = 20

// ClassifySlotResponse decides whether the utterance accepts or rejects
// the suggested slot, or offers a competing time. Precedence: explicit
// rejection (with or without an embedded alternative) beats explicit
// acceptance beats a bare parsed time beats no match.
func (h *Heuristic) ClassifySlotResponse(text, suggestedSlot string) SlotResponse {
	lower := strings.ToLower(strings.TrimSpace(text))
	if lower == "" {
		return SlotResponse{Decision: DecisionNone}
	}

	if h.isRejection(lower) {
		resp := SlotResponse{Decision: DecisionRejected}
		if alt, ok := h.findAlternativeTime(lower); ok {
			resp.Time = alt
		}
		return resp
	}

	for _, phrase := range h.cfg.AffirmativePhrases {
		if containsPhrase(lower, phrase) {
			return SlotResponse{Decision: DecisionAccepted}
		}
	}

	if t, start, ok := findTimePhrase(lower); ok {
		if h.hasNegativeContext(lower, start) {
			return SlotResponse{Decision: DecisionNone}
		}
		return SlotResponse{Decision: DecisionNewTime, Time: t}
	}

	return SlotResponse{Decision: DecisionNone}
}

// isRejection reports whether the utterance declines the suggestion:
// a rejection phrase, a leading "no" token, or a non-negated "busy".
func (h *Heuristic) isRejection(lower string) bool {
	for _, phrase := range h.cfg.RejectionPhrases {
		if containsPhrase(lower, phrase) {
			return true
		}
	}

	tokens := strings.Fields(stripPunct(lower))
	if len(tokens) > 0 && tokens[0] == "no" {
		return true
	}

	for i, tok := range tokens {
		if tok != "busy" {
			continue
		}
		if h.busyIsNegated(tokens, i) {
			continue
		}
		return true
	}
	return false
}

// busyIsNegated scans the tokens immediately before "busy" for a
// negator, covering both "not busy" and "won't be busy".
func (h *Heuristic) busyIsNegated(tokens []string, busyIdx int) bool {
	for back := 1; back <= 2; back++ {
		i := busyIdx - back
		if i < 0 {
			break
		}
		for _, neg := range h.cfg.BusyNegators {
			if tokens[i] == neg {
				return true
			}
		}
	}
	return false
}

// findAlternativeTime looks for a competing time offered inside a
// rejection, introduced by a marker like "but", "maybe" or "instead".
func (h *Heuristic) findAlternativeTime(lower string) (string, bool) {
	for _, marker := range h.cfg.AlternativeMarkers {
		idx := phraseIndex(lower, marker)
		if idx < 0 {
			continue
		}
		rest := lower[idx+len(marker):]
		if t, _, ok := findTimePhrase(rest); ok {
			return t, true
		}
	}
	return "", false
}

// hasNegativeContext reports whether a negative-sentiment word appears
// within the guard window around the matched time phrase.
func (h *Heuristic) hasNegativeContext(lower string, matchStart int) bool {
	start := matchStart - negativeWindow
	if start < 0 {
		start = 0
	}
	end := matchStart + negativeWindow
	if end > len(lower) {
		end = len(lower)
	}
	window := lower[start:end]

	for _, w := range h.cfg.NegativeWindowWords {
		if containsPhrase(window, w) {
			return true
		}
	}
	return false
}

// phraseIndex returns the byte index of phrase in text, matching on
// word boundaries, or -1.
func phraseIndex(text, phrase string) int {
	padded := " " + stripPunct(text) + " "
	idx := strings.Index(padded, " "+phrase+" ")
	if idx < 0 {
		return -1
	}
	return idx // padded adds one leading char, the boundary space compensates
}
