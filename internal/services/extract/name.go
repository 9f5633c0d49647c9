package extract

import "strings"

// StripNamePrefix removes lead-ins like "my name is" or "I'm" from an
// utterance being treated as the caller's name. Casing of the name
// itself is preserved.
func (h *Heuristic) StripNamePrefix(text string) string {
	trimmed := strings.TrimSpace(text)
	lower := strings.ToLower(trimmed)

	for _, prefix := range h.cfg.NamePrefixes {
		if strings.HasPrefix(lower, prefix+" ") {
			trimmed = strings.TrimSpace(trimmed[len(prefix):])
			break
		}
	}

	return strings.TrimRight(trimmed, ".,!?")
}
