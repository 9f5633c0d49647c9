package extract

import (
	"regexp"
	"strings"
)

var (
	// emailRe is the RFC-5322-lite shape every reconstructed address
	// must satisfy: non-empty local part, dotted domain, TLD of at
	// least two characters.
	emailRe = regexp.MustCompile(`^[a-z0-9._%+-]+@[a-z0-9-]+(\.[a-z0-9-]+)*\.[a-z]{2,}$`)

	// embeddedEmailRe finds an already-typed address inside a longer
	// utterance.
	embeddedEmailRe = regexp.MustCompile(`(?i)[a-zA-Z0-9._%+-]+@[a-zA-Z0-9-]+(\.[a-zA-Z0-9-]+)*\.[a-zA-Z]{2,}`)

	// localPartJunkRe removes everything a local part may not contain.
	localPartJunkRe = regexp.MustCompile(`[^a-z0-9._-]`)
)

// ReconstructEmail converts a dictated email ("john dot doe at gmail
// dot com") into a normalized address. Returns false when no valid
// address can be assembled.
func (h *Heuristic) ReconstructEmail(text string) (string, bool) {
	// Already a syntactically valid email: short-circuit.
	if m := embeddedEmailRe.FindString(text); m != "" {
		return strings.ToLower(m), true
	}

	lower := strings.ToLower(strings.TrimSpace(text))
	lower = h.stripEmailPreamble(lower)

	translated, ok := translateSpokenDelimiters(lower)
	if !ok {
		return "", false
	}

	at := strings.Index(translated, "@")
	local := h.assembleLocalPart(translated[:at])
	domain := h.assembleDomain(translated[at+1:])
	if local == "" || domain == "" {
		return "", false
	}

	address := local + "@" + domain
	if !emailRe.MatchString(address) {
		return "", false
	}
	return address, true
}

// stripEmailPreamble removes filler lead-ins like "my email is".
func (h *Heuristic) stripEmailPreamble(lower string) string {
	for _, pre := range h.cfg.EmailFillerPreambles {
		if strings.HasPrefix(lower, pre+" ") {
			return strings.TrimSpace(strings.TrimPrefix(lower, pre))
		}
	}
	return lower
}

// translateSpokenDelimiters rewrites spoken separators to symbols:
// "at the rate"/"at" become "@", "dot"/"period" become ".",
// "underscore" becomes "_", "dash"/"hyphen" become "-". The result
// must contain exactly one "@" to be usable.
func translateSpokenDelimiters(lower string) (string, bool) {
	tokens := strings.Fields(lower)
	out := make([]string, 0, len(tokens))

	for i := 0; i < len(tokens); i++ {
		// "at the rate" is a single spoken separator.
		if tokens[i] == "at" && i+2 < len(tokens) && tokens[i+1] == "the" && tokens[i+2] == "rate" {
			out = append(out, "@")
			i += 2
			continue
		}
		switch tokens[i] {
		case "at":
			out = append(out, "@")
		case "dot", "period":
			out = append(out, ".")
		case "underscore":
			out = append(out, "_")
		case "dash", "hyphen":
			out = append(out, "-")
		default:
			out = append(out, tokens[i])
		}
	}

	joined := strings.Join(out, " ")
	if strings.Count(joined, "@") != 1 {
		return "", false
	}
	return joined, true
}

// assembleLocalPart drops filler words, collapses whitespace and keeps
// only the characters a local part may contain.
func (h *Heuristic) assembleLocalPart(raw string) string {
	tokens := strings.Fields(raw)
	kept := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if h.isFillerWord(tok) {
			continue
		}
		kept = append(kept, tok)
	}
	joined := strings.Join(kept, "")
	return localPartJunkRe.ReplaceAllString(joined, "")
}

func (h *Heuristic) isFillerWord(tok string) bool {
	for _, f := range h.cfg.EmailFillerWords {
		if tok == f {
			return true
		}
	}
	return false
}

// assembleDomain strips whitespace and expands known provider aliases
// to their canonical domain, including appending ".com" when a
// recognized provider name arrives without a top-level domain.
func (h *Heuristic) assembleDomain(raw string) string {
	spaced := strings.Join(strings.Fields(raw), " ")
	if canonical, ok := h.cfg.ProviderAliases[spaced]; ok {
		return canonical
	}

	stripped := strings.ReplaceAll(spaced, " ", "")
	if canonical, ok := h.cfg.ProviderAliases[stripped]; ok {
		return canonical
	}

	// "gmail.com" spoken with a trailing TLD already attached.
	if idx := strings.Index(stripped, "."); idx > 0 {
		if canonical, ok := h.cfg.ProviderAliases[stripped[:idx]]; ok {
			// Keep the caller's TLD only when it matches the canonical
			// one; alias tables only ever map to ".com" providers.
			if stripped == canonical {
				return canonical
			}
		}
	}
	return stripped
}
