package extract

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// The recognized spoken time forms, in priority order. The first
// pattern that matches wins.
var timePatterns = []struct {
	re       *regexp.Regexp
	meridiem string // "", "AM" or "PM"; "" takes the captured suffix
}{
	{regexp.MustCompile(`(?i)\b(\d{1,2}):(\d{2})\s*(am|pm)\b`), ""},
	{regexp.MustCompile(`(?i)\b(\d{1,2})\s*(am|pm)\b`), ""},
	{regexp.MustCompile(`(?i)\b(\d{1,2})\s*o'?clock\b`), "oclock"},
	{regexp.MustCompile(`(?i)\b(\d{1,2})\s*in the morning\b`), "AM"},
	{regexp.MustCompile(`(?i)\b(\d{1,2})\s*in the afternoon\b`), "PM"},
	{regexp.MustCompile(`(?i)\b(\d{1,2})\s*in the evening\b`), "PM"},
	{regexp.MustCompile(`(?i)\b(\d{1,2})\s*at night\b`), "PM"},
}

// ParseTimePhrase recognizes a spoken time phrase and normalizes it to
// canonical "H:MM AM/PM" form. The minute defaults to 00 unless the
// colon form supplied one. Morning maps to AM; afternoon, evening and
// night map to PM. Hour 12 is left unchanged and no other 12-hour
// wraparound is performed.
func (h *Heuristic) ParseTimePhrase(text string) (string, bool) {
	normalized, _, ok := findTimePhrase(text)
	return normalized, ok
}

// findTimePhrase returns the normalized time plus the byte offset of
// the match, for callers that need the surrounding context.
func findTimePhrase(text string) (string, int, bool) {
	for _, p := range timePatterns {
		loc := p.re.FindStringSubmatchIndex(text)
		if loc == nil {
			continue
		}
		groups := p.re.FindStringSubmatch(text)

		hour, err := strconv.Atoi(groups[1])
		if err != nil || hour < 1 || hour > 12 {
			continue
		}

		minute := 0
		meridiem := p.meridiem
		switch {
		case meridiem == "" && len(groups) == 4:
			// H:MM AM/PM
			minute, _ = strconv.Atoi(groups[2])
			if minute > 59 {
				continue
			}
			meridiem = strings.ToUpper(groups[3])
		case meridiem == "":
			// H AM/PM
			meridiem = strings.ToUpper(groups[2])
		case meridiem == "oclock":
			// Bare o'clock carries no meridiem; hours that fall inside
			// the morning business window resolve to AM, the rest to PM.
			if hour >= 9 && hour <= 11 {
				meridiem = "AM"
			} else {
				meridiem = "PM"
			}
		}

		return fmt.Sprintf("%d:%02d %s", hour, minute, meridiem), loc[0], true
	}
	return "", 0, false
}
