// Package extract_test provides unit tests for the heuristic extractor.
package extract_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/voicedesk/agent-service/internal/services/extract"
)

func newExtractor() *extract.Heuristic {
	return extract.NewHeuristic(extract.Config{})
}

func TestParseTimePhrase_ColonForm(t *testing.T) {
	h := newExtractor()

	result, ok := h.ParseTimePhrase("let's say 3:00 PM")

	assert.True(t, ok)
	assert.Equal(t, "3:00 PM", result)
}

func TestParseTimePhrase_CompactForm(t *testing.T) {
	h := newExtractor()

	result, ok := h.ParseTimePhrase("3PM")

	assert.True(t, ok)
	assert.Equal(t, "3:00 PM", result)
}

func TestParseTimePhrase_Morning(t *testing.T) {
	h := newExtractor()

	result, ok := h.ParseTimePhrase("9 in the morning")

	assert.True(t, ok)
	assert.Equal(t, "9:00 AM", result)
}

func TestParseTimePhrase_Evening(t *testing.T) {
	h := newExtractor()

	result, ok := h.ParseTimePhrase("6 in the evening")

	assert.True(t, ok)
	assert.Equal(t, "6:00 PM", result)
}

func TestParseTimePhrase_OClockMorningWindow(t *testing.T) {
	h := newExtractor()

	result, ok := h.ParseTimePhrase("how about 10 o'clock")

	assert.True(t, ok)
	assert.Equal(t, "10:00 AM", result)
}

func TestParseTimePhrase_OClockOutsideMorningWindow(t *testing.T) {
	h := newExtractor()

	result, ok := h.ParseTimePhrase("7 o'clock would be great")

	assert.True(t, ok)
	assert.Equal(t, "7:00 PM", result)
}

func TestParseTimePhrase_ColonFormWinsOverCompact(t *testing.T) {
	h := newExtractor()

	result, ok := h.ParseTimePhrase("4:30 pm")

	assert.True(t, ok)
	assert.Equal(t, "4:30 PM", result)
}

func TestParseTimePhrase_NoMatch(t *testing.T) {
	h := newExtractor()

	result, ok := h.ParseTimePhrase("I love long walks on the beach")

	assert.False(t, ok)
	assert.Empty(t, result)
}

func TestParseTimePhrase_Idempotent(t *testing.T) {
	h := newExtractor()

	first, ok1 := h.ParseTimePhrase("maybe 11am")
	second, ok2 := h.ParseTimePhrase("maybe 11am")

	assert.True(t, ok1)
	assert.True(t, ok2)
	assert.Equal(t, first, second)
}

func TestClassifySlotResponse_PlainRejection(t *testing.T) {
	h := newExtractor()

	resp := h.ClassifySlotResponse("no that doesn't work", "2:00 PM")

	assert.Equal(t, extract.DecisionRejected, resp.Decision)
	assert.Empty(t, resp.Time)
}

func TestClassifySlotResponse_RejectionWithAlternative(t *testing.T) {
	h := newExtractor()

	resp := h.ClassifySlotResponse("no, but 3pm works", "2:00 PM")

	assert.Equal(t, extract.DecisionRejected, resp.Decision)
	assert.Equal(t, "3:00 PM", resp.Time)
}

func TestClassifySlotResponse_NegatedBusyIsNotRejection(t *testing.T) {
	h := newExtractor()

	resp := h.ClassifySlotResponse("I won't be busy then", "2:00 PM")

	assert.NotEqual(t, extract.DecisionRejected, resp.Decision)
}

func TestClassifySlotResponse_BareBusyIsRejection(t *testing.T) {
	h := newExtractor()

	resp := h.ClassifySlotResponse("I'm busy at that time", "2:00 PM")

	assert.Equal(t, extract.DecisionRejected, resp.Decision)
}

func TestClassifySlotResponse_Acceptance(t *testing.T) {
	h := newExtractor()

	resp := h.ClassifySlotResponse("yes, sounds good", "2:00 PM")

	assert.Equal(t, extract.DecisionAccepted, resp.Decision)
}

func TestClassifySlotResponse_NewTime(t *testing.T) {
	h := newExtractor()

	resp := h.ClassifySlotResponse("4:30 pm would suit me better", "2:00 PM")

	assert.Equal(t, extract.DecisionNewTime, resp.Decision)
	assert.Equal(t, "4:30 PM", resp.Time)
}

func TestClassifySlotResponse_TimeWithNegativeContextDiscarded(t *testing.T) {
	h := newExtractor()

	// "bad" sits inside the guard window around the parsed time, so the
	// time must not be read as a fresh offer.
	resp := h.ClassifySlotResponse("3pm is bad for me", "2:00 PM")

	assert.Equal(t, extract.DecisionNone, resp.Decision)
	assert.Empty(t, resp.Time)
}

func TestClassifySlotResponse_EmptyUtterance(t *testing.T) {
	h := newExtractor()

	resp := h.ClassifySlotResponse("   ", "2:00 PM")

	assert.Equal(t, extract.DecisionNone, resp.Decision)
}

func TestClassifySlotResponse_Idempotent(t *testing.T) {
	h := newExtractor()

	first := h.ClassifySlotResponse("no, but 3pm works", "2:00 PM")
	second := h.ClassifySlotResponse("no, but 3pm works", "2:00 PM")

	assert.Equal(t, first, second)
}

func TestReconstructEmail_SpokenDelimiters(t *testing.T) {
	h := newExtractor()

	result, ok := h.ReconstructEmail("john dot doe at gmail dot com")

	assert.True(t, ok)
	assert.Equal(t, "john.doe@gmail.com", result)
}

func TestReconstructEmail_AtTheRateWithBareProvider(t *testing.T) {
	h := newExtractor()

	result, ok := h.ReconstructEmail("jane at the rate yahoo")

	assert.True(t, ok)
	assert.Equal(t, "jane@yahoo.com", result)
}

func TestReconstructEmail_AlreadyValidPassesThroughLowercased(t *testing.T) {
	h := newExtractor()

	result, ok := h.ReconstructEmail("My email is John.Doe@Gmail.COM")

	assert.True(t, ok)
	assert.Equal(t, "john.doe@gmail.com", result)
}

func TestReconstructEmail_PreambleStripped(t *testing.T) {
	h := newExtractor()

	result, ok := h.ReconstructEmail("my email is bob underscore smith at outlook")

	assert.True(t, ok)
	assert.Equal(t, "bob_smith@outlook.com", result)
}

func TestReconstructEmail_NoMatch(t *testing.T) {
	h := newExtractor()

	result, ok := h.ReconstructEmail("just some words")

	assert.False(t, ok)
	assert.Empty(t, result)
}

func TestReconstructEmail_MultipleAtsRejected(t *testing.T) {
	h := newExtractor()

	_, ok := h.ReconstructEmail("john at gmail at yahoo")

	assert.False(t, ok)
}

func TestStripNamePrefix(t *testing.T) {
	h := newExtractor()

	assert.Equal(t, "Jane Smith", h.StripNamePrefix("My name is Jane Smith"))
	assert.Equal(t, "Bob", h.StripNamePrefix("I'm Bob"))
	assert.Equal(t, "Alice Jones", h.StripNamePrefix("Alice Jones"))
}
