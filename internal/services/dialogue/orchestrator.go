// Package dialogue turns one user utterance into one assistant reply.
// The orchestrator owns the conversation state machine; the language
// model's askFor field is advisory, field extraction from the raw
// utterance is the source of truth.
package dialogue

import (
	"context"
	"math/rand"
	"time"

	"github.com/rs/zerolog/log"

	domainerrors "github.com/voicedesk/agent-service/internal/domain/errors"
	"github.com/voicedesk/agent-service/internal/domain/models"
	"github.com/voicedesk/agent-service/internal/services/extract"
)

// Completer produces a completion for a message history. Implemented
// by llm.Gateway.
type Completer interface {
	Complete(ctx context.Context, messages []models.Message) (text string, provider string, err error)
}

// Speaker renders reply text to an audio reference. Implemented by
// tts.SpeechCache.
type Speaker interface {
	Speak(ctx context.Context, text string) (string, error)
}

// SlotSource lists open meeting slots for a calendar day. Implemented
// by calendar.Service.
type SlotSource interface {
	AvailableSlots(ctx context.Context, date time.Time) []string
}

// SessionStore serializes turns per session. Implemented by
// session.Registry.
type SessionStore interface {
	BeginTurn(sessionID string) (*models.DialogueSession, bool)
	EndTurn(sessionID string)
}

// TurnResult is what one processed turn hands back to the transport.
type TurnResult struct {
	ReplyText   string
	AskFor      *string
	ReadyToBook bool
	Collected   models.CollectedData
	AudioURL    string
	Provider    string
}

// Config holds the configuration for the orchestrator.
type Config struct {
	Sessions  SessionStore
	Gateway   Completer
	Speech    Speaker
	Calendar  SlotSource
	Extractor extract.Extractor
	// Clock returns the current time. Defaults to time.Now.
	Clock func() time.Time
	// Intn picks the random slot suggestion. Defaults to rand.Intn.
	Intn func(n int) int
}

// Orchestrator merges sessions, the language model, extraction, the
// slot calendar and speech synthesis into a single turn pipeline.
type Orchestrator struct {
	sessions  SessionStore
	gateway   Completer
	speech    Speaker
	calendar  SlotSource
	extractor extract.Extractor
	clock     func() time.Time
	intn      func(n int) int
}

// NewOrchestrator creates a new dialogue orchestrator.
func NewOrchestrator(cfg *Config) (*Orchestrator, error) {
	if cfg == nil {
		return nil, domainerrors.NewInternalError("orchestrator config is required", nil)
	}
	if cfg.Sessions == nil {
		return nil, domainerrors.NewInternalError("session store is required", nil)
	}
	if cfg.Gateway == nil {
		return nil, domainerrors.NewInternalError("llm gateway is required", nil)
	}
	if cfg.Extractor == nil {
		return nil, domainerrors.NewInternalError("extractor is required", nil)
	}

	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	intn := cfg.Intn
	if intn == nil {
		intn = rand.Intn
	}

	return &Orchestrator{
		sessions:  cfg.Sessions,
		gateway:   cfg.Gateway,
		speech:    cfg.Speech,
		calendar:  cfg.Calendar,
		extractor: cfg.Extractor,
		clock:     clock,
		intn:      intn,
	}, nil
}

// ProcessTurn runs one full dialogue turn for the session. A second
// turn arriving while one is in flight is rejected with a conflict
// error rather than queued.
func (o *Orchestrator) ProcessTurn(ctx context.Context, sessionID, text string, final bool) (*TurnResult, error) {
	sess, ok := o.sessions.BeginTurn(sessionID)
	if !ok {
		return nil, domainerrors.NewConflictError("a turn is already being processed for this session", sessionID)
	}
	defer o.sessions.EndTurn(sessionID)

	userAppended := false
	if final && text != "" {
		sess.AppendMessage(models.RoleUser, text)
		userAppended = true
	}

	// The utterance answers whatever was suggested on a previous turn,
	// so the pending suggestion is snapshotted before a new one can be
	// injected below.
	pendingSlot := sess.Collected.LastSuggestedSlot

	// The slot-suggestion context is sent to the model for this turn
	// only, never persisted into the history.
	messages := sess.Messages
	if injected := o.slotContext(ctx, sess); injected != "" {
		messages = append(append([]models.Message{}, sess.Messages...),
			models.Message{Role: models.RoleSystem, Content: injected})
	}

	raw, provider, err := o.gateway.Complete(ctx, messages)
	if err != nil {
		// A failed turn must not leave the utterance dangling in the
		// history, nor a suggestion the visitor never heard.
		if userAppended {
			sess.Messages = sess.Messages[:len(sess.Messages)-1]
		}
		sess.Collected.LastSuggestedSlot = pendingSlot
		return nil, domainerrors.NewServiceUnavailableError("language model", err)
	}

	reply, perr := parseAssistantReply(raw)
	if perr != nil {
		// The reply carrying any freshly injected suggestion was
		// discarded, so the suggestion is discarded with it.
		log.Warn().Err(perr).Str("session_id", sessionID).Msg("Unparseable model output, degrading to recovery reply")
		sess.Collected.LastSuggestedSlot = pendingSlot
		sess.LastUpdated = o.clock()
		return &TurnResult{
			ReplyText: FallbackReply,
			Collected: sess.Collected,
			Provider:  provider,
			AudioURL:  o.speak(ctx, FallbackReply),
		}, nil
	}

	o.extractFields(sess, reply, text, pendingSlot)

	sess.AppendMessage(models.RoleAssistant, raw)
	sess.LastUpdated = o.clock()

	return &TurnResult{
		ReplyText:   reply.ReplyText,
		AskFor:      reply.AskFor,
		ReadyToBook: reply.ReadyToBook,
		Collected:   sess.Collected,
		Provider:    provider,
		AudioURL:    o.speak(ctx, reply.ReplyText),
	}, nil
}

// slotContext builds the transient steering message when the dialogue
// has a name but no meeting time yet. Three branches: calendar empty,
// repeated rejections, or a single random suggestion. While a
// suggestion is still awaiting an answer no new one is injected.
func (o *Orchestrator) slotContext(ctx context.Context, sess *models.DialogueSession) string {
	c := &sess.Collected
	if c.Name == "" || c.MeetingPreference != "" || c.UserPreferredTime != "" || c.LastSuggestedSlot != "" {
		return ""
	}
	if o.calendar == nil {
		return ""
	}

	open := o.calendar.AvailableSlots(ctx, o.clock())
	remaining := make([]string, 0, len(open))
	for _, slot := range open {
		if !c.HasRejected(slot) {
			remaining = append(remaining, slot)
		}
	}

	switch {
	case len(remaining) == 0:
		return freeFormTimeContext
	case len(c.RejectedSlots) >= 2:
		return listSlotsContext(remaining)
	default:
		slot := remaining[o.intn(len(remaining))]
		c.LastSuggestedSlot = slot
		return suggestSlotContext(slot)
	}
}

// extractFields updates collected data from the raw utterance. Routing
// keys off which fields are already populated, with the model's askFor
// as a secondary signal. pendingSlot is the suggestion that was on the
// table when the utterance arrived.
func (o *Orchestrator) extractFields(sess *models.DialogueSession, reply *assistantReply, text string, pendingSlot string) {
	c := &sess.Collected

	switch {
	case c.Name == "":
		// The model only moves past the name question once it has heard
		// one, so an askFor beyond "name" means this utterance was it.
		if text != "" && reply.AskFor != nil && !reply.askingFor(AskForName) {
			c.Name = o.extractor.StripNamePrefix(text)
		}

	case c.MeetingPreference == "" && pendingSlot != "":
		resp := o.extractor.ClassifySlotResponse(text, pendingSlot)
		switch resp.Decision {
		case extract.DecisionAccepted:
			c.MeetingPreference = pendingSlot
			c.LastSuggestedSlot = ""
		case extract.DecisionRejected:
			c.RejectSuggestedSlot()
			if resp.Time != "" {
				c.MeetingPreference = resp.Time
			}
		case extract.DecisionNewTime:
			c.MeetingPreference = resp.Time
			c.LastSuggestedSlot = ""
		}

	case c.MeetingPreference == "" && (reply.askingFor(AskForPreferredTime) || reply.askingFor(AskForConfirmation) || reply.askingFor(AskForMeetingPreference)):
		if t, ok := o.extractor.ParseTimePhrase(text); ok {
			c.UserPreferredTime = t
			c.MeetingPreference = t
		}

	case c.Email == "" && (reply.askingFor(AskForConfirmation) || reply.AskFor == nil || reply.askingFor(AskForEmail)):
		if email, ok := o.extractor.ReconstructEmail(text); ok {
			c.Email = email
		}
	}

	// The model moving to confirmation with a suggestion still pending
	// is an implicit acceptance of that suggestion.
	if reply.askingFor(AskForConfirmation) && c.MeetingPreference == "" && c.LastSuggestedSlot != "" {
		c.MeetingPreference = c.LastSuggestedSlot
		c.LastSuggestedSlot = ""
	}
}

// speak renders reply audio through the speech cache. Failures degrade
// the turn to text only.
func (o *Orchestrator) speak(ctx context.Context, text string) string {
	if o.speech == nil {
		return ""
	}
	url, err := o.speech.Speak(ctx, text)
	if err != nil {
		log.Warn().Err(err).Msg("Speech synthesis failed, returning text-only reply")
		return ""
	}
	return url
}
