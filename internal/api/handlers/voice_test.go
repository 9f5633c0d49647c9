// Package handlers_test provides unit tests for the API handlers.
package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voicedesk/agent-service/internal/api/dto"
	"github.com/voicedesk/agent-service/internal/api/handlers"
	domainerrors "github.com/voicedesk/agent-service/internal/domain/errors"
	"github.com/voicedesk/agent-service/internal/domain/models"
	"github.com/voicedesk/agent-service/internal/services/dialogue"
)

// stubOrchestrator returns a scripted turn result or error.
type stubOrchestrator struct {
	result *dialogue.TurnResult
	err    error
	calls  int
}

func (s *stubOrchestrator) ProcessTurn(ctx context.Context, sessionID, text string, final bool) (*dialogue.TurnResult, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

// stubTrigger records booking trigger invocations.
type stubTrigger struct {
	calls   int
	lastSID string
}

func (s *stubTrigger) TriggerBooking(ctx context.Context, sessionID, name, email string) {
	s.calls++
	s.lastSID = sessionID
}

func performTurn(t *testing.T, handler *handlers.VoiceHandler, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/turn", handler.Turn)

	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/turn", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestTurn_Success(t *testing.T) {
	askFor := "email"
	orch := &stubOrchestrator{result: &dialogue.TurnResult{
		ReplyText: "What's your email?",
		AskFor:    &askFor,
		Collected: models.CollectedData{Name: "Jane Smith"},
		AudioURL:  "https://audio.example.com/1.mp3",
	}}
	handler := handlers.NewVoiceHandler(orch, nil)

	w := performTurn(t, handler, dto.TurnRequest{SessionID: "s1", Text: "My name is Jane Smith", Final: true})

	require.Equal(t, http.StatusOK, w.Code)

	var resp dto.TurnResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "What's your email?", resp.ReplyText)
	require.NotNil(t, resp.AskFor)
	assert.Equal(t, "email", *resp.AskFor)
	assert.Equal(t, "s1", resp.SessionState.SessionID)
	assert.Equal(t, "Jane Smith", resp.SessionState.CollectedData.Name)
	assert.Equal(t, "https://audio.example.com/1.mp3", resp.AudioURL)
}

func TestTurn_MissingSessionID(t *testing.T) {
	orch := &stubOrchestrator{result: &dialogue.TurnResult{ReplyText: "hi"}}
	handler := handlers.NewVoiceHandler(orch, nil)

	w := performTurn(t, handler, map[string]interface{}{"text": "hello", "final": true})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, 0, orch.calls)

	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, domainerrors.ErrCodeValidation, resp.Code)
}

func TestTurn_ConflictMapsTo409(t *testing.T) {
	orch := &stubOrchestrator{err: domainerrors.NewConflictError("a turn is already being processed for this session", "s1")}
	handler := handlers.NewVoiceHandler(orch, nil)

	w := performTurn(t, handler, dto.TurnRequest{SessionID: "s1", Text: "hello", Final: true})

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestTurn_ProvidersDownMapsTo503(t *testing.T) {
	orch := &stubOrchestrator{err: domainerrors.NewServiceUnavailableError("language model", nil)}
	handler := handlers.NewVoiceHandler(orch, nil)

	w := performTurn(t, handler, dto.TurnRequest{SessionID: "s1", Text: "hello", Final: true})

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestTurn_TriggersBookingWhenReady(t *testing.T) {
	orch := &stubOrchestrator{result: &dialogue.TurnResult{
		ReplyText:   "You're booked!",
		ReadyToBook: true,
		Collected: models.CollectedData{
			Name:              "Jane",
			Email:             "jane@yahoo.com",
			MeetingPreference: "2:00 PM",
		},
	}}
	trigger := &stubTrigger{}
	handler := handlers.NewVoiceHandler(orch, trigger)

	w := performTurn(t, handler, dto.TurnRequest{SessionID: "s1", Text: "yes", Final: true})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, trigger.calls)
	assert.Equal(t, "s1", trigger.lastSID)
}

func TestTurn_NoBookingWithoutEmail(t *testing.T) {
	orch := &stubOrchestrator{result: &dialogue.TurnResult{
		ReplyText:   "Almost there",
		ReadyToBook: true,
		Collected:   models.CollectedData{Name: "Jane"},
	}}
	trigger := &stubTrigger{}
	handler := handlers.NewVoiceHandler(orch, trigger)

	performTurn(t, handler, dto.TurnRequest{SessionID: "s1", Text: "yes", Final: true})

	assert.Equal(t, 0, trigger.calls)
}
