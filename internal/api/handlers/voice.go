package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/voicedesk/agent-service/internal/api/dto"
	"github.com/voicedesk/agent-service/internal/api/middleware"
	domainerrors "github.com/voicedesk/agent-service/internal/domain/errors"
	"github.com/voicedesk/agent-service/internal/services/dialogue"
)

// TurnProcessor runs one dialogue turn. Implemented by
// dialogue.Orchestrator.
type TurnProcessor interface {
	ProcessTurn(ctx context.Context, sessionID, text string, final bool) (*dialogue.TurnResult, error)
}

// VoiceHandler handles the agent turn endpoint shared by the HTTP and
// WebSocket transports.
type VoiceHandler struct {
	orchestrator TurnProcessor
	booking      BookingTrigger
}

// BookingTrigger fires the booking side effect once a turn reports
// readyToBook with a complete name and email.
type BookingTrigger interface {
	TriggerBooking(ctx context.Context, sessionID, name, email string)
}

// NewVoiceHandler creates a new VoiceHandler.
func NewVoiceHandler(orchestrator TurnProcessor, booking BookingTrigger) *VoiceHandler {
	return &VoiceHandler{
		orchestrator: orchestrator,
		booking:      booking,
	}
}

// ProcessTurn runs a turn and triggers booking when the dialogue is
// complete. Shared by the HTTP handler and the WebSocket handler.
func (h *VoiceHandler) ProcessTurn(ctx context.Context, req *dto.TurnRequest) (*dto.TurnResponse, error) {
	result, err := h.orchestrator.ProcessTurn(ctx, req.SessionID, req.Text, req.Final)
	if err != nil {
		return nil, err
	}

	if result.ReadyToBook && result.Collected.Name != "" && result.Collected.Email != "" && h.booking != nil {
		// Booking failure never fails the reply that announced it.
		h.booking.TriggerBooking(ctx, req.SessionID, result.Collected.Name, result.Collected.Email)
	}

	return &dto.TurnResponse{
		ReplyText:   result.ReplyText,
		AskFor:      result.AskFor,
		ReadyToBook: result.ReadyToBook,
		SessionState: dto.SessionState{
			SessionID:     req.SessionID,
			CollectedData: result.Collected,
		},
		AudioURL: result.AudioURL,
	}, nil
}

// Turn handles POST /agent/turn.
func (h *VoiceHandler) Turn(c *gin.Context) {
	var req dto.TurnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleError(c, domainerrors.NewValidationError("invalid turn request", err.Error()))
		return
	}

	resp, err := h.ProcessTurn(c.Request.Context(), &req)
	if err != nil {
		log.Warn().Err(err).Str("session_id", req.SessionID).Msg("Turn failed")
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
