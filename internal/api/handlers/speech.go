package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/voicedesk/agent-service/internal/api/dto"
	"github.com/voicedesk/agent-service/internal/api/middleware"
	domainerrors "github.com/voicedesk/agent-service/internal/domain/errors"
	"github.com/voicedesk/agent-service/internal/services/tts"
)

// SpeechHandler handles direct, non-cached speech synthesis.
type SpeechHandler struct {
	provider       tts.Provider
	defaultVoiceID string
}

// NewSpeechHandler creates a new SpeechHandler.
func NewSpeechHandler(provider tts.Provider, defaultVoiceID string) *SpeechHandler {
	return &SpeechHandler{
		provider:       provider,
		defaultVoiceID: defaultVoiceID,
	}
}

// Synthesize handles POST /speech.
func (h *SpeechHandler) Synthesize(c *gin.Context) {
	var req dto.SpeechRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleError(c, domainerrors.NewValidationError("invalid speech request", err.Error()))
		return
	}

	voiceID := req.VoiceID
	if voiceID == "" {
		voiceID = h.defaultVoiceID
	}

	audioURL, err := h.provider.Synthesize(c.Request.Context(), req.Text, voiceID)
	if err != nil {
		middleware.HandleError(c, domainerrors.NewServiceUnavailableError("speech synthesis", err))
		return
	}

	c.JSON(http.StatusOK, dto.SpeechResponse{AudioURL: audioURL})
}
