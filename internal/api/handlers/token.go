package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/voicedesk/agent-service/internal/api/dto"
	"github.com/voicedesk/agent-service/internal/api/middleware"
	domainerrors "github.com/voicedesk/agent-service/internal/domain/errors"
	"github.com/voicedesk/agent-service/internal/services/stt/deepgram"
)

// TokenHandler hands out ephemeral speech-to-text credentials to the
// browser widget.
type TokenHandler struct {
	client *deepgram.Client
	ttl    int
}

// NewTokenHandler creates a new TokenHandler. ttlSeconds is the
// requested token lifetime; the provider enforces its own ceiling.
func NewTokenHandler(client *deepgram.Client, ttlSeconds int) *TokenHandler {
	return &TokenHandler{
		client: client,
		ttl:    ttlSeconds,
	}
}

// Create handles POST /stt/token.
func (h *TokenHandler) Create(c *gin.Context) {
	token, err := h.client.CreateEphemeralToken(c.Request.Context(), time.Duration(h.ttl)*time.Second)
	if err != nil {
		middleware.HandleError(c, domainerrors.NewServiceUnavailableError("speech-to-text token service", err))
		return
	}

	c.JSON(http.StatusOK, dto.TokenResponse{
		Token:     token.Key,
		ExpiresIn: int(token.ExpiresIn.Seconds()),
	})
}
