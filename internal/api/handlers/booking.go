package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/voicedesk/agent-service/internal/api/dto"
	"github.com/voicedesk/agent-service/internal/api/middleware"
	domainerrors "github.com/voicedesk/agent-service/internal/domain/errors"
	"github.com/voicedesk/agent-service/internal/services/booking"
)

// SessionMarker flags sessions as booked so later turns short-circuit.
// Implemented by session.Registry.
type SessionMarker interface {
	MarkBooked(sessionID string)
}

// BookingHandler handles the booking endpoint and the post-turn
// booking trigger.
type BookingHandler struct {
	service  *booking.Service
	sessions SessionMarker
}

// NewBookingHandler creates a new BookingHandler.
func NewBookingHandler(service *booking.Service, sessions SessionMarker) *BookingHandler {
	return &BookingHandler{
		service:  service,
		sessions: sessions,
	}
}

// Create handles POST /bookings.
func (h *BookingHandler) Create(c *gin.Context) {
	var req dto.BookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleError(c, domainerrors.NewValidationError("invalid booking request", err.Error()))
		return
	}

	_, link, err := h.service.Book(c.Request.Context(), req.Name, req.Email, req.MeetingTime)
	if err != nil {
		middleware.HandleError(c, domainerrors.NewInternalError("failed to create booking", err))
		return
	}

	c.JSON(http.StatusOK, dto.BookingResponse{CalendlyURL: link})
}

// TriggerBooking fires the booking side effect after a turn reported
// readyToBook. Failures are logged and never fail the turn reply.
func (h *BookingHandler) TriggerBooking(ctx context.Context, sessionID, name, email string) {
	bk, _, err := h.service.Book(ctx, name, email, "")
	if err != nil {
		log.Error().Err(err).Str("session_id", sessionID).Msg("Post-turn booking failed")
		return
	}
	if h.sessions != nil {
		h.sessions.MarkBooked(sessionID)
	}
	log.Info().Str("session_id", sessionID).Str("booking_id", bk.ID).Msg("Post-turn booking created")
}
