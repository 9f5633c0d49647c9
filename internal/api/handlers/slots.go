package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/voicedesk/agent-service/internal/api/dto"
	"github.com/voicedesk/agent-service/internal/api/middleware"
	domainerrors "github.com/voicedesk/agent-service/internal/domain/errors"
	"github.com/voicedesk/agent-service/internal/services/calendar"
)

// SlotsHandler exposes the open calendar slots to the scheduling
// widget.
type SlotsHandler struct {
	calendar *calendar.Service
	clock    func() time.Time
}

// NewSlotsHandler creates a new SlotsHandler.
func NewSlotsHandler(cal *calendar.Service, clock func() time.Time) *SlotsHandler {
	if clock == nil {
		clock = time.Now
	}
	return &SlotsHandler{
		calendar: cal,
		clock:    clock,
	}
}

// List handles GET /slots. The date query parameter is YYYY-MM-DD and
// defaults to today.
func (h *SlotsHandler) List(c *gin.Context) {
	date := h.clock()
	if raw := c.Query("date"); raw != "" {
		parsed, err := time.ParseInLocation("2006-01-02", raw, date.Location())
		if err != nil {
			middleware.HandleError(c, domainerrors.NewValidationError("invalid date, expected YYYY-MM-DD", raw))
			return
		}
		date = parsed
	}

	c.JSON(http.StatusOK, dto.SlotsResponse{
		Date:  date.Format("2006-01-02"),
		Slots: h.calendar.AvailableSlots(c.Request.Context(), date),
	})
}
