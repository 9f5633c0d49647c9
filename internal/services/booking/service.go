// Package booking persists confirmed meetings and builds the
// scheduling link handed back to the visitor.
package booking

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/voicedesk/agent-service/internal/core/docdb"
	"github.com/voicedesk/agent-service/internal/domain/models"
	"github.com/voicedesk/agent-service/internal/services/calendar"
)

// fallback meeting time when no slot label can be resolved.
const (
	fallbackHour   = 10
	fallbackMinute = 0
)

// SessionScanner looks up live sessions to recover the chosen slot
// when the booking request carries none. Implemented by
// session.Registry.
type SessionScanner interface {
	Range(fn func(sess *models.DialogueSession) bool)
}

// Config holds the configuration for the booking service.
type Config struct {
	Bookings docdb.BookingsCollection
	Sessions SessionScanner
	// CalendlyBaseURL is the scheduling page the visitor is sent to.
	// Required; booking is useless without it.
	CalendlyBaseURL string
	// Clock returns the current time. Defaults to time.Now.
	Clock func() time.Time
}

// Service records bookings and constructs pre-filled Calendly links.
type Service struct {
	bookings docdb.BookingsCollection
	sessions SessionScanner
	baseURL  string
	clock    func() time.Time
}

// NewService creates a new booking service.
func NewService(cfg *Config) (*Service, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if cfg.Bookings == nil {
		return nil, fmt.Errorf("bookings collection is required")
	}
	if strings.TrimSpace(cfg.CalendlyBaseURL) == "" {
		return nil, fmt.Errorf("calendly base URL is required")
	}
	if _, err := url.Parse(cfg.CalendlyBaseURL); err != nil {
		return nil, fmt.Errorf("invalid calendly base URL: %w", err)
	}

	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}

	return &Service{
		bookings: cfg.Bookings,
		sessions: cfg.Sessions,
		baseURL:  strings.TrimRight(cfg.CalendlyBaseURL, "/"),
		clock:    clock,
	}, nil
}

// Book persists a booking for today's date and returns it together
// with the scheduling URL. When meetingTime is empty the live sessions
// are scanned for a matching name and email with a chosen slot. A
// one-shot operation; storage failure propagates.
func (s *Service) Book(ctx context.Context, name, email, meetingTime string) (*models.Booking, string, error) {
	slot := meetingTime
	if slot == "" {
		slot = s.slotFromSessions(name, email)
	}

	meetingAt := s.resolveMeetingTime(slot)
	booking := models.NewBooking(name, email, meetingAt, s.clock())

	if err := s.bookings.Insert(ctx, booking); err != nil {
		return nil, "", fmt.Errorf("failed to store booking: %w", err)
	}

	link := s.schedulingURL(name, email, slot)
	log.Info().
		Str("booking_id", booking.ID).
		Str("email", email).
		Time("meeting_time", meetingAt).
		Msg("Booking recorded")

	return booking, link, nil
}

// slotFromSessions finds the chosen slot label for the given visitor
// among live sessions, or "" when none matches.
func (s *Service) slotFromSessions(name, email string) string {
	if s.sessions == nil {
		return ""
	}
	var slot string
	s.sessions.Range(func(sess *models.DialogueSession) bool {
		c := sess.Collected
		if c.MeetingPreference == "" {
			return true
		}
		if !strings.EqualFold(c.Name, name) || !strings.EqualFold(c.Email, email) {
			return true
		}
		slot = c.MeetingPreference
		return false
	})
	return slot
}

// resolveMeetingTime parses the slot label onto today's date, falling
// back to 10:00 when the label is absent or unparseable.
func (s *Service) resolveMeetingTime(slot string) time.Time {
	now := s.clock()
	hour, minute := fallbackHour, fallbackMinute
	if slot != "" {
		if h, m, ok := calendar.ParseSlotLabel(slot); ok {
			hour, minute = h, m
		} else {
			log.Warn().Str("slot", slot).Msg("Unparseable slot label, using fallback meeting time")
		}
	}
	return time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
}

// schedulingURL builds the Calendly link with visitor details
// pre-filled as query parameters.
func (s *Service) schedulingURL(name, email, slot string) string {
	q := url.Values{}
	q.Set("name", name)
	q.Set("email", email)
	if slot != "" {
		q.Set("a1", slot)
	}
	return s.baseURL + "?" + q.Encode()
}
