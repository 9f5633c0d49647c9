// Package calendar computes available half-hour meeting slots.
package calendar

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/voicedesk/agent-service/internal/core/docdb"
)

const (
	// Business hours: slots run from 09:00 up to but excluding 18:00.
	openingHour = 9
	closingHour = 18
	slotMinutes = 30
)

// Service computes the open half-hour slots for a calendar day.
type Service struct {
	bookings docdb.BookingsCollection
}

// NewService creates a new slot calendar service.
func NewService(bookings docdb.BookingsCollection) (*Service, error) {
	if bookings == nil {
		return nil, fmt.Errorf("bookings collection is required")
	}
	return &Service{bookings: bookings}, nil
}

// AvailableSlots returns the ordered human-readable labels of every
// half-hour slot between 09:00 and 18:00 on the given date that has no
// existing booking at that exact minute. When the booking lookup fails
// the day is treated as fully open rather than failing the caller.
func (s *Service) AvailableSlots(ctx context.Context, date time.Time) []string {
	booked := make(map[string]bool)

	existing, err := s.bookings.ListByDay(ctx, date)
	if err != nil {
		log.Warn().Err(err).Time("date", date).Msg("booking lookup failed, treating day as open")
	} else {
		for _, b := range existing {
			local := b.MeetingTime.In(date.Location())
			booked[minuteKey(local.Hour(), local.Minute())] = true
		}
	}

	var slots []string
	for hour := openingHour; hour < closingHour; hour++ {
		for minute := 0; minute < 60; minute += slotMinutes {
			if booked[minuteKey(hour, minute)] {
				continue
			}
			slots = append(slots, SlotLabel(hour, minute))
		}
	}
	return slots
}

func minuteKey(hour, minute int) string {
	return fmt.Sprintf("%02d:%02d", hour, minute)
}

// SlotLabel formats a 24-hour time as the human-readable 12-hour label
// used throughout the dialogue, e.g. "9:00 AM" or "5:30 PM".
func SlotLabel(hour, minute int) string {
	meridiem := "AM"
	display := hour
	switch {
	case hour == 0:
		display = 12
	case hour == 12:
		meridiem = "PM"
	case hour > 12:
		display = hour - 12
		meridiem = "PM"
	}
	return fmt.Sprintf("%d:%02d %s", display, minute, meridiem)
}

var slotLabelRe = regexp.MustCompile(`(?i)^\s*(\d{1,2}):(\d{2})\s*(AM|PM)\s*$`)

// ParseSlotLabel converts a slot label back into 24-hour clock values.
// Returns false when the label does not look like "H:MM AM/PM".
func ParseSlotLabel(label string) (hour, minute int, ok bool) {
	m := slotLabelRe.FindStringSubmatch(label)
	if m == nil {
		return 0, 0, false
	}

	h, _ := strconv.Atoi(m[1])
	minute, _ = strconv.Atoi(m[2])
	if h < 1 || h > 12 || minute > 59 {
		return 0, 0, false
	}

	pm := strings.EqualFold(m[3], "PM")
	switch {
	case pm && h != 12:
		hour = h + 12
	case !pm && h == 12:
		hour = 0
	default:
		hour = h
	}
	return hour, minute, true
}
