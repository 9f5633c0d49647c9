// Package booking_test provides unit tests for the booking service.
package booking_test

import (
	"context"
	"errors"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voicedesk/agent-service/internal/domain/models"
	"github.com/voicedesk/agent-service/internal/services/booking"
)

type stubBookings struct {
	inserted  []*models.Booking
	insertErr error
}

func (s *stubBookings) Insert(ctx context.Context, b *models.Booking) error {
	if s.insertErr != nil {
		return s.insertErr
	}
	s.inserted = append(s.inserted, b)
	return nil
}

func (s *stubBookings) Get(ctx context.Context, id string) (*models.Booking, error) {
	return nil, errors.New("not found")
}

func (s *stubBookings) ListByDay(ctx context.Context, day time.Time) ([]*models.Booking, error) {
	return nil, nil
}

func (s *stubBookings) EnsureIndexes(ctx context.Context) error { return nil }

// stubSessions serves a fixed session list to Range.
type stubSessions struct {
	sessions []*models.DialogueSession
}

func (s *stubSessions) Range(fn func(sess *models.DialogueSession) bool) {
	for _, sess := range s.sessions {
		if !fn(sess) {
			return
		}
	}
}

var testClock = func() time.Time {
	return time.Date(2026, 3, 2, 8, 0, 0, 0, time.Local)
}

func newService(t *testing.T, store *stubBookings, sessions *stubSessions) *booking.Service {
	t.Helper()

	svc, err := booking.NewService(&booking.Config{
		Bookings:        store,
		Sessions:        sessions,
		CalendlyBaseURL: "https://calendly.com/voicedesk/demo",
		Clock:           testClock,
	})
	require.NoError(t, err)
	return svc
}

func TestNewService_RequiresCalendlyBaseURL(t *testing.T) {
	_, err := booking.NewService(&booking.Config{
		Bookings:        &stubBookings{},
		CalendlyBaseURL: "",
	})

	assert.Error(t, err)
}

func TestBook_WithExplicitTime(t *testing.T) {
	store := &stubBookings{}
	svc := newService(t, store, nil)

	bk, link, err := svc.Book(context.Background(), "Jane Smith", "jane@yahoo.com", "2:30 PM")

	require.NoError(t, err)
	require.Len(t, store.inserted, 1)
	assert.NotEmpty(t, bk.ID)
	assert.Equal(t, 14, bk.MeetingTime.Hour())
	assert.Equal(t, 30, bk.MeetingTime.Minute())

	// Booked on today's date, server-local.
	y, m, d := bk.MeetingTime.Date()
	wy, wm, wd := testClock().Date()
	assert.Equal(t, [3]int{wy, int(wm), wd}, [3]int{y, int(m), d})

	parsed, perr := url.Parse(link)
	require.NoError(t, perr)
	q := parsed.Query()
	assert.Equal(t, "Jane Smith", q.Get("name"))
	assert.Equal(t, "jane@yahoo.com", q.Get("email"))
	assert.Equal(t, "2:30 PM", q.Get("a1"))
}

func TestBook_ResolvesTimeFromSessions(t *testing.T) {
	store := &stubBookings{}
	sess := models.NewDialogueSession("s1", "prompt", testClock())
	sess.Collected.Name = "Jane Smith"
	sess.Collected.Email = "jane@yahoo.com"
	sess.Collected.MeetingPreference = "4:00 PM"
	svc := newService(t, store, &stubSessions{sessions: []*models.DialogueSession{sess}})

	bk, link, err := svc.Book(context.Background(), "jane smith", "JANE@yahoo.com", "")

	require.NoError(t, err)
	assert.Equal(t, 16, bk.MeetingTime.Hour())
	assert.Contains(t, link, "a1=4%3A00+PM")
}

func TestBook_FallbackTimeWhenUnresolvable(t *testing.T) {
	store := &stubBookings{}
	svc := newService(t, store, &stubSessions{})

	bk, _, err := svc.Book(context.Background(), "Jane", "jane@yahoo.com", "")

	require.NoError(t, err)
	assert.Equal(t, 10, bk.MeetingTime.Hour())
	assert.Equal(t, 0, bk.MeetingTime.Minute())
}

func TestBook_FallbackTimeWhenLabelUnparseable(t *testing.T) {
	store := &stubBookings{}
	svc := newService(t, store, nil)

	bk, _, err := svc.Book(context.Background(), "Jane", "jane@yahoo.com", "half past nine")

	require.NoError(t, err)
	assert.Equal(t, 10, bk.MeetingTime.Hour())
}

func TestBook_StorageFailurePropagates(t *testing.T) {
	store := &stubBookings{insertErr: errors.New("write concern failed")}
	svc := newService(t, store, nil)

	_, _, err := svc.Book(context.Background(), "Jane", "jane@yahoo.com", "2:00 PM")

	assert.Error(t, err)
}

func TestBook_EncodesSpecialCharacters(t *testing.T) {
	store := &stubBookings{}
	svc := newService(t, store, nil)

	_, link, err := svc.Book(context.Background(), "Jane & Bob", "jane+demo@yahoo.com", "2:00 PM")

	require.NoError(t, err)
	parsed, perr := url.Parse(link)
	require.NoError(t, perr)
	q := parsed.Query()
	assert.Equal(t, "Jane & Bob", q.Get("name"))
	assert.Equal(t, "jane+demo@yahoo.com", q.Get("email"))
}
