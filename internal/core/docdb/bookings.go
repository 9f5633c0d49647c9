// Package docdb provides the bookings collection interface.
package docdb

import (
	"context"
	"time"

	"github.com/voicedesk/agent-service/internal/domain/models"
)

// BookingsCollection defines the interface for booking collection operations.
type BookingsCollection interface {
	// Insert persists a new booking record.
	Insert(ctx context.Context, booking *models.Booking) error

	// Get retrieves a booking by ID.
	Get(ctx context.Context, id string) (*models.Booking, error)

	// ListByDay retrieves all bookings whose meeting time falls on the
	// given calendar day (server-local time).
	ListByDay(ctx context.Context, day time.Time) ([]*models.Booking, error)

	// EnsureIndexes creates the indexes the collection needs.
	EnsureIndexes(ctx context.Context) error
}
