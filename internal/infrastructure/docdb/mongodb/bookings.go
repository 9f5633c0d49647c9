// Package mongodb provides the MongoDB bookings collection.
package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/voicedesk/agent-service/internal/domain/models"
)

// BookingsCollectionName is the name of the bookings collection.
const BookingsCollectionName = "bookings"

// BookingsCollection implements docdb.BookingsCollection for MongoDB.
type BookingsCollection struct {
	collection *mongo.Collection
}

// NewBookingsCollection creates a new bookings collection wrapper.
func NewBookingsCollection(db *mongo.Database) *BookingsCollection {
	return &BookingsCollection{
		collection: db.Collection(BookingsCollectionName),
	}
}

// Insert persists a new booking record.
func (c *BookingsCollection) Insert(ctx context.Context, booking *models.Booking) error {
	if booking == nil {
		return fmt.Errorf("booking is required")
	}
	if _, err := c.collection.InsertOne(ctx, booking); err != nil {
		return fmt.Errorf("failed to insert booking: %w", err)
	}
	return nil
}

// Get retrieves a booking by ID. Returns nil when not found.
func (c *BookingsCollection) Get(ctx context.Context, id string) (*models.Booking, error) {
	var booking models.Booking
	err := c.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&booking)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	return &booking, nil
}

// ListByDay retrieves all bookings whose meeting time falls on the
// given calendar day (server-local time).
func (c *BookingsCollection) ListByDay(ctx context.Context, day time.Time) ([]*models.Booking, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	end := start.AddDate(0, 0, 1)

	filter := bson.M{
		"meetingTime": bson.M{
			"$gte": start,
			"$lt":  end,
		},
	}

	cursor, err := c.collection.Find(ctx, filter, options.Find().SetSort(bson.M{"meetingTime": 1}))
	if err != nil {
		return nil, fmt.Errorf("failed to find bookings: %w", err)
	}
	defer cursor.Close(ctx)

	var bookings []*models.Booking
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode bookings: %w", err)
	}
	return bookings, nil
}

// EnsureIndexes creates the indexes the bookings collection needs.
func (c *BookingsCollection) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "meetingTime", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "email", Value: 1}, {Key: "bookingTime", Value: -1}},
		},
	}

	if _, err := c.collection.Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("failed to create booking indexes: %w", err)
	}
	return nil
}
