// Package models contains domain models for the VoiceDesk Agent Service.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Booking is the persisted record created once a session converts.
// It is written exactly once and never updated or deleted here.
type Booking struct {
	ID          string    `json:"id" bson:"_id"`
	Name        string    `json:"name" bson:"name"`
	Email       string    `json:"email" bson:"email"`
	MeetingTime time.Time `json:"meetingTime" bson:"meetingTime"`
	BookingTime time.Time `json:"bookingTime" bson:"bookingTime"`
}

// NewBooking creates a booking with a generated ID.
func NewBooking(name, email string, meetingTime, bookedAt time.Time) *Booking {
	return &Booking{
		ID:          uuid.NewString(),
		Name:        name,
		Email:       email,
		MeetingTime: meetingTime,
		BookingTime: bookedAt.UTC(),
	}
}
