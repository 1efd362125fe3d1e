package types

import (
	"time"

	"github.com/google/uuid"
)

type BookingStatus string

const (
	BookingStatusBooked    BookingStatus = "booked"
	BookingStatusCancelled BookingStatus = "cancelled"
)

type Booking struct {
	ID           uuid.UUID     `json:"id"`
	ListingID    uuid.UUID     `json:"listingId"`
	ListingTitle string        `json:"listingTitle,omitempty"`
	UserID       uuid.UUID     `json:"userId"`
	CheckIn      time.Time     `json:"checkIn"`
	CheckOut     time.Time     `json:"checkOut"`
	Guests       int           `json:"guests"`
	TotalPrice   float64       `json:"totalPrice"`
	Status       BookingStatus `json:"status"`
	CreatedAt    time.Time     `json:"createdAt"`
}

type BookingInput struct {
	ListingID uuid.UUID `json:"listingId"`
	CheckIn   string    `json:"checkIn"`
	CheckOut  string    `json:"checkOut"`
	Guests    int       `json:"guests"`
}

// Nights between check-in and check-out, counted by calendar date.
func (b Booking) Nights() int {
	in := time.Date(b.CheckIn.Year(), b.CheckIn.Month(), b.CheckIn.Day(), 0, 0, 0, 0, time.UTC)
	out := time.Date(b.CheckOut.Year(), b.CheckOut.Month(), b.CheckOut.Day(), 0, 0, 0, 0, time.UTC)
	return int(out.Sub(in).Hours() / 24)
}

type BookingResult struct {
	Message string   `json:"message"`
	Booking *Booking `json:"booking,omitempty"`
}
