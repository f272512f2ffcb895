package models

import (
	"time"
)

type Rating struct {
	ID            string    `db:"id" json:"id"`
	DriverID      string    `db:"driver_id" json:"driver_id"`
	RideRequestID string    `db:"ride_request_id" json:"ride_request_id"`
	PassengerID   string    `db:"passenger_id" json:"passenger_id"`
	Rating        int       `db:"rating" json:"rating"`
	Review        *string   `db:"review" json:"review,omitempty"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}

type SubmitRatingRequest struct {
	DriverID      string `json:"driver_id" validate:"required,uuid"`
	RideRequestID string `json:"ride_request_id" validate:"required,uuid"`
	Rating        int    `json:"rating" validate:"required,min=1,max=5"`
	Review        string `json:"review,omitempty" validate:"omitempty,max=2000"`
}

// FoldRating incorporates one new rating into a driver's running
// average. The full history is never re-read; the stored aggregate is
// the source of truth.
func FoldRating(average float64, count int, rating int) (float64, int) {
	newCount := count + 1
	newAverage := (average*float64(count) + float64(rating)) / float64(newCount)
	return newAverage, newCount
}

// PendingRatingResponse points the passenger at their most recent
// completed, still-unrated ride.
type PendingRatingResponse struct {
	RideRequest *RideRequestResponse `json:"ride_request"`
	DriverID    string               `json:"driver_id"`
}
