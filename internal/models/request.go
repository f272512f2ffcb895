package models

import (
	"time"
)

// Ride request status constants
const (
	RequestStatusPending   = "pending"
	RequestStatusAccepted  = "accepted"
	RequestStatusCompleted = "completed"
	RequestStatusCancelled = "cancelled"
)

// Valid request state transitions. Forward-only, no regression. A pending
// request is cancelled by deleting the row, so "cancelled" never appears
// as a stored status; it is kept in the table for transition checks.
var ValidRequestTransitions = map[string][]string{
	RequestStatusPending:   {RequestStatusAccepted, RequestStatusCancelled},
	RequestStatusAccepted:  {RequestStatusCompleted},
	RequestStatusCompleted: {},
	RequestStatusCancelled: {},
}

type RideRequest struct {
	ID            string            `db:"id" json:"id"`
	PassengerID   string            `db:"passenger_id" json:"passenger_id"`
	Passenger     PassengerSnapshot `db:"passenger" json:"passenger"`
	Location      string            `db:"location" json:"location"`
	Destination   string            `db:"destination" json:"destination"`
	Status        string            `db:"status" json:"status"`
	AcceptedBidID *string           `db:"accepted_bid_id" json:"accepted_bid_id,omitempty"`
	AcceptedBid   BidSnapshot       `db:"accepted_bid" json:"-"`
	CreatedAt     time.Time         `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time         `db:"updated_at" json:"updated_at"`
}

type CreateRequestRequest struct {
	Location    string `json:"location" validate:"required,min=1,max=255"`
	Destination string `json:"destination" validate:"required,min=1,max=255"`
}

type AcceptBidRequest struct {
	BidID string `json:"bid_id" validate:"required,uuid"`
}

type RideRequestResponse struct {
	ID            string            `json:"id"`
	Passenger     PassengerSnapshot `json:"passenger"`
	Location      string            `json:"location"`
	Destination   string            `json:"destination"`
	Status        string            `json:"status"`
	AcceptedBidID *string           `json:"accepted_bid_id,omitempty"`
	AcceptedBid   *BidSnapshot      `json:"accepted_bid,omitempty"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
}

func (r *RideRequest) ToResponse() *RideRequestResponse {
	resp := &RideRequestResponse{
		ID:            r.ID,
		Passenger:     r.Passenger,
		Location:      r.Location,
		Destination:   r.Destination,
		Status:        r.Status,
		AcceptedBidID: r.AcceptedBidID,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}

	if r.AcceptedBidID != nil {
		bid := r.AcceptedBid
		resp.AcceptedBid = &bid
	}

	return resp
}

// CanTransitionTo checks if a request can transition to a new status
func (r *RideRequest) CanTransitionTo(newStatus string) bool {
	validNextStates, exists := ValidRequestTransitions[r.Status]
	if !exists {
		return false
	}

	for _, state := range validNextStates {
		if state == newStatus {
			return true
		}
	}
	return false
}

// IsActive returns true while the request counts against the passenger's
// one-active-request limit.
func (r *RideRequest) IsActive() bool {
	return r.Status == RequestStatusPending || r.Status == RequestStatusAccepted
}
