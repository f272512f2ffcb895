package models

import (
	"time"
)

type Bid struct {
	ID        string         `db:"id" json:"id"`
	RequestID string         `db:"request_id" json:"request_id"`
	DriverID  string         `db:"driver_id" json:"driver_id"`
	Driver    DriverSnapshot `db:"driver" json:"driver"`
	Amount    int64          `db:"amount" json:"amount"`
	DriverLat *float64       `db:"driver_lat" json:"driver_lat,omitempty"`
	DriverLng *float64       `db:"driver_lng" json:"driver_lng,omitempty"`
	CreatedAt time.Time      `db:"created_at" json:"created_at"`
}

type PlaceBidRequest struct {
	Amount    int64    `json:"amount" validate:"required"`
	DriverLat *float64 `json:"driver_lat,omitempty" validate:"omitempty,latitude"`
	DriverLng *float64 `json:"driver_lng,omitempty" validate:"omitempty,longitude"`
}

type BidResponse struct {
	ID         string         `json:"id"`
	RequestID  string         `json:"request_id"`
	Driver     DriverSnapshot `json:"driver"`
	Amount     int64          `json:"amount"`
	DriverLat  *float64       `json:"driver_lat,omitempty"`
	DriverLng  *float64       `json:"driver_lng,omitempty"`
	DistanceKm *float64       `json:"distance_km,omitempty"`
	EtaMins    *int           `json:"eta_mins,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
}

func (b *Bid) ToResponse() *BidResponse {
	return &BidResponse{
		ID:        b.ID,
		RequestID: b.RequestID,
		Driver:    b.Driver,
		Amount:    b.Amount,
		DriverLat: b.DriverLat,
		DriverLng: b.DriverLng,
		CreatedAt: b.CreatedAt,
	}
}
