package models

import (
	"time"
)

// FareConfig is a singleton row. Updates merge field by field, never
// replace the whole row.
type FareConfig struct {
	ID            int       `db:"id" json:"-"`
	BaseFare      int64     `db:"base_fare" json:"base_fare"`
	RatePerKm     int64     `db:"rate_per_km" json:"rate_per_km"`
	RatePerMinute int64     `db:"rate_per_minute" json:"rate_per_minute"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

type UpdateFareConfigRequest struct {
	BaseFare      *int64 `json:"base_fare,omitempty" validate:"omitempty,min=0"`
	RatePerKm     *int64 `json:"rate_per_km,omitempty" validate:"omitempty,min=0"`
	RatePerMinute *int64 `json:"rate_per_minute,omitempty" validate:"omitempty,min=0"`
}

// RouteEstimate is what the external distance/duration oracle returns.
type RouteEstimate struct {
	DistanceKm      float64 `json:"distance_km"`
	DurationMinutes int     `json:"duration_minutes"`
}

type FareEstimateResponse struct {
	Available       bool    `json:"available"`
	Fare            int64   `json:"fare,omitempty"`
	DistanceKm      float64 `json:"distance_km,omitempty"`
	DurationMinutes int     `json:"duration_minutes,omitempty"`
}
