package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// Snapshots are frozen value copies of live rows, embedded as JSONB at a
// defined instant (request creation, bid placement, bid acceptance). They
// are never synced back to the profile rows they were taken from.

type CarDetails struct {
	Make         string `json:"make,omitempty"`
	Model        string `json:"model,omitempty"`
	Color        string `json:"color,omitempty"`
	LicensePlate string `json:"license_plate,omitempty"`
}

// PassengerSnapshot is the passenger view frozen onto a ride request at
// creation time.
type PassengerSnapshot struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Email      string  `json:"email"`
	AvatarURL  *string `json:"avatar_url,omitempty"`
	IsVerified bool    `json:"is_verified"`
}

// DriverSnapshot is the driver view frozen onto a bid at bid time,
// including car details and the rating aggregate as of that moment.
type DriverSnapshot struct {
	ID            string      `json:"id"`
	Name          string      `json:"name"`
	Email         string      `json:"email"`
	AvatarURL     *string     `json:"avatar_url,omitempty"`
	IsVerified    bool        `json:"is_verified"`
	CarDetails    *CarDetails `json:"car_details,omitempty"`
	RatingAverage float64     `json:"rating_average"`
	RatingCount   int         `json:"rating_count"`
}

// BidSnapshot is the full winning bid frozen onto a request when it is
// accepted. Later changes to the driver's profile do not show here.
type BidSnapshot struct {
	ID        string         `json:"id"`
	RequestID string         `json:"request_id"`
	Driver    DriverSnapshot `json:"driver"`
	Amount    int64          `json:"amount"`
	DriverLat *float64       `json:"driver_lat,omitempty"`
	DriverLng *float64       `json:"driver_lng,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

func SnapshotPassenger(u *User) PassengerSnapshot {
	return PassengerSnapshot{
		ID:         u.ID,
		Name:       u.Name,
		Email:      u.Email,
		AvatarURL:  u.AvatarURL,
		IsVerified: u.IsVerified,
	}
}

func SnapshotDriver(u *User) DriverSnapshot {
	return DriverSnapshot{
		ID:            u.ID,
		Name:          u.Name,
		Email:         u.Email,
		AvatarURL:     u.AvatarURL,
		IsVerified:    u.IsVerified,
		CarDetails:    u.CarInfo(),
		RatingAverage: u.RatingAverage,
		RatingCount:   u.RatingCount,
	}
}

func SnapshotBid(b *Bid) BidSnapshot {
	return BidSnapshot{
		ID:        b.ID,
		RequestID: b.RequestID,
		Driver:    b.Driver,
		Amount:    b.Amount,
		DriverLat: b.DriverLat,
		DriverLng: b.DriverLng,
		CreatedAt: b.CreatedAt,
	}
}

func scanJSON(src, dest interface{}) error {
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		return json.Unmarshal(v, dest)
	case string:
		return json.Unmarshal([]byte(v), dest)
	default:
		return errors.New("unsupported source type for JSONB scan")
	}
}

func (s PassengerSnapshot) Value() (driver.Value, error) {
	return json.Marshal(s)
}

func (s *PassengerSnapshot) Scan(src interface{}) error {
	return scanJSON(src, s)
}

func (s DriverSnapshot) Value() (driver.Value, error) {
	return json.Marshal(s)
}

func (s *DriverSnapshot) Scan(src interface{}) error {
	return scanJSON(src, s)
}

func (s BidSnapshot) Value() (driver.Value, error) {
	return json.Marshal(s)
}

func (s *BidSnapshot) Scan(src interface{}) error {
	return scanJSON(src, s)
}
