package models

import (
	"time"
)

// User roles
const (
	RolePassenger = "passenger"
	RoleDriver    = "driver"
	RoleAdmin     = "admin"
)

type User struct {
	ID            string    `db:"id" json:"id"`
	ExternalID    string    `db:"external_id" json:"external_id"`
	Name          string    `db:"name" json:"name"`
	Email         string    `db:"email" json:"email"`
	AvatarURL     *string   `db:"avatar_url" json:"avatar_url,omitempty"`
	Role          string    `db:"role" json:"role"`
	IsVerified    bool      `db:"is_verified" json:"is_verified"`
	CarMake       *string   `db:"car_make" json:"car_make,omitempty"`
	CarModel      *string   `db:"car_model" json:"car_model,omitempty"`
	CarColor      *string   `db:"car_color" json:"car_color,omitempty"`
	LicensePlate  *string   `db:"license_plate" json:"license_plate,omitempty"`
	LicenseURL    *string   `db:"license_url" json:"license_url,omitempty"`
	RatingAverage float64   `db:"rating_average" json:"rating_average"`
	RatingCount   int       `db:"rating_count" json:"rating_count"`
	IsAvailable   bool      `db:"is_available" json:"is_available"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

// SignInRequest carries the identity provider's result. The server never
// authenticates credentials itself.
type SignInRequest struct {
	ExternalID string `json:"external_id" validate:"required"`
	Name       string `json:"name" validate:"required,min=1,max=100"`
	Email      string `json:"email" validate:"required,email"`
	PhotoURL   string `json:"photo_url,omitempty" validate:"omitempty,url"`
	Role       string `json:"role,omitempty" validate:"omitempty,oneof=passenger driver"`
}

type UpdateProfileRequest struct {
	Name         *string `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	CarMake      *string `json:"car_make,omitempty"`
	CarModel     *string `json:"car_model,omitempty"`
	CarColor     *string `json:"car_color,omitempty"`
	LicensePlate *string `json:"license_plate,omitempty"`
	LicenseURL   *string `json:"license_url,omitempty" validate:"omitempty,url"`
	IsAvailable  *bool   `json:"is_available,omitempty"`
}

type UserResponse struct {
	ID            string      `json:"id"`
	Name          string      `json:"name"`
	Email         string      `json:"email"`
	AvatarURL     *string     `json:"avatar_url,omitempty"`
	Role          string      `json:"role"`
	IsVerified    bool        `json:"is_verified"`
	CarDetails    *CarDetails `json:"car_details,omitempty"`
	LicenseURL    *string     `json:"license_url,omitempty"`
	RatingAverage float64     `json:"rating_average"`
	RatingCount   int         `json:"rating_count"`
	IsAvailable   bool        `json:"is_available"`
	CreatedAt     time.Time   `json:"created_at"`
}

func (u *User) CarInfo() *CarDetails {
	if u.CarMake == nil && u.CarModel == nil && u.CarColor == nil && u.LicensePlate == nil {
		return nil
	}
	car := &CarDetails{}
	if u.CarMake != nil {
		car.Make = *u.CarMake
	}
	if u.CarModel != nil {
		car.Model = *u.CarModel
	}
	if u.CarColor != nil {
		car.Color = *u.CarColor
	}
	if u.LicensePlate != nil {
		car.LicensePlate = *u.LicensePlate
	}
	return car
}

func (u *User) ToResponse() *UserResponse {
	return &UserResponse{
		ID:            u.ID,
		Name:          u.Name,
		Email:         u.Email,
		AvatarURL:     u.AvatarURL,
		Role:          u.Role,
		IsVerified:    u.IsVerified,
		CarDetails:    u.CarInfo(),
		LicenseURL:    u.LicenseURL,
		RatingAverage: u.RatingAverage,
		RatingCount:   u.RatingCount,
		IsAvailable:   u.IsAvailable,
		CreatedAt:     u.CreatedAt,
	}
}

func IsValidRole(role string) bool {
	return role == RolePassenger || role == RoleDriver || role == RoleAdmin
}
