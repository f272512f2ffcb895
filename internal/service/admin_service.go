package service

import (
	"context"
	"log"

	apperrors "github.com/adeolu/ridebid/internal/errors"
	"github.com/adeolu/ridebid/internal/models"
	"github.com/adeolu/ridebid/internal/repository"
)

// The admin surface shows the most recent requests only.
const recentRequestsLimit = 50

type AdminService interface {
	ListUsers(ctx context.Context) ([]*models.UserResponse, error)
	RecentRequests(ctx context.Context) ([]*models.RideRequestResponse, error)
	ToggleDriverVerification(ctx context.Context, driverID string) (*models.User, error)
	UpdateFareConfig(ctx context.Context, req *models.UpdateFareConfigRequest) (*models.FareConfig, error)
}

type adminService struct {
	userRepo    repository.UserRepository
	requestRepo repository.RequestRepository
	fareRepo    repository.FareConfigRepository
}

func NewAdminService(
	userRepo repository.UserRepository,
	requestRepo repository.RequestRepository,
	fareRepo repository.FareConfigRepository,
) AdminService {
	return &adminService{
		userRepo:    userRepo,
		requestRepo: requestRepo,
		fareRepo:    fareRepo,
	}
}

func (s *adminService) ListUsers(ctx context.Context) ([]*models.UserResponse, error) {
	users, err := s.userRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]*models.UserResponse, 0, len(users))
	for _, user := range users {
		responses = append(responses, user.ToResponse())
	}
	return responses, nil
}

func (s *adminService) RecentRequests(ctx context.Context) ([]*models.RideRequestResponse, error) {
	requests, err := s.requestRepo.GetRecent(ctx, recentRequestsLimit)
	if err != nil {
		return nil, err
	}

	responses := make([]*models.RideRequestResponse, 0, len(requests))
	for _, request := range requests {
		responses = append(responses, request.ToResponse())
	}
	return responses, nil
}

func (s *adminService) ToggleDriverVerification(ctx context.Context, driverID string) (*models.User, error) {
	driver, err := s.userRepo.GetByID(ctx, driverID)
	if err != nil {
		return nil, err
	}
	if driver == nil {
		return nil, apperrors.NotFound("driver")
	}
	if driver.Role != models.RoleDriver {
		return nil, apperrors.BadRequest("user is not a driver")
	}

	verified := !driver.IsVerified
	if err := s.userRepo.SetVerified(ctx, driverID, verified); err != nil {
		return nil, err
	}

	driver.IsVerified = verified
	log.Printf("driver %s verification set to %t", driverID, verified)
	return driver, nil
}

// UpdateFareConfig merges the provided fields into the singleton config
// row. Absent fields keep their stored values.
func (s *adminService) UpdateFareConfig(ctx context.Context, req *models.UpdateFareConfigRequest) (*models.FareConfig, error) {
	if req.BaseFare == nil && req.RatePerKm == nil && req.RatePerMinute == nil {
		return nil, apperrors.Validation("at least one fare field is required")
	}

	return s.fareRepo.Merge(ctx, req)
}
