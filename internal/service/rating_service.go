package service

import (
	"context"
	"errors"

	apperrors "github.com/adeolu/ridebid/internal/errors"
	"github.com/adeolu/ridebid/internal/models"
	"github.com/adeolu/ridebid/internal/repository"
)

type RatingService interface {
	Submit(ctx context.Context, passenger *models.User, req *models.SubmitRatingRequest) (*models.Rating, error)
	PendingPrompt(ctx context.Context, passengerID string) (*models.PendingRatingResponse, error)
}

type ratingService struct {
	ratingRepo  repository.RatingRepository
	requestRepo repository.RequestRepository
}

func NewRatingService(
	ratingRepo repository.RatingRepository,
	requestRepo repository.RequestRepository,
) RatingService {
	return &ratingService{
		ratingRepo:  ratingRepo,
		requestRepo: requestRepo,
	}
}

// Submit records a rating for a completed ride. The repository folds it
// into the driver's running average atomically; the unique index on
// ride_request_id makes the insert the arbiter under concurrent
// submissions for the same ride.
func (s *ratingService) Submit(ctx context.Context, passenger *models.User, req *models.SubmitRatingRequest) (*models.Rating, error) {
	if req.Rating < 1 || req.Rating > 5 {
		return nil, apperrors.Validation("rating must be between 1 and 5")
	}

	request, err := s.requestRepo.GetByID(ctx, req.RideRequestID)
	if err != nil {
		return nil, err
	}
	if request == nil {
		return nil, apperrors.NotFound("ride request")
	}
	if request.PassengerID != passenger.ID {
		return nil, apperrors.Forbidden("only the ride's passenger can rate it")
	}
	if request.Status != models.RequestStatusCompleted {
		return nil, apperrors.InvalidState("only completed rides can be rated")
	}
	// The rating must land on the driver who actually served the ride,
	// not on whichever id the caller supplies.
	if request.AcceptedBidID == nil || request.AcceptedBid.Driver.ID != req.DriverID {
		return nil, apperrors.Validation("driver did not serve this ride")
	}

	rating := &models.Rating{
		DriverID:      req.DriverID,
		RideRequestID: req.RideRequestID,
		PassengerID:   passenger.ID,
		Rating:        req.Rating,
	}
	if req.Review != "" {
		rating.Review = &req.Review
	}

	if err := s.ratingRepo.SubmitWithAggregate(ctx, rating); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicate):
			return nil, apperrors.AlreadyRated()
		case errors.Is(err, repository.ErrNotFound):
			return nil, apperrors.NotFound("driver")
		default:
			return nil, err
		}
	}

	return rating, nil
}

// PendingPrompt finds the passenger's most recently completed ride with
// no rating on record. If that ride is already rated, there is no prompt;
// the system does not hunt for older unrated rides.
func (s *ratingService) PendingPrompt(ctx context.Context, passengerID string) (*models.PendingRatingResponse, error) {
	request, err := s.requestRepo.GetLatestCompletedByPassengerID(ctx, passengerID)
	if err != nil {
		return nil, err
	}
	if request == nil {
		return nil, nil
	}

	existing, err := s.ratingRepo.GetByRequestID(ctx, request.ID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, nil
	}

	if request.AcceptedBidID == nil {
		return nil, nil
	}

	return &models.PendingRatingResponse{
		RideRequest: request.ToResponse(),
		DriverID:    request.AcceptedBid.Driver.ID,
	}, nil
}
