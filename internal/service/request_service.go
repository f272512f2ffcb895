package service

import (
	"context"
	"errors"
	"log"

	apperrors "github.com/adeolu/ridebid/internal/errors"
	"github.com/adeolu/ridebid/internal/events"
	"github.com/adeolu/ridebid/internal/models"
	"github.com/adeolu/ridebid/internal/repository"
)

type RequestService interface {
	Create(ctx context.Context, passenger *models.User, req *models.CreateRequestRequest) (*models.RideRequest, error)
	Get(ctx context.Context, id string) (*models.RideRequest, error)
	GetActiveForPassenger(ctx context.Context, passengerID string) (*models.RideRequest, error)
	GetOpenForDrivers(ctx context.Context, actor *models.User) ([]*models.RideRequest, error)
	GetHistoryForPassenger(ctx context.Context, passengerID string) ([]*models.RideRequest, error)
	Cancel(ctx context.Context, id string, actor *models.User) error
	AcceptBid(ctx context.Context, id string, actor *models.User, bidID string) (*models.RideRequest, error)
	Complete(ctx context.Context, id string, actor *models.User) error
}

type requestService struct {
	requestRepo repository.RequestRepository
	publisher   events.Publisher
}

func NewRequestService(
	requestRepo repository.RequestRepository,
	publisher events.Publisher,
) RequestService {
	return &requestService{
		requestRepo: requestRepo,
		publisher:   publisher,
	}
}

// Create opens a new pending request with the passenger's profile frozen
// onto it. The one-active-request check is a read before the insert, so
// two rapid creates by the same passenger can race; the row layout has no
// constraint backing it up.
func (s *requestService) Create(ctx context.Context, passenger *models.User, req *models.CreateRequestRequest) (*models.RideRequest, error) {
	active, err := s.requestRepo.GetActiveByPassengerID(ctx, passenger.ID)
	if err != nil {
		return nil, err
	}
	if active != nil {
		return nil, apperrors.ActiveRequestExists()
	}

	request := &models.RideRequest{
		PassengerID: passenger.ID,
		Passenger:   models.SnapshotPassenger(passenger),
		Location:    req.Location,
		Destination: req.Destination,
		Status:      models.RequestStatusPending,
	}

	if err := s.requestRepo.Create(ctx, request); err != nil {
		return nil, err
	}

	return request, nil
}

func (s *requestService) Get(ctx context.Context, id string) (*models.RideRequest, error) {
	request, err := s.requestRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if request == nil {
		return nil, apperrors.NotFound("ride request")
	}
	return request, nil
}

func (s *requestService) GetActiveForPassenger(ctx context.Context, passengerID string) (*models.RideRequest, error) {
	return s.requestRepo.GetActiveByPassengerID(ctx, passengerID)
}

// GetOpenForDrivers lists every pending request for the driver bidding
// feed. Passengers only ever observe their own requests, so they are
// barred from this view.
func (s *requestService) GetOpenForDrivers(ctx context.Context, actor *models.User) ([]*models.RideRequest, error) {
	if actor.Role == models.RolePassenger {
		return nil, apperrors.Forbidden("only drivers can browse open requests")
	}
	return s.requestRepo.GetOpen(ctx)
}

func (s *requestService) GetHistoryForPassenger(ctx context.Context, passengerID string) ([]*models.RideRequest, error) {
	return s.requestRepo.GetHistoryByPassengerID(ctx, passengerID)
}

// Cancel removes a pending request entirely. Bids placed against it are
// deleted with the row; once a request is accepted it can no longer be
// cancelled, only completed.
func (s *requestService) Cancel(ctx context.Context, id string, actor *models.User) error {
	request, err := s.requestRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if request == nil {
		return apperrors.NotFound("ride request")
	}

	if request.PassengerID != actor.ID {
		return apperrors.Forbidden("only the requesting passenger can cancel")
	}

	if request.Status != models.RequestStatusPending {
		return apperrors.InvalidState("only pending requests can be cancelled")
	}

	// The delete is guarded on status, so a cancel racing an accept
	// cannot remove an already-accepted ride.
	if err := s.requestRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrWrongState) {
			return apperrors.InvalidState("only pending requests can be cancelled")
		}
		return err
	}

	if s.publisher != nil {
		s.publisher.Publish(ctx, id, events.TypeRequestCancelled, map[string]string{"request_id": id})
	}

	return nil
}

// AcceptBid moves a pending request to accepted with the winning bid
// frozen onto it. The repository runs the transition under row locks, so
// two racing accepts produce exactly one winner; the loser sees the
// request already out of pending.
func (s *requestService) AcceptBid(ctx context.Context, id string, actor *models.User, bidID string) (*models.RideRequest, error) {
	request, err := s.requestRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if request == nil {
		return nil, apperrors.NotFound("ride request")
	}

	if request.PassengerID != actor.ID {
		return nil, apperrors.Forbidden("only the requesting passenger can accept a bid")
	}

	accepted, err := s.requestRepo.AcceptBid(ctx, id, bidID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrWrongState):
			return nil, apperrors.InvalidState("this request is no longer open for acceptance")
		case errors.Is(err, repository.ErrNotFound):
			return nil, apperrors.NotFound("bid")
		default:
			return nil, err
		}
	}

	if s.publisher != nil {
		s.publisher.Publish(ctx, accepted.ID, events.TypeStatusChanged, map[string]string{
			"status":          models.RequestStatusAccepted,
			"accepted_bid_id": *accepted.AcceptedBidID,
		})
	}

	return accepted, nil
}

// Complete moves an accepted request to completed. Completing twice is an
// error rather than a no-op, so rating eligibility cannot be re-triggered.
func (s *requestService) Complete(ctx context.Context, id string, actor *models.User) error {
	request, err := s.requestRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if request == nil {
		return apperrors.NotFound("ride request")
	}

	if !s.mayComplete(request, actor) {
		return apperrors.Forbidden("only the matched passenger or driver can complete this ride")
	}

	if !request.CanTransitionTo(models.RequestStatusCompleted) {
		return apperrors.InvalidTransition(request.Status, models.RequestStatusCompleted)
	}

	// Guarded write: of two racing completes, only one flips the row.
	err = s.requestRepo.UpdateStatus(ctx, id, models.RequestStatusAccepted, models.RequestStatusCompleted)
	if err != nil {
		if errors.Is(err, repository.ErrWrongState) {
			return apperrors.InvalidState("this ride is no longer completable")
		}
		return err
	}

	if s.publisher != nil {
		s.publisher.Publish(ctx, id, events.TypeStatusChanged, map[string]string{
			"status": models.RequestStatusCompleted,
		})
	}

	log.Printf("ride request %s completed", id)
	return nil
}

func (s *requestService) mayComplete(request *models.RideRequest, actor *models.User) bool {
	if request.PassengerID == actor.ID {
		return true
	}
	return request.AcceptedBidID != nil && request.AcceptedBid.Driver.ID == actor.ID
}
