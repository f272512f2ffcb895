package service

import (
	"context"

	apperrors "github.com/adeolu/ridebid/internal/errors"
	"github.com/adeolu/ridebid/internal/events"
	"github.com/adeolu/ridebid/internal/models"
	"github.com/adeolu/ridebid/internal/repository"
)

type BidService interface {
	PlaceBid(ctx context.Context, requestID string, driver *models.User, req *models.PlaceBidRequest) (*models.Bid, error)
	ListBids(ctx context.Context, requestID string) ([]*models.BidResponse, error)
}

type bidService struct {
	bidRepo     repository.BidRepository
	requestRepo repository.RequestRepository
	publisher   events.Publisher
}

func NewBidService(
	bidRepo repository.BidRepository,
	requestRepo repository.RequestRepository,
	publisher events.Publisher,
) BidService {
	return &bidService{
		bidRepo:     bidRepo,
		requestRepo: requestRepo,
		publisher:   publisher,
	}
}

// PlaceBid appends a driver's offer to a pending request with the
// driver's current profile frozen onto it. Nothing stops a driver from
// bidding twice on the same request; each submission is its own bid.
func (s *bidService) PlaceBid(ctx context.Context, requestID string, driver *models.User, req *models.PlaceBidRequest) (*models.Bid, error) {
	if driver.Role != models.RoleDriver {
		return nil, apperrors.Forbidden("only drivers can bid on ride requests")
	}
	if !driver.IsVerified {
		return nil, apperrors.DriverNotVerified()
	}
	if req.Amount <= 0 {
		return nil, apperrors.Validation("bid amount must be positive")
	}

	request, err := s.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if request == nil {
		return nil, apperrors.NotFound("ride request")
	}
	if request.Status != models.RequestStatusPending {
		return nil, apperrors.InvalidState("this request is no longer accepting bids")
	}

	bid := &models.Bid{
		RequestID: requestID,
		DriverID:  driver.ID,
		Driver:    models.SnapshotDriver(driver),
		Amount:    req.Amount,
		DriverLat: req.DriverLat,
		DriverLng: req.DriverLng,
	}

	if err := s.bidRepo.Create(ctx, bid); err != nil {
		return nil, err
	}

	if s.publisher != nil {
		s.publisher.Publish(ctx, requestID, events.TypeBidPlaced, bid.ToResponse())
	}

	return bid, nil
}

// ListBids returns a request's bids lowest amount first. Distance and ETA
// are derived on read from the request location and each bid's driver
// position; neither is persisted.
func (s *bidService) ListBids(ctx context.Context, requestID string) ([]*models.BidResponse, error) {
	request, err := s.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if request == nil {
		return nil, apperrors.NotFound("ride request")
	}

	bids, err := s.bidRepo.ListByRequestID(ctx, requestID)
	if err != nil {
		return nil, err
	}

	pickupLat, pickupLng, hasPickup := ParseCoordinates(request.Location)

	responses := make([]*models.BidResponse, 0, len(bids))
	for _, bid := range bids {
		resp := bid.ToResponse()

		if hasPickup && bid.DriverLat != nil && bid.DriverLng != nil {
			distance := HaversineDistance(pickupLat, pickupLng, *bid.DriverLat, *bid.DriverLng)
			eta := EtaMinutes(distance)
			resp.DistanceKm = &distance
			resp.EtaMins = &eta
		}

		responses = append(responses, resp)
	}

	return responses, nil
}
