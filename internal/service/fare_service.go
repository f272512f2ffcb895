package service

import (
	"context"
	"log"
	"math"

	"github.com/adeolu/ridebid/internal/models"
	"github.com/adeolu/ridebid/internal/repository"
)

// RouteOracle is the external distance/duration estimator. A nil result
// with a nil error means the oracle could not price the pair; callers
// degrade to "no estimate" instead of failing.
type RouteOracle interface {
	Estimate(ctx context.Context, origin, destination string) (*models.RouteEstimate, error)
}

// haversineOracle estimates routes for "lat,lon" encoded location pairs:
// great-circle distance times a road factor, duration at city speed.
// Free-text pairs are not resolvable and yield nil.
type haversineOracle struct{}

func NewHaversineOracle() RouteOracle {
	return haversineOracle{}
}

const roadFactor = 1.3

func (haversineOracle) Estimate(ctx context.Context, origin, destination string) (*models.RouteEstimate, error) {
	fromLat, fromLng, ok := ParseCoordinates(origin)
	if !ok {
		return nil, nil
	}
	toLat, toLng, ok := ParseCoordinates(destination)
	if !ok {
		return nil, nil
	}

	distance := HaversineDistance(fromLat, fromLng, toLat, toLng) * roadFactor

	return &models.RouteEstimate{
		DistanceKm:      math.Round(distance*100) / 100,
		DurationMinutes: EtaMinutes(distance),
	}, nil
}

type FareService interface {
	Estimate(ctx context.Context, origin, destination string) (*models.FareEstimateResponse, error)
	GetConfig(ctx context.Context) (*models.FareConfig, error)
}

type fareService struct {
	fareRepo repository.FareConfigRepository
	oracle   RouteOracle
}

func NewFareService(fareRepo repository.FareConfigRepository, oracle RouteOracle) FareService {
	return &fareService{
		fareRepo: fareRepo,
		oracle:   oracle,
	}
}

// Estimate prices a trip from the configured formula. An unpriceable
// route is not an error: the response just carries no figure.
func (s *fareService) Estimate(ctx context.Context, origin, destination string) (*models.FareEstimateResponse, error) {
	route, err := s.oracle.Estimate(ctx, origin, destination)
	if err != nil {
		log.Printf("fare oracle failed for %q -> %q: %v", origin, destination, err)
		return &models.FareEstimateResponse{Available: false}, nil
	}
	if route == nil {
		return &models.FareEstimateResponse{Available: false}, nil
	}

	cfg, err := s.fareRepo.Get(ctx)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return &models.FareEstimateResponse{Available: false}, nil
	}

	fare := ComputeFare(cfg, route.DistanceKm, route.DurationMinutes)

	return &models.FareEstimateResponse{
		Available:       true,
		Fare:            fare,
		DistanceKm:      route.DistanceKm,
		DurationMinutes: route.DurationMinutes,
	}, nil
}

func (s *fareService) GetConfig(ctx context.Context) (*models.FareConfig, error) {
	return s.fareRepo.Get(ctx)
}

// ComputeFare applies the configured formula and rounds the result to the
// nearest 50 currency units.
func ComputeFare(cfg *models.FareConfig, distanceKm float64, durationMins int) int64 {
	raw := float64(cfg.BaseFare) +
		distanceKm*float64(cfg.RatePerKm) +
		float64(durationMins)*float64(cfg.RatePerMinute)

	return int64(math.Round(raw/50)) * 50
}
