package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/adeolu/ridebid/internal/models"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type BidRepository interface {
	Create(ctx context.Context, bid *models.Bid) error
	GetByID(ctx context.Context, id string) (*models.Bid, error)
	ListByRequestID(ctx context.Context, requestID string) ([]*models.Bid, error)
}

type bidRepository struct {
	db *sqlx.DB
}

func NewBidRepository(db *sqlx.DB) BidRepository {
	return &bidRepository{db: db}
}

func (r *bidRepository) Create(ctx context.Context, bid *models.Bid) error {
	if bid.ID == "" {
		bid.ID = uuid.New().String()
	}
	bid.CreatedAt = time.Now()

	query := `
		INSERT INTO bids (id, request_id, driver_id, driver, amount, driver_lat, driver_lng, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.db.ExecContext(ctx, query,
		bid.ID, bid.RequestID, bid.DriverID, bid.Driver, bid.Amount,
		bid.DriverLat, bid.DriverLng, bid.CreatedAt)
	return err
}

func (r *bidRepository) GetByID(ctx context.Context, id string) (*models.Bid, error) {
	var bid models.Bid
	query := `SELECT * FROM bids WHERE id = $1`
	err := r.db.GetContext(ctx, &bid, query, id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return &bid, err
}

// ListByRequestID returns a request's bids in canonical presentation
// order: lowest amount first, insertion order breaking ties.
func (r *bidRepository) ListByRequestID(ctx context.Context, requestID string) ([]*models.Bid, error) {
	var bids []*models.Bid
	query := `
		SELECT * FROM bids
		WHERE request_id = $1
		ORDER BY amount ASC, created_at ASC
	`
	err := r.db.SelectContext(ctx, &bids, query, requestID)
	return bids, err
}
