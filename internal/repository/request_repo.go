package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/adeolu/ridebid/internal/models"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type RequestRepository interface {
	Create(ctx context.Context, request *models.RideRequest) error
	GetByID(ctx context.Context, id string) (*models.RideRequest, error)
	GetActiveByPassengerID(ctx context.Context, passengerID string) (*models.RideRequest, error)
	GetOpen(ctx context.Context) ([]*models.RideRequest, error)
	GetHistoryByPassengerID(ctx context.Context, passengerID string) ([]*models.RideRequest, error)
	GetLatestCompletedByPassengerID(ctx context.Context, passengerID string) (*models.RideRequest, error)
	GetRecent(ctx context.Context, limit int) ([]*models.RideRequest, error)
	UpdateStatus(ctx context.Context, id, from, to string) error
	Delete(ctx context.Context, id string) error
	AcceptBid(ctx context.Context, id, bidID string) (*models.RideRequest, error)
}

type requestRepository struct {
	db *sqlx.DB
}

func NewRequestRepository(db *sqlx.DB) RequestRepository {
	return &requestRepository{db: db}
}

func (r *requestRepository) Create(ctx context.Context, request *models.RideRequest) error {
	if request.ID == "" {
		request.ID = uuid.New().String()
	}
	request.CreatedAt = time.Now()
	request.UpdatedAt = request.CreatedAt
	request.Status = models.RequestStatusPending

	query := `
		INSERT INTO ride_requests (id, passenger_id, passenger, location, destination,
			status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.db.ExecContext(ctx, query,
		request.ID, request.PassengerID, request.Passenger, request.Location,
		request.Destination, request.Status, request.CreatedAt, request.UpdatedAt)
	return err
}

func (r *requestRepository) GetByID(ctx context.Context, id string) (*models.RideRequest, error) {
	var request models.RideRequest
	query := `SELECT * FROM ride_requests WHERE id = $1`
	err := r.db.GetContext(ctx, &request, query, id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return &request, err
}

func (r *requestRepository) GetActiveByPassengerID(ctx context.Context, passengerID string) (*models.RideRequest, error) {
	var request models.RideRequest
	query := `
		SELECT * FROM ride_requests
		WHERE passenger_id = $1 AND status IN ($2, $3)
		ORDER BY created_at DESC
		LIMIT 1
	`
	err := r.db.GetContext(ctx, &request, query, passengerID,
		models.RequestStatusPending, models.RequestStatusAccepted)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return &request, err
}

// GetOpen returns all pending requests, newest first. Requests a driver
// has already bid on are deliberately not filtered out.
func (r *requestRepository) GetOpen(ctx context.Context) ([]*models.RideRequest, error) {
	var requests []*models.RideRequest
	query := `
		SELECT * FROM ride_requests
		WHERE status = $1
		ORDER BY created_at DESC
	`
	err := r.db.SelectContext(ctx, &requests, query, models.RequestStatusPending)
	return requests, err
}

func (r *requestRepository) GetHistoryByPassengerID(ctx context.Context, passengerID string) ([]*models.RideRequest, error) {
	var requests []*models.RideRequest
	query := `
		SELECT * FROM ride_requests
		WHERE passenger_id = $1 AND status = $2
		ORDER BY created_at DESC
	`
	err := r.db.SelectContext(ctx, &requests, query, passengerID, models.RequestStatusCompleted)
	return requests, err
}

func (r *requestRepository) GetLatestCompletedByPassengerID(ctx context.Context, passengerID string) (*models.RideRequest, error) {
	var request models.RideRequest
	query := `
		SELECT * FROM ride_requests
		WHERE passenger_id = $1 AND status = $2
		ORDER BY created_at DESC
		LIMIT 1
	`
	err := r.db.GetContext(ctx, &request, query, passengerID, models.RequestStatusCompleted)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return &request, err
}

func (r *requestRepository) GetRecent(ctx context.Context, limit int) ([]*models.RideRequest, error) {
	var requests []*models.RideRequest
	query := `SELECT * FROM ride_requests ORDER BY created_at DESC LIMIT $1`
	err := r.db.SelectContext(ctx, &requests, query, limit)
	return requests, err
}

// UpdateStatus transitions a request only while it is still in the
// expected state. A concurrent writer that got there first surfaces as
// ErrWrongState instead of a silent double write.
func (r *requestRepository) UpdateStatus(ctx context.Context, id, from, to string) error {
	query := `UPDATE ride_requests SET status = $1, updated_at = $2 WHERE id = $3 AND status = $4`
	result, err := r.db.ExecContext(ctx, query, to, time.Now(), id, from)
	if err != nil {
		return err
	}
	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return fmt.Errorf("ride request %s is not %s: %w", id, from, ErrWrongState)
	}
	return nil
}

// Delete removes a cancelled request entirely. Bids go with it via the
// foreign key cascade. The status guard means a cancel racing an accept
// loses with ErrWrongState rather than deleting an accepted ride.
func (r *requestRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM ride_requests WHERE id = $1 AND status = $2`
	result, err := r.db.ExecContext(ctx, query, id, models.RequestStatusPending)
	if err != nil {
		return err
	}
	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return fmt.Errorf("ride request %s is not %s: %w", id, models.RequestStatusPending, ErrWrongState)
	}
	return nil
}

// AcceptBid moves a pending request to accepted with the winning bid
// frozen onto it. The request and bid rows are locked FOR UPDATE, so of
// two racing accepts exactly one commits; the loser finds the request
// already out of pending and gets ErrWrongState. Status, accepted_bid_id
// and the snapshot land in one UPDATE, so no reader can observe an
// accepted request without its frozen bid.
func (r *requestRepository) AcceptBid(ctx context.Context, id, bidID string) (*models.RideRequest, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var request models.RideRequest
	err = tx.GetContext(ctx, &request, `SELECT * FROM ride_requests WHERE id = $1 FOR UPDATE`, id)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("ride request %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	if request.Status != models.RequestStatusPending {
		return nil, fmt.Errorf("ride request %s is %s: %w", id, request.Status, ErrWrongState)
	}

	var bid models.Bid
	err = tx.GetContext(ctx, &bid, `SELECT * FROM bids WHERE id = $1 FOR UPDATE`, bidID)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("bid %s: %w", bidID, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	if bid.RequestID != request.ID {
		return nil, fmt.Errorf("bid %s does not belong to request %s: %w", bidID, id, ErrNotFound)
	}

	snapshot := models.SnapshotBid(&bid)
	now := time.Now()

	query := `
		UPDATE ride_requests
		SET status = $1, accepted_bid_id = $2, accepted_bid = $3, updated_at = $4
		WHERE id = $5
	`
	if _, err := tx.ExecContext(ctx, query,
		models.RequestStatusAccepted, bid.ID, snapshot, now, id); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	request.Status = models.RequestStatusAccepted
	request.AcceptedBidID = &bid.ID
	request.AcceptedBid = snapshot
	request.UpdatedAt = now
	return &request, nil
}
