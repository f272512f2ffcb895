package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/adeolu/ridebid/internal/models"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// Postgres class 23505: unique_violation. The ratings table carries a
// unique index on ride_request_id, which is what enforces one rating per
// ride under concurrent submissions.
const uniqueViolationCode = "23505"

type RatingRepository interface {
	SubmitWithAggregate(ctx context.Context, rating *models.Rating) error
	GetByRequestID(ctx context.Context, requestID string) (*models.Rating, error)
	ListByDriverID(ctx context.Context, driverID string) ([]*models.Rating, error)
}

type ratingRepository struct {
	db *sqlx.DB
}

func NewRatingRepository(db *sqlx.DB) RatingRepository {
	return &ratingRepository{db: db}
}

// SubmitWithAggregate inserts the rating and folds it into the driver's
// running average in one transaction: the rating row and the aggregate
// commit together or not at all. The driver row is locked FOR UPDATE so
// concurrent submissions fold sequentially, and the unique index on
// ride_request_id arbitrates duplicates (ErrDuplicate).
func (r *ratingRepository) SubmitWithAggregate(ctx context.Context, rating *models.Rating) error {
	if rating.ID == "" {
		rating.ID = uuid.New().String()
	}
	rating.CreatedAt = time.Now()

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var driver models.User
	err = tx.GetContext(ctx, &driver, `SELECT * FROM users WHERE id = $1 FOR UPDATE`, rating.DriverID)
	if err == sql.ErrNoRows {
		// Driver row vanished between the service's read and this write;
		// abort rather than leave a dangling rating.
		return fmt.Errorf("driver %s: %w", rating.DriverID, ErrNotFound)
	}
	if err != nil {
		return err
	}

	insert := `
		INSERT INTO ratings (id, driver_id, ride_request_id, passenger_id, rating, review, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err = tx.ExecContext(ctx, insert,
		rating.ID, rating.DriverID, rating.RideRequestID, rating.PassengerID,
		rating.Rating, rating.Review, rating.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("ride %s already rated: %w", rating.RideRequestID, ErrDuplicate)
		}
		return err
	}

	average, count := models.FoldRating(driver.RatingAverage, driver.RatingCount, rating.Rating)
	update := `UPDATE users SET rating_average = $1, rating_count = $2, updated_at = $3 WHERE id = $4`
	if _, err := tx.ExecContext(ctx, update, average, count, time.Now(), rating.DriverID); err != nil {
		return err
	}

	return tx.Commit()
}

func isUniqueViolation(err error) bool {
	if pqErr, ok := err.(*pq.Error); ok {
		return string(pqErr.Code) == uniqueViolationCode
	}
	return false
}

func (r *ratingRepository) GetByRequestID(ctx context.Context, requestID string) (*models.Rating, error) {
	var rating models.Rating
	query := `SELECT * FROM ratings WHERE ride_request_id = $1`
	err := r.db.GetContext(ctx, &rating, query, requestID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return &rating, err
}

func (r *ratingRepository) ListByDriverID(ctx context.Context, driverID string) ([]*models.Rating, error) {
	var ratings []*models.Rating
	query := `
		SELECT * FROM ratings
		WHERE driver_id = $1
		ORDER BY created_at DESC
	`
	err := r.db.SelectContext(ctx, &ratings, query, driverID)
	return ratings, err
}
