package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/adeolu/ridebid/internal/models"
	"github.com/jmoiron/sqlx"
)

// The fare config is a singleton row with a fixed id.
const fareConfigID = 1

type FareConfigRepository interface {
	Get(ctx context.Context) (*models.FareConfig, error)
	Seed(ctx context.Context, baseFare, ratePerKm, ratePerMinute int64) error
	Merge(ctx context.Context, req *models.UpdateFareConfigRequest) (*models.FareConfig, error)
}

type fareConfigRepository struct {
	db *sqlx.DB
}

func NewFareConfigRepository(db *sqlx.DB) FareConfigRepository {
	return &fareConfigRepository{db: db}
}

func (r *fareConfigRepository) Get(ctx context.Context) (*models.FareConfig, error) {
	var cfg models.FareConfig
	query := `SELECT * FROM fare_config WHERE id = $1`
	err := r.db.GetContext(ctx, &cfg, query, fareConfigID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return &cfg, err
}

// Seed inserts the config row if it does not exist yet. Existing values
// are left alone.
func (r *fareConfigRepository) Seed(ctx context.Context, baseFare, ratePerKm, ratePerMinute int64) error {
	query := `
		INSERT INTO fare_config (id, base_fare, rate_per_km, rate_per_minute, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO NOTHING
	`
	_, err := r.db.ExecContext(ctx, query, fareConfigID, baseFare, ratePerKm, ratePerMinute, time.Now())
	return err
}

// Merge applies a partial update: only the provided fields change.
func (r *fareConfigRepository) Merge(ctx context.Context, req *models.UpdateFareConfigRequest) (*models.FareConfig, error) {
	query := `
		UPDATE fare_config
		SET base_fare = COALESCE($1, base_fare),
			rate_per_km = COALESCE($2, rate_per_km),
			rate_per_minute = COALESCE($3, rate_per_minute),
			updated_at = $4
		WHERE id = $5
	`
	if _, err := r.db.ExecContext(ctx, query,
		req.BaseFare, req.RatePerKm, req.RatePerMinute, time.Now(), fareConfigID); err != nil {
		return nil, err
	}
	return r.Get(ctx)
}
