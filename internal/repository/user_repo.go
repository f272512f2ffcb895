package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/adeolu/ridebid/internal/models"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByExternalID(ctx context.Context, externalID string) (*models.User, error)
	GetAll(ctx context.Context) ([]*models.User, error)
	UpdateProfile(ctx context.Context, user *models.User) error
	UpdateIdentity(ctx context.Context, id, name, email string, avatarURL *string) error
	SetVerified(ctx context.Context, id string, verified bool) error
}

type userRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	user.CreatedAt = time.Now()
	user.UpdatedAt = time.Now()

	query := `
		INSERT INTO users (id, external_id, name, email, avatar_url, role, is_verified,
			car_make, car_model, car_color, license_plate, license_url,
			rating_average, rating_count, is_available, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
	`
	_, err := r.db.ExecContext(ctx, query,
		user.ID, user.ExternalID, user.Name, user.Email, user.AvatarURL, user.Role, user.IsVerified,
		user.CarMake, user.CarModel, user.CarColor, user.LicensePlate, user.LicenseURL,
		user.RatingAverage, user.RatingCount, user.IsAvailable, user.CreatedAt, user.UpdatedAt)
	return err
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	query := `SELECT * FROM users WHERE id = $1`
	err := r.db.GetContext(ctx, &user, query, id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return &user, err
}

func (r *userRepository) GetByExternalID(ctx context.Context, externalID string) (*models.User, error) {
	var user models.User
	query := `SELECT * FROM users WHERE external_id = $1`
	err := r.db.GetContext(ctx, &user, query, externalID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return &user, err
}

func (r *userRepository) GetAll(ctx context.Context) ([]*models.User, error) {
	var users []*models.User
	query := `SELECT * FROM users ORDER BY created_at DESC`
	err := r.db.SelectContext(ctx, &users, query)
	return users, err
}

func (r *userRepository) UpdateProfile(ctx context.Context, user *models.User) error {
	user.UpdatedAt = time.Now()
	query := `
		UPDATE users
		SET name = $1, car_make = $2, car_model = $3, car_color = $4,
			license_plate = $5, license_url = $6, is_available = $7, updated_at = $8
		WHERE id = $9
	`
	_, err := r.db.ExecContext(ctx, query,
		user.Name, user.CarMake, user.CarModel, user.CarColor,
		user.LicensePlate, user.LicenseURL, user.IsAvailable, user.UpdatedAt, user.ID)
	return err
}

func (r *userRepository) UpdateIdentity(ctx context.Context, id, name, email string, avatarURL *string) error {
	query := `UPDATE users SET name = $1, email = $2, avatar_url = $3, updated_at = $4 WHERE id = $5`
	_, err := r.db.ExecContext(ctx, query, name, email, avatarURL, time.Now(), id)
	return err
}

func (r *userRepository) SetVerified(ctx context.Context, id string, verified bool) error {
	query := `UPDATE users SET is_verified = $1, updated_at = $2 WHERE id = $3`
	_, err := r.db.ExecContext(ctx, query, verified, time.Now(), id)
	return err
}
