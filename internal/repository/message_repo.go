package repository

import (
	"context"
	"time"

	"github.com/adeolu/ridebid/internal/models"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type MessageRepository interface {
	Create(ctx context.Context, message *models.Message) error
	ListByRequestID(ctx context.Context, requestID string) ([]*models.Message, error)
}

type messageRepository struct {
	db *sqlx.DB
}

func NewMessageRepository(db *sqlx.DB) MessageRepository {
	return &messageRepository{db: db}
}

func (r *messageRepository) Create(ctx context.Context, message *models.Message) error {
	if message.ID == "" {
		message.ID = uuid.New().String()
	}
	message.CreatedAt = time.Now()

	query := `
		INSERT INTO messages (id, request_id, sender_id, text, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.db.ExecContext(ctx, query,
		message.ID, message.RequestID, message.SenderID, message.Text, message.CreatedAt)
	return err
}

func (r *messageRepository) ListByRequestID(ctx context.Context, requestID string) ([]*models.Message, error) {
	var messages []*models.Message
	query := `
		SELECT * FROM messages
		WHERE request_id = $1
		ORDER BY created_at ASC
	`
	err := r.db.SelectContext(ctx, &messages, query, requestID)
	return messages, err
}
