package models

import (
	"time"
)

type Message struct {
	ID        string    `db:"id" json:"id"`
	RequestID string    `db:"request_id" json:"request_id"`
	SenderID  string    `db:"sender_id" json:"sender_id"`
	Text      string    `db:"text" json:"text"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

type SendMessageRequest struct {
	Text string `json:"text" validate:"required,min=1,max=2000"`
}
