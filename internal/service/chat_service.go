package service

import (
	"context"

	apperrors "github.com/adeolu/ridebid/internal/errors"
	"github.com/adeolu/ridebid/internal/events"
	"github.com/adeolu/ridebid/internal/models"
	"github.com/adeolu/ridebid/internal/repository"
)

type ChatService interface {
	Send(ctx context.Context, requestID string, sender *models.User, req *models.SendMessageRequest) (*models.Message, error)
	List(ctx context.Context, requestID string) ([]*models.Message, error)
}

type chatService struct {
	messageRepo repository.MessageRepository
	requestRepo repository.RequestRepository
	publisher   events.Publisher
}

func NewChatService(
	messageRepo repository.MessageRepository,
	requestRepo repository.RequestRepository,
	publisher events.Publisher,
) ChatService {
	return &chatService{
		messageRepo: messageRepo,
		requestRepo: requestRepo,
		publisher:   publisher,
	}
}

// Send appends a message to a request's channel. The channel is open once
// the request is accepted and stays readable after completion.
func (s *chatService) Send(ctx context.Context, requestID string, sender *models.User, req *models.SendMessageRequest) (*models.Message, error) {
	request, err := s.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if request == nil {
		return nil, apperrors.NotFound("ride request")
	}

	if request.Status != models.RequestStatusAccepted && request.Status != models.RequestStatusCompleted {
		return nil, apperrors.InvalidState("chat opens once a bid has been accepted")
	}

	message := &models.Message{
		RequestID: requestID,
		SenderID:  sender.ID,
		Text:      req.Text,
	}

	if err := s.messageRepo.Create(ctx, message); err != nil {
		return nil, err
	}

	if s.publisher != nil {
		s.publisher.Publish(ctx, requestID, events.TypeMessageSent, message)
	}

	return message, nil
}

func (s *chatService) List(ctx context.Context, requestID string) ([]*models.Message, error) {
	request, err := s.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if request == nil {
		return nil, apperrors.NotFound("ride request")
	}

	return s.messageRepo.ListByRequestID(ctx, requestID)
}
