package chat

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/lexa-ai/lexa-backend/internal/models"
	"github.com/lexa-ai/lexa-backend/internal/repository"
)

// Client of the external generative model
type ModelClient interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

// Chat service: relays prompts to the model and keeps one conversation per user
type Service struct {
	model   ModelClient
	storage repository.Storage
}

func NewService(model ModelClient, storage repository.Storage) (*Service, error) {
	if model == nil || storage == nil {
		return nil, errors.New("model client and storage must not be nil")
	}

	return &Service{
		model:   model,
		storage: storage,
	}, nil
}

// SendPrompt asks the model and appends both sides of the exchange to the
// user conversation. Nothing is persisted when the model call fails
func (s *Service) SendPrompt(ctx context.Context, userID uuid.UUID, prompt string) (string, error) {
	reply, err := s.model.GenerateContent(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("model request failed. Err: %w", err)
	}

	// Both messages land atomically, the history never holds a question without its answer
	err = s.storage.InTx(ctx, func(st repository.Storage) error {
		return st.Chat().AppendMessages(ctx, userID, []models.ChatMessage{
			{Role: models.RoleUser, Content: prompt},
			{Role: models.RoleBot, Content: reply},
		})
	})
	if err != nil {
		return "", fmt.Errorf("error while saving conversation. Err: %w", err)
	}

	return reply, nil
}

func (s *Service) ListMessages(ctx context.Context, userID uuid.UUID) ([]models.ChatMessage, error) {
	return s.storage.Chat().ListMessages(ctx, userID)
}

func (s *Service) ClearMessages(ctx context.Context, userID uuid.UUID) error {
	return s.storage.Chat().DeleteMessages(ctx, userID)
}
