package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/lexa-ai/lexa-backend/internal/models"
)

// User repository interface
type UserRepo interface {
	// Create user
	// If user with email exists already has to return error apperrors.ErrUserAlreadyExists
	CreateUser(ctx context.Context, name string, email string, hashedPassword string) (models.User, error)

	// Get user by it's id or email
	// If user not found must return apperrors.ErrUserNotFound
	GetUserByID(ctx context.Context, userID uuid.UUID) (models.User, error)
	GetUserByEmail(ctx context.Context, email string) (models.User, error)
}

// Chat history repository interface
// One conversation per user, messages kept in append order
type ChatRepo interface {
	// Append messages to the user conversation in the given order
	AppendMessages(ctx context.Context, userID uuid.UUID, messages []models.ChatMessage) error

	// List all user messages oldest first
	// Empty slice if user has no conversation yet
	ListMessages(ctx context.Context, userID uuid.UUID) ([]models.ChatMessage, error)

	// Drop the whole user conversation
	DeleteMessages(ctx context.Context, userID uuid.UUID) error
}

// Storage aggregates repositories over a single connection or transaction
type Storage interface {
	User() UserRepo
	Chat() ChatRepo

	// Run fn with storage bound to one transaction
	InTx(ctx context.Context, fn func(Storage) error) error
}
