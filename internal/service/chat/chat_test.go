package chat

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexa-ai/lexa-backend/internal/models"
	"github.com/lexa-ai/lexa-backend/internal/repository/postgres"
	"github.com/lexa-ai/lexa-backend/internal/testutil"
)

// Allow to use a function as model client
type modelFunc func(ctx context.Context, prompt string) (string, error)

func (f modelFunc) GenerateContent(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

func Test_ChatService(t *testing.T) {
	t.Parallel()

	pg := testutil.StartPostgresContainer(t)
	t.Cleanup(pg.Terminate)

	echoModel := modelFunc(func(ctx context.Context, prompt string) (string, error) {
		return "echo: " + prompt, nil
	})

	withTx := func(t *testing.T, model ModelClient, fn func(s *Service, storage *postgres.Storage, userID uuid.UUID)) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			storage := postgres.NewStorage(tx)

			user, err := storage.User().CreateUser(t.Context(), "Alice", "alice@example.com", "hashed_password")
			require.NoError(t, err)

			s, err := NewService(model, storage)
			require.NoError(t, err, "chat service should be created without errors")

			fn(s, storage, user.ID)
		})
	}

	t.Run("send prompt stores both sides", func(t *testing.T) {
		withTx(t, echoModel, func(s *Service, storage *postgres.Storage, userID uuid.UUID) {
			reply, err := s.SendPrompt(t.Context(), userID, "hello")
			require.NoError(t, err)
			assert.Equal(t, "echo: hello", reply)

			messages, err := s.ListMessages(t.Context(), userID)
			require.NoError(t, err)
			require.Len(t, messages, 2)
			assert.Equal(t, models.RoleUser, messages[0].Role)
			assert.Equal(t, "hello", messages[0].Content)
			assert.Equal(t, models.RoleBot, messages[1].Role)
			assert.Equal(t, "echo: hello", messages[1].Content)
		})
	})

	t.Run("model failure stores nothing", func(t *testing.T) {
		failing := modelFunc(func(ctx context.Context, prompt string) (string, error) {
			return "", errors.New("model is down")
		})

		withTx(t, failing, func(s *Service, storage *postgres.Storage, userID uuid.UUID) {
			_, err := s.SendPrompt(t.Context(), userID, "hello")
			require.Error(t, err)

			messages, err := s.ListMessages(t.Context(), userID)
			require.NoError(t, err)
			require.Empty(t, messages, "failed exchanges must not show up in the history")
		})
	})

	t.Run("clear messages", func(t *testing.T) {
		withTx(t, echoModel, func(s *Service, storage *postgres.Storage, userID uuid.UUID) {
			_, err := s.SendPrompt(t.Context(), userID, "hello")
			require.NoError(t, err)

			err = s.ClearMessages(t.Context(), userID)
			require.NoError(t, err)

			messages, err := s.ListMessages(t.Context(), userID)
			require.NoError(t, err)
			require.Empty(t, messages)
		})
	})
}
