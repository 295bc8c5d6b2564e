package postgres

import (
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexa-ai/lexa-backend/internal/models"
	"github.com/lexa-ai/lexa-backend/internal/testutil"
)

func Test_ChatRepo(t *testing.T) {
	t.Parallel()

	pg := testutil.StartPostgresContainer(t)
	t.Cleanup(pg.Terminate)

	// Messages reference users, so every test needs an owner row first
	createUser := func(t *testing.T, tx pgx.Tx, email string) uuid.UUID {
		t.Helper()
		user, err := (&UserRepo{DB: tx}).CreateUser(t.Context(), "Alice", email, "hashed_password")
		require.NoError(t, err)
		return user.ID
	}

	t.Run("append and list keeps order", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			repo := &ChatRepo{DB: tx}
			userID := createUser(t, tx, "alice@example.com")

			err := repo.AppendMessages(t.Context(), userID, []models.ChatMessage{
				{Role: models.RoleUser, Content: "hello"},
				{Role: models.RoleBot, Content: "hi there"},
			})
			require.NoError(t, err)

			err = repo.AppendMessages(t.Context(), userID, []models.ChatMessage{
				{Role: models.RoleUser, Content: "how are you"},
			})
			require.NoError(t, err)

			messages, err := repo.ListMessages(t.Context(), userID)
			require.NoError(t, err)
			require.Len(t, messages, 3)

			assert.Equal(t, models.RoleUser, messages[0].Role)
			assert.Equal(t, "hello", messages[0].Content)
			assert.Equal(t, models.RoleBot, messages[1].Role)
			assert.Equal(t, "hi there", messages[1].Content)
			assert.Equal(t, "how are you", messages[2].Content)

			for _, m := range messages {
				assert.Equal(t, userID, m.UserID)
				assert.False(t, m.CreatedAt.IsZero())
			}
		})
	})

	t.Run("list empty conversation", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			repo := &ChatRepo{DB: tx}
			userID := createUser(t, tx, "alice@example.com")

			messages, err := repo.ListMessages(t.Context(), userID)
			require.NoError(t, err)
			require.Empty(t, messages)
		})
	})

	t.Run("delete drops only own messages", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			repo := &ChatRepo{DB: tx}
			aliceID := createUser(t, tx, "alice@example.com")
			bobID := createUser(t, tx, "bob@example.com")

			err := repo.AppendMessages(t.Context(), aliceID, []models.ChatMessage{{Role: models.RoleUser, Content: "alice says"}})
			require.NoError(t, err)
			err = repo.AppendMessages(t.Context(), bobID, []models.ChatMessage{{Role: models.RoleUser, Content: "bob says"}})
			require.NoError(t, err)

			err = repo.DeleteMessages(t.Context(), aliceID)
			require.NoError(t, err)

			aliceMessages, err := repo.ListMessages(t.Context(), aliceID)
			require.NoError(t, err)
			require.Empty(t, aliceMessages, "alice conversation should be gone")

			bobMessages, err := repo.ListMessages(t.Context(), bobID)
			require.NoError(t, err)
			require.Len(t, bobMessages, 1, "bob conversation should be untouched")
		})
	})
}
