package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/lexa-ai/lexa-backend/internal/apperrors"
	"github.com/lexa-ai/lexa-backend/internal/logger"
	"github.com/lexa-ai/lexa-backend/internal/models"
)

// Auth service stub that always resolves the same user
type resolverStub struct {
	AuthService

	user models.User
}

func (s resolverStub) ResolveUser(ctx context.Context, r *http.Request) (models.User, error) {
	if r.Header.Get("Authorization") == "" {
		return models.User{}, apperrors.ErrNoCredential
	}
	return s.user, nil
}

type chatServiceFake struct {
	sendPrompt   func(ctx context.Context, userID uuid.UUID, prompt string) (string, error)
	listMessages func(ctx context.Context, userID uuid.UUID) ([]models.ChatMessage, error)
	clear        func(ctx context.Context, userID uuid.UUID) error
}

func (f *chatServiceFake) SendPrompt(ctx context.Context, userID uuid.UUID, prompt string) (string, error) {
	return f.sendPrompt(ctx, userID, prompt)
}

func (f *chatServiceFake) ListMessages(ctx context.Context, userID uuid.UUID) ([]models.ChatMessage, error) {
	return f.listMessages(ctx, userID)
}

func (f *chatServiceFake) ClearMessages(ctx context.Context, userID uuid.UUID) error {
	return f.clear(ctx, userID)
}

func Test_ChatEndpoints(t *testing.T) {
	t.Parallel()

	user := models.User{ID: uuid.New(), Name: "A", Email: "a@x.com"}

	doReq := func(t *testing.T, chat ChatService, method string, body string, authorized bool) (*http.Response, string) {
		t.Helper()

		srv := httptest.NewServer(NewRouter(resolverStub{user: user}, chat, logger.NewNoOpLogger()))
		defer srv.Close()

		var reader io.Reader
		if body != "" {
			reader = strings.NewReader(body)
		}
		req, err := http.NewRequest(method, srv.URL+"/api/chats", reader)
		require.NoError(t, err)
		if authorized {
			req.Header.Set("Authorization", "Bearer stub")
		}

		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)

		respBody, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		_ = resp.Body.Close()

		return resp, string(respBody)
	}

	t.Run("create relays prompt for the caller", func(t *testing.T) {
		var gotUserID uuid.UUID
		var gotPrompt string
		chat := &chatServiceFake{
			sendPrompt: func(ctx context.Context, userID uuid.UUID, prompt string) (string, error) {
				gotUserID = userID
				gotPrompt = prompt
				return "Hi there", nil
			},
		}

		resp, body := doReq(t, chat, http.MethodPost, `{"prompt": "Hello"}`, true)

		require.Equalf(t, http.StatusOK, resp.StatusCode, "not expected code. Body: %s", body)
		require.JSONEq(t, `{"success": true, "botMessage": "Hi there"}`, body)
		require.Equal(t, user.ID, gotUserID, "prompt should be sent for the resolved user")
		require.Equal(t, "Hello", gotPrompt)
	})

	t.Run("create requires prompt", func(t *testing.T) {
		resp, body := doReq(t, &chatServiceFake{}, http.MethodPost, `{}`, true)

		require.Equalf(t, http.StatusBadRequest, resp.StatusCode, "not expected code. Body: %s", body)
		require.Contains(t, body, "prompt")
	})

	t.Run("create model failure", func(t *testing.T) {
		chat := &chatServiceFake{
			sendPrompt: func(ctx context.Context, userID uuid.UUID, prompt string) (string, error) {
				return "", errors.New("model is down")
			},
		}

		resp, body := doReq(t, chat, http.MethodPost, `{"prompt": "Hello"}`, true)

		require.Equalf(t, http.StatusInternalServerError, resp.StatusCode, "not expected code. Body: %s", body)
		require.JSONEq(t, `{"message": "Server error"}`, body)
	})

	t.Run("list renders history", func(t *testing.T) {
		at := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
		chat := &chatServiceFake{
			listMessages: func(ctx context.Context, userID uuid.UUID) ([]models.ChatMessage, error) {
				require.Equal(t, user.ID, userID)
				return []models.ChatMessage{
					{ID: 1, UserID: userID, Role: models.RoleUser, Content: "Hello", CreatedAt: at},
					{ID: 2, UserID: userID, Role: models.RoleBot, Content: "Hi there", CreatedAt: at},
				}, nil
			},
		}

		resp, body := doReq(t, chat, http.MethodGet, "", true)

		require.Equalf(t, http.StatusOK, resp.StatusCode, "not expected code. Body: %s", body)
		require.JSONEq(t, `[
			{"role": "user", "content": "Hello", "createdAt": "2025-05-01T12:00:00Z"},
			{"role": "bot", "content": "Hi there", "createdAt": "2025-05-01T12:00:00Z"}
		]`, body)
	})

	t.Run("list empty history is an empty array", func(t *testing.T) {
		chat := &chatServiceFake{
			listMessages: func(ctx context.Context, userID uuid.UUID) ([]models.ChatMessage, error) {
				return nil, nil
			},
		}

		resp, body := doReq(t, chat, http.MethodGet, "", true)

		require.Equalf(t, http.StatusOK, resp.StatusCode, "not expected code. Body: %s", body)
		require.JSONEq(t, `[]`, body)
	})

	t.Run("clear", func(t *testing.T) {
		cleared := false
		chat := &chatServiceFake{
			clear: func(ctx context.Context, userID uuid.UUID) error {
				require.Equal(t, user.ID, userID)
				cleared = true
				return nil
			},
		}

		resp, body := doReq(t, chat, http.MethodDelete, "", true)

		require.Equalf(t, http.StatusOK, resp.StatusCode, "not expected code. Body: %s", body)
		require.JSONEq(t, `{"success": true}`, body)
		require.True(t, cleared)
	})

	t.Run("unauthenticated requests are rejected", func(t *testing.T) {
		for _, method := range []string{http.MethodPost, http.MethodGet, http.MethodDelete} {
			resp, body := doReq(t, &chatServiceFake{}, method, "", false)

			require.Equalf(t, http.StatusUnauthorized, resp.StatusCode, "not expected code for %s. Body: %s", method, body)
		}
	})
}
