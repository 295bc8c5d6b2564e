package middleware

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lexa-ai/lexa-backend/internal/apperrors"
	"github.com/lexa-ai/lexa-backend/internal/handlers/userctx"
	"github.com/lexa-ai/lexa-backend/internal/models"
)

// Allow to use a function as auth service
type authFunc func(ctx context.Context, r *http.Request) (models.User, error)

func (f authFunc) ResolveUser(ctx context.Context, r *http.Request) (models.User, error) {
	return f(ctx, r)
}

func TestAuthMiddleware(t *testing.T) {
	// Simple handler that gets user from context and writes its name
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Must always be true cause middleware has to set user or write error itself
		user, ok := userctx.FromContext(r.Context())
		require.True(t, ok)

		w.WriteHeader(http.StatusOK)
		_, err := w.Write([]byte(user.Name))
		require.NoError(t, err, "should write user name to response")
	})

	t.Run("auth ok", func(t *testing.T) {
		middleware := Auth(authFunc(func(ctx context.Context, r *http.Request) (models.User, error) {
			return models.User{Name: "test-user"}, nil
		}))

		srv := httptest.NewServer(middleware(handler))
		defer srv.Close()

		resp, err := http.Get(srv.URL + "/test")
		require.NoError(t, err, "should make request to test server")
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err, "should read response body")
		defer resp.Body.Close() // nolint:errcheck

		require.Equalf(t, http.StatusOK, resp.StatusCode, "should return status OK. Resp: %s", string(body))
		require.Equal(t, "test-user", string(body), "should return user name in response")
	})

	tests := []struct {
		name         string
		err          error
		expectedCode int
		expectedBody string
	}{
		{
			name:         "no credential",
			err:          apperrors.ErrNoCredential,
			expectedCode: http.StatusUnauthorized,
			expectedBody: `{"message": "No token provided, authorization denied"}`,
		},
		{
			name:         "invalid token",
			err:          apperrors.ErrTokenInvalid,
			expectedCode: http.StatusUnauthorized,
			expectedBody: `{"message": "Not authorized, invalid or expired token"}`,
		},
		{
			name:         "user not found",
			err:          apperrors.ErrUserNotFound,
			expectedCode: http.StatusNotFound,
			expectedBody: `{"message": "User not found"}`,
		},
		{
			name:         "store error",
			err:          errors.New("db connection lost"),
			expectedCode: http.StatusInternalServerError,
			expectedBody: `{"message": "Server error"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			middleware := Auth(authFunc(func(ctx context.Context, r *http.Request) (models.User, error) {
				return models.User{}, tt.err
			}))

			srv := httptest.NewServer(middleware(handler))
			defer srv.Close()

			resp, err := http.Get(srv.URL + "/test")
			require.NoError(t, err, "should make request to test server")
			body, err := io.ReadAll(resp.Body)
			require.NoError(t, err, "should read response body")
			defer resp.Body.Close() // nolint:errcheck

			require.Equalf(t, tt.expectedCode, resp.StatusCode, "not expected code. Body: %s", string(body))
			require.JSONEq(t, tt.expectedBody, string(body))
		})
	}
}
