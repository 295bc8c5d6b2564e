package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/lexa-ai/lexa-backend/internal/apperrors"
	"github.com/lexa-ai/lexa-backend/internal/handlers/render"
	"github.com/lexa-ai/lexa-backend/internal/handlers/userctx"
	"github.com/lexa-ai/lexa-backend/internal/models"
)

type authService interface {
	// Resolve request credential (bearer header or refresh cookie) to a user
	ResolveUser(ctx context.Context, r *http.Request) (models.User, error)
}

// Auth gates protected routes: it resolves the caller and puts the user into
// the request context. Failures are mapped so that a missing credential and a
// bad token both end up 401, while a token for a vanished user is 404
func Auth(as authService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, err := as.ResolveUser(r.Context(), r)
			if err != nil {
				switch {
				case errors.Is(err, apperrors.ErrNoCredential):
					render.ServiceError(w, "No token provided, authorization denied", http.StatusUnauthorized)
				case errors.Is(err, apperrors.ErrTokenInvalid):
					render.ServiceError(w, "Not authorized, invalid or expired token", http.StatusUnauthorized)
				case errors.Is(err, apperrors.ErrUserNotFound):
					render.ServiceError(w, "User not found", http.StatusNotFound)
				default:
					render.ServiceError(w, "Server error", http.StatusInternalServerError)
				}
				return
			}

			ctx := userctx.New(r.Context(), user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
