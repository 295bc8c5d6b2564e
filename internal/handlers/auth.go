package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/lexa-ai/lexa-backend/internal/apperrors"
	"github.com/lexa-ai/lexa-backend/internal/handlers/render"
	"github.com/lexa-ai/lexa-backend/internal/handlers/userctx"
	"github.com/lexa-ai/lexa-backend/internal/models"
)

// Auth service
type AuthService interface {
	// Register user, has to return apperrors.ErrUserAlreadyExists if email is taken
	Register(ctx context.Context, name string, email string, password string) (models.User, models.TokenPair, error)

	// Login user, has to return apperrors.ErrInvalidCredentials on unknown
	// email or password mismatch (one error for both, no enumeration)
	Login(ctx context.Context, email string, password string) (models.User, models.TokenPair, error)

	// Exchange a valid refresh token for a fresh access token
	// Has to return apperrors.ErrTokenInvalid if verification fails
	Refresh(ctx context.Context, refresh string) (models.IssuedToken, error)

	// Resolve request credential to a user, used by the auth middleware
	ResolveUser(ctx context.Context, r *http.Request) (models.User, error)

	// Refresh cookie plumbing
	ReadRefreshToken(r *http.Request) (string, error)
	SetRefreshCookie(w http.ResponseWriter, token models.IssuedToken)
	ClearRefreshCookie(w http.ResponseWriter)
}

type AuthHandler struct {
	authService AuthService
}

func NewAuth(auth AuthService) *AuthHandler {
	return &AuthHandler{authService: auth}
}

// Response shape shared by register and login
type AuthSuccessResponse struct {
	ID    uuid.UUID `json:"_id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
	Token string    `json:"token"`
}

func (h *AuthHandler) register(w http.ResponseWriter, r *http.Request) {
	type RegisterRequest struct {
		Name     string `json:"name" validate:"required"`
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}

	data, err := render.BindAndValidate[RegisterRequest](w, r)
	if err != nil {
		// Consider to log errors here
		return
	}

	user, pair, err := h.authService.Register(r.Context(), data.Name, data.Email, data.Password)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrUserAlreadyExists):
			render.ServiceError(w, "User already exists", http.StatusBadRequest)
		default:
			render.ServiceError(w, "Server error", http.StatusInternalServerError)
		}
		return
	}

	h.authService.SetRefreshCookie(w, pair.Refresh)
	render.JSONWithStatus(w, AuthSuccessResponse{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
		Token: pair.Access.Value,
	}, http.StatusCreated)
}

func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request) {
	type LoginRequest struct {
		Email    string `json:"email" validate:"required"`
		Password string `json:"password" validate:"required"`
	}

	data, err := render.BindAndValidate[LoginRequest](w, r)
	if err != nil {
		// Consider to log errors here
		return
	}

	user, pair, err := h.authService.Login(r.Context(), data.Email, data.Password)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrInvalidCredentials):
			render.ServiceError(w, "Invalid credentials", http.StatusBadRequest)
		default:
			render.ServiceError(w, "Server error", http.StatusInternalServerError)
		}
		return
	}

	h.authService.SetRefreshCookie(w, pair.Refresh)
	render.JSON(w, AuthSuccessResponse{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
		Token: pair.Access.Value,
	})
}

func (h *AuthHandler) refresh(w http.ResponseWriter, r *http.Request) {
	type RefreshSuccessResponse struct {
		Token string `json:"token"`
	}

	refresh, err := h.authService.ReadRefreshToken(r)
	if err != nil {
		render.ServiceError(w, "No refresh token", http.StatusUnauthorized)
		return
	}

	// Only a new access token is minted, the refresh token and its cookie stay as they are
	access, err := h.authService.Refresh(r.Context(), refresh)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrTokenInvalid):
			render.ServiceError(w, "Invalid refresh token", http.StatusForbidden)
		default:
			render.ServiceError(w, "Server error", http.StatusInternalServerError)
		}
		return
	}

	render.JSON(w, RefreshSuccessResponse{Token: access.Value})
}

func (h *AuthHandler) logout(w http.ResponseWriter, r *http.Request) {
	type LogoutSuccessResponse struct {
		Message string `json:"message"`
	}

	// Clearing the cookie is all logout can do: issued tokens are stateless
	// and stay valid until expiry
	h.authService.ClearRefreshCookie(w)
	render.JSON(w, LogoutSuccessResponse{Message: "Logged out successfully"})
}

func (h *AuthHandler) profile(w http.ResponseWriter, r *http.Request) {
	type ProfileResponse struct {
		ID        uuid.UUID `json:"_id"`
		Name      string    `json:"name"`
		Email     string    `json:"email"`
		CreatedAt time.Time `json:"createdAt"`
	}

	user, ok := userctx.FromContext(r.Context())
	if !ok {
		render.ServiceError(w, "User not authorized", http.StatusUnauthorized)
		return
	}

	render.JSON(w, ProfileResponse{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
	})
}
