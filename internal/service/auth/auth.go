package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/lexa-ai/lexa-backend/internal/apperrors"
	"github.com/lexa-ai/lexa-backend/internal/models"
	"github.com/lexa-ai/lexa-backend/internal/repository"
)

// Name of the cookie carrying the refresh token
const RefreshCookieName = "refreshToken"

// Interface to create or compare user password hashes
type PasswordHasher interface {
	// Generate Hash from password
	Hash(password string) (string, error)

	// Compare known hashedPassword and user provided password
	// Must be protected against timing attacks
	Compare(hashedPassword string, password string) error
}

// Manager to issue and validate stateless tokens
type TokenManager interface {
	IssueAccess(userID uuid.UUID) (models.IssuedToken, error)
	IssueRefresh(userID uuid.UUID) (models.IssuedToken, error)
	Parse(token string) (uuid.UUID, error)
}

type Config struct {
	// Hasher to use during user registration or login process
	// Bcrypt is used if not set
	Hasher PasswordHasher

	// Set Secure attribute on the refresh cookie
	// Keep false for local dev over plain http
	SecureCookie bool
}

// Auth service
type Service struct {
	// Manager to issue tokens (access and refresh)
	token TokenManager

	// hasher to hash or compare user passwords
	hasher PasswordHasher

	// Repository to access long term data
	userRepo repository.UserRepo

	secureCookie bool

	// Valid bcrypt hash that matches no real password
	// Compared against on unknown email so both login failure branches cost the same
	noMatchHash string
}

func NewService(cfg Config, tm TokenManager, userRepo repository.UserRepo) (*Service, error) {
	hasher := cfg.Hasher
	if hasher == nil {
		hasher = BcryptHasher{}
	}

	if tm == nil || userRepo == nil {
		return nil, errors.New("token manager and user repo must not be nil")
	}

	noMatchHash, err := hasher.Hash(uuid.NewString())
	if err != nil {
		return nil, fmt.Errorf("error while preparing hasher. Err: %w", err)
	}

	return &Service{
		token:        tm,
		hasher:       hasher,
		userRepo:     userRepo,
		secureCookie: cfg.SecureCookie,
		noMatchHash:  noMatchHash,
	}, nil
}

func (s *Service) Register(ctx context.Context, name string, email string, password string) (models.User, models.TokenPair, error) {
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return models.User{}, models.TokenPair{}, fmt.Errorf("can't use this as password, error=%w", err)
	}

	user, err := s.userRepo.CreateUser(ctx, name, email, hash)
	if err != nil {
		return models.User{}, models.TokenPair{}, err
	}

	pair, err := s.generatePair(user.ID)
	if err != nil {
		return models.User{}, models.TokenPair{}, err
	}

	return user, pair, nil
}

func (s *Service) Login(ctx context.Context, email string, password string) (models.User, models.TokenPair, error) {
	user, err := s.userRepo.GetUserByEmail(ctx, email)

	switch {
	case err == nil:
	case errors.Is(err, apperrors.ErrUserNotFound):
		// Burn a compare anyway so unknown email and wrong password take similar time
		_ = s.hasher.Compare(s.noMatchHash, password)
		return models.User{}, models.TokenPair{}, apperrors.ErrInvalidCredentials
	default:
		return models.User{}, models.TokenPair{}, err
	}

	if err := s.hasher.Compare(user.HashedPassword, password); err != nil {
		return models.User{}, models.TokenPair{}, apperrors.ErrInvalidCredentials
	}

	pair, err := s.generatePair(user.ID)
	if err != nil {
		return models.User{}, models.TokenPair{}, err
	}

	return user, pair, nil
}

// Refresh exchanges a valid refresh token for a fresh access token.
// The refresh token itself is left untouched: only signature and expiry are
// checked, the user record is not consulted
func (s *Service) Refresh(ctx context.Context, refresh string) (models.IssuedToken, error) {
	userID, err := s.token.Parse(refresh)
	if err != nil {
		return models.IssuedToken{}, err
	}

	access, err := s.token.IssueAccess(userID)
	if err != nil {
		return models.IssuedToken{}, fmt.Errorf("token could not be generated, sorry. %w", err)
	}

	return access, nil
}

func (s *Service) generatePair(userID uuid.UUID) (models.TokenPair, error) {
	access, err := s.token.IssueAccess(userID)
	if err != nil {
		return models.TokenPair{}, fmt.Errorf("token could not be generated, sorry. %w", err)
	}

	refresh, err := s.token.IssueRefresh(userID)
	if err != nil {
		return models.TokenPair{}, fmt.Errorf("token could not be generated, sorry. %w", err)
	}

	return models.TokenPair{Access: access, Refresh: refresh}, nil
}

// SetRefreshCookie delivers the refresh token as an http-only strict cookie,
// out of reach of client side scripts
func (s *Service) SetRefreshCookie(w http.ResponseWriter, token models.IssuedToken) {
	http.SetCookie(w, &http.Cookie{
		Name:     RefreshCookieName,
		Value:    token.Value,
		Path:     "/",
		MaxAge:   int(time.Until(token.ExpiresAt).Seconds()),
		HttpOnly: true,
		Secure:   s.secureCookie,
		SameSite: http.SameSiteStrictMode,
	})
}

// ClearRefreshCookie drops the refresh cookie unconditionally.
// Already issued tokens stay valid until natural expiry: they are self
// contained and nothing server side can revoke them
func (s *Service) ClearRefreshCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     RefreshCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.secureCookie,
		SameSite: http.SameSiteStrictMode,
	})
}

// ReadRefreshToken extracts the refresh token from the request cookie
// Returns apperrors.ErrNoCredential if the cookie is not there
func (s *Service) ReadRefreshToken(r *http.Request) (string, error) {
	cookie, err := r.Cookie(RefreshCookieName)
	if err != nil {
		return "", apperrors.ErrNoCredential
	}

	return cookie.Value, nil
}
