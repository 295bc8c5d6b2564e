package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/lexa-ai/lexa-backend/internal/apperrors"
	"github.com/lexa-ai/lexa-backend/internal/models"
)

type credentialKind int

const (
	credentialNone credentialKind = iota
	credentialBearer
	credentialCookie
)

// Tagged request credential, resolved in fixed precedence order
type credential struct {
	kind  credentialKind
	value string
}

// credentialFromRequest picks the credential the request carries.
// A bearer Authorization header always wins; without one the refresh cookie
// counts. An Authorization header of any other scheme is ignored
func credentialFromRequest(r *http.Request) credential {
	header := r.Header.Get("Authorization")
	if token, ok := strings.CutPrefix(header, "Bearer "); ok {
		return credential{kind: credentialBearer, value: token}
	}

	if cookie, err := r.Cookie(RefreshCookieName); err == nil {
		return credential{kind: credentialCookie, value: cookie.Value}
	}

	return credential{kind: credentialNone}
}

// ResolveUser authenticates the request and returns its user without the
// password hash.
//
// Two credential paths are accepted on purpose: the refresh cookie can stand
// in for an access token on any protected route, not only on /refresh. That
// weakens the short-lived-access-token guarantee; clients depend on it, so it
// stays.
//
// Errors: apperrors.ErrNoCredential when the request carries nothing,
// apperrors.ErrTokenInvalid on bad signature or expiry (a failed bearer token
// never falls back to the cookie), apperrors.ErrUserNotFound when the token
// subject no longer exists
func (s *Service) ResolveUser(ctx context.Context, r *http.Request) (models.User, error) {
	cred := credentialFromRequest(r)
	if cred.kind == credentialNone {
		return models.User{}, apperrors.ErrNoCredential
	}

	userID, err := s.token.Parse(cred.value)
	if err != nil {
		return models.User{}, err
	}

	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return models.User{}, err
	}

	// Resolved identity never carries the password hash
	user.HashedPassword = ""
	return user, nil
}
