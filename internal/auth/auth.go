// Package auth resolves sessions and users through the identity provider.
package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/Guerrilla-Interactive/readmegen/internal/prompt"
)

// SessionCookie names the cookie holding the session token.
const SessionCookie = "__session"

var (
	// ErrNoSession means the request carries no usable session.
	ErrNoSession = errors.New("no session")
	// ErrInvalidCode means the callback code could not be exchanged.
	ErrInvalidCode = errors.New("invalid auth code")
)

// User is the authenticated account.
type User = prompt.User

// Session is an established sign-in.
type Session struct {
	Token     string
	UserID    string
	ExpiresAt time.Time
}

// Provider is the identity provider the server delegates to.
type Provider interface {
	ExchangeCode(ctx context.Context, code string) (Session, error)
	UserFromToken(ctx context.Context, token string) (User, error)
}

// TokenFromRequest returns the bearer token or the session cookie value.
func TokenFromRequest(r *http.Request) (string, error) {
	if h := r.Header.Get("Authorization"); h != "" {
		if token, ok := strings.CutPrefix(h, "Bearer "); ok && strings.TrimSpace(token) != "" {
			return strings.TrimSpace(token), nil
		}
	}
	if c, err := r.Cookie(SessionCookie); err == nil && c.Value != "" {
		return c.Value, nil
	}
	return "", ErrNoSession
}
