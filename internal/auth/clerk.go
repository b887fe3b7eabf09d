package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/clerk/clerk-sdk-go/v2"
	"github.com/clerk/clerk-sdk-go/v2/jwt"
	"github.com/clerk/clerk-sdk-go/v2/user"
)

// Clerk implements Provider with the Clerk backend API. The hosted sign-in
// bridge hands back a session token as the callback code, so exchanging a
// code means verifying it.
type Clerk struct {
	verify  func(ctx context.Context, token string) (*clerk.SessionClaims, error)
	getUser func(ctx context.Context, id string) (*clerk.User, error)
}

// NewClerk configures the SDK with secretKey.
func NewClerk(secretKey string) *Clerk {
	clerk.SetKey(secretKey)
	return &Clerk{
		verify: func(ctx context.Context, token string) (*clerk.SessionClaims, error) {
			return jwt.Verify(ctx, &jwt.VerifyParams{Token: token})
		},
		getUser: user.Get,
	}
}

// ExchangeCode verifies code as a session token.
func (c *Clerk) ExchangeCode(ctx context.Context, code string) (Session, error) {
	if strings.TrimSpace(code) == "" {
		return Session{}, ErrInvalidCode
	}
	claims, err := c.verify(ctx, code)
	if err != nil {
		return Session{}, fmt.Errorf("%w: %v", ErrInvalidCode, err)
	}
	s := Session{Token: code, UserID: claims.Subject}
	if claims.Expiry != nil {
		s.ExpiresAt = time.Unix(*claims.Expiry, 0)
	}
	return s, nil
}

// UserFromToken verifies token and loads its user.
func (c *Clerk) UserFromToken(ctx context.Context, token string) (User, error) {
	if strings.TrimSpace(token) == "" {
		return User{}, ErrNoSession
	}
	claims, err := c.verify(ctx, token)
	if err != nil {
		return User{}, fmt.Errorf("%w: %v", ErrNoSession, err)
	}
	u, err := c.getUser(ctx, claims.Subject)
	if err != nil {
		return User{}, fmt.Errorf("failed to load user %s: %w", claims.Subject, err)
	}
	return userFromClerk(u), nil
}

func userFromClerk(u *clerk.User) User {
	out := User{ID: u.ID}
	first, last := deref(u.FirstName), deref(u.LastName)
	out.Name = strings.TrimSpace(first + " " + last)
	out.AvatarURL = deref(u.ImageURL)

	primary := deref(u.PrimaryEmailAddressID)
	for _, e := range u.EmailAddresses {
		if e == nil {
			continue
		}
		if out.Email == "" || e.ID == primary {
			out.Email = e.EmailAddress
		}
	}
	for _, acc := range u.ExternalAccounts {
		if acc != nil && acc.Provider == "oauth_github" && deref(acc.Username) != "" {
			out.GitHubUsername = deref(acc.Username)
			break
		}
	}
	if out.GitHubUsername == "" {
		out.GitHubUsername = deref(u.Username)
	}
	return out
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
