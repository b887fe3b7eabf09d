package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/clerk/clerk-sdk-go/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(s string) *string { return &s }

func fakeClerk(users map[string]*clerk.User) *Clerk {
	return &Clerk{
		verify: func(_ context.Context, token string) (*clerk.SessionClaims, error) {
			if token != "good" {
				return nil, errors.New("bad signature")
			}
			exp := int64(1700000000)
			claims := &clerk.SessionClaims{}
			claims.Subject = "user_1"
			claims.Expiry = &exp
			return claims, nil
		},
		getUser: func(_ context.Context, id string) (*clerk.User, error) {
			u, ok := users[id]
			if !ok {
				return nil, errors.New("not found")
			}
			return u, nil
		},
	}
}

func TestClerk_ExchangeCode(t *testing.T) {
	c := fakeClerk(nil)

	s, err := c.ExchangeCode(context.Background(), "good")
	require.NoError(t, err)
	assert.Equal(t, "user_1", s.UserID)
	assert.Equal(t, "good", s.Token)
	assert.Equal(t, int64(1700000000), s.ExpiresAt.Unix())

	_, err = c.ExchangeCode(context.Background(), "bad")
	assert.ErrorIs(t, err, ErrInvalidCode)
	_, err = c.ExchangeCode(context.Background(), " ")
	assert.ErrorIs(t, err, ErrInvalidCode)
}

func TestClerk_UserFromToken(t *testing.T) {
	c := fakeClerk(map[string]*clerk.User{
		"user_1": {
			ID:                    "user_1",
			FirstName:             ptr("Jane"),
			LastName:              ptr("Doe"),
			ImageURL:              ptr("https://img.example/jane.png"),
			Username:              ptr("jane-clerk"),
			PrimaryEmailAddressID: ptr("em_2"),
			EmailAddresses: []*clerk.EmailAddress{
				{ID: "em_1", EmailAddress: "old@example.com"},
				{ID: "em_2", EmailAddress: "jane@example.com"},
			},
			ExternalAccounts: []*clerk.ExternalAccount{
				{Provider: "oauth_google", Username: ptr("ignored")},
				{Provider: "oauth_github", Username: ptr("janedoe")},
			},
		},
	})

	u, err := c.UserFromToken(context.Background(), "good")
	require.NoError(t, err)
	assert.Equal(t, User{
		ID:             "user_1",
		Email:          "jane@example.com",
		Name:           "Jane Doe",
		AvatarURL:      "https://img.example/jane.png",
		GitHubUsername: "janedoe",
	}, u)

	_, err = c.UserFromToken(context.Background(), "bad")
	assert.ErrorIs(t, err, ErrNoSession)
	_, err = c.UserFromToken(context.Background(), "")
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestUserFromClerk_FallsBackToUsername(t *testing.T) {
	u := userFromClerk(&clerk.User{ID: "u", Username: ptr("handle")})
	assert.Equal(t, "handle", u.GitHubUsername)
	assert.Equal(t, "", u.Name)
}

func TestTokenFromRequest(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	_, err := TokenFromRequest(r)
	assert.ErrorIs(t, err, ErrNoSession)

	r.AddCookie(&http.Cookie{Name: SessionCookie, Value: "cookie-token"})
	tok, err := TokenFromRequest(r)
	require.NoError(t, err)
	assert.Equal(t, "cookie-token", tok)

	r.Header.Set("Authorization", "Bearer header-token")
	tok, err = TokenFromRequest(r)
	require.NoError(t, err)
	assert.Equal(t, "header-token", tok)
}
