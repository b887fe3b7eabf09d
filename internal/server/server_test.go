package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/Guerrilla-Interactive/readmegen/internal/auth"
	"github.com/Guerrilla-Interactive/readmegen/internal/config"
	"github.com/Guerrilla-Interactive/readmegen/internal/llm"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

type fakeProvider struct{}

func (fakeProvider) ExchangeCode(_ context.Context, code string) (auth.Session, error) {
	if code != "good-code" {
		return auth.Session{}, auth.ErrInvalidCode
	}
	return auth.Session{Token: "sess-token", UserID: "u1", ExpiresAt: time.Now().Add(time.Hour)}, nil
}

func (fakeProvider) UserFromToken(_ context.Context, token string) (auth.User, error) {
	if token != "sess-token" {
		return auth.User{}, auth.ErrNoSession
	}
	return auth.User{ID: "u1", Name: "Jane", Email: "jane@example.com", GitHubUsername: "janedoe"}, nil
}

type textUpstream struct{ parts []string }

func (u textUpstream) Open(context.Context, llm.Request) (llm.DeltaStream, error) {
	return &partsStream{parts: u.parts}, nil
}

type partsStream struct{ parts []string }

func (s *partsStream) Next() (string, error) {
	if len(s.parts) == 0 {
		return "", io.EOF
	}
	p := s.parts[0]
	s.parts = s.parts[1:]
	return p, nil
}

func (s *partsStream) Close() error { return nil }

func testServer() *Server {
	cfg := config.DefaultServerConfig()
	cfg.PublicURL = "http://app.test"
	cfg.Auth.SignInURL = "https://accounts.example/sign-in"
	return New(cfg, fakeProvider{}, textUpstream{parts: []string{"# Hi", " there"}}, nil)
}

func do(t *testing.T, h http.Handler, method, target string, body io.Reader, mutate func(*http.Request)) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, body)
	if mutate != nil {
		mutate(req)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func withSession(r *http.Request) {
	r.AddCookie(&http.Cookie{Name: auth.SessionCookie, Value: "sess-token"})
}

func TestCallbackRedirects(t *testing.T) {
	h := testServer().Handler()
	tests := []struct {
		name     string
		target   string
		location string
		cookie   bool
	}{
		{"no code", "/auth/callback", "/?error=no_code", false},
		{"bad code", "/auth/callback?code=nope", "/?error=auth", false},
		{"good code", "/auth/callback?code=good-code", "/dashboard", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodGet, tt.target, nil, nil)
			assert.Equal(t, http.StatusFound, rec.Code)
			assert.Equal(t, tt.location, rec.Header().Get("Location"))
			cookies := rec.Result().Cookies()
			if tt.cookie {
				require.Len(t, cookies, 1)
				assert.Equal(t, auth.SessionCookie, cookies[0].Name)
				assert.Equal(t, "sess-token", cookies[0].Value)
				assert.True(t, cookies[0].HttpOnly)
			} else {
				assert.Empty(t, cookies)
			}
		})
	}
}

func TestSessionGating(t *testing.T) {
	h := testServer().Handler()

	rec := do(t, h, http.MethodGet, "/dashboard", nil, nil)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))

	rec = do(t, h, http.MethodGet, "/dashboard", nil, withSession)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Welcome, Jane")
	assert.Contains(t, rec.Body.String(), "@janedoe")

	rec = do(t, h, http.MethodGet, "/", nil, withSession)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/dashboard", rec.Header().Get("Location"))

	rec = do(t, h, http.MethodGet, "/?error=auth", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Sign-in failed")
	assert.Contains(t, rec.Body.String(), "https://accounts.example/sign-in?redirect_url=")
}

func TestMe(t *testing.T) {
	h := testServer().Handler()

	rec := do(t, h, http.MethodGet, "/api/me", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(t, h, http.MethodGet, "/api/me", nil, func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer sess-token")
	})
	require.Equal(t, http.StatusOK, rec.Code)
	var got struct {
		User auth.User `json:"user"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	want := auth.User{ID: "u1", Name: "Jane", Email: "jane@example.com", GitHubUsername: "janedoe"}
	if diff := cmp.Diff(want, got.User); diff != "" {
		t.Errorf("user mismatch (-want +got):\n%s", diff)
	}
}

func TestCLIBridge(t *testing.T) {
	h := testServer().Handler()
	cb := url.QueryEscape("http://localhost:4455/callback")

	rec := do(t, h, http.MethodGet, "/cli-bridge?redirect="+cb, nil, withSession)
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "http://localhost:4455/callback?token=sess-token", rec.Header().Get("Location"))

	rec = do(t, h, http.MethodGet, "/cli-bridge?redirect="+cb, nil, nil)
	require.Equal(t, http.StatusFound, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Header().Get("Location"), "https://accounts.example/sign-in?redirect_url="))

	rec = do(t, h, http.MethodGet, "/cli-bridge?redirect="+url.QueryEscape("https://evil.example/cb"), nil, withSession)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGenerateAndMiddleware(t *testing.T) {
	h := testServer().Handler()
	body := `{"formData":{"accentColor":"#ff3600"},"user":{"githubUsername":"janedoe"}}`

	rec := do(t, h, http.MethodPost, "/api/generate", strings.NewReader(body), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "# Hi there", rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))

	rec = do(t, h, http.MethodGet, "/api/generate", nil, nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	rec = do(t, h, http.MethodGet, "/healthz", nil, func(r *http.Request) {
		r.Header.Set("X-Request-Id", "fixed-id")
	})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "fixed-id", rec.Header().Get("X-Request-Id"))
}

func TestRecoveryMiddleware(t *testing.T) {
	h := withRecovery(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { panic("boom") }))
	rec := do(t, h, http.MethodGet, "/", nil, nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Internal server error"}`, rec.Body.String())
}

func TestServe_ShutsDownOnCancel(t *testing.T) {
	defer goleak.VerifyNone(t,
		goleak.IgnoreCurrent(),
		goleak.IgnoreTopFunction("go.opencensus.io/stats/view.(*worker).start"),
		goleak.IgnoreTopFunction("net/http.(*persistConn).readLoop"),
		goleak.IgnoreTopFunction("net/http.(*persistConn).writeLoop"),
		goleak.IgnoreTopFunction("internal/poll.runtime_pollWait"),
	)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	s := testServer()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln) }()

	client := &http.Client{Transport: &http.Transport{}}
	resp, err := client.Get("http://" + ln.Addr().String() + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	client.CloseIdleConnections()

	cancel()
	select {
	case err := <-done:
		assert.True(t, err == nil || errors.Is(err, context.Canceled), "unexpected error: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
