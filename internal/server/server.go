// Package server hosts the generation relay and the sign-in endpoints.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"

	"github.com/Guerrilla-Interactive/readmegen/internal/auth"
	"github.com/Guerrilla-Interactive/readmegen/internal/config"
	"github.com/Guerrilla-Interactive/readmegen/internal/llm"
	"github.com/Guerrilla-Interactive/readmegen/internal/relay"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Server wires the HTTP routes.
type Server struct {
	cfg    config.ServerConfig
	auth   auth.Provider
	relay  *relay.Handler
	logger *zap.Logger
}

// New returns a server. provider and upstream must not be nil.
func New(cfg config.ServerConfig, provider auth.Provider, upstream llm.Upstream, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		cfg:  cfg,
		auth: provider,
		relay: &relay.Handler{
			Upstream:    upstream,
			Auth:        provider,
			Model:       cfg.LLM.Model,
			Temperature: cfg.LLM.Temperature,
			Logger:      logger,
		},
		logger: logger,
	}
}

// Handler returns the routed handler with middleware applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("POST /api/generate", s.relay)
	mux.HandleFunc("GET /api/me", s.handleMe)
	mux.HandleFunc("GET /auth/callback", s.handleCallback)
	mux.HandleFunc("GET /cli-bridge", s.handleCLIBridge)
	mux.HandleFunc("GET /dashboard", s.handleDashboard)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	mux.HandleFunc("GET /{$}", s.handleHome)

	return withRequestID(s.logger, withRecovery(withAccessLog(mux)))
}

// Run serves until ctx is cancelled, then shuts down within the configured
// timeout.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.cfg.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{Handler: s.Handler()}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("server listening", zap.String("addr", ln.Addr().String()))
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
		defer cancel()
		s.logger.Info("shutting down server")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func (s *Server) currentUser(r *http.Request) (auth.User, error) {
	token, err := auth.TokenFromRequest(r)
	if err != nil {
		return auth.User{}, err
	}
	return s.auth.UserFromToken(r.Context(), token)
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	u, err := s.currentUser(r)
	if err != nil {
		loggerFor(r).Debug("me without session", zap.Error(err))
		relay.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"user": u})
}

func (s *Server) handleCallback(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	if code == "" {
		http.Redirect(w, r, "/?error=no_code", http.StatusFound)
		return
	}
	sess, err := s.auth.ExchangeCode(r.Context(), code)
	if err != nil {
		loggerFor(r).Info("auth code exchange failed", zap.Error(err))
		http.Redirect(w, r, "/?error=auth", http.StatusFound)
		return
	}
	cookie := &http.Cookie{
		Name:     auth.SessionCookie,
		Value:    sess.Token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   strings.HasPrefix(s.cfg.PublicURL, "https://"),
	}
	if !sess.ExpiresAt.IsZero() {
		cookie.Expires = sess.ExpiresAt
	}
	http.SetCookie(w, cookie)
	http.Redirect(w, r, "/dashboard", http.StatusFound)
}

// handleCLIBridge hands the session token to the terminal client's local
// callback listener. Only loopback redirects are honored.
func (s *Server) handleCLIBridge(w http.ResponseWriter, r *http.Request) {
	redirect := r.URL.Query().Get("redirect")
	target, err := url.Parse(redirect)
	if redirect == "" || err != nil || !isLoopback(target) {
		relay.WriteError(w, http.StatusBadRequest, "Invalid redirect")
		return
	}
	token, err := auth.TokenFromRequest(r)
	if err == nil {
		_, err = s.auth.UserFromToken(r.Context(), token)
	}
	if err != nil {
		back := s.cfg.PublicURL + "/cli-bridge?redirect=" + url.QueryEscape(redirect)
		http.Redirect(w, r, s.signInURL(back), http.StatusFound)
		return
	}
	q := target.Query()
	q.Set("token", token)
	target.RawQuery = q.Encode()
	http.Redirect(w, r, target.String(), http.StatusFound)
}

func isLoopback(u *url.URL) bool {
	if u.Scheme != "http" {
		return false
	}
	host := u.Hostname()
	if host == "localhost" {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}

// signInURL points the browser at the hosted sign-in page, returning to
// the auth callback (or to after, when given) once done.
func (s *Server) signInURL(after string) string {
	if after == "" {
		after = s.cfg.PublicURL + "/auth/callback"
	}
	if s.cfg.Auth.SignInURL == "" {
		return after
	}
	sep := "?"
	if strings.Contains(s.cfg.Auth.SignInURL, "?") {
		sep = "&"
	}
	return s.cfg.Auth.SignInURL + sep + "redirect_url=" + url.QueryEscape(after)
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	u, err := s.currentUser(r)
	if err != nil {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}
	renderPage(w, loggerFor(r), dashboardPage, pageData{User: u, ServerURL: s.cfg.PublicURL})
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	if _, err := s.currentUser(r); err == nil {
		http.Redirect(w, r, "/dashboard", http.StatusFound)
		return
	}
	data := pageData{SignInURL: s.signInURL("")}
	switch r.URL.Query().Get("error") {
	case "auth":
		data.Error = "Sign-in failed. Please try again."
	case "no_code":
		data.Error = "The sign-in callback did not include a code."
	}
	renderPage(w, loggerFor(r), homePage, data)
}
