package login

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/Guerrilla-Interactive/readmegen/app"
	sharedScreens "github.com/Guerrilla-Interactive/readmegen/app/screens/shared"
	appUtils "github.com/Guerrilla-Interactive/readmegen/app/utils"
	"github.com/Guerrilla-Interactive/readmegen/internal/config"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
)

// CallbackAddr is where the browser hand-off returns the session token.
const CallbackAddr = "localhost:4455"

// Timeout bounds how long we wait for the browser to come back.
var Timeout = 2 * time.Minute

// LoginCompletedMsg is emitted when the browser flow returns to the local callback.
type LoginCompletedMsg struct {
	token string
	err   error
}

// FetchUserCompletedMsg indicates the async /api/me call finished.
type FetchUserCompletedMsg struct {
	user config.User
	err  error
}

// UpdateScreenLogin handles key events for the login screen.
func UpdateScreenLogin(m app.Model, msg tea.KeyMsg) (app.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "enter":
		m.Status = "Waiting for the browser..."
		return m, StartLoginFlowCmd()
	}
	return m, nil
}

// ViewScreenLogin renders the login screen content.
func ViewScreenLogin(m app.Model) string {
	cfg, _ := config.LoadConfig()
	title := app.TitleStyle.Render("Sign in")
	body := "\nWe'll open your browser to sign in with GitHub.\n" +
		"After signing in, you'll be redirected back here to build your profile README.\n\n" +
		"Server:   " + app.LinkStyle.Render(cfg.ServerBaseURL()) + "\n" +
		"Callback: " + app.PathStyle.Render("http://"+CallbackAddr+"/callback") + "\n\n" +
		sharedScreens.Footer("enter sign in", "ctrl+c quit")
	if m.Status != "" {
		body += "\n" + app.HelpStyle.Render(m.Status)
	}
	panel := lipgloss.NewStyle().Padding(1, 2).Margin(1).Render(title + "\n" + body)
	return sharedScreens.Place(m, panel)
}

// WaitForToken opens the server's cli-bridge page and blocks until the
// local callback receives a token, ctx ends or Timeout passes.
func WaitForToken(ctx context.Context, baseURL string) (string, error) {
	ln, err := net.Listen("tcp", CallbackAddr)
	if err != nil {
		return "", fmt.Errorf("failed to listen on %s: %w", CallbackAddr, err)
	}
	tokenCh := make(chan string, 1)
	mux := http.NewServeMux()
	mux.HandleFunc("/callback", func(w http.ResponseWriter, r *http.Request) {
		token := r.URL.Query().Get("token")
		if token == "" {
			token = r.URL.Query().Get("__session")
		}
		fmt.Fprintln(w, "Login complete. You may close this window and return to the terminal.")
		select {
		case tokenCh <- token:
		default:
		}
	})
	server := &http.Server{Handler: mux, ReadHeaderTimeout: 10 * time.Second}
	errCh := make(chan error, 1)
	go func() {
		if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = server.Shutdown(sctx)
	}()

	loginURL := baseURL + "/cli-bridge?redirect=" + url.QueryEscape("http://"+CallbackAddr+"/callback")
	if err := appUtils.OpenBrowser(loginURL); err != nil {
		return "", fmt.Errorf("failed to open browser: %w", err)
	}

	select {
	case err := <-errCh:
		return "", err
	case token := <-tokenCh:
		if token == "" {
			return "", errors.New("no token received in callback")
		}
		return token, nil
	case <-ctx.Done():
		return "", ctx.Err()
	case <-time.After(Timeout):
		return "", errors.New("login timed out waiting for callback")
	}
}

// Complete stores token and fetches the account it belongs to.
func Complete(ctx context.Context, token string) (config.User, error) {
	cfg, _ := config.LoadConfig()
	cfg.IsLoggedIn = true
	cfg.Token = token
	if err := config.SaveConfig(cfg); err != nil {
		return config.User{}, err
	}
	me, err := appUtils.NewClient(cfg.ServerBaseURL(), token).FetchMe(ctx)
	if err != nil {
		return config.User{}, err
	}
	cfg.User = &me.User
	if err := config.SaveConfig(cfg); err != nil {
		return config.User{}, err
	}
	return me.User, nil
}

// StartLoginFlowCmd starts the browser hand-off.
func StartLoginFlowCmd() tea.Cmd {
	return func() tea.Msg {
		cfg, _ := config.LoadConfig()
		token, err := WaitForToken(context.Background(), cfg.ServerBaseURL())
		return LoginCompletedMsg{token: token, err: err}
	}
}

// HandleLoginMsg processes the login flow messages.
func HandleLoginMsg(m app.Model, msg tea.Msg) (app.Model, tea.Cmd) {
	switch lm := msg.(type) {
	case LoginCompletedMsg:
		if lm.err != nil {
			m.Log().Warn("login failed", zap.Error(lm.err))
			m.Status = fmt.Sprintf("Login error: %v", lm.err)
			return m, nil
		}
		m.IsLoggedIn = true
		m.Status = "Retrieving account details..."
		token := lm.token
		return m, func() tea.Msg {
			ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
			defer cancel()
			user, err := Complete(ctx, token)
			return FetchUserCompletedMsg{user: user, err: err}
		}
	case FetchUserCompletedMsg:
		if lm.err != nil {
			m.Log().Warn("failed to fetch account", zap.Error(lm.err))
			m.Status = fmt.Sprintf("Login ok, but failed to fetch account: %v", lm.err)
			m.CurrentScreen = app.ScreenWizard
			return m, nil
		}
		user := lm.user
		m.User = &user
		m.Status = fmt.Sprintf("Welcome, %s!", user.DisplayName())
		m.CurrentScreen = app.ScreenWizard
		return m, nil
	}
	return m, nil
}
