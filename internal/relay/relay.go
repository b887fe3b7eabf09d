// Package relay serves POST /api/generate: it turns the collected form into
// a prompt, opens one streaming completion upstream and forwards the text
// deltas to the client as they arrive.
package relay

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/Guerrilla-Interactive/readmegen/app/form"
	"github.com/Guerrilla-Interactive/readmegen/internal/auth"
	"github.com/Guerrilla-Interactive/readmegen/internal/llm"
	"github.com/Guerrilla-Interactive/readmegen/internal/prompt"
	"go.uber.org/zap"
)

const (
	msgAccentRequired = "Accent color is required"
	msgInvalidBody    = "Invalid request body"
	msgUnauthorized   = "Unauthorized"
	msgFailed         = "Failed to generate profile"

	maxBodyBytes = 1 << 20
)

// ErrMissingAccentColor rejects a request without an accent color.
var ErrMissingAccentColor = errors.New("accent color is required")

// Request is the POST /api/generate body.
type Request struct {
	FormData form.State   `json:"formData"`
	User     *prompt.User `json:"user"`
}

// Validate checks the request before anything is sent upstream.
func (r Request) Validate() error {
	if strings.TrimSpace(r.FormData.String(form.KeyAccentColor)) == "" {
		return ErrMissingAccentColor
	}
	return nil
}

// Handler relays generation requests.
type Handler struct {
	Upstream    llm.Upstream
	Auth        auth.Provider
	Model       string
	Temperature float64
	Logger      *zap.Logger
}

// ErrorBody is the JSON error shape.
type ErrorBody struct {
	Error string `json:"error"`
}

// WriteError writes {"error": msg} with status.
func WriteError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(ErrorBody{Error: msg})
}

// upstreamStatus maps a provider refusal to the status the client sees.
func upstreamStatus(err error) int {
	var se *llm.StatusError
	if errors.As(err, &se) {
		if se.StatusCode >= 500 && se.StatusCode <= 599 {
			return se.StatusCode
		}
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func (h *Handler) logger(r *http.Request) *zap.Logger {
	if l := LoggerFrom(r.Context()); l != nil {
		return l
	}
	if h.Logger != nil {
		return h.Logger
	}
	return zap.NewNop()
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r)
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req Request
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&req); err != nil {
		log.Info("rejecting generate request", zap.Error(err))
		WriteError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}
	if err := req.Validate(); err != nil {
		WriteError(w, http.StatusBadRequest, msgAccentRequired)
		return
	}

	user, err := h.resolveUser(r, req.User)
	if err != nil {
		log.Info("generate request without a user", zap.Error(err))
		WriteError(w, http.StatusUnauthorized, msgUnauthorized)
		return
	}

	stream, err := h.Upstream.Open(r.Context(), llm.Request{
		System:      prompt.System,
		Prompt:      prompt.Build(req.FormData, user),
		Model:       h.Model,
		Temperature: h.Temperature,
	})
	if err != nil {
		log.Error("upstream generation failed", zap.Error(err))
		WriteError(w, upstreamStatus(err), msgFailed)
		return
	}
	defer stream.Close()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher, _ := w.(http.Flusher)
	if flusher != nil {
		flusher.Flush()
	}

	written := 0
	for {
		if r.Context().Err() != nil {
			log.Info("client went away", zap.Int("bytes", written))
			return
		}
		text, err := stream.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			log.Warn("upstream stream ended early", zap.Error(err), zap.Int("bytes", written))
			return
		}
		n, err := io.WriteString(w, text)
		written += n
		if err != nil {
			log.Info("write to client failed", zap.Error(err))
			return
		}
		if flusher != nil {
			flusher.Flush()
		}
	}
	log.Debug("generation relayed", zap.Int("bytes", written))
}

func (h *Handler) resolveUser(r *http.Request, u *prompt.User) (prompt.User, error) {
	if u != nil {
		return *u, nil
	}
	if h.Auth == nil {
		return prompt.User{}, auth.ErrNoSession
	}
	token, err := auth.TokenFromRequest(r)
	if err != nil {
		return prompt.User{}, err
	}
	return h.Auth.UserFromToken(r.Context(), token)
}
