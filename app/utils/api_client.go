package utils

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Guerrilla-Interactive/readmegen/app/form"
	"github.com/Guerrilla-Interactive/readmegen/internal/config"
)

// ErrNotAuthenticated is returned for calls made without a token.
var ErrNotAuthenticated = errors.New("not logged in")

// MeResponse is the shape returned by GET /api/me.
type MeResponse struct {
	User config.User `json:"user"`
}

// GenerateRequest is the POST /api/generate body.
type GenerateRequest struct {
	FormData form.State   `json:"formData"`
	User     *config.User `json:"user,omitempty"`
}

// APIError is a non-OK server answer.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("%s (status %d)", e.Message, e.StatusCode)
}

// Client talks to the readmegen server.
type Client struct {
	BaseURL string
	Token   string
	// HTTP is used for short calls. Streams use Stream, which has no timeout.
	HTTP   *http.Client
	Stream *http.Client
}

// NewClient returns a client for baseURL.
func NewClient(baseURL, token string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Token:   token,
		HTTP:    &http.Client{Timeout: 15 * time.Second},
		Stream:  &http.Client{},
	}
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return nil, err
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}
	return req, nil
}

// FetchMe calls GET /api/me with the client's token.
func (c *Client) FetchMe(ctx context.Context) (MeResponse, error) {
	var out MeResponse
	if strings.TrimSpace(c.Token) == "" {
		return out, ErrNotAuthenticated
	}
	req, err := c.newRequest(ctx, http.MethodGet, "/api/me", nil)
	if err != nil {
		return out, err
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return out, fmt.Errorf("failed to reach %s: %w", c.BaseURL, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return out, readAPIError(resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return out, fmt.Errorf("failed to decode /api/me: %w", err)
	}
	return out, nil
}

// StreamEvent is one step of a generation stream. The channel closes after
// an event with Err set or after the last chunk.
type StreamEvent struct {
	Chunk string
	Err   error
}

// GenerateStream posts the form and returns the streamed text. A non-OK
// answer is returned as *APIError before any chunk. Cancelling ctx stops
// the reader and closes the channel.
func (c *Client) GenerateStream(ctx context.Context, body GenerateRequest) (<-chan StreamEvent, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}
	req, err := c.newRequest(ctx, http.MethodPost, "/api/generate", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.Stream.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to reach %s: %w", c.BaseURL, err)
	}
	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		return nil, readAPIError(resp)
	}

	ch := make(chan StreamEvent)
	go func() {
		defer close(ch)
		defer resp.Body.Close()
		buf := make([]byte, 4096)
		for {
			n, err := resp.Body.Read(buf)
			if n > 0 {
				select {
				case ch <- StreamEvent{Chunk: string(buf[:n])}:
				case <-ctx.Done():
					return
				}
			}
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				if ctx.Err() == nil {
					select {
					case ch <- StreamEvent{Err: fmt.Errorf("stream interrupted: %w", err)}:
					case <-ctx.Done():
					}
				}
				return
			}
		}
	}()
	return ch, nil
}

func readAPIError(resp *http.Response) error {
	var eb struct {
		Error string `json:"error"`
	}
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if json.Unmarshal(data, &eb) != nil || eb.Error == "" {
		eb.Error = strings.TrimSpace(http.StatusText(resp.StatusCode))
	}
	return &APIError{StatusCode: resp.StatusCode, Message: eb.Error}
}

// StripCodeFence removes a leading ```markdown (or bare ```) fence line and
// its closing ``` fence from generated text. Text that does not open with
// such a fence is returned trimmed but otherwise unchanged.
func StripCodeFence(s string) string {
	t := strings.TrimSpace(s)
	rest, ok := strings.CutPrefix(t, "```")
	if !ok {
		return t
	}
	i := strings.IndexByte(rest, '\n')
	if i < 0 {
		return t
	}
	lang := strings.TrimSpace(rest[:i])
	if lang != "" && !strings.EqualFold(lang, "markdown") && !strings.EqualFold(lang, "md") {
		return t
	}
	t = strings.TrimRight(rest[i+1:], " \t\n")
	t = strings.TrimSuffix(t, "```")
	return strings.TrimSpace(t)
}
