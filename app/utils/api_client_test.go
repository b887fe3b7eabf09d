package utils

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Guerrilla-Interactive/readmegen/app/form"
	"github.com/Guerrilla-Interactive/readmegen/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripCodeFence(t *testing.T) {
	tests := []struct {
		name, in, want string
	}{
		{"markdown fence", "```markdown\n# Hi\n\ntext\n```", "# Hi\n\ntext"},
		{"bare fence", "```\n# Hi\n```\n", "# Hi"},
		{"md fence", "  ```md\n# Hi\n```  ", "# Hi"},
		{"no fence", "# Hi\n\n```go\nx := 1\n```", "# Hi\n\n```go\nx := 1\n```"},
		{"trailing code block kept", "# Hi\n\n## Setup\n\n```bash\nnpm install\n```", "# Hi\n\n## Setup\n\n```bash\nnpm install\n```"},
		{"wrapped with inner block", "```markdown\n# Hi\n\n```bash\nnpm i\n```\n```", "# Hi\n\n```bash\nnpm i\n```"},
		{"plain", "# Hi", "# Hi"},
		{"other language kept", "```go\nx\n```", "```go\nx\n```"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripCodeFence(tt.in))
		})
	}
}

func TestFetchMe(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/me", r.URL.Path)
		if r.Header.Get("Authorization") != "Bearer tok" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = io.WriteString(w, `{"error":"Unauthorized"}`)
			return
		}
		_, _ = io.WriteString(w, `{"user":{"id":"u1","email":"jane@example.com","githubUsername":"janedoe"}}`)
	}))
	defer srv.Close()

	me, err := NewClient(srv.URL+"/", "tok").FetchMe(context.Background())
	require.NoError(t, err)
	assert.Equal(t, config.User{ID: "u1", Email: "jane@example.com", GitHubUsername: "janedoe"}, me.User)

	_, err = NewClient(srv.URL, "wrong").FetchMe(context.Background())
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Equal(t, "Unauthorized", apiErr.Message)

	_, err = NewClient(srv.URL, "").FetchMe(context.Background())
	assert.ErrorIs(t, err, ErrNotAuthenticated)
}

func TestGenerateStream(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body GenerateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		if body.FormData.String(form.KeyAccentColor) == "" {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			_, _ = io.WriteString(w, `{"error":"Accent color is required"}`)
			return
		}
		for _, part := range []string{"# He", "llo"} {
			_, _ = io.WriteString(w, part)
			w.(http.Flusher).Flush()
		}
	}))
	defer srv.Close()
	c := NewClient(srv.URL, "tok")

	ch, err := c.GenerateStream(context.Background(), GenerateRequest{FormData: form.State{form.KeyAccentColor: "#fff"}})
	require.NoError(t, err)
	var b strings.Builder
	for ev := range ch {
		require.NoError(t, ev.Err)
		b.WriteString(ev.Chunk)
	}
	assert.Equal(t, "# Hello", b.String())

	_, err = c.GenerateStream(context.Background(), GenerateRequest{FormData: form.State{}})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Accent color is required", apiErr.Message)
}

func TestGenerateStream_CancelClosesChannel(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "partial")
		w.(http.Flusher).Flush()
		select {
		case <-r.Context().Done():
		case <-release:
		}
	}))
	defer srv.Close()
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	ch, err := NewClient(srv.URL, "").GenerateStream(ctx, GenerateRequest{FormData: form.State{form.KeyAccentColor: "#fff"}})
	require.NoError(t, err)
	first := <-ch
	assert.Equal(t, "partial", first.Chunk)

	cancel()
	for range ch {
	}
}
