package llm

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func geminiChunk(text string) string {
	return fmt.Sprintf(`data: {"candidates":[{"content":{"role":"model","parts":[{"text":%q}]}}]}`+"\n\n", text)
}

func newTestGemini(t *testing.T, h http.HandlerFunc) *Gemini {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	g, err := NewGemini(context.Background(), "test-key", srv.URL+"/")
	require.NoError(t, err)
	return g
}

func TestGeminiStreamsChunks(t *testing.T) {
	var path string
	g := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		w.Header().Set("Content-Type", "text/event-stream")
		_, _ = io.WriteString(w, geminiChunk("# Jane"))
		_, _ = io.WriteString(w, `data: {"candidates":[]}`+"\n\n")
		_, _ = io.WriteString(w, geminiChunk(" Doe"))
	})

	s, err := g.Open(context.Background(), Request{System: "sys", Prompt: "p", Model: "gemini-2.0-flash", Temperature: 0.7})
	require.NoError(t, err)
	defer s.Close()

	assert.True(t, strings.HasSuffix(path, "models/gemini-2.0-flash:streamGenerateContent"), path)
	assert.Equal(t, []string{"# Jane", " Doe"}, drain(t, s))

	_, err = s.Next()
	assert.ErrorIs(t, err, io.EOF)
}

func TestGeminiEmptyStream(t *testing.T) {
	g := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
	})

	s, err := g.Open(context.Background(), Request{Model: "gemini-2.0-flash"})
	require.NoError(t, err)
	defer s.Close()
	assert.Empty(t, drain(t, s))
}

func TestGeminiStatusError(t *testing.T) {
	g := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, `{"error":{"code":500,"message":"backend unavailable","status":"INTERNAL"}}`)
	})

	_, err := g.Open(context.Background(), Request{Model: "gemini-2.0-flash"})
	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusInternalServerError, se.StatusCode)
	assert.Equal(t, "backend unavailable", se.Body)
}
