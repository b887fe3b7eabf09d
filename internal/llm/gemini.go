package llm

import (
	"context"
	"errors"
	"fmt"
	"io"
	"iter"

	"google.golang.org/genai"
)

// Gemini streams completions through the Google GenAI SDK.
type Gemini struct {
	client *genai.Client
}

// NewGemini creates a Gemini API client. An empty baseURL uses the public
// Gemini endpoint.
func NewGemini(ctx context.Context, apiKey, baseURL string) (*Gemini, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      apiKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{BaseURL: baseURL},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	return &Gemini{client: client}, nil
}

// Open starts a streaming generation. The SDK only reports refusals once
// iteration starts, so the first response is pulled here to keep the
// Upstream contract of failing before any text.
func (g *Gemini) Open(ctx context.Context, req Request) (DeltaStream, error) {
	temp := float32(req.Temperature)
	cfg := &genai.GenerateContentConfig{
		Temperature:       &temp,
		SystemInstruction: genai.NewContentFromText(req.System, genai.RoleUser),
	}
	seq := g.client.Models.GenerateContentStream(ctx, req.Model, genai.Text(req.Prompt), cfg)
	next, stop := iter.Pull2(seq)

	s := &geminiStream{next: next, stop: stop}
	first, err := s.pull()
	if err != nil && !errors.Is(err, io.EOF) {
		stop()
		var apiErr genai.APIError
		if errors.As(err, &apiErr) {
			return nil, &StatusError{StatusCode: apiErr.Code, Body: apiErr.Message}
		}
		return nil, fmt.Errorf("request failed: %w", err)
	}
	s.pending = first
	s.eof = errors.Is(err, io.EOF)
	return s, nil
}

type geminiStream struct {
	next    func() (*genai.GenerateContentResponse, error, bool)
	stop    func()
	pending string
	eof     bool
}

// pull returns the next non-empty text or io.EOF.
func (s *geminiStream) pull() (string, error) {
	for {
		resp, err, ok := s.next()
		if !ok {
			return "", io.EOF
		}
		if err != nil {
			return "", err
		}
		if resp == nil {
			continue
		}
		if text := resp.Text(); text != "" {
			return text, nil
		}
	}
}

func (s *geminiStream) Next() (string, error) {
	if s.pending != "" {
		text := s.pending
		s.pending = ""
		return text, nil
	}
	if s.eof {
		return "", io.EOF
	}
	text, err := s.pull()
	if err != nil {
		s.eof = true
		if errors.Is(err, io.EOF) {
			return "", io.EOF
		}
		return "", fmt.Errorf("stream error: %w", err)
	}
	return text, nil
}

func (s *geminiStream) Close() error {
	s.stop()
	return nil
}
