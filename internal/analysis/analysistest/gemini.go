// Package analysistest provides a fake Gemini endpoint for tests of packages
// that run analyses end to end.
package analysistest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

// GeminiServer answers every generate-content request with a fixed text.
type GeminiServer struct {
	*httptest.Server

	calls  atomic.Int32
	status int
	text   string
}

// NewGeminiServer starts a server that replies with text as the model output.
func NewGeminiServer(tb testing.TB, text string) *GeminiServer {
	tb.Helper()
	return newServer(tb, http.StatusOK, text)
}

// NewFailingGeminiServer starts a server that replies with an API error.
func NewFailingGeminiServer(tb testing.TB, status int) *GeminiServer {
	tb.Helper()
	return newServer(tb, status, "")
}

func newServer(tb testing.TB, status int, text string) *GeminiServer {
	s := &GeminiServer{status: status, text: text}
	s.Server = httptest.NewServer(http.HandlerFunc(s.handle))
	tb.Cleanup(s.Close)
	return s
}

// Calls returns the number of requests received.
func (s *GeminiServer) Calls() int {
	return int(s.calls.Load())
}

func (s *GeminiServer) handle(w http.ResponseWriter, _ *http.Request) {
	s.calls.Add(1)
	w.Header().Set("Content-Type", "application/json")

	if s.status != http.StatusOK {
		w.WriteHeader(s.status)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{
				"code":    s.status,
				"message": http.StatusText(s.status),
				"status":  "FAILED",
			},
		})
		return
	}

	_ = json.NewEncoder(w).Encode(map[string]any{
		"candidates": []any{
			map[string]any{
				"content": map[string]any{
					"role":  "model",
					"parts": []any{map[string]any{"text": s.text}},
				},
				"finishReason": "STOP",
			},
		},
	})
}

// ResultJSON is a well-formed model reply.
const ResultJSON = `{"transcription":"**Speaker 1:** Hello.","summary":"A greeting.","actionItems":["Say hi back"]}`
