package analysis

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func geminiResponse(text string) string {
	body := map[string]any{
		"candidates": []any{
			map[string]any{
				"content": map[string]any{
					"role":  "model",
					"parts": []any{map[string]any{"text": text}},
				},
				"finishReason": "STOP",
			},
		},
	}
	data, _ := json.Marshal(body)
	return string(data)
}

func TestGeminiGenerator_Generate(t *testing.T) {
	var calls atomic.Int32
	var gotBody string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.True(t, strings.HasSuffix(r.URL.Path, "models/gemini-3-flash-preview:generateContent"), r.URL.Path)
		assert.True(t, r.Header.Get("x-goog-api-key") == "test-key" || r.URL.Query().Get("key") == "test-key")

		data, _ := io.ReadAll(r.Body)
		gotBody = string(data)

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, geminiResponse(`{"transcription":"hi","summary":"s","actionItems":["a"]}`))
	}))
	defer srv.Close()

	gen := NewGeminiGenerator("", WithGeminiBaseURL(srv.URL), WithGeminiHTTPClient(srv.Client()))
	assert.Equal(t, ProviderGemini, gen.Name())
	assert.Equal(t, DefaultGeminiModel, gen.Model())

	raw, err := gen.Generate(context.Background(), GenerateRequest{
		Data:     []byte("audio-bytes"),
		MIMEType: "audio/mpeg",
		Prompt:   AnalysisPrompt,
		APIKey:   "test-key",
	})
	require.NoError(t, err)

	assert.Equal(t, int32(1), calls.Load())
	assert.JSONEq(t, `{"transcription":"hi","summary":"s","actionItems":["a"]}`, raw)
	assert.Contains(t, gotBody, `"responseMimeType":"application/json"`)
	assert.Contains(t, gotBody, `"mimeType":"audio/mpeg"`)
	assert.Contains(t, gotBody, "inlineData")
}

func TestGeminiGenerator_ThroughAnalyzer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, geminiResponse("plain words, not json"))
	}))
	defer srv.Close()

	a := NewAnalyzer(NewGeminiGenerator("", WithGeminiBaseURL(srv.URL)))

	result, err := a.Analyze(context.Background(), testAudio, "audio/wav", "test-key")
	require.NoError(t, err)
	assert.Equal(t, "plain words, not json", result.Transcription())
	assert.Equal(t, SummaryError, result.Summary())
}

func TestGeminiGenerator_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"error":{"code":400,"message":"API key not valid. Please pass a valid API key.","status":"INVALID_ARGUMENT"}}`)
	}))
	defer srv.Close()

	a := NewAnalyzer(NewGeminiGenerator("", WithGeminiBaseURL(srv.URL)))

	_, err := a.Analyze(context.Background(), testAudio, "audio/wav", "bad-key")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRequestFailed)

	var reqErr *RequestError
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, ProviderGemini, reqErr.Provider)
	assert.Equal(t, http.StatusBadRequest, reqErr.StatusCode)
	assert.Contains(t, reqErr.Message, "API key not valid")
}

func TestGeminiGenerator_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	a := NewAnalyzer(NewGeminiGenerator("", WithGeminiBaseURL(url)))

	_, err := a.Analyze(context.Background(), testAudio, "audio/wav", "k")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRequestFailed)

	var reqErr *RequestError
	require.ErrorAs(t, err, &reqErr)
	assert.Zero(t, reqErr.StatusCode)
	assert.NotEmpty(t, reqErr.Message)
}
