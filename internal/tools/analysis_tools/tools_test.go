package analysis_tools

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teemow/audioinsight/internal/analysis/analysistest"
	"github.com/teemow/audioinsight/internal/config"
	"github.com/teemow/audioinsight/internal/server"
	"github.com/teemow/audioinsight/internal/tools/batch"
)

func setup(t *testing.T, cfg *config.Config) *mcpserver.MCPServer {
	t.Helper()
	sc, err := server.NewServerContext(context.Background(), server.Options{Config: cfg})
	require.NoError(t, err)
	t.Cleanup(func() { _ = sc.Shutdown() })

	s := mcpserver.NewMCPServer("test", "0.0.0", mcpserver.WithToolCapabilities(true))
	require.NoError(t, RegisterAnalysisTools(s, sc))
	return s
}

func call(t *testing.T, s *mcpserver.MCPServer, name string, args map[string]any) (*mcp.CallToolResult, string) {
	t.Helper()
	tool, ok := s.ListTools()[name]
	require.True(t, ok, "tool %s not registered", name)

	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args
	result, err := tool.Handler(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, result)
	require.NotEmpty(t, result.Content)

	tc, ok := mcp.AsTextContent(result.Content[0])
	require.True(t, ok)
	return result, tc.Text
}

func writeAudio(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	data := append([]byte("ID3\x03\x00\x00\x00\x00\x00\x0a"), make([]byte, 32)...)
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func TestRegisterAnalysisTools(t *testing.T) {
	s := setup(t, &config.Config{})
	tools := s.ListTools()
	assert.Contains(t, tools, "audio_analyze")
	assert.Contains(t, tools, "audio_analyze_batch")
}

func TestAudioAnalyze_JSON(t *testing.T) {
	gemini := analysistest.NewGeminiServer(t, analysistest.ResultJSON)
	s := setup(t, &config.Config{GeminiAPIKey: "k", GeminiBaseURL: gemini.URL})

	result, out := call(t, s, "audio_analyze", map[string]any{"path": writeAudio(t, "standup.mp3")})
	require.False(t, result.IsError, out)

	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "A greeting.", got["summary"])
	assert.Equal(t, 1, gemini.Calls())
}

func TestAudioAnalyze_Markdown(t *testing.T) {
	gemini := analysistest.NewGeminiServer(t, analysistest.ResultJSON)
	s := setup(t, &config.Config{GeminiAPIKey: "k", GeminiBaseURL: gemini.URL})

	result, out := call(t, s, "audio_analyze", map[string]any{
		"path":   writeAudio(t, "standup.mp3"),
		"format": "markdown",
	})
	require.False(t, result.IsError, out)
	assert.Contains(t, out, "# Audio Analysis: standup")
	assert.Contains(t, out, "- Say hi back")
}

func TestAudioAnalyze_DegradedIsNotAnError(t *testing.T) {
	gemini := analysistest.NewGeminiServer(t, "this is not json")
	s := setup(t, &config.Config{GeminiAPIKey: "k", GeminiBaseURL: gemini.URL})

	result, out := call(t, s, "audio_analyze", map[string]any{"path": writeAudio(t, "a.mp3")})
	require.False(t, result.IsError, out)

	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "this is not json", got["transcription"])
	assert.Equal(t, "Error processing summary.", got["summary"])
}

func TestAudioAnalyze_Errors(t *testing.T) {
	gemini := analysistest.NewFailingGeminiServer(t, 403)
	s := setup(t, &config.Config{GeminiAPIKey: "k", GeminiBaseURL: gemini.URL})
	audio := writeAudio(t, "a.mp3")

	tests := []struct {
		name     string
		args     map[string]any
		contains string
	}{
		{"no source", map[string]any{}, "exactly one of"},
		{"both sources", map[string]any{"path": audio, "drive_file_id": "x"}, "exactly one of"},
		{"pdf format", map[string]any{"path": audio, "format": "pdf"}, "format must be"},
		{"missing file", map[string]any{"path": filepath.Join(t.TempDir(), "nope.mp3")}, "failed to read"},
		{"drive not connected", map[string]any{"drive_file_id": "x"}, "not connected"},
		{"request failed", map[string]any{"path": audio}, "status 403"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, out := call(t, s, "audio_analyze", tt.args)
			assert.True(t, result.IsError)
			assert.Contains(t, out, tt.contains)
		})
	}
}

func TestAudioAnalyze_MissingKey(t *testing.T) {
	gemini := analysistest.NewGeminiServer(t, analysistest.ResultJSON)
	s := setup(t, &config.Config{GeminiBaseURL: gemini.URL})

	result, out := call(t, s, "audio_analyze", map[string]any{"path": writeAudio(t, "a.mp3")})
	assert.True(t, result.IsError)
	assert.Contains(t, out, "No API key configured")
	assert.Zero(t, gemini.Calls())
}

func TestAudioAnalyzeBatch(t *testing.T) {
	gemini := analysistest.NewGeminiServer(t, analysistest.ResultJSON)
	s := setup(t, &config.Config{GeminiAPIKey: "k", GeminiBaseURL: gemini.URL})

	good := writeAudio(t, "a.mp3")
	missing := filepath.Join(t.TempDir(), "missing.mp3")

	result, out := call(t, s, "audio_analyze_batch", map[string]any{
		"paths":       []any{good, missing, good},
		"concurrency": 2.0,
	})
	require.False(t, result.IsError, out)

	var br batch.BatchResult
	require.NoError(t, json.Unmarshal([]byte(out), &br))
	assert.Equal(t, 3, br.Total)
	assert.Equal(t, 2, br.Successful)
	assert.Equal(t, 1, br.Failed)
	assert.Equal(t, missing, br.Results[1].ID)
	assert.Equal(t, batch.StatusError, br.Results[1].Status)
	assert.Equal(t, 2, gemini.Calls())
}

func TestAudioAnalyzeBatch_InvalidArgs(t *testing.T) {
	s := setup(t, &config.Config{})

	result, _ := call(t, s, "audio_analyze_batch", map[string]any{})
	assert.True(t, result.IsError)

	result, _ = call(t, s, "audio_analyze_batch", map[string]any{"paths": []any{}})
	assert.True(t, result.IsError)

	result, _ = call(t, s, "audio_analyze_batch", map[string]any{"paths": "a.mp3", "concurrency": "two"})
	assert.True(t, result.IsError)
}
