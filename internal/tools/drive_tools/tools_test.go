package drive_tools

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teemow/audioinsight/internal/config"
	"github.com/teemow/audioinsight/internal/server"
	"github.com/teemow/audioinsight/internal/settings"
)

func newDriveServer(t *testing.T, status int) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if status != http.StatusOK {
			w.WriteHeader(status)
			_, _ = io.WriteString(w, `{"error":{"code":401,"message":"Invalid Credentials"}}`)
			return
		}
		assert.Equal(t, "5", r.URL.Query().Get("pageSize"))
		_, _ = io.WriteString(w, `{"nextPageToken":"next","files":[{"id":"f1","name":"call.mp3","mimeType":"audio/mpeg","size":"10"}]}`)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func setup(t *testing.T, endpoint string, token string) (*mcpserver.MCPServer, settings.Store) {
	t.Helper()
	store := settings.NewMemoryStore()
	if token != "" {
		require.NoError(t, store.Set(settings.KeyDriveAccessToken, token))
	}
	sc, err := server.NewServerContext(context.Background(), server.Options{
		Config: &config.Config{DriveEndpoint: endpoint + "/"},
		Store:  store,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = sc.Shutdown() })

	s := mcpserver.NewMCPServer("test", "0.0.0", mcpserver.WithToolCapabilities(true))
	require.NoError(t, RegisterDriveTools(s, sc))
	return s, store
}

func call(t *testing.T, s *mcpserver.MCPServer, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	tool, ok := s.ListTools()[name]
	require.True(t, ok, "tool %s not registered", name)

	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args
	result, err := tool.Handler(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, result)
	return result
}

func text(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, result.Content)
	tc, ok := mcp.AsTextContent(result.Content[0])
	require.True(t, ok)
	return tc.Text
}

func TestRegisterDriveTools(t *testing.T) {
	s, _ := setup(t, "http://127.0.0.1:1", "")
	tools := s.ListTools()
	assert.Contains(t, tools, "drive_list_audio_files")
	assert.Contains(t, tools, "drive_status")
}

func TestDriveStatus(t *testing.T) {
	s, store := setup(t, "http://127.0.0.1:1", "")

	var resp statusResponse
	require.NoError(t, json.Unmarshal([]byte(text(t, call(t, s, "drive_status", nil))), &resp))
	assert.False(t, resp.Connected)

	require.NoError(t, store.Set(settings.KeyDriveAccessToken, "tok"))
	require.NoError(t, json.Unmarshal([]byte(text(t, call(t, s, "drive_status", nil))), &resp))
	assert.True(t, resp.Connected)
}

func TestListAudioFiles(t *testing.T) {
	srv := newDriveServer(t, http.StatusOK)
	s, _ := setup(t, srv.URL, "tok")

	result := call(t, s, "drive_list_audio_files", map[string]any{"max_results": 5.0})
	require.False(t, result.IsError, text(t, result))

	var resp listResponse
	require.NoError(t, json.Unmarshal([]byte(text(t, result)), &resp))
	require.Len(t, resp.Files, 1)
	assert.Equal(t, "f1", resp.Files[0].ID)
	assert.Equal(t, "next", resp.NextPageToken)
}

func TestListAudioFiles_NotConnected(t *testing.T) {
	s, _ := setup(t, "http://127.0.0.1:1", "")

	result := call(t, s, "drive_list_audio_files", nil)
	assert.True(t, result.IsError)
	assert.Contains(t, text(t, result), "drive login")
}

func TestListAudioFiles_AuthExpired(t *testing.T) {
	srv := newDriveServer(t, http.StatusUnauthorized)
	s, store := setup(t, srv.URL, "stale")

	result := call(t, s, "drive_list_audio_files", map[string]any{"max_results": 5.0})
	assert.True(t, result.IsError)
	assert.Contains(t, text(t, result), "expired")

	_, ok := store.Get(settings.KeyDriveAccessToken)
	assert.False(t, ok)
}

func TestListAudioFiles_InvalidMaxResults(t *testing.T) {
	s, _ := setup(t, "http://127.0.0.1:1", "tok")

	result := call(t, s, "drive_list_audio_files", map[string]any{"max_results": "ten"})
	assert.True(t, result.IsError)
}
