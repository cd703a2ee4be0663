package cmd

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teemow/audioinsight/internal/settings"
)

func connectDrive(t *testing.T, e *cliEnv, handler http.HandlerFunc) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	t.Setenv("DRIVE_ENDPOINT", srv.URL+"/")

	store, err := settings.OpenFileStore(e.settings)
	require.NoError(t, err)
	require.NoError(t, store.Set(settings.KeyDriveAccessToken, "drive-token"))
}

func TestDriveStatus(t *testing.T) {
	e := newCLIEnv(t)

	out, _, err := e.run(t, "drive", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "not connected")

	connectDrive(t, e, func(w http.ResponseWriter, _ *http.Request) {})
	out, _, err = e.run(t, "drive", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "Google Drive: connected")
}

func TestDriveList(t *testing.T) {
	e := newCLIEnv(t)
	connectDrive(t, e, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer drive-token", r.Header.Get("Authorization"))
		assert.Equal(t, "5", r.URL.Query().Get("pageSize"))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"nextPageToken": "next-1",
			"files": []any{
				map[string]any{
					"id":           "f1",
					"name":         "standup.m4a",
					"mimeType":     "audio/mp4",
					"size":         "2097152",
					"modifiedTime": "2026-03-01T10:00:00Z",
				},
			},
		})
	})

	out, _, err := e.run(t, "drive", "list", "-n", "5")
	require.NoError(t, err)
	assert.Contains(t, out, "f1")
	assert.Contains(t, out, "standup.m4a")
	assert.Contains(t, out, "2.0 MiB")
	assert.Contains(t, out, "--page-token next-1")
}

func TestDriveList_AuthExpired(t *testing.T) {
	e := newCLIEnv(t)
	connectDrive(t, e, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error":{"code":401,"message":"Invalid Credentials"}}`, http.StatusUnauthorized)
	})

	_, _, err := e.run(t, "drive", "list")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "drive login")

	store, err := settings.OpenFileStore(e.settings)
	require.NoError(t, err)
	_, ok := store.Get(settings.KeyDriveAccessToken)
	assert.False(t, ok)
}

func TestDriveList_NotConnected(t *testing.T) {
	e := newCLIEnv(t)

	_, _, err := e.run(t, "drive", "list")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "audioinsight drive login")
}

func TestDriveLogout(t *testing.T) {
	e := newCLIEnv(t)
	connectDrive(t, e, func(w http.ResponseWriter, _ *http.Request) {})

	out, _, err := e.run(t, "drive", "logout")
	require.NoError(t, err)
	assert.Contains(t, out, "disconnected")

	out, _, err = e.run(t, "drive", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "not connected")
}

func TestDriveLogin_NoClient(t *testing.T) {
	e := newCLIEnv(t)

	_, _, err := e.run(t, "drive", "login", "--no-browser")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "client ID")
}

func TestFormatSize(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "-"},
		{512, "512 B"},
		{1024, "1.0 KiB"},
		{1536, "1.5 KiB"},
		{5 * 1024 * 1024, "5.0 MiB"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatSize(tt.in))
	}
}
