package drive

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
	drive "google.golang.org/api/drive/v3"
)

// fakeDrive is a minimal Drive v3 files endpoint.
type fakeDrive struct {
	mu        sync.Mutex
	token     string
	files     map[string]string // id -> content
	status    int               // forced status for every request, 0 = normal
	lastQuery map[string]string
}

func newFakeDrive(t *testing.T, token string) (*fakeDrive, *httptest.Server) {
	t.Helper()
	fd := &fakeDrive{
		token: token,
		files: map[string]string{"rec1": "ID3 audio bytes"},
	}
	srv := httptest.NewServer(fd)
	t.Cleanup(srv.Close)
	return fd, srv
}

func (fd *fakeDrive) setStatus(code int) {
	fd.mu.Lock()
	defer fd.mu.Unlock()
	fd.status = code
}

func (fd *fakeDrive) query() map[string]string {
	fd.mu.Lock()
	defer fd.mu.Unlock()
	return fd.lastQuery
}

func writeAPIError(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]any{"code": code, "message": msg},
	})
}

func (fd *fakeDrive) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	fd.mu.Lock()
	status := fd.status
	fd.lastQuery = map[string]string{}
	for k := range r.URL.Query() {
		fd.lastQuery[k] = r.URL.Query().Get(k)
	}
	fd.mu.Unlock()

	if status != 0 {
		writeAPIError(w, status, http.StatusText(status))
		return
	}
	if r.Header.Get("Authorization") != "Bearer "+fd.token {
		writeAPIError(w, http.StatusUnauthorized, "Invalid Credentials")
		return
	}

	path := strings.TrimPrefix(r.URL.Path, "/")
	switch {
	case path == "files":
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{
			"nextPageToken": "page-2",
			"files": [
				{"id": "rec1", "name": "standup.mp3", "mimeType": "audio/mpeg", "size": "15", "modifiedTime": "2024-03-01T09:30:00Z"},
				{"id": "vid1", "name": "demo.mp4", "mimeType": "video/mp4"}
			]
		}`)
	case strings.HasPrefix(path, "files/"):
		id := strings.TrimPrefix(path, "files/")
		content, ok := fd.files[id]
		if !ok {
			writeAPIError(w, http.StatusNotFound, "File not found: "+id)
			return
		}
		if r.URL.Query().Get("alt") == "media" {
			_, _ = io.WriteString(w, content)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id": id, "name": "standup.mp3", "mimeType": "audio/mpeg", "size": "15",
		})
	default:
		http.NotFound(w, r)
	}
}

func newTestClient(t *testing.T, srv *httptest.Server, token string) *Client {
	t.Helper()
	c, err := NewClient(context.Background(), &oauth2.Token{AccessToken: token, TokenType: "Bearer"},
		WithEndpoint(srv.URL+"/"))
	require.NoError(t, err)
	return c
}

func TestClient_ListAudioFiles(t *testing.T) {
	fd, srv := newFakeDrive(t, "tok")
	c := newTestClient(t, srv, "tok")

	files, next, err := c.ListAudioFiles(context.Background(), nil)
	require.NoError(t, err)

	assert.Equal(t, "page-2", next)
	require.Len(t, files, 2)
	assert.Equal(t, "rec1", files[0].ID)
	assert.Equal(t, "standup.mp3", files[0].Name)
	assert.Equal(t, "audio/mpeg", files[0].MimeType)
	assert.Equal(t, int64(15), files[0].Size)
	assert.Equal(t, time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC), files[0].ModifiedTime)
	assert.Zero(t, files[1].Size)

	q := fd.query()
	assert.Equal(t, AudioQuery, q["q"])
	assert.Equal(t, "20", q["pageSize"])
	assert.Contains(t, q["fields"], "files(id, name, mimeType, size")
}

func TestClient_ListAudioFiles_Options(t *testing.T) {
	fd, srv := newFakeDrive(t, "tok")
	c := newTestClient(t, srv, "tok")

	_, _, err := c.ListAudioFiles(context.Background(), &ListOptions{
		MaxResults:   5000,
		PageToken:    "page-2",
		NameContains: "it's",
	})
	require.NoError(t, err)

	q := fd.query()
	assert.Equal(t, "1000", q["pageSize"])
	assert.Equal(t, "page-2", q["pageToken"])
	assert.Equal(t, AudioQuery+` and name contains 'it\'s'`, q["q"])
}

func TestClient_GetAndDownload(t *testing.T) {
	_, srv := newFakeDrive(t, "tok")
	c := newTestClient(t, srv, "tok")

	info, err := c.GetFile(context.Background(), "rec1")
	require.NoError(t, err)
	assert.Equal(t, "standup.mp3", info.Name)

	data, err := c.DownloadFile(context.Background(), "rec1")
	require.NoError(t, err)
	assert.Equal(t, "ID3 audio bytes", string(data))

	_, err = c.DownloadFile(context.Background(), "")
	assert.Error(t, err)
	_, err = c.GetFile(context.Background(), "")
	assert.Error(t, err)
}

func TestConvertToFileInfo(t *testing.T) {
	info := convertToFileInfo(&drive.File{
		Id:           "file123",
		Name:         "call.m4a",
		MimeType:     "audio/mp4",
		Size:         1024,
		ModifiedTime: "not-a-time",
	})

	assert.Equal(t, "file123", info.ID)
	assert.Equal(t, "call.m4a", info.Name)
	assert.Equal(t, "audio/mp4", info.MimeType)
	assert.Equal(t, int64(1024), info.Size)
	assert.True(t, info.ModifiedTime.IsZero())
}

func TestEscapeQuery(t *testing.T) {
	assert.Equal(t, `O\'Brien`, escapeQuery("O'Brien"))
	assert.Equal(t, `a\\b`, escapeQuery(`a\b`))
}
