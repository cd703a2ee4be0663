package drive

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"slices"

	"golang.org/x/oauth2"
	"google.golang.org/api/googleapi"

	"github.com/teemow/audioinsight/internal/google"
	"github.com/teemow/audioinsight/internal/logging"
)

var (
	// ErrNotConnected means no Drive access token is stored.
	ErrNotConnected = errors.New("Google Drive is not connected")

	// ErrAuthExpired means Drive rejected the stored token. The token has been
	// cleared and the user must authorize again.
	ErrAuthExpired = errors.New("Google Drive authorization expired")

	// ErrListingFailed wraps any other failure while listing files.
	ErrListingFailed = errors.New("failed to list Drive files")

	// ErrDownloadFailed wraps any other failure while fetching a file.
	ErrDownloadFailed = errors.New("failed to download Drive file")

	// ErrFileNotFound means the file does not exist or is not visible to the user.
	ErrFileNotFound = errors.New("Drive file not found")
)

// Session binds Drive access to the stored token. A rejected token is
// cleared so the next call reports ErrNotConnected until the user logs in
// again; the AI credential is never touched.
type Session struct {
	tokens     google.TokenProvider
	clientOpts []ClientOption
	logger     *slog.Logger
}

// NewSession creates a Session. opts are applied to every Client it creates.
func NewSession(tokens google.TokenProvider, logger *slog.Logger, opts ...ClientOption) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	return &Session{
		tokens:     tokens,
		clientOpts: append(slices.Clone(opts), WithLogger(logger)),
		logger:     logger,
	}
}

// Connected reports whether a Drive token is stored.
func (s *Session) Connected() bool {
	return s.tokens.HasToken()
}

// Logout forgets the stored token.
func (s *Session) Logout() error {
	return s.tokens.ClearToken()
}

func (s *Session) client(ctx context.Context) (*Client, error) {
	tok, err := s.tokens.Token(ctx)
	if errors.Is(err, google.ErrNoToken) {
		return nil, ErrNotConnected
	}
	if err != nil {
		return nil, err
	}
	return NewClient(ctx, &oauth2.Token{AccessToken: tok.AccessToken, TokenType: tok.TokenType}, s.clientOpts...)
}

// ListAudioFiles lists audio files with the stored token.
func (s *Session) ListAudioFiles(ctx context.Context, options *ListOptions) ([]*FileInfo, string, error) {
	c, err := s.client(ctx)
	if err != nil {
		return nil, "", err
	}
	files, next, err := c.ListAudioFiles(ctx, options)
	if err != nil {
		return nil, "", s.classify(err, ErrListingFailed)
	}
	return files, next, nil
}

// GetFile fetches the metadata of one file.
func (s *Session) GetFile(ctx context.Context, fileID string) (*FileInfo, error) {
	c, err := s.client(ctx)
	if err != nil {
		return nil, err
	}
	info, err := c.GetFile(ctx, fileID)
	if err != nil {
		return nil, s.classify(err, ErrDownloadFailed)
	}
	return info, nil
}

// DownloadFile fetches the content of one file.
func (s *Session) DownloadFile(ctx context.Context, fileID string) ([]byte, error) {
	c, err := s.client(ctx)
	if err != nil {
		return nil, err
	}
	data, err := c.DownloadFile(ctx, fileID)
	if err != nil {
		return nil, s.classify(err, ErrDownloadFailed)
	}
	return data, nil
}

// classify maps an API error to the session error kinds. A 401 clears the
// stored token.
func (s *Session) classify(err error, kind error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusUnauthorized:
			if clearErr := s.tokens.ClearToken(); clearErr != nil {
				s.logger.Error("failed to clear rejected Drive token", logging.Err(clearErr))
			}
			s.logger.Warn("Drive rejected the access token, logged out")
			return fmt.Errorf("%w: %w", ErrAuthExpired, err)
		case http.StatusNotFound:
			return fmt.Errorf("%w: %w", ErrFileNotFound, err)
		}
	}
	return fmt.Errorf("%w: %w", kind, err)
}
