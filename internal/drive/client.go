package drive

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/oauth2"
	drive "google.golang.org/api/drive/v3"
	"google.golang.org/api/option"

	"github.com/teemow/audioinsight/internal/instrumentation"
	"github.com/teemow/audioinsight/internal/logging"
)

const listFields = "nextPageToken, files(id, name, mimeType, size, modifiedTime)"
const getFields = "id, name, mimeType, size, modifiedTime"

// Client wraps the Google Drive API service with a fixed bearer token.
type Client struct {
	service *drive.Service
	metrics *instrumentation.Metrics
	logger  *slog.Logger
}

// ClientOption configures a Client.
type ClientOption func(*clientOptions)

type clientOptions struct {
	endpoint string
	metrics  *instrumentation.Metrics
	logger   *slog.Logger
}

// WithEndpoint overrides the Drive API base URL (used for tests and proxies).
func WithEndpoint(endpoint string) ClientOption {
	return func(o *clientOptions) {
		o.endpoint = endpoint
	}
}

// WithMetrics records Google API metrics for every call.
func WithMetrics(m *instrumentation.Metrics) ClientOption {
	return func(o *clientOptions) {
		o.metrics = m
	}
}

// WithLogger sets the logger for API calls.
func WithLogger(l *slog.Logger) ClientOption {
	return func(o *clientOptions) {
		o.logger = l
	}
}

// NewClient creates a Drive client that authenticates every request with token.
func NewClient(ctx context.Context, token *oauth2.Token, opts ...ClientOption) (*Client, error) {
	o := clientOptions{logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}

	httpClient := oauth2.NewClient(ctx, oauth2.StaticTokenSource(token))

	svcOpts := []option.ClientOption{option.WithHTTPClient(httpClient)}
	if o.endpoint != "" {
		svcOpts = append(svcOpts, option.WithEndpoint(o.endpoint))
	}

	service, err := drive.NewService(ctx, svcOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Drive service: %w", err)
	}

	return &Client{
		service: service,
		metrics: o.metrics,
		logger:  logging.WithOperation(o.logger, "drive"),
	}, nil
}

// observe wraps one API call with a span and metrics.
func (c *Client) observe(ctx context.Context, operation string, fileID string, call func(context.Context) error) error {
	var attrs []attribute.KeyValue
	if fileID != "" {
		attrs = append(attrs, attribute.String(instrumentation.SpanAttrFileID, fileID))
	}
	ctx, span := instrumentation.StartGoogleAPISpan(ctx, instrumentation.ServiceDrive, operation, attrs...)
	defer span.End()

	start := time.Now()
	err := call(ctx)
	duration := time.Since(start)

	status := instrumentation.StatusSuccess
	if err != nil {
		status = instrumentation.StatusError
		instrumentation.SetSpanError(span, err)
	} else {
		instrumentation.SetSpanSuccess(span)
	}
	c.metrics.RecordGoogleAPIOperation(ctx, instrumentation.ServiceDrive, operation, status, duration)
	c.logger.Debug("drive call finished",
		slog.String("call", operation),
		logging.Status(status),
		slog.Duration(logging.KeyDuration, duration),
	)
	return err
}

// ListAudioFiles lists audio and MP4 files, newest first.
// It returns the files and the token for the next page ("" on the last page).
func (c *Client) ListAudioFiles(ctx context.Context, options *ListOptions) ([]*FileInfo, string, error) {
	if options == nil {
		options = &ListOptions{}
	}

	pageSize := options.MaxResults
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}

	query := AudioQuery
	if options.NameContains != "" {
		query += fmt.Sprintf(" and name contains '%s'", escapeQuery(options.NameContains))
	}

	var files []*FileInfo
	var next string
	err := c.observe(ctx, instrumentation.OperationList, "", func(ctx context.Context) error {
		call := c.service.Files.List().
			Context(ctx).
			Q(query).
			PageSize(int64(pageSize)).
			OrderBy("modifiedTime desc").
			Fields(listFields)
		if options.PageToken != "" {
			call = call.PageToken(options.PageToken)
		}

		fileList, err := call.Do()
		if err != nil {
			return fmt.Errorf("failed to list files: %w", err)
		}

		files = make([]*FileInfo, len(fileList.Files))
		for i, f := range fileList.Files {
			files[i] = convertToFileInfo(f)
		}
		next = fileList.NextPageToken
		return nil
	})
	if err != nil {
		return nil, "", err
	}
	return files, next, nil
}

// GetFile retrieves metadata for a specific file
func (c *Client) GetFile(ctx context.Context, fileID string) (*FileInfo, error) {
	if fileID == "" {
		return nil, fmt.Errorf("fileID is required")
	}

	var info *FileInfo
	err := c.observe(ctx, instrumentation.OperationGet, fileID, func(ctx context.Context) error {
		file, err := c.service.Files.Get(fileID).Context(ctx).Fields(getFields).Do()
		if err != nil {
			return fmt.Errorf("failed to get file %s: %w", fileID, err)
		}
		info = convertToFileInfo(file)
		return nil
	})
	return info, err
}

// DownloadFile downloads the full content of a file.
func (c *Client) DownloadFile(ctx context.Context, fileID string) ([]byte, error) {
	if fileID == "" {
		return nil, fmt.Errorf("fileID is required")
	}

	var data []byte
	err := c.observe(ctx, instrumentation.OperationDownload, fileID, func(ctx context.Context) error {
		resp, err := c.service.Files.Get(fileID).Context(ctx).Download()
		if err != nil {
			return fmt.Errorf("failed to download file %s: %w", fileID, err)
		}
		defer func() { _ = resp.Body.Close() }()

		data, err = io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("failed to read file %s: %w", fileID, err)
		}
		return nil
	})
	return data, err
}

// escapeQuery escapes a value for use inside a single-quoted Drive query string.
func escapeQuery(s string) string {
	return strings.NewReplacer(`\`, `\\`, `'`, `\'`).Replace(s)
}

// convertToFileInfo converts a Drive API File to our FileInfo type
func convertToFileInfo(f *drive.File) *FileInfo {
	info := &FileInfo{
		ID:       f.Id,
		Name:     f.Name,
		MimeType: f.MimeType,
		Size:     f.Size,
	}
	if f.ModifiedTime != "" {
		if t, err := time.Parse(time.RFC3339, f.ModifiedTime); err == nil {
			info.ModifiedTime = t
		}
	}
	return info
}
