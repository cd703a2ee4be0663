package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"go.opentelemetry.io/otel/attribute"

	"github.com/teemow/audioinsight/internal/analysis"
	"github.com/teemow/audioinsight/internal/config"
	"github.com/teemow/audioinsight/internal/drive"
	"github.com/teemow/audioinsight/internal/export"
	"github.com/teemow/audioinsight/internal/google"
	"github.com/teemow/audioinsight/internal/instrumentation"
	"github.com/teemow/audioinsight/internal/logging"
	"github.com/teemow/audioinsight/internal/settings"
	"github.com/teemow/audioinsight/internal/source"
)

// Options configures a ServerContext.
type Options struct {
	Config *config.Config

	// Store holds credentials and the Drive token. Defaults to an in-memory store.
	Store settings.Store

	// Provider supplies metrics; nil disables them.
	Provider *instrumentation.Provider

	// AuditLogger records tool invocations; nil disables audit records.
	AuditLogger *instrumentation.AuditLogger

	Logger *slog.Logger
}

// ServerContext holds the dependencies shared by CLI commands and MCP tools.
type ServerContext struct {
	ctx         context.Context
	cancel      context.CancelFunc
	config      *config.Config
	store       settings.Store
	tokens      *google.StoreTokenProvider
	drive       *drive.Session
	resolver    *source.Resolver
	provider    *instrumentation.Provider
	auditLogger *instrumentation.AuditLogger
	logger      *slog.Logger
	mu          sync.RWMutex
	shutdown    bool
}

// NewServerContext creates a new server context
func NewServerContext(ctx context.Context, opts Options) (*ServerContext, error) {
	if opts.Config == nil {
		return nil, errors.New("config is required")
	}
	if opts.Store == nil {
		opts.Store = settings.NewMemoryStore()
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	shutdownCtx, cancel := context.WithCancel(ctx)

	sc := &ServerContext{
		ctx:         shutdownCtx,
		cancel:      cancel,
		config:      opts.Config,
		store:       opts.Store,
		tokens:      google.NewStoreTokenProvider(opts.Store),
		provider:    opts.Provider,
		auditLogger: opts.AuditLogger,
		logger:      opts.Logger,
	}

	driveOpts := []drive.ClientOption{drive.WithMetrics(sc.Metrics())}
	if opts.Config.DriveEndpoint != "" {
		driveOpts = append(driveOpts, drive.WithEndpoint(opts.Config.DriveEndpoint))
	}
	sc.drive = drive.NewSession(sc.tokens, opts.Logger, driveOpts...)
	sc.resolver = source.NewResolver(sc.drive)

	return sc, nil
}

// Context returns the server context
func (sc *ServerContext) Context() context.Context {
	return sc.ctx
}

// Config returns the loaded configuration.
func (sc *ServerContext) Config() *config.Config {
	return sc.config
}

// Store returns the settings store.
func (sc *ServerContext) Store() settings.Store {
	return sc.store
}

// Logger returns the application logger.
func (sc *ServerContext) Logger() *slog.Logger {
	return sc.logger
}

// Metrics returns the metrics recorder, or nil when instrumentation is off.
func (sc *ServerContext) Metrics() *instrumentation.Metrics {
	if sc.provider == nil || !sc.provider.Enabled() {
		return nil
	}
	return sc.provider.Metrics()
}

// AuditLogger returns the audit logger, or nil when auditing is off.
func (sc *ServerContext) AuditLogger() *instrumentation.AuditLogger {
	return sc.auditLogger
}

// DriveSession returns the Drive session bound to the stored token.
func (sc *ServerContext) DriveSession() *drive.Session {
	return sc.drive
}

// Resolver returns the source resolver. Remote sources download through the
// Drive session.
func (sc *ServerContext) Resolver() *source.Resolver {
	return sc.resolver
}

// RemoteSource looks up a Drive file so its name and MIME type travel with
// the reference.
func (sc *ServerContext) RemoteSource(ctx context.Context, fileID string) (source.RemoteReference, error) {
	info, err := sc.drive.GetFile(ctx, fileID)
	if err != nil {
		return source.RemoteReference{}, err
	}
	return source.FromFileInfo(info), nil
}

// Provider returns the AI provider that Analyze will use.
func (sc *ServerContext) Provider() (string, error) {
	return sc.config.ResolveProvider(sc.store)
}

// HasCredentials reports whether an API key for the active provider is available.
func (sc *ServerContext) HasCredentials() bool {
	_, _, err := sc.analyzer()
	return err == nil
}

func (sc *ServerContext) analyzer() (*analysis.Analyzer, string, error) {
	provider, err := sc.Provider()
	if err != nil {
		return nil, "", err
	}
	apiKey, err := sc.config.APIKey(provider, sc.store)
	if err != nil {
		return nil, "", err
	}
	gen, err := sc.config.Generator(provider)
	if err != nil {
		return nil, "", err
	}
	return analysis.NewAnalyzer(gen,
		analysis.WithLogger(sc.logger),
		analysis.WithMetrics(sc.Metrics()),
	), apiKey, nil
}

// Analysis is the outcome of analyzing one source.
type Analysis struct {
	// Name is the display name of the source.
	Name     string
	MIMEType string
	Provider string
	Result   analysis.Result

	baseName string
}

// Document returns the export input for this analysis.
func (a Analysis) Document() export.Document {
	return export.Document{Name: a.baseName, Result: a.Result}
}

// Analyze resolves src and sends it to the configured provider. The credential
// is checked before any download so a missing key fails fast.
func (sc *ServerContext) Analyze(ctx context.Context, src source.Source) (Analysis, error) {
	analyzer, apiKey, err := sc.analyzer()
	if err != nil {
		return Analysis{}, err
	}

	payload, err := sc.resolve(ctx, src)
	if err != nil {
		return Analysis{}, err
	}

	if sc.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, sc.config.Timeout)
		defer cancel()
	}

	result, err := analyzer.Analyze(ctx, payload.Base64, payload.MIMEType, apiKey)
	if err != nil {
		return Analysis{}, err
	}

	return Analysis{
		Name:     payload.Name,
		MIMEType: payload.MIMEType,
		Provider: analyzer.Provider(),
		Result:   result,
		baseName: payload.BaseName(),
	}, nil
}

func (sc *ServerContext) resolve(ctx context.Context, src source.Source) (source.Payload, error) {
	ctx, span := instrumentation.StartSpan(ctx, "source.resolve",
		attribute.String(instrumentation.SpanAttrSource, sourceKind(src)))
	defer span.End()

	payload, err := sc.resolver.Resolve(ctx, src)
	if err != nil {
		instrumentation.SetSpanError(span, err)
		return source.Payload{}, err
	}
	instrumentation.SetSpanSuccess(span)
	return payload, nil
}

func sourceKind(src source.Source) string {
	switch src.(type) {
	case source.RemoteReference, *source.RemoteReference:
		return "drive"
	default:
		return "local"
	}
}

// Authorizer builds the Drive OAuth flow from the configured client.
func (sc *ServerContext) Authorizer(opener google.Opener) (*google.Authorizer, error) {
	clientID, clientSecret, err := sc.config.OAuthClient(sc.store)
	if err != nil {
		return nil, err
	}
	a, err := google.NewAuthorizer(google.AuthorizerConfig{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Port:         sc.config.OAuthPort,
		Timeout:      sc.config.OAuthTimeout,
		Opener:       opener,
		Tokens:       sc.tokens,
		Logger:       logging.NewSlogAdapter(logging.WithOperation(sc.logger, "oauth")),
		Metrics:      sc.Metrics(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create authorizer: %w", err)
	}
	return a, nil
}

// IsShutdown returns whether the server has been shutdown
func (sc *ServerContext) IsShutdown() bool {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.shutdown
}

// Shutdown shuts down the server context
func (sc *ServerContext) Shutdown() error {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if sc.shutdown {
		return nil
	}

	sc.shutdown = true
	sc.cancel()
	return nil
}
