package analysis

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/teemow/audioinsight/internal/instrumentation"
	"github.com/teemow/audioinsight/internal/logging"
)

// Analyzer sends audio payloads to a Generator and normalizes the response.
// It holds no per-call state and is safe for concurrent use.
type Analyzer struct {
	generator Generator
	logger    *slog.Logger
	metrics   *instrumentation.Metrics
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithLogger sets the logger used for request and degrade events.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Analyzer) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// WithMetrics sets the metrics recorder. A nil recorder disables metrics.
func WithMetrics(metrics *instrumentation.Metrics) Option {
	return func(a *Analyzer) {
		a.metrics = metrics
	}
}

// NewAnalyzer creates an Analyzer backed by the given generator.
func NewAnalyzer(generator Generator, opts ...Option) *Analyzer {
	a := &Analyzer{
		generator: generator,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Provider returns the name of the underlying generator.
func (a *Analyzer) Provider() string {
	return a.generator.Name()
}

// Analyze transcribes and summarizes a base64-encoded audio or video payload.
//
// Exactly one generator call is made per invocation. A response that cannot be
// parsed as JSON is not an error: the raw text becomes the transcription. Any
// failure of the call itself is returned as a *RequestError.
func (a *Analyzer) Analyze(ctx context.Context, audioBase64, mimeType, apiKey string) (Result, error) {
	if strings.TrimSpace(audioBase64) == "" {
		return Result{}, fmt.Errorf("%w: audio payload is required", ErrInvalidInput)
	}
	if strings.TrimSpace(mimeType) == "" {
		return Result{}, fmt.Errorf("%w: MIME type is required", ErrInvalidInput)
	}
	if strings.TrimSpace(apiKey) == "" {
		return Result{}, fmt.Errorf("%w: API key is required", ErrInvalidInput)
	}

	data, err := base64.StdEncoding.DecodeString(audioBase64)
	if err != nil {
		return Result{}, fmt.Errorf("%w: payload is not valid base64: %v", ErrInvalidInput, err)
	}

	provider := a.generator.Name()
	logger := a.logger.With(
		logging.RequestID(uuid.NewString()),
		logging.Provider(provider),
		logging.Model(a.generator.Model()),
	)

	ctx, span := instrumentation.StartAnalysisSpan(ctx, provider, a.generator.Model(), mimeType)
	defer span.End()

	logger.Debug("sending analysis request",
		logging.MimeType(mimeType),
		slog.Int("payload_bytes", len(data)),
		slog.String("api_key", logging.SanitizeToken(apiKey)),
	)

	start := time.Now()
	raw, err := a.generator.Generate(ctx, GenerateRequest{
		Data:     data,
		MIMEType: mimeType,
		Prompt:   AnalysisPrompt,
		APIKey:   apiKey,
	})
	duration := time.Since(start)

	if err != nil {
		reqErr := newRequestError(provider, err)
		a.metrics.RecordAnalysisRequest(ctx, provider, instrumentation.StatusError, duration)
		instrumentation.SetSpanError(span, reqErr)
		logger.Error("analysis request failed",
			logging.Err(err),
			slog.Int("status_code", reqErr.StatusCode),
			slog.Duration(logging.KeyDuration, duration),
		)
		return Result{}, reqErr
	}

	result, degraded := ParseResponse(raw)
	a.metrics.RecordAnalysisRequest(ctx, provider, instrumentation.StatusSuccess, duration)

	if degraded {
		a.metrics.RecordAnalysisDegraded(ctx, provider)
		instrumentation.AddSpanEvent(span, "analysis.degraded")
		logger.Warn("response was not valid JSON, returning raw text as transcription",
			slog.Int("response_chars", len(raw)),
		)
	}

	instrumentation.SetSpanSuccess(span)
	logger.Info("analysis completed",
		slog.Duration(logging.KeyDuration, duration),
		slog.Int("action_items", len(result.actionItems)),
		slog.Bool("degraded", degraded),
	)

	return result, nil
}
