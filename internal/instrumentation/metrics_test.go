package instrumentation

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func newTestMetrics(t *testing.T) (*Metrics, *sdkmetric.ManualReader) {
	t.Helper()

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })

	m, err := NewMetrics(mp.Meter("test"))
	require.NoError(t, err)
	return m, reader
}

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Metrics {
	t.Helper()

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	out := map[string]metricdata.Metrics{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m
		}
	}
	return out
}

func counterValue(t *testing.T, m metricdata.Metrics, attrs ...attribute.KeyValue) int64 {
	t.Helper()

	sum, ok := m.Data.(metricdata.Sum[int64])
	require.True(t, ok, "metric %s is not an int64 sum", m.Name)

	want := attribute.NewSet(attrs...)
	for _, dp := range sum.DataPoints {
		if dp.Attributes.Equals(&want) {
			return dp.Value
		}
	}
	return 0
}

func TestMetrics_RecordAnalysisRequest(t *testing.T) {
	m, reader := newTestMetrics(t)
	ctx := context.Background()

	m.RecordAnalysisRequest(ctx, "gemini", StatusSuccess, 2*time.Second)
	m.RecordAnalysisRequest(ctx, "gemini", StatusSuccess, 3*time.Second)
	m.RecordAnalysisRequest(ctx, "gemini", StatusError, time.Second)
	m.RecordAnalysisDegraded(ctx, "gemini")

	got := collect(t, reader)

	total := got["analysis_requests_total"]
	assert.Equal(t, int64(2), counterValue(t, total,
		attribute.String("provider", "gemini"), attribute.String("status", StatusSuccess)))
	assert.Equal(t, int64(1), counterValue(t, total,
		attribute.String("provider", "gemini"), attribute.String("status", StatusError)))

	assert.Equal(t, int64(1), counterValue(t, got["analysis_degraded_total"],
		attribute.String("provider", "gemini")))

	hist, ok := got["analysis_request_duration_seconds"].Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	var count uint64
	for _, dp := range hist.DataPoints {
		count += dp.Count
	}
	assert.Equal(t, uint64(3), count)
}

func TestMetrics_RecordGoogleAPIOperation(t *testing.T) {
	m, reader := newTestMetrics(t)
	ctx := context.Background()

	m.RecordGoogleAPIOperation(ctx, ServiceDrive, OperationList, StatusSuccess, 200*time.Millisecond)
	m.RecordGoogleAPIOperation(ctx, ServiceDrive, OperationDownload, StatusError, time.Second)

	got := collect(t, reader)
	total := got["google_api_operations_total"]
	assert.Equal(t, int64(1), counterValue(t, total,
		attribute.String("service", ServiceDrive),
		attribute.String("operation", OperationList),
		attribute.String("status", StatusSuccess)))
	assert.Equal(t, int64(1), counterValue(t, total,
		attribute.String("service", ServiceDrive),
		attribute.String("operation", OperationDownload),
		attribute.String("status", StatusError)))
}

func TestMetrics_RecordOAuthAuthAndTools(t *testing.T) {
	m, reader := newTestMetrics(t)
	ctx := context.Background()

	m.RecordOAuthAuth(ctx, OAuthResultSuccess)
	m.RecordOAuthAuth(ctx, OAuthResultCancelled)
	m.RecordToolInvocation(ctx, "audio_analyze", StatusSuccess, 5*time.Second)

	got := collect(t, reader)
	assert.Equal(t, int64(1), counterValue(t, got["oauth_auth_total"], attribute.String("result", OAuthResultSuccess)))
	assert.Equal(t, int64(1), counterValue(t, got["oauth_auth_total"], attribute.String("result", OAuthResultCancelled)))
	assert.Equal(t, int64(1), counterValue(t, got["mcp_tool_invocations_total"],
		attribute.String("tool", "audio_analyze"), attribute.String("status", StatusSuccess)))
}

func TestMetrics_NilSafe(t *testing.T) {
	ctx := context.Background()

	var nilMetrics *Metrics
	zero := &Metrics{}

	for _, m := range []*Metrics{nilMetrics, zero} {
		m.RecordAnalysisRequest(ctx, "gemini", StatusSuccess, time.Second)
		m.RecordAnalysisDegraded(ctx, "gemini")
		m.RecordGoogleAPIOperation(ctx, ServiceDrive, OperationGet, StatusSuccess, time.Second)
		m.RecordOAuthAuth(ctx, OAuthResultFailure)
		m.RecordToolInvocation(ctx, "drive_status", StatusError, time.Second)
	}
}
