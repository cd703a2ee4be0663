// Package instrumentation provides OpenTelemetry metrics and tracing for
// audioinsight.
//
// A Provider is built from Config (read from the environment by LoadConfig)
// and installs global meter and tracer providers. Metrics are exported to the
// default Prometheus registry, an OTLP HTTP collector, or stderr.
//
// # Metrics
//
//   - analysis_requests_total, analysis_request_duration_seconds (provider, status)
//   - analysis_degraded_total (provider)
//   - google_api_operations_total, google_api_operation_duration_seconds (service, operation, status)
//   - oauth_auth_total (result)
//   - mcp_tool_invocations_total, mcp_tool_duration_seconds (tool, status)
//
// Labels never carry file names, file IDs or full MIME types; MediaFamily
// reduces a MIME type to audio, video or other.
//
// # Usage
//
//	provider, err := instrumentation.NewProvider(ctx, cfg)
//	if err != nil {
//	    return err
//	}
//	defer provider.Shutdown(ctx)
//
//	analyzer := analysis.NewAnalyzer(gen, analysis.WithMetrics(provider.Metrics()))
//
// A nil *Metrics is a valid no-op recorder, so components can be constructed
// without instrumentation in tests.
package instrumentation
