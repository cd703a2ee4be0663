package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/audioinsight/internal/config"
	"github.com/teemow/audioinsight/internal/instrumentation"
	"github.com/teemow/audioinsight/internal/resources"
	"github.com/teemow/audioinsight/internal/server"
	"github.com/teemow/audioinsight/internal/tools/analysis_tools"
	"github.com/teemow/audioinsight/internal/tools/drive_tools"
)

const serverInstructions = `audioinsight analyzes audio and video recordings.
Use audio_analyze with a local path or a Google Drive file ID to get a
transcription with speaker labels, a summary and action items.
Use drive_list_audio_files to find recordings in Google Drive; run
'audioinsight drive login' first if drive_status reports no connection.`

func newServeCmd(root *rootOptions) *cobra.Command {
	var metricsAddr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server on stdio",
		Long: `Start the MCP (Model Context Protocol) server on stdio so AI assistants can
analyze recordings and browse Google Drive.

Logs are written to stderr. Metrics and tracing are configured through the
OpenTelemetry environment variables (METRICS_EXPORTER, TRACING_EXPORTER,
OTEL_EXPORTER_OTLP_ENDPOINT, ...). With --metrics-addr and the prometheus
exporter, /metrics and health endpoints are served on that address.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, root, metricsAddr)
		},
	}

	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "Serve /metrics and health checks on this address (e.g. :9090)")

	return cmd
}

func runServe(cmd *cobra.Command, root *rootOptions, metricsAddr string) error {
	ctx := cmd.Context()

	rt, err := root.load(cmd, config.Overrides{})
	if err != nil {
		return err
	}

	instrConfig, err := instrumentation.LoadConfig()
	if err != nil {
		return err
	}
	instrConfig.ServiceVersion = version

	provider, err := instrumentation.NewProvider(ctx, instrConfig)
	if err != nil {
		return fmt.Errorf("failed to create instrumentation provider: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := provider.Shutdown(shutdownCtx); err != nil {
			rt.logger.Warn("instrumentation shutdown failed", slog.Any("error", err))
		}
	}()

	audit := instrumentation.NewAuditLogger(rt.logger)
	audit.SetEnabled(instrConfig.AuditLogging)

	serverContext, err := rt.serverContext(ctx, provider, audit)
	if err != nil {
		return err
	}
	defer func() {
		if err := serverContext.Shutdown(); err != nil {
			rt.logger.Warn("server context shutdown failed", slog.Any("error", err))
		}
	}()

	if metricsAddr != "" {
		metricsServer, err := startMetricsServer(rt.logger, metricsAddr, provider, serverContext)
		if err != nil {
			return err
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), server.DefaultShutdownTimeout)
			defer cancel()
			if err := metricsServer.Shutdown(shutdownCtx); err != nil {
				rt.logger.Warn("metrics server shutdown failed", slog.Any("error", err))
			}
		}()
	}

	mcpSrv := newMCPServer()
	if err := registerAllTools(mcpSrv, serverContext); err != nil {
		return err
	}

	rt.logger.Info("starting MCP server", slog.String("transport", "stdio"), slog.String("version", version))
	return runStdioServer(ctx, mcpSrv)
}

func newMCPServer() *mcpserver.MCPServer {
	return mcpserver.NewMCPServer("audioinsight", version,
		mcpserver.WithToolCapabilities(true),
		mcpserver.WithResourceCapabilities(false, false),
		mcpserver.WithInstructions(serverInstructions),
	)
}

// startMetricsServer starts the metrics server and waits until it listens
// or fails.
func startMetricsServer(logger *slog.Logger, addr string, provider *instrumentation.Provider, sc *server.ServerContext) (*server.MetricsServer, error) {
	health := server.NewHealthChecker(sc)
	health.SetReady(false)
	metricsServer, err := server.NewMetricsServer(server.MetricsServerConfig{
		Addr:                    addr,
		Enabled:                 true,
		InstrumentationProvider: provider,
		Health:                  health,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create metrics server: %w", err)
	}

	metricsErr := make(chan error, 1)
	go func() {
		if err := metricsServer.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			metricsErr <- err
		}
		close(metricsErr)
	}()

	select {
	case err := <-metricsErr:
		if err != nil {
			return nil, fmt.Errorf("metrics server failed to start: %w", err)
		}
	case <-time.After(200 * time.Millisecond):
	}

	health.SetReady(true)
	logger.Info("metrics server started", slog.String("addr", metricsServer.Addr()))
	return metricsServer, nil
}

// runStdioServer serves until stdin closes or ctx is cancelled.
func runStdioServer(ctx context.Context, mcpSrv *mcpserver.MCPServer) error {
	serverDone := make(chan error, 1)
	go func() {
		defer close(serverDone)
		if err := mcpserver.ServeStdio(mcpSrv); err != nil {
			serverDone <- err
		}
	}()

	select {
	case err := <-serverDone:
		if err != nil {
			return fmt.Errorf("server stopped with error: %w", err)
		}
		return nil
	case <-ctx.Done():
		return nil
	}
}

// registerAllTools registers every MCP tool group and the status resources.
func registerAllTools(mcpSrv *mcpserver.MCPServer, sc *server.ServerContext) error {
	registrations := []struct {
		name     string
		register func(*mcpserver.MCPServer, *server.ServerContext) error
	}{
		{name: "analysis", register: analysis_tools.RegisterAnalysisTools},
		{name: "Google Drive", register: drive_tools.RegisterDriveTools},
		{name: "resource", register: resources.RegisterResources},
	}

	for _, reg := range registrations {
		if err := reg.register(mcpSrv, sc); err != nil {
			return fmt.Errorf("failed to register %s tools: %w", reg.name, err)
		}
	}
	return nil
}
