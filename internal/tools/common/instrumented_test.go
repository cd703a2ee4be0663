package common

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teemow/audioinsight/internal/config"
	"github.com/teemow/audioinsight/internal/instrumentation"
	"github.com/teemow/audioinsight/internal/server"
)

func newServerContext(t *testing.T, audit *instrumentation.AuditLogger) *server.ServerContext {
	t.Helper()
	sc, err := server.NewServerContext(context.Background(), server.Options{
		Config:      &config.Config{},
		AuditLogger: audit,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = sc.Shutdown() })
	return sc
}

func newAuditLogger(buf *bytes.Buffer) *instrumentation.AuditLogger {
	return instrumentation.NewAuditLogger(slog.New(slog.NewJSONHandler(buf, nil)))
}

func request(args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

func TestInstrumentedToolHandler_NoInstrumentation(t *testing.T) {
	sc := newServerContext(t, nil)

	called := false
	wrapped := InstrumentedToolHandler("test_tool", sc, func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		called = true
		return mcp.NewToolResultText("success"), nil
	})

	result, err := wrapped(context.Background(), mcp.CallToolRequest{})
	require.NoError(t, err)
	assert.True(t, called)
	assert.NotNil(t, result)
}

func TestInstrumentedToolHandler_AuditSuccess(t *testing.T) {
	var buf bytes.Buffer
	sc := newServerContext(t, newAuditLogger(&buf))

	wrapped := InstrumentedToolHandler("audio_analyze", sc, func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return mcp.NewToolResultText("ok"), nil
	})

	_, err := wrapped(context.Background(), request(map[string]any{"path": "/tmp/a.mp3"}))
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "tool_executed")
	assert.Contains(t, out, "audio_analyze")
	assert.Contains(t, out, SourceLocal)
	assert.NotContains(t, out, "/tmp/a.mp3")
}

func TestInstrumentedToolHandler_Error(t *testing.T) {
	var buf bytes.Buffer
	sc := newServerContext(t, newAuditLogger(&buf))

	expectedErr := errors.New("test error")
	wrapped := InstrumentedToolHandler("test_tool", sc, func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return nil, expectedErr
	})

	_, err := wrapped(context.Background(), mcp.CallToolRequest{})
	assert.Equal(t, expectedErr, err)
	assert.Contains(t, buf.String(), "tool_failed")
}

func TestInstrumentedToolHandler_ErrorResult(t *testing.T) {
	var buf bytes.Buffer
	sc := newServerContext(t, newAuditLogger(&buf))

	wrapped := InstrumentedToolHandlerWithService("drive_list_audio_files", "drive", "list", sc,
		func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return mcp.NewToolResultError("error message"), nil
		})

	result, err := wrapped(context.Background(), mcp.CallToolRequest{})
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.True(t, result.IsError)
	assert.Contains(t, buf.String(), "tool_failed")
}

func TestInstrumentedToolHandler_AuditDisabled(t *testing.T) {
	var buf bytes.Buffer
	audit := newAuditLogger(&buf)
	audit.SetEnabled(false)
	sc := newServerContext(t, audit)

	wrapped := InstrumentedToolHandler("test_tool", sc, func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return mcp.NewToolResultText("ok"), nil
	})
	_, err := wrapped(context.Background(), mcp.CallToolRequest{})
	require.NoError(t, err)
	assert.Empty(t, buf.String())
}

func TestInstrumentedToolHandler_RegistersWithAddTool(t *testing.T) {
	var buf bytes.Buffer
	sc := newServerContext(t, newAuditLogger(&buf))
	s := mcpserver.NewMCPServer("test", "1.0.0", mcpserver.WithToolCapabilities(true))

	s.AddTool(mcp.NewTool("echo_tool"), InstrumentedToolHandler("echo_tool", sc,
		func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return mcp.NewToolResultText("echoed"), nil
		}))
	s.AddTool(mcp.NewTool("drive_tool"), InstrumentedToolHandlerWithService("drive_tool", "drive", "list", sc,
		func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return mcp.NewToolResultText("listed"), nil
		}))

	tools := s.ListTools()
	require.Contains(t, tools, "echo_tool")
	require.Contains(t, tools, "drive_tool")

	result, err := tools["echo_tool"].Handler(context.Background(), mcp.CallToolRequest{})
	require.NoError(t, err)
	require.Len(t, result.Content, 1)
	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok)
	assert.Equal(t, "echoed", text.Text)
	assert.Contains(t, buf.String(), "echo_tool")
}
