package resources

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/audioinsight/internal/analysis"
	"github.com/teemow/audioinsight/internal/export"
	"github.com/teemow/audioinsight/internal/server"
)

// Resource URIs.
const (
	StatusURI  = "audioinsight://status"
	PromptURI  = "audioinsight://prompt"
	FormatsURI = "audioinsight://formats"
)

// Status is the content of the status resource.
type Status struct {
	Provider       string `json:"provider"`
	ProviderError  string `json:"providerError,omitempty"`
	Credentials    bool   `json:"credentials"`
	DriveConnected bool   `json:"driveConnected"`
}

// RegisterResources registers the status, prompt and formats resources.
func RegisterResources(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	s.AddResource(mcp.NewResource(
		StatusURI,
		"Server Status",
		mcp.WithResourceDescription("Active AI provider, whether its API key is configured and whether Google Drive is connected"),
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return handleStatus(ctx, request, sc)
	})

	s.AddResource(mcp.NewResource(
		PromptURI,
		"Analysis Prompt",
		mcp.WithResourceDescription("Instructions sent to the AI provider with every recording"),
		mcp.WithMIMEType("text/plain"),
	), func(_ context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return []mcp.ResourceContents{
			&mcp.TextResourceContents{
				URI:      request.Params.URI,
				MIMEType: "text/plain",
				Text:     analysis.AnalysisPrompt,
			},
		}, nil
	})

	s.AddResource(mcp.NewResource(
		FormatsURI,
		"Export Formats",
		mcp.WithResourceDescription("Formats an analysis result can be exported to"),
		mcp.WithMIMEType("application/json"),
	), func(_ context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return jsonContents(request.Params.URI, export.Formats())
	})

	return nil
}

func handleStatus(_ context.Context, request mcp.ReadResourceRequest, sc *server.ServerContext) ([]mcp.ResourceContents, error) {
	status := Status{
		Credentials:    sc.HasCredentials(),
		DriveConnected: sc.DriveSession().Connected(),
	}
	provider, err := sc.Provider()
	if err != nil {
		status.ProviderError = err.Error()
	}
	status.Provider = provider

	return jsonContents(request.Params.URI, status)
}

func jsonContents(uri string, v any) ([]mcp.ResourceContents, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s: %w", uri, err)
	}

	return []mcp.ResourceContents{
		&mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
