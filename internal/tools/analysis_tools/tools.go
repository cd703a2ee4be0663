package analysis_tools

import (
	"context"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/audioinsight/internal/analysis"
	"github.com/teemow/audioinsight/internal/config"
	"github.com/teemow/audioinsight/internal/drive"
	"github.com/teemow/audioinsight/internal/export"
	"github.com/teemow/audioinsight/internal/server"
	"github.com/teemow/audioinsight/internal/source"
	"github.com/teemow/audioinsight/internal/tools/batch"
	"github.com/teemow/audioinsight/internal/tools/common"
)

// RegisterAnalysisTools registers the analysis tools with the MCP server
func RegisterAnalysisTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	analyzeTool := mcp.NewTool("audio_analyze",
		mcp.WithDescription("Transcribe an audio or video recording, summarize it and extract action items. Give either a local path or a Google Drive file id."),
		mcp.WithString("path",
			mcp.Description("Path to a local audio or video file"),
		),
		mcp.WithString("drive_file_id",
			mcp.Description("ID of a Google Drive file (see drive_list_audio_files)"),
		),
		mcp.WithString("mime_type",
			mcp.Description("MIME type of the recording (e.g. 'audio/mpeg'). Detected from the content when omitted."),
		),
		mcp.WithString("format",
			mcp.Description("Output format: json (default), markdown, txt or csv"),
			mcp.Enum("json", "markdown", "txt", "csv"),
		),
	)

	s.AddTool(analyzeTool, common.InstrumentedToolHandler("audio_analyze", sc, handleAnalyze(sc)))

	batchTool := mcp.NewTool("audio_analyze_batch",
		mcp.WithDescription("Analyze several recordings in parallel. Returns per-file results; one failure does not stop the others."),
		mcp.WithArray("paths",
			mcp.Description("Local file paths (array, or a single string)"),
			mcp.WithStringItems(),
		),
		mcp.WithArray("drive_file_ids",
			mcp.Description("Google Drive file IDs (array, or a single string)"),
			mcp.WithStringItems(),
		),
		mcp.WithNumber("concurrency",
			mcp.Description(fmt.Sprintf("Parallel requests (default: %d, max: %d)", batch.DefaultConcurrency, batch.MaxConcurrency)),
		),
	)

	s.AddTool(batchTool, common.InstrumentedToolHandler("audio_analyze_batch", sc, handleAnalyzeBatch(sc)))

	return nil
}

func handleAnalyze(sc *server.ServerContext) common.ToolHandler {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := request.GetArguments()
		path := common.OptionalString(args, "path")
		fileID := common.OptionalString(args, "drive_file_id")

		if (path == "") == (fileID == "") {
			return mcp.NewToolResultError("exactly one of path or drive_file_id is required"), nil
		}

		format, err := export.ParseFormat(common.OptionalString(args, "format"))
		if err != nil || format == export.FormatPDF {
			return mcp.NewToolResultError("format must be one of: json, markdown, txt, csv"), nil
		}

		mimeType := common.OptionalString(args, "mime_type")
		var src source.Source
		if path != "" {
			src, err = source.FromFile(path, mimeType)
		} else {
			src, err = remoteSource(ctx, sc, fileID, mimeType)
		}
		if err != nil {
			return mcp.NewToolResultError(errorMessage(err)), nil
		}

		a, err := sc.Analyze(ctx, src)
		if err != nil {
			return mcp.NewToolResultError(errorMessage(err)), nil
		}

		out, err := export.RenderString(a.Document(), format)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to render result: %v", err)), nil
		}
		return mcp.NewToolResultText(out), nil
	}
}

func handleAnalyzeBatch(sc *server.ServerContext) common.ToolHandler {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := request.GetArguments()

		_, hasPaths := args["paths"]
		_, hasIDs := args["drive_file_ids"]
		if hasPaths == hasIDs {
			return mcp.NewToolResultError("exactly one of paths or drive_file_ids is required"), nil
		}

		concurrency, err := common.OptionalInt(args, "concurrency", batch.DefaultConcurrency)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		var ids []string
		var load func(ctx context.Context, id string) (source.Source, error)
		if hasPaths {
			ids, err = batch.ParseStringOrArray(args["paths"], "paths")
			load = func(_ context.Context, path string) (source.Source, error) {
				return source.FromFile(path, "")
			}
		} else {
			ids, err = batch.ParseStringOrArray(args["drive_file_ids"], "drive_file_ids")
			load = func(ctx context.Context, id string) (source.Source, error) {
				return remoteSource(ctx, sc, id, "")
			}
		}
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		results := batch.ProcessBatch(ctx, ids, concurrency, func(ctx context.Context, id string) (any, error) {
			src, err := load(ctx, id)
			if err != nil {
				return nil, errors.New(errorMessage(err))
			}
			a, err := sc.Analyze(ctx, src)
			if err != nil {
				return nil, errors.New(errorMessage(err))
			}
			return a.Result, nil
		})

		return mcp.NewToolResultText(batch.FormatResults(results)), nil
	}
}

func remoteSource(ctx context.Context, sc *server.ServerContext, fileID, mimeType string) (source.Source, error) {
	ref, err := sc.RemoteSource(ctx, fileID)
	if err != nil {
		return nil, err
	}
	if mimeType != "" {
		ref.MIMEType = mimeType
	}
	return ref, nil
}

// errorMessage turns an analysis or Drive error into guidance for the MCP client.
func errorMessage(err error) string {
	var reqErr *analysis.RequestError
	switch {
	case errors.As(err, &reqErr):
		return reqErr.Error()
	case errors.Is(err, config.ErrAPIKeyMissing):
		return fmt.Sprintf("No API key configured: %v", err)
	case errors.Is(err, drive.ErrNotConnected):
		return "Google Drive is not connected. Run 'audioinsight drive login' to authorize access."
	case errors.Is(err, drive.ErrAuthExpired):
		return "Google Drive authorization expired and has been cleared. Run 'audioinsight drive login' again."
	default:
		return err.Error()
	}
}
