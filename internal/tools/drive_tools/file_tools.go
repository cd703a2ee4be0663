package drive_tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/audioinsight/internal/drive"
	"github.com/teemow/audioinsight/internal/instrumentation"
	"github.com/teemow/audioinsight/internal/server"
	"github.com/teemow/audioinsight/internal/tools/common"
)

type listResponse struct {
	Files         []*drive.FileInfo `json:"files"`
	NextPageToken string            `json:"nextPageToken,omitempty"`
}

type statusResponse struct {
	Connected bool `json:"connected"`
}

// registerFileTools registers the listing and status tools
func registerFileTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	listTool := mcp.NewTool("drive_list_audio_files",
		mcp.WithDescription("List audio files and MP4 videos in Google Drive, newest first. Use the returned id with audio_analyze's drive_file_id."),
		mcp.WithNumber("max_results",
			mcp.Description(fmt.Sprintf("Maximum number of files to return (default: %d, max: %d)", drive.DefaultPageSize, drive.MaxPageSize)),
		),
		mcp.WithString("page_token",
			mcp.Description("Page token for retrieving the next page of results"),
		),
		mcp.WithString("name_contains",
			mcp.Description("Only list files whose name contains this text"),
		),
	)

	s.AddTool(listTool, common.InstrumentedToolHandlerWithService("drive_list_audio_files",
		instrumentation.ServiceDrive, instrumentation.OperationList, sc, handleListAudioFiles(sc)))

	statusTool := mcp.NewTool("drive_status",
		mcp.WithDescription("Report whether Google Drive is connected"),
	)

	s.AddTool(statusTool, common.InstrumentedToolHandler("drive_status", sc,
		func(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			data, _ := json.MarshalIndent(statusResponse{Connected: sc.DriveSession().Connected()}, "", "  ")
			return mcp.NewToolResultText(string(data)), nil
		}))

	return nil
}

func handleListAudioFiles(sc *server.ServerContext) common.ToolHandler {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := request.GetArguments()

		maxResults, err := common.OptionalInt(args, "max_results", drive.DefaultPageSize)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		files, next, err := sc.DriveSession().ListAudioFiles(ctx, &drive.ListOptions{
			MaxResults:   maxResults,
			PageToken:    common.OptionalString(args, "page_token"),
			NameContains: common.OptionalString(args, "name_contains"),
		})
		if err != nil {
			return mcp.NewToolResultError(driveErrorMessage(err)), nil
		}
		if files == nil {
			files = []*drive.FileInfo{}
		}

		data, err := json.MarshalIndent(listResponse{Files: files, NextPageToken: next}, "", "  ")
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to encode file list: %v", err)), nil
		}
		return mcp.NewToolResultText(string(data)), nil
	}
}
