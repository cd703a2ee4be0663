package drive_tools

import (
	"errors"
	"fmt"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/audioinsight/internal/drive"
	"github.com/teemow/audioinsight/internal/server"
)

// RegisterDriveTools registers all Google Drive-related tools with the MCP server
func RegisterDriveTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	if err := registerFileTools(s, sc); err != nil {
		return fmt.Errorf("failed to register file tools: %w", err)
	}
	return nil
}

// driveErrorMessage turns a session error into guidance for the MCP client.
func driveErrorMessage(err error) string {
	switch {
	case errors.Is(err, drive.ErrNotConnected):
		return "Google Drive is not connected. Run 'audioinsight drive login' to authorize access."
	case errors.Is(err, drive.ErrAuthExpired):
		return "Google Drive authorization expired and has been cleared. Run 'audioinsight drive login' again."
	default:
		return err.Error()
	}
}
