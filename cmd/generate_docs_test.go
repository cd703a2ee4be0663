package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateDocs(t *testing.T) {
	e := newCLIEnv(t)

	out, _, err := e.run(t, "generate-docs")
	require.NoError(t, err)

	assert.Contains(t, out, "# MCP Tools Reference")
	assert.Contains(t, out, "## Audio Analysis Tools")
	assert.Contains(t, out, "## Google Drive Tools")
	assert.Contains(t, out, "### audio_analyze\n")
	assert.Contains(t, out, "### audio_analyze_batch")
	assert.Contains(t, out, "### drive_list_audio_files")
	assert.NotContains(t, out, "## Other")
}

func TestGenerateDocs_OutputFile(t *testing.T) {
	e := newCLIEnv(t)
	target := filepath.Join(e.dir, "TOOLS.md")

	_, stderr, err := e.run(t, "generate-docs", "-o", target)
	require.NoError(t, err)
	assert.Contains(t, stderr, target)

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Contains(t, string(data), "drive_status")
}

func TestGetCategoryFromToolName(t *testing.T) {
	assert.Equal(t, "Audio Analysis Tools", getCategoryFromToolName("audio_analyze"))
	assert.Equal(t, "Google Drive Tools", getCategoryFromToolName("drive_status"))
	assert.Equal(t, "Other", getCategoryFromToolName("ping"))
}

func TestGenerateToolMarkdown(t *testing.T) {
	tool := mcp.NewTool("audio_analyze",
		mcp.WithDescription("Analyze a recording"),
		mcp.WithString("path", mcp.Required(), mcp.Description("Local file")),
		mcp.WithString("format"),
	)

	md := generateToolMarkdown(tool)
	assert.Contains(t, md, "### audio_analyze\n\nAnalyze a recording")
	assert.Contains(t, md, "- `path` (required): Local file")
	assert.Contains(t, md, "- `format` (optional): string parameter")
}
