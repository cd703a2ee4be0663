// Package cmd implements the command-line interface for audioinsight.
//
// This package provides the following commands:
//   - analyze: Transcribe and summarize local files or Drive files
//   - export: Convert a saved JSON result into another format
//   - drive: Connect Google Drive (login, logout, status) and list recordings
//   - config: Store the AI API key and the Google OAuth client
//   - serve: Start the MCP server to provide tools for AI assistants
//   - generate-docs: Generate markdown documentation for all MCP tools
//   - version: Display version information
package cmd
