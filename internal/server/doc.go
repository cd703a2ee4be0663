// Package server wires configuration, settings, Drive access and the AI
// analyzer into a ServerContext shared by the CLI and the MCP tools.
//
// # Key Components
//
// ServerContext resolves the active AI provider and credential per call,
// resolves local and Drive sources, and runs one analysis. It also builds the
// loopback OAuth flow that connects Google Drive.
//
// MetricsServer exposes Prometheus metrics and health endpoints on a
// dedicated address when the MCP server runs with --metrics-addr.
package server
