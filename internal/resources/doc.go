// Package resources provides MCP resources describing the server's state.
// Resources are read-only data sources that MCP clients can fetch: the
// active provider and connection status, the analysis prompt and the
// supported export formats. Secrets are never exposed.
package resources
