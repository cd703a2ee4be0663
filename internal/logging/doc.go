// Package logging provides structured logging utilities for audioinsight.
//
// All logging goes through log/slog. This package fixes the attribute names
// used across the codebase and makes sure secrets such as API keys and OAuth
// tokens are never written in clear text.
//
// # Usage Patterns
//
// Build the process logger once from configuration:
//
//	logger, err := logging.NewLogger("info", "text", os.Stderr)
//
// Attach request-scoped attributes:
//
//	logger = logger.With(logging.RequestID(id), logging.Provider("gemini"))
//	logger.Info("analysis completed", logging.MimeType("audio/mpeg"))
//
// Mask credentials before logging:
//
//	logger.Debug("calling service", slog.String("api_key", logging.SanitizeToken(key)))
//
// Logs go to stderr so stdout stays free for command output and the MCP stdio
// transport.
package logging
