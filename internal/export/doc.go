// Package export renders an analysis result as a downloadable document.
//
// Supported formats are plain text, CSV, PDF, Markdown and JSON. Files are
// named "<name>-analysis.<ext>" after the analyzed recording.
package export
