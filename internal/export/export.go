package export

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/teemow/audioinsight/internal/analysis"
)

// Format is an export format.
type Format string

const (
	FormatText     Format = "txt"
	FormatCSV      Format = "csv"
	FormatPDF      Format = "pdf"
	FormatMarkdown Format = "markdown"
	FormatJSON     Format = "json"
)

// ErrUnknownFormat is returned for a format outside Formats().
var ErrUnknownFormat = errors.New("unknown export format")

var formats = []Format{FormatText, FormatCSV, FormatPDF, FormatMarkdown, FormatJSON}

// Formats lists the supported formats.
func Formats() []Format {
	return slices.Clone(formats)
}

// ParseFormat parses a format name. "md" and "text" are accepted as aliases.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "txt", "text":
		return FormatText, nil
	case "csv":
		return FormatCSV, nil
	case "pdf":
		return FormatPDF, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "json", "":
		return FormatJSON, nil
	}
	return "", fmt.Errorf("%w: %q (valid: txt, csv, pdf, markdown, json)", ErrUnknownFormat, s)
}

// Extension returns the file extension for f, without the dot.
func (f Format) Extension() string {
	if f == FormatMarkdown {
		return "md"
	}
	return string(f)
}

// Document is the input to every renderer.
type Document struct {
	// Name is the analyzed file name without extension.
	Name   string
	Result analysis.Result
	// Date is printed in the PDF header. Zero means now.
	Date time.Time
}

// FileName returns "<name>-analysis.<ext>".
func FileName(name string, f Format) string {
	if name == "" {
		name = "audio"
	}
	return fmt.Sprintf("%s-analysis.%s", name, f.Extension())
}

// Render writes d to w in format f.
func Render(w io.Writer, d Document, f Format) error {
	switch f {
	case FormatText:
		return Text(w, d)
	case FormatCSV:
		return CSV(w, d)
	case FormatPDF:
		return PDF(w, d)
	case FormatMarkdown:
		return Markdown(w, d)
	case FormatJSON:
		return JSON(w, d)
	}
	return fmt.Errorf("%w: %q", ErrUnknownFormat, f)
}

// RenderString renders d into a string.
func RenderString(d Document, f Format) (string, error) {
	var buf bytes.Buffer
	if err := Render(&buf, d, f); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// WriteFile renders d into dir and returns the path of the written file.
func WriteFile(dir string, d Document, f Format) (string, error) {
	var buf bytes.Buffer
	if err := Render(&buf, d, f); err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}
	path := filepath.Join(dir, FileName(d.Name, f))
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}

// Text renders the plain text export.
func Text(w io.Writer, d Document) error {
	var b strings.Builder
	fmt.Fprintf(&b, "AUDIO ANALYSIS: %s\n\n", d.Name)
	fmt.Fprintf(&b, "SUMMARY:\n%s\n\n", d.Result.Summary())
	b.WriteString("ACTION ITEMS:\n")
	for _, item := range d.Result.ActionItems() {
		fmt.Fprintf(&b, "- %s\n", item)
	}
	fmt.Fprintf(&b, "\nTRANSCRIPTION:\n%s\n", d.Result.Transcription())
	_, err := io.WriteString(w, b.String())
	return err
}

// CSV renders a two-column Section,Content table with every cell quoted.
func CSV(w io.Writer, d Document) error {
	rows := [][]string{
		{"Section", "Content"},
		{"Summary", d.Result.Summary()},
		{"Action Items", strings.Join(d.Result.ActionItems(), "; ")},
		{"Transcription", d.Result.Transcription()},
	}
	for _, row := range rows {
		cells := make([]string, len(row))
		for i, cell := range row {
			cells[i] = quoteCSV(cell)
		}
		if _, err := io.WriteString(w, strings.Join(cells, ",")+"\n"); err != nil {
			return err
		}
	}
	return nil
}

// quoteCSV quotes a cell unconditionally, doubling embedded quotes.
func quoteCSV(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// Markdown renders a sectioned Markdown document keeping emphasis.
func Markdown(w io.Writer, d Document) error {
	var b strings.Builder
	fmt.Fprintf(&b, "# Audio Analysis: %s\n\n", d.Name)
	fmt.Fprintf(&b, "## Summary\n\n%s\n\n", d.Result.Summary())
	b.WriteString("## Action Items\n\n")
	items := d.Result.ActionItems()
	if len(items) == 0 {
		b.WriteString("_None._\n")
	}
	for _, item := range items {
		fmt.Fprintf(&b, "- %s\n", item)
	}
	fmt.Fprintf(&b, "\n## Transcription\n\n%s\n", d.Result.Transcription())
	_, err := io.WriteString(w, b.String())
	return err
}

// JSON renders the result wire form.
func JSON(w io.Writer, d Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(d.Result)
}

var (
	boldPattern   = regexp.MustCompile(`\*\*(.+?)\*\*`)
	italicPattern = regexp.MustCompile(`\*([^*\n]+?)\*`)
)

// StripEmphasis removes **bold** and *italic* markers, keeping the text.
func StripEmphasis(text string) string {
	text = boldPattern.ReplaceAllString(text, "$1")
	return italicPattern.ReplaceAllString(text, "$1")
}
