package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/teemow/audioinsight/internal/analysis"
	"github.com/teemow/audioinsight/internal/config"
	"github.com/teemow/audioinsight/internal/export"
	"github.com/teemow/audioinsight/internal/logging"
)

func newExportCmd(root *rootOptions) *cobra.Command {
	var (
		format    string
		outputDir string
		name      string
	)

	cmd := &cobra.Command{
		Use:   "export <result.json>",
		Short: "Convert a saved JSON result into another format",
		Long: `Read a result written by 'analyze --format json' (use - for stdin) and
render it as txt, csv, pdf or markdown.`,
		Example: `  audioinsight analyze --format json -o out/ standup.m4a
  audioinsight export out/standup-analysis.json --format pdf -o out/`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := export.ParseFormat(format)
			if err != nil {
				return err
			}
			if f == export.FormatPDF && outputDir == "" {
				return errors.New("pdf output needs --output-dir")
			}

			rt, err := root.load(cmd, config.Overrides{})
			if err != nil {
				return err
			}

			data, err := readInput(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}

			result, degraded := analysis.ParseResponse(string(data))
			if degraded {
				rt.logger.Warn("input is not a JSON result, exporting it as a transcription",
					logging.Operation("export"))
			}

			if name == "" {
				name = exportName(args[0])
			}
			doc := export.Document{Name: name, Result: result}

			if outputDir == "" {
				return export.Render(cmd.OutOrStdout(), doc, f)
			}
			path, err := export.WriteFile(outputDir, doc, f)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", string(export.FormatText), "Output format: txt, csv, pdf, markdown, json")
	cmd.Flags().StringVarP(&outputDir, "output-dir", "o", "", "Write the export to this directory")
	cmd.Flags().StringVar(&name, "name", "", "Recording name used in the title and file name")

	return cmd
}

func readInput(stdin io.Reader, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(stdin)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}

// exportName derives the recording name from a result file name, dropping
// the extension and a trailing "-analysis".
func exportName(path string) string {
	if path == "-" {
		return "audio"
	}
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return strings.TrimSuffix(base, "-analysis")
}
