package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/teemow/audioinsight/internal/config"
	"github.com/teemow/audioinsight/internal/export"
	"github.com/teemow/audioinsight/internal/server"
	"github.com/teemow/audioinsight/internal/source"
	"github.com/teemow/audioinsight/internal/tools/batch"
)

type analyzeOptions struct {
	driveFiles  []string
	mimeType    string
	format      string
	outputDir   string
	concurrency int
	timeout     time.Duration
}

func newAnalyzeCmd(root *rootOptions) *cobra.Command {
	opts := &analyzeOptions{}

	cmd := &cobra.Command{
		Use:   "analyze [file...]",
		Short: "Transcribe and summarize audio recordings",
		Long: `Send one or more recordings to the AI provider and print the transcription,
summary and action items.

Local files are given as arguments; Google Drive files with --drive-file
(run 'audioinsight drive list' to find IDs). Several recordings are analyzed
in parallel. With --output-dir each result is written to
<name>-analysis.<ext> instead of being printed.`,
		Example: `  audioinsight analyze meeting.m4a
  audioinsight analyze --format txt --output-dir out/ a.mp3 b.wav
  audioinsight analyze --drive-file 1AbCdEf --format pdf --output-dir .`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd, root, opts, args)
		},
	}

	f := cmd.Flags()
	f.StringSliceVar(&opts.driveFiles, "drive-file", nil, "Google Drive file ID to analyze (repeatable)")
	f.StringVar(&opts.mimeType, "mime-type", "", "MIME type of the recordings (detected when omitted)")
	f.StringVar(&opts.format, "format", string(export.FormatMarkdown), "Output format: txt, csv, pdf, markdown, json")
	f.StringVarP(&opts.outputDir, "output-dir", "o", "", "Write results to files in this directory")
	f.IntVar(&opts.concurrency, "concurrency", batch.DefaultConcurrency, "Parallel requests when analyzing several recordings")
	f.DurationVar(&opts.timeout, "timeout", 0, "Limit for one analysis request (0 = no limit)")

	return cmd
}

// loader reads one recording to analyze.
type loader func(ctx context.Context) (source.Source, error)

func runAnalyze(cmd *cobra.Command, root *rootOptions, opts *analyzeOptions, files []string) error {
	if len(files) == 0 && len(opts.driveFiles) == 0 {
		return errors.New("give at least one file or --drive-file")
	}

	format, err := export.ParseFormat(opts.format)
	if err != nil {
		return err
	}
	if format == export.FormatPDF && opts.outputDir == "" {
		return errors.New("pdf output needs --output-dir")
	}

	rt, sc, err := root.bootstrap(cmd, config.Overrides{Timeout: opts.timeout})
	if err != nil {
		return err
	}
	defer func() { _ = sc.Shutdown() }()

	loaders := make(map[string]loader, len(files)+len(opts.driveFiles))
	labels := make([]string, 0, len(files)+len(opts.driveFiles))
	for _, path := range files {
		loaders[path] = func(context.Context) (source.Source, error) {
			return source.FromFile(path, opts.mimeType)
		}
		labels = append(labels, path)
	}
	for _, id := range opts.driveFiles {
		label := "drive:" + id
		loaders[label] = func(ctx context.Context) (source.Source, error) {
			ref, err := sc.RemoteSource(ctx, id)
			if err != nil {
				return nil, driveError(err)
			}
			if opts.mimeType != "" {
				ref.MIMEType = opts.mimeType
			}
			return ref, nil
		}
		labels = append(labels, label)
	}

	ctx := cmd.Context()
	results := batch.ProcessBatch(ctx, labels, opts.concurrency, func(ctx context.Context, label string) (any, error) {
		src, err := loaders[label](ctx)
		if err != nil {
			return nil, err
		}
		rt.logger.Info("analyzing recording", slog.String("name", src.DisplayName()))
		return sc.Analyze(ctx, src)
	})

	out := cmd.OutOrStdout()
	var failed int
	for i, r := range results {
		if r.Status != batch.StatusSuccess {
			failed++
			fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s\n", r.ID, r.Error)
			continue
		}
		a := r.Result.(server.Analysis)
		if err := emit(out, a, format, opts.outputDir, i > 0); err != nil {
			return err
		}
	}

	if failed > 0 {
		rt.logger.Warn("some recordings failed", slog.Int("failed", failed), slog.Int("total", len(results)))
		return fmt.Errorf("%d of %d recordings failed", failed, len(results))
	}
	return nil
}

// emit prints a result or writes it into dir.
func emit(out io.Writer, a server.Analysis, format export.Format, dir string, separate bool) error {
	if dir != "" {
		path, err := export.WriteFile(dir, a.Document(), format)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%s -> %s\n", a.Name, path)
		return nil
	}

	if separate {
		fmt.Fprintln(out)
	}
	return export.Render(out, a.Document(), format)
}
