package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/teemow/audioinsight/internal/config"
	"github.com/teemow/audioinsight/internal/instrumentation"
	"github.com/teemow/audioinsight/internal/logging"
	"github.com/teemow/audioinsight/internal/server"
	"github.com/teemow/audioinsight/internal/settings"
)

// version will be set by main
var version = "dev"

// SetVersion sets the version reported by the CLI
func SetVersion(v string) {
	version = v
}

// rootOptions holds the persistent flags shared by all commands.
type rootOptions struct {
	envFile      string
	settingsFile string
	provider     string
	model        string
	logLevel     string
	logFormat    string
}

// newRootCmd builds the command tree for the audioinsight application
func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "audioinsight",
		Short: "Transcribe and summarize audio recordings with generative AI",
		Long: `audioinsight sends an audio or video recording to a generative AI service
and returns a Markdown transcription with speaker labels, a short summary
and a list of action items.

Recordings can be local files or files picked from Google Drive. Results can
be exported as text, CSV, PDF, Markdown or JSON.

It can run as:
  - A standalone CLI tool
  - An MCP (Model Context Protocol) server for AI assistants`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.SetVersionTemplate(`{{printf "audioinsight version %s\n" .Version}}`)

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&opts.envFile, "env-file", "", "Path to .env file (default: .env in the working directory)")
	pf.StringVar(&opts.settingsFile, "settings-file", "", "Settings file (default: per-user config directory)")
	pf.StringVar(&opts.provider, "provider", "", "AI provider: gemini or openai")
	pf.StringVar(&opts.model, "model", "", "Model identifier for the AI provider")
	pf.StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	pf.StringVar(&opts.logFormat, "log-format", "", "Log format: text or json")

	rootCmd.AddCommand(newAnalyzeCmd(opts))
	rootCmd.AddCommand(newExportCmd(opts))
	rootCmd.AddCommand(newDriveCmd(opts))
	rootCmd.AddCommand(newConfigCmd(opts))
	rootCmd.AddCommand(newServeCmd(opts))
	rootCmd.AddCommand(newGenerateDocsCmd())
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

// Execute is the main entry point for the CLI application
func Execute() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	rootCmd := newRootCmd()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		cancel()
		fmt.Fprintf(rootCmd.ErrOrStderr(), "Error: %v\n", err)
		os.Exit(1)
	}
}

// runtime is the configuration, logger and settings store of one command run.
type runtime struct {
	cfg    *config.Config
	logger *slog.Logger
	store  *settings.FileStore
}

// load reads configuration and opens the settings store. Logs go to the
// command's stderr so stdout stays free for results and the stdio transport.
func (o *rootOptions) load(cmd *cobra.Command, overrides config.Overrides) (*runtime, error) {
	overrides.EnvFile = o.envFile
	overrides.Provider = o.provider
	overrides.Model = o.model
	overrides.SettingsFile = o.settingsFile
	overrides.LogLevel = o.logLevel
	overrides.LogFormat = o.logFormat

	cfg, err := config.Load(overrides)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := logging.NewLogger(cfg.LogLevel, cfg.LogFormat, cmd.ErrOrStderr())
	if err != nil {
		return nil, err
	}
	slog.SetDefault(logger)

	path, err := cfg.SettingsPath()
	if err != nil {
		return nil, fmt.Errorf("failed to locate settings file: %w", err)
	}
	store, err := settings.OpenFileStore(path)
	if err != nil {
		return nil, err
	}

	return &runtime{cfg: cfg, logger: logger, store: store}, nil
}

// serverContext creates the shared ServerContext. provider and audit may be nil.
func (rt *runtime) serverContext(ctx context.Context, provider *instrumentation.Provider, audit *instrumentation.AuditLogger) (*server.ServerContext, error) {
	sc, err := server.NewServerContext(ctx, server.Options{
		Config:      rt.cfg,
		Store:       rt.store,
		Provider:    provider,
		AuditLogger: audit,
		Logger:      rt.logger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create server context: %w", err)
	}
	return sc, nil
}

// bootstrap loads the runtime and builds an uninstrumented ServerContext.
func (o *rootOptions) bootstrap(cmd *cobra.Command, overrides config.Overrides) (*runtime, *server.ServerContext, error) {
	rt, err := o.load(cmd, overrides)
	if err != nil {
		return nil, nil, err
	}
	sc, err := rt.serverContext(cmd.Context(), nil, nil)
	if err != nil {
		return nil, nil, err
	}
	return rt, sc, nil
}
