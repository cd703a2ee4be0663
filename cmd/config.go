package cmd

import (
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/teemow/audioinsight/internal/analysis"
	"github.com/teemow/audioinsight/internal/config"
	"github.com/teemow/audioinsight/internal/logging"
	"github.com/teemow/audioinsight/internal/settings"
)

func newConfigCmd(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage stored credentials and preferences",
		Long: `Manage the settings file holding the AI API key, the Google OAuth client
and the Drive token. Environment variables (GEMINI_API_KEY, GOOGLE_CLIENT_ID,
...) take precedence over stored values.`,
	}

	cmd.AddCommand(newConfigSetKeyCmd(root))
	cmd.AddCommand(newConfigSetClientCmd(root))
	cmd.AddCommand(newConfigSetProviderCmd(root))
	cmd.AddCommand(newConfigShowCmd(root))
	cmd.AddCommand(newConfigResetCmd(root))

	return cmd
}

func newConfigSetKeyCmd(root *rootOptions) *cobra.Command {
	var clientID string

	cmd := &cobra.Command{
		Use:   "set-key <api-key>",
		Short: "Store the Gemini API key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := root.load(cmd, config.Overrides{})
			if err != nil {
				return err
			}
			if err := settings.SaveCredentials(rt.store, args[0], clientID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "API key saved to %s\n", rt.store.Path())
			return nil
		},
	}

	cmd.Flags().StringVar(&clientID, "client-id", "", "Also store a Google OAuth client ID")
	return cmd
}

func newConfigSetClientCmd(root *rootOptions) *cobra.Command {
	var clientID, clientSecret string

	cmd := &cobra.Command{
		Use:   "set-client",
		Short: "Store the Google OAuth client used for Drive access",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			clientID = strings.TrimSpace(clientID)
			if clientID == "" {
				return errors.New("--client-id is required")
			}
			rt, err := root.load(cmd, config.Overrides{})
			if err != nil {
				return err
			}
			if err := rt.store.Set(settings.KeyGoogleClientID, clientID); err != nil {
				return err
			}
			if err := rt.store.Set(settings.KeyGoogleClientSecret, strings.TrimSpace(clientSecret)); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Google OAuth client saved to %s\n", rt.store.Path())
			return nil
		},
	}

	cmd.Flags().StringVar(&clientID, "client-id", "", "OAuth client ID (Desktop app)")
	cmd.Flags().StringVar(&clientSecret, "client-secret", "", "OAuth client secret, if the client has one")
	return cmd
}

func newConfigSetProviderCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:       "set-provider <gemini|openai>",
		Short:     "Store the default AI provider",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{analysis.ProviderGemini, analysis.ProviderOpenAI},
		RunE: func(cmd *cobra.Command, args []string) error {
			provider := strings.TrimSpace(args[0])
			if provider != analysis.ProviderGemini && provider != analysis.ProviderOpenAI {
				return fmt.Errorf("unknown AI provider %q", provider)
			}
			rt, err := root.load(cmd, config.Overrides{})
			if err != nil {
				return err
			}
			if err := rt.store.Set(settings.KeyAIProvider, provider); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Default provider set to %s\n", provider)
			return nil
		},
	}
}

func newConfigShowCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show stored settings with secrets masked",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := root.load(cmd, config.Overrides{})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Settings file: %s\n\n", rt.store.Path())

			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			for _, key := range settings.Keys() {
				v, ok := rt.store.Get(key)
				switch {
				case !ok:
					v = "(not set)"
				case isSecret(key):
					v = logging.SanitizeToken(v)
				}
				fmt.Fprintf(w, "%s\t%s\n", key, v)
			}
			if err := w.Flush(); err != nil {
				return err
			}

			provider, err := rt.cfg.ResolveProvider(rt.store)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "\nActive provider: %s\n", provider)
			return nil
		},
	}
}

func newConfigResetCmd(root *rootOptions) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Remove the stored API key and OAuth client",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := root.load(cmd, config.Overrides{})
			if err != nil {
				return err
			}
			if err := settings.ResetCredentials(rt.store); err != nil {
				return err
			}
			if all {
				if err := rt.store.Clear(settings.KeyDriveAccessToken, settings.KeyAIProvider); err != nil {
					return err
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Credentials removed.")
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Also forget the Drive token and provider preference")
	return cmd
}

func isSecret(key string) bool {
	switch key {
	case settings.KeyGeminiAPIKey, settings.KeyGoogleClientSecret, settings.KeyDriveAccessToken:
		return true
	}
	return false
}
