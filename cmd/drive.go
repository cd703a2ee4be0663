package cmd

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/teemow/audioinsight/internal/config"
	"github.com/teemow/audioinsight/internal/drive"
	"github.com/teemow/audioinsight/internal/google"
)

func newDriveCmd(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "drive",
		Short: "Connect Google Drive and list recordings",
		Long: `Manage read-only access to Google Drive.

'drive login' opens the Google consent page and waits for the redirect on a
local port. It needs an OAuth client of type "Desktop app", configured with
'audioinsight config set-client' or GOOGLE_CLIENT_ID.`,
	}

	cmd.AddCommand(newDriveLoginCmd(root))
	cmd.AddCommand(newDriveListCmd(root))
	cmd.AddCommand(newDriveLogoutCmd(root))
	cmd.AddCommand(newDriveStatusCmd(root))

	return cmd
}

func newDriveLoginCmd(root *rootOptions) *cobra.Command {
	var noBrowser bool

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Authorize read-only access to Google Drive",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, sc, err := root.bootstrap(cmd, config.Overrides{})
			if err != nil {
				return err
			}
			defer func() { _ = sc.Shutdown() }()

			opener := google.BrowserOpener(cmd.ErrOrStderr())
			if noBrowser {
				opener = func(authURL string) error {
					fmt.Fprintf(cmd.ErrOrStderr(), "Open this URL in your browser to authorize Google Drive access:\n\n%s\n\n", authURL)
					return nil
				}
			}

			authorizer, err := sc.Authorizer(opener)
			if err != nil {
				return err
			}

			if _, err := authorizer.Authorize(cmd.Context()); err != nil {
				switch {
				case errors.Is(err, google.ErrAuthorizationCancelled):
					return errors.New("authorization was cancelled")
				case errors.Is(err, google.ErrAuthorizationTimeout):
					return errors.New("timed out waiting for authorization")
				}
				return fmt.Errorf("authorization failed: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), "Google Drive connected.")
			return nil
		},
	}

	cmd.Flags().BoolVar(&noBrowser, "no-browser", false, "Only print the authorization URL")
	return cmd
}

func newDriveListCmd(root *rootOptions) *cobra.Command {
	opts := drive.ListOptions{}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List audio and MP4 files, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, sc, err := root.bootstrap(cmd, config.Overrides{})
			if err != nil {
				return err
			}
			defer func() { _ = sc.Shutdown() }()

			files, next, err := sc.DriveSession().ListAudioFiles(cmd.Context(), &opts)
			if err != nil {
				return driveError(err)
			}

			out := cmd.OutOrStdout()
			if len(files) == 0 {
				fmt.Fprintln(out, "No audio files found.")
				return nil
			}

			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tTYPE\tSIZE\tMODIFIED")
			for _, f := range files {
				modified := ""
				if !f.ModifiedTime.IsZero() {
					modified = f.ModifiedTime.Local().Format("2006-01-02 15:04")
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", f.ID, f.Name, f.MimeType, formatSize(f.Size), modified)
			}
			if err := w.Flush(); err != nil {
				return err
			}
			if next != "" {
				fmt.Fprintf(out, "\nMore files: --page-token %s\n", next)
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.IntVarP(&opts.MaxResults, "max-results", "n", drive.DefaultPageSize, "Number of files per page")
	f.StringVar(&opts.PageToken, "page-token", "", "Page token from a previous listing")
	f.StringVar(&opts.NameContains, "name", "", "Only list files whose name contains this text")

	return cmd
}

func newDriveLogoutCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored Google Drive token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, sc, err := root.bootstrap(cmd, config.Overrides{})
			if err != nil {
				return err
			}
			defer func() { _ = sc.Shutdown() }()

			if err := sc.DriveSession().Logout(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Google Drive disconnected.")
			return nil
		},
	}
}

func newDriveStatusCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show whether Google Drive is connected",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, sc, err := root.bootstrap(cmd, config.Overrides{})
			if err != nil {
				return err
			}
			defer func() { _ = sc.Shutdown() }()

			if sc.DriveSession().Connected() {
				fmt.Fprintln(cmd.OutOrStdout(), "Google Drive: connected")
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), "Google Drive: not connected (run 'audioinsight drive login')")
			}
			return nil
		},
	}
}

// driveError adds the next step to session errors.
func driveError(err error) error {
	switch {
	case errors.Is(err, drive.ErrNotConnected):
		return fmt.Errorf("%w: run 'audioinsight drive login'", err)
	case errors.Is(err, drive.ErrAuthExpired):
		return fmt.Errorf("%w: the token was cleared, run 'audioinsight drive login' again", err)
	}
	return err
}

func formatSize(n int64) string {
	const unit = 1024
	if n <= 0 {
		return "-"
	}
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
