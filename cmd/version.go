package cmd

import (
	"fmt"
	goruntime "runtime"

	"github.com/spf13/cobra"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "audioinsight version %s (%s, %s/%s)\n",
				version, goruntime.Version(), goruntime.GOOS, goruntime.GOARCH)
		},
	}
}
