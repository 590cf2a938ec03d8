package cmd

import (
	"github.com/spf13/cobra"
)

var (
	// Version the domevent version, set by -ldflags
	Version = "dev"
	// CommitSHA the git commit, set by -ldflags
	CommitSHA = "unknown"
)

func init() {
	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Printf("domevent %v/%v\n", Version, CommitSHA)
		},
	})
}
