package cmd

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"
)

// Build-time variables set via -ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// Global flags.
var (
	configPath string
	platform   string
	bucket     string
	verbose    bool
	quiet      bool
)

var rootCmd = &cobra.Command{
	Use:   "toolstate",
	Short: "Build farm toolstate synchronization",
	Long: `toolstate tracks a fleet of independently-versioned tools against their
upstream sources, builds what changed, caches binaries as content-addressed
artifacts in a shared bucket, and promotes fully-validated batches into the
live distribution prefix. One runner per platform writes under its own
prefix, so runners never contend on keys.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("toolstate %s\n", version)
		fmt.Printf("  commit:  %s\n", commit)
		fmt.Printf("  built:   %s\n", date)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config.yml", "path to the tool manifest")
	rootCmd.PersistentFlags().StringVar(&platform, "platform", runtime.GOOS, "platform namespace in the store")
	rootCmd.PersistentFlags().StringVar(&bucket, "bucket", "tools.oasis.dev", "artifact bucket")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "detailed output")
	rootCmd.PersistentFlags().BoolVar(&quiet, "quiet", false, "minimal output (errors only)")

	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return err
	}
	return nil
}
