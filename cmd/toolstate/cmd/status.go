package cmd

import (
	"github.com/oasislabs/toolstate/internal/history"
	"github.com/oasislabs/toolstate/internal/store"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the live and cached tool versions for this platform",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newStore()
		if err != nil {
			return err
		}
		ctx := cmd.Context()

		current, err := store.Versions(ctx, s, store.CurrentPrefix(platform))
		if err != nil {
			return err
		}
		cached, err := store.Versions(ctx, s, store.CachePrefix(platform))
		if err != nil {
			return err
		}

		info("platform: %s", platform)
		info("current:  %s", formatVersions(current))
		info("cached:   %s", formatVersions(cached))

		latest, err := history.NewLog(s).Latest(ctx, platform)
		if err != nil {
			return err
		}
		if latest != nil {
			info("last promotion: %s (%d tools)", latest.Time.Format("2006-01-02 15:04:05 MST"), len(latest.Keys))
		} else {
			info("last promotion: none recorded")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
