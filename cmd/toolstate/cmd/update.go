package cmd

import (
	"sort"
	"strings"

	"github.com/oasislabs/toolstate/internal/engine"
	"github.com/spf13/cobra"
)

var (
	updateWorkDir string
	updateGate    string
	updateDryRun  bool
)

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Build changed tools and promote the batch",
	Long: `Resolves every declared tool's upstream head, builds the ones whose
artifact is not already cached, uploads the results to the cache prefix,
and — if the whole batch (and the optional canary gate) succeeded —
promotes the batch into the current prefix and appends a history record.

A build failure keeps sibling cache uploads but skips promotion; the
current prefix only ever reflects a fully-validated batch.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		s, err := newStore()
		if err != nil {
			return err
		}

		eng := newEngine(s, updateWorkDir, updateGate)

		result, err := eng.Update(cmd.Context(), cfg, engine.UpdateOptions{DryRun: updateDryRun})
		if result != nil && result.UpToDate {
			info("current: %s", formatVersions(result.Head))
			return nil
		}
		if result != nil {
			if updateDryRun {
				info("Dry run — would build: %s", formatVersions(result.Planned))
				return err
			}
			if result.Sync != nil {
				for _, key := range result.Sync.Uploaded {
					detail("cached   %s", key)
				}
				for _, key := range result.Sync.Promoted {
					detail("promoted %s", key)
				}
				for _, key := range result.Sync.Deleted {
					detail("deleted  %s", key)
				}
				info("Sync complete: %d cached, %d promoted, %d deleted.",
					len(result.Sync.Uploaded), len(result.Sync.Promoted), len(result.Sync.Deleted))
			}
		}
		if err != nil {
			errorf("%s", err)
			return err
		}
		return nil
	},
}

func init() {
	updateCmd.Flags().StringVar(&updateWorkDir, "work-dir", "tools", "directory for source checkouts and staged binaries")
	updateCmd.Flags().StringVar(&updateGate, "canary-command", "", "integration gate command run before promotion")
	updateCmd.Flags().BoolVar(&updateDryRun, "dry-run", false, "resolve and plan only, no builds or store writes")

	rootCmd.AddCommand(updateCmd)
}

func formatVersions(versions map[string]string) string {
	parts := make([]string, 0, len(versions))
	for tool, rev := range versions {
		parts = append(parts, tool+"-"+rev)
	}
	sort.Strings(parts)
	return strings.Join(parts, " ")
}
