package builder

import (
	"context"
	"os"
)

// checkout ensures repoDir holds the source at the given revision, cloning
// on first use and fetching on subsequent runs.
func (o *Orchestrator) checkout(ctx context.Context, url, revision, repoDir string) error {
	if _, err := os.Stat(repoDir); err != nil {
		if err := o.run(ctx, o.WorkDir, nil, "git", "clone", "-q", url, repoDir); err != nil {
			return err
		}
	} else {
		if err := o.run(ctx, repoDir, nil, "git", "fetch", "-q", "origin"); err != nil {
			return err
		}
	}
	return o.run(ctx, repoDir, nil, "git", "checkout", "-q", revision)
}
