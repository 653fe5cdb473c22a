// Package engine orchestrates the toolstate pipeline: resolve, plan,
// build, and synchronize artifacts into the shared store.
package engine

import (
	"context"
	"time"

	"github.com/oasislabs/toolstate/internal/builder"
	"github.com/oasislabs/toolstate/internal/canary"
	"github.com/oasislabs/toolstate/internal/config"
	"github.com/oasislabs/toolstate/internal/history"
	"github.com/oasislabs/toolstate/internal/planner"
	"github.com/oasislabs/toolstate/internal/store"
)

// VersionResolver maps the declared tool set to upstream head revisions.
type VersionResolver interface {
	HeadVersions(ctx context.Context, cfg *config.Config) (map[string]string, error)
}

// Builder produces staged binaries for a batch of tool builds.
type Builder interface {
	Reset() error
	BuildAll(ctx context.Context, builds []builder.ToolBuild) error
}

// Engine runs the toolstate pipeline for a single platform.
type Engine struct {
	Store    store.ObjectStore
	Log      *history.Log
	Resolver VersionResolver
	Builder  Builder
	Gate     canary.Gate // nil skips the integration gate
	Platform string
	BinDir   string

	// Now overrides the clock for history records. Nil means time.Now.
	Now func() time.Time
}

// UpdateOptions configures a pipeline run.
type UpdateOptions struct {
	// DryRun stops after planning: no checkout, build, or store mutation.
	DryRun bool
}

// Update runs the full pipeline. An empty needs-build set short-circuits
// successfully with no side effects. A build or gate failure still uploads
// staged binaries to cache/ before returning the original error; only
// promotion is skipped.
func (e *Engine) Update(ctx context.Context, cfg *config.Config, opts UpdateOptions) (*UpdateResult, error) {
	head, err := e.Resolver.HeadVersions(ctx, cfg)
	if err != nil {
		return nil, err
	}

	cached, err := store.Versions(ctx, e.Store, store.CachePrefix(e.Platform))
	if err != nil {
		return nil, err
	}

	result := &UpdateResult{Head: head, Planned: planner.Plan(head, cached)}
	if len(result.Planned) == 0 {
		result.UpToDate = true
		return result, nil
	}
	if opts.DryRun {
		return result, nil
	}

	if err := e.Builder.Reset(); err != nil {
		return result, err
	}

	builds := make([]builder.ToolBuild, 0, len(result.Planned))
	for _, tool := range sortedTools(result.Planned) {
		builds = append(builds, builder.ToolBuild{Tool: cfg.Tools[tool], Revision: result.Planned[tool]})
	}

	runErr := e.Builder.BuildAll(ctx, builds)
	if runErr == nil && e.Gate != nil {
		runErr = e.Gate.Run(ctx)
	}

	sync, syncErr := e.Sync(ctx, head, cached, runErr == nil)
	result.Sync = sync
	if runErr != nil {
		return result, runErr
	}
	return result, syncErr
}
