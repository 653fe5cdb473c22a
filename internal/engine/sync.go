package engine

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/oasislabs/toolstate/internal/history"
	"github.com/oasislabs/toolstate/internal/store"
)

// Sync is the two-phase promotion synchronizer.
//
// Phase 1 always runs: every binary staged under BinDir is uploaded to
// cache/, and cache keys superseded by this run are queued for deletion.
//
// Phase 2 runs only when promote is true: the desired current state is
// recomputed from the full head resolution, desired keys are copied from
// cache/ into current/, stale current/ keys (including tools no longer
// declared) are queued for deletion, and a history record of the desired
// key set is appended.
//
// Deletions are issued once, after every put and copy has succeeded, so a
// crash mid-sync leaves extra objects rather than missing ones.
func (e *Engine) Sync(ctx context.Context, head, cached map[string]string, promote bool) (*SyncResult, error) {
	result := &SyncResult{}
	cachePfx := store.CachePrefix(e.Platform)
	currentPfx := store.CurrentPrefix(e.Platform)

	staged, err := e.stagedBinaries()
	if err != nil {
		return result, err
	}

	var toDelete []string

	// Phase 1: cache upload.
	for _, tool := range staged {
		rev, ok := head[tool]
		if !ok {
			continue // stray file in the staging dir
		}
		data, readErr := os.ReadFile(filepath.Join(e.BinDir, tool))
		if readErr != nil {
			return result, fmt.Errorf("reading staged binary %s: %w", tool, readErr)
		}
		key := store.Key(cachePfx, tool, rev)
		if putErr := e.Store.Put(ctx, key, data); putErr != nil {
			return result, putErr
		}
		result.Uploaded = append(result.Uploaded, key)

		if prev := cached[tool]; prev != "" && prev != rev {
			toDelete = append(toDelete, store.Key(cachePfx, tool, prev))
		}
	}

	// Phase 2: promotion. Current state is re-listed here, close to the
	// writes, to narrow the window against interleaved runs.
	if promote {
		current, listErr := store.Versions(ctx, e.Store, currentPfx)
		if listErr != nil {
			return result, listErr
		}

		for tool, rev := range current {
			if head[tool] != rev {
				toDelete = append(toDelete, store.Key(currentPfx, tool, rev))
			}
		}

		desired := make([]string, 0, len(head))
		for _, tool := range sortedTools(head) {
			rev := head[tool]
			dstKey := store.Key(currentPfx, tool, rev)
			desired = append(desired, dstKey)
			if current[tool] == rev {
				continue // already live
			}
			srcKey := store.Key(cachePfx, tool, rev)
			if copyErr := e.Store.Copy(ctx, srcKey, dstKey); copyErr != nil {
				return result, copyErr
			}
			result.Promoted = append(result.Promoted, dstKey)
		}

		rec := history.Record{Time: e.now(), Platform: e.Platform, Keys: desired}
		if appendErr := e.Log.Append(ctx, rec); appendErr != nil {
			return result, appendErr
		}
		result.Record = &rec
	}

	if err := e.Store.DeleteMany(ctx, toDelete); err != nil {
		return result, err
	}
	result.Deleted = toDelete
	return result, nil
}

// stagedBinaries lists the tool names present in the staging directory.
// A missing directory means no build was attempted.
func (e *Engine) stagedBinaries() ([]string, error) {
	entries, err := os.ReadDir(e.BinDir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading staging dir %s: %w", e.BinDir, err)
	}

	var tools []string
	for _, entry := range entries {
		if !entry.IsDir() {
			tools = append(tools, entry.Name())
		}
	}
	sort.Strings(tools)
	return tools, nil
}

func sortedTools(versions map[string]string) []string {
	tools := make([]string, 0, len(versions))
	for tool := range versions {
		tools = append(tools, tool)
	}
	sort.Strings(tools)
	return tools
}

func (e *Engine) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}
