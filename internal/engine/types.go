package engine

import "github.com/oasislabs/toolstate/internal/history"

// SyncResult holds the outcome of the cache-and-promote phases.
type SyncResult struct {
	// Uploaded are cache keys written in phase 1.
	Uploaded []string

	// Promoted are keys copied into current/ in phase 2.
	Promoted []string

	// Deleted are stale keys removed after all writes succeeded.
	Deleted []string

	// Record is the appended history record; nil when promotion was skipped.
	Record *history.Record
}

// UpdateResult holds the outcome of a full pipeline run.
type UpdateResult struct {
	// Head is the freshly resolved tool→revision map.
	Head map[string]string

	// Planned is the subset of Head that needed building this run.
	Planned map[string]string

	// UpToDate is true when the plan was empty and the run short-circuited.
	UpToDate bool

	// Sync is the synchronizer outcome; nil when the run short-circuited
	// before any build was attempted.
	Sync *SyncResult
}
